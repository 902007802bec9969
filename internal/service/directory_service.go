package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeronetech/boq-procure/internal/model"
	"github.com/zeronetech/boq-procure/internal/repository"
)

// DirectoryService fronts the company directory and location registry.
type DirectoryService struct {
	directory *repository.DirectoryRepository
	projects  *repository.ProjectRepository
}

func NewDirectoryService(directory *repository.DirectoryRepository, projects *repository.ProjectRepository) *DirectoryService {
	return &DirectoryService{directory: directory, projects: projects}
}

func (s *DirectoryService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.directory.ListSuppliers(ctx)
}

func (s *DirectoryService) CreateSupplier(ctx context.Context, supplier model.Supplier) (*model.Supplier, error) {
	if strings.TrimSpace(supplier.Name) == "" {
		return nil, fmt.Errorf("%w: supplier name is required", ErrInvalidInput)
	}
	return s.directory.CreateSupplier(ctx, &supplier)
}

func (s *DirectoryService) ListBillToCompanies(ctx context.Context) ([]model.BillToCompany, error) {
	return s.directory.ListBillToCompanies(ctx)
}

func (s *DirectoryService) CreateBillToCompany(ctx context.Context, company model.BillToCompany) (*model.BillToCompany, error) {
	if strings.TrimSpace(company.CompanyName) == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	return s.directory.CreateBillToCompany(ctx, &company)
}

func (s *DirectoryService) ListShipToAddresses(ctx context.Context) ([]model.ShipToAddress, error) {
	return s.directory.ListShipToAddresses(ctx)
}

func (s *DirectoryService) CreateShipToAddress(ctx context.Context, address model.ShipToAddress) (*model.ShipToAddress, error) {
	if strings.TrimSpace(address.Name) == "" {
		return nil, fmt.Errorf("%w: ship-to name is required", ErrInvalidInput)
	}
	return s.directory.CreateShipToAddress(ctx, &address)
}

func (s *DirectoryService) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.projects.ListLocations(ctx)
}
