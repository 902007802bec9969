package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/zeronetech/boq-procure/internal/model"
)

// DirectoryRepository holds the company directory: suppliers, bill-to
// companies and ship-to addresses referenced when a PO is produced.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, address, gst_number, contact_person, contact_number, created_at
		FROM suppliers
		ORDER BY name ASC
	`).Scan(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *DirectoryRepository) CreateSupplier(ctx context.Context, supplier *model.Supplier) (*model.Supplier, error) {
	var saved model.Supplier
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO suppliers (name, address, gst_number, contact_person, contact_number)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, name, address, gst_number, contact_person, contact_number, created_at
	`, supplier.Name, supplier.Address, supplier.GSTNumber, supplier.ContactPerson, supplier.ContactNumber).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *DirectoryRepository) ListBillToCompanies(ctx context.Context) ([]model.BillToCompany, error) {
	var companies []model.BillToCompany
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, company_name, address, gst_number, contact_person, contact_number, created_at
		FROM bill_to_companies
		ORDER BY company_name ASC
	`).Scan(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *DirectoryRepository) CreateBillToCompany(ctx context.Context, company *model.BillToCompany) (*model.BillToCompany, error) {
	var saved model.BillToCompany
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO bill_to_companies (company_name, address, gst_number, contact_person, contact_number)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, company_name, address, gst_number, contact_person, contact_number, created_at
	`, company.CompanyName, company.Address, company.GSTNumber, company.ContactPerson, company.ContactNumber).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *DirectoryRepository) ListShipToAddresses(ctx context.Context) ([]model.ShipToAddress, error) {
	var addresses []model.ShipToAddress
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, address, gst_number, contact_person, contact_number, created_at
		FROM ship_to_addresses
		ORDER BY name ASC
	`).Scan(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *DirectoryRepository) CreateShipToAddress(ctx context.Context, address *model.ShipToAddress) (*model.ShipToAddress, error) {
	var saved model.ShipToAddress
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO ship_to_addresses (name, address, gst_number, contact_person, contact_number)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, name, address, gst_number, contact_person, contact_number, created_at
	`, address.Name, address.Address, address.GSTNumber, address.ContactPerson, address.ContactNumber).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
