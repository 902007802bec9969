package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zeronetech/boq-procure/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO projects (name)
		VALUES (?)
		RETURNING id, name, created_at
	`, name).Scan(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, created_at FROM projects WHERE id = ? LIMIT 1
	`, id).Scan(&project).Error
	if err != nil {
		return nil, err
	}
	if project.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &project, nil
}

func (r *ProjectRepository) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, created_at FROM projects ORDER BY created_at DESC
	`).Scan(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// DeleteProject removes the project; boq_items cascade at the schema level.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM projects WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) GetLocation(ctx context.Context, code string) (*model.Location, error) {
	var location model.Location
	err := r.db.WithContext(ctx).Raw(`
		SELECT location_code AS code, location_name AS name, created_at
		FROM locations
		WHERE location_code = ?
		LIMIT 1
	`, code).Scan(&location).Error
	if err != nil {
		return nil, err
	}
	if location.Code == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &location, nil
}

func (r *ProjectRepository) ListLocations(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).Raw(`
		SELECT location_code AS code, location_name AS name, created_at
		FROM locations
		ORDER BY location_name ASC
	`).Scan(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}
