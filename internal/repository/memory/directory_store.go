package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zeronetech/boq-procure/internal/model"
)

// DirectoryStore covers the location registry and project records the
// services resolve against. Missing rows surface as gorm.ErrRecordNotFound,
// same as the Postgres repositories.
type DirectoryStore struct {
	mu        sync.Mutex
	locations map[string]model.Location
	projects  map[uuid.UUID]model.Project
}

func NewDirectoryStore() *DirectoryStore {
	return &DirectoryStore{
		locations: make(map[string]model.Location),
		projects:  make(map[uuid.UUID]model.Project),
	}
}

func (s *DirectoryStore) AddLocation(code, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[code] = model.Location{Code: code, Name: name}
}

func (s *DirectoryStore) GetLocation(_ context.Context, code string) (*model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	location, ok := s.locations[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &location, nil
}

func (s *DirectoryStore) CreateProject(_ context.Context, name string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	project := model.Project{ID: uuid.New(), Name: name}
	s.projects[project.ID] = project
	return &project, nil
}

func (s *DirectoryStore) DeleteProject(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.projects, id)
	return nil
}
