package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zeronetech/boq-procure/internal/excel"
	"github.com/zeronetech/boq-procure/internal/model"
)

// ItemInserter persists freshly imported line items.
type ItemInserter interface {
	InsertItem(ctx context.Context, item *model.LineItem) error
}

// ProjectStore is the project side of an import.
type ProjectStore interface {
	CreateProject(ctx context.Context, name string) (*model.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// ImportService loads a BOQ file into a new project. Row failures are
// collected and reported per row instead of aborting the rows that parse.
type ImportService struct {
	projects ProjectStore
	items    ItemInserter
	reader   *excel.Reader
	log      zerolog.Logger
}

func NewImportService(projects ProjectStore, items ItemInserter, reader *excel.Reader, log zerolog.Logger) *ImportService {
	return &ImportService{projects: projects, items: items, reader: reader, log: log}
}

type ImportInput struct {
	ProjectName string
	FileName    string
	Content     []byte
}

// RowFailure describes one source row that could not be imported.
type RowFailure struct {
	Row    int    `json:"row"`
	BOQRef string `json:"boq_ref,omitempty"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	ProjectID uuid.UUID    `json:"project_id"`
	Imported  int          `json:"imported"`
	Failures  []RowFailure `json:"failures,omitempty"`
}

func (s *ImportService) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	name := strings.TrimSpace(input.ProjectName)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}

	var rows []excel.Row
	var err error
	if strings.HasSuffix(strings.ToLower(input.FileName), ".csv") {
		rows, err = s.reader.ReadCSV(input.Content)
	} else {
		rows, err = s.reader.ReadWorkbook(input.Content)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file has no data rows", ErrInvalidInput)
	}

	project, err := s.projects.CreateProject(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{ProjectID: project.ID}
	for _, row := range rows {
		if failure := s.insertRow(ctx, project.ID, row); failure != nil {
			result.Failures = append(result.Failures, *failure)
			continue
		}
		result.Imported++
	}

	// An upload where nothing parsed leaves no empty shell behind.
	if result.Imported == 0 {
		if err := s.projects.DeleteProject(ctx, project.ID); err != nil {
			s.log.Error().Err(err).Str("project_id", project.ID.String()).Msg("cleanup of empty import failed")
		}
		return nil, fmt.Errorf("%w: no rows could be imported (%d failures)", ErrInvalidInput, len(result.Failures))
	}

	s.log.Info().
		Str("project", name).
		Int("imported", result.Imported).
		Int("failed", len(result.Failures)).
		Msg("boq import finished")
	return result, nil
}

func (s *ImportService) insertRow(ctx context.Context, projectID uuid.UUID, row excel.Row) *RowFailure {
	if row.BOQRef == "" {
		return &RowFailure{Row: row.Number, Reason: "missing boq_ref"}
	}
	if row.BOQQty.IsNegative() || row.Rate.IsNegative() {
		return &RowFailure{Row: row.Number, BOQRef: row.BOQRef, Reason: "negative quantity or rate"}
	}

	item := &model.LineItem{
		ProjectID:      projectID,
		BOQRef:         row.BOQRef,
		Description:    row.Description,
		Make:           row.Make,
		Model:          row.Model,
		Unit:           row.Unit,
		BOQQty:         row.BOQQty.Round(2),
		Rate:           row.Rate.Round(2),
		Amount:         row.Amount.Round(2),
		TotalDelivered: decimal.Zero,
		Balance:        row.BOQQty.Round(2),
	}
	if err := s.items.InsertItem(ctx, item); err != nil {
		return &RowFailure{Row: row.Number, BOQRef: row.BOQRef, Reason: err.Error()}
	}
	return nil
}
