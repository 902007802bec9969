package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeronetech/boq-procure/internal/excel"
	"github.com/zeronetech/boq-procure/internal/repository/memory"
	"github.com/zeronetech/boq-procure/internal/service"
)

func newImportService() (*service.ImportService, *memory.LineItemStore) {
	items := memory.NewLineItemStore()
	directory := memory.NewDirectoryStore()
	return service.NewImportService(directory, items, excel.NewReader(), zerolog.Nop()), items
}

func TestImportCSV(t *testing.T) {
	imports, items := newImportService()

	csvData := []byte(
		"BOQ Ref,Description,Make,Model,Unit,BOQ Qty.,Rate\n" +
			"A-1,Cat6 Cable,D-Link,NCB-C6UGRYR,Mtr,\"1,200.00\",45.50\n" +
			"A-2,Network Switch,Cisco,C1000,Nos,10,\"12,500\"\n")

	result, err := imports.Import(context.Background(), service.ImportInput{
		ProjectName: "Anant University",
		FileName:    "boq.csv",
		Content:     csvData,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Failures)

	imported, err := items.ListItems(context.Background(), result.ProjectID)
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.Equal(t, "A-1", imported[0].BOQRef)
	assert.True(t, imported[0].BOQQty.Equal(dec("1200.00")))
	assert.True(t, imported[0].Rate.Equal(dec("45.50")))
	// Amount falls back to qty * rate when the upload has no amount column.
	assert.True(t, imported[0].Amount.Equal(dec("54600.00")))
	assert.True(t, imported[0].Balance.Equal(dec("1200.00")))
	assert.True(t, imported[0].TotalDelivered.IsZero())
}

func TestImportReportsPerRowFailures(t *testing.T) {
	imports, items := newImportService()

	csvData := []byte(
		"BOQ Ref,Description,Unit,BOQ Qty,Rate\n" +
			"A-1,Cable,Mtr,100,45.50\n" +
			",Missing Ref,Nos,5,10\n" +
			"A-1,Duplicate Ref,Nos,5,10\n")

	result, err := imports.Import(context.Background(), service.ImportInput{
		ProjectName: "Site B",
		FileName:    "boq.csv",
		Content:     csvData,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, 2, result.Failures[0].Row)
	assert.Equal(t, "missing boq_ref", result.Failures[0].Reason)
	assert.Equal(t, 3, result.Failures[1].Row)
	assert.Equal(t, "A-1", result.Failures[1].BOQRef)

	imported, err := items.ListItems(context.Background(), result.ProjectID)
	require.NoError(t, err)
	assert.Len(t, imported, 1)
}

func TestImportRejectsMissingColumns(t *testing.T) {
	imports, _ := newImportService()

	_, err := imports.Import(context.Background(), service.ImportInput{
		ProjectName: "Site C",
		FileName:    "boq.csv",
		Content:     []byte("Ref,Qty\nA-1,10\n"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestImportRequiresProjectName(t *testing.T) {
	imports, _ := newImportService()

	_, err := imports.Import(context.Background(), service.ImportInput{
		ProjectName: "   ",
		FileName:    "boq.csv",
		Content:     []byte("BOQ Ref,Description,Unit,BOQ Qty,Rate\nA-1,Cable,Mtr,100,45.50\n"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
