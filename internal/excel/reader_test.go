package excel_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zeronetech/boq-procure/internal/excel"
)

func TestCleanNumeric(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"1,234.50", "1234.50"},
		{"12 345", "12345"},
		{"₹ 99", "99"},
		{"45.5 per mtr", "45.5"},
		{"", "0"},
		{"n/a", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := excel.CleanNumeric(tc.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestReadCSVHeaderMapping(t *testing.T) {
	reader := excel.NewReader()

	// Header spellings vary between uploads; all of these must map.
	rows, err := reader.ReadCSV([]byte(
		"boq ref,DESCRIPTION,make,model,Unit,BOQ Qty.,rate,Amount\n" +
			"A-1,Cable,,,Mtr,100,45.50,4550.00\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "A-1", row.BOQRef)
	assert.Equal(t, "Cable", row.Description)
	assert.Equal(t, "N/A", row.Make)
	assert.Equal(t, "N/A", row.Model)
	assert.True(t, row.BOQQty.Equal(decimal.RequireFromString("100")))
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("4550.00")))
}

func TestReadCSVMissingColumns(t *testing.T) {
	reader := excel.NewReader()
	_, err := reader.ReadCSV([]byte("Ref,Qty\nA-1,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func buildWorkbook(t *testing.T, withDecoySheet bool) []byte {
	t.Helper()
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Sheet1"
	if withDecoySheet {
		// First sheet carries no BOQ header; the reader must skip it.
		require.NoError(t, file.SetSheetRow(sheet, "A1", &[]interface{}{"Notes"}))
		require.NoError(t, file.SetSheetRow(sheet, "A2", &[]interface{}{"internal planning"}))
		_, err := file.NewSheet("PROJECT BOQ")
		require.NoError(t, err)
		sheet = "PROJECT BOQ"
	}

	header := []interface{}{"BOQ Ref", "Description", "Make", "Model", "Unit", "BOQ Qty", "Rate"}
	require.NoError(t, file.SetSheetRow(sheet, "A1", &header))
	require.NoError(t, file.SetSheetRow(sheet, "A2", &[]interface{}{"A-1", "Cat6 Cable", "D-Link", "NCB", "Mtr", "1,200", "45.50"}))
	require.NoError(t, file.SetSheetRow(sheet, "A3", &[]interface{}{"A-2", "Switch", "Cisco", "C1000", "Nos", 10, 12500}))

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	reader := excel.NewReader()

	rows, err := reader.ReadWorkbook(buildWorkbook(t, false))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0].BOQRef)
	assert.True(t, rows[0].BOQQty.Equal(decimal.RequireFromString("1200")))
	assert.True(t, rows[1].Rate.Equal(decimal.RequireFromString("12500")))
}

func TestReadWorkbookPicksSheetWithBOQHeader(t *testing.T) {
	reader := excel.NewReader()

	rows, err := reader.ReadWorkbook(buildWorkbook(t, true))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0].BOQRef)
}
