package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sukibk/textractor/internal/waiver"
)

func sampleRegistryRow() waiver.RegistryRow {
	return waiver.RegistryRow{
		OperatorID:        1,
		CompanyID:         "C1",
		FullID:            "1-C1",
		ResponsiblePerson: "Jane Doe",
		Street:            "1 Elm St",
		City:              "Springfield",
		State:             "California",
		Zip:               "90210",
		CompanyName:       "Acme LLC",
	}
}

func sampleLedgerRow() waiver.LedgerRow {
	var flags waiver.FlagSet
	flags.Add(waiver.DaylightOperations)
	flags.Add(waiver.OperatingLimitationsBCD)
	return waiver.LedgerRow{
		OperatorID:           1,
		CompanyID:            "C1",
		FullID:               "1-C1",
		EffectiveDate:        "05/04/2021",
		ExpireDate:           "05/04/2023",
		WaiverNumber:         "107W-2021-01234",
		SourceURL:            "https://faa.test/media/107W-2021-01234.pdf",
		WaivedRegulations:    flags,
		OperationsAuthorized: "Night operations per attached conditions.",
	}
}

func TestOpenXLSX_CreatesHeadedWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waivers.xlsx")

	s, err := OpenXLSX(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{locationsSheet, ledgerSheet}, f.GetSheetList())

	rows, err := f.GetRows(locationsSheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, locationHeaders, rows[0])

	rows, err = f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, ledgerHeaders(), rows[0])
}

func TestXLSXStore_RegistryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "waivers.xlsx")

	s, err := OpenXLSX(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.AppendRegistryRow(ctx, sampleRegistryRow()))
	require.NoError(t, s.Close())

	s, err = OpenXLSX(path, nil)
	require.NoError(t, err)
	defer s.Close()

	rows, err := s.LoadRegistry(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, sampleRegistryRow(), rows[0])
}

func TestXLSXStore_AppendsAfterExistingRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "waivers.xlsx")

	s, err := OpenXLSX(path, nil)
	require.NoError(t, err)
	first := sampleRegistryRow()
	second := sampleRegistryRow()
	second.OperatorID = 2
	second.FullID = "2-C1"
	require.NoError(t, s.AppendRegistryRow(ctx, first))
	require.NoError(t, s.AppendRegistryRow(ctx, second))
	require.NoError(t, s.Close())

	s, err = OpenXLSX(path, nil)
	require.NoError(t, err)
	defer s.Close()

	rows, err := s.LoadRegistry(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].OperatorID)
	assert.Equal(t, 2, rows[1].OperatorID)
}

func TestXLSXStore_LedgerFlagColumns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "waivers.xlsx")

	s, err := OpenXLSX(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.AppendLedgerRow(ctx, sampleLedgerRow()))
	require.NoError(t, s.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	headers := ledgerHeaders()
	byHeader := map[string]string{}
	for i, h := range headers {
		byHeader[h] = cell(rows[1], i)
	}

	assert.Equal(t, "1-C1", byHeader["Full ID"])
	assert.Equal(t, "05/04/2021", byHeader["Effective Date"])
	assert.Equal(t, "+", byHeader[waiver.DaylightOperations.Title()])
	assert.Equal(t, "+", byHeader[waiver.OperatingLimitationsBCD.Title()])
	assert.Equal(t, "", byHeader[waiver.VLOSOperations.Title()])
	assert.Equal(t, "Night operations per attached conditions.", byHeader["Operations Authorized"])
}

func TestXLSXStore_LoadRegistrySkipsBadRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "waivers.xlsx")

	s, err := OpenXLSX(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.AppendRegistryRow(ctx, sampleRegistryRow()))
	// Hand-edited workbooks sometimes carry stray text where the ID belongs.
	require.NoError(t, s.f.SetCellValue(locationsSheet, "A3", "n/a"))
	require.NoError(t, s.f.SetCellValue(locationsSheet, "B3", "C9"))
	require.NoError(t, s.Close())

	s, err = OpenXLSX(path, nil)
	require.NoError(t, err)
	defer s.Close()

	rows, err := s.LoadRegistry(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].OperatorID)
}

func TestXLSXStore_FlushKeepsWorkbookOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "waivers.xlsx")

	s, err := OpenXLSX(path, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.AppendLedgerRow(ctx, sampleLedgerRow()))
	require.NoError(t, s.Flush())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Len(t, rows, 2)

	// The store stays usable after a flush.
	require.NoError(t, s.AppendLedgerRow(ctx, sampleLedgerRow()))
}
