package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sukibk/textractor/internal/waiver"
)

const (
	locationsSheet = "Locations"
	ledgerSheet    = "Waiver Data"
)

var locationHeaders = []string{
	"Operator ID",
	"Company ID",
	"Full ID",
	"Responsible Person",
	"Street Name and Number",
	"City",
	"State",
	"Zip Code",
	"Company Name",
}

func ledgerHeaders() []string {
	headers := []string{
		"Operator ID",
		"Company ID",
		"Full ID",
		"Effective Date",
		"Expire Date",
		"Waiver Number",
		"Source URL",
	}
	for _, f := range waiver.AllRegulationFlags {
		headers = append(headers, f.Title())
	}
	return append(headers, "Operations Authorized")
}

// XLSXStore keeps the registry and ledger in one workbook. Appends update the
// in-memory workbook; Close persists it.
type XLSXStore struct {
	path   string
	f      *excelize.File
	logger *slog.Logger
}

// OpenXLSX opens the workbook at path, creating it with headed Locations and
// Waiver Data sheets when absent.
func OpenXLSX(path string, logger *slog.Logger) (*XLSXStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		s := &XLSXStore{path: path, f: f, logger: logger}
		if err := s.ensureSheets(); err != nil {
			return nil, err
		}
		return s, nil
	}

	f := excelize.NewFile()
	s := &XLSXStore{path: path, f: f, logger: logger}
	if err := s.ensureSheets(); err != nil {
		return nil, err
	}
	// Drop the default sheet so the workbook holds only our two tables.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
		_ = f.DeleteSheet("Sheet1")
	}
	logger.Info("store.xlsx.created", "path", path)
	return s, nil
}

func (s *XLSXStore) ensureSheets() error {
	if err := s.ensureSheet(locationsSheet, locationHeaders); err != nil {
		return err
	}
	return s.ensureSheet(ledgerSheet, ledgerHeaders())
}

func (s *XLSXStore) ensureSheet(sheet string, headers []string) error {
	if idx, _ := s.f.GetSheetIndex(sheet); idx >= 0 {
		return nil
	}
	if _, err := s.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return s.writeRow(sheet, 1, values)
}

func (s *XLSXStore) LoadRegistry(_ context.Context) ([]waiver.RegistryRow, error) {
	rows, err := s.f.GetRows(locationsSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", locationsSheet, err)
	}

	var out []waiver.RegistryRow
	for i, row := range rows {
		if i == 0 || rowEmpty(row) {
			continue
		}
		operatorID, err := strconv.Atoi(strings.TrimSpace(cell(row, 0)))
		if err != nil {
			s.logger.Warn("store.xlsx.bad_operator_id", "row", i+1, "value", cell(row, 0))
			continue
		}
		out = append(out, waiver.RegistryRow{
			OperatorID:        operatorID,
			CompanyID:         strings.TrimSpace(cell(row, 1)),
			FullID:            strings.TrimSpace(cell(row, 2)),
			ResponsiblePerson: strings.TrimSpace(cell(row, 3)),
			Street:            strings.TrimSpace(cell(row, 4)),
			City:              strings.TrimSpace(cell(row, 5)),
			State:             strings.TrimSpace(cell(row, 6)),
			Zip:               strings.TrimSpace(cell(row, 7)),
			CompanyName:       strings.TrimSpace(cell(row, 8)),
		})
	}
	return out, nil
}

func (s *XLSXStore) AppendRegistryRow(_ context.Context, row waiver.RegistryRow) error {
	r, err := s.firstEmptyRow(locationsSheet)
	if err != nil {
		return err
	}
	return s.writeRow(locationsSheet, r, []any{
		row.OperatorID,
		row.CompanyID,
		row.FullID,
		row.ResponsiblePerson,
		row.Street,
		row.City,
		row.State,
		row.Zip,
		row.CompanyName,
	})
}

func (s *XLSXStore) AppendLedgerRow(_ context.Context, row waiver.LedgerRow) error {
	r, err := s.firstEmptyRow(ledgerSheet)
	if err != nil {
		return err
	}
	values := []any{
		row.OperatorID,
		row.CompanyID,
		row.FullID,
		row.EffectiveDate,
		row.ExpireDate,
		row.WaiverNumber,
		row.SourceURL,
	}
	for _, f := range waiver.AllRegulationFlags {
		if row.WaivedRegulations.Has(f) {
			values = append(values, "+")
		} else {
			values = append(values, "")
		}
	}
	values = append(values, row.OperationsAuthorized)
	return s.writeRow(ledgerSheet, r, values)
}

// Flush saves the workbook to disk without closing it. Long-running callers
// flush after each append so a crash cannot lose a processed document.
func (s *XLSXStore) Flush() error {
	if err := s.f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Close saves the workbook to disk.
func (s *XLSXStore) Close() error {
	if err := s.f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return s.f.Close()
}

// firstEmptyRow returns the 1-based index of the first fully-empty row after
// the header, or the logical end of the sheet.
func (s *XLSXStore) firstEmptyRow(sheet string) (int, error) {
	rows, err := s.f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", sheet, err)
	}
	for i, row := range rows {
		if i > 0 && rowEmpty(row) {
			return i + 1, nil
		}
	}
	return len(rows) + 1, nil
}

func (s *XLSXStore) writeRow(sheet string, row int, values []any) error {
	for i, v := range values {
		cellName, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := s.f.SetCellValue(sheet, cellName, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cellName, err)
		}
	}
	return nil
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
