package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Row holds one sheet row keyed by canonical field name. Values are the raw
// cell text; scalar normalization happens downstream.
type Row map[string]string

// Get returns the raw cell value for a canonical field, or "" if absent.
func (r Row) Get(field string) string {
	return r[field]
}

// Table is one sheet projected onto its canonical column set.
type Table struct {
	Role    Role
	Columns []string
	Rows    []Row
}

// Dataset is the three-table input of one import or sync operation.
type Dataset struct {
	Registrations Table
	Services      Table
	Updates       Table
}

// emptyTable returns a table with the canonical columns and no rows, used
// when a workbook has no sheet for a role.
func emptyTable(role Role) Table {
	return Table{Role: role, Columns: Columns(role)}
}

// ReadWorkbook opens an XLSX workbook and extracts the three role tables.
// Sheets are matched by name alias; a missing role yields an empty table
// rather than an error. Headers are normalized per role and each sheet is
// projected onto its canonical column set: unknown source columns are
// dropped and missing canonical columns filled with blanks.
func ReadWorkbook(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	ds := &Dataset{
		Registrations: emptyTable(RoleRegistrations),
		Services:      emptyTable(RoleServices),
		Updates:       emptyTable(RoleUpdates),
	}

	for _, name := range f.GetSheetList() {
		role, ok := MatchRole(name)
		if !ok {
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		table := projectRows(role, rows)
		switch role {
		case RoleRegistrations:
			ds.Registrations = table
		case RoleServices:
			ds.Services = table
		case RoleUpdates:
			ds.Updates = table
		}
	}

	return ds, nil
}

// projectRows turns raw sheet rows (header first) into a canonical Table.
func projectRows(role Role, raw [][]string) Table {
	table := emptyTable(role)
	if len(raw) == 0 {
		return table
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = NormalizeHeader(h, role)
	}

	canonical := make(map[string]struct{}, len(table.Columns))
	for _, c := range table.Columns {
		canonical[c] = struct{}{}
	}

	for _, cells := range raw[1:] {
		row := make(Row, len(table.Columns))
		blank := true
		for i, cell := range cells {
			if i >= len(headers) {
				break
			}
			if _, ok := canonical[headers[i]]; !ok {
				continue
			}
			row[headers[i]] = cell
			if cell != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// WriteWorkbook writes a dataset back to a three-sheet XLSX workbook using
// the primary sheet name for each role.
func WriteWorkbook(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, table := range []Table{ds.Registrations, ds.Services, ds.Updates} {
		name := ExportSheetName(table.Role)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("failed to create sheet %q: %w", name, err)
			}
		}

		header := make([]interface{}, len(table.Columns))
		for j, c := range table.Columns {
			header[j] = c
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header for %q: %w", name, err)
		}

		for rowIdx, row := range table.Rows {
			values := make([]interface{}, len(table.Columns))
			for j, c := range table.Columns {
				values[j] = row.Get(c)
			}
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", rowIdx+2, name, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
