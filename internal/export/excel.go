// Package export produces the attendee spreadsheet: a one-shot snapshot
// read projected to name / category / present, not a live view.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"ecc-register/internal/model"
)

const sheetName = "Attendees"

// NoCategory is the label used for attendees without a category assignment.
const NoCategory = "No Category"

// Workbook builds an xlsx workbook with one row per attendee.
func Workbook(attendees []model.Attendee) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := []any{"name", "category", "present"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, a := range attendees {
		category := NoCategory
		if a.Category != nil {
			category = a.Category.Name
		}
		row := []any{a.Name, category, a.Present}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

// Filename returns the download name for a workbook produced at the given
// time, e.g. ecc-register-export-0930-August-31-2026.xlsx.
func Filename(now time.Time) string {
	return fmt.Sprintf("ecc-register-export-%02d%02d-%s-%d-%d.xlsx",
		now.Hour(), now.Minute(), now.Month().String(), now.Day(), now.Year())
}
