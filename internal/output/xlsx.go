// Package output renders optimizer results into report files.
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cory-johannsen/gearopt/internal/gear"
	"github.com/cory-johannsen/gearopt/internal/optimizer"
)

const resultsSheet = "Results"

// ExportResultsXLSX writes the ranked results for a hero to an XLSX workbook
// at path: one row per result with its score, the eight final stats, and the
// six gear ids in canonical slot order.
//
// Precondition: every result holds a full six-piece loadout.
func ExportResultsXLSX(path, heroName string, results []optimizer.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("naming results sheet: %w", err)
	}

	headers := []string{"Rank", "Hero", "Score"}
	for _, kind := range gear.StatKinds {
		headers = append(headers, kind.String())
	}
	for _, slot := range gear.Slots {
		headers = append(headers, slot.String()+" id")
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("addressing header cell: %w", err)
		}
		if err := f.SetCellValue(resultsSheet, cell, h); err != nil {
			return fmt.Errorf("writing header %q: %w", h, err)
		}
	}

	for i, r := range results {
		row := i + 2
		values := []interface{}{i + 1, heroName, r.Score}
		for _, kind := range gear.StatKinds {
			values = append(values, r.Final[kind])
		}
		for _, piece := range r.Loadout {
			values = append(values, piece.ID)
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("addressing cell in row %d: %w", row, err)
			}
			if err := f.SetCellValue(resultsSheet, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report %q: %w", path, err)
	}
	return nil
}
