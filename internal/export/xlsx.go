// Package export writes dataset tables to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
)

// Sheet names, one per table.
const (
	SheetSeaLevel   = "SeaLevel"
	SheetCatch      = "Catch"
	SheetOceanRates = "OceanRates"
)

// ContentTypeXLSX is the MIME type of the workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook writes the three tables as sheets of one XLSX workbook.
func WriteWorkbook(w io.Writer, ds *domain.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSeaLevel); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetCatch, SheetOceanRates} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	seaLevel := [][]any{{"Year", "Sea level (mm)"}}
	for _, p := range ds.SeaLevel {
		seaLevel = append(seaLevel, []any{p.Year, p.LevelMM})
	}

	catch := [][]any{{"Year", "Region", "Label", "Catch (t)"}}
	for _, p := range ds.Catch {
		catch = append(catch, []any{p.Year, p.Region, p.Label, p.CatchTons})
	}

	rates := [][]any{{"Year", "Code", "Ocean", "Rate (mm/yr)"}}
	for _, p := range ds.OceanRates {
		rates = append(rates, []any{p.Year, p.Code, p.Ocean, p.RateMMPerYear})
	}

	for sheet, rows := range map[string][][]any{
		SheetSeaLevel:   seaLevel,
		SheetCatch:      catch,
		SheetOceanRates: rates,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
