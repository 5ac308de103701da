package ioxlsx

import (
	"fmt"

	"confsched/internal/instance"
	"confsched/internal/solver"
	"github.com/xuri/excelize/v2"
)

// Write produces the four output sheets of spec.md §6 into a new
// workbook at path: streams_solution, abstracts_solution,
// streams_violations, abstracts_violations.
func Write(path string, inst *instance.Instance, streamsGrid, abstractsGrid *solver.Grid, streamsViolations, abstractsViolations []solver.Violation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeStreamsSolution(f, inst, streamsGrid); err != nil {
		return err
	}
	if err := writeAbstractsSolution(f, inst, abstractsGrid); err != nil {
		return err
	}
	if err := writeViolations(f, "streams_violations", streamsViolations); err != nil {
		return err
	}
	if err := writeViolations(f, "abstracts_violations", abstractsViolations); err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("ioxlsx: save %s: %w", path, err)
	}
	return nil
}

func writeStreamsSolution(f *excelize.File, inst *instance.Instance, g *solver.Grid) error {
	const sheet = "streams_solution"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for b := 0; b < g.Rows; b++ {
		for r := 0; r < g.Cols; r++ {
			cellName, err := excelize.CoordinatesToCellName(r+1, b+1)
			if err != nil {
				return err
			}
			v := g.At(b, r)
			if v == solver.EMPTY {
				continue
			}
			if err := f.SetCellValue(sheet, cellName, inst.Stream(instance.StreamID(v)).Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeAbstractsSolution(f *excelize.File, inst *instance.Instance, g *solver.Grid) error {
	const sheet = "abstracts_solution"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for slot := 0; slot < g.Rows; slot++ {
		for r := 0; r < g.Cols; r++ {
			cellName, err := excelize.CoordinatesToCellName(r+1, slot+1)
			if err != nil {
				return err
			}
			v := g.At(slot, r)
			if v == solver.EMPTY {
				continue
			}
			if err := f.SetCellValue(sheet, cellName, inst.Abstract(instance.AbstractID(v)).Reference); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeViolations(f *excelize.File, sheet string, violations []solver.Violation) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]string{"Term", "Detail", "Cost"}); err != nil {
		return err
	}
	total := 0.0
	for i, v := range violations {
		row := i + 2
		cellName, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellName, &[]interface{}{v.Term, v.Detail, v.Cost}); err != nil {
			return err
		}
		total += v.Cost
	}
	totalCell, err := excelize.CoordinatesToCellName(1, len(violations)+2)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, totalCell, &[]interface{}{fmt.Sprintf("Total = %v", total), nil, nil})
}
