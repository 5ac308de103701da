package ioxlsx

import (
	"fmt"

	"confsched/internal/instance"
	"confsched/internal/solver"
	"github.com/xuri/excelize/v2"
)

// LoadResume reads a previously written output workbook's solution
// sheet back into a grid, for use as a scheduler's seed (SPEC_FULL.md
// §4.3 "Resume/seed support", spec.md §6's `-s` flag). rows/cols must
// match the target instance's expected grid shape.
func LoadResume(path, sheet string, inst *instance.Instance, rows, cols int, nameToID func(name string) (int, bool)) (*solver.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ioxlsx: open resume file %s: %w", path, err)
	}
	defer f.Close()

	data, err := f.GetRows(sheet)
	if err != nil || data == nil {
		return nil, fmt.Errorf("%w: %s", instance.ErrMissingSheet, sheet)
	}

	// excelize.GetRows trims each row to its last populated cell and
	// drops wholly-empty trailing rows, not to the sheet's nominal
	// dimensions — a solved grid with empty trailing columns/rows
	// (the common case for a sparse solution written by Write) round-
	// trips short. Pad back out to (rows, cols) before validating shape
	// so only a genuine dimension mismatch is reported as an error.
	for len(data) < rows {
		data = append(data, nil)
	}
	if len(data) != rows {
		return nil, fmt.Errorf("%w: resume sheet %q has %d rows, expected %d", instance.ErrIncompatibleDimensions, sheet, len(data), rows)
	}

	g := solver.NewGrid(rows, cols)
	for r, row := range data {
		if len(row) > cols {
			return nil, fmt.Errorf("%w: resume sheet %q row %d has %d columns, expected %d", instance.ErrIncompatibleDimensions, sheet, r, len(row), cols)
		}
		for len(row) < cols {
			row = append(row, "")
		}
		for c, v := range row {
			if v == "" {
				continue
			}
			id, ok := nameToID(v)
			if !ok {
				return nil, fmt.Errorf("%w: resume sheet %q cell (%d,%d) references unknown %q", instance.ErrUnknownReference, sheet, r, c, v)
			}
			g.Set(r, c, id)
		}
	}
	return g, nil
}
