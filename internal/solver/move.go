package solver

// Move is a change set: a triple of equal-length slices meaning "set
// cell (Rows[i], Cols[i]) := Items[i]" for every i. EMPTY removes the
// entry. Moves are always expressed in this abstract form so that
// delta evaluators depend only on the diff, never on which
// neighbourhood produced it.
type Move struct {
	Items []int
	Rows  []int
	Cols  []int
}

// NewMove builds a move from parallel slices of equal length.
func NewMove(items, rows, cols []int) Move {
	if len(items) != len(rows) || len(items) != len(cols) {
		panic("solver: move triples must have equal length")
	}
	return Move{Items: items, Rows: rows, Cols: cols}
}

// Len is the number of cell writes in the move.
func (m Move) Len() int { return len(m.Items) }

// Apply writes the move into g in place.
func Apply(g *Grid, m Move) {
	for i := range m.Items {
		g.Set(m.Rows[i], m.Cols[i], m.Items[i])
	}
}

// ApplyOutOfPlace returns a new grid with the move applied, leaving g
// unchanged.
func ApplyOutOfPlace(g *Grid, m Move) *Grid {
	cp := g.Clone()
	Apply(cp, m)
	return cp
}

// Cell is a (row, col) position.
type Cell struct{ Row, Col int }

// CellsTouched returns the set of positions written by the move.
// Ordering is not significant.
func CellsTouched(m Move) []Cell {
	cells := make([]Cell, len(m.Rows))
	for i := range m.Rows {
		cells[i] = Cell{Row: m.Rows[i], Col: m.Cols[i]}
	}
	return cells
}

// TouchedItems returns the set of distinct non-EMPTY values that
// appear either as the move's new values or (via oldGrid) as the
// values being overwritten. Used by slot-tabu and by the unscheduled-
// count delta restriction.
func TouchedItems(oldGrid *Grid, m Move) map[int]struct{} {
	items := make(map[int]struct{})
	for i := range m.Rows {
		if old := oldGrid.At(m.Rows[i], m.Cols[i]); old != EMPTY {
			items[old] = struct{}{}
		}
		if m.Items[i] != EMPTY {
			items[m.Items[i]] = struct{}{}
		}
	}
	return items
}
