package solver

import (
	"confsched/internal/instance"
	"golang.org/x/exp/rand"
)

// MoveSeq is a lazy, potentially infinite producer of candidate moves.
// Each call returns the next move; neighbourhoods never block and never
// terminate on their own (spec.md §4.4) — callers bound consumption
// with Take.
type MoveSeq func() Move

// Take pulls up to n moves from seq.
func Take(seq MoveSeq, n int) []Move {
	out := make([]Move, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, seq())
	}
	return out
}

// streamsNeighbourhood implements spec.md §4.4's stream-grid moves:
// single-cell-set and swap-two-cells, drawn uniformly.
func streamsNeighbourhood(inst *instance.Instance, g *Grid, r *rand.Rand) MoveSeq {
	numStreams := inst.NumStreams()
	return func() Move {
		if g.Rows == 0 || g.Cols == 0 {
			return NewMove(nil, nil, nil)
		}
		if r.Intn(2) == 0 || g.Rows*g.Cols < 2 {
			// Single-cell set.
			b, room := r.Intn(g.Rows), r.Intn(g.Cols)
			value := EMPTY
			if numStreams > 0 && r.Intn(numStreams+1) > 0 {
				value = r.Intn(numStreams)
			}
			return NewMove([]int{value}, []int{b}, []int{room})
		}
		// Swap two distinct cells.
		b1, c1 := r.Intn(g.Rows), r.Intn(g.Cols)
		b2, c2 := b1, c1
		for b2 == b1 && c2 == c1 {
			b2, c2 = r.Intn(g.Rows), r.Intn(g.Cols)
		}
		v1, v2 := g.At(b1, c1), g.At(b2, c2)
		return NewMove([]int{v2, v1}, []int{b1, b2}, []int{c1, c2})
	}
}

// scheduledAbstracts returns every abstract currently placed in g,
// together with the cells it occupies.
func scheduledAbstracts(g *Grid) map[instance.AbstractID][]Cell {
	out := make(map[instance.AbstractID][]Cell)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if v := g.At(row, col); v != EMPTY {
				a := instance.AbstractID(v)
				out[a] = append(out[a], Cell{Row: row, Col: col})
			}
		}
	}
	return out
}

func unscheduleMove(cells []Cell) Move {
	items := make([]int, len(cells))
	rows := make([]int, len(cells))
	cols := make([]int, len(cells))
	for i, c := range cells {
		items[i] = EMPTY
		rows[i] = c.Row
		cols[i] = c.Col
	}
	return NewMove(items, rows, cols)
}

// abstractsNeighbourhood implements spec.md §4.4's abstract-grid
// moves: place/move, swap-same-length, and unschedule.
func abstractsNeighbourhood(inst *instance.Instance, g *Grid, r *rand.Rand) MoveSeq {
	return func() Move {
		scheduled := scheduledAbstracts(g)
		if len(scheduled) == 0 || g.Cols == 0 {
			return NewMove(nil, nil, nil)
		}
		ids := make([]instance.AbstractID, 0, len(scheduled))
		for a := range scheduled {
			ids = append(ids, a)
		}

		switch r.Intn(3) {
		case 0:
			return placeOrMoveAbstract(inst, g, r, ids, scheduled)
		case 1:
			if mv, ok := swapSameLength(g, r, ids, scheduled); ok {
				return mv
			}
			return unscheduleMove(scheduled[ids[r.Intn(len(ids))]])
		default:
			a := ids[r.Intn(len(ids))]
			return unscheduleMove(scheduled[a])
		}
	}
}

// findFit looks for a destination (r', offset) whose timeblock has at
// least k consecutive slots, scanning timeblocks starting from a
// random index so every call has a chance at variety, and rejects any
// timeblock too short to host k contiguous slots rather than spilling
// the write past its boundary (spec.md §4.4's "k consecutive slots fit
// [the chosen timeblock]"). ok is false only when no timeblock in the
// instance is long enough for k.
func findFit(inst *instance.Instance, g *Grid, r *rand.Rand, k int) (room int, start int, ok bool) {
	room = r.Intn(g.Cols)
	n := inst.NumTimeblocks()
	if n == 0 {
		return room, 0, false
	}
	first := r.Intn(n)
	for i := 0; i < n; i++ {
		tb := inst.Timeblock(instance.TimeblockID((first + i) % n))
		if tb.NumTimeslots < k {
			continue
		}
		maxOffset := tb.NumTimeslots - k
		offset := 0
		if maxOffset > 0 {
			offset = r.Intn(maxOffset + 1)
		}
		return room, tb.FirstTimeslot + offset, true
	}
	return room, 0, false
}

func placeOrMoveAbstract(inst *instance.Instance, g *Grid, r *rand.Rand, ids []instance.AbstractID, scheduled map[instance.AbstractID][]Cell) Move {
	a := ids[r.Intn(len(ids))]
	k := inst.Abstract(a).RequiredTimeslots
	destRoom, destStart, ok := findFit(inst, g, r, k)
	if !ok {
		// No timeblock is long enough to host this abstract; a no-op
		// move leaves the grid unchanged rather than corrupting it.
		return NewMove(nil, nil, nil)
	}

	var items, rows, cols []int
	for _, c := range scheduled[a] {
		items = append(items, EMPTY)
		rows = append(rows, c.Row)
		cols = append(cols, c.Col)
	}
	displaced := make(map[instance.AbstractID]struct{})
	for slot := destStart; slot < destStart+k && slot < g.Rows; slot++ {
		if v := g.At(slot, destRoom); v != EMPTY && instance.AbstractID(v) != a {
			displaced[instance.AbstractID(v)] = struct{}{}
		}
	}
	for other := range displaced {
		for _, c := range scheduled[other] {
			items = append(items, EMPTY)
			rows = append(rows, c.Row)
			cols = append(cols, c.Col)
		}
	}
	for slot := destStart; slot < destStart+k && slot < g.Rows; slot++ {
		items = append(items, int(a))
		rows = append(rows, slot)
		cols = append(cols, destRoom)
	}
	return NewMove(items, rows, cols)
}

func swapSameLength(g *Grid, r *rand.Rand, ids []instance.AbstractID, scheduled map[instance.AbstractID][]Cell) (Move, bool) {
	byLen := make(map[int][]instance.AbstractID)
	for _, a := range ids {
		byLen[len(scheduled[a])] = append(byLen[len(scheduled[a])], a)
	}
	var candidates [][]instance.AbstractID
	for _, group := range byLen {
		if len(group) >= 2 {
			candidates = append(candidates, group)
		}
	}
	if len(candidates) == 0 {
		return Move{}, false
	}
	group := candidates[r.Intn(len(candidates))]
	i := r.Intn(len(group))
	j := i
	for j == i {
		j = r.Intn(len(group))
	}
	a, b := group[i], group[j]
	cellsA, cellsB := scheduled[a], scheduled[b]

	var items, rows, cols []int
	for _, c := range cellsA {
		items = append(items, int(b))
		rows = append(rows, c.Row)
		cols = append(cols, c.Col)
	}
	for _, c := range cellsB {
		items = append(items, int(a))
		rows = append(rows, c.Row)
		cols = append(cols, c.Col)
	}
	return NewMove(items, rows, cols), true
}
