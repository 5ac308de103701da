package solver

import (
	"sort"

	"confsched/internal/instance"
)

// GreedyConstructAbstracts builds an initial AbstractsGrid by the
// greedy constructive algorithm of spec.md §4.3: for each stream in ID
// order, gather its (timeblock, room) cells from streamGrid, sort its
// abstracts by (order asc, id asc) with unordered abstracts sorted
// last, and place each into the first cell that fits.
func GreedyConstructAbstracts(inst *instance.Instance, streamGrid *Grid) *Grid {
	abstractsGrid := NewGrid(inst.NumTimeslots(), inst.NumRooms())

	for _, stream := range inst.Streams() {
		cells := streamCells(streamGrid, stream.ID)
		abstracts := sortedAbstracts(inst.AbstractsByStream(stream.ID), inst)

		for _, aid := range abstracts {
			k := inst.Abstract(aid).RequiredTimeslots
			placeAbstract(inst, abstractsGrid, cells, aid, k)
		}
	}

	return abstractsGrid
}

// streamCell is a (timeblock, room) pair assigned to a stream.
type streamCell struct {
	timeblock instance.TimeblockID
	room      int
}

func streamCells(streamGrid *Grid, s instance.StreamID) []streamCell {
	var cells []streamCell
	for b := 0; b < streamGrid.Rows; b++ {
		for r := 0; r < streamGrid.Cols; r++ {
			if instance.StreamID(streamGrid.At(b, r)) == s {
				cells = append(cells, streamCell{timeblock: instance.TimeblockID(b), room: r})
			}
		}
	}
	return cells
}

func sortedAbstracts(ids []instance.AbstractID, inst *instance.Instance) []instance.AbstractID {
	out := make([]instance.AbstractID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool {
		ai, aj := inst.Abstract(out[i]), inst.Abstract(out[j])
		oi, oj := ai.Order, aj.Order
		if oi == instance.NoOrder && oj == instance.NoOrder {
			return out[i] < out[j]
		}
		if oi == instance.NoOrder {
			return false
		}
		if oj == instance.NoOrder {
			return true
		}
		if oi != oj {
			return oi < oj
		}
		return out[i] < out[j]
	})
	return out
}

// placeAbstract applies spec.md §4.3's two placement rules in order,
// falling through to "skip" (leaving the abstract unscheduled) if
// neither fits in any of the stream's cells.
func placeAbstract(inst *instance.Instance, grid *Grid, cells []streamCell, a instance.AbstractID, k int) {
	for _, c := range cells {
		tb := inst.Timeblock(c.timeblock)
		if tb.NumTimeslots != k {
			continue
		}
		if timeblockEmpty(grid, tb, c.room) {
			fillTimeblock(grid, tb, c.room, a)
			return
		}
	}
	for _, c := range cells {
		tb := inst.Timeblock(c.timeblock)
		if tb.NumTimeslots <= k {
			continue
		}
		if start, ok := trailingFreeRun(grid, tb, c.room, k); ok {
			for slot := start; slot < start+k; slot++ {
				grid.Set(slot, c.room, int(a))
			}
			return
		}
	}
	// No cell fits; the abstract is left unscheduled and will surface
	// as the unscheduled-abstracts penalty.
}

func timeblockEmpty(grid *Grid, tb instance.Timeblock, room int) bool {
	for slot := tb.FirstTimeslot; slot < tb.FirstTimeslot+tb.NumTimeslots; slot++ {
		if grid.At(slot, room) != EMPTY {
			return false
		}
	}
	return true
}

func fillTimeblock(grid *Grid, tb instance.Timeblock, room int, a instance.AbstractID) {
	for slot := tb.FirstTimeslot; slot < tb.FirstTimeslot+tb.NumTimeslots; slot++ {
		grid.Set(slot, room, int(a))
	}
}

// trailingFreeRun reports whether the last `k` slots of tb's column
// (room) are free, returning the start of the whole trailing run of
// empty slots (the first empty slot after the last occupied one), which
// may be longer than k. This requires the timeblock's very last slot to
// be empty (spec.md §4.3 rule 2's "has EMPTY at its last slot") and a
// contiguous run of at least k empty slots ending at that last slot.
func trailingFreeRun(grid *Grid, tb instance.Timeblock, room, k int) (start int, ok bool) {
	last := tb.FirstTimeslot + tb.NumTimeslots - 1
	if grid.At(last, room) != EMPTY {
		return 0, false
	}
	run := 0
	for slot := last; slot >= tb.FirstTimeslot; slot-- {
		if grid.At(slot, room) != EMPTY {
			break
		}
		run++
	}
	if run < k {
		return 0, false
	}
	return last - run + 1, true
}
