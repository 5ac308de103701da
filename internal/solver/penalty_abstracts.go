package solver

import (
	"fmt"
	"sort"

	"confsched/internal/instance"
)

// abstractsPresent returns the distinct non-EMPTY abstract IDs present
// anywhere in the abstracts grid.
func abstractsPresent(g *Grid) map[instance.AbstractID]struct{} {
	present := make(map[instance.AbstractID]struct{})
	for i := 0; i < g.Rows*g.Cols; i++ {
		v := g.cells[i]
		if v != EMPTY {
			present[instance.AbstractID(v)] = struct{}{}
		}
	}
	return present
}

func unscheduledAbstracts(g *Grid, inst *instance.Instance) float64 {
	present := abstractsPresent(g)
	count := 0
	for _, a := range inst.Abstracts() {
		if _, ok := present[a.ID]; !ok {
			count++
		}
	}
	return float64(count)
}

// presentationOrder gathers, for one stream, the sequence of
// (abstract, order) pairs in presentation order: the stream's assigned
// (timeblock, room) cells in timeblock order; within a timeblock, rooms
// in increasing RoomID; within a (timeblock, room), abstracts in
// timeslot order (spec.md §4.2.1-9).
func presentationOrder(streamGrid, abstractsGrid *Grid, inst *instance.Instance, s instance.StreamID) []instance.Abstract {
	var order []instance.Abstract
	seen := make(map[instance.AbstractID]struct{})
	for b := 0; b < streamGrid.Rows; b++ {
		for r := 0; r < streamGrid.Cols; r++ {
			if instance.StreamID(streamGrid.At(b, r)) != s {
				continue
			}
			start, end := inst.TimeslotRange(instance.TimeblockID(b))
			for slot := start; slot < end; slot++ {
				v := abstractsGrid.At(slot, r)
				if v == EMPTY {
					continue
				}
				aid := instance.AbstractID(v)
				if _, dup := seen[aid]; dup {
					continue
				}
				seen[aid] = struct{}{}
				a := inst.Abstract(aid)
				if a.Order != instance.NoOrder {
					order = append(order, a)
				}
			}
		}
	}
	return order
}

// misorderedCount counts inversions (a1, a2) with order(a1) > order(a2)
// appearing in that relative presentation-order sequence.
func misorderedCount(seq []instance.Abstract) int {
	count := 0
	for i := 0; i < len(seq); i++ {
		for j := i + 1; j < len(seq); j++ {
			if seq[i].Order > seq[j].Order {
				count++
			}
		}
	}
	return count
}

func misorderedPenalty(streamGrid, abstractsGrid *Grid, inst *instance.Instance) float64 {
	total := 0
	for _, s := range inst.Streams() {
		seq := presentationOrder(streamGrid, abstractsGrid, inst, s.ID)
		total += misorderedCount(seq)
	}
	return float64(total)
}

// abstractsSessionsPenalty adds abstract.TimeblockCost[b] once per
// (abstract, timeblock) pair the abstract appears in.
func abstractsSessionsPenalty(g *Grid, inst *instance.Instance) float64 {
	total := 0.0
	for b := 0; b < inst.NumTimeblocks(); b++ {
		start, end := inst.TimeslotRange(instance.TimeblockID(b))
		counted := make(map[instance.AbstractID]struct{})
		for slot := start; slot < end; slot++ {
			for r := 0; r < g.Cols; r++ {
				v := g.At(slot, r)
				if v == EMPTY {
					continue
				}
				aid := instance.AbstractID(v)
				if _, ok := counted[aid]; ok {
					continue
				}
				counted[aid] = struct{}{}
				total += inst.Abstract(aid).TimeblockCost[instance.TimeblockID(b)]
			}
		}
	}
	return total
}

// clashPenalty adds 1 for every (scheduled abstract, clash-graph
// neighbour) edge whose two ends share a timeblock; per DESIGN.md Open
// Question 1, Clash and SpeakerClash both contribute independently. An
// abstract's timeblock is that of its first occupied slot in row-major
// order, the same position clashContribution uses for the delta.
func clashPenalty(g *Grid, inst *instance.Instance) float64 {
	timeblockOf := func(slot int) instance.TimeblockID { return inst.TimeblockOfTimeslot(slot) }
	scheduledTimeblock := make(map[instance.AbstractID]instance.TimeblockID)
	for slot := 0; slot < g.Rows; slot++ {
		for r := 0; r < g.Cols; r++ {
			v := g.At(slot, r)
			if v == EMPTY {
				continue
			}
			if _, seen := scheduledTimeblock[instance.AbstractID(v)]; seen {
				continue
			}
			scheduledTimeblock[instance.AbstractID(v)] = timeblockOf(slot)
		}
	}
	total := 0.0
	graph := inst.ClashGraph()
	for aid, tb := range scheduledTimeblock {
		for _, neighbour := range graph.Neighbours(aid) {
			if otherTb, ok := scheduledTimeblock[neighbour]; ok && otherTb == tb {
				total++
			}
		}
	}
	return total
}

// Evaluate computes the full detailed abstract-grid score.
func (p AbstractsPenalties) Evaluate(g *Grid) DetailedAbstracts {
	return DetailedAbstracts{
		Unscheduled: unscheduledAbstracts(g, p.Inst),
		Misordered:  misorderedPenalty(p.Stream, g, p.Inst),
		Sessions:    abstractsSessionsPenalty(g, p.Inst),
		Clashes:     clashPenalty(g, p.Inst),
	}
}

// touchedAbstracts returns the distinct non-EMPTY abstract IDs whose
// scheduling may have changed as a result of the move.
func touchedAbstracts(oldGrid *Grid, m Move) []instance.AbstractID {
	items := TouchedItems(oldGrid, m)
	out := make([]instance.AbstractID, 0, len(items))
	for v := range items {
		out = append(out, instance.AbstractID(v))
	}
	return out
}

// touchedStreamsForCells maps every cell written by the move back to the
// stream that owns its (timeblock, room) position in the fixed stream
// grid (for the misordered-abstracts delta restriction, spec.md
// §4.2.1-9's "Delta restricted to streams whose column-set was
// touched"). A stream's presentation order reads only its own cells, so
// no other stream's sequence can change.
func touchedStreamsForCells(inst *instance.Instance, streamGrid *Grid, m Move) []instance.StreamID {
	seen := make(map[instance.StreamID]struct{})
	var out []instance.StreamID
	for i := range m.Rows {
		v := streamGrid.At(int(inst.TimeblockOfTimeslot(m.Rows[i])), m.Cols[i])
		if v == EMPTY {
			continue
		}
		s := instance.StreamID(v)
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// Delta computes the change in every abstract-grid term induced by
// applying m to old, without rescanning the whole grid.
func (p AbstractsPenalties) Delta(old, nw *Grid, m Move) DetailedAbstracts {
	var d DetailedAbstracts

	touched := touchedAbstracts(old, m)
	oldPresent := abstractsPresent(old)
	newPresent := abstractsPresent(nw)
	for _, a := range touched {
		_, wasPresent := oldPresent[a]
		_, isPresent := newPresent[a]
		if wasPresent && !isPresent {
			d.Unscheduled++
		} else if !wasPresent && isPresent {
			d.Unscheduled--
		}
	}

	for _, s := range touchedStreamsForCells(p.Inst, p.Stream, m) {
		before := misorderedCount(presentationOrder(p.Stream, old, p.Inst, s))
		after := misorderedCount(presentationOrder(p.Stream, nw, p.Inst, s))
		d.Misordered += float64(after - before)
	}

	touchedTimeblocks := make(map[instance.TimeblockID]struct{})
	for i := range m.Rows {
		touchedTimeblocks[p.Inst.TimeblockOfTimeslot(m.Rows[i])] = struct{}{}
	}
	for tb := range touchedTimeblocks {
		before := timeblockSessionsCost(old, p.Inst, tb)
		after := timeblockSessionsCost(nw, p.Inst, tb)
		d.Sessions += after - before
	}

	before := 0.0
	after := 0.0
	seenAbstracts := make(map[instance.AbstractID]struct{})
	for _, a := range touched {
		seenAbstracts[a] = struct{}{}
		for _, nb := range p.Inst.ClashGraph().Neighbours(a) {
			seenAbstracts[nb] = struct{}{}
		}
		for _, declarer := range p.Inst.ClashGraph().Declarers(a) {
			seenAbstracts[declarer] = struct{}{}
		}
	}
	for a := range seenAbstracts {
		before += clashContribution(old, p.Inst, a)
		after += clashContribution(nw, p.Inst, a)
	}
	d.Clashes += after - before

	return d
}

func timeblockSessionsCost(g *Grid, inst *instance.Instance, tb instance.TimeblockID) float64 {
	start, end := inst.TimeslotRange(tb)
	counted := make(map[instance.AbstractID]struct{})
	total := 0.0
	for slot := start; slot < end; slot++ {
		for r := 0; r < g.Cols; r++ {
			v := g.At(slot, r)
			if v == EMPTY {
				continue
			}
			aid := instance.AbstractID(v)
			if _, ok := counted[aid]; ok {
				continue
			}
			counted[aid] = struct{}{}
			total += inst.Abstract(aid).TimeblockCost[tb]
		}
	}
	return total
}

func clashContribution(g *Grid, inst *instance.Instance, a instance.AbstractID) float64 {
	slot, room, ok := findAbstractFirstSlot(g, a)
	if !ok {
		return 0
	}
	tb := inst.TimeblockOfTimeslot(slot)
	_ = room
	total := 0.0
	for _, nb := range inst.ClashGraph().Neighbours(a) {
		if nbSlot, _, ok := findAbstractFirstSlot(g, nb); ok && inst.TimeblockOfTimeslot(nbSlot) == tb {
			total++
		}
	}
	return total
}

func findAbstractFirstSlot(g *Grid, a instance.AbstractID) (slot, room int, ok bool) {
	for s := 0; s < g.Rows; s++ {
		for r := 0; r < g.Cols; r++ {
			if instance.AbstractID(g.At(s, r)) == a {
				return s, r, true
			}
		}
	}
	return 0, 0, false
}

// Violations reports offending tuples for every abstract-grid term.
func (p AbstractsPenalties) Violations(g *Grid) []Violation {
	var out []Violation
	present := abstractsPresent(g)
	for _, a := range p.Inst.Abstracts() {
		if _, ok := present[a.ID]; !ok {
			out = append(out, Violation{Term: "Unscheduled", Detail: a.Reference, Cost: 1})
		}
	}
	for _, s := range p.Inst.Streams() {
		seq := presentationOrder(p.Stream, g, p.Inst, s.ID)
		for i := 0; i < len(seq); i++ {
			for j := i + 1; j < len(seq); j++ {
				if seq[i].Order > seq[j].Order {
					out = append(out, Violation{
						Term:   "Order",
						Detail: fmt.Sprintf("%s (order %d) before %s (order %d)", seq[i].Reference, seq[i].Order, seq[j].Reference, seq[j].Order),
						Cost:   1,
					})
				}
			}
		}
	}
	scheduledTimeblock := make(map[instance.AbstractID]instance.TimeblockID)
	for slot := 0; slot < g.Rows; slot++ {
		for r := 0; r < g.Cols; r++ {
			if v := g.At(slot, r); v != EMPTY {
				scheduledTimeblock[instance.AbstractID(v)] = p.Inst.TimeblockOfTimeslot(slot)
			}
		}
	}
	reported := make(map[[2]instance.AbstractID]struct{})
	ids := make([]instance.AbstractID, 0, len(scheduledTimeblock))
	for a := range scheduledTimeblock {
		ids = append(ids, a)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, a := range ids {
		tb := scheduledTimeblock[a]
		for _, nb := range p.Inst.ClashGraph().Neighbours(a) {
			if otherTb, ok := scheduledTimeblock[nb]; ok && otherTb == tb {
				key := [2]instance.AbstractID{a, nb}
				if a > nb {
					key = [2]instance.AbstractID{nb, a}
				}
				if _, dup := reported[key]; dup {
					continue
				}
				reported[key] = struct{}{}
				out = append(out, Violation{
					Term:   "Clash",
					Detail: fmt.Sprintf("%s clashes with %s in timeblock %d", p.Inst.Abstract(a).Reference, p.Inst.Abstract(nb).Reference, tb),
					Cost:   1,
				})
			}
		}
	}
	return out
}
