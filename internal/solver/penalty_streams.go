package solver

import (
	"fmt"

	"confsched/internal/instance"
)

// minParallel computes the minimum achievable "raw" parallel-sessions
// value for a stream with `required` sessions spread as evenly as
// possible over `blocks` timeblocks (spec.md §4.2.1-1).
func minParallel(required, blocks int) int {
	if blocks <= 0 {
		return 0
	}
	d, e := required/blocks, required%blocks
	return (blocks-e)*d*(d-1)/2 + e*(d+1)*d/2
}

// ceilDiv is integer ceiling division for non-negative operands.
func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// rawParallel returns, for stream s, the raw "pairs scheduled in
// parallel" count, summed across timeblock rows.
func rawParallel(g *Grid, s instance.StreamID) int {
	raw := 0
	for b := 0; b < g.Rows; b++ {
		c := 0
		for r := 0; r < g.Cols; r++ {
			if instance.StreamID(g.At(b, r)) == s {
				c++
			}
		}
		raw += c * (c - 1) / 2
	}
	return raw
}

func parallelPenalty(g *Grid, inst *instance.Instance, s instance.StreamID) float64 {
	raw := rawParallel(g, s)
	min := minParallel(inst.RequiredSessions(s), g.Rows)
	if d := raw - min; d > 0 {
		return float64(d)
	}
	return 0
}

func roomsUsed(g *Grid, s instance.StreamID) int {
	seen := make(map[int]struct{})
	for b := 0; b < g.Rows; b++ {
		for r := 0; r < g.Cols; r++ {
			if instance.StreamID(g.At(b, r)) == s {
				seen[r] = struct{}{}
			}
		}
	}
	return len(seen)
}

func roomsPenalty(g *Grid, inst *instance.Instance, s instance.StreamID) float64 {
	used := roomsUsed(g, s)
	min := ceilDiv(inst.RequiredSessions(s), g.Rows)
	if d := used - min; d > 0 {
		return float64(d)
	}
	return 0
}

// consecutivePenalty computes term 7 for a single stream, summed over
// every room column in which it appears.
func consecutivePenalty(g *Grid, s instance.StreamID) float64 {
	total := 0
	for r := 0; r < g.Cols; r++ {
		n, adj := 0, 0
		for b := 0; b < g.Rows; b++ {
			if instance.StreamID(g.At(b, r)) == s {
				n++
				if b < g.Rows-1 && instance.StreamID(g.At(b+1, r)) == s {
					adj++
				}
			}
		}
		if n == 0 {
			continue
		}
		if d := n - adj - 1; d > 0 {
			total += d
		}
	}
	return total
}

// streamsPresent returns the distinct non-EMPTY stream IDs present anywhere
// in g (used by the unscheduled-streams count).
func streamsPresent(g *Grid) map[instance.StreamID]struct{} {
	present := make(map[instance.StreamID]struct{})
	for i := 0; i < g.Rows*g.Cols; i++ {
		v := g.cells[i]
		if v != EMPTY {
			present[instance.StreamID(v)] = struct{}{}
		}
	}
	return present
}

// Evaluate computes the full detailed stream-grid score together with
// the reporting-only unscheduled-streams count.
func (p StreamsPenalties) Evaluate(g *Grid) (DetailedStreams, int) {
	var d DetailedStreams
	present := streamsPresent(g)
	for _, s := range p.Inst.Streams() {
		if _, ok := present[s.ID]; !ok {
			continue
		}
		d.Parallel += parallelPenalty(g, p.Inst, s.ID)
		d.Rooms += roomsPenalty(g, p.Inst, s.ID)
		d.Consecutive += consecutivePenalty(g, s.ID)
	}
	for b := 0; b < g.Rows; b++ {
		for r := 0; r < g.Cols; r++ {
			if s := g.At(b, r); s != EMPTY {
				d.StreamsSessions += p.Inst.StreamsSessionsCost(instance.StreamID(s), instance.TimeblockID(b))
				d.StreamsRooms += p.Inst.StreamsRoomsCost(instance.StreamID(s), instance.RoomID(r))
				d.SessionsRooms += p.Inst.SessionsRoomsCost(instance.TimeblockID(b), instance.RoomID(r))
			}
		}
	}
	for b := 0; b < g.Rows; b++ {
		for r := 0; r < g.Cols; r++ {
			sa := g.At(b, r)
			if sa == EMPTY {
				continue
			}
			for rp := 0; rp < g.Cols; rp++ {
				if rp == r {
					continue
				}
				sb := g.At(b, rp)
				if sb == EMPTY || sb == sa {
					continue
				}
				d.StreamsStreams += p.Inst.StreamsStreamsCost(instance.StreamID(sa), instance.StreamID(sb))
			}
		}
	}
	unscheduled := 0
	for _, s := range p.Inst.Streams() {
		if _, ok := present[s.ID]; !ok {
			unscheduled++
		}
	}
	return d, unscheduled
}

// touchedStreams returns the distinct non-EMPTY stream IDs whose
// occupancy pattern may have changed as a result of the move: the
// union of the old values overwritten and the new values written.
func touchedStreams(oldGrid *Grid, m Move) []instance.StreamID {
	items := TouchedItems(oldGrid, m)
	out := make([]instance.StreamID, 0, len(items))
	for v := range items {
		out = append(out, instance.StreamID(v))
	}
	return out
}

func touchedRows(m Move) []int {
	seen := make(map[int]struct{})
	var rows []int
	for _, r := range m.Rows {
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			rows = append(rows, r)
		}
	}
	return rows
}

// rowStreamsStreams computes the contribution of a single timeblock
// row to term 5, for use by both the full evaluator (summed over all
// rows) and the delta evaluator (restricted to touched rows).
func rowStreamsStreams(g *Grid, inst *instance.Instance, b int) float64 {
	total := 0.0
	for r := 0; r < g.Cols; r++ {
		sa := g.At(b, r)
		if sa == EMPTY {
			continue
		}
		for rp := 0; rp < g.Cols; rp++ {
			if rp == r {
				continue
			}
			sb := g.At(b, rp)
			if sb == EMPTY || sb == sa {
				continue
			}
			total += inst.StreamsStreamsCost(instance.StreamID(sa), instance.StreamID(sb))
		}
	}
	return total
}

// Delta computes the change in every stream-grid term induced by
// applying m to old (producing nw = ApplyOutOfPlace(old, m)), without
// rescanning the whole grid. Each sub-term's restriction strategy
// matches spec.md §4.2.1's "Delta strategy for stream-grid terms".
func (p StreamsPenalties) Delta(old, nw *Grid, m Move) (DetailedStreams, int) {
	var d DetailedStreams

	for _, s := range touchedStreams(old, m) {
		d.Parallel += parallelPenalty(nw, p.Inst, s) - parallelPenalty(old, p.Inst, s)
		d.Rooms += roomsPenalty(nw, p.Inst, s) - roomsPenalty(old, p.Inst, s)
		d.Consecutive += consecutivePenalty(nw, s) - consecutivePenalty(old, s)
	}

	seenCells := make(map[Cell]struct{}, len(m.Items))
	for i := range m.Items {
		b, r := m.Rows[i], m.Cols[i]
		if _, dup := seenCells[Cell{Row: b, Col: r}]; dup {
			continue
		}
		seenCells[Cell{Row: b, Col: r}] = struct{}{}
		oldVal, newVal := old.At(b, r), nw.At(b, r)
		if oldVal != EMPTY {
			d.StreamsSessions -= p.Inst.StreamsSessionsCost(instance.StreamID(oldVal), instance.TimeblockID(b))
			d.StreamsRooms -= p.Inst.StreamsRoomsCost(instance.StreamID(oldVal), instance.RoomID(r))
			d.SessionsRooms -= p.Inst.SessionsRoomsCost(instance.TimeblockID(b), instance.RoomID(r))
		}
		if newVal != EMPTY {
			d.StreamsSessions += p.Inst.StreamsSessionsCost(instance.StreamID(newVal), instance.TimeblockID(b))
			d.StreamsRooms += p.Inst.StreamsRoomsCost(instance.StreamID(newVal), instance.RoomID(r))
			d.SessionsRooms += p.Inst.SessionsRoomsCost(instance.TimeblockID(b), instance.RoomID(r))
		}
	}

	for _, b := range touchedRows(m) {
		d.StreamsStreams += rowStreamsStreams(nw, p.Inst, b) - rowStreamsStreams(old, p.Inst, b)
	}

	oldPresent := streamsPresent(old)
	newPresent := streamsPresent(nw)
	unscheduledDelta := 0
	for _, s := range touchedStreams(old, m) {
		_, wasPresent := oldPresent[s]
		_, isPresent := newPresent[s]
		if wasPresent && !isPresent {
			unscheduledDelta++
		} else if !wasPresent && isPresent {
			unscheduledDelta--
		}
	}

	return d, unscheduledDelta
}

// Violations reports offending tuples for every stream-grid term, for
// human-readable output only.
func (p StreamsPenalties) Violations(g *Grid) []Violation {
	var out []Violation
	present := streamsPresent(g)
	for _, s := range p.Inst.Streams() {
		if _, ok := present[s.ID]; !ok {
			out = append(out, Violation{Term: "Unscheduled", Detail: s.Name, Cost: 1})
			continue
		}
		if c := parallelPenalty(g, p.Inst, s.ID); c > 0 {
			out = append(out, Violation{Term: "Parallel", Detail: s.Name, Cost: c})
		}
		if c := roomsPenalty(g, p.Inst, s.ID); c > 0 {
			out = append(out, Violation{Term: "Rooms", Detail: s.Name, Cost: c})
		}
		if c := consecutivePenalty(g, s.ID); c > 0 {
			out = append(out, Violation{Term: "Consecutive", Detail: s.Name, Cost: c})
		}
	}
	for b := 0; b < g.Rows; b++ {
		for r := 0; r < g.Cols; r++ {
			sa := g.At(b, r)
			if sa == EMPTY {
				continue
			}
			for rp := r + 1; rp < g.Cols; rp++ {
				sb := g.At(b, rp)
				if sb == EMPTY || sb == sa {
					continue
				}
				cost := p.Inst.StreamsStreamsCost(instance.StreamID(sa), instance.StreamID(sb)) +
					p.Inst.StreamsStreamsCost(instance.StreamID(sb), instance.StreamID(sa))
				if cost > 0 {
					out = append(out, Violation{
						Term:   "StreamsStreams",
						Detail: fmt.Sprintf("%s vs %s in timeblock %d", p.Inst.Stream(instance.StreamID(sa)).Name, p.Inst.Stream(instance.StreamID(sb)).Name, b),
						Cost:   cost,
					})
				}
			}
		}
	}
	return out
}
