package solver

import "confsched/internal/instance"

// Weights is the 12-component penalty weight vector, in the exact CLI
// order from spec.md §6:
//
//	0 parallel streams            6  streams x streams
//	1 rooms per stream             7  unscheduled abstracts
//	2 rooms per stream (surrogate) 8  misordered abstracts
//	3 streams x sessions           9  abstracts x sessions
//	4 streams x rooms              10 abstracts x abstracts
//	5 sessions x rooms             11 consecutive sessions
type Weights [12]float64

// DefaultWeights is the CLI's documented default vector.
var DefaultWeights = Weights{1, 10, 1, 100, 1, 10, 1, 10000, 1000, 100, 10, 1}

// DetailedStreams is the named per-term breakdown of the stream-grid
// score, one field per weighted stream term (8 fields, per spec.md §9
// and DESIGN.md Open Question 2 — "unscheduled streams" has no
// dedicated weight and is not part of this record; its reporting-only
// count is the second result of StreamsPenalties.Evaluate, and
// StreamsPenalties.Violations lists it under the "Unscheduled" term).
type DetailedStreams struct {
	Parallel        float64
	Rooms           float64
	RoomsSurrogate  float64
	StreamsSessions float64
	StreamsRooms    float64
	SessionsRooms   float64
	StreamsStreams  float64
	Consecutive     float64
}

// Weighted sums the record against w, using weight indices 0,1,2,3,4,5,6,11.
func (d DetailedStreams) Weighted(w Weights) float64 {
	return w[0]*d.Parallel + w[1]*d.Rooms + w[2]*d.RoomsSurrogate +
		w[3]*d.StreamsSessions + w[4]*d.StreamsRooms + w[5]*d.SessionsRooms +
		w[6]*d.StreamsStreams + w[11]*d.Consecutive
}

// DetailedAbstracts is the named per-term breakdown of the
// abstract-grid score (4 fields, per spec.md §9), using weight indices
// 7,8,9,10.
type DetailedAbstracts struct {
	Unscheduled float64
	Misordered  float64
	Sessions    float64
	Clashes     float64
}

func (d DetailedAbstracts) Weighted(w Weights) float64 {
	return w[7]*d.Unscheduled + w[8]*d.Misordered + w[9]*d.Sessions + w[10]*d.Clashes
}

// Violation is a term-specific, human-readable offending-tuple record
// for reporting only; never on the hot path.
type Violation struct {
	Term   string
	Detail string
	Cost   float64
}

// StreamsPenalties evaluates every stream-grid term in one pass,
// returning both the detailed weighted breakdown and the reporting-only
// unscheduled-streams count.
type StreamsPenalties struct {
	Inst *instance.Instance
}

// AbstractsPenalties evaluates every abstract-grid term, conditioned on
// the (fixed) stream grid.
type AbstractsPenalties struct {
	Inst   *instance.Instance
	Stream *Grid
}
