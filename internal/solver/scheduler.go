package solver

import (
	"fmt"

	"confsched/internal/instance"
	"golang.org/x/exp/rand"
)

// Heuristic is any local-search driver with the local_search signature:
// it owns the loop, consults neighbourhood/evaluators, and returns the
// best grid found. GreedyHillClimbSearch, SimulatedAnnealingSearch,
// SlotTabuSearch, FullTabuSearch and the genetic wrapper all satisfy
// this shape.
type Heuristic func(opts LocalSearchOptions) *Grid

// Scheduler is the shared contract for StreamsScheduler and
// AbstractsScheduler (spec.md §4.3), mirroring the teacher's pattern of
// a small typed struct wrapping a mutable solution plus pure functions
// operating on it (internal/solver/integrated_scheduler.go's role as an
// orchestration wrapper, adapted here onto the penalty-driven engine).
type Scheduler interface {
	Initialize()
	Score() float64
	Violations() []Violation
	Improve(h Heuristic, opts LocalSearchOptions)
	Solution() *Grid
}

// StreamsScheduler owns the stream grid, weight vector and full/partial
// evaluators for stage 1 (spec.md §4.3's StreamsScheduler).
type StreamsScheduler struct {
	Inst    *instance.Instance
	Weights Weights
	Rand    *rand.Rand

	grid *Grid
}

// NewStreamsScheduler builds a scheduler either with an empty grid
// (initial == nil) or seeded from a resume grid of matching dimensions
// (spec.md §4.3, SPEC_FULL.md §4.3 "Resume/seed support").
func NewStreamsScheduler(inst *instance.Instance, w Weights, r *rand.Rand, initial *Grid) (*StreamsScheduler, error) {
	sc := &StreamsScheduler{Inst: inst, Weights: w, Rand: r}
	if initial == nil {
		sc.grid = NewGrid(inst.NumTimeblocks(), inst.NumRooms())
		return sc, nil
	}
	if initial.Rows != inst.NumTimeblocks() || initial.Cols != inst.NumRooms() {
		return nil, fmt.Errorf("%w: streams grid is %dx%d, instance expects %dx%d",
			instance.ErrIncompatibleDimensions, initial.Rows, initial.Cols, inst.NumTimeblocks(), inst.NumRooms())
	}
	sc.grid = initial.Clone()
	return sc, nil
}

// Initialize resets the grid to all-EMPTY; a valid starting point per
// spec.md §4.3.
func (sc *StreamsScheduler) Initialize() {
	sc.grid = NewGrid(sc.Inst.NumTimeblocks(), sc.Inst.NumRooms())
}

func (sc *StreamsScheduler) penalties() StreamsPenalties { return StreamsPenalties{Inst: sc.Inst} }

// Score is the weighted full score of the current grid.
func (sc *StreamsScheduler) Score() float64 {
	d, _ := sc.penalties().Evaluate(sc.grid)
	return d.Weighted(sc.Weights)
}

// DetailedScore is the per-term breakdown plus the reporting-only
// unscheduled-streams count.
func (sc *StreamsScheduler) DetailedScore() (DetailedStreams, int) {
	return sc.penalties().Evaluate(sc.grid)
}

func (sc *StreamsScheduler) Violations() []Violation { return sc.penalties().Violations(sc.grid) }

func (sc *StreamsScheduler) Solution() *Grid { return sc.grid }

// Neighbourhood is the lazy move producer for the stream grid (spec.md
// §4.4).
func (sc *StreamsScheduler) Neighbourhood() MoveSeq {
	return streamsNeighbourhood(sc.Inst, sc.grid, sc.Rand)
}

// Improve replaces the current grid with the result of running a
// heuristic over it.
func (sc *StreamsScheduler) Improve(h Heuristic, opts LocalSearchOptions) {
	opts.Solution = sc.grid
	opts.FullEval = func(g *Grid) float64 {
		d, _ := sc.penalties().Evaluate(g)
		return d.Weighted(sc.Weights)
	}
	opts.PartialEval = func(old, nw *Grid, m Move) float64 {
		d, _ := sc.penalties().Delta(old, nw, m)
		return d.Weighted(sc.Weights)
	}
	opts.Neighbourhood = sc.Neighbourhood
	sc.grid = h(opts)
}

// AbstractsScheduler owns the abstracts grid for stage 2, conditioned
// on a fixed stream grid (spec.md §4.3's AbstractsScheduler).
type AbstractsScheduler struct {
	Inst        *instance.Instance
	Weights     Weights
	Rand        *rand.Rand
	StreamGrid  *Grid

	grid *Grid
}

func NewAbstractsScheduler(inst *instance.Instance, w Weights, r *rand.Rand, streamGrid, initial *Grid) (*AbstractsScheduler, error) {
	sc := &AbstractsScheduler{Inst: inst, Weights: w, Rand: r, StreamGrid: streamGrid}
	if initial == nil {
		sc.grid = NewGrid(inst.NumTimeslots(), inst.NumRooms())
		return sc, nil
	}
	if initial.Rows != inst.NumTimeslots() || initial.Cols != inst.NumRooms() {
		return nil, fmt.Errorf("%w: abstracts grid is %dx%d, instance expects %dx%d",
			instance.ErrIncompatibleDimensions, initial.Rows, initial.Cols, inst.NumTimeslots(), inst.NumRooms())
	}
	sc.grid = initial.Clone()
	return sc, nil
}

// Initialize runs the greedy constructive algorithm of spec.md §4.3.
func (sc *AbstractsScheduler) Initialize() {
	sc.grid = GreedyConstructAbstracts(sc.Inst, sc.StreamGrid)
}

func (sc *AbstractsScheduler) penalties() AbstractsPenalties {
	return AbstractsPenalties{Inst: sc.Inst, Stream: sc.StreamGrid}
}

func (sc *AbstractsScheduler) Score() float64 {
	return sc.penalties().Evaluate(sc.grid).Weighted(sc.Weights)
}

func (sc *AbstractsScheduler) DetailedScore() DetailedAbstracts {
	return sc.penalties().Evaluate(sc.grid)
}

func (sc *AbstractsScheduler) Violations() []Violation { return sc.penalties().Violations(sc.grid) }

func (sc *AbstractsScheduler) Solution() *Grid { return sc.grid }

func (sc *AbstractsScheduler) Neighbourhood() MoveSeq {
	return abstractsNeighbourhood(sc.Inst, sc.grid, sc.Rand)
}

func (sc *AbstractsScheduler) Improve(h Heuristic, opts LocalSearchOptions) {
	opts.Solution = sc.grid
	opts.FullEval = func(g *Grid) float64 {
		return sc.penalties().Evaluate(g).Weighted(sc.Weights)
	}
	opts.PartialEval = func(old, nw *Grid, m Move) float64 {
		return sc.penalties().Delta(old, nw, m).Weighted(sc.Weights)
	}
	opts.Neighbourhood = sc.Neighbourhood
	sc.grid = h(opts)
}
