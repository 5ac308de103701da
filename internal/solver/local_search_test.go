package solver

import (
	"testing"

	"confsched/internal/instance"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// TestHillClimbNeverWorsensScore verifies spec.md §8 property 4: a pure
// downhill run (GreedyHillClimb) never returns a solution scoring worse
// than the seed it started from.
func TestHillClimbNeverWorsensScore(t *testing.T) {
	r := rand.New(rand.NewSource(777))
	for trial := 0; trial < 50; trial++ {
		numStreams := 1 + r.Intn(3)
		numRooms := 1 + r.Intn(3)
		numTimeblocks := 1 + r.Intn(3)
		inst := buildRandomInstance(r, numStreams, numRooms, numTimeblocks)
		p := StreamsPenalties{Inst: inst}
		seed := randomStreamsGrid(r, inst)

		fullEval := func(g *Grid) float64 {
			d, _ := p.Evaluate(g)
			return d.Weighted(DefaultWeights)
		}
		partialEval := func(old, nw *Grid, m Move) float64 {
			d, _ := p.Delta(old, nw, m)
			return d.Weighted(DefaultWeights)
		}

		opts := LocalSearchOptions{
			Solution:      seed,
			FullEval:      fullEval,
			PartialEval:   partialEval,
			Neighbourhood: func() MoveSeq { return streamsNeighbourhood(inst, seed, r) },
			MinIters:      5,
			MaxIters:      30,
			IdleThreshold: 0.5,
		}
		result := GreedyHillClimbSearch(opts)

		require.LessOrEqual(t, fullEval(result), fullEval(seed)+1e-9, "trial %d", trial)
	}
}

// TestRunLocalSearchStopsByMaxIters confirms the driver halts at
// MaxIters even when moves keep looking acceptable.
func TestRunLocalSearchStopsByMaxIters(t *testing.T) {
	inst := buildRandomInstance(rand.New(rand.NewSource(1)), 2, 2, 2)
	r := rand.New(rand.NewSource(2))
	p := StreamsPenalties{Inst: inst}
	seed := NewGrid(inst.NumTimeblocks(), inst.NumRooms())

	calls := 0
	opts := LocalSearchOptions{
		Solution: seed,
		FullEval: func(g *Grid) float64 { d, _ := p.Evaluate(g); return d.Weighted(DefaultWeights) },
		PartialEval: func(old, nw *Grid, m Move) float64 {
			d, _ := p.Delta(old, nw, m)
			return d.Weighted(DefaultWeights)
		},
		Neighbourhood: func() MoveSeq { return streamsNeighbourhood(inst, seed, r) },
		Condition:     NewGreedyHillClimb(),
		MinIters:      0,
		MaxIters:      10,
		IdleThreshold: 1.0,
		ReportPeriod:  1,
		Report:        func(iter int, bestDelta float64) { calls++ },
	}
	RunLocalSearch(opts)
	require.LessOrEqual(t, calls, 10)
}

func TestGreedyConstructAbstractsPlacesExactFitStream(t *testing.T) {
	streams := []instance.Stream{{ID: 0, Name: "s"}}
	rooms := []instance.Room{{ID: 0, Name: "r"}}
	timeblocks := []instance.Timeblock{{ID: 0, FirstTimeslot: 0, NumTimeslots: 2}}
	abstracts := []instance.Abstract{
		{ID: 0, Reference: "a0", Stream: 0, RequiredTimeslots: 2, Order: instance.NoOrder, Clash: instance.EMPTY, SpeakerClash: instance.EMPTY},
	}
	inst, err := instance.New(streams, rooms, timeblocks, abstracts, nil, nil, nil, nil)
	require.NoError(t, err)

	streamGrid := NewGrid(1, 1)
	streamGrid.Set(0, 0, 0)

	g := GreedyConstructAbstracts(inst, streamGrid)
	require.Equal(t, 0, g.At(0, 0))
	require.Equal(t, 0, g.At(1, 0))
}
