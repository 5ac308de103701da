package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestGreedyHillClimbRejectsNonImprovingMove(t *testing.T) {
	c := NewGreedyHillClimb()
	require.True(t, c.Acceptable(nil, Move{}, -1))
	c.Accept(nil, Move{}, -1)
	require.False(t, c.Acceptable(nil, Move{}, -1))
	require.True(t, c.Acceptable(nil, Move{}, -2))
}

func TestSimulatedAnnealingCoolsOnAcceptAndReject(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	sa := NewSimulatedAnnealing(SAConfig{MinDelta: 1, MaxDelta: 10, MaxIters: 100}, r)
	t0 := sa.temp
	sa.Accept(nil, Move{}, 1)
	require.Less(t, sa.temp, t0)
	t1 := sa.temp
	sa.Reject()
	require.Less(t, sa.temp, t1)
}

func TestSimulatedAnnealingAlwaysAcceptsImprovingMove(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	sa := NewSimulatedAnnealing(SAConfig{MinDelta: 1, MaxDelta: 10, MaxIters: 100}, r)
	sa.lastDelta = 5
	require.True(t, sa.Acceptable(nil, Move{}, 4))
}

func TestSlotTabuRejectsRecentlyTouchedPosition(t *testing.T) {
	tabu := NewSlotTabuList(10, 10)
	old := NewGrid(2, 2)
	m := NewMove([]int{5}, []int{0}, []int{0})
	tabu.Accept(old, m, -1)

	// Same cell, worse-or-equal delta than last accepted: must be tabu.
	repeat := NewMove([]int{7}, []int{0}, []int{0})
	require.False(t, tabu.Acceptable(old, repeat, 0))

	// A strictly improving delta overrides tabu status (aspiration).
	require.True(t, tabu.Acceptable(old, repeat, -5))
}

func TestSlotTabuRejectsRecentlyTouchedItem(t *testing.T) {
	tabu := NewSlotTabuList(10, 10)
	old := NewGrid(2, 2)
	old.Set(1, 1, 3)
	m := NewMove([]int{EMPTY}, []int{1}, []int{1})
	tabu.Accept(old, m, -1)

	elsewhere := NewMove([]int{3}, []int{0}, []int{1})
	require.False(t, tabu.Acceptable(old, elsewhere, 0))
}

func TestFullTabuRejectsRepeatedGrid(t *testing.T) {
	tabu := NewFullTabuList(5)
	old := NewGrid(2, 2)
	m := NewMove([]int{9}, []int{0}, []int{0})
	tabu.Accept(old, m, -1)

	require.False(t, tabu.Acceptable(old, m, 0))
	require.True(t, tabu.Acceptable(old, m, -5))
}

// TestSteadyStateGeneticIsReproducibleGivenSameSeed verifies spec.md §8
// property 5: two runs seeded with the same PRNG state and the same
// initial population produce identical results.
func TestSteadyStateGeneticIsReproducibleGivenSameSeed(t *testing.T) {
	inst := buildRandomInstance(rand.New(rand.NewSource(9)), 2, 2, 2)
	p := StreamsPenalties{Inst: inst}

	fullEval := func(g *Grid) float64 { d, _ := p.Evaluate(g); return d.Weighted(DefaultWeights) }
	partialEval := func(old, nw *Grid, m Move) float64 {
		d, _ := p.Delta(old, nw, m)
		return d.Weighted(DefaultWeights)
	}

	run := func(seed uint64) *Grid {
		r := rand.New(rand.NewSource(seed))
		pop := RandomStreamsPopulation(inst.NumTimeblocks(), inst.NumRooms(), inst.NumStreams(), 4, r)
		opts := LocalSearchOptions{
			Solution:      pop[0],
			FullEval:      fullEval,
			PartialEval:   partialEval,
			Neighbourhood: func() MoveSeq { return streamsNeighbourhood(inst, pop[0], r) },
			MinIters:      2,
			MaxIters:      5,
			IdleThreshold: 1.0,
		}
		heuristic := SteadyStateGenetic(pop, GeneticConfig{PopulationSize: 4, CrossoverProb: 0.5, MutationProb: 0.2, RefineIters: 3}, r)
		return heuristic(opts)
	}

	a := run(42)
	b := run(42)
	require.True(t, a.Equal(b))
}
