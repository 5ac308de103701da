package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// TestMinParallelMatchesBruteForce checks the closed-form minParallel
// formula against a brute-force search over every way of distributing
// `required` sessions across `blocks` timeblocks (spec.md §8 property 6).
func TestMinParallelMatchesBruteForce(t *testing.T) {
	for required := 0; required <= 6; required++ {
		for blocks := 1; blocks <= 4; blocks++ {
			got := minParallel(required, blocks)
			want := bruteMinParallel(required, blocks)
			require.Equalf(t, want, got, "required=%d blocks=%d", required, blocks)
		}
	}
}

// bruteMinParallel tries every composition of `required` into `blocks`
// non-negative parts and returns the minimum sum of C(n,2).
func bruteMinParallel(required, blocks int) int {
	counts := make([]int, blocks)
	best := -1
	var rec func(i, remaining int)
	rec = func(i, remaining int) {
		if i == blocks-1 {
			counts[i] = remaining
			sum := 0
			for _, c := range counts {
				sum += c * (c - 1) / 2
			}
			if best == -1 || sum < best {
				best = sum
			}
			return
		}
		for c := 0; c <= remaining; c++ {
			counts[i] = c
			rec(i+1, remaining-c)
		}
	}
	rec(0, required)
	return best
}

// TestConsecutivePenaltyCountsGapsBetweenRuns verifies consecutivePenalty
// against a direct run-count formula: for each column, (runs - 1)
// clamped at 0, summed, where runs is the number of maximal contiguous
// blocks.
func TestConsecutivePenaltyCountsGapsBetweenRuns(t *testing.T) {
	g := NewGrid(6, 1)
	g.Set(0, 0, 3)
	g.Set(1, 0, 3)
	g.Set(3, 0, 3)
	g.Set(5, 0, 3)
	// runs = {0,1}, {3}, {5} = 3 runs -> penalty 3-1=2 gaps
	require.Equal(t, float64(2), consecutivePenalty(g, 3))
}

func TestConsecutivePenaltyZeroWhenFullyContiguous(t *testing.T) {
	g := NewGrid(4, 1)
	for b := 0; b < 4; b++ {
		g.Set(b, 0, 1)
	}
	require.Equal(t, float64(0), consecutivePenalty(g, 1))
}

// TestStreamsPenaltiesDeltaMatchesFullRecompute is the delta-correctness
// property test of spec.md §8 property 1 for every stream-grid term:
// P(apply(g,m)) - P(g) must equal P_delta(g, m), trialled 1000 times
// over random small instances, grids and moves.
func TestStreamsPenaltiesDeltaMatchesFullRecompute(t *testing.T) {
	r := rand.New(rand.NewSource(12345))
	const trials = 1000

	for trial := 0; trial < trials; trial++ {
		numStreams := 1 + r.Intn(4)
		numRooms := 1 + r.Intn(3)
		numTimeblocks := 1 + r.Intn(3)
		inst := buildRandomInstance(r, numStreams, numRooms, numTimeblocks)
		p := StreamsPenalties{Inst: inst}

		old := randomStreamsGrid(r, inst)
		m := randomStreamsMove(r, inst, old)
		nw := ApplyOutOfPlace(old, m)

		oldDetail, oldUnsched := p.Evaluate(old)
		newDetail, newUnsched := p.Evaluate(nw)
		deltaDetail, deltaUnsched := p.Delta(old, nw, m)

		require.InDeltaf(t, newDetail.Parallel-oldDetail.Parallel, deltaDetail.Parallel, 1e-9, "trial %d Parallel", trial)
		require.InDeltaf(t, newDetail.Rooms-oldDetail.Rooms, deltaDetail.Rooms, 1e-9, "trial %d Rooms", trial)
		require.InDeltaf(t, newDetail.StreamsSessions-oldDetail.StreamsSessions, deltaDetail.StreamsSessions, 1e-9, "trial %d StreamsSessions", trial)
		require.InDeltaf(t, newDetail.StreamsRooms-oldDetail.StreamsRooms, deltaDetail.StreamsRooms, 1e-9, "trial %d StreamsRooms", trial)
		require.InDeltaf(t, newDetail.SessionsRooms-oldDetail.SessionsRooms, deltaDetail.SessionsRooms, 1e-9, "trial %d SessionsRooms", trial)
		require.InDeltaf(t, newDetail.StreamsStreams-oldDetail.StreamsStreams, deltaDetail.StreamsStreams, 1e-9, "trial %d StreamsStreams", trial)
		require.InDeltaf(t, newDetail.Consecutive-oldDetail.Consecutive, deltaDetail.Consecutive, 1e-9, "trial %d Consecutive", trial)
		require.Equalf(t, newUnsched-oldUnsched, deltaUnsched, "trial %d unscheduled", trial)

		require.InDeltaf(t, newDetail.Weighted(DefaultWeights)-oldDetail.Weighted(DefaultWeights), deltaDetail.Weighted(DefaultWeights), 1e-6, "trial %d weighted", trial)
	}
}
