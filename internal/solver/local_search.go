package solver

// AcceptanceCondition is the uniform policy interface shared by all
// four strategies (spec.md §4.6). Every implementation keeps an
// internal "last accepted delta" that scales acceptability relative to
// the previous accepted move. sol is the current grid the move would
// be applied to; most conditions ignore it, but full-tabu's membership
// test needs apply_out_of_place(sol, move) to build the candidate it
// checks against its window.
type AcceptanceCondition interface {
	Acceptable(sol *Grid, m Move, delta float64) bool
	Accept(old *Grid, m Move, delta float64)
	Reject()
}

// LocalSearchOptions bundles the generic driver's parameters (spec.md
// §4.5). Scheduler.Improve fills Solution, FullEval, PartialEval and
// Neighbourhood before invoking a Heuristic; callers only need to
// supply the search-specific fields (Condition, ExploreSize, etc).
type LocalSearchOptions struct {
	Solution      *Grid
	FullEval      func(g *Grid) float64
	PartialEval   func(old, nw *Grid, m Move) float64
	Neighbourhood func() MoveSeq

	Condition AcceptanceCondition

	ExploreSize   int
	MinIters      int
	MaxIters      int
	IdleThreshold float64

	ReportPeriod int
	// Report, if set, is called every ReportPeriod iterations with the
	// iteration index and the running best delta — the search loop's
	// only I/O boundary (spec.md §5).
	Report func(iter int, bestDelta float64)
}

// RunLocalSearch is the single generic driver of spec.md §4.5,
// parameterised by condition. explore_size=1 degenerates to
// steepest-of-first-acceptable (greedy, annealing); larger values
// sample a neighbourhood batch and take the best (tabu).
func RunLocalSearch(opts LocalSearchOptions) *Grid {
	current := opts.Solution.Clone()
	currentDelta := 0.0
	best := current.Clone()
	bestDelta := 0.0

	explore := opts.ExploreSize
	if explore < 1 {
		explore = 1
	}

	i, idle := 0, 0
	for {
		stop := i > opts.MinIters && float64(idle) > opts.IdleThreshold*float64(i)
		if stop || i >= opts.MaxIters {
			break
		}

		neigh := opts.Neighbourhood()
		type candidate struct {
			move  Move
			delta float64
		}
		var filtered []candidate
		for _, m := range Take(neigh, explore) {
			delta := opts.PartialEval(current, ApplyOutOfPlace(current, m), m)
			if opts.Condition.Acceptable(current, m, delta) {
				filtered = append(filtered, candidate{move: m, delta: delta})
			}
		}

		var bestNeigh *candidate
		for idx := range filtered {
			if bestNeigh == nil || filtered[idx].delta < bestNeigh.delta {
				bestNeigh = &filtered[idx]
			}
		}

		if bestNeigh != nil {
			if bestNeigh.delta < 0 {
				idle = 0
			} else {
				idle++
			}
			opts.Condition.Accept(current, bestNeigh.move, bestNeigh.delta)
			Apply(current, bestNeigh.move)
			currentDelta += bestNeigh.delta
			if currentDelta < bestDelta {
				best = current.Clone()
				bestDelta = currentDelta
			}
		} else {
			idle++
			opts.Condition.Reject()
		}

		i++
		if opts.Report != nil && opts.ReportPeriod > 0 && i%opts.ReportPeriod == 0 {
			opts.Report(i, bestDelta)
		}
	}

	return best
}
