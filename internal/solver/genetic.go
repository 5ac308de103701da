package solver

import "golang.org/x/exp/rand"

// GeneticConfig parameterises SteadyStateGenetic (spec.md §4.7).
type GeneticConfig struct {
	PopulationSize int
	CrossoverProb  float64
	MutationProb   float64
	// RefineIters is the short hill-climb budget used to refine every
	// individual, matching the original's `steady_state_genetic_algorithm`'s
	// reuse of greedy_hill_climbing as a refinement operator. It is used
	// as both MinIters and MaxIters of that hill-climb; the outer call's
	// MinIters and MaxIters do not affect it.
	RefineIters int
}

// RandomStreamsPopulation draws `n` random streams grids of the given
// shape, each cell uniform over {EMPTY} union Streams — per
// SPEC_FULL.md §4.7's population-seeding detail, an all-EMPTY or sparse
// individual is a legal draw.
func RandomStreamsPopulation(rows, cols, numStreams, n int, r *rand.Rand) []*Grid {
	pop := make([]*Grid, n)
	for i := range pop {
		g := NewGrid(rows, cols)
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if numStreams > 0 {
					v := r.Intn(numStreams + 1)
					if v < numStreams {
						g.Set(row, col, v)
					}
				}
			}
		}
		pop[i] = g
	}
	return pop
}

// individual pairs a grid with its cached weighted score so the
// generation loop doesn't re-run a full evaluation on every compare.
type individual struct {
	grid  *Grid
	score float64
}

// crossoverMove builds the uniform-crossover move transforming parentA
// toward parentB: for every cell, with probability crossoverProb the
// child takes parentB's value.
func crossoverMove(parentA, parentB *Grid, crossoverProb float64, r *rand.Rand) Move {
	var items, rows, cols []int
	for row := 0; row < parentA.Rows; row++ {
		for col := 0; col < parentA.Cols; col++ {
			if r.Float64() < crossoverProb {
				bVal := parentB.At(row, col)
				if bVal != parentA.At(row, col) {
					items = append(items, bVal)
					rows = append(rows, row)
					cols = append(cols, col)
				}
			}
		}
	}
	return NewMove(items, rows, cols)
}

// SteadyStateGenetic builds a Heuristic implementing spec.md §4.7. The
// caller supplies the initial population (random individuals plus the
// seed solution, per spec.md's "P = list_of_random_grids +
// [seed_solution]"); opts.Solution is not read, so the seed solution
// takes part only if the caller includes it in population.
func SteadyStateGenetic(population []*Grid, cfg GeneticConfig, r *rand.Rand) Heuristic {
	return func(opts LocalSearchOptions) *Grid {
		refineOpts := opts
		refineOpts.MinIters = cfg.RefineIters
		refineOpts.MaxIters = cfg.RefineIters
		refineOpts.IdleThreshold = 1.0

		pop := make([]individual, len(population))
		for i, g := range population {
			refineOpts.Solution = g
			refined := GreedyHillClimbSearch(refineOpts)
			pop[i] = individual{grid: refined, score: opts.FullEval(refined)}
		}

		generations := opts.MaxIters
		for gen := 0; gen < generations; gen++ {
			bestA, bestB := bestTwoIndices(pop)
			parentA, parentB := pop[bestA], pop[bestB]

			move := crossoverMove(parentA.grid, parentB.grid, cfg.CrossoverProb, r)
			childGrid := ApplyOutOfPlace(parentA.grid, move)
			childScore := parentA.score + opts.PartialEval(parentA.grid, childGrid, move)

			if r.Float64() < cfg.MutationProb {
				mutation := opts.Neighbourhood()()
				mutated := ApplyOutOfPlace(childGrid, mutation)
				childScore += opts.PartialEval(childGrid, mutated, mutation)
				childGrid = mutated
			}

			refineOpts.Solution = childGrid
			childGrid = GreedyHillClimbSearch(refineOpts)
			childScore = opts.FullEval(childGrid)

			worst := worstIndex(pop)
			pop[worst] = individual{grid: childGrid, score: childScore}

			if opts.Report != nil && opts.ReportPeriod > 0 && (gen+1)%opts.ReportPeriod == 0 {
				opts.Report(gen+1, bestScore(pop))
			}
		}

		best := pop[0]
		for _, ind := range pop[1:] {
			if ind.score < best.score {
				best = ind
			}
		}
		return best.grid
	}
}

func bestTwoIndices(pop []individual) (int, int) {
	best, second := -1, -1
	for i := range pop {
		if best == -1 || pop[i].score < pop[best].score {
			second = best
			best = i
		} else if second == -1 || pop[i].score < pop[second].score {
			second = i
		}
	}
	return best, second
}

func worstIndex(pop []individual) int {
	worst := 0
	for i := range pop {
		if pop[i].score > pop[worst].score {
			worst = i
		}
	}
	return worst
}

func bestScore(pop []individual) float64 {
	best := pop[0].score
	for _, ind := range pop[1:] {
		if ind.score < best {
			best = ind.score
		}
	}
	return best
}
