package solver

// GreedyHillClimb is the pure-downhill acceptance condition of
// spec.md §4.6-1, grounded on the teacher's simulated_annealing.go
// Metropolis-style accept/reject shape stripped down to its simplest
// form.
type GreedyHillClimb struct {
	lastDelta float64
}

func NewGreedyHillClimb() *GreedyHillClimb { return &GreedyHillClimb{} }

func (c *GreedyHillClimb) Acceptable(_ *Grid, _ Move, delta float64) bool { return delta < c.lastDelta }
func (c *GreedyHillClimb) Accept(_ *Grid, _ Move, delta float64) { c.lastDelta = delta }
func (c *GreedyHillClimb) Reject()                               {}

// GreedyHillClimbSearch runs RunLocalSearch with GreedyHillClimb and
// explore_size=1, matching the original's greedy_hill_climbing wrapper.
func GreedyHillClimbSearch(opts LocalSearchOptions) *Grid {
	opts.Condition = NewGreedyHillClimb()
	opts.ExploreSize = 1
	return RunLocalSearch(opts)
}
