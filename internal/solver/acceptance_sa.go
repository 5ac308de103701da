package solver

import (
	"math"

	"golang.org/x/exp/rand"
)

// SAConfig parameterises SimulatedAnnealing (spec.md §4.6-2), kept as
// a named options struct in the style of the teacher's SAConfig in
// simulated_annealing.go — but the cooling formula itself follows the
// Lundy-Mees schedule of the original source's annealing.py, not the
// teacher's own ad hoc magic-number temperature handling (see
// DESIGN.md).
type SAConfig struct {
	MinDelta, MaxDelta float64
	MaxIters           int
	InitProb, SatProb  float64
}

// SimulatedAnnealing is the Metropolis-criterion acceptance condition.
// Temperature cools on every accept AND reject.
type SimulatedAnnealing struct {
	rand      *rand.Rand
	lastDelta float64
	temp      float64
	alpha     float64
}

// NewSimulatedAnnealing derives T0/Tf/alpha from cfg exactly per
// spec.md §4.6-2.
func NewSimulatedAnnealing(cfg SAConfig, r *rand.Rand) *SimulatedAnnealing {
	initProb, satProb := cfg.InitProb, cfg.SatProb
	if initProb == 0 {
		initProb = 0.95
	}
	if satProb == 0 {
		satProb = 0.05
	}
	t0 := -cfg.MaxDelta / math.Log(initProb)
	tf := -cfg.MinDelta / math.Log(satProb)
	alpha := 1.0 / (tf * float64(cfg.MaxIters))
	return &SimulatedAnnealing{rand: r, temp: t0, alpha: alpha}
}

func (c *SimulatedAnnealing) cool() {
	c.temp = c.temp / (1 + c.alpha*c.temp)
}

func (c *SimulatedAnnealing) Acceptable(_ *Grid, _ Move, delta float64) bool {
	if delta < c.lastDelta {
		return true
	}
	return c.rand.Float64() < math.Exp(-delta/c.temp)
}

func (c *SimulatedAnnealing) Accept(_ *Grid, _ Move, delta float64) {
	c.lastDelta = delta
	c.cool()
}

func (c *SimulatedAnnealing) Reject() { c.cool() }

// SimulatedAnnealingSearch runs RunLocalSearch with explore_size=1,
// matching the original's simulated_annealing wrapper.
func SimulatedAnnealingSearch(cfg SAConfig, r *rand.Rand) Heuristic {
	return func(opts LocalSearchOptions) *Grid {
		opts.Condition = NewSimulatedAnnealing(cfg, r)
		opts.ExploreSize = 1
		return RunLocalSearch(opts)
	}
}
