// Command confsched builds a two-stage, low-penalty conference
// timetable from a declarative .xlsx description of streams, rooms,
// timeblocks and abstracts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"confsched/internal/instance"
	"confsched/internal/ioxlsx"
	"confsched/internal/report"
	"confsched/internal/solver"
	"golang.org/x/exp/rand"
)

// weightsFlag implements flag.Value for the comma-separated 12-float
// weight vector (spec.md §6's `-w`).
type weightsFlag solver.Weights

func (w *weightsFlag) String() string {
	parts := make([]string, len(w))
	for i, v := range w {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (w *weightsFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 12 {
		return fmt.Errorf("-w expects exactly 12 comma-separated floats, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("-w: %q is not a float: %w", p, err)
		}
		w[i] = v
	}
	return nil
}

func main() {
	input := flag.String("i", "./conference.xlsx", "input workbook")
	output := flag.String("o", "./schedule.xlsx", "output workbook")
	resume := flag.String("s", "", "resume workbook (seeds the streams grid)")
	maxIters := flag.Int("m", 5000, "max iterations per stage")
	reportPeriod := flag.Int("f", 100, "progress report period (iterations)")
	heuristicName := flag.String("heuristic", "tabu", "abstracts-stage heuristic: greedy|annealing|tabu|fulltabu|genetic")
	seed := flag.Uint64("seed", 1, "PRNG seed")
	jsonOut := flag.String("j", "", "optional debug JSON summary path")

	weights := weightsFlag(solver.DefaultWeights)
	flag.Var(&weights, "w", "comma-separated 12 penalty weights")

	flag.Parse()

	inst, warnings, err := ioxlsx.Load(*input)
	if err != nil {
		log.Fatalf("confsched: loading %s: %v", *input, err)
	}
	printLoadStats(inst, warnings)

	r := rand.New(rand.NewSource(*seed))
	w := solver.Weights(weights)

	var streamsSeed *solver.Grid
	if *resume != "" {
		streamsSeed, err = ioxlsx.LoadResume(*resume, "streams_solution", inst, inst.NumTimeblocks(), inst.NumRooms(), func(name string) (int, bool) {
			id, ok := inst.StreamByName(name)
			return int(id), ok
		})
		if err != nil {
			log.Fatalf("confsched: loading resume file: %v", err)
		}
	}

	streamsScheduler, err := solver.NewStreamsScheduler(inst, w, r, streamsSeed)
	if err != nil {
		log.Fatalf("confsched: %v", err)
	}
	if streamsSeed == nil {
		streamsScheduler.Initialize()
	}

	fmt.Println("stage 1: optimizing streams grid with steady-state genetic search")
	population := solver.RandomStreamsPopulation(inst.NumTimeblocks(), inst.NumRooms(), inst.NumStreams(), 40, r)
	population = append(population, streamsScheduler.Solution())
	ga := solver.SteadyStateGenetic(population, solver.GeneticConfig{
		PopulationSize: len(population),
		CrossoverProb:  0.6,
		MutationProb:   0.1,
		RefineIters:    50,
	}, r)
	streamsScheduler.Improve(ga, solver.LocalSearchOptions{
		MinIters:      *maxIters / 10,
		MaxIters:      *maxIters,
		IdleThreshold: 0.2,
		ReportPeriod:  *reportPeriod,
		Report:        func(iter int, best float64) { fmt.Printf("  iter %d\tscore=%.2f\n", iter, best) },
	})
	fmt.Printf("stage 1 done: score=%.2f\n", streamsScheduler.Score())

	abstractsScheduler, err := solver.NewAbstractsScheduler(inst, w, r, streamsScheduler.Solution(), nil)
	if err != nil {
		log.Fatalf("confsched: %v", err)
	}
	abstractsScheduler.Initialize()

	fmt.Printf("stage 2: optimizing abstracts grid with %s search\n", *heuristicName)
	heuristic, err := selectAbstractsHeuristic(*heuristicName, r)
	if err != nil {
		log.Fatalf("confsched: %v", err)
	}
	abstractsScheduler.Improve(heuristic, solver.LocalSearchOptions{
		MinIters:      *maxIters / 10,
		MaxIters:      *maxIters,
		IdleThreshold: 0.1,
		ReportPeriod:  *reportPeriod,
		Report:        func(iter int, best float64) { fmt.Printf("  iter %d\tscore=%.2f\n", iter, best) },
	})
	fmt.Printf("stage 2 done: score=%.2f\n", abstractsScheduler.Score())

	printViolationsSummary(streamsScheduler.Violations(), abstractsScheduler.Violations())

	if err := ioxlsx.Write(*output, inst, streamsScheduler.Solution(), abstractsScheduler.Solution(),
		streamsScheduler.Violations(), abstractsScheduler.Violations()); err != nil {
		log.Fatalf("confsched: writing %s: %v", *output, err)
	}
	fmt.Printf("wrote %s\n", *output)

	if *jsonOut != "" {
		summary := report.Build(inst, w, streamsScheduler.Solution(), abstractsScheduler.Solution())
		if err := report.Write(*jsonOut, summary); err != nil {
			log.Fatalf("confsched: writing debug report %s: %v", *jsonOut, err)
		}
		fmt.Printf("wrote debug summary %s\n", *jsonOut)
	}
}

func selectAbstractsHeuristic(name string, r *rand.Rand) (solver.Heuristic, error) {
	switch name {
	case "greedy":
		return solver.GreedyHillClimbSearch, nil
	case "annealing":
		return solver.SimulatedAnnealingSearch(solver.SAConfig{MinDelta: 1, MaxDelta: 1000, MaxIters: 2000}, r), nil
	case "tabu":
		return solver.SlotTabuSearch(250, 100, 150), nil
	case "fulltabu":
		return solver.FullTabuSearch(20, 10), nil
	case "genetic":
		return func(opts solver.LocalSearchOptions) *solver.Grid {
			population := []*solver.Grid{opts.Solution}
			ga := solver.SteadyStateGenetic(population, solver.GeneticConfig{
				PopulationSize: len(population),
				CrossoverProb:  0.6,
				MutationProb:   0.1,
				RefineIters:    50,
			}, r)
			return ga(opts)
		}, nil
	default:
		return nil, fmt.Errorf("unknown -heuristic %q (want greedy|annealing|tabu|fulltabu|genetic)", name)
	}
}

func printLoadStats(inst *instance.Instance, warnings []string) {
	fmt.Printf("loaded: %d streams, %d rooms, %d timeblocks (%d timeslots), %d abstracts\n",
		inst.NumStreams(), inst.NumRooms(), inst.NumTimeblocks(), inst.NumTimeslots(), inst.NumAbstracts())
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
}

func printViolationsSummary(streamsViolations, abstractsViolations []solver.Violation) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "layer\tterm\tcount")
	counts := make(map[[2]string]int)
	for _, v := range streamsViolations {
		counts[[2]string{"streams", v.Term}]++
	}
	for _, v := range abstractsViolations {
		counts[[2]string{"abstracts", v.Term}]++
	}
	for key, n := range counts {
		fmt.Fprintf(w, "%s\t%s\t%d\n", key[0], key[1], n)
	}
	w.Flush()
}
