// Command confsched-inspect loads a conference workbook and prints
// load statistics, occupancy counts and clash-graph shape without
// running any search — a quick sanity check before committing to a
// full solve.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"confsched/internal/instance"
	"confsched/internal/ioxlsx"
	"confsched/internal/report"
	"confsched/internal/solver"
)

func main() {
	input := flag.String("i", "./conference.xlsx", "input workbook")
	solutionPath := flag.String("s", "", "optional solved workbook to report occupancy/violations for")
	flag.Parse()

	inst, warnings, err := ioxlsx.Load(*input)
	if err != nil {
		log.Fatalf("confsched-inspect: loading %s: %v", *input, err)
	}

	fmt.Printf("%d streams, %d rooms, %d timeblocks (%d timeslots total), %d abstracts\n",
		inst.NumStreams(), inst.NumRooms(), inst.NumTimeblocks(), inst.NumTimeslots(), inst.NumAbstracts())
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}

	printStreamLoadTable(inst)
	printClashDegreeHistogram(inst)

	if *solutionPath == "" {
		return
	}

	streamsGrid, err := ioxlsx.LoadResume(*solutionPath, "streams_solution", inst, inst.NumTimeblocks(), inst.NumRooms(), func(name string) (int, bool) {
		id, ok := inst.StreamByName(name)
		return int(id), ok
	})
	if err != nil {
		log.Fatalf("confsched-inspect: loading streams_solution: %v", err)
	}
	abstractsGrid, err := ioxlsx.LoadResume(*solutionPath, "abstracts_solution", inst, inst.NumTimeslots(), inst.NumRooms(), func(ref string) (int, bool) {
		id, ok := inst.AbstractByReference(ref)
		return int(id), ok
	})
	if err != nil {
		log.Fatalf("confsched-inspect: loading abstracts_solution: %v", err)
	}

	summary := report.Build(inst, solver.DefaultWeights, streamsGrid, abstractsGrid)
	printOccupancy(summary)
	fmt.Printf("streams score=%.2f  abstracts score=%.2f\n", summary.StreamsScore, summary.AbstractsScore)
}

func printStreamLoadTable(inst *instance.Instance) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "stream\trequired sessions\tabstracts")
	for _, s := range inst.Streams() {
		fmt.Fprintf(w, "%s\t%d\t%d\n", s.Name, inst.RequiredSessions(s.ID), len(inst.AbstractsByStream(s.ID)))
	}
	w.Flush()
}

func printClashDegreeHistogram(inst *instance.Instance) {
	g := inst.ClashGraph()
	histogram := make(map[int]int)
	for _, a := range inst.Abstracts() {
		histogram[len(g.Neighbours(a.ID))]++
	}
	degrees := make([]int, 0, len(histogram))
	for d := range histogram {
		degrees = append(degrees, d)
	}
	sort.Ints(degrees)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "clash out-degree\tabstracts")
	for _, d := range degrees {
		fmt.Fprintf(w, "%d\t%d\n", d, histogram[d])
	}
	w.Flush()
}

func printOccupancy(summary report.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "room\toccupied sessions")
	rooms := make([]string, 0, len(summary.RoomOccupancy))
	for name := range summary.RoomOccupancy {
		rooms = append(rooms, name)
	}
	sort.Strings(rooms)
	for _, name := range rooms {
		fmt.Fprintf(w, "%s\t%d\n", name, summary.RoomOccupancy[name])
	}
	w.Flush()
}
