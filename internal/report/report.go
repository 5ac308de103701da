// Package report builds the optional JSON debug summary of a solved
// schedule (SPEC_FULL.md §6.3), adapted from the teacher's
// exportScheduleJSON idiom in cmd/api/main.go.
package report

import (
	"encoding/json"
	"os"

	"confsched/internal/instance"
	"confsched/internal/solver"
)

// Summary is the top-level JSON document written by Write.
type Summary struct {
	StreamsScore    float64                  `json:"streams_score"`
	AbstractsScore  float64                  `json:"abstracts_score"`
	Streams         solver.DetailedStreams   `json:"streams_detail"`
	Abstracts       solver.DetailedAbstracts `json:"abstracts_detail"`
	RoomOccupancy   map[string]int           `json:"room_occupancy"`
	StreamOccupancy map[string]int           `json:"stream_occupancy"`
}

// Build gathers the occupancy counts and detailed score breakdowns for
// a solved instance.
func Build(inst *instance.Instance, weights solver.Weights, streamsGrid, abstractsGrid *solver.Grid) Summary {
	sp := solver.StreamsPenalties{Inst: inst}
	ap := solver.AbstractsPenalties{Inst: inst, Stream: streamsGrid}

	streamsDetail, _ := sp.Evaluate(streamsGrid)
	abstractsDetail := ap.Evaluate(abstractsGrid)

	roomOccupancy := make(map[string]int)
	for b := 0; b < streamsGrid.Rows; b++ {
		for r := 0; r < streamsGrid.Cols; r++ {
			if streamsGrid.At(b, r) != solver.EMPTY {
				roomOccupancy[inst.Room(instance.RoomID(r)).Name]++
			}
		}
	}

	streamOccupancy := make(map[string]int)
	for b := 0; b < streamsGrid.Rows; b++ {
		for r := 0; r < streamsGrid.Cols; r++ {
			if v := streamsGrid.At(b, r); v != solver.EMPTY {
				streamOccupancy[inst.Stream(instance.StreamID(v)).Name]++
			}
		}
	}

	return Summary{
		StreamsScore:    streamsDetail.Weighted(weights),
		AbstractsScore:  abstractsDetail.Weighted(weights),
		Streams:         streamsDetail,
		Abstracts:       abstractsDetail,
		RoomOccupancy:   roomOccupancy,
		StreamOccupancy: streamOccupancy,
	}
}

// Write marshals Summary as indented JSON to path.
func Write(path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
