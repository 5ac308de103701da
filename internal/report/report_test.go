package report

import (
	"testing"

	"confsched/internal/instance"
	"confsched/internal/solver"
	"github.com/stretchr/testify/require"
)

func TestBuildCountsOccupancy(t *testing.T) {
	streams := []instance.Stream{{ID: 0, Name: "Stats"}}
	rooms := []instance.Room{{ID: 0, Name: "A"}}
	timeblocks := []instance.Timeblock{{ID: 0, FirstTimeslot: 0, NumTimeslots: 1}}
	abstracts := []instance.Abstract{
		{ID: 0, Reference: "a0", Stream: 0, RequiredTimeslots: 1, Order: instance.NoOrder, Clash: instance.EMPTY, SpeakerClash: instance.EMPTY},
	}
	inst, err := instance.New(streams, rooms, timeblocks, abstracts, nil, nil, nil, nil)
	require.NoError(t, err)

	sg := solver.NewGrid(1, 1)
	sg.Set(0, 0, 0)
	ag := solver.NewGrid(1, 1)
	ag.Set(0, 0, 0)

	summary := Build(inst, solver.DefaultWeights, sg, ag)
	require.Equal(t, 1, summary.RoomOccupancy["A"])
	require.Equal(t, 1, summary.StreamOccupancy["Stats"])
	require.Equal(t, float64(0), summary.StreamsScore)
}
