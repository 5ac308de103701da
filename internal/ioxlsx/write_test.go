package ioxlsx

import (
	"path/filepath"
	"testing"

	"confsched/internal/instance"
	"confsched/internal/solver"
	"github.com/stretchr/testify/require"
)

func smallInstance(t *testing.T) *instance.Instance {
	t.Helper()
	streams := []instance.Stream{{ID: 0, Name: "Stats"}, {ID: 1, Name: "ML"}}
	rooms := []instance.Room{{ID: 0, Name: "A"}, {ID: 1, Name: "B"}}
	timeblocks := []instance.Timeblock{{ID: 0, FirstTimeslot: 0, NumTimeslots: 2}}
	abstracts := []instance.Abstract{
		{ID: 0, Reference: "a1", Stream: 0, RequiredTimeslots: 1, Order: instance.NoOrder, Clash: instance.EMPTY, SpeakerClash: instance.EMPTY},
	}
	inst, err := instance.New(streams, rooms, timeblocks, abstracts, nil, nil, nil, nil)
	require.NoError(t, err)
	return inst
}

// TestWriteLoadResumeRoundTripsSparseGrid exercises the common case of
// a solved grid whose last room column is empty in a given row, which
// excelize.GetRows trims away on read — LoadResume must still recover
// the full declared shape rather than reporting a spurious dimension
// mismatch.
func TestWriteLoadResumeRoundTripsSparseGrid(t *testing.T) {
	inst := smallInstance(t)

	streamsGrid := solver.NewGrid(1, 2)
	streamsGrid.Set(0, 0, 0) // room B (col 1) left empty

	abstractsGrid := solver.NewGrid(2, 2)
	abstractsGrid.Set(0, 0, 0)

	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	err := Write(path, inst, streamsGrid, abstractsGrid, nil, nil)
	require.NoError(t, err)

	gotStreams, err := LoadResume(path, "streams_solution", inst, 1, 2, func(name string) (int, bool) {
		id, ok := inst.StreamByName(name)
		return int(id), ok
	})
	require.NoError(t, err)
	require.Equal(t, 0, gotStreams.At(0, 0))
	require.Equal(t, instance.EMPTY, gotStreams.At(0, 1))

	gotAbstracts, err := LoadResume(path, "abstracts_solution", inst, 2, 2, func(ref string) (int, bool) {
		id, ok := inst.AbstractByReference(ref)
		return int(id), ok
	})
	require.NoError(t, err)
	require.Equal(t, 0, gotAbstracts.At(0, 0))
	require.Equal(t, instance.EMPTY, gotAbstracts.At(1, 1))
}

func TestLoadResumeRejectsTooManyRows(t *testing.T) {
	inst := smallInstance(t)
	streamsGrid := solver.NewGrid(1, 2)
	streamsGrid.Set(0, 0, 0)

	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	require.NoError(t, Write(path, inst, streamsGrid, solver.NewGrid(2, 2), nil, nil))

	_, err := LoadResume(path, "streams_solution", inst, 0, 2, func(name string) (int, bool) {
		id, ok := inst.StreamByName(name)
		return int(id), ok
	})
	require.ErrorIs(t, err, instance.ErrIncompatibleDimensions)
}
