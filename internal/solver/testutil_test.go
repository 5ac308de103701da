package solver

import (
	"confsched/internal/instance"
	"golang.org/x/exp/rand"
)

// buildRandomInstance constructs a small random instance for
// property-based delta-correctness testing. Shapes are kept small so
// brute-force full evaluation stays cheap across thousands of trials.
func buildRandomInstance(r *rand.Rand, numStreams, numRooms, numTimeblocks int) *instance.Instance {
	streams := make([]instance.Stream, numStreams)
	for i := range streams {
		streams[i] = instance.Stream{ID: instance.StreamID(i), Name: "s"}
	}
	rooms := make([]instance.Room, numRooms)
	for i := range rooms {
		rooms[i] = instance.Room{ID: instance.RoomID(i), Name: "r"}
	}
	timeblocks := make([]instance.Timeblock, numTimeblocks)
	slot := 0
	for i := range timeblocks {
		n := 1 + r.Intn(3)
		timeblocks[i] = instance.Timeblock{ID: instance.TimeblockID(i), FirstTimeslot: slot, NumTimeslots: n}
		slot += n
	}

	numAbstracts := numStreams * 2
	abstracts := make([]instance.Abstract, 0, numAbstracts)
	aid := 0
	for s := 0; s < numStreams; s++ {
		count := r.Intn(3)
		for k := 0; k < count; k++ {
			order := instance.NoOrder
			if r.Intn(2) == 0 {
				order = r.Intn(5)
			}
			abstracts = append(abstracts, instance.Abstract{
				ID:                instance.AbstractID(aid),
				Reference:         "a",
				Stream:            instance.StreamID(s),
				RequiredTimeslots: 1,
				Order:             order,
				Clash:             instance.EMPTY,
				SpeakerClash:      instance.EMPTY,
			})
			aid++
		}
	}
	for i := range abstracts {
		if r.Intn(3) == 0 && len(abstracts) > 1 {
			target := r.Intn(len(abstracts))
			if target != i {
				abstracts[i].Clash = instance.AbstractID(target)
			}
		}
	}

	streamsSessions := make(map[instance.StreamID]map[instance.TimeblockID]float64)
	streamsRooms := make(map[instance.StreamID]map[instance.RoomID]float64)
	sessionsRooms := make(map[instance.TimeblockID]map[instance.RoomID]float64)
	streamsStreams := make(map[instance.StreamID]map[instance.StreamID]float64)
	for s := 0; s < numStreams; s++ {
		streamsSessions[instance.StreamID(s)] = map[instance.TimeblockID]float64{}
		streamsRooms[instance.StreamID(s)] = map[instance.RoomID]float64{}
		streamsStreams[instance.StreamID(s)] = map[instance.StreamID]float64{}
		for b := 0; b < numTimeblocks; b++ {
			streamsSessions[instance.StreamID(s)][instance.TimeblockID(b)] = float64(r.Intn(3))
		}
		for room := 0; room < numRooms; room++ {
			streamsRooms[instance.StreamID(s)][instance.RoomID(room)] = float64(r.Intn(3))
		}
		for s2 := 0; s2 < numStreams; s2++ {
			streamsStreams[instance.StreamID(s)][instance.StreamID(s2)] = float64(r.Intn(3))
		}
	}
	for b := 0; b < numTimeblocks; b++ {
		sessionsRooms[instance.TimeblockID(b)] = map[instance.RoomID]float64{}
		for room := 0; room < numRooms; room++ {
			sessionsRooms[instance.TimeblockID(b)][instance.RoomID(room)] = float64(r.Intn(3))
		}
	}

	inst, err := instance.New(streams, rooms, timeblocks, abstracts, streamsSessions, streamsRooms, sessionsRooms, streamsStreams)
	if err != nil {
		panic(err)
	}
	return inst
}

func randomStreamsGrid(r *rand.Rand, inst *instance.Instance) *Grid {
	g := NewGrid(inst.NumTimeblocks(), inst.NumRooms())
	for b := 0; b < g.Rows; b++ {
		for room := 0; room < g.Cols; room++ {
			if inst.NumStreams() > 0 && r.Intn(2) == 0 {
				g.Set(b, room, r.Intn(inst.NumStreams()))
			}
		}
	}
	return g
}

func randomStreamsMove(r *rand.Rand, inst *instance.Instance, g *Grid) Move {
	n := 1 + r.Intn(2)
	items := make([]int, n)
	rows := make([]int, n)
	cols := make([]int, n)
	for i := 0; i < n; i++ {
		rows[i] = r.Intn(g.Rows)
		cols[i] = r.Intn(g.Cols)
		if inst.NumStreams() > 0 && r.Intn(2) == 0 {
			items[i] = r.Intn(inst.NumStreams())
		} else {
			items[i] = EMPTY
		}
	}
	return NewMove(items, rows, cols)
}

func randomAbstractsGrid(r *rand.Rand, inst *instance.Instance) *Grid {
	g := NewGrid(inst.NumTimeslots(), inst.NumRooms())
	if inst.NumAbstracts() == 0 {
		return g
	}
	for _, a := range inst.Abstracts() {
		if r.Intn(2) == 0 {
			continue
		}
		room := r.Intn(g.Cols)
		slot := r.Intn(g.Rows)
		if g.At(slot, room) == EMPTY {
			g.Set(slot, room, int(a.ID))
		}
	}
	return g
}

func randomAbstractsMove(r *rand.Rand, inst *instance.Instance, g *Grid) Move {
	n := 1 + r.Intn(2)
	items := make([]int, n)
	rows := make([]int, n)
	cols := make([]int, n)
	for i := 0; i < n; i++ {
		rows[i] = r.Intn(g.Rows)
		cols[i] = r.Intn(g.Cols)
		if inst.NumAbstracts() > 0 && r.Intn(2) == 0 {
			items[i] = int(inst.Abstracts()[r.Intn(inst.NumAbstracts())].ID)
		} else {
			items[i] = EMPTY
		}
	}
	return NewMove(items, rows, cols)
}
