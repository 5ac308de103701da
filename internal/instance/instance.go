package instance

import (
	"fmt"
	"math"
)

// Instance is the immutable, fully-resolved problem description. It is
// built once by a loader and never mutated afterward; grids (the
// mutable solutions) are evaluated against it but never write back
// into it.
type Instance struct {
	streams    []Stream
	rooms      []Room
	timeblocks []Timeblock
	abstracts  []Abstract

	nameToStream map[string]StreamID
	refToAbstract map[string]AbstractID

	// streamsSessions[s][b], streamsRooms[s][r], sessionsRooms[b][r]
	// and streamsStreams[s][s'] are the four penalty-matrix sheets.
	// Missing cells default to 0.
	streamsSessions map[StreamID]map[TimeblockID]float64
	streamsRooms    map[StreamID]map[RoomID]float64
	sessionsRooms   map[TimeblockID]map[RoomID]float64
	streamsStreams  map[StreamID]map[StreamID]float64

	abstractsByStream map[StreamID][]AbstractID

	timeblockOfTimeslot []TimeblockID
	numTimeslots        int

	// avgTalksPerSession is the mean of every timeblock's NumTimeslots,
	// matching the original's avg_talks_per_session(sessions) — a
	// data-dependent figure recomputed per instance, not a constant.
	avgTalksPerSession float64

	clashGraph *ClashGraph
}

// New assembles an Instance from already-resolved entity slices and
// penalty matrices. Loaders (e.g. internal/ioxlsx) are responsible for
// assigning dense IDs in sheet order and resolving references before
// calling New; New itself only derives the read-only maps and performs
// no ID assignment.
func New(
	streams []Stream,
	rooms []Room,
	timeblocks []Timeblock,
	abstracts []Abstract,
	streamsSessions map[StreamID]map[TimeblockID]float64,
	streamsRooms map[StreamID]map[RoomID]float64,
	sessionsRooms map[TimeblockID]map[RoomID]float64,
	streamsStreams map[StreamID]map[StreamID]float64,
) (*Instance, error) {
	inst := &Instance{
		streams:         streams,
		rooms:           rooms,
		timeblocks:      timeblocks,
		abstracts:       abstracts,
		streamsSessions: streamsSessions,
		streamsRooms:    streamsRooms,
		sessionsRooms:   sessionsRooms,
		streamsStreams:  streamsStreams,
	}

	inst.nameToStream = make(map[string]StreamID, len(streams))
	for _, s := range streams {
		inst.nameToStream[s.Name] = s.ID
	}

	inst.refToAbstract = make(map[string]AbstractID, len(abstracts))
	inst.abstractsByStream = make(map[StreamID][]AbstractID, len(streams))
	for _, a := range abstracts {
		inst.refToAbstract[a.Reference] = a.ID
		inst.abstractsByStream[a.Stream] = append(inst.abstractsByStream[a.Stream], a.ID)
	}

	if err := inst.buildTimeblockIndex(); err != nil {
		return nil, err
	}

	inst.avgTalksPerSession = meanNumTimeslots(timeblocks)
	inst.clashGraph = buildClashGraph(abstracts)

	return inst, nil
}

// buildTimeblockIndex validates the contiguous-partition invariant
// (spec.md §3) and builds the flat timeblock_of_timeslot lookup.
//
// The original Python instance computes timeblock_by_timeslot as "the
// first timeblock whose start >= timeslot", which misattributes any
// timeslot strictly inside a timeblock's interior. This builds the
// correct half-open-interval partition instead (DESIGN.md Open
// Question 3).
func (inst *Instance) buildTimeblockIndex() error {
	total := 0
	for _, b := range inst.timeblocks {
		if b.FirstTimeslot != total {
			return fmt.Errorf("instance: timeblock %q starts at %d, expected %d (timeblocks must partition [0,T) contiguously)", b.Name, b.FirstTimeslot, total)
		}
		total += b.NumTimeslots
	}
	inst.numTimeslots = total
	inst.timeblockOfTimeslot = make([]TimeblockID, total)
	for _, b := range inst.timeblocks {
		for slot := b.FirstTimeslot; slot < b.FirstTimeslot+b.NumTimeslots; slot++ {
			inst.timeblockOfTimeslot[slot] = b.ID
		}
	}
	return nil
}

func (inst *Instance) Stream(id StreamID) Stream           { return inst.streams[id] }
func (inst *Instance) Streams() []Stream                   { return inst.streams }
func (inst *Instance) NumStreams() int                     { return len(inst.streams) }
func (inst *Instance) Room(id RoomID) Room                 { return inst.rooms[id] }
func (inst *Instance) Rooms() []Room                       { return inst.rooms }
func (inst *Instance) NumRooms() int                       { return len(inst.rooms) }
func (inst *Instance) Timeblock(id TimeblockID) Timeblock  { return inst.timeblocks[id] }
func (inst *Instance) Timeblocks() []Timeblock             { return inst.timeblocks }
func (inst *Instance) NumTimeblocks() int                  { return len(inst.timeblocks) }
func (inst *Instance) Abstract(id AbstractID) Abstract      { return inst.abstracts[id] }
func (inst *Instance) Abstracts() []Abstract                { return inst.abstracts }
func (inst *Instance) NumAbstracts() int                    { return len(inst.abstracts) }
func (inst *Instance) NumTimeslots() int                    { return inst.numTimeslots }
func (inst *Instance) ClashGraph() *ClashGraph               { return inst.clashGraph }

func (inst *Instance) StreamByName(name string) (StreamID, bool) {
	id, ok := inst.nameToStream[name]
	return id, ok
}

func (inst *Instance) AbstractByReference(ref string) (AbstractID, bool) {
	id, ok := inst.refToAbstract[ref]
	return id, ok
}

func (inst *Instance) AbstractsByStream(s StreamID) []AbstractID {
	return inst.abstractsByStream[s]
}

// TimeblockOfTimeslot returns which timeblock contains a given flat
// timeslot index.
func (inst *Instance) TimeblockOfTimeslot(slot int) TimeblockID {
	return inst.timeblockOfTimeslot[slot]
}

// TimeslotRange returns the half-open [start, end) range of a timeblock
// within the flat timeslot axis.
func (inst *Instance) TimeslotRange(b TimeblockID) (start, end int) {
	tb := inst.timeblocks[b]
	return tb.FirstTimeslot, tb.FirstTimeslot + tb.NumTimeslots
}

// meanNumTimeslots mirrors the original's
// sessions.loc[:,'Max number of talks'].mean(): the average
// NumTimeslots across all timeblocks. An instance with no timeblocks
// has no meaningful average; 1 keeps RequiredSessions's ceil division
// from dividing by zero while leaving the total unchanged.
func meanNumTimeslots(timeblocks []Timeblock) float64 {
	if len(timeblocks) == 0 {
		return 1
	}
	total := 0
	for _, b := range timeblocks {
		total += b.NumTimeslots
	}
	return float64(total) / float64(len(timeblocks))
}

// RequiredSessions computes ceil(sum of abstract timeslots / avg talks
// per session) for a stream.
func (inst *Instance) RequiredSessions(s StreamID) int {
	total := 0
	for _, aid := range inst.abstractsByStream[s] {
		total += inst.abstracts[aid].RequiredTimeslots
	}
	if total == 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / inst.avgTalksPerSession))
}

func (inst *Instance) StreamsSessionsCost(s StreamID, b TimeblockID) float64 {
	return inst.streamsSessions[s][b]
}

func (inst *Instance) StreamsRoomsCost(s StreamID, r RoomID) float64 {
	return inst.streamsRooms[s][r]
}

func (inst *Instance) SessionsRoomsCost(b TimeblockID, r RoomID) float64 {
	return inst.sessionsRooms[b][r]
}

func (inst *Instance) StreamsStreamsCost(a, b StreamID) float64 {
	return inst.streamsStreams[a][b]
}
