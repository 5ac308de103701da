// Package instance holds the immutable problem data for a conference
// timetable: streams, rooms, timeblocks and abstracts, addressed by
// dense integer IDs assigned in sheet order starting at 0.
package instance

// StreamID, RoomID, TimeblockID and AbstractID are dense handles into
// the Instance's entity tables. EMPTY (-1) marks an absent reference
// wherever any of these appear as a grid cell value.
type StreamID int
type RoomID int
type TimeblockID int
type AbstractID int

// EMPTY is the sentinel used by both StreamsGrid and AbstractsGrid
// cells, and by optional entity references (Clash, SpeakerClash, Order
// has its own NoOrder sentinel below since 0 is a valid order value).
const EMPTY = -1

// NoOrder marks an abstract with no explicit presentation order.
const NoOrder = -1

// Stream is a thematic track: a set of abstracts to be clustered in
// the schedule.
type Stream struct {
	ID   StreamID
	Name string

	// RoomCost[r] is the per-room cost of scheduling this stream in
	// room r. Missing entries default to 0.
	RoomCost map[RoomID]float64
	// TimeblockCost[b] is the per-timeblock cost of scheduling this
	// stream in timeblock b.
	TimeblockCost map[TimeblockID]float64
	// ConflictCost[other] is the cost of this stream sharing a
	// timeblock row with `other`.
	ConflictCost map[StreamID]float64

	// MaxDays, if >= 0, caps the number of distinct days this stream
	// may occupy; CostPerExtraDay weights violations of that cap.
	// Both are carried through from the original data model but are
	// not evaluated by any penalty term in this engine.
	MaxDays         int
	CostPerExtraDay float64
}

// Room is a physical space.
type Room struct {
	ID   RoomID
	Name string

	StreamCost    map[StreamID]float64
	TimeblockCost map[TimeblockID]float64
}

// Timeblock is a named, day-anchored container of consecutive
// equal-length talk slots.
type Timeblock struct {
	ID   TimeblockID
	Name string
	Day  int

	// FirstTimeslot is the prefix-sum start index of this timeblock's
	// slots within the flat timeslot axis.
	FirstTimeslot int
	// NumTimeslots is this timeblock's slot count (max number of talks
	// it can host).
	NumTimeslots int

	StreamCost map[StreamID]float64
	RoomCost   map[RoomID]float64
}

// Abstract is a single talk: required duration, ordering, and clash
// relations.
type Abstract struct {
	ID        AbstractID
	Reference string
	Stream    StreamID

	// RequiredTimeslots is the number of consecutive slots this
	// abstract occupies when scheduled (k >= 1).
	RequiredTimeslots int

	TimeblockCost map[TimeblockID]float64

	// Order is the presentation-order key, or NoOrder if unordered.
	Order int

	// Clash and SpeakerClash are optional single-target references to
	// another abstract that must not share this abstract's timeblock.
	// EMPTY means "no clash relation". See SPEC_FULL.md §3 / DESIGN.md
	// Open Question 1 for why both are modeled this way.
	Clash       AbstractID
	SpeakerClash AbstractID
}
