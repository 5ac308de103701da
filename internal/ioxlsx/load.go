// Package ioxlsx is the workbook ingest/export adapter: it reads the
// eight input sheets of a conference-timetable workbook into an
// instance.Instance and writes the four output sheets of a solved
// schedule, built on github.com/xuri/excelize/v2.
package ioxlsx

import (
	"fmt"
	"strconv"
	"strings"

	"confsched/internal/instance"
	"github.com/xuri/excelize/v2"
)

const (
	sheetStreams         = "streams"
	sheetRooms           = "rooms"
	sheetSessions        = "sessions"
	sheetAbstracts       = "abstracts"
	sheetStreamsRooms    = "streams_rooms|penalty"
	sheetStreamsSessions = "streams_sessions|penalty"
	sheetSessionsRooms   = "sessions_rooms|penalty"
	sheetStreamsStreams  = "streams_streams|penalty"
)

var requiredSheets = []string{
	sheetStreams, sheetRooms, sheetSessions, sheetAbstracts,
	sheetStreamsRooms, sheetStreamsSessions, sheetSessionsRooms, sheetStreamsStreams,
}

// Load reads a workbook at path and builds an Instance from it.
// warnings carries non-fatal EmptyStream notices (spec.md §7); err is
// non-nil only for fatal conditions (MissingSheet, UnknownReference).
func Load(path string) (inst *instance.Instance, warnings []string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ioxlsx: open %s: %w", path, err)
	}
	defer f.Close()

	sheetData := make(map[string][][]string, len(requiredSheets))
	for _, name := range requiredSheets {
		rows, err := f.GetRows(name)
		if err != nil || rows == nil {
			return nil, nil, fmt.Errorf("%w: %s", instance.ErrMissingSheet, name)
		}
		sheetData[name] = rows
	}

	streamsRows := sheetData[sheetStreams]
	roomsRows := sheetData[sheetRooms]
	sessionsRows := sheetData[sheetSessions]
	abstractsRows := sheetData[sheetAbstracts]

	streamCols := header(streamsRows)
	roomCols := header(roomsRows)
	sessionCols := header(sessionsRows)
	abstractCols := header(abstractsRows)

	streamKeys := nameKeys(streamsRows, streamCols, "Streams")
	roomKeys := nameKeys(roomsRows, roomCols, "Rooms")
	sessionKeys := nameKeys(sessionsRows, sessionCols, "Sessions")

	streamsRoomsMatrix := parseMatrix(sheetData[sheetStreamsRooms])
	streamsSessionsMatrix := parseMatrix(sheetData[sheetStreamsSessions])
	sessionsRoomsMatrix := parseMatrix(sheetData[sheetSessionsRooms])
	streamsStreamsMatrix := parseMatrix(sheetData[sheetStreamsStreams])

	streams := make([]instance.Stream, 0, len(streamsRows)-1)
	for i, row := range streamsRows[1:] {
		name := cell(row, streamCols, "Streams")
		id := instance.StreamID(i)
		streams = append(streams, instance.Stream{
			ID:              id,
			Name:            name,
			RoomCost:        matrixRow(streamsRoomsMatrix, name, roomKeys, func(r int) instance.RoomID { return instance.RoomID(r) }),
			TimeblockCost:   matrixRow(streamsSessionsMatrix, name, sessionKeys, func(r int) instance.TimeblockID { return instance.TimeblockID(r) }),
			ConflictCost:    matrixRow(streamsStreamsMatrix, name, streamKeys, func(r int) instance.StreamID { return instance.StreamID(r) }),
			MaxDays:         parseOptionalInt(cell(row, streamCols, "Max Number of Days"), -1),
			CostPerExtraDay: parseOptionalFloat(cell(row, streamCols, "Cost for Extra Days"), 0),
		})
	}

	rooms := make([]instance.Room, 0, len(roomsRows)-1)
	for i, row := range roomsRows[1:] {
		name := cell(row, roomCols, "Rooms")
		rooms = append(rooms, instance.Room{
			ID:            instance.RoomID(i),
			Name:          name,
			StreamCost:    matrixCol(streamsRoomsMatrix, name, streamKeys, func(r int) instance.StreamID { return instance.StreamID(r) }),
			TimeblockCost: matrixCol(sessionsRoomsMatrix, name, sessionKeys, func(r int) instance.TimeblockID { return instance.TimeblockID(r) }),
		})
	}

	timeblocks := make([]instance.Timeblock, 0, len(sessionsRows)-1)
	firstTimeslot := 0
	for i, row := range sessionsRows[1:] {
		name := cell(row, sessionCols, "Sessions")
		numSlots := int(parseOptionalFloat(cell(row, sessionCols, "Max number of talks"), 0))
		tb := instance.Timeblock{
			ID:            instance.TimeblockID(i),
			Name:          name,
			Day:           int(parseOptionalFloat(cell(row, sessionCols, "Day"), 0)),
			FirstTimeslot: firstTimeslot,
			NumTimeslots:  numSlots,
			StreamCost:    matrixCol(streamsSessionsMatrix, name, streamKeys, func(r int) instance.StreamID { return instance.StreamID(r) }),
			RoomCost:      matrixRow(sessionsRoomsMatrix, name, roomKeys, func(r int) instance.RoomID { return instance.RoomID(r) }),
		}
		firstTimeslot += numSlots
		timeblocks = append(timeblocks, tb)
	}

	abstractKeys := nameKeys(abstractsRows, abstractCols, "Reference")

	abstracts := make([]instance.Abstract, 0, len(abstractsRows)-1)
	for i, row := range abstractsRows[1:] {
		reference := cell(row, abstractCols, "Reference")
		streamName := cell(row, abstractCols, "Stream")
		streamID, ok := streamKeys[streamName]
		if !ok {
			return nil, nil, fmt.Errorf("%w: abstract %q references unknown stream %q", instance.ErrUnknownReference, reference, streamName)
		}

		timeblockCost := make(map[instance.TimeblockID]float64)
		for sessionName, sid := range sessionKeys {
			v := cell(row, abstractCols, sessionName)
			if v == "" {
				continue
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				timeblockCost[instance.TimeblockID(sid)] = f
			}
		}

		clash := parseAbstractRef(cell(row, abstractCols, "Clash (Including same session/stream)"), abstractKeys)
		speakerClash := parseAbstractRef(cell(row, abstractCols, "Clash (Speaker)"), abstractKeys)

		abstracts = append(abstracts, instance.Abstract{
			ID:                instance.AbstractID(i),
			Reference:         reference,
			Stream:            streamID,
			RequiredTimeslots: int(parseOptionalFloat(cell(row, abstractCols, "Required Timeslots"), 1)),
			TimeblockCost:     timeblockCost,
			Order:             parseOptionalInt(cell(row, abstractCols, "Order"), instance.NoOrder),
			Clash:             clash,
			SpeakerClash:      speakerClash,
		})
	}

	streamsSessions := make(map[instance.StreamID]map[instance.TimeblockID]float64, len(streams))
	streamsRooms := make(map[instance.StreamID]map[instance.RoomID]float64, len(streams))
	streamsStreams := make(map[instance.StreamID]map[instance.StreamID]float64, len(streams))
	for _, s := range streams {
		streamsSessions[s.ID] = s.TimeblockCost
		streamsRooms[s.ID] = s.RoomCost
		streamsStreams[s.ID] = s.ConflictCost
	}
	sessionsRooms := make(map[instance.TimeblockID]map[instance.RoomID]float64, len(timeblocks))
	for _, tb := range timeblocks {
		sessionsRooms[tb.ID] = tb.RoomCost
	}

	inst, err = instance.New(streams, rooms, timeblocks, abstracts, streamsSessions, streamsRooms, sessionsRooms, streamsStreams)
	if err != nil {
		return nil, nil, err
	}

	for _, s := range streams {
		if len(inst.AbstractsByStream(s.ID)) == 0 {
			warnings = append(warnings, fmt.Sprintf("stream %q has no abstracts", s.Name))
		}
	}

	return inst, warnings, nil
}

func parseAbstractRef(ref string, keys map[string]int) instance.AbstractID {
	if ref == "" {
		return instance.EMPTY
	}
	id, ok := keys[ref]
	if !ok {
		return instance.EMPTY
	}
	return instance.AbstractID(id)
}

func header(rows [][]string) map[string]int {
	cols := make(map[string]int)
	if len(rows) == 0 {
		return cols
	}
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func nameKeys(rows [][]string, cols map[string]int, nameCol string) map[string]int {
	keys := make(map[string]int)
	for i, row := range rows[1:] {
		keys[cell(row, cols, nameCol)] = i
	}
	return keys
}

func parseOptionalFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseOptionalInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}

// matrix is a sparse row-name -> column-name -> value table parsed from
// a penalty sheet shaped like the original's pandas DataFrames: first
// column holds row names, the header row holds column names.
type matrix struct {
	rows map[string]map[string]float64
}

func parseMatrix(rows [][]string) matrix {
	m := matrix{rows: make(map[string]map[string]float64)}
	if len(rows) == 0 {
		return m
	}
	headerRow := rows[0]
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rowName := strings.TrimSpace(row[0])
		cells := make(map[string]float64)
		for c := 1; c < len(headerRow) && c < len(row); c++ {
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				cells[strings.TrimSpace(headerRow[c])] = f
			}
		}
		m.rows[rowName] = cells
	}
	return m
}

// matrixRow builds the cost map for one row name, keyed by the target
// ID type via the provided key lookup and constructor.
func matrixRow[T comparable](m matrix, rowName string, keys map[string]int, mk func(int) T) map[T]float64 {
	out := make(map[T]float64)
	cells, ok := m.rows[rowName]
	if !ok {
		return out
	}
	for colName, v := range cells {
		if id, ok := keys[colName]; ok {
			out[mk(id)] = v
		}
	}
	return out
}

// matrixCol builds the cost map for one column name across every row,
// the transposed read of matrixRow (used when the sheet is queried by
// its header axis instead of its row axis).
func matrixCol[T comparable](m matrix, colName string, keys map[string]int, mk func(int) T) map[T]float64 {
	out := make(map[T]float64)
	for rowName, cells := range m.rows {
		v, ok := cells[colName]
		if !ok {
			continue
		}
		if id, ok := keys[rowName]; ok {
			out[mk(id)] = v
		}
	}
	return out
}
