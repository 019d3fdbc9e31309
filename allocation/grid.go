package allocation

import (
	"time"

	"roomload/schedule"
)

const unknownInstructor = "TBD"

// Segment is the occupied fraction [Start, End] of one bucket.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type Detail struct {
	Title      string `json:"title"`
	Instructor string `json:"instructor"`
	Schedule   string `json:"schedule"`
	Room       string `json:"room"`
	PYB        string `json:"pyb"`
}

type RoomUsage struct {
	Room     string    `json:"room"`
	Segments []Segment `json:"segments"`
	Details  []Detail  `json:"details"`
}

func (r RoomUsage) Occupied() bool {
	return len(r.Segments) > 0
}

type SlotUsage struct {
	Slot          TimeSlot    `json:"slot"`
	OccupiedCount int         `json:"occupiedCount"`
	VacantCount   int         `json:"vacantCount"`
	Rooms         []RoomUsage `json:"rooms"`
}

type Day struct {
	Weekday time.Weekday `json:"weekday"`
	Label   string       `json:"label"`
	Slots   []SlotUsage  `json:"slots"`
}

func (d Day) Occupied() bool {
	for _, slot := range d.Slots {
		if slot.OccupiedCount > 0 {
			return true
		}
	}
	return false
}

// Grid is the day × slot × room occupancy view. Rooms is the fixed universe
// every slot is measured against.
type Grid struct {
	Rooms []string `json:"rooms"`
	Days  []Day    `json:"days"`
}

func (g Grid) Day(weekday time.Weekday) (Day, bool) {
	for _, day := range g.Days {
		if day.Weekday == weekday {
			return day, true
		}
	}
	return Day{}, false
}

type cell struct {
	segments []Segment
	details  []Detail
}

// Build places every roomed entry into the buckets of each of its weekdays.
// It returns schedule.ErrNoData when no entry occupies a room.
func Build(entries []schedule.Entry, patterns Patterns) (Grid, error) {
	roomed := make([]schedule.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.HasRoom() {
			roomed = append(roomed, entry)
		}
	}
	if len(roomed) == 0 {
		return Grid{}, schedule.ErrNoData
	}

	catalog := NewCatalog(patterns, entries)
	rooms := RoomUniverse(roomed)

	// usage[day][slot index][room]
	usage := make(map[time.Weekday][]map[string]*cell)
	for _, entry := range roomed {
		for _, day := range entry.Days.Days() {
			slots := catalog.SlotsFor(day)
			daySlots, ok := usage[day]
			if !ok {
				daySlots = make([]map[string]*cell, len(slots))
				usage[day] = daySlots
			}
			for i, slot := range slots {
				segment, ok := SegmentFor(entry, slot)
				if !ok {
					continue
				}
				if daySlots[i] == nil {
					daySlots[i] = make(map[string]*cell)
				}
				c, ok := daySlots[i][entry.Room]
				if !ok {
					c = &cell{}
					daySlots[i][entry.Room] = c
				}
				c.segments = append(c.segments, segment)
				c.details = append(c.details, detailFor(entry))
			}
		}
	}

	grid := Grid{Rooms: rooms, Days: make([]Day, 0, len(usage))}
	for _, weekday := range schedule.WeekOrder {
		daySlots, ok := usage[weekday]
		if !ok {
			continue
		}
		day := Day{Weekday: weekday, Label: weekday.String()}
		for i, slot := range catalog.SlotsFor(weekday) {
			day.Slots = append(day.Slots, slotUsage(slot, rooms, daySlots[i]))
		}
		if day.Occupied() {
			grid.Days = append(grid.Days, day)
		}
	}
	return grid, nil
}

// SegmentFor returns the fraction of slot covered by entry under half-open
// overlap. Zero-width overlaps report false.
func SegmentFor(entry schedule.Entry, slot TimeSlot) (Segment, bool) {
	duration := float64(slot.Duration())
	if duration <= 0 || !entry.Overlaps(slot.Start, slot.End) {
		return Segment{}, false
	}
	segment := Segment{
		Start: clamp(float64(max(entry.Start, slot.Start)-slot.Start) / duration),
		End:   clamp(float64(min(entry.End, slot.End)-slot.Start) / duration),
	}
	if segment.End <= segment.Start {
		return Segment{}, false
	}
	return segment, true
}

func slotUsage(slot TimeSlot, rooms []string, cells map[string]*cell) SlotUsage {
	out := SlotUsage{Slot: slot, Rooms: make([]RoomUsage, 0, len(rooms))}
	for _, room := range rooms {
		usage := RoomUsage{Room: room, Segments: []Segment{}, Details: []Detail{}}
		if c, ok := cells[room]; ok {
			usage.Segments = c.segments
			usage.Details = c.details
		}
		if usage.Occupied() {
			out.OccupiedCount++
		}
		out.Rooms = append(out.Rooms, usage)
	}
	out.VacantCount = len(rooms) - out.OccupiedCount
	return out
}

func detailFor(entry schedule.Entry) Detail {
	instructor := entry.Instructor
	if instructor == "" {
		instructor = unknownInstructor
	}
	return Detail{
		Title:      entry.Title,
		Instructor: instructor,
		Schedule:   entry.ScheduleLabel,
		Room:       entry.Room,
		PYB:        entry.PYB,
	}
}

func clamp(value float64) float64 {
	return min(1, max(0, value))
}
