package allocation

import (
	"fmt"
	"time"

	"roomload/internal/timeutil"
	"roomload/schedule"
)

// defaultDayStart anchors the fallback grid when no entry supplies a range.
const defaultDayStart = 7 * 60

type TimeSlot struct {
	Label     string `json:"label"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Highlight bool   `json:"highlight,omitempty"`
}

func NewSlot(start, end int, highlight bool) TimeSlot {
	return TimeSlot{
		Label:     timeutil.FormatRange(start, end),
		Start:     start,
		End:       end,
		Highlight: highlight,
	}
}

func (s TimeSlot) Duration() int {
	return s.End - s.Start
}

// Patterns maps a weekday to its ordered bucket list.
type Patterns map[time.Weekday][]TimeSlot

func hm(hour, minute int) int {
	return hour*60 + minute
}

var (
	monWedSlots = []TimeSlot{
		NewSlot(hm(7, 0), hm(8, 0), false),
		NewSlot(hm(8, 0), hm(9, 0), false),
		NewSlot(hm(9, 0), hm(10, 0), false),
		NewSlot(hm(10, 0), hm(11, 0), false),
		NewSlot(hm(11, 0), hm(12, 0), false),
		NewSlot(hm(12, 0), hm(13, 0), true),
		NewSlot(hm(13, 0), hm(14, 0), false),
		NewSlot(hm(14, 0), hm(15, 0), false),
		NewSlot(hm(15, 0), hm(16, 0), false),
		NewSlot(hm(16, 0), hm(17, 0), false),
		NewSlot(hm(17, 0), hm(18, 0), false),
		NewSlot(hm(18, 0), hm(19, 0), false),
		NewSlot(hm(19, 0), hm(20, 0), false),
	}

	thuFriSlots = []TimeSlot{
		NewSlot(hm(7, 0), hm(8, 30), false),
		NewSlot(hm(8, 30), hm(10, 0), false),
		NewSlot(hm(10, 0), hm(11, 30), false),
		NewSlot(hm(11, 30), hm(13, 0), true),
		NewSlot(hm(13, 0), hm(14, 30), false),
		NewSlot(hm(14, 30), hm(16, 0), false),
		NewSlot(hm(16, 0), hm(17, 30), false),
		NewSlot(hm(17, 30), hm(19, 0), false),
		NewSlot(hm(19, 0), hm(20, 30), false),
	}

	weekendSlots = []TimeSlot{
		NewSlot(hm(7, 30), hm(10, 30), false),
		NewSlot(hm(11, 0), hm(14, 0), true),
		NewSlot(hm(14, 0), hm(17, 0), false),
	}
)

// DefaultPatterns returns the canonical Mon–Wed, Thu–Fri and weekend grids.
func DefaultPatterns() Patterns {
	return Patterns{
		time.Monday:    monWedSlots,
		time.Tuesday:   monWedSlots,
		time.Wednesday: monWedSlots,
		time.Thursday:  thuFriSlots,
		time.Friday:    thuFriSlots,
		time.Saturday:  weekendSlots,
		time.Sunday:    weekendSlots,
	}
}

// PatternFromLabels parses range labels such as "7:00 AM-8:00 AM" into a
// validated pattern. highlight is the index of the break bucket, or -1.
func PatternFromLabels(labels []string, highlight int) ([]TimeSlot, error) {
	if highlight >= len(labels) {
		return nil, fmt.Errorf("highlight index %d out of range for %d slots", highlight, len(labels))
	}
	slots := make([]TimeSlot, 0, len(labels))
	for i, label := range labels {
		start, end, err := timeutil.ParseClockRange(label)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		slots = append(slots, NewSlot(start, end, i == highlight))
	}
	if err := ValidatePattern(slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// ValidatePattern checks that buckets are non-empty, ascending and
// non-overlapping.
func ValidatePattern(slots []TimeSlot) error {
	if len(slots) == 0 {
		return fmt.Errorf("pattern has no slots")
	}
	for i, slot := range slots {
		if slot.End <= slot.Start {
			return fmt.Errorf("slot %q: end must be after start", slot.Label)
		}
		if i > 0 && slot.Start < slots[i-1].End {
			return fmt.Errorf("slot %q overlaps or precedes %q", slot.Label, slots[i-1].Label)
		}
	}
	return nil
}

// Catalog supplies per-weekday buckets, falling back to an hourly grid that
// spans the observed entries for weekdays without a registered pattern.
type Catalog struct {
	patterns Patterns
	fallback []TimeSlot
}

func NewCatalog(patterns Patterns, entries []schedule.Entry) *Catalog {
	return &Catalog{
		patterns: patterns,
		fallback: FallbackSlots(entries),
	}
}

func (c *Catalog) SlotsFor(day time.Weekday) []TimeSlot {
	if slots, ok := c.patterns[day]; ok && len(slots) > 0 {
		return slots
	}
	return c.fallback
}

// FallbackSlots derives one-hour buckets from the floor hour of the earliest
// start to the ceiling hour of the latest end. It always yields a bucket.
func FallbackSlots(entries []schedule.Entry) []TimeSlot {
	start := defaultDayStart
	end := 0
	if len(entries) > 0 {
		minStart, maxEnd := entries[0].Start, entries[0].End
		for _, entry := range entries[1:] {
			minStart = min(minStart, entry.Start)
			maxEnd = max(maxEnd, entry.End)
		}
		start = timeutil.FloorHour(minStart)
		end = timeutil.CeilHour(maxEnd)
	}
	end = max(end, start+60)

	slots := make([]TimeSlot, 0, (end-start)/60)
	for cursor := start; cursor < end; cursor += 60 {
		slots = append(slots, NewSlot(cursor, cursor+60, false))
	}
	return slots
}
