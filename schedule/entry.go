package schedule

import (
	"errors"
	"strings"
	"time"

	"roomload/internal/classify"
)

// ErrNoData is returned by builders when no entry survived normalization.
var ErrNoData = errors.New("no schedule data")

// Column names recognised in source rows. Matching is exact.
const (
	ColumnSchedule    = "SCHEDULE"
	ColumnDays        = "DAYS"
	ColumnRoom        = "ROOM"
	ColumnInstructor  = "INSTRUCTOR"
	ColumnSubject     = "SUBJECT"
	ColumnTitle       = "DESCRIPTIVE TITLE"
	ColumnPYB         = "PYB"
	DefaultEntryTitle = "Untitled Class"
)

// UnitColumns lists the unit column spellings in lookup priority.
var UnitColumns = []string{"UNITS", "Units", "units", "UNITS ", " UNIT", "UNIT", "Unit"}

// WeekOrder is the presentation order of weekdays.
var WeekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// Row is one raw source row keyed by its header text.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the first present non-empty value among keys, trimmed.
func (r Row) Get(keys ...string) string {
	for _, key := range keys {
		if value, ok := r.Values[key]; ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// WeekdaySet is a duplicate-free set of weekdays.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var set WeekdaySet
	for _, day := range days {
		set = set.With(day)
	}
	return set
}

func (s WeekdaySet) With(day time.Weekday) WeekdaySet {
	if day < time.Sunday || day > time.Saturday {
		return s
	}
	return s | 1<<uint(day)
}

func (s WeekdaySet) Has(day time.Weekday) bool {
	if day < time.Sunday || day > time.Saturday {
		return false
	}
	return s&(1<<uint(day)) != 0
}

func (s WeekdaySet) Len() int {
	count := 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		if s.Has(day) {
			count++
		}
	}
	return count
}

func (s WeekdaySet) Empty() bool {
	return s == 0
}

// Days returns members in presentation order (Monday first).
func (s WeekdaySet) Days() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for _, day := range WeekOrder {
		if s.Has(day) {
			out = append(out, day)
		}
	}
	return out
}

// Entry is one normalized (row × room) schedule record.
type Entry struct {
	RowNumber      int
	Days           WeekdaySet
	Room           string
	Start          int
	End            int
	Title          string
	SubjectCode    string
	Instructor     string
	ScheduleLabel  string
	PYB            string
	Category       classify.Category
	CourseUnits    float64
	OJTUnits       float64
	AppraisalUnits float64
}

func (e Entry) HasRoom() bool {
	return e.Room != ""
}

// Overlaps reports half-open interval overlap with [start, end).
func (e Entry) Overlaps(start, end int) bool {
	return e.Start < end && e.End > start
}
