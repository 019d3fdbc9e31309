package loads

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"roomload/internal/classify"
	"roomload/schedule"
)

// DefaultExcludedInstructors are department placeholders ("care of") that
// carry no individual teaching load.
var DefaultExcludedInstructors = []string{
	"C/O CAS",
	"C/O NSTP",
	"C/O PE DEPARTMENT",
	"C/O PE DEPT",
	"C/O PE",
}

type Options struct {
	// ExcludedInstructors are matched as upper-case substrings of the name.
	ExcludedInstructors []string
}

func DefaultOptions() Options {
	return Options{ExcludedInstructors: slices.Clone(DefaultExcludedInstructors)}
}

type ScheduleEntry struct {
	Start          int               `json:"start"`
	End            int               `json:"end"`
	Title          string            `json:"title"`
	SubjectCode    string            `json:"subjectCode"`
	PYB            string            `json:"pyb"`
	ScheduleLabel  string            `json:"scheduleLabel"`
	Room           string            `json:"room"`
	Category       classify.Category `json:"category"`
	CourseUnits    float64           `json:"courseUnits"`
	OJTUnits       float64           `json:"ojtUnits"`
	AppraisalUnits float64           `json:"appraisalUnits"`
}

type Summary struct {
	CourseUnits    float64 `json:"courseUnits"`
	OJTUnits       float64 `json:"ojtUnits"`
	AppraisalUnits float64 `json:"appraisalUnits"`
	Total          float64 `json:"total"`
}

type InstructorLoad struct {
	Name     string                           `json:"name"`
	Key      string                           `json:"key"`
	Schedule map[time.Weekday][]ScheduleEntry `json:"schedule"`
	Summary  Summary                          `json:"summary"`
}

// EntriesOverlapping returns the entries on day that meet during [start, end).
func (l InstructorLoad) EntriesOverlapping(day time.Weekday, start, end int) []ScheduleEntry {
	var out []ScheduleEntry
	for _, entry := range l.Schedule[day] {
		if entry.Start < end && entry.End > start {
			out = append(out, entry)
		}
	}
	return out
}

// Report lists instructors by display name and the weekdays on which any of
// them teaches, Monday first.
type Report struct {
	Instructors []InstructorLoad `json:"instructors"`
	Days        []time.Weekday   `json:"days"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// InstructorKey normalizes a name so "DELA CRUZ,JUAN" and "Dela Cruz,  Juan"
// group together.
func InstructorKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ",", ", ")
	key = whitespaceRun.ReplaceAllString(key, " ")
	return strings.TrimSpace(key)
}

type dayKey struct {
	pyb     string
	subject string
}

type unitKey struct {
	pyb     string
	subject string
	title   string
}

type accumulator struct {
	load     InstructorLoad
	appended []ScheduleEntry
}

// Aggregate groups entries per instructor. Unit totals count each
// (PYB, subject, title) once per week even though the course appears on
// every meeting day.
func Aggregate(entries []schedule.Entry, opts Options) (Report, error) {
	byKey := make(map[string]*accumulator)
	order := make([]*accumulator, 0, 32)

	for _, entry := range entries {
		if entry.Instructor == "" || excluded(entry.Instructor, opts.ExcludedInstructors) {
			continue
		}
		if !entry.HasRoom() && !classify.RoomExempt(entry.Category) {
			continue
		}

		key := InstructorKey(entry.Instructor)
		acc, ok := byKey[key]
		if !ok {
			acc = &accumulator{load: InstructorLoad{
				Name:     entry.Instructor,
				Key:      key,
				Schedule: make(map[time.Weekday][]ScheduleEntry),
			}}
			byKey[key] = acc
			order = append(order, acc)
		}

		item := scheduleEntryFor(entry)
		for _, day := range entry.Days.Days() {
			if containsDayKey(acc.load.Schedule[day], dayKey{pyb: item.PYB, subject: item.SubjectCode}) {
				continue
			}
			acc.load.Schedule[day] = append(acc.load.Schedule[day], item)
			acc.appended = append(acc.appended, item)
		}
	}

	if len(order) == 0 {
		return Report{}, schedule.ErrNoData
	}

	report := Report{Instructors: make([]InstructorLoad, 0, len(order))}
	for _, acc := range order {
		acc.load.Summary = summarize(acc.appended)
		report.Instructors = append(report.Instructors, acc.load)
	}

	collator := collate.New(language.English)
	slices.SortStableFunc(report.Instructors, func(a, b InstructorLoad) int {
		return collator.CompareString(a.Name, b.Name)
	})

	for _, day := range schedule.WeekOrder {
		for _, load := range report.Instructors {
			if len(load.Schedule[day]) > 0 {
				report.Days = append(report.Days, day)
				break
			}
		}
	}
	return report, nil
}

func summarize(items []ScheduleEntry) Summary {
	seen := make(map[unitKey]struct{}, len(items))
	var summary Summary
	for _, item := range items {
		key := unitKey{
			pyb:     item.PYB,
			subject: item.SubjectCode,
			title:   strings.ToUpper(strings.TrimSpace(item.Title)),
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		summary.CourseUnits += item.CourseUnits
		summary.OJTUnits += item.OJTUnits
		summary.AppraisalUnits += item.AppraisalUnits
	}
	summary.Total = summary.CourseUnits + summary.OJTUnits + summary.AppraisalUnits
	return summary
}

func containsDayKey(items []ScheduleEntry, key dayKey) bool {
	for _, item := range items {
		if item.PYB == key.pyb && item.SubjectCode == key.subject {
			return true
		}
	}
	return false
}

func excluded(name string, patterns []string) bool {
	upper := strings.ToUpper(name)
	for _, pattern := range patterns {
		pattern = strings.ToUpper(strings.TrimSpace(pattern))
		if pattern != "" && strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

func scheduleEntryFor(entry schedule.Entry) ScheduleEntry {
	return ScheduleEntry{
		Start:          entry.Start,
		End:            entry.End,
		Title:          entry.Title,
		SubjectCode:    entry.SubjectCode,
		PYB:            entry.PYB,
		ScheduleLabel:  entry.ScheduleLabel,
		Room:           entry.Room,
		Category:       entry.Category,
		CourseUnits:    entry.CourseUnits,
		OJTUnits:       entry.OJTUnits,
		AppraisalUnits: entry.AppraisalUnits,
	}
}
