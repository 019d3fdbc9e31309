package schedule

import (
	"regexp"
	"strconv"
	"strings"

	"roomload/internal/classify"
	"roomload/internal/timeutil"
)

type SkipReason string

const (
	SkipMissingSchedule SkipReason = "missing_schedule"
	SkipMissingDays     SkipReason = "missing_days"
	SkipInvalidTime     SkipReason = "invalid_time"
	SkipNoDays          SkipReason = "no_days"
	SkipInvertedRange   SkipReason = "inverted_range"
	SkipNoRoom          SkipReason = "no_room"
)

type SkippedRow struct {
	RowNumber int
	Reason    SkipReason
}

// NormalizeReport counts what happened to every input row. Malformed rows are
// dropped, never returned as errors; this report is the only trace of them.
type NormalizeReport struct {
	RowsRead       int
	RowsNormalized int
	EntriesEmitted int
	Skipped        []SkippedRow
}

func (r NormalizeReport) RowsSkipped() int {
	return len(r.Skipped)
}

func (r NormalizeReport) SkippedByReason() map[SkipReason]int {
	out := make(map[SkipReason]int)
	for _, skipped := range r.Skipped {
		out[skipped.Reason]++
	}
	return out
}

type NormalizeOptions struct {
	Classifier *classify.Classifier
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// Normalize converts raw rows into entries, one per (row × room).
func Normalize(rows []Row, opts NormalizeOptions) ([]Entry, NormalizeReport) {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = classify.Default()
	}

	report := NormalizeReport{RowsRead: len(rows)}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		rowEntries, reason := normalizeRow(row, classifier)
		if reason != "" {
			report.Skipped = append(report.Skipped, SkippedRow{RowNumber: row.Number, Reason: reason})
			continue
		}
		report.RowsNormalized++
		report.EntriesEmitted += len(rowEntries)
		entries = append(entries, rowEntries...)
	}
	return entries, report
}

func normalizeRow(row Row, classifier *classify.Classifier) ([]Entry, SkipReason) {
	scheduleLabel := row.Get(ColumnSchedule)
	if scheduleLabel == "" {
		return nil, SkipMissingSchedule
	}
	dayCode := row.Get(ColumnDays)
	if dayCode == "" {
		return nil, SkipMissingDays
	}

	start, end, err := timeutil.ParseClockRange(scheduleLabel)
	if err != nil {
		return nil, SkipInvalidTime
	}
	if end <= start {
		return nil, SkipInvertedRange
	}

	days := ExpandDays(dayCode)
	if days.Empty() {
		return nil, SkipNoDays
	}

	title := row.Get(ColumnTitle, ColumnSubject)
	category := classifier.Classify(title)
	if title == "" {
		title = DefaultEntryTitle
	}

	rooms := SplitRooms(row.Get(ColumnRoom))
	if len(rooms) == 0 {
		if !classify.RoomExempt(category) {
			return nil, SkipNoRoom
		}
		rooms = []string{""}
	}

	base := Entry{
		RowNumber:     row.Number,
		Days:          days,
		Start:         start,
		End:           end,
		Title:         title,
		SubjectCode:   row.Get(ColumnSubject),
		Instructor:    row.Get(ColumnInstructor),
		ScheduleLabel: scheduleLabel,
		PYB:           row.Get(ColumnPYB),
		Category:      category,
	}
	units := parseUnits(row)
	switch category {
	case classify.OJT:
		base.OJTUnits = units
	case classify.Appraisal:
		base.AppraisalUnits = units
	default:
		base.CourseUnits = units
	}

	entries := make([]Entry, 0, len(rooms))
	for _, room := range rooms {
		entry := base
		entry.Room = room
		entries = append(entries, entry)
	}
	return entries, ""
}

// parseUnits takes the first unit column holding a leading number.
func parseUnits(row Row) float64 {
	for _, column := range UnitColumns {
		raw := strings.TrimSpace(row.Values[column])
		if raw == "" {
			continue
		}
		match := leadingNumber.FindString(raw)
		if match == "" {
			continue
		}
		value, err := strconv.ParseFloat(match, 64)
		if err != nil {
			continue
		}
		return value
	}
	return 0
}
