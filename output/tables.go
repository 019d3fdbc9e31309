package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"roomload/allocation"
	"roomload/internal/timeutil"
	"roomload/loads"
)

// SlotLookup returns the buckets used for a weekday.
type SlotLookup func(day time.Weekday) []allocation.TimeSlot

// AllocationSheets renders the grid as an occupied/vacant overview and a
// per-room breakdown.
func AllocationSheets(grid allocation.Grid) []Sheet {
	overview := Sheet{
		Name:    "Occupancy",
		Headers: []string{"Day", "Slot", "Break", "Occupied", "Vacant", "Total Rooms"},
	}
	rooms := Sheet{
		Name:    "Rooms",
		Headers: []string{"Day", "Slot", "Room", "Occupied", "Segments", "Classes"},
	}

	for _, day := range grid.Days {
		for _, slot := range day.Slots {
			overview.Rows = append(overview.Rows, []string{
				day.Label,
				slot.Slot.Label,
				yesNo(slot.Slot.Highlight),
				strconv.Itoa(slot.OccupiedCount),
				strconv.Itoa(slot.VacantCount),
				strconv.Itoa(len(grid.Rooms)),
			})
			for _, usage := range slot.Rooms {
				rooms.Rows = append(rooms.Rows, []string{
					day.Label,
					slot.Slot.Label,
					usage.Room,
					yesNo(usage.Occupied()),
					formatSegments(usage.Segments),
					formatDetails(usage.Details),
				})
			}
		}
	}
	return []Sheet{overview, rooms}
}

// LoadSheets renders the per-instructor unit summary, the weekly schedule and
// the instructor × slot matrix.
func LoadSheets(report loads.Report, slotsFor SlotLookup) []Sheet {
	summary := Sheet{
		Name:    "Summary",
		Headers: []string{"Instructor", "Course Units", "OJT Units", "Appraisal Units", "Total Units"},
	}
	weekly := Sheet{
		Name:    "Schedule",
		Headers: []string{"Instructor", "Day", "Time", "Subject", "Title", "PYB", "Room", "Category", "Units"},
	}
	matrix := Sheet{
		Name:    "Matrix",
		Headers: []string{"Instructor", "Day", "Slot", "Classes"},
	}

	for _, load := range report.Instructors {
		summary.Rows = append(summary.Rows, []string{
			load.Name,
			formatUnits(load.Summary.CourseUnits),
			formatUnits(load.Summary.OJTUnits),
			formatUnits(load.Summary.AppraisalUnits),
			formatUnits(load.Summary.Total),
		})

		for _, day := range report.Days {
			for _, item := range load.Schedule[day] {
				weekly.Rows = append(weekly.Rows, []string{
					load.Name,
					day.String(),
					timeutil.FormatRange(item.Start, item.End),
					item.SubjectCode,
					item.Title,
					item.PYB,
					item.Room,
					item.Category.String(),
					formatUnits(item.CourseUnits + item.OJTUnits + item.AppraisalUnits),
				})
			}

			if slotsFor == nil {
				continue
			}
			for _, slot := range slotsFor(day) {
				overlapping := load.EntriesOverlapping(day, slot.Start, slot.End)
				if len(overlapping) == 0 {
					continue
				}
				labels := make([]string, 0, len(overlapping))
				for _, item := range overlapping {
					labels = append(labels, classLabel(item))
				}
				matrix.Rows = append(matrix.Rows, []string{load.Name, day.String(), slot.Label, strings.Join(labels, "; ")})
			}
		}
	}

	sheets := []Sheet{summary, weekly}
	if slotsFor != nil {
		sheets = append(sheets, matrix)
	}
	return sheets
}

func classLabel(item loads.ScheduleEntry) string {
	label := item.SubjectCode
	if label == "" {
		label = item.Title
	}
	if item.PYB != "" {
		label += " (" + item.PYB + ")"
	}
	if item.Room != "" {
		label += " @ " + item.Room
	}
	return label
}

func formatSegments(segments []allocation.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, fmt.Sprintf("%.2f-%.2f", segment.Start, segment.End))
	}
	return strings.Join(parts, "; ")
}

func formatDetails(details []allocation.Detail) string {
	parts := make([]string, 0, len(details))
	for _, detail := range details {
		parts = append(parts, fmt.Sprintf("%s / %s / %s / %s", detail.Title, detail.Instructor, detail.Schedule, detail.PYB))
	}
	return strings.Join(parts, "; ")
}

func formatUnits(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
