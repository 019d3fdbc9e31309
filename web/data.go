package web

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"roomload/allocation"
	"roomload/internal/timeutil"
	"roomload/loads"
	"roomload/refresh"
)

type DayTab struct {
	Label    string
	Link     string
	Selected bool
}

type SegmentView struct {
	LeftPct  float64
	WidthPct float64
}

type CellView struct {
	Room     string
	Occupied bool
	Segments []SegmentView
	Tooltip  string
}

type SlotRow struct {
	Label     string
	Highlight bool
	Occupied  int
	Vacant    int
	Cells     []CellView
}

type AllocationView struct {
	Tabs  []DayTab
	Day   string
	Rooms []string
	Slots []SlotRow
}

// BuildAllocationView lays out one day of the grid as slot rows by room
// columns. An unknown or empty day selects the first occupied day.
func BuildAllocationView(grid allocation.Grid, selected string) AllocationView {
	view := AllocationView{Rooms: grid.Rooms}
	if len(grid.Days) == 0 {
		return view
	}

	current := grid.Days[0]
	for _, day := range grid.Days {
		if strings.EqualFold(day.Label, strings.TrimSpace(selected)) {
			current = day
			break
		}
	}

	for _, day := range grid.Days {
		view.Tabs = append(view.Tabs, DayTab{
			Label:    day.Label,
			Link:     "/?day=" + day.Label,
			Selected: day.Weekday == current.Weekday,
		})
	}

	view.Day = current.Label
	for _, slot := range current.Slots {
		row := SlotRow{
			Label:     slot.Slot.Label,
			Highlight: slot.Slot.Highlight,
			Occupied:  slot.OccupiedCount,
			Vacant:    slot.VacantCount,
			Cells:     make([]CellView, 0, len(slot.Rooms)),
		}
		for _, usage := range slot.Rooms {
			row.Cells = append(row.Cells, cellView(usage))
		}
		view.Slots = append(view.Slots, row)
	}
	return view
}

func cellView(usage allocation.RoomUsage) CellView {
	cell := CellView{Room: usage.Room, Occupied: usage.Occupied()}
	for _, segment := range usage.Segments {
		cell.Segments = append(cell.Segments, SegmentView{
			LeftPct:  segment.Start * 100,
			WidthPct: (segment.End - segment.Start) * 100,
		})
	}
	lines := make([]string, 0, len(usage.Details))
	for _, detail := range usage.Details {
		lines = append(lines, fmt.Sprintf("%s\n%s\n%s | %s", detail.Title, detail.Instructor, detail.Schedule, detail.PYB))
	}
	cell.Tooltip = strings.Join(lines, "\n\n")
	return cell
}

type LoadEntryView struct {
	Time     string
	Subject  string
	Title    string
	PYB      string
	Room     string
	Category string
	Units    string
}

type LoadDayView struct {
	Day     string
	Entries []LoadEntryView
}

type LoadView struct {
	Name           string
	Key            string
	CourseUnits    string
	OJTUnits       string
	AppraisalUnits string
	Total          string
	Days           []LoadDayView
}

// BuildLoadViews flattens the report for the loads page, optionally
// restricted to instructors whose name contains filter.
func BuildLoadViews(report loads.Report, filter string) []LoadView {
	filter = strings.ToUpper(strings.TrimSpace(filter))
	views := make([]LoadView, 0, len(report.Instructors))
	for _, load := range report.Instructors {
		if filter != "" && !strings.Contains(load.Key, filter) {
			continue
		}
		view := LoadView{
			Name:           load.Name,
			Key:            load.Key,
			CourseUnits:    formatUnits(load.Summary.CourseUnits),
			OJTUnits:       formatUnits(load.Summary.OJTUnits),
			AppraisalUnits: formatUnits(load.Summary.AppraisalUnits),
			Total:          formatUnits(load.Summary.Total),
		}
		for _, day := range report.Days {
			items := load.Schedule[day]
			if len(items) == 0 {
				continue
			}
			dayView := LoadDayView{Day: day.String()}
			for _, item := range items {
				dayView.Entries = append(dayView.Entries, LoadEntryView{
					Time:     timeutil.FormatRange(item.Start, item.End),
					Subject:  item.SubjectCode,
					Title:    item.Title,
					PYB:      item.PYB,
					Room:     roomOrDash(item.Room),
					Category: item.Category.String(),
					Units:    formatUnits(item.CourseUnits + item.OJTUnits + item.AppraisalUnits),
				})
			}
			view.Days = append(view.Days, dayView)
		}
		views = append(views, view)
	}
	return views
}

type loadJSON struct {
	Name     string                           `json:"name"`
	Key      string                           `json:"key"`
	Summary  loads.Summary                    `json:"summary"`
	Schedule map[string][]loads.ScheduleEntry `json:"schedule"`
}

type loadsResponse struct {
	SnapshotID  string     `json:"snapshotId"`
	BuiltAt     time.Time  `json:"builtAt"`
	Days        []string   `json:"days"`
	Instructors []loadJSON `json:"instructors"`
}

func buildLoadsResponse(snapshot *refresh.Snapshot) loadsResponse {
	resp := loadsResponse{
		SnapshotID:  snapshot.ID.String(),
		BuiltAt:     snapshot.BuiltAt,
		Days:        make([]string, 0, len(snapshot.Loads.Days)),
		Instructors: make([]loadJSON, 0, len(snapshot.Loads.Instructors)),
	}
	for _, day := range snapshot.Loads.Days {
		resp.Days = append(resp.Days, day.String())
	}
	for _, load := range snapshot.Loads.Instructors {
		item := loadJSON{
			Name:     load.Name,
			Key:      load.Key,
			Summary:  load.Summary,
			Schedule: make(map[string][]loads.ScheduleEntry, len(load.Schedule)),
		}
		for day, entries := range load.Schedule {
			item.Schedule[day.String()] = entries
		}
		resp.Instructors = append(resp.Instructors, item)
	}
	return resp
}

type allocationResponse struct {
	SnapshotID string           `json:"snapshotId"`
	BuiltAt    time.Time        `json:"builtAt"`
	Rooms      []string         `json:"rooms"`
	Days       []allocation.Day `json:"days"`
}

func buildAllocationResponse(snapshot *refresh.Snapshot, day string) (allocationResponse, bool) {
	resp := allocationResponse{
		SnapshotID: snapshot.ID.String(),
		BuiltAt:    snapshot.BuiltAt,
		Rooms:      snapshot.Grid.Rooms,
		Days:       snapshot.Grid.Days,
	}
	day = strings.TrimSpace(day)
	if day == "" {
		return resp, true
	}
	for _, candidate := range snapshot.Grid.Days {
		if strings.EqualFold(candidate.Label, day) {
			resp.Days = []allocation.Day{candidate}
			return resp, true
		}
	}
	return resp, false
}

func formatUnits(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func roomOrDash(room string) string {
	if room == "" {
		return "-"
	}
	return room
}
