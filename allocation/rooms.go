package allocation

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"roomload/schedule"
)

const (
	instructionRoom = "IR"
	seminarRoom     = "SR"
)

// RoomUniverse returns the distinct rooms of entries in numeric-aware,
// case-insensitive order, with "SR" placed right after "IR".
func RoomUniverse(entries []schedule.Entry) []string {
	seen := make(map[string]struct{})
	rooms := make([]string, 0, 32)
	for _, entry := range entries {
		if !entry.HasRoom() {
			continue
		}
		if _, ok := seen[entry.Room]; ok {
			continue
		}
		seen[entry.Room] = struct{}{}
		rooms = append(rooms, entry.Room)
	}
	return OrderRooms(rooms)
}

func OrderRooms(rooms []string) []string {
	ordered := slices.Clone(rooms)
	collate.New(language.Und, collate.Numeric, collate.IgnoreCase).SortStrings(ordered)

	sr := slices.Index(ordered, seminarRoom)
	if sr < 0 {
		return ordered
	}
	ordered = slices.Delete(ordered, sr, sr+1)
	insertAt := len(ordered)
	if ir := slices.Index(ordered, instructionRoom); ir >= 0 {
		insertAt = ir + 1
	}
	return slices.Insert(ordered, insertAt, seminarRoom)
}
