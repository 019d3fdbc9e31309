package schedule

import (
	"regexp"
	"strings"
)

var (
	roomSeparator = regexp.MustCompile(`\s*(?:[&+,/]|\bAND\b)\s*`)
	roomIllegal   = regexp.MustCompile(`[^A-Z0-9-]`)
)

// SplitRooms splits a compound room cell ("201 & 202", "101/102,103") into
// room identifiers. Empty and "NA" cells yield no rooms.
func SplitRooms(raw string) []string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" || value == "NA" {
		return nil
	}

	pieces := roomSeparator.Split(value, -1)
	rooms := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		room := roomIllegal.ReplaceAllString(strings.TrimSpace(piece), "")
		if room != "" {
			rooms = append(rooms, room)
		}
	}
	return rooms
}
