package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

var ErrEmptyClock = errors.New("empty clock value")

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)$`)

// ParseClock converts a 12-hour clock value such as "9:05 AM" into minutes
// since midnight.
func ParseClock(raw string) (int, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return 0, ErrEmptyClock
	}

	match := clockPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("unsupported clock format: %q", raw)
	}

	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 12 {
		return 0, fmt.Errorf("hour out of range in %q", raw)
	}
	if minute > 59 {
		return 0, fmt.Errorf("minute out of range in %q", raw)
	}

	switch {
	case match[3] == "AM" && hour == 12:
		hour = 0
	case match[3] == "PM" && hour != 12:
		hour += 12
	}
	return hour*60 + minute, nil
}

// ParseClockRange parses "<start>-<end>" where both sides carry AM/PM.
func ParseClockRange(raw string) (int, int, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("missing range separator in %q", raw)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse range start: %w", err)
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse range end: %w", err)
	}
	return start, end, nil
}

func FormatClock(minutes int) string {
	hour24 := minutes / 60
	period := "AM"
	if hour24 >= 12 {
		period = "PM"
	}
	hour12 := hour24 % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minutes%60, period)
}

func FormatRange(start, end int) string {
	return FormatClock(start) + " - " + FormatClock(end)
}

func FloorHour(minutes int) int {
	return (minutes / 60) * 60
}

func CeilHour(minutes int) int {
	return ((minutes + 59) / 60) * 60
}
