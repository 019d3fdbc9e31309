package timeutil

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "morning", input: "9:05 AM", want: 545},
		{name: "noon", input: "12:00 PM", want: 720},
		{name: "after midnight", input: "12:30 AM", want: 30},
		{name: "afternoon", input: "1:30 PM", want: 810},
		{name: "no space lowercase", input: " 7:00am ", want: 420},
		{name: "two digit hour", input: "11:59 PM", want: 1439},
		{name: "hour zero", input: "0:15 AM", want: 15},
		{name: "hour out of range", input: "13:00 PM", wantErr: true},
		{name: "minute out of range", input: "9:60 AM", wantErr: true},
		{name: "missing meridiem", input: "9:00", wantErr: true},
		{name: "single digit minute", input: "9:5 AM", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseClock(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %d", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("unexpected minutes for %q: want %d, got %d", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseClock_EmptyIsSentinel(t *testing.T) {
	t.Parallel()

	if _, err := ParseClock("   "); !errors.Is(err, ErrEmptyClock) {
		t.Fatalf("expected ErrEmptyClock, got %v", err)
	}
}

func TestParseClockRange(t *testing.T) {
	t.Parallel()

	start, end, err := ParseClockRange("9:00 AM-10:30 AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 540 || end != 630 {
		t.Fatalf("unexpected range: want 540-630, got %d-%d", start, end)
	}

	if _, _, err := ParseClockRange("9:00 AM"); err == nil {
		t.Fatalf("expected error for missing separator")
	}
	if _, _, err := ParseClockRange("9:00 AM-late"); err == nil {
		t.Fatalf("expected error for invalid end")
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		0:    "12:00 AM",
		420:  "7:00 AM",
		720:  "12:00 PM",
		810:  "1:30 PM",
		1230: "8:30 PM",
	}
	for minutes, want := range cases {
		if got := FormatClock(minutes); got != want {
			t.Fatalf("unexpected clock for %d: want %q, got %q", minutes, want, got)
		}
	}

	if got := FormatRange(420, 480); got != "7:00 AM - 8:00 AM" {
		t.Fatalf("unexpected range label: %q", got)
	}
}

func TestFloorAndCeilHour(t *testing.T) {
	t.Parallel()

	if got := FloorHour(545); got != 540 {
		t.Fatalf("expected 540, got %d", got)
	}
	if got := CeilHour(545); got != 600 {
		t.Fatalf("expected 600, got %d", got)
	}
	if got := CeilHour(600); got != 600 {
		t.Fatalf("expected 600, got %d", got)
	}
}
