package schedule

import (
	"reflect"
	"testing"
)

func TestSplitRooms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{input: "201 & 202", want: []string{"201", "202"}},
		{input: "NA", want: nil},
		{input: "na", want: nil},
		{input: "", want: nil},
		{input: "101/102,103", want: []string{"101", "102", "103"}},
		{input: "lab-1 + lab-2", want: []string{"LAB-1", "LAB-2"}},
		{input: "201 and 202", want: []string{"201", "202"}},
		{input: "Room #5", want: []string{"ROOM5"}},
		{input: "IR, , SR", want: []string{"IR", "SR"}},
		{input: "LANDBANK", want: []string{"LANDBANK"}},
	}

	for _, tc := range tests {
		got := SplitRooms(tc.input)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("unexpected rooms for %q: want %v, got %v", tc.input, tc.want, got)
		}
	}
}
