package cmd

import "testing"

func TestDetectExportFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"./occupancy.csv":  "csv",
		"./occupancy.XLSX": "excel",
		"./loads.xlsm":     "excel",
		"./loads.out":      "csv",
	}
	for path, want := range tests {
		if got := detectExportFormat(path); got != want {
			t.Fatalf("unexpected format for %s: want %s, got %s", path, want, got)
		}
	}
}

func TestExportSheets(t *testing.T) {
	t.Parallel()

	if _, err := exportSheets("daily", nil); err == nil {
		t.Fatalf("expected unsupported mode error")
	}

	snapshot := buildTestSnapshot(t)
	tests := []struct {
		mode  string
		names []string
	}{
		{mode: "allocation", names: []string{"Occupancy", "Rooms"}},
		{mode: "loads", names: []string{"Summary", "Schedule", "Matrix"}},
		{mode: "all", names: []string{"Occupancy", "Rooms", "Summary", "Schedule", "Matrix"}},
		{mode: "chart", names: nil},
	}
	for _, tc := range tests {
		sheets, err := exportSheets(tc.mode, snapshot)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.mode, err)
		}
		if len(sheets) != len(tc.names) {
			t.Fatalf("%s: expected %d sheets, got %d", tc.mode, len(tc.names), len(sheets))
		}
		for i, name := range tc.names {
			if sheets[i].Name != name {
				t.Fatalf("%s: unexpected sheet %d: want %s, got %s", tc.mode, i, name, sheets[i].Name)
			}
		}
	}
}
