package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerWritesHeadersOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Bees: 5}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkHoneyMilestone, Tick: 600, Description: "x"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WriteForagers([]ForagerRecord{{EntityID: 1, Deposited: 5}}); err != nil {
		t.Fatalf("WriteForagers: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,bees") {
		t.Errorf("unexpected header %q", lines[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "foragers.json")); err != nil {
		t.Errorf("foragers.json missing: %v", err)
	}
	if got := om.EventLogPath(); got != filepath.Join(dir, "events.jsonl.zst") {
		t.Errorf("EventLogPath = %q", got)
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.EventLogPath() != "" {
		t.Error("nil manager should report empty paths")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
