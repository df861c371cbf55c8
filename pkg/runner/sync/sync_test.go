package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/liftlog/pkg/lift"
)

func TestResolvePrefersHigherRecency(t *testing.T) {
	older := lift.Lift{
		ID:    "1709312400000",
		Date:  "2024-03-01",
		Title: "Push Day",
		Movements: []lift.Movement{
			{Name: "Bench Press", Sets: []lift.Set{{Weight: "135", Reps: "5"}}},
		},
	}
	newer := older
	newer.ID = "1709398800000"
	newer.Date = "2024-03-02"

	edited := older
	edited.Title = "Push Day B"

	tests := []struct {
		name          string
		local, remote lift.Lift
		want          action
	}{
		{"identical content is in sync", older, older, keepBoth},
		{"newer remote wins", older, newer, pullRemote},
		{"newer local wins", newer, older, pushLocal},
		{"recency tie goes local", older, edited, pushLocal},
	}
	for _, tc := range tests {
		if got := resolve(tc.local, tc.remote); got != tc.want {
			t.Fatalf("%s: resolve = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDueWithoutStamp(t *testing.T) {
	n := &Sync{StampDir: t.TempDir()}
	if !n.due() {
		t.Fatalf("missing stamp should mean due")
	}
}

func TestDueRespectsThrottleWindow(t *testing.T) {
	dir := t.TempDir()
	n := &Sync{StampDir: dir}
	n.stamp()
	if n.due() {
		t.Fatalf("fresh stamp should suppress sync")
	}

	// Age the stamp past the window.
	old := time.Now().Add(-minInterval - time.Minute)
	path := filepath.Join(dir, stampFile)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if !n.due() {
		t.Fatalf("aged stamp should mean due")
	}
}

func TestDueWithoutStampDir(t *testing.T) {
	n := &Sync{}
	if !n.due() {
		t.Fatalf("no stamp dir means always due")
	}
}
