package main

import (
	"testing"
)

func TestRun_FixedCoordinatesOfflineCache(t *testing.T) {
	// With fixed coordinates, a private cache dir, and whatever network
	// state CI has, run must produce a line or a clean error, never a
	// panic. The resolver layer guarantees a usable timetable even fully
	// offline (seasonal approximation).
	if err := run(27.0040, 49.6460, 4, "24h", t.TempDir()); err != nil {
		t.Errorf("run() error = %v", err)
	}
}

func TestRun_TimeFormats(t *testing.T) {
	for _, format := range []string{"12h", "24h", ""} {
		if err := run(27.0040, 49.6460, 4, format, t.TempDir()); err != nil {
			t.Errorf("run() with format %q error = %v", format, err)
		}
	}
}
