// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package usage

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrackerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	tracker := NewTracker(path)

	clock := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return clock }

	prior, err := tracker.Record("01234567")
	require.NoError(t, err)
	require.Equal(t, 0, prior)

	clock = clock.Add(time.Hour)
	prior, err = tracker.Record("01234567")
	require.NoError(t, err)
	require.Equal(t, 1, prior)

	prior, err = tracker.Record("SC123456")
	require.NoError(t, err)
	require.Equal(t, 0, prior)

	stats, err := tracker.Stats()
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalRuns)

	cs := stats.Companies["01234567"]
	require.Equal(t, 2, cs.Runs)
	require.Equal(t, time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), cs.FirstRun)
	require.Equal(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC), cs.LastRun)
}

// Stats survive reopening the file with a fresh Tracker.
func TestTrackerPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")

	first := NewTracker(path)
	_, err := first.Record("01234567")
	require.NoError(t, err)

	second := NewTracker(path)
	prior, err := second.Record("01234567")
	require.NoError(t, err)
	require.Equal(t, 1, prior)
}

func TestTrackerMissingFileIsEmpty(t *testing.T) {
	tracker := NewTracker(filepath.Join(t.TempDir(), "nope", "usage.json"))
	stats, err := tracker.Stats()
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalRuns)
	require.Empty(t, stats.Companies)
}

func TestTrackerConcurrentRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	tracker := NewTracker(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tracker.Record("01234567")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := tracker.Stats()
	require.NoError(t, err)
	require.Equal(t, 20, stats.TotalRuns)
	require.Equal(t, 20, stats.Companies["01234567"].Runs)
}
