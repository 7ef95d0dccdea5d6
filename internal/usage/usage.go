// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package usage counts analysis runs in a small JSON stats file.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CompanyStats is the per-company slice of the counter.
type CompanyStats struct {
	Runs     int       `json:"runs"`
	FirstRun time.Time `json:"first_run"`
	LastRun  time.Time `json:"last_run"`
}

// Stats is the full on-disk record.
type Stats struct {
	TotalRuns int                     `json:"total_runs"`
	Companies map[string]CompanyStats `json:"companies"`
}

// Tracker reads and updates a stats file. All access goes through one mutex,
// so a Tracker is safe for concurrent use within a process.
type Tracker struct {
	path string
	mu   sync.Mutex

	now func() time.Time // test hook
}

// NewTracker wraps the stats file at path; the file is created on first
// Record.
func NewTracker(path string) *Tracker {
	return &Tracker{path: path, now: time.Now}
}

// Record counts one run for the company and returns how many runs were
// recorded for it before this one.
func (t *Tracker) Record(companyNumber string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats, err := t.load()
	if err != nil {
		return 0, err
	}

	now := t.now().UTC()
	cs := stats.Companies[companyNumber]
	prior := cs.Runs
	if cs.Runs == 0 {
		cs.FirstRun = now
	}
	cs.Runs++
	cs.LastRun = now
	stats.Companies[companyNumber] = cs
	stats.TotalRuns++

	if err := t.save(stats); err != nil {
		return 0, err
	}
	return prior, nil
}

// Stats returns a snapshot of the counter.
func (t *Tracker) Stats() (Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

func (t *Tracker) load() (Stats, error) {
	stats := Stats{Companies: make(map[string]CompanyStats)}
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("read usage stats: %w", err)
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("parse usage stats %s: %w", t.path, err)
	}
	if stats.Companies == nil {
		stats.Companies = make(map[string]CompanyStats)
	}
	return stats, nil
}

func (t *Tracker) save(stats Stats) error {
	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create usage dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0o644)
}
