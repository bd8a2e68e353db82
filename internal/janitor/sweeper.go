// Package janitor removes stale files from the download directory.
package janitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Sweeper deletes regular files in Dir whose modification time is older
// than MaxAge.
type Sweeper struct {
	Dir      string
	MaxAge   time.Duration
	Interval time.Duration

	// OnRemove is called for every deleted file. Optional.
	OnRemove func(path string)
	// OnError receives the error of a failed sweep inside Run. Optional.
	OnError func(err error)
}

// Sweep removes expired files relative to now and returns how many were
// removed. Directories are left alone.
func (s *Sweeper) Sweep(now time.Time) (int, error) {
	if s.MaxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := now.Add(-s.MaxAge)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.Dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
		if s.OnRemove != nil {
			s.OnRemove(path)
		}
	}
	return removed, errors.Join(errs...)
}

// Run sweeps once immediately and then every Interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(time.Now()); err != nil && s.OnError != nil {
			s.OnError(err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
