// Package watcher polls directories for new snapshot images, standing in for
// a live camera feed: whatever drops a frame into the directory (a webcam
// tool, a phone sync, a screenshot key) feeds the translator.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var defaultExtensions = []string{".png", ".jpg", ".jpeg"}

const defaultInterval = 2 * time.Second

type Options struct {
	Paths []string
	// Extensions are matched case-insensitively and include the dot.
	Extensions []string
	Interval   time.Duration
}

// Service tracks which images in its directories it has already reported,
// by name and modification time. Files that exist when the service is created
// are ignored until they change.
type Service struct {
	paths      []string
	extensions []string
	interval   time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewService watches opts.Paths, or ~/Pictures/Snapshots when none are given.
func NewService(opts Options) (*Service, error) {
	paths := opts.Paths
	if len(paths) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home dir: %w", err)
		}
		paths = []string{filepath.Join(home, "Pictures", "Snapshots")}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			slog.Warn("watched directory does not exist", "path", path)
		}
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}
	normalized := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e != "" {
			normalized = append(normalized, e)
		}
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	s := &Service{
		paths:      paths,
		extensions: normalized,
		interval:   interval,
		seen:       make(map[string]time.Time),
	}
	for _, f := range s.scan() {
		s.seen[f.path] = f.modTime
	}
	return s, nil
}

type snapshot struct {
	path    string
	modTime time.Time
}

// scan lists the matching files in every watched directory.
func (s *Service) scan() []snapshot {
	var files []snapshot
	for _, dir := range s.paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !s.matches(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, snapshot{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
		}
	}
	return files
}

// CheckNew returns images that appeared or changed since the previous check,
// oldest first. Modification times are only compared against the same file's
// last known time, so a file moved in with an old timestamp is still new.
func (s *Service) CheckNew() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []snapshot
	for _, f := range s.scan() {
		if prev, ok := s.seen[f.path]; ok && f.modTime.Equal(prev) {
			continue
		}
		fresh = append(fresh, f)
	}

	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].modTime.Equal(fresh[j].modTime) {
			return fresh[i].path < fresh[j].path
		}
		return fresh[i].modTime.Before(fresh[j].modTime)
	})

	paths := make([]string, 0, len(fresh))
	for _, f := range fresh {
		s.seen[f.path] = f.modTime
		paths = append(paths, f.path)
		slog.Info("new snapshot detected", "file", f.path)
	}
	return paths
}

// Run calls handle for each new image until ctx is cancelled. Handler errors
// are logged and polling continues.
func (s *Service) Run(ctx context.Context, handle func(ctx context.Context, path string) error) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("watching for snapshots", "paths", s.paths, "interval", s.interval)

	for {
		for _, path := range s.CheckNew() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := handle(ctx, path); err != nil {
				slog.Error("snapshot failed", "file", path, "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
