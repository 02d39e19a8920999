// Package runner batches extraction over a directory tree: glob-based
// discovery, bounded-parallel per-file extraction, and a content-hash
// cache so unchanged files are never re-parsed. Units are independent,
// so parallelism needs no coordination beyond result placement.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/codebuddy/internal/config"
	"github.com/mvp-joe/codebuddy/internal/extractor"
)

// Stats summarizes one batch run.
type Stats struct {
	FilesDiscovered int     `json:"files_discovered"`
	FilesExtracted  int     `json:"files_extracted"`
	CacheHits       int     `json:"cache_hits"`
	Symbols         int     `json:"symbols"`
	Diagnostics     int     `json:"diagnostics"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Result is the outcome of one batch run. Units are ordered by
// discovery order (lexical walk), independent of worker completion
// order, so identical trees produce identical results.
type Result struct {
	RunID string                  `json:"run_id"`
	Root  string                  `json:"root"`
	Units []*extractor.SourceUnit `json:"units"`
	Stats Stats                   `json:"stats"`
}

// Runner extracts all matching files under a root directory.
type Runner struct {
	cfg      *config.Config
	cache    otter.Cache[uint64, *extractor.SourceUnit]
	progress ProgressReporter
	workers  int
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress configures progress reporting.
func WithProgress(progress ProgressReporter) Option {
	return func(r *Runner) {
		r.progress = progress
	}
}

// New creates a batch runner from configuration.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	workers := cfg.Extract.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	entries := cfg.Extract.CacheEntries
	if entries <= 0 {
		entries = 1 // otter rejects zero capacity; effectively disabled
	}
	cache, err := otter.MustBuilder[uint64, *extractor.SourceUnit](entries).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}

	r := &Runner{
		cfg:      cfg,
		cache:    cache,
		progress: NoopProgress{},
		workers:  workers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases the extraction cache.
func (r *Runner) Close() {
	r.cache.Close()
}

// Run discovers and extracts every matching file under root. Extraction
// itself never fails; Run errors only on discovery or read problems, or
// on context cancellation.
func (r *Runner) Run(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	discovery, err := NewFileDiscovery(root, r.cfg.Paths.Code, r.cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid path patterns: %w", err)
	}

	files, err := discovery.Discover()
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	r.progress.OnDiscoveryComplete(len(files))

	units := make([]*extractor.SourceUnit, len(files))
	var cacheHits atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			relPath, err := filepath.Rel(root, file)
			if err != nil {
				relPath = file
			}
			relPath = filepath.ToSlash(relPath)

			source, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", relPath, err)
			}

			key := unitKey(relPath, source)
			if unit, ok := r.cache.Get(key); ok {
				cacheHits.Add(1)
				units[i] = unit
				r.progress.OnFileExtracted(relPath)
				return nil
			}

			unit := extractor.Extract(relPath, source)
			r.cache.Set(key, unit)
			units[i] = unit
			r.progress.OnFileExtracted(relPath)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := Stats{
		FilesDiscovered: len(files),
		FilesExtracted:  len(files) - int(cacheHits.Load()),
		CacheHits:       int(cacheHits.Load()),
		DurationSeconds: time.Since(start).Seconds(),
	}
	for _, unit := range units {
		stats.Diagnostics += len(unit.Diagnostics)
		unit.Module.Walk(func(*extractor.Symbol) bool {
			stats.Symbols++
			return true
		})
	}

	result := &Result{
		RunID: uuid.NewString(),
		Root:  root,
		Units: units,
		Stats: stats,
	}
	r.progress.OnComplete(stats)
	return result, nil
}

// ExtractFile extracts a single file through the cache, with the path
// recorded as given.
func (r *Runner) ExtractFile(path string) (*extractor.SourceUnit, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	key := unitKey(path, source)
	if unit, ok := r.cache.Get(key); ok {
		return unit, nil
	}
	unit := extractor.Extract(path, source)
	r.cache.Set(key, unit)
	return unit, nil
}

// unitKey hashes path and content together: identical content under a
// different path is a different unit (the path names the module root).
func unitKey(path string, source []byte) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(path)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(source)
	return d.Sum64()
}
