// Package resource serves interaction datasets from flat resource files.
package resource

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"strings"
	"sync"

	"gokea/domain/core"
	"gokea/domain/kinase"
	"gokea/internal"
	"gokea/internal/errors"
	"gokea/ports"
)

// Repository reads background and rank resources from fsys, as named by
// the registry. Resources are immutable for the process lifetime, so each
// file is read once and cached.
type Repository struct {
	fsys     fs.FS
	registry *Registry
	logger   *internal.Logger

	mu    sync.Mutex
	cache map[string][]string
}

var _ ports.DatasetStore = (*Repository)(nil)

// NewRepository creates a file-backed dataset repository
func NewRepository(fsys fs.FS, registry *Registry, logger *internal.Logger) *Repository {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = internal.Discard
	}
	return &Repository{
		fsys:     fsys,
		registry: registry,
		logger:   logger,
		cache:    make(map[string][]string),
	}
}

// Background concatenates the dataset's background resources in declared
// order. Records are level-independent; the level only picks the grouping
// column later, so it is logged here and not applied.
func (r *Repository) Background(ctx context.Context, selector kinase.Selector, level kinase.Resolution) ([]string, error) {
	dataset, err := r.registry.Lookup(selector)
	if err != nil {
		return nil, err
	}

	var records []string
	for _, name := range dataset.Sources {
		lines, err := r.read(name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load background for %s", dataset.Selector)
		}
		records = append(records, lines...)
	}
	r.logger.Debug("resource: %d background records for %s at %s level", len(records), dataset.Selector, level)
	return records, nil
}

// RankStats returns the dataset's rank records. A dataset without a rank
// resource has no historical statistics and yields no records.
func (r *Repository) RankStats(ctx context.Context, selector kinase.Selector) ([]string, error) {
	dataset, err := r.registry.Lookup(selector)
	if err != nil {
		return nil, err
	}
	if dataset.Ranks == "" {
		r.logger.Warn("resource: dataset %s has no rank statistics; z-scores will be 0", dataset.Selector)
		return nil, nil
	}
	lines, err := r.read(dataset.Ranks)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load rank statistics for %s", dataset.Selector)
	}
	return lines, nil
}

// Datasets lists the registry contents
func (r *Repository) Datasets(ctx context.Context) ([]ports.DatasetInfo, error) {
	return r.registry.Datasets(), nil
}

func (r *Repository) read(name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lines, ok := r.cache[name]; ok {
		return lines, nil
	}

	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigInvalidf(core.ErrMissingResource, "resource %s is not available", name)
		}
		return nil, errors.Wrapf(err, "failed to read resource %s", name)
	}

	lines, err := splitLines(data)
	if err != nil {
		return nil, errors.DataInvalid("failed to split resource "+name, err)
	}
	r.cache[name] = lines
	r.logger.Trace("resource: cached %s (%d lines)", name, len(lines))
	return lines, nil
}

// splitLines returns the non-empty lines of data without line terminators.
func splitLines(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// ReadLines splits a resource payload the way the repository does. Used by
// importers that feed other stores from the same files.
func ReadLines(fsys fs.FS, name string) ([]string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigInvalidf(core.ErrMissingResource, "resource %s is not available", name)
		}
		return nil, errors.Wrapf(err, "failed to read resource %s", name)
	}
	return splitLines(data)
}
