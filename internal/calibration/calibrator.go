// Package calibration derives rank statistics for a background by running
// the enrichment engine against random gene lists.
//
// For every kinase the p-value rank it reaches across the random lists is
// collected; its mean and population standard deviation become the
// "name mean stddev" records the engine later uses for z-scores.
package calibration

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"gokea/domain/kinase"
	"gokea/internal"
	"gokea/internal/enrichment"
	"gokea/internal/errors"
	"gokea/ports"

	"github.com/montanaflynn/stats"
)

// Default sampling parameters
const (
	DefaultIterations = 1000
	DefaultListSize   = 300
	DefaultSeed       = 42
)

// Settings controls a calibration run
type Settings struct {
	Iterations int
	ListSize   int
	Seed       int64
	Resolution kinase.Resolution
}

// DefaultSettings returns the default sampling parameters at kinase level
func DefaultSettings() Settings {
	return Settings{
		Iterations: DefaultIterations,
		ListSize:   DefaultListSize,
		Seed:       DefaultSeed,
		Resolution: kinase.ResolutionKinase,
	}
}

// Validate checks the sampling parameters
func (s Settings) Validate() error {
	if s.Iterations <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("iterations must be positive, got %d", s.Iterations))
	}
	if s.ListSize <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("list size must be positive, got %d", s.ListSize))
	}
	if !s.Resolution.Valid() {
		return errors.ConfigInvalid(fmt.Sprintf("unknown resolution %d", s.Resolution))
	}
	return nil
}

// RankStat is the observed rank distribution of one kinase
type RankStat struct {
	Name         string
	Mean         float64
	StdDev       float64
	Observations int
}

// Record renders the stat as a rank resource line
func (r RankStat) Record() string {
	return r.Name + " " + strconv.FormatFloat(r.Mean, 'g', -1, 64) + " " + strconv.FormatFloat(r.StdDev, 'g', -1, 64)
}

// Calibrator samples random gene lists from a background
type Calibrator struct {
	rng    ports.RNGPort
	engine *enrichment.Engine
	logger *internal.Logger
}

// NewCalibrator creates a calibrator. A nil rng uses SeededRNG.
func NewCalibrator(rng ports.RNGPort, logger *internal.Logger) *Calibrator {
	if rng == nil {
		rng = SeededRNG{}
	}
	if logger == nil {
		logger = internal.Discard
	}
	return &Calibrator{
		rng:    rng,
		engine: enrichment.NewEngine(logger),
		logger: logger,
	}
}

// Calibrate runs settings.Iterations random lists against background and
// returns the rank statistics of every kinase that was enriched at least
// once, ordered by name. Lists larger than the universe use the whole
// universe.
func (c *Calibrator) Calibrate(ctx context.Context, background []string, settings Settings) ([]RankStat, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	universe, err := enrichment.BackgroundUniverse(background, settings.Resolution)
	if err != nil {
		return nil, err
	}
	if len(universe) == 0 {
		return nil, errors.DataInvalid("cannot calibrate", fmt.Errorf("background has no substrates"))
	}

	rng, err := c.rng.SeededStream(ctx, "calibration/"+settings.Resolution.String(), settings.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to seed calibration")
	}

	size := min(settings.ListSize, len(universe))
	opts := kinase.Options{Resolution: settings.Resolution, SortBy: kinase.SortByPValue}
	ranks := make(map[string][]float64)
	sample := make([]string, size)

	for i := 0; i < settings.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j, idx := range rng.Perm(len(universe))[:size] {
			sample[j] = universe[idx]
		}
		ranked, err := c.engine.Run(background, nil, sample, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "calibration iteration %d failed", i+1)
		}
		for pos, k := range ranked {
			ranks[k.Name()] = append(ranks[k.Name()], float64(pos+1))
		}
		if (i+1)%100 == 0 {
			c.logger.Debug("calibration: %d/%d iterations", i+1, settings.Iterations)
		}
	}

	out := make([]RankStat, 0, len(ranks))
	for name, observed := range ranks {
		mean, err := stats.Mean(observed)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compute mean rank of %s", name)
		}
		sd, err := stats.StandardDeviationPopulation(observed)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compute rank deviation of %s", name)
		}
		out = append(out, RankStat{Name: name, Mean: mean, StdDev: sd, Observations: len(observed)})
	}
	slices.SortFunc(out, func(a, b RankStat) int { return cmp.Compare(a.Name, b.Name) })

	c.logger.Info("calibration: %d kinases ranked over %d lists of %d genes", len(out), settings.Iterations, size)
	return out, nil
}

// Records renders ranks as rank resource lines
func Records(ranks []RankStat) []string {
	out := make([]string, len(ranks))
	for i, s := range ranks {
		out[i] = s.Record()
	}
	return out
}

// Write writes ranks as a rank resource to w
func Write(w io.Writer, ranks []RankStat) error {
	for _, s := range ranks {
		if _, err := io.WriteString(w, s.Record()+"\n"); err != nil {
			return errors.Wrap(err, "failed to write rank statistics")
		}
	}
	return nil
}
