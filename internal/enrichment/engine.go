// Package enrichment scores kinases for overrepresentation of their
// background substrates in an input gene list.
package enrichment

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"gokea/domain/core"
	"gokea/domain/kinase"
	"gokea/internal"
	"gokea/internal/errors"
)

// Summary describes the set sizes of the last run.
type Summary struct {
	InputSize      int `json:"input_size"`
	RestrictedSize int `json:"restricted_input_size"`
	UniverseSize   int `json:"background_size"`
	KinaseCount    int `json:"kinase_count"`
	Survivors      int `json:"survivors"`
	SkippedRecords int `json:"skipped_records"`
}

// Engine runs kinase enrichment. An Engine may be reused; every Run starts
// from an empty working list. It is not safe for concurrent use.
type Engine struct {
	logger *internal.Logger

	kinases  []*kinase.Kinase
	universe []string
	summary  Summary
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.Discard
	}
	return &Engine{logger: logger}
}

// Run computes enrichment of every background kinase against input and
// returns the survivors in the order requested by opts.SortBy.
//
// background holds "group,family,kinase,substrate,..." records, ranks holds
// "name mean stddev" records. input must be non-empty; tokens are compared
// case-insensitively.
func (e *Engine) Run(background, ranks, input []string, opts kinase.Options) ([]*kinase.Kinase, error) {
	e.reset()

	if err := opts.Validate(); err != nil {
		return nil, errors.ConfigInvalidf(err, "invalid enrichment options")
	}
	if len(input) == 0 {
		return nil, errors.InvalidInput("cannot compute enrichment", core.ErrEmptyInput)
	}

	kinases, byName, skipped, err := parseBackground(background, opts.Resolution)
	if err != nil {
		return nil, err
	}
	stats, err := ParseRankStats(ranks)
	if err != nil {
		return nil, err
	}
	attached := 0
	for name, stat := range stats {
		if k, ok := byName[name]; ok {
			k.SetRankStats(stat.Mean, stat.StdDev)
			attached++
		}
	}

	inputSet := make(map[string]struct{}, len(input))
	for _, token := range input {
		inputSet[strings.ToUpper(strings.TrimSpace(token))] = struct{}{}
	}

	universe := make(map[string]struct{})
	for _, k := range kinases {
		for _, s := range k.Substrates() {
			universe[s] = struct{}{}
		}
	}

	restricted := make(map[string]struct{}, len(inputSet))
	for s := range inputSet {
		if _, ok := universe[s]; ok {
			restricted[s] = struct{}{}
		}
	}

	e.logger.Debug("enrichment: %d kinases at %s level, %d background substrates, %d/%d input genes in background, %d rank stats attached",
		len(kinases), opts.Resolution, len(universe), len(restricted), len(inputSet), attached)

	survivors := make([]*kinase.Kinase, 0, len(kinases))
	for _, k := range kinases {
		enriched := make([]string, 0)
		for s := range restricted {
			if k.HasSubstrate(s) {
				enriched = append(enriched, s)
			}
		}
		if len(enriched) == 0 {
			continue
		}

		a := len(enriched)
		b := len(restricted) - a
		c := k.SubstrateCount() - a
		d := len(universe) - a - b - c
		pvalue := FisherRightTail(a, b, c, d)
		if pvalue <= 0 {
			// underflow; keep p in (0, 1] so ln(p) stays finite
			pvalue = math.SmallestNonzeroFloat64
		}

		k.SetEnrichment(enriched,
			float64(a)/float64(len(restricted)),
			float64(k.SubstrateCount())/float64(len(universe)),
			pvalue)
		survivors = append(survivors, k)
	}

	slices.SortStableFunc(survivors, byPValue)
	for i, k := range survivors {
		k.ComputeScore(i + 1)
	}

	switch opts.SortBy {
	case kinase.SortByCombinedScore:
		slices.SortStableFunc(survivors, func(x, y *kinase.Kinase) int {
			return cmp.Compare(y.CombinedScore(), x.CombinedScore())
		})
	case kinase.SortByRank:
		slices.SortStableFunc(survivors, func(x, y *kinase.Kinase) int {
			return cmp.Compare(x.ZScore(), y.ZScore())
		})
	}

	e.kinases = survivors
	e.universe = sortedKeys(universe)
	e.summary = Summary{
		InputSize:      len(inputSet),
		RestrictedSize: len(restricted),
		UniverseSize:   len(universe),
		KinaseCount:    len(kinases),
		Survivors:      len(survivors),
		SkippedRecords: skipped,
	}
	e.logger.Debug("enrichment: %d of %d kinases enriched", len(survivors), len(kinases))

	return e.Ranked(), nil
}

// byPValue orders ascending by p-value with the kinase name as tie-break.
func byPValue(x, y *kinase.Kinase) int {
	if c := cmp.Compare(x.PValue(), y.PValue()); c != 0 {
		return c
	}
	return strings.Compare(x.Name(), y.Name())
}

func (e *Engine) reset() {
	e.kinases = nil
	e.universe = nil
	e.summary = Summary{}
}

// Ranked returns the ranked kinases of the last run.
func (e *Engine) Ranked() []*kinase.Kinase {
	return slices.Clone(e.kinases)
}

// TopRanked returns at most n kinases from the head of the ranking.
// n <= 0 returns the whole ranking.
func (e *Engine) TopRanked(n int) []*kinase.Kinase {
	if n <= 0 || n > len(e.kinases) {
		n = len(e.kinases)
	}
	return slices.Clone(e.kinases[:n])
}

// TopRankedNames is TopRanked reduced to kinase names.
func (e *Engine) TopRankedNames(n int) []string {
	top := e.TopRanked(n)
	names := make([]string, len(top))
	for i, k := range top {
		names[i] = k.Name()
	}
	return names
}

// Universe returns the sorted background substrate set of the last run.
func (e *Engine) Universe() []string {
	return slices.Clone(e.universe)
}

// Summary returns the set sizes of the last run.
func (e *Engine) Summary() Summary {
	return e.summary
}

// parseBackground groups substrates by the name at the requested resolution,
// keeping kinases in order of first appearance. Blank records are ignored;
// records with an empty grouping name or substrate are skipped and counted.
func parseBackground(records []string, level kinase.Resolution) ([]*kinase.Kinase, map[string]*kinase.Kinase, int, error) {
	var ordered []*kinase.Kinase
	byName := make(map[string]*kinase.Kinase)
	skipped := 0

	for i, record := range records {
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.Split(record, ",")
		if len(fields) < 4 {
			return nil, nil, 0, errors.DataInvalid("failed to parse background",
				core.NewMalformedRecordError("background", i+1, record))
		}
		name := strings.TrimSpace(fields[level.FieldIndex()])
		substrate := strings.TrimSpace(fields[3])
		if name == "" || substrate == "" {
			skipped++
			continue
		}

		if k, ok := byName[name]; ok {
			k.AddSubstrate(substrate)
			continue
		}
		k := kinase.New(name, substrate)
		byName[name] = k
		ordered = append(ordered, k)
	}

	return ordered, byName, skipped, nil
}

// ParseRankStats reads whitespace-delimited "name mean stddev" records.
// Blank lines and lines starting with '#' are ignored; a repeated name keeps
// its last value.
func ParseRankStats(records []string) (map[string]kinase.RankStat, error) {
	stats := make(map[string]kinase.RankStat, len(records))
	for i, record := range records {
		fields := strings.Fields(record)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < 3 {
			return nil, errors.DataInvalid("failed to parse rank statistics",
				core.NewMalformedRecordError("rank", i+1, record))
		}
		mean, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.DataInvalid("failed to parse rank mean",
				core.NewMalformedRecordError("rank", i+1, record))
		}
		stdDev, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.DataInvalid("failed to parse rank standard deviation",
				core.NewMalformedRecordError("rank", i+1, record))
		}
		stats[fields[0]] = kinase.RankStat{Mean: mean, StdDev: stdDev}
	}
	return stats, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// BackgroundUniverse returns the sorted substrate set the background
// records define at level, the same set a Run against them would use.
func BackgroundUniverse(records []string, level kinase.Resolution) ([]string, error) {
	kinases, _, _, err := parseBackground(records, level)
	if err != nil {
		return nil, err
	}
	universe := make(map[string]struct{})
	for _, k := range kinases {
		for _, s := range k.Substrates() {
			universe[s] = struct{}{}
		}
	}
	return sortedKeys(universe), nil
}
