package kinase

import (
	"fmt"
	"strings"

	"gokea/domain/core"
)

// Resolution is the level of the kinase hierarchy that regulators are grouped at.
// Its integer value is the background record field holding the grouping name.
type Resolution int

const (
	ResolutionGroup Resolution = iota
	ResolutionFamily
	ResolutionKinase
)

// String returns the canonical option value
func (r Resolution) String() string {
	switch r {
	case ResolutionGroup:
		return "kinase-group"
	case ResolutionFamily:
		return "kinase-family"
	case ResolutionKinase:
		return "kinase"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// FieldIndex returns the background record column used as the grouping name.
func (r Resolution) FieldIndex() int {
	return int(r)
}

// Valid reports whether r is one of the three known levels.
func (r Resolution) Valid() bool {
	return r >= ResolutionGroup && r <= ResolutionKinase
}

// ParseResolution accepts both the long and short option spellings.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kinase-group", "group":
		return ResolutionGroup, nil
	case "kinase-family", "family":
		return ResolutionFamily, nil
	case "kinase", "regulator", "":
		return ResolutionKinase, nil
	}
	return 0, fmt.Errorf("%w: %q", core.ErrUnknownResolution, s)
}

// SortKey selects the final ordering of the ranked kinases.
type SortKey string

const (
	SortByPValue        SortKey = "p-value"
	SortByRank          SortKey = "rank"
	SortByCombinedScore SortKey = "combined-score"
)

// ParseSortKey accepts "combined score" with a space as the original settings did.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p-value", "pvalue":
		return SortByPValue, nil
	case "rank", "z-score":
		return SortByRank, nil
	case "combined-score", "combined score", "combined_score", "":
		return SortByCombinedScore, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownSortKey, s)
}

// Selector names an interaction dataset in the registry.
type Selector string

const (
	SelectorKinaseProtein   Selector = "kinase-protein"
	SelectorPhosphorylation Selector = "phosphorylation"
	SelectorBoth            Selector = "both"
	SelectorIPTMnet         Selector = "iptmnet"
)

var selectorAliases = map[string]Selector{
	"kinase-protein interactions only": SelectorKinaseProtein,
	"kinase-protein interactions":      SelectorKinaseProtein,
	"phosphorylation reactions only":   SelectorPhosphorylation,
	"phosphorylation reactions":        SelectorPhosphorylation,
	"both types":                       SelectorBoth,
	"kinase-protein and phosphorylation interactions": SelectorBoth,
	"iptmnet kinome interactions":                     SelectorIPTMnet,
}

// NormalizeSelector lowercases s and maps the long descriptive names onto
// their short selector. Unknown names pass through for the registry to judge.
func NormalizeSelector(s string) Selector {
	key := strings.ToLower(strings.TrimSpace(s))
	if sel, ok := selectorAliases[key]; ok {
		return sel
	}
	if key == "" {
		return SelectorBoth
	}
	return Selector(key)
}

func (s Selector) String() string { return string(s) }

// Options is the immutable per-run configuration of the engine.
type Options struct {
	Resolution Resolution `json:"resolution"`
	SortBy     SortKey    `json:"sort_by"`
}

// DefaultOptions mirrors the historical defaults: kinase level, combined score.
func DefaultOptions() Options {
	return Options{
		Resolution: ResolutionKinase,
		SortBy:     SortByCombinedScore,
	}
}

// Validate checks both fields hold known values
func (o Options) Validate() error {
	if !o.Resolution.Valid() {
		return fmt.Errorf("%w: %d", core.ErrUnknownResolution, int(o.Resolution))
	}
	switch o.SortBy {
	case SortByPValue, SortByRank, SortByCombinedScore:
		return nil
	}
	return fmt.Errorf("%w: %q", core.ErrUnknownSortKey, o.SortBy)
}
