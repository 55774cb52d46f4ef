// Package kinase holds the regulator entity scored by the enrichment engine
// and the immutable options that configure a run.
package kinase

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Header is the exact column header of the delimited report.
var Header = []string{
	"Kinase",
	"Substrates in Input",
	"Substrates in Database",
	"Input Fraction",
	"Database Fraction",
	"Difference",
	"P-value",
	"Z-score",
	"Combined Score",
	"Substrates",
}

// RankStat is the historical rank distribution of a kinase over random gene lists.
type RankStat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Kinase is a regulator together with its background substrates and the
// enrichment results of the current run.
type Kinase struct {
	name       string
	substrates map[string]struct{}

	mean              float64
	standardDeviation float64

	enrichedSubstrates []string
	fractionInput      float64
	fractionBackground float64
	pvalue             float64
	zscore             float64
	combinedScore      float64
}

// New creates a kinase with its first substrate. A kinase never exists
// without at least one substrate.
func New(name, substrate string) *Kinase {
	return &Kinase{
		name:       name,
		substrates: map[string]struct{}{substrate: {}},
	}
}

func (k *Kinase) Name() string { return k.name }

// AddSubstrate merges a substrate into the set; duplicates collapse.
func (k *Kinase) AddSubstrate(substrate string) {
	k.substrates[substrate] = struct{}{}
}

// HasSubstrate reports background membership of substrate.
func (k *Kinase) HasSubstrate(substrate string) bool {
	_, ok := k.substrates[substrate]
	return ok
}

// SubstrateCount is the size of the background substrate set.
func (k *Kinase) SubstrateCount() int {
	return len(k.substrates)
}

// Substrates returns the background substrate set in sorted order.
func (k *Kinase) Substrates() []string {
	out := make([]string, 0, len(k.substrates))
	for s := range k.substrates {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SetRankStats attaches the historical rank mean and standard deviation.
func (k *Kinase) SetRankStats(mean, standardDeviation float64) {
	k.mean = mean
	k.standardDeviation = standardDeviation
}

// RankStats returns the attached statistics, 0/0 when none were found.
func (k *Kinase) RankStats() RankStat {
	return RankStat{Mean: k.mean, StdDev: k.standardDeviation}
}

// SetEnrichment records the Fisher test outcome. enriched must be non-empty;
// it is copied and sorted.
func (k *Kinase) SetEnrichment(enriched []string, fractionInput, fractionBackground, pvalue float64) {
	k.enrichedSubstrates = append([]string(nil), enriched...)
	sort.Strings(k.enrichedSubstrates)
	k.fractionInput = fractionInput
	k.fractionBackground = fractionBackground
	k.pvalue = pvalue
}

// EnrichedSubstrates returns the input genes that are substrates of k.
func (k *Kinase) EnrichedSubstrates() []string {
	return append([]string(nil), k.enrichedSubstrates...)
}

func (k *Kinase) EnrichedCount() int          { return len(k.enrichedSubstrates) }
func (k *Kinase) FractionInput() float64      { return k.fractionInput }
func (k *Kinase) FractionBackground() float64 { return k.fractionBackground }
func (k *Kinase) PValue() float64             { return k.pvalue }
func (k *Kinase) ZScore() float64             { return k.zscore }
func (k *Kinase) CombinedScore() float64      { return k.combinedScore }

// Difference is the input fraction minus the background fraction.
func (k *Kinase) Difference() float64 {
	return k.fractionInput - k.fractionBackground
}

// ComputeScore derives the z-score and combined score from the 1-based
// position of k in the p-value ordering.
//
// A zero standard deviation yields a zero z-score; this covers kinases with
// no historical statistic (0/0) and degenerate stats that would divide by zero.
// A p-value of 0 is clamped to the smallest positive float before the log.
func (k *Kinase) ComputeScore(rank int) {
	if k.standardDeviation == 0 {
		k.zscore = 0
	} else {
		k.zscore = (float64(rank) - k.mean) / k.standardDeviation
	}
	p := k.pvalue
	if p <= 0 {
		p = math.SmallestNonzeroFloat64
	}
	k.combinedScore = math.Log(p) * k.zscore
}

// Row renders the report row in Header column order.
func (k *Kinase) Row() []string {
	return []string{
		k.name,
		strconv.Itoa(len(k.enrichedSubstrates)),
		strconv.Itoa(len(k.substrates)),
		formatFloat(k.fractionInput),
		formatFloat(k.fractionBackground),
		formatFloat(k.Difference()),
		formatFloat(k.pvalue),
		formatFloat(k.zscore),
		formatFloat(k.combinedScore),
		strings.Join(k.enrichedSubstrates, ";"),
	}
}

// String returns the comma-joined report row
func (k *Kinase) String() string {
	return strings.Join(k.Row(), ",")
}

// MarshalJSON exposes the scored view of the kinase.
func (k *Kinase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name               string   `json:"name"`
		SubstratesInInput  int      `json:"substrates_in_input"`
		SubstratesInDB     int      `json:"substrates_in_database"`
		FractionInput      float64  `json:"input_fraction"`
		FractionBackground float64  `json:"database_fraction"`
		Difference         float64  `json:"difference"`
		PValue             float64  `json:"p_value"`
		ZScore             float64  `json:"z_score"`
		CombinedScore      float64  `json:"combined_score"`
		EnrichedSubstrates []string `json:"substrates"`
	}{
		Name:               k.name,
		SubstratesInInput:  len(k.enrichedSubstrates),
		SubstratesInDB:     len(k.substrates),
		FractionInput:      k.fractionInput,
		FractionBackground: k.fractionBackground,
		Difference:         k.Difference(),
		PValue:             k.pvalue,
		ZScore:             k.zscore,
		CombinedScore:      k.combinedScore,
		EnrichedSubstrates: k.EnrichedSubstrates(),
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
