package testkit

import (
	"fmt"
	"math/rand"
)

// BackgroundGeneratorConfig configures the synthetic interaction generator
type BackgroundGeneratorConfig struct {
	GroupCount             int   `json:"group_count"`
	FamiliesPerGroup       int   `json:"families_per_group"`
	KinasesPerFamily       int   `json:"kinases_per_family"`
	SubstrateCount         int   `json:"substrate_count"`
	MaxSubstratesPerKinase int   `json:"max_substrates_per_kinase"`
	Seed                   int64 `json:"seed"`
}

// DefaultBackgroundConfig returns a small but non-trivial hierarchy
func DefaultBackgroundConfig() BackgroundGeneratorConfig {
	return BackgroundGeneratorConfig{
		GroupCount:             3,
		FamiliesPerGroup:       3,
		KinasesPerFamily:       4,
		SubstrateCount:         200,
		MaxSubstratesPerKinase: 25,
		Seed:                   42,
	}
}

// BackgroundGenerator produces "group,family,kinase,substrate" records with
// a fixed seed, so fixtures are identical across runs
type BackgroundGenerator struct {
	config BackgroundGeneratorConfig
	rng    *rand.Rand
}

// NewBackgroundGenerator creates a new generator
func NewBackgroundGenerator(config BackgroundGeneratorConfig) *BackgroundGenerator {
	return &BackgroundGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Substrate returns the name of the i-th substrate (0-based)
func Substrate(i int) string {
	return fmt.Sprintf("SUB%04d", i+1)
}

// GenerateRecords returns the background records. Every kinase gets at
// least one substrate; some substrates are shared between kinases.
func (g *BackgroundGenerator) GenerateRecords() []string {
	var records []string
	for gi := 0; gi < g.config.GroupCount; gi++ {
		group := fmt.Sprintf("GRP%d", gi+1)
		for fi := 0; fi < g.config.FamiliesPerGroup; fi++ {
			family := fmt.Sprintf("%s_FAM%d", group, fi+1)
			for ki := 0; ki < g.config.KinasesPerFamily; ki++ {
				name := fmt.Sprintf("%s_K%d", family, ki+1)
				n := 1 + g.rng.Intn(max(g.config.MaxSubstratesPerKinase, 1))
				for _, idx := range g.rng.Perm(g.config.SubstrateCount)[:min(n, g.config.SubstrateCount)] {
					records = append(records, group+","+family+","+name+","+Substrate(idx))
				}
			}
		}
	}
	return records
}

// GenerateRankRecords returns "name mean stddev" records for every kinase
// the config describes. Every fifth kinase gets a zero deviation.
func (g *BackgroundGenerator) GenerateRankRecords() []string {
	var records []string
	i := 0
	for gi := 0; gi < g.config.GroupCount; gi++ {
		for fi := 0; fi < g.config.FamiliesPerGroup; fi++ {
			for ki := 0; ki < g.config.KinasesPerFamily; ki++ {
				name := fmt.Sprintf("GRP%d_FAM%d_K%d", gi+1, fi+1, ki+1)
				mean := 1 + g.rng.Float64()*20
				sd := 0.5 + g.rng.Float64()*5
				if i%5 == 4 {
					sd = 0
				}
				records = append(records, fmt.Sprintf("%s %.4f %.4f", name, mean, sd))
				i++
			}
		}
	}
	return records
}

// GenerateGeneList draws size distinct background substrates, lowercasing
// some of them, and appends unknown genes that match no substrate
func (g *BackgroundGenerator) GenerateGeneList(size, unknown int) []string {
	var genes []string
	for _, idx := range g.rng.Perm(g.config.SubstrateCount)[:min(size, g.config.SubstrateCount)] {
		gene := Substrate(idx)
		if g.rng.Float64() < 0.3 {
			gene = fmt.Sprintf("sub%04d", idx+1)
		}
		genes = append(genes, gene)
	}
	for i := 0; i < unknown; i++ {
		genes = append(genes, fmt.Sprintf("UNKNOWN%d", i+1))
	}
	return genes
}
