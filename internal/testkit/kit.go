// Package testkit provides deterministic fixtures for enrichment tests.
package testkit

import (
	"strings"
	"testing/fstest"

	"gokea/adapters/resource"
)

// TestKit bundles a generated background with its rank records
type TestKit struct {
	Generator  *BackgroundGenerator
	Background []string
	Ranks      []string
}

// New creates a kit from config
func New(config BackgroundGeneratorConfig) *TestKit {
	g := NewBackgroundGenerator(config)
	return &TestKit{
		Generator:  g,
		Background: g.GenerateRecords(),
		Ranks:      g.GenerateRankRecords(),
	}
}

// NewDefault creates a kit from DefaultBackgroundConfig
func NewDefault() *TestKit {
	return New(DefaultBackgroundConfig())
}

// ResourceFS lays the kit out as the bundled resource files: the first half
// of the background as kinase-protein interactions, the rest as
// phosphorylation reactions, sharing one rank file.
func (t *TestKit) ResourceFS() fstest.MapFS {
	half := len(t.Background) / 2
	return fstest.MapFS{
		resource.KinaseProteinResource:   {Data: []byte(joinLines(t.Background[:half]))},
		resource.PhosphorylationResource: {Data: []byte(joinLines(t.Background[half:]))},
		resource.KEARanksResource:        {Data: []byte(joinLines(t.Ranks))},
	}
}

// Repository returns a file-backed repository over ResourceFS
func (t *TestKit) Repository() *resource.Repository {
	return resource.NewRepository(t.ResourceFS(), nil, nil)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
