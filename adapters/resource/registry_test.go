package resource

import (
	"os"
	"path/filepath"
	"testing"

	"gokea/domain/kinase"
	"gokea/internal/errors"
	"gokea/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	both, err := r.Lookup(kinase.SelectorBoth)
	require.NoError(t, err)
	assert.Equal(t, []string{KinaseProteinResource, PhosphorylationResource}, both.Sources)
	assert.Equal(t, KEARanksResource, both.Ranks)

	iptm, err := r.Lookup("IPTMnet")
	require.NoError(t, err)
	assert.Equal(t, IPTMnetRanksResource, iptm.Ranks)

	var selectors []kinase.Selector
	for _, d := range r.Datasets() {
		selectors = append(selectors, d.Selector)
	}
	assert.Equal(t, []kinase.Selector{
		kinase.SelectorKinaseProtein,
		kinase.SelectorPhosphorylation,
		kinase.SelectorBoth,
		kinase.SelectorIPTMnet,
	}, selectors)
}

func TestRegistry_RegisterValidates(t *testing.T) {
	r := NewRegistry()

	err := r.Register(ports.DatasetInfo{Selector: "empty"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	err = r.Register(ports.DatasetInfo{Selector: "blank", Sources: []string{""}})
	require.Error(t, err)
}

func TestRegistry_LoadYAMLOverridesInPlace(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadYAML([]byte(`
datasets:
  - name: both
    description: override
    background: [a.csv, b.csv, c.csv]
    ranks: r.txt
  - name: PhosphoSite
    background: [phosphosite.csv]
`)))

	both, err := r.Lookup(kinase.SelectorBoth)
	require.NoError(t, err)
	assert.Equal(t, "override", both.Description)
	assert.Len(t, both.Sources, 3)

	datasets := r.Datasets()
	require.Len(t, datasets, 5)
	assert.Equal(t, kinase.SelectorBoth, datasets[2].Selector)
	assert.Equal(t, kinase.Selector("phosphosite"), datasets[4].Selector)
}

func TestRegistry_LoadYAMLErrors(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.LoadYAML([]byte("datasets: [")))
	assert.Error(t, r.LoadYAML([]byte("datasets:\n  - background: [x.csv]\n")))
}

func TestLoadRegistryFile(t *testing.T) {
	r, err := LoadRegistryFile("")
	require.NoError(t, err)
	assert.Len(t, r.Datasets(), 4)

	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("datasets:\n  - name: extra\n    background: [extra.csv]\n"), 0o600))
	r, err = LoadRegistryFile(path)
	require.NoError(t, err)
	_, err = r.Lookup("extra")
	require.NoError(t, err)

	_, err = LoadRegistryFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
