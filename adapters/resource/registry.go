package resource

import (
	"fmt"
	"os"
	"slices"

	"gokea/domain/core"
	"gokea/domain/kinase"
	"gokea/internal/errors"
	"gokea/ports"

	"gopkg.in/yaml.v3"
)

// Resource file names of the bundled datasets
const (
	KinaseProteinResource   = "kinase-protein_interactions.csv"
	PhosphorylationResource = "phosphorylation_reactions.csv"
	IPTMnetResource         = "iPTMnet_kinome_interactions.txt"
	KEARanksResource        = "kea_ranks.txt"
	IPTMnetRanksResource    = "iptmnet_ranks.txt"
)

var builtinDatasets = []ports.DatasetInfo{
	{
		Selector:    kinase.SelectorKinaseProtein,
		Description: "kinase-protein interactions only",
		Sources:     []string{KinaseProteinResource},
		Ranks:       KEARanksResource,
	},
	{
		Selector:    kinase.SelectorPhosphorylation,
		Description: "phosphorylation reactions only",
		Sources:     []string{PhosphorylationResource},
		Ranks:       KEARanksResource,
	},
	{
		Selector:    kinase.SelectorBoth,
		Description: "kinase-protein interactions and phosphorylation reactions",
		Sources:     []string{KinaseProteinResource, PhosphorylationResource},
		Ranks:       KEARanksResource,
	},
	{
		Selector:    kinase.SelectorIPTMnet,
		Description: "iPTMnet kinome interactions",
		Sources:     []string{IPTMnetResource},
		Ranks:       IPTMnetRanksResource,
	},
}

// Registry maps dataset selectors onto background and rank resources.
type Registry struct {
	datasets map[kinase.Selector]ports.DatasetInfo
	order    []kinase.Selector
}

// NewRegistry creates a registry holding the bundled datasets.
func NewRegistry() *Registry {
	r := &Registry{datasets: make(map[kinase.Selector]ports.DatasetInfo)}
	for _, d := range builtinDatasets {
		// builtins are well-formed
		_ = r.Register(d)
	}
	return r
}

// Register adds or replaces a dataset. Replacing keeps the original position.
func (r *Registry) Register(d ports.DatasetInfo) error {
	d.Selector = kinase.NormalizeSelector(string(d.Selector))
	if len(d.Sources) == 0 {
		return errors.ConfigInvalid(fmt.Sprintf("dataset %q declares no background resources", d.Selector))
	}
	for _, src := range d.Sources {
		if src == "" {
			return errors.ConfigInvalid(fmt.Sprintf("dataset %q declares an empty background resource", d.Selector))
		}
	}
	d.Sources = slices.Clone(d.Sources)
	if _, exists := r.datasets[d.Selector]; !exists {
		r.order = append(r.order, d.Selector)
	}
	r.datasets[d.Selector] = d
	return nil
}

// Lookup returns the dataset for selector or a CONFIG_INVALID error.
func (r *Registry) Lookup(selector kinase.Selector) (ports.DatasetInfo, error) {
	d, ok := r.datasets[kinase.NormalizeSelector(string(selector))]
	if !ok {
		return ports.DatasetInfo{}, errors.ConfigInvalidf(core.ErrUnknownDataset,
			"no dataset registered as %q", selector)
	}
	return d, nil
}

// Datasets lists registered datasets in registration order.
func (r *Registry) Datasets() []ports.DatasetInfo {
	out := make([]ports.DatasetInfo, 0, len(r.order))
	for _, sel := range r.order {
		out = append(out, r.datasets[sel])
	}
	return out
}

type registryFile struct {
	Datasets []ports.DatasetInfo `yaml:"datasets"`
}

// LoadYAML registers every dataset of a registry document:
//
//	datasets:
//	  - name: phosphosite
//	    description: PhosphoSitePlus kinase-substrate pairs
//	    background: [phosphosite.csv]
//	    ranks: phosphosite_ranks.txt
func (r *Registry) LoadYAML(data []byte) error {
	var doc registryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.ConfigInvalidf(err, "failed to parse dataset registry")
	}
	for _, d := range doc.Datasets {
		if d.Selector == "" {
			return errors.ConfigInvalid("dataset registry entry without a name")
		}
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// LoadRegistryFile creates a registry from the builtins extended by path.
// An empty path returns the builtins only.
func LoadRegistryFile(path string) (*Registry, error) {
	r := NewRegistry()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigInvalidf(err, "failed to read dataset registry %s", path)
	}
	if err := r.LoadYAML(data); err != nil {
		return nil, errors.Wrapf(err, "dataset registry %s", path)
	}
	return r, nil
}
