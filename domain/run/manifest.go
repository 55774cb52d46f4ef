package run

import (
	"gokea/domain/core"
	"gokea/domain/kinase"
)

// CodeVersion is stamped into every manifest so that fingerprints change
// when scoring semantics change.
const CodeVersion = "gokea/1"

// Manifest describes one enrichment run: what went in and how it was scored.
// Two runs with equal fingerprints produce identical reports.
type Manifest struct {
	RunID          core.RunID          `json:"run_id"`
	Selector       kinase.Selector     `json:"selector"`
	Options        kinase.Options      `json:"options"`
	InputSize      int                 `json:"input_size"`
	RestrictedSize int                 `json:"restricted_input_size"`
	BackgroundSize int                 `json:"background_size"`
	KinaseCount    int                 `json:"kinase_count"`
	Survivors      int                 `json:"survivors"`
	BackgroundHash core.BackgroundHash `json:"background_hash"`
	RankHash       core.BackgroundHash `json:"rank_hash"`
	InputHash      core.InputHash      `json:"input_hash"`
	CodeVersion    string              `json:"code_version"`
	Fingerprint    Fingerprint         `json:"fingerprint"`
	CreatedAt      core.Timestamp      `json:"created_at"`
}

// NewManifest creates a manifest and computes its fingerprint.
func NewManifest(
	selector kinase.Selector,
	opts kinase.Options,
	backgroundRecords []string,
	rankRecords []string,
	input []string,
) *Manifest {
	backgroundHash := core.ComputeBackgroundHash(backgroundRecords)
	rankHash := core.ComputeBackgroundHash(rankRecords)
	inputHash := core.ComputeInputHash(input)

	return &Manifest{
		RunID:          core.NewRunID(),
		Selector:       selector,
		Options:        opts,
		BackgroundHash: backgroundHash,
		RankHash:       rankHash,
		InputHash:      inputHash,
		CodeVersion:    CodeVersion,
		Fingerprint:    NewFingerprint(selector, opts, backgroundHash, rankHash, inputHash, CodeVersion),
		CreatedAt:      core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.Selector == "" {
		return core.NewValidationError("run_manifest", "selector cannot be empty")
	}
	if err := m.Options.Validate(); err != nil {
		return core.NewValidationError("run_manifest", err.Error())
	}
	if m.BackgroundHash == "" {
		return core.NewValidationError("run_manifest", "background_hash cannot be empty")
	}
	if m.InputHash == "" {
		return core.NewValidationError("run_manifest", "input_hash cannot be empty")
	}
	if m.CodeVersion == "" {
		return core.NewValidationError("run_manifest", "code_version cannot be empty")
	}
	return nil
}

// Pairs renders the manifest as ordered key/value rows for tabular reports.
func (m *Manifest) Pairs() [][2]string {
	return [][2]string{
		{"Run ID", m.RunID.String()},
		{"Interactions", m.Selector.String()},
		{"Resolution", m.Options.Resolution.String()},
		{"Sort By", string(m.Options.SortBy)},
		{"Input Genes", itoa(m.InputSize)},
		{"Input Genes In Background", itoa(m.RestrictedSize)},
		{"Background Substrates", itoa(m.BackgroundSize)},
		{"Kinases", itoa(m.KinaseCount)},
		{"Enriched Kinases", itoa(m.Survivors)},
		{"Fingerprint", m.Fingerprint.Fingerprint.String()},
		{"Created At", m.CreatedAt.String()},
	}
}
