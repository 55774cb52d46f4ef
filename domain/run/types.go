package run

import (
	"crypto/sha256"
	"fmt"
	"strconv"

	"gokea/domain/core"
	"gokea/domain/kinase"
)

// Fingerprint ensures deterministic replay
type Fingerprint struct {
	Selector       kinase.Selector     `json:"selector"`
	Resolution     string              `json:"resolution"`
	SortBy         kinase.SortKey      `json:"sort_by"`
	BackgroundHash core.BackgroundHash `json:"background_hash"`
	RankHash       core.BackgroundHash `json:"rank_hash"`
	InputHash      core.InputHash      `json:"input_hash"`
	CodeVersion    string              `json:"code_version"`
	Fingerprint    core.Hash           `json:"fingerprint"` // Hash of all above
}

// NewFingerprint creates a fingerprint from determinism parameters
func NewFingerprint(selector kinase.Selector, opts kinase.Options, backgroundHash, rankHash core.BackgroundHash,
	inputHash core.InputHash, codeVersion string) Fingerprint {

	return Fingerprint{
		Selector:       selector,
		Resolution:     opts.Resolution.String(),
		SortBy:         opts.SortBy,
		BackgroundHash: backgroundHash,
		RankHash:       rankHash,
		InputHash:      inputHash,
		CodeVersion:    codeVersion,
		Fingerprint:    computeFingerprint(selector, opts, backgroundHash, rankHash, inputHash, codeVersion),
	}
}

// computeFingerprint generates deterministic hash from all determinism parameters
func computeFingerprint(selector kinase.Selector, opts kinase.Options, backgroundHash, rankHash core.BackgroundHash,
	inputHash core.InputHash, codeVersion string) core.Hash {

	data := fmt.Sprintf("selector:%s|resolution:%s|sort:%s|background:%s|ranks:%s|input:%s|code:%s",
		selector, opts.Resolution, opts.SortBy, backgroundHash, rankHash, inputHash, codeVersion)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
