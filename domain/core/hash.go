package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough for log lines.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Domain-specific hash types
type (
	BackgroundHash Hash
	InputHash      Hash
)

func (h BackgroundHash) String() string { return Hash(h).String() }
func (h InputHash) String() string      { return Hash(h).String() }

// ComputeBackgroundHash hashes the background records in order. Record order
// matters because it decides first-appearance order of kinases.
func ComputeBackgroundHash(records []string) BackgroundHash {
	var data strings.Builder
	for _, record := range records {
		data.WriteString(record)
		data.WriteByte('\n')
	}
	return BackgroundHash(NewHash([]byte(data.String())))
}

// ComputeInputHash hashes the case-normalized, deduplicated input set so that
// reordering or re-casing the gene list yields the same hash.
func ComputeInputHash(tokens []string) InputHash {
	seen := make(map[string]struct{}, len(tokens))
	normalized := make([]string, 0, len(tokens))
	for _, token := range tokens {
		upper := strings.ToUpper(token)
		if _, ok := seen[upper]; ok {
			continue
		}
		seen[upper] = struct{}{}
		normalized = append(normalized, upper)
	}
	sort.Strings(normalized)
	return InputHash(NewHash([]byte(strings.Join(normalized, "\n"))))
}
