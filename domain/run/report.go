package run

import "gokea/domain/kinase"

// Report is the outcome of one run as handed to report writers.
type Report struct {
	Manifest *Manifest       `json:"manifest"`
	Kinases  []*kinase.Kinase `json:"kinases"`
}

// Top returns a copy of the report limited to the first n kinases; n <= 0 keeps all.
func (r *Report) Top(n int) *Report {
	if n <= 0 || n >= len(r.Kinases) {
		return r
	}
	return &Report{Manifest: r.Manifest, Kinases: r.Kinases[:n]}
}
