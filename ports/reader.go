package ports

// LineReader yields the raw lines of a gene list source. Sources with rows
// instead of lines return one entry per row so positions stay 1-based line
// numbers for validation errors.
type LineReader interface {
	ReadLines() ([]string, error)
}
