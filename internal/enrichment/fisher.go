package enrichment

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// FisherRightTail returns the one-sided (greater) Fisher exact p-value of the
// 2x2 table [[a, b], [c, d]]: the probability of observing a or more shared
// entries in the top-left cell given fixed margins.
//
// The hypergeometric terms are summed in log space so that large tables do
// not overflow and tiny tails are kept to full precision. Negative cells are
// treated as an empty table and yield 1.
func FisherRightTail(a, b, c, d int) float64 {
	if a < 0 || b < 0 || c < 0 || d < 0 {
		return 1
	}
	row := a + b
	col := a + c
	n := a + b + c + d
	upper := row
	if col < upper {
		upper = col
	}
	if a > upper {
		return 0
	}

	logDenominator := logBinomial(n, row)
	terms := make([]float64, 0, upper-a+1)
	for x := a; x <= upper; x++ {
		// x shared entries; the rest of the row falls outside the column
		if row-x > n-col {
			continue
		}
		terms = append(terms, logBinomial(col, x)+logBinomial(n-col, row-x)-logDenominator)
	}
	if len(terms) == 0 {
		return 0
	}

	p := math.Exp(floats.LogSumExp(terms))
	if p > 1 {
		p = 1
	}
	return p
}

func logBinomial(n, k int) float64 {
	return combin.LogGeneralizedBinomial(float64(n), float64(k))
}
