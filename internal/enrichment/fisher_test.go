package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFisherRightTail_KnownTables(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d int
		want       float64
	}{
		{"single cell", 1, 0, 0, 1, 0.5},
		{"perfect 2x2", 2, 0, 0, 2, 1.0 / 6.0},
		{"lady tasting tea", 3, 1, 1, 3, 17.0 / 70.0},
		{"zero observed", 0, 5, 5, 0, 1},
		{"whole background", 1, 0, 1, 0, 1},
		{"strong enrichment", 4, 1, 0, 7, 8.0 / 792.0},
		{"partial overlap", 2, 3, 1, 6, 288.0 / 792.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InEpsilon(t, tc.want, FisherRightTail(tc.a, tc.b, tc.c, tc.d), 1e-12)
		})
	}
}

func TestFisherRightTail_MonotoneWithFixedMargins(t *testing.T) {
	row, col, n := 6, 9, 55

	previous := FisherRightTail(0, row, col, n-row-col)
	assert.InDelta(t, 1.0, previous, 1e-12)

	for a := 1; a <= row; a++ {
		p := FisherRightTail(a, row-a, col-a, n-row-col+a)
		assert.Less(t, p, previous, "a=%d", a)
		assert.Greater(t, p, 0.0, "a=%d", a)
		previous = p
	}
}

func TestFisherRightTail_SmallTailsStayPositive(t *testing.T) {
	p := FisherRightTail(10, 0, 0, 100000)
	assert.InEpsilon(t, 3.626804778567725e-44, p, 1e-6)
}

func TestFisherRightTail_Degenerate(t *testing.T) {
	assert.Equal(t, 1.0, FisherRightTail(-1, 0, 0, 0))
	assert.Equal(t, 1.0, FisherRightTail(0, 0, 0, 0))
}
