package kinase

import (
	"errors"
	"testing"

	"gokea/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResolution(t *testing.T) {
	tests := []struct {
		input string
		want  Resolution
	}{
		{"kinase-group", ResolutionGroup},
		{"group", ResolutionGroup},
		{"Kinase-Family", ResolutionFamily},
		{"kinase", ResolutionKinase},
		{"regulator", ResolutionKinase},
	}
	for _, tc := range tests {
		got, err := ParseResolution(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
		assert.Equal(t, int(tc.want), got.FieldIndex())
	}

	_, err := ParseResolution("species")
	assert.True(t, errors.Is(err, core.ErrUnknownResolution))
}

func TestParseSortKey(t *testing.T) {
	for input, want := range map[string]SortKey{
		"p-value":        SortByPValue,
		"rank":           SortByRank,
		"combined score": SortByCombinedScore,
		"combined-score": SortByCombinedScore,
	} {
		got, err := ParseSortKey(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSortKey("alphabetical")
	assert.True(t, errors.Is(err, core.ErrUnknownSortKey))
}

func TestNormalizeSelector(t *testing.T) {
	assert.Equal(t, SelectorKinaseProtein, NormalizeSelector("kinase-protein interactions only"))
	assert.Equal(t, SelectorPhosphorylation, NormalizeSelector("Phosphorylation reactions only"))
	assert.Equal(t, SelectorBoth, NormalizeSelector("both types"))
	assert.Equal(t, SelectorBoth, NormalizeSelector(""))
	assert.Equal(t, Selector("custom"), NormalizeSelector(" Custom "))
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	bad := Options{Resolution: Resolution(7), SortBy: SortByRank}
	assert.Error(t, bad.Validate())

	bad = Options{Resolution: ResolutionGroup, SortBy: "name"}
	assert.Error(t, bad.Validate())
}
