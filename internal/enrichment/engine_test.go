package enrichment

import (
	"math"
	"testing"

	"gokea/domain/core"
	"gokea/domain/kinase"
	"gokea/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twelve substrates S1..S12 spread over five kinases in three families
var testBackground = []string{
	"G1,F1,KA,S1",
	"G1,F1,KA,S2",
	"G1,F1,KA,S3",
	"G1,F1,KA,S4",
	"G1,F1,KB,S1",
	"G1,F1,KB,S5",
	"G1,F2,KC,S6",
	"G1,F2,KC,S7",
	"G1,F2,KC,S8",
	"G1,F2,KC,S9",
	"G2,F3,KD,S2",
	"G2,F3,KD,S3",
	"G2,F3,KD,S10",
	"G2,F3,KE,S11",
	"G2,F3,KE,S12",
	"G1,F1,KA,S1,duplicate,extra",
}

var testRanks = []string{
	"KA 10 2",
	"KD\t1\t1",
	"KC 2 0.5",
	"KE 3 1",
	"UNKNOWN 5 5",
}

var testInput = []string{"s1", "S2", "s3", "s4", "s6", "S13", "s1"}

func names(kinases []*kinase.Kinase) []string {
	out := make([]string, len(kinases))
	for i, k := range kinases {
		out[i] = k.Name()
	}
	return out
}

func byNameMap(kinases []*kinase.Kinase) map[string]*kinase.Kinase {
	out := make(map[string]*kinase.Kinase, len(kinases))
	for _, k := range kinases {
		out[k.Name()] = k
	}
	return out
}

func run(t *testing.T, sortBy kinase.SortKey, level kinase.Resolution) []*kinase.Kinase {
	t.Helper()
	result, err := NewEngine(nil).Run(testBackground, testRanks, testInput,
		kinase.Options{Resolution: level, SortBy: sortBy})
	require.NoError(t, err)
	return result
}

func TestEngine_TwoKinaseExample(t *testing.T) {
	background := []string{"G1,F1,K1,GENE_A", "G1,F1,K1,GENE_B", "G2,F2,K2,GENE_B"}

	engine := NewEngine(nil)
	result, err := engine.Run(background, nil, []string{"gene_a", "gene_c"}, kinase.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "K1", result[0].Name())
	assert.Equal(t, []string{"GENE_A"}, result[0].EnrichedSubstrates())
	assert.Equal(t, 1.0, result[0].PValue())
	assert.Equal(t, 1.0, result[0].FractionInput())
	assert.Equal(t, 1.0, result[0].FractionBackground())

	summary := engine.Summary()
	assert.Equal(t, 2, summary.InputSize)
	assert.Equal(t, 1, summary.RestrictedSize)
	assert.Equal(t, 2, summary.UniverseSize)
	assert.Equal(t, 2, summary.KinaseCount)
	assert.Equal(t, 1, summary.Survivors)
}

func TestEngine_PValueOrderAndFields(t *testing.T) {
	result := run(t, kinase.SortByPValue, kinase.ResolutionKinase)

	require.Equal(t, []string{"KA", "KD", "KB", "KC"}, names(result))

	got := byNameMap(result)
	assert.InEpsilon(t, 8.0/792.0, got["KA"].PValue(), 1e-12)
	assert.InEpsilon(t, 288.0/792.0, got["KD"].PValue(), 1e-12)
	assert.InEpsilon(t, 540.0/792.0, got["KB"].PValue(), 1e-12)
	assert.InEpsilon(t, 736.0/792.0, got["KC"].PValue(), 1e-12)

	ka := got["KA"]
	assert.Equal(t, []string{"S1", "S2", "S3", "S4"}, ka.EnrichedSubstrates())
	assert.InDelta(t, 4.0/5.0, ka.FractionInput(), 1e-12)
	assert.InDelta(t, 4.0/12.0, ka.FractionBackground(), 1e-12)
	assert.InDelta(t, 4.0/5.0-4.0/12.0, ka.Difference(), 1e-12)

	_, dropped := got["KE"]
	assert.False(t, dropped, "KE has no input substrates and must be dropped")
}

func TestEngine_ZScoresFromPValueRank(t *testing.T) {
	got := byNameMap(run(t, kinase.SortByPValue, kinase.ResolutionKinase))

	assert.InDelta(t, (1-10.0)/2, got["KA"].ZScore(), 1e-12)
	assert.InDelta(t, (2-1.0)/1, got["KD"].ZScore(), 1e-12)
	assert.Equal(t, 0.0, got["KB"].ZScore(), "absent rank statistic forces z to 0")
	assert.InDelta(t, (4-2.0)/0.5, got["KC"].ZScore(), 1e-12)

	for _, k := range got {
		assert.InDelta(t, math.Log(k.PValue())*k.ZScore(), k.CombinedScore(), 1e-12)
	}
}

func TestEngine_CombinedScoreOrder(t *testing.T) {
	result := run(t, kinase.SortByCombinedScore, kinase.ResolutionKinase)

	assert.Equal(t, []string{"KA", "KB", "KC", "KD"}, names(result))
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].CombinedScore(), result[i].CombinedScore())
	}
}

func TestEngine_RankOrder(t *testing.T) {
	result := run(t, kinase.SortByRank, kinase.ResolutionKinase)

	assert.Equal(t, []string{"KA", "KB", "KD", "KC"}, names(result))
	for i := 1; i < len(result); i++ {
		assert.LessOrEqual(t, result[i-1].ZScore(), result[i].ZScore())
	}
}

func TestEngine_SurvivorsInvariantToSortKey(t *testing.T) {
	want := names(run(t, kinase.SortByPValue, kinase.ResolutionKinase))
	for _, key := range []kinase.SortKey{kinase.SortByRank, kinase.SortByCombinedScore} {
		assert.ElementsMatch(t, want, names(run(t, key, kinase.ResolutionKinase)), key)
	}
}

func TestEngine_ResolutionLevels(t *testing.T) {
	family := byNameMap(run(t, kinase.SortByPValue, kinase.ResolutionFamily))
	require.Len(t, family, 3)
	assert.InEpsilon(t, 36.0/792.0, family["F1"].PValue(), 1e-12)
	assert.InEpsilon(t, 736.0/792.0, family["F2"].PValue(), 1e-12)
	assert.InEpsilon(t, 596.0/792.0, family["F3"].PValue(), 1e-12)
	assert.Equal(t, 5, family["F1"].SubstrateCount())

	group := byNameMap(run(t, kinase.SortByPValue, kinase.ResolutionGroup))
	require.Len(t, group, 2)
	assert.InEpsilon(t, 126.0/792.0, group["G1"].PValue(), 1e-12)
	assert.Equal(t, 9, group["G1"].SubstrateCount())
}

func TestEngine_ResolutionKeepsAssociations(t *testing.T) {
	var universes [][]string
	for _, level := range []kinase.Resolution{kinase.ResolutionGroup, kinase.ResolutionFamily, kinase.ResolutionKinase} {
		engine := NewEngine(nil)
		_, err := engine.Run(testBackground, testRanks, testInput, kinase.Options{Resolution: level, SortBy: kinase.SortByPValue})
		require.NoError(t, err)
		universes = append(universes, engine.Universe())
	}
	assert.Equal(t, universes[0], universes[1])
	assert.Equal(t, universes[1], universes[2])
	assert.Len(t, universes[0], 12)
}

func TestEngine_Properties(t *testing.T) {
	restricted := map[string]bool{"S1": true, "S2": true, "S3": true, "S4": true, "S6": true}

	for _, key := range []kinase.SortKey{kinase.SortByPValue, kinase.SortByRank, kinase.SortByCombinedScore} {
		for _, k := range run(t, key, kinase.ResolutionKinase) {
			require.GreaterOrEqual(t, k.EnrichedCount(), 1)
			assert.Greater(t, k.PValue(), 0.0)
			assert.LessOrEqual(t, k.PValue(), 1.0)
			for _, s := range k.EnrichedSubstrates() {
				assert.True(t, restricted[s], "%s is outside the restricted input", s)
			}
		}
	}
}

func TestEngine_TieBreakByName(t *testing.T) {
	background := []string{"G,F,KZ,S1", "G,F,KY,S1", "G,F,KX,S2", "G,F,KW,S3"}

	for i := 0; i < 5; i++ {
		result, err := NewEngine(nil).Run(background, nil, []string{"S1"}, kinase.Options{
			Resolution: kinase.ResolutionKinase,
			SortBy:     kinase.SortByCombinedScore,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"KY", "KZ"}, names(result))
	}
}

func TestEngine_Idempotent(t *testing.T) {
	first := run(t, kinase.SortByCombinedScore, kinase.ResolutionKinase)
	second := run(t, kinase.SortByCombinedScore, kinase.ResolutionKinase)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Row(), second[i].Row())
	}
}

func TestEngine_ReuseResetsState(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.Run(testBackground, testRanks, testInput, kinase.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, engine.Ranked(), 4)

	result, err := engine.Run(testBackground, testRanks, []string{"s11"}, kinase.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"KE"}, names(result))
	assert.Equal(t, []string{"KE"}, names(engine.Ranked()))
	assert.Equal(t, 1, engine.Summary().RestrictedSize)
}

func TestEngine_ZeroSurvivorsIsNotAnError(t *testing.T) {
	engine := NewEngine(nil)
	result, err := engine.Run(testBackground, testRanks, []string{"NOT_A_SUBSTRATE"}, kinase.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Empty(t, engine.TopRankedNames(10))
}

func TestEngine_TopRanked(t *testing.T) {
	engine := NewEngine(nil)
	_, err := engine.Run(testBackground, testRanks, testInput, kinase.Options{
		Resolution: kinase.ResolutionKinase,
		SortBy:     kinase.SortByPValue,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"KA", "KD"}, engine.TopRankedNames(2))
	assert.Len(t, engine.TopRanked(100), 4)
	assert.Len(t, engine.TopRanked(0), 4)
}

func TestEngine_Errors(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.Run(testBackground, testRanks, nil, kinase.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrEmptyInput)

	_, err = engine.Run([]string{"G,F,K"}, nil, testInput, kinase.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataInvalid, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrMalformedRecord)

	_, err = engine.Run(testBackground, []string{"KA ten 2"}, testInput, kinase.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedRecord)

	_, err = engine.Run(testBackground, testRanks, testInput, kinase.Options{Resolution: 9, SortBy: kinase.SortByRank})
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestEngine_SkipsBlankAndIncompleteRecords(t *testing.T) {
	background := []string{"", "G1,,KA,S1", "G1,F1,KB,S1\r", "   "}

	engine := NewEngine(nil)
	result, err := engine.Run(background, nil, []string{"S1"}, kinase.Options{
		Resolution: kinase.ResolutionFamily,
		SortBy:     kinase.SortByPValue,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"F1"}, names(result))
	assert.Equal(t, 1, engine.Summary().SkippedRecords)
}

func TestParseRankStats(t *testing.T) {
	stats, err := ParseRankStats([]string{"# header", "", "CDK1 12.5 3.25", "CDK1 13 4"})
	require.NoError(t, err)
	assert.Equal(t, kinase.RankStat{Mean: 13, StdDev: 4}, stats["CDK1"])

	_, err = ParseRankStats([]string{"CDK1 12.5"})
	assert.ErrorIs(t, err, core.ErrMalformedRecord)
}

func TestBackgroundUniverse_MatchesRun(t *testing.T) {
	universe, err := BackgroundUniverse(testBackground, kinase.ResolutionFamily)
	require.NoError(t, err)
	assert.Len(t, universe, 12)
	assert.Equal(t, "S1", universe[0])

	e := NewEngine(nil)
	_, err = e.Run(testBackground, testRanks, testInput, kinase.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, e.Universe(), universe)

	_, err = BackgroundUniverse([]string{"G1,F1"}, kinase.ResolutionKinase)
	assert.ErrorIs(t, err, core.ErrMalformedRecord)
}
