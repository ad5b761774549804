package plugin

import (
	"math"
	"testing"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/stretchr/testify/require"
)

func item(t *testing.T, score float32, text string) LocalizationItem {
	t.Helper()
	it, err := NewLocalizationItem(aarddata.Loc{}, aarddata.StmtHandle{}, score, Rationale{Text(text)})
	require.NoError(t, err)
	return it
}

func TestNewLocalizationItemRejectsNonFiniteScore(t *testing.T) {
	_, err := NewLocalizationItem(aarddata.Loc{}, aarddata.StmtHandle{}, float32(math.NaN()), Rationale{Text("x")})
	require.Error(t, err)

	_, err = NewLocalizationItem(aarddata.Loc{}, aarddata.StmtHandle{}, float32(math.Inf(1)), Rationale{Text("x")})
	require.Error(t, err)
}

func TestNewLocalizationItemRejectsEmptyRationale(t *testing.T) {
	_, err := NewLocalizationItem(aarddata.Loc{}, aarddata.StmtHandle{}, 1.0, nil)
	require.Error(t, err)
}

func TestResultsIterOrdersByScoreDescending(t *testing.T) {
	r := NewResults(0)
	r.Add(item(t, 0.2, "b"))
	r.Add(item(t, 0.9, "a"))
	r.Add(item(t, 0.5, "c"))

	out := r.Iter()
	require.Len(t, out, 3)
	require.InDelta(t, float32(0.9), out[0].Score, 1e-9)
	require.InDelta(t, float32(0.5), out[1].Score, 1e-9)
	require.InDelta(t, float32(0.2), out[2].Score, 1e-9)
}

func TestResultsStableTieBreakByInsertionOrder(t *testing.T) {
	r := NewResults(0)
	r.Add(item(t, 0.5, "first"))
	r.Add(item(t, 0.5, "second"))

	out := r.Iter()
	require.Equal(t, "first", string(out[0].Rationale[0].Text))
	require.Equal(t, "second", string(out[1].Rationale[0].Text))
}

func TestResultsBoundedCapacityEvictsLowestScore(t *testing.T) {
	r := NewResults(2)
	r.Add(item(t, 0.1, "low"))
	r.Add(item(t, 0.9, "high"))
	r.Add(item(t, 0.5, "mid"))

	out := r.Iter()
	require.Len(t, out, 2)
	require.InDelta(t, float32(0.9), out[0].Score, 1e-9)
	require.InDelta(t, float32(0.5), out[1].Score, 1e-9)
}

func TestResultsNormalizeDividesByMax(t *testing.T) {
	r := NewResults(0)
	r.Add(item(t, 2.0, "a"))
	r.Add(item(t, 1.0, "b"))
	r.Normalize()

	out := r.Iter()
	require.InDelta(t, float32(1.0), out[0].Score, 1e-9)
	require.InDelta(t, float32(0.5), out[1].Score, 1e-9)
}
