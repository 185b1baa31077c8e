package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMean(t *testing.T) {
	keys := []string{"1", "1", "2", "3"}
	values := []float64{1, 0, 1, 0}

	got := GroupMean(keys, values)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"1", "2", "3"}, Keys(got))
	assert.InDeltaSlice(t, []float64{0.5, 1.0, 0.0}, Values(got), 1e-12)
}

func TestGroupMeanSkipsMissing(t *testing.T) {
	keys := []string{"male", "", "female", "male"}
	values := []float64{1, 1, math.NaN(), 0}

	got := GroupMean(keys, values)

	require.Len(t, got, 2)
	assert.Equal(t, "female", got[0].Key)
	assert.True(t, math.IsNaN(got[0].Value))
	assert.Equal(t, "male", got[1].Key)
	assert.InDelta(t, 0.5, got[1].Value, 1e-12)
}

func TestSortKeysNumericVersusLexicographic(t *testing.T) {
	numeric := []string{"10", "2", "1"}
	SortKeys(numeric)
	assert.Equal(t, []string{"1", "2", "10"}, numeric)

	mixed := []string{"S", "C", "Q"}
	SortKeys(mixed)
	assert.Equal(t, []string{"C", "Q", "S"}, mixed)
}

func TestCountByAndValueCounts(t *testing.T) {
	keys := []string{"0", "1", "0", "0", "1", "NaN"}

	assert.Equal(t, []Group{{"0", 3}, {"1", 2}}, CountBy(keys))

	vc := ValueCounts([]string{"1", "1", "0", "2", "2", "2"})
	assert.Equal(t, []string{"2", "1", "0"}, Keys(vc))
}

func TestCrosstab(t *testing.T) {
	rows := []string{"S", "C", "S", "Q", "", "S"}
	cols := []string{"3", "1", "1", "3", "2", "3"}

	c := Crosstab("Embarked", rows, "Pclass", cols)

	assert.Equal(t, []string{"C", "Q", "S"}, c.Rows)
	assert.Equal(t, []string{"1", "3"}, c.Cols)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}, {1, 2}}, c.Counts)
	assert.Equal(t, 5.0, c.Total())
	assert.Equal(t, 2.0, c.Max())
	assert.Contains(t, c.String(), "Embarked")
}

func TestChiSquare(t *testing.T) {
	// scipy.stats.chi2_contingency([[10, 10, 20], [20, 20, 20]])
	c := &Contingency{
		Rows:   []string{"a", "b"},
		Cols:   []string{"x", "y", "z"},
		Counts: [][]float64{{10, 10, 20}, {20, 20, 20}},
	}

	res, err := ChiSquare(c)
	require.NoError(t, err)

	assert.Equal(t, 2, res.DOF)
	assert.InDelta(t, 2.7777777777777777, res.Statistic, 1e-9)
	assert.InDelta(t, 0.24935220877729622, res.PValue, 1e-6)
	assert.Equal(t, [][]float64{{12, 12, 16}, {18, 18, 24}}, res.Expected)
}

func TestChiSquareYatesCorrection(t *testing.T) {
	// scipy.stats.chi2_contingency([[10, 20], [20, 10]]) -> chi2 = 5.4, dof = 1
	c := &Contingency{
		Rows:   []string{"a", "b"},
		Cols:   []string{"x", "y"},
		Counts: [][]float64{{10, 20}, {20, 10}},
	}

	res, err := ChiSquare(c)
	require.NoError(t, err)

	assert.Equal(t, 1, res.DOF)
	assert.InDelta(t, 5.4, res.Statistic, 1e-9)
	assert.InDelta(t, 0.0201, res.PValue, 1e-4)
}

func TestChiSquareDegenerate(t *testing.T) {
	_, err := ChiSquare(&Contingency{})
	assert.ErrorIs(t, err, ErrDegenerateTable)

	res, err := ChiSquare(&Contingency{Rows: []string{"S"}, Cols: []string{"1", "2"}, Counts: [][]float64{{3, 4}}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.DOF)
	assert.Equal(t, 1.0, res.PValue)
	assert.Equal(t, 0.0, res.Statistic)
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, math.NaN(), 10}, 5)

	require.Len(t, bins, 5)
	assert.Equal(t, 0.0, bins[0].Min)
	assert.Equal(t, 10.0, bins[4].Max)

	var total float64
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 6.0, total)
	assert.Equal(t, 2.0, bins[0].Count)
	assert.Equal(t, 1.0, bins[4].Count)
}

func TestHistogramConstantSample(t *testing.T) {
	bins := Histogram([]float64{7, 7, 7}, 2)

	require.Len(t, bins, 2)
	assert.Equal(t, 6.5, bins[0].Min)
	assert.Equal(t, 7.5, bins[1].Max)
	assert.Equal(t, 3.0, bins[1].Count)
	assert.Nil(t, Histogram(nil, 3))
}

func TestKDEIntegratesToOne(t *testing.T) {
	xs := []float64{22, 38, 26, 35, 35, 54, 2, 27, 14, 4, 58, 20, 39, 14, 55}
	grid := Linspace(-100, 200, 3001)

	density := KDE(xs, grid)
	require.Len(t, density, len(grid))

	step := grid[1] - grid[0]
	var area float64
	for _, d := range density {
		area += d * step
	}
	assert.InDelta(t, 1.0, area, 1e-3)

	assert.Nil(t, KDE([]float64{5}, grid))
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{4}, Linspace(4, 9, 1))
	assert.Nil(t, Linspace(0, 1, 0))
}
