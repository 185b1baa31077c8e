package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDegenerateTable is returned when a contingency table has no observations.
var ErrDegenerateTable = errors.New("contingency table has no observations")

// Contingency is a cross-tabulation of counts for two categorical variables.
// Counts[i][j] is the number of rows with row key Rows[i] and column key Cols[j].
type Contingency struct {
	RowName string
	ColName string
	Rows    []string
	Cols    []string
	Counts  [][]float64
}

// Crosstab counts row/column key pairs. Pairs with a missing key are dropped.
func Crosstab(rowName string, rows []string, colName string, cols []string) *Contingency {
	pairs := make(map[[2]string]float64)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})

	n := min(len(rows), len(cols))
	for i := 0; i < n; i++ {
		if IsMissing(rows[i]) || IsMissing(cols[i]) {
			continue
		}
		pairs[[2]string{rows[i], cols[i]}]++
		rowSet[rows[i]] = struct{}{}
		colSet[cols[i]] = struct{}{}
	}

	c := &Contingency{RowName: rowName, ColName: colName}
	for k := range rowSet {
		c.Rows = append(c.Rows, k)
	}
	for k := range colSet {
		c.Cols = append(c.Cols, k)
	}
	SortKeys(c.Rows)
	SortKeys(c.Cols)

	c.Counts = make([][]float64, len(c.Rows))
	for i, r := range c.Rows {
		c.Counts[i] = make([]float64, len(c.Cols))
		for j, col := range c.Cols {
			c.Counts[i][j] = pairs[[2]string{r, col}]
		}
	}
	return c
}

// Total returns the number of observations in the table.
func (c *Contingency) Total() float64 {
	var total float64
	for _, row := range c.Counts {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Max returns the largest cell count.
func (c *Contingency) Max() float64 {
	var m float64
	for _, row := range c.Counts {
		for _, v := range row {
			m = math.Max(m, v)
		}
	}
	return m
}

// String renders the table as aligned text for console diagnostics.
func (c *Contingency) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s", c.ColName)
	for _, col := range c.Cols {
		fmt.Fprintf(&b, "%8s", col)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-10s\n", c.RowName)
	for i, r := range c.Rows {
		fmt.Fprintf(&b, "%-10s", r)
		for _, v := range c.Counts[i] {
			fmt.Fprintf(&b, "%8.0f", v)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ChiSquareResult holds a chi-square test of independence.
type ChiSquareResult struct {
	Statistic float64
	PValue    float64
	DOF       int
	Expected  [][]float64
}

// ChiSquare runs a chi-square test of independence on the table.
// Yates' continuity correction is applied when there is a single degree of freedom.
func ChiSquare(c *Contingency) (ChiSquareResult, error) {
	total := c.Total()
	if total <= 0 || len(c.Rows) == 0 || len(c.Cols) == 0 {
		return ChiSquareResult{}, ErrDegenerateTable
	}

	rowSums := make([]float64, len(c.Rows))
	colSums := make([]float64, len(c.Cols))
	for i := range c.Rows {
		for j := range c.Cols {
			rowSums[i] += c.Counts[i][j]
			colSums[j] += c.Counts[i][j]
		}
	}

	expected := make([][]float64, len(c.Rows))
	for i := range c.Rows {
		expected[i] = make([]float64, len(c.Cols))
		for j := range c.Cols {
			expected[i][j] = rowSums[i] * colSums[j] / total
		}
	}

	dof := (len(c.Rows) - 1) * (len(c.Cols) - 1)
	res := ChiSquareResult{DOF: dof, Expected: expected}
	if dof == 0 {
		res.PValue = 1
		return res, nil
	}

	for i := range c.Rows {
		for j := range c.Cols {
			diff := c.Counts[i][j] - expected[i][j]
			if dof == 1 {
				// continuity correction never flips the sign of the difference
				adj := math.Min(0.5, math.Abs(diff))
				diff = math.Copysign(math.Abs(diff)-adj, diff)
			}
			res.Statistic += diff * diff / expected[i][j]
		}
	}
	res.PValue = distuv.ChiSquared{K: float64(dof)}.Survival(res.Statistic)
	return res, nil
}
