package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one histogram bucket covering [Min, Max).
// The last bin of a histogram also includes its Max.
type Bin struct {
	Min, Max float64
	Count    float64
}

// Finite drops NaN and infinite values.
func Finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		out = append(out, x)
	}
	return out
}

// Histogram splits the range of xs into n equal-width bins.
// A constant sample is spread over [x-0.5, x+0.5].
func Histogram(xs []float64, n int) []Bin {
	xs = Finite(xs)
	if len(xs) == 0 || n <= 0 {
		return nil
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Min = lo + float64(i)*width
		bins[i].Max = lo + float64(i+1)*width
	}
	bins[n-1].Max = hi

	for _, x := range xs {
		i := int((x - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].Count++
	}
	return bins
}

// ScottBandwidth returns the Gaussian kernel bandwidth n^(-1/5) * sd.
func ScottBandwidth(xs []float64) float64 {
	xs = Finite(xs)
	if len(xs) < 2 {
		return 0
	}
	return math.Pow(float64(len(xs)), -0.2) * stat.StdDev(xs, nil)
}

// KDE evaluates a Gaussian kernel density estimate of xs at each point of grid.
// It returns nil when the sample has fewer than two distinct values.
func KDE(xs, grid []float64) []float64 {
	xs = Finite(xs)
	bw := ScottBandwidth(xs)
	if bw == 0 || math.IsNaN(bw) {
		return nil
	}

	norm := 1 / (float64(len(xs)) * bw * math.Sqrt(2*math.Pi))
	out := make([]float64, len(grid))
	for i, g := range grid {
		var sum float64
		for _, x := range xs {
			u := (g - x) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		out[i] = sum * norm
	}
	return out
}

// Linspace returns n evenly spaced points over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	return floats.Span(out, lo, hi)
}
