package charts

// Figure recipes
// Each Kind maps to one recipe value carrying its own parameters; drawing
// reads the dataset and never writes it

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"survival-dashboard/internal/dataset"
	"survival-dashboard/internal/stats"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	ErrMissingColumn = errors.New("required column missing")
	ErrNoData        = errors.New("no data to plot")
)

type recipe interface {
	draw(t *dataset.Table, k Kind) (image.Image, error)
}

type aggregation int

const (
	aggMean        aggregation = iota // mean of value per group
	aggCount                          // rows per group, key order
	aggValueCounts                    // rows per group, most frequent first
)

// recipeFor is the single dispatch point from Kind to recipe.
func recipeFor(k Kind) (recipe, bool) {
	switch k {
	case Figure1:
		return barRecipe{
			group: dataset.ColPclass, value: dataset.ColSurvived, agg: aggMean,
			xLabel: "Pclass", yLabel: "Survival Probability",
			colors: []color.Color{colorSkyBlue},
		}, true
	case Figure2:
		return barRecipe{
			group: dataset.ColSurvived, agg: aggValueCounts,
			xLabel: "Survived or not", yLabel: "Passenger Count",
			colors: []color.Color{colorBlue},
		}, true
	case Figure3:
		return barRecipe{
			group: dataset.ColSex, value: dataset.ColSurvived, agg: aggMean,
			xLabel: "Sex", yLabel: "Survival Probability",
			colors: []color.Color{colorHotPink, colorDodger},
		}, true
	case Figure4:
		return pieRecipe{
			panel: dataset.ColSex, slice: dataset.ColSurvived,
			colors:      []color.Color{colorPink, colorRoyalBlue},
			sliceLabels: map[string]string{"0": "Not survived", "1": "Survived"},
		}, true
	case Figure5:
		return histRecipe{
			value: dataset.ColAge, facet: dataset.ColSurvived, bins: 30,
			xLabel: "Age", yLabel: "Count",
			tickMin: 0, tickMax: 100, tickStep: 10,
			color: colorBlue,
		}, true
	case Figure6:
		return barRecipe{
			group: dataset.ColFamilySize, agg: aggCount,
			xLabel: "Family Size", yLabel: "Number of Passengers",
			palette: "Set2",
		}, true
	case Figure7:
		return heatmapRecipe{
			rows: dataset.ColEmbarked, cols: dataset.ColPclass,
			palette: "YlGnBu", diagnostics: true,
		}, true
	default:
		return nil, false
	}
}

func column(t *dataset.Table, name string) ([]string, error) {
	vs, err := t.Strings(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return vs, nil
}

func numericColumn(t *dataset.Table, name string) ([]float64, error) {
	vs, err := t.Floats(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return vs, nil
}

// pxLength converts a pixel count to a plot length at the figure DPI.
func pxLength(px float64) vg.Length {
	return vg.Length(px) * vg.Inch / dpi
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.Title.Padding = vg.Points(6)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func brewerPalette(name string, n int) (palette.Palette, error) {
	pal, err := brewer.GetPalette(brewer.TypeAny, name, n)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", name, err)
	}
	return pal, nil
}

// barRecipe draws one bar per group.
type barRecipe struct {
	group, value   string
	agg            aggregation
	xLabel, yLabel string
	colors         []color.Color
	// palette names a ColorBrewer qualitative palette used instead of colors.
	palette string
}

func (r barRecipe) groups(t *dataset.Table) ([]stats.Group, error) {
	keys, err := column(t, r.group)
	if err != nil {
		return nil, err
	}
	switch r.agg {
	case aggMean:
		values, err := numericColumn(t, r.value)
		if err != nil {
			return nil, err
		}
		return stats.GroupMean(keys, values), nil
	case aggValueCounts:
		return stats.ValueCounts(keys), nil
	default:
		return stats.CountBy(keys), nil
	}
}

func (r barRecipe) draw(t *dataset.Table, k Kind) (image.Image, error) {
	groups, err := r.groups(t)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, r.group)
	}

	colors := r.colors
	if r.palette != "" {
		// Set2 has eight colours; larger group counts cycle through them
		pal, err := brewerPalette(r.palette, 8)
		if err != nil {
			return nil, err
		}
		colors = pal.Colors()
	}

	w, h := k.Size()
	p := newPlot(k.Title(), r.xLabel, r.yLabel)
	barWidth := pxLength(float64(w) * 0.6 / float64(len(groups)))

	for i, g := range groups {
		v := g.Value
		if math.IsNaN(v) {
			v = 0
		}
		bar, err := plotter.NewBarChart(plotter.Values{v}, barWidth)
		if err != nil {
			return nil, fmt.Errorf("bar %s: %w", g.Key, err)
		}
		bar.XMin = float64(i)
		bar.Color = colors[i%len(colors)]
		bar.LineStyle.Width = 0
		p.Add(bar)
	}
	p.NominalX(stats.Keys(groups)...)
	p.Y.Min = 0

	fig := newFigure(w, h)
	fig.drawPlot(p, image.Rect(0, 0, w, h))
	return fig.image(), nil
}

// pieRecipe draws one pie per panel value, sliced by the slice column.
type pieRecipe struct {
	panel, slice string
	colors       []color.Color
	sliceLabels  map[string]string
}

func (r pieRecipe) draw(t *dataset.Table, k Kind) (image.Image, error) {
	panels, err := column(t, r.panel)
	if err != nil {
		return nil, err
	}
	slices, err := column(t, r.slice)
	if err != nil {
		return nil, err
	}

	ct := stats.Crosstab(r.panel, panels, r.slice, slices)
	if ct.Total() == 0 {
		return nil, fmt.Errorf("%w: %s by %s", ErrNoData, r.panel, r.slice)
	}

	legend := make([]string, len(ct.Cols))
	for j, c := range ct.Cols {
		if l, ok := r.sliceLabels[c]; ok {
			legend[j] = l
		} else {
			legend[j] = c
		}
	}

	w, h := k.Size()
	fig := newFigure(w, h)
	if err := fig.suptitle(k.Title()); err != nil {
		return nil, err
	}

	body := fig.body()
	panelW := float64(body.Dx()) / float64(len(ct.Rows))
	radius := math.Min(panelW, float64(body.Dy())) * 0.36

	for i, name := range ct.Rows {
		left := float64(body.Min.X) + float64(i)*panelW
		cx := left + panelW/2
		cy := float64(body.Min.Y) + float64(body.Dy())/2 + 10

		if err := fig.text(name, cx, cy-radius-22, 0.5, 0.5, labelSize, true); err != nil {
			return nil, err
		}
		if err := fig.drawPie(cx, cy, radius, ct.Counts[i], r.colors); err != nil {
			return nil, fmt.Errorf("pie %s: %w", name, err)
		}
		if err := fig.drawLegend(left+16, float64(body.Min.Y)+8, legend, r.colors); err != nil {
			return nil, err
		}
	}
	return fig.image(), nil
}

// histRecipe draws a histogram with a density overlay per facet value.
type histRecipe struct {
	value, facet               string
	bins                       int
	xLabel, yLabel             string
	tickMin, tickMax, tickStep float64
	color                      color.Color
}

func (r histRecipe) ticks() plot.ConstantTicks {
	var ticks []plot.Tick
	for v := r.tickMin; v <= r.tickMax; v += r.tickStep {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return ticks
}

func (r histRecipe) panel(values []float64, facet, yLabel string) (*plot.Plot, error) {
	p := newPlot(fmt.Sprintf("%s = %s", r.facet, facet), r.xLabel, yLabel)

	bins := stats.Histogram(values, r.bins)
	if len(bins) > 0 {
		hist := &plotter.Histogram{
			Width:     bins[0].Max - bins[0].Min,
			FillColor: color.NRGBA{R: 0, G: 0, B: 255, A: 120},
			LineStyle: draw.LineStyle{Color: color.White, Width: vg.Points(0.5)},
		}
		for _, b := range bins {
			hist.Bins = append(hist.Bins, plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: b.Count})
		}
		p.Add(hist)

		sample := stats.Finite(values)
		grid := stats.Linspace(bins[0].Min, bins[len(bins)-1].Max, 200)
		if density := stats.KDE(sample, grid); density != nil {
			scale := float64(len(sample)) * hist.Width
			pts := make(plotter.XYs, len(grid))
			for i := range grid {
				pts[i].X = grid[i]
				pts[i].Y = density[i] * scale
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("density line: %w", err)
			}
			line.LineStyle.Color = r.color
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
		}
	}

	p.X.Min, p.X.Max = r.tickMin, r.tickMax
	p.X.Tick.Marker = r.ticks()
	p.Y.Min = 0
	if p.Y.Max <= p.Y.Min {
		p.Y.Max = 1
	}
	return p, nil
}

func (r histRecipe) draw(t *dataset.Table, k Kind) (image.Image, error) {
	values, err := numericColumn(t, r.value)
	if err != nil {
		return nil, err
	}
	facets, err := column(t, r.facet)
	if err != nil {
		return nil, err
	}

	byFacet := make(map[string][]float64)
	var order []string
	for i, f := range facets {
		if stats.IsMissing(f) {
			continue
		}
		if _, ok := byFacet[f]; !ok {
			order = append(order, f)
		}
		byFacet[f] = append(byFacet[f], values[i])
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, r.facet)
	}
	stats.SortKeys(order)

	w, h := k.Size()
	fig := newFigure(w, h)
	if err := fig.suptitle(k.Title()); err != nil {
		return nil, err
	}

	body := fig.body()
	panelW := body.Dx() / len(order)
	for i, f := range order {
		yLabel := ""
		if i == 0 {
			yLabel = r.yLabel
		}
		p, err := r.panel(byFacet[f], f, yLabel)
		if err != nil {
			return nil, err
		}
		x0 := body.Min.X + i*panelW
		fig.drawPlot(p, image.Rect(x0, body.Min.Y, x0+panelW, body.Max.Y))
	}
	return fig.image(), nil
}

// heatmapRecipe draws an annotated contingency table.
type heatmapRecipe struct {
	rows, cols  string
	palette     string
	diagnostics bool
}

// contingencyGrid adapts a contingency table to plotter.GridXYZ with the
// first table row drawn at the top.
type contingencyGrid struct {
	ct *stats.Contingency
}

func (g contingencyGrid) Dims() (c, r int)   { return len(g.ct.Cols), len(g.ct.Rows) }
func (g contingencyGrid) X(c int) float64    { return float64(c) }
func (g contingencyGrid) Y(r int) float64    { return float64(r) }
func (g contingencyGrid) Z(c, r int) float64 { return g.ct.Counts[len(g.ct.Rows)-1-r][c] }

func (r heatmapRecipe) table(t *dataset.Table) (*stats.Contingency, error) {
	rows, err := column(t, r.rows)
	if err != nil {
		return nil, err
	}
	cols, err := column(t, r.cols)
	if err != nil {
		return nil, err
	}
	ct := stats.Crosstab(r.rows, rows, r.cols, cols)
	if ct.Total() == 0 {
		return nil, fmt.Errorf("%w: %s by %s", ErrNoData, r.rows, r.cols)
	}
	return ct, nil
}

func (r heatmapRecipe) draw(t *dataset.Table, k Kind) (image.Image, error) {
	ct, err := r.table(t)
	if err != nil {
		return nil, err
	}
	if r.diagnostics {
		LogChiSquare(ct)
	}

	pal, err := brewerPalette(r.palette, 9)
	if err != nil {
		return nil, err
	}

	grid := contingencyGrid{ct: ct}
	hm := plotter.NewHeatMap(grid, pal)
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}

	p := newPlot(k.Title(), r.cols, r.rows)
	p.Add(hm)

	nCols, nRows := grid.Dims()
	var xTicks, yTicks []plot.Tick
	for c := 0; c < nCols; c++ {
		xTicks = append(xTicks, plot.Tick{Value: grid.X(c), Label: ct.Cols[c]})
	}
	for row := 0; row < nRows; row++ {
		yTicks = append(yTicks, plot.Tick{Value: grid.Y(row), Label: ct.Rows[nRows-1-row]})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	var xys plotter.XYs
	var labels []string
	for c := 0; c < nCols; c++ {
		for row := 0; row < nRows; row++ {
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(row)})
			labels = append(labels, strconv.FormatFloat(grid.Z(c, row), 'f', 0, 64))
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	mid := hm.Min + (hm.Max-hm.Min)/2
	for i := range annotations.TextStyle {
		style := &annotations.TextStyle[i]
		style.XAlign = text.XCenter
		style.YAlign = text.YCenter
		style.Font.Size = vg.Points(11)
		style.Color = color.Black
		if grid.Z(i/nRows, i%nRows) > mid {
			style.Color = color.White
		}
	}
	p.Add(annotations)

	w, h := k.Size()
	fig := newFigure(w, h)
	fig.drawPlot(p, image.Rect(0, 0, w, h))
	return fig.image(), nil
}
