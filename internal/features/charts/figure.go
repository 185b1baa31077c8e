package charts

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	dpi = 100

	suptitleSize = 18.0
	labelSize    = 14.0
	pieTextSize  = 13.0

	suptitleHeight = 50
)

var (
	colorSkyBlue   = color.RGBA{135, 206, 235, 255}
	colorBlue      = color.RGBA{0, 0, 255, 255}
	colorHotPink   = color.RGBA{255, 105, 180, 255}
	colorDodger    = color.RGBA{30, 144, 255, 255}
	colorPink      = color.RGBA{255, 192, 203, 255}
	colorRoyalBlue = color.RGBA{65, 105, 225, 255}
	colorText      = color.RGBA{38, 38, 38, 255}
)

// figure is one render's private canvas. Panels are drawn onto it and the
// whole thing is flattened into a single image.
type figure struct {
	dc     *gg.Context
	width  int
	height int
}

func newFigure(width, height int) *figure {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	return &figure{dc: dc, width: width, height: height}
}

func (f *figure) image() image.Image {
	return f.dc.Image()
}

// text draws s anchored at (x, y); ax/ay follow gg's anchor convention.
func (f *figure) text(s string, x, y, ax, ay, size float64, bold bool) error {
	face, err := newFace(size, bold)
	if err != nil {
		return err
	}
	f.dc.SetFontFace(face)
	f.dc.SetColor(colorText)
	f.dc.DrawStringAnchored(s, x, y, ax, ay)
	return nil
}

// suptitle centres a bold title across the top of the figure.
func (f *figure) suptitle(s string) error {
	return f.text(s, float64(f.width)/2, suptitleHeight/2, 0.5, 0.5, suptitleSize, true)
}

// body is the figure area below the suptitle.
func (f *figure) body() image.Rectangle {
	return image.Rect(0, suptitleHeight, f.width, f.height)
}

// drawPlot renders p into r on a dedicated raster canvas.
func (f *figure) drawPlot(p *plot.Plot, r image.Rectangle) {
	w := vg.Length(r.Dx()) * vg.Inch / dpi
	h := vg.Length(r.Dy()) * vg.Inch / dpi
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))
	f.dc.DrawImage(c.Image(), r.Min.X, r.Min.Y)
}

// drawPie draws a pie with wedges counter-clockwise from 12 o'clock and
// percentage labels at 60% of the radius. Zero-valued wedges are skipped.
func (f *figure) drawPie(cx, cy, radius float64, values []float64, colors []color.Color) error {
	var total float64
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return fmt.Errorf("pie has no positive values")
	}

	face, err := newFace(pieTextSize, false)
	if err != nil {
		return err
	}

	start := -math.Pi / 2
	for i, v := range values {
		if v <= 0 {
			continue
		}
		sweep := v / total * 2 * math.Pi
		end := start - sweep

		f.dc.NewSubPath()
		f.dc.MoveTo(cx, cy)
		f.dc.DrawArc(cx, cy, radius, start, end)
		f.dc.ClosePath()
		f.dc.SetColor(colors[i%len(colors)])
		f.dc.Fill()

		mid := start - sweep/2
		f.dc.SetFontFace(face)
		f.dc.SetColor(colorText)
		f.dc.DrawStringAnchored(fmt.Sprintf("%.1f%%", v/total*100),
			cx+0.6*radius*math.Cos(mid), cy+0.6*radius*math.Sin(mid), 0.5, 0.5)

		start = end
	}
	return nil
}

// drawLegend draws colour swatches with labels, top-left corner at (x, y).
func (f *figure) drawLegend(x, y float64, labels []string, colors []color.Color) error {
	face, err := newFace(labelSize-1, false)
	if err != nil {
		return err
	}
	f.dc.SetFontFace(face)

	const swatch, gap = 14.0, 6.0
	width := 0.0
	for _, l := range labels {
		if w, _ := f.dc.MeasureString(l); w > width {
			width = w
		}
	}
	boxW := swatch + 3*gap + width
	boxH := float64(len(labels))*(swatch+gap) + gap

	f.dc.SetColor(color.White)
	f.dc.DrawRectangle(x, y, boxW, boxH)
	f.dc.FillPreserve()
	f.dc.SetColor(color.RGBA{204, 204, 204, 255})
	f.dc.SetLineWidth(1)
	f.dc.Stroke()

	for i, l := range labels {
		top := y + gap + float64(i)*(swatch+gap)
		f.dc.SetColor(colors[i%len(colors)])
		f.dc.DrawRectangle(x+gap, top, swatch, swatch)
		f.dc.Fill()
		f.dc.SetColor(colorText)
		f.dc.DrawStringAnchored(l, x+2*gap+swatch, top+swatch/2, 0, 0.5)
	}
	return nil
}
