package charts

import (
	"fmt"
	"sync"

	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansregular"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
)

// Embedded fonts keep rendering independent of the host's installed fonts.
var (
	fontsOnce   sync.Once
	fontsErr    error
	sansRegular *opentype.Font
	sansBold    *opentype.Font
)

func init() {
	sans := font.Font{Typeface: "Liberation", Variant: "Sans"}
	plot.DefaultFont = sans
	plotter.DefaultFont = sans
}

func loadFonts() error {
	fontsOnce.Do(func() {
		sansRegular, fontsErr = opentype.Parse(liberationsansregular.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("failed to parse regular font: %w", fontsErr)
			return
		}
		sansBold, fontsErr = opentype.Parse(liberationsansbold.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("failed to parse bold font: %w", fontsErr)
		}
	})
	return fontsErr
}

// newFace returns a fresh face; faces keep glyph buffers and must not be shared between canvases.
func newFace(size float64, bold bool) (xfont.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	f := sansRegular
	if bold {
		f = sansBold
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
}
