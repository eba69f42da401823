package ebitensurface

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"glasscockpit/internal/geom"
	"glasscockpit/internal/surface"
)

// fonts holds the Go Mono face in two forms: a text/v2 source for
// drawing and a parsed OpenType font for glyph bounds.
type fonts struct {
	source *text.GoTextFaceSource
	otf    *opentype.Font

	mu      sync.Mutex
	metrics map[float64]font.Face
}

var (
	fontsOnce   sync.Once
	sharedFonts *fonts
	fontsErr    error
)

func loadFonts() (*fonts, error) {
	fontsOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
		if err != nil {
			fontsErr = fmt.Errorf("loading Go Mono: %w", err)
			return
		}
		otf, err := opentype.Parse(gomono.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("parsing Go Mono: %w", err)
			return
		}
		sharedFonts = &fonts{source: src, otf: otf, metrics: make(map[float64]font.Face)}
	})
	return sharedFonts, fontsErr
}

// quantize limits the number of distinct face sizes.
func quantize(size float64) float64 {
	return math.Max(0.5, math.Round(size*2)/2)
}

func (f *fonts) metricsFace(size float64) font.Face {
	size = quantize(size)
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.metrics[size]; ok {
		return face
	}
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// The font parsed, so this only fails for a nonsensical size.
		return nil
	}
	f.metrics[size] = face
	return face
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// alignOffset is the x of the text start relative to its anchor.
func alignOffset(a surface.TextAlign, width float64) float64 {
	switch a {
	case surface.AlignCenter:
		return -width / 2
	case surface.AlignRight:
		return -width
	default:
		return 0
	}
}

func (c *Canvas) MeasureText(s string) surface.TextMetrics {
	size := c.cur.style.Font.Size
	face := c.fonts.metricsFace(size)
	if face == nil {
		return surface.TextMetrics{}
	}
	// Faces are quantized; rescale to the exact size requested.
	k := size / quantize(size)

	bounds, adv := font.BoundString(face, s)
	met := face.Metrics()
	w := fixedToFloat(adv) * k
	left := alignOffset(c.cur.style.TextAlign, w)
	return surface.TextMetrics{
		Width:         w,
		ActualLeft:    -(left + fixedToFloat(bounds.Min.X)*k),
		ActualRight:   left + fixedToFloat(bounds.Max.X)*k,
		ActualAscent:  -fixedToFloat(bounds.Min.Y) * k,
		ActualDescent: fixedToFloat(bounds.Max.Y) * k,
		FontAscent:    fixedToFloat(met.Ascent) * k,
		FontDescent:   fixedToFloat(met.Descent) * k,
	}
}

func (c *Canvas) FillText(s string, x, y float64) {
	c.drawText(s, x, y, c.cur.style.FillColor, []geom.Point{{}})
}

// StrokeText approximates an outline by stamping the text around a
// circle of half the line width.
func (c *Canvas) StrokeText(s string, x, y float64) {
	r := c.cur.style.LineWidth / 2
	n := 8
	if r*c.linearScale() > 3 {
		n = 16
	}
	offsets := make([]geom.Point, n)
	for i := range offsets {
		offsets[i] = geom.Polar(0, 0, r, geom.TwoPi*float64(i)/float64(n))
	}
	c.drawText(s, x, y, c.cur.style.StrokeColor, offsets)
}

// drawText renders at the device size of the font and scales back into
// user space, so the glyphs are rasterized at the resolution they are
// shown.
func (c *Canvas) drawText(s string, x, y float64, col color.NRGBA, offsets []geom.Point) {
	dst := c.target()
	k := c.linearScale()
	if dst == nil || s == "" || k == 0 {
		return
	}
	st := &c.cur.style
	face := &text.GoTextFace{Source: c.fonts.source, Size: quantize(st.Font.Size * k)}
	m := face.Metrics()
	w, _ := text.Measure(s, face, 0)

	dx := alignOffset(st.TextAlign, w) / k
	var dy float64
	switch st.TextBaseline {
	case surface.BaselineAlphabetic:
		dy = -m.HAscent / k
	case surface.BaselineMiddle:
		dy = -(m.HAscent + m.HDescent) / 2 / k
	case surface.BaselineBottom:
		dy = -(m.HAscent + m.HDescent) / k
	}

	for _, o := range offsets {
		op := &text.DrawOptions{}
		op.GeoM.Scale(1/k, 1/k)
		op.GeoM.Translate(x+dx+o.X, y+dy+o.Y)
		op.GeoM.Concat(c.cur.geoM)
		op.ColorScale.ScaleWithColor(col)
		op.Filter = ebiten.FilterLinear
		text.Draw(dst, s, face, op)
	}
}
