// Package render draws chart adapter output as PNG images with go-chart. The fyne viewer
// shows the images directly and the CLI writes them to disk.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/types"
)

// Options controls image size and overlays.
type Options struct {
	Width  int
	Height int
	// Hints draws a one-line explanation under each chart.
	Hints bool
}

// ChartDimensions applies the width/height clamp rules used for every chart: at least
// 800 wide, height a third of the width clamped to [280, 520].
func ChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// DefaultOptions sizes charts for a raw canvas width.
func DefaultOptions(rawW int) Options {
	w, h := ChartDimensions(rawW)
	return Options{Width: w, Height: h}
}

func (o Options) size() (int, int) {
	if o.Width <= 0 || o.Height <= 0 {
		return ChartDimensions(o.Width)
	}
	return o.Width, o.Height
}

var (
	colorFlow  = drawing.ColorFromHex("0d9488")
	colorPress = drawing.ColorFromHex("f59e0b")
	colorTemp  = drawing.ColorFromHex("f43f5e")
	colorPoint = drawing.ColorFromHex("0d9488").WithAlpha(160)

	// slice colors for the distribution donut, darkest first
	tealPalette = []drawing.Color{
		drawing.ColorFromHex("0f766e"),
		drawing.ColorFromHex("0d9488"),
		drawing.ColorFromHex("14b8a6"),
		drawing.ColorFromHex("2dd4bf"),
		drawing.ColorFromHex("5eead4"),
		drawing.ColorFromHex("99f6e4"),
	}
)

// MetricColor is the series color of a metric, shared with the other renderers.
func MetricColor(m types.Metric) drawing.Color {
	switch m {
	case types.Pressure:
		return colorPress
	case types.Temperature:
		return colorTemp
	}
	return colorFlow
}

// SliceColor returns the donut color for slice i.
func SliceColor(i int) drawing.Color {
	return tealPalette[i%len(tealPalette)]
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

type pngRenderer interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// encode renders c and decodes the PNG back into an image, falling back to a blank
// image of the requested size on any error.
func encode(name string, c pngRenderer, w, h int) image.Image {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		logging.Warnf("[render] %s render error: %v; showing blank fallback", name, err)
		return blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		logging.Warnf("[render] %s decode error: %v; showing blank fallback", name, err)
		return blank(w, h)
	}
	return img
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 245, G: 247, B: 250, A: 255})
		}
	}
	return img
}

// Blank returns an empty placeholder image of the configured size.
func Blank(o Options) image.Image {
	w, h := o.size()
	return blank(w, h)
}
