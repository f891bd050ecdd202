package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

// drawHint draws a small hint string onto the provided image near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// drawCenterLabel writes two centered lines (value above caption) at the middle of the
// image, used for the donut total.
func drawCenterLabel(img image.Image, value, caption string) image.Image {
	if img == nil {
		return img
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	face := basicfont.Face7x13
	cx := (b.Min.X + b.Max.X) / 2
	cy := (b.Min.Y + b.Max.Y) / 2
	lineH := face.Metrics().Height.Ceil()
	put := func(s string, y int, col color.Color) {
		dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(col), Face: face}
		w := dr.MeasureString(s).Ceil()
		dr.Dot = fixed.Point26_6{X: fixed.I(cx - w/2), Y: fixed.I(y)}
		dr.DrawString(s)
	}
	put(value, cy, color.RGBA{R: 30, G: 41, B: 59, A: 255})
	put(strings.ToUpper(caption), cy+lineH, color.RGBA{R: 148, G: 163, B: 184, A: 255})
	return rgba
}
