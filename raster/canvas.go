package raster

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

// Canvas a Surface backed by a gg drawing context, encoded as PNG
type Canvas struct {
	dc          *gg.Context
	transparent color.Color
}

// NewCanvas returns a fully transparent canvas
func NewCanvas(width, height int) *Canvas {
	dc := gg.NewContext(width, height)
	// rings are concatenated into one path, holes cancel out with even-odd
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	return &Canvas{dc: dc}
}

// NewSurface a Factory returning Canvas
func NewSurface(width, height int) Surface {
	return NewCanvas(width, height)
}

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

func (c *Canvas) AllocateColor(r, g, b uint8) color.Color {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// SetTransparent any later FillBackground with col clears the canvas to
// fully transparent pixels instead
func (c *Canvas) SetTransparent(col color.Color) {
	c.transparent = col
}

func (c *Canvas) FillBackground(col color.Color) {
	if c.transparent != nil && sameColor(col, c.transparent) {
		col = color.Transparent
	}
	c.dc.SetColor(col)
	c.dc.Clear()
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func (c *Canvas) path(pts []image.Point) {
	c.dc.NewSubPath()
	for i, p := range pts {
		if i == 0 {
			c.dc.MoveTo(float64(p.X), float64(p.Y))
			continue
		}
		c.dc.LineTo(float64(p.X), float64(p.Y))
	}
	c.dc.ClosePath()
}

func (c *Canvas) FillPolygon(pts []image.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	c.path(pts)
	c.dc.SetColor(col)
	c.dc.Fill()
}

func (c *Canvas) StrokePolygon(pts []image.Point, col color.Color, thickness int) {
	if len(pts) < 2 || thickness <= 0 {
		return
	}
	c.path(pts)
	c.dc.SetColor(col)
	c.dc.SetLineWidth(float64(thickness))
	c.dc.Stroke()
}

func (c *Canvas) DrawLine(p1, p2 image.Point, col color.Color, thickness int) {
	if thickness <= 0 {
		return
	}
	c.dc.DrawLine(float64(p1.X), float64(p1.Y), float64(p2.X), float64(p2.Y))
	c.dc.SetColor(col)
	c.dc.SetLineWidth(float64(thickness))
	c.dc.Stroke()
}

func (c *Canvas) FillEllipse(center image.Point, diameter int, col color.Color) {
	r := float64(diameter) / 2
	c.dc.DrawEllipse(float64(center.X), float64(center.Y), r, r)
	c.dc.SetColor(col)
	c.dc.Fill()
}

func (c *Canvas) StrokeEllipse(center image.Point, diameter int, col color.Color) {
	r := float64(diameter) / 2
	c.dc.DrawEllipse(float64(center.X), float64(center.Y), r, r)
	c.dc.SetColor(col)
	c.dc.SetLineWidth(1)
	c.dc.Stroke()
}

// Image returns the canvas pixels
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// Encode writes the canvas as PNG
func (c *Canvas) Encode(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return errors.Wrap(err, "can't encode png")
	}
	return nil
}
