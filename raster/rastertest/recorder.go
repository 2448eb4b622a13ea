// Package rastertest provides a raster.Surface recording drawing calls.
package rastertest

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/akhenakh/geojson2image/raster"
)

// Primitive kinds
const (
	FillBackground = "fill_background"
	FillPolygon    = "fill_polygon"
	StrokePolygon  = "stroke_polygon"
	DrawLine       = "line"
	FillEllipse    = "fill_ellipse"
	StrokeEllipse  = "stroke_ellipse"
)

// Op one recorded drawing call
type Op struct {
	Kind   string
	Points []image.Point
	Color  color.RGBA
	// Size thickness for strokes and lines, diameter for ellipses
	Size int
}

func (op Op) String() string {
	return fmt.Sprintf("%s %v %v %d", op.Kind, op.Points, op.Color, op.Size)
}

// Recorder a raster.Surface keeping every call in Ops
type Recorder struct {
	W, H        int
	Transparent color.Color
	Ops         []Op
}

var _ raster.Surface = (*Recorder)(nil)

func New(width, height int) *Recorder {
	return &Recorder{W: width, H: height}
}

// NewSurface a raster.Factory returning Recorder
func NewSurface(width, height int) raster.Surface {
	return New(width, height)
}

func (r *Recorder) Width() int  { return r.W }
func (r *Recorder) Height() int { return r.H }

func (r *Recorder) AllocateColor(red, green, blue uint8) color.Color {
	return color.RGBA{R: red, G: green, B: blue, A: 255}
}

func (r *Recorder) SetTransparent(c color.Color) { r.Transparent = c }

func (r *Recorder) add(kind string, pts []image.Point, c color.Color, size int) {
	cp := make([]image.Point, len(pts))
	copy(cp, pts)
	r.Ops = append(r.Ops, Op{
		Kind:   kind,
		Points: cp,
		Color:  color.RGBAModel.Convert(c).(color.RGBA),
		Size:   size,
	})
}

func (r *Recorder) FillBackground(c color.Color) {
	r.add(FillBackground, nil, c, 0)
}

func (r *Recorder) FillPolygon(pts []image.Point, c color.Color) {
	r.add(FillPolygon, pts, c, 0)
}

func (r *Recorder) StrokePolygon(pts []image.Point, c color.Color, thickness int) {
	r.add(StrokePolygon, pts, c, thickness)
}

func (r *Recorder) DrawLine(p1, p2 image.Point, c color.Color, thickness int) {
	r.add(DrawLine, []image.Point{p1, p2}, c, thickness)
}

func (r *Recorder) FillEllipse(center image.Point, diameter int, c color.Color) {
	r.add(FillEllipse, []image.Point{center}, c, diameter)
}

func (r *Recorder) StrokeEllipse(center image.Point, diameter int, c color.Color) {
	r.add(StrokeEllipse, []image.Point{center}, c, diameter)
}

// Encode writes one line per recorded op
func (r *Recorder) Encode(w io.Writer) error {
	for _, op := range r.Ops {
		if _, err := fmt.Fprintln(w, op.String()); err != nil {
			return err
		}
	}
	return nil
}

// Filter returns recorded ops of the given kind
func (r *Recorder) Filter(kind string) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}
