// Package raster provides the drawing surface geometries are rendered onto.
package raster

import (
	"image"
	"image/color"
	"io"
)

// Surface is a mutable raster canvas, created and owned by the caller.
// Renderers only issue drawing requests against it.
type Surface interface {
	Width() int
	Height() int

	// AllocateColor returns a color usable with this surface
	AllocateColor(r, g, b uint8) color.Color

	// SetTransparent marks c as the transparent color when encoding
	SetTransparent(c color.Color)

	// FillBackground paints the whole surface with c
	FillBackground(c color.Color)

	FillPolygon(pts []image.Point, c color.Color)
	StrokePolygon(pts []image.Point, c color.Color, thickness int)
	DrawLine(p1, p2 image.Point, c color.Color, thickness int)
	FillEllipse(center image.Point, diameter int, c color.Color)
	StrokeEllipse(center image.Point, diameter int, c color.Color)

	// Encode writes the surface as an image to w
	Encode(w io.Writer) error
}

// Factory creates a Surface of the given size
type Factory func(width, height int) Surface
