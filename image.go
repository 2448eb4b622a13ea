package geojson2image

import (
	"bytes"
	"io"
	"math"

	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/akhenakh/geojson2image/raster"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 400

	// DefaultMaxSize largest side used by Rasterize when none is given
	DefaultMaxSize = 2000
)

// ImageOptions for an Image, zero values select the defaults
type ImageOptions struct {
	// Width and Height of the raster, default to 400x400
	Width, Height int

	// BoundingBox overrides the box computed from the node,
	// a box with MinLon > MaxLon crosses the antimeridian
	BoundingBox *BBox

	// SeamAware computes the box with SeamBoundingBox instead of BoundingBox,
	// ignored when BoundingBox is set
	SeamAware bool

	// NewSurface creates the raster, defaults to raster.NewSurface (PNG)
	NewSurface raster.Factory
}

// Image renders a fixed node, handling geometries crossing the antimeridian
type Image struct {
	node   Node
	logger log.Logger
	opts   ImageOptions
}

func NewImage(n Node, logger log.Logger, opts ImageOptions) *Image {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.NewSurface == nil {
		opts.NewSurface = raster.NewSurface
	}

	return &Image{
		node:   n,
		logger: log.With(logger, "component", "image"),
		opts:   opts,
	}
}

// Bounds returns the bounding box the image is rendered with
func (im *Image) Bounds() (BBox, error) {
	if im.opts.BoundingBox != nil {
		return *im.opts.BoundingBox, nil
	}
	if im.opts.SeamAware {
		return SeamBoundingBox(im.node)
	}
	return BoundingBox(im.node)
}

// Size returns the raster width and height, defaults applied
func (im *Image) Size() (int, int) {
	return im.opts.Width, im.opts.Height
}

// Render draws the node onto a new transparent surface covering Bounds.
func (im *Image) Render() (raster.Surface, error) {
	box, err := im.Bounds()
	if err != nil {
		return nil, err
	}
	return im.RenderBox(box)
}

// RenderBox draws the node onto a new transparent surface covering box,
// for callers already holding the result of Bounds.
// A box crossing the antimeridian is drawn in two passes, one for each side
// of the seam, onto the same surface.
func (im *Image) RenderBox(box BBox) (raster.Surface, error) {
	s := im.opts.NewSurface(im.opts.Width, im.opts.Height)
	bg := s.AllocateColor(0, 0, 0)
	s.SetTransparent(bg)
	s.FillBackground(bg)

	passes := renderPasses(box)
	for i, pass := range passes {
		level.Debug(im.logger).Log("msg", "rendering pass",
			"pass", i+1,
			"passes", len(passes),
			"bbox", pass.String(),
			"width", im.opts.Width,
			"height", im.opts.Height,
		)
		if err := Render(s, im.node, pass, im.opts.Width, im.opts.Height, DrawOptions{}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// renderPasses returns box for a regular box, for a box crossing the
// antimeridian the box unwrapped eastward then the same box shifted one turn west
func renderPasses(box BBox) []BBox {
	if !box.CrossesAntimeridian() {
		return []BBox{box}
	}

	east := box
	east.MaxLon += 360

	west := east
	west.MinLon -= 360
	west.MaxLon -= 360

	return []BBox{east, west}
}

// DrawTo renders and encodes the image to w
func (im *Image) DrawTo(w io.Writer) error {
	s, err := im.Render()
	if err != nil {
		return err
	}
	return s.Encode(w)
}

// Draw renders and returns the encoded image
func (im *Image) Draw() ([]byte, error) {
	var buf bytes.Buffer
	if err := im.DrawTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Rendering result of Rasterize
type Rendering struct {
	Surface raster.Surface
	Bounds  BBox
}

// Rasterize renders n once onto a new transparent surface whose largest side
// is maxSize pixels, keeping the bounding box aspect ratio in degrees.
// Geometries crossing the antimeridian are not handled, use Image.
func Rasterize(n Node, maxSize int, newSurface raster.Factory) (*Rendering, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if newSurface == nil {
		newSurface = raster.NewSurface
	}

	box, err := BoundingBox(n)
	if err != nil {
		return nil, err
	}

	width, height := fitSize(box, maxSize)
	if width == 0 || height == 0 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "bbox %s", box)
	}

	s := newSurface(width, height)
	bg := s.AllocateColor(0, 0, 0)
	s.SetTransparent(bg)
	s.FillBackground(bg)

	if err := Render(s, n, box, width, height, DrawOptions{}); err != nil {
		return nil, err
	}

	return &Rendering{Surface: s, Bounds: box}, nil
}

// fitSize returns the raster size of box with its largest side being maxSize
func fitSize(box BBox, maxSize int) (int, int) {
	dx, dy := box.LonDelta(), box.LatDelta()
	maxDelta := math.Max(dx, dy)
	if maxDelta <= 0 {
		return 0, 0
	}

	return int(math.Floor(float64(maxSize) * dx / maxDelta)),
		int(math.Floor(float64(maxSize) * dy / maxDelta))
}
