package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/dgraph-io/ristretto"
	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"

	"github.com/akhenakh/geojson2image"
	"github.com/akhenakh/geojson2image/decoder"
)

// Server renders GeoJSON documents to images
type Server struct {
	storage geojson2image.Store
	logger  log.Logger
	cache   *ristretto.Cache
	opts    Options
}

type Options struct {
	// CacheCount renderings to keep in memory, 0 disables the memory cache
	CacheCount int

	// MaxSize largest width or height accepted
	MaxSize int
}

// RenderRequest a document to render and how
type RenderRequest struct {
	GeoJSON []byte

	// Width and Height 0 select the image defaults
	Width, Height int

	// BBox overrides the computed bounding box
	BBox *geojson2image.BBox

	// SeamAware see geojson2image.SeamBoundingBox
	SeamAware bool
}

// RequestError the request can't be served as is, the client should fix it
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// New returns a Server, storage may be nil to disable the disk cache
func New(storage geojson2image.Store, logger log.Logger, opts Options) (*Server, error) {
	logger = log.With(logger, "component", "server")

	s := &Server{
		storage: storage,
		logger:  logger,
		opts:    opts,
	}

	if opts.CacheCount > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: int64(opts.CacheCount) * 10,
			MaxCost:     int64(opts.CacheCount),
			BufferItems: 64,
		})
		if err != nil {
			return nil, errors.Wrap(err, "can't create memory cache")
		}
		s.cache = cache
	}

	return s, nil
}

// Key returns a hash of everything influencing the rendering
func (req *RenderRequest) Key() uint64 {
	h := murmur3.New64()
	_, _ = h.Write(req.GeoJSON)

	buf := make([]byte, 8)
	writeUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf, v)
		_, _ = h.Write(buf)
	}
	writeUint(uint64(req.Width))
	writeUint(uint64(req.Height))
	if req.SeamAware {
		writeUint(1)
	} else {
		writeUint(0)
	}
	if req.BBox != nil {
		writeUint(math.Float64bits(req.BBox.MinLon))
		writeUint(math.Float64bits(req.BBox.MaxLon))
		writeUint(math.Float64bits(req.BBox.MinLat))
		writeUint(math.Float64bits(req.BBox.MaxLat))
	}

	return h.Sum64()
}

// Render returns the PNG rendering of req, served from caches when possible
func (s *Server) Render(ctx context.Context, req *RenderRequest) (*geojson2image.RenderStorage, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "Render")
	defer span.Finish()

	if s.opts.MaxSize > 0 && (req.Width > s.opts.MaxSize || req.Height > s.opts.MaxSize) {
		return nil, s.sizeError()
	}

	key := req.Key()

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			cacheHitCounter.WithLabelValues("memory").Inc()
			return v.(*geojson2image.RenderStorage), nil
		}
	}

	if s.storage != nil {
		rs, ok, err := s.storage.LoadRender(key)
		if err != nil {
			level.Warn(s.logger).Log("msg", "can't read rendering from storage", "error", err, "key", key)
		}
		if ok {
			cacheHitCounter.WithLabelValues("storage").Inc()
			s.remember(key, rs)
			return rs, nil
		}
	}

	cacheMissCounter.Inc()

	rs, err := s.render(req)
	if err != nil {
		renderErrorCounter.Inc()
		return nil, err
	}

	s.remember(key, rs)
	if s.storage != nil {
		if err := s.storage.StoreRender(key, rs); err != nil {
			level.Warn(s.logger).Log("msg", "can't store rendering", "error", err, "key", key)
		}
	}

	return rs, nil
}

func (s *Server) sizeError() error {
	return &RequestError{Err: errors.Errorf("image size exceeds %d pixels", s.opts.MaxSize)}
}

func (s *Server) remember(key uint64, rs *geojson2image.RenderStorage) {
	if s.cache == nil {
		return
	}
	s.cache.Set(key, rs, 1)
}

func (s *Server) render(req *RenderRequest) (*geojson2image.RenderStorage, error) {
	start := time.Now()

	node, err := decoder.Decode(req.GeoJSON)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	img := geojson2image.NewImage(node, s.logger, geojson2image.ImageOptions{
		Width:       req.Width,
		Height:      req.Height,
		BoundingBox: req.BBox,
		SeamAware:   req.SeamAware,
	})

	if w, h := img.Size(); s.opts.MaxSize > 0 && (w > s.opts.MaxSize || h > s.opts.MaxSize) {
		return nil, s.sizeError()
	}

	box, err := img.Bounds()
	if err != nil {
		return nil, err
	}

	surface, err := img.RenderBox(box)
	if err != nil {
		return nil, err
	}

	rs := &geojson2image.RenderStorage{
		Width:     surface.Width(),
		Height:    surface.Height(),
		BBox:      box,
		CreatedAt: time.Now().UTC(),
	}

	buf := new(bytes.Buffer)
	if err := surface.Encode(buf); err != nil {
		return nil, err
	}
	rs.Image = buf.Bytes()

	renderDuration.Observe(time.Since(start).Seconds())

	level.Debug(s.logger).Log("msg", "rendered",
		"bbox", box.String(),
		"width", rs.Width,
		"height", rs.Height,
		"size", len(rs.Image),
		"duration", time.Since(start),
	)

	return rs, nil
}

// IsRequestError reports if err is caused by the client input
func IsRequestError(err error) bool {
	var re *RequestError
	var ut *geojson2image.UnsupportedGeometryTypeError
	var oe *geojson2image.InvalidOptionError

	return errors.As(err, &re) ||
		errors.As(err, &ut) ||
		errors.As(err, &oe) ||
		errors.Is(err, geojson2image.ErrInvalidGeometry) ||
		errors.Is(err, geojson2image.ErrEmptyGeometry)
}
