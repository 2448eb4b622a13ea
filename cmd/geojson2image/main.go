package main

import (
	"os"

	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/namsral/flag"

	"github.com/akhenakh/geojson2image"
	"github.com/akhenakh/geojson2image/decoder"
	"github.com/akhenakh/geojson2image/loglevel"
)

const appName = "geojson2image"

var (
	version = "no version from LDFLAGS"

	logLevel  = flag.String("logLevel", "INFO", "DEBUG|INFO|WARN|ERROR")
	inPath    = flag.String("in", "", "GeoJSON file to render")
	outPath   = flag.String("out", "out.png", "PNG file to write")
	width     = flag.Int("width", geojson2image.DefaultWidth, "image width")
	height    = flag.Int("height", geojson2image.DefaultHeight, "image height")
	maxSize   = flag.Int("maxSize", 0, "when set, ignore width/height and fit the largest side to maxSize keeping the aspect ratio")
	bbox      = flag.String("bbox", "", "bounding box override minLon,maxLon,minLat,maxLat")
	seamAware = flag.Bool("seamAware", false, "compute a bounding box crossing the antimeridian when shorter")
)

func main() {
	flag.Parse()

	exitcode := 0
	defer func() { os.Exit(exitcode) }()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "caller", log.Caller(5), "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "app", appName)
	logger = loglevel.NewLevelFilterFromString(logger, *logLevel)

	level.Debug(logger).Log("msg", "Starting app", "version", version)

	if *inPath == "" {
		level.Error(logger).Log("msg", "missing -in GeoJSON file")

		exitcode = 2

		return
	}

	in, err := os.Open(*inPath)
	if err != nil {
		level.Error(logger).Log("msg", "can't open input", "error", err, "path", *inPath)

		exitcode = 1

		return
	}
	defer in.Close()

	node, err := decoder.DecodeReader(in)
	if err != nil {
		level.Error(logger).Log("msg", "can't decode GeoJSON", "error", err, "path", *inPath)

		exitcode = 1

		return
	}

	out, err := os.Create(*outPath)
	if err != nil {
		level.Error(logger).Log("msg", "can't create output", "error", err, "path", *outPath)

		exitcode = 1

		return
	}
	defer out.Close()

	if *maxSize > 0 {
		rendering, err := geojson2image.Rasterize(node, *maxSize, nil)
		if err != nil {
			level.Error(logger).Log("msg", "can't render", "error", err)

			exitcode = 1

			return
		}
		if err := rendering.Surface.Encode(out); err != nil {
			level.Error(logger).Log("msg", "can't write image", "error", err)

			exitcode = 1

			return
		}
		level.Info(logger).Log("msg", "image written",
			"path", *outPath,
			"bbox", rendering.Bounds.String(),
			"width", rendering.Surface.Width(),
			"height", rendering.Surface.Height(),
		)

		return
	}

	opts := geojson2image.ImageOptions{
		Width:     *width,
		Height:    *height,
		SeamAware: *seamAware,
	}
	if *bbox != "" {
		box, err := geojson2image.ParseBBox(*bbox)
		if err != nil {
			level.Error(logger).Log("msg", "invalid bbox", "error", err, "bbox", *bbox)

			exitcode = 2

			return
		}
		opts.BoundingBox = box
	}

	img := geojson2image.NewImage(node, logger, opts)
	if err := img.DrawTo(out); err != nil {
		level.Error(logger).Log("msg", "can't render", "error", err)

		exitcode = 1

		return
	}

	level.Info(logger).Log("msg", "image written", "path", *outPath, "width", *width, "height", *height)
}
