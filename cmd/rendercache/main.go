package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/namsral/flag"

	"github.com/akhenakh/geojson2image"
	"github.com/akhenakh/geojson2image/loglevel"
	"github.com/akhenakh/geojson2image/server"
	"github.com/akhenakh/geojson2image/storage"
)

const appName = "rendercache"

var (
	version = "no version from LDFLAGS"

	logLevel = flag.String("logLevel", "INFO", "DEBUG|INFO|WARN|ERROR")
	dbPath   = flag.String("dbPath", "render.db", "Rendering cache database path")
	dbType   = flag.String("dbType", storage.BBolt, "Rendering cache database type: bbolt|leveldb|pogreb|badger")

	key = flag.String("key", "", "rendering key to display, decimal")
	out = flag.String("out", "", "write the rendering image of key to this path")

	// computing the key of a request instead
	inPath    = flag.String("in", "", "GeoJSON file, display the key it would be cached under")
	width     = flag.Int("width", 0, "request width")
	height    = flag.Int("height", 0, "request height")
	bbox      = flag.String("bbox", "", "request bbox minLon,maxLon,minLat,maxLat")
	seamAware = flag.Bool("seamAware", false, "request seam aware bounding box")
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

	if *inPath != "" {
		k, err := requestKey()
		if err != nil {
			level.Error(logger).Log("msg", "can't compute key", "error", err, "path", *inPath)

			exitcode = 2

			return
		}
		fmt.Println(k)

		return
	}

	store, clean, err := storage.OpenReadOnly(*dbType, *dbPath, logger)
	if err != nil {
		level.Error(logger).Log("msg", "failed to open storage", "error", err, "db_path", *dbPath)

		exitcode = 1

		return
	}
	defer clean()

	if *key == "" {
		count, err := store.RenderCount()
		if err != nil {
			level.Error(logger).Log("msg", "failed to read storage", "error", err)

			exitcode = 1

			return
		}
		fmt.Printf("Renderings: %d\n", count)

		return
	}

	k, err := strconv.ParseUint(*key, 10, 64)
	if err != nil {
		level.Error(logger).Log("msg", "invalid key", "error", err, "key", *key)

		exitcode = 2

		return
	}

	rs, ok, err := store.LoadRender(k)
	if err != nil {
		level.Error(logger).Log("msg", "failed to read rendering", "error", err, "key", k)

		exitcode = 1

		return
	}
	if !ok {
		level.Warn(logger).Log("msg", "rendering not found", "key", k)

		exitcode = 1

		return
	}

	fmt.Print(rs)

	if *out != "" {
		if err := ioutil.WriteFile(*out, rs.Image, 0644); err != nil {
			level.Error(logger).Log("msg", "can't write image", "error", err, "path", *out)

			exitcode = 1

			return
		}
	}
}

// requestKey returns the key the daemon stores the rendering of -in under
func requestKey() (uint64, error) {
	data, err := ioutil.ReadFile(*inPath)
	if err != nil {
		return 0, err
	}

	req := &server.RenderRequest{
		GeoJSON:   data,
		Width:     *width,
		Height:    *height,
		SeamAware: *seamAware,
	}
	if *bbox != "" {
		box, err := geojson2image.ParseBBox(*bbox)
		if err != nil {
			return 0, err
		}
		req.BBox = box
	}

	return req.Key(), nil
}
