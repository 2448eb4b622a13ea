package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	stdlog "log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/namsral/flag"
	"github.com/rcrowley/go-metrics"
	"golang.org/x/net/context/ctxhttp"

	"github.com/akhenakh/geojson2image/loglevel"
)

const appName = "renderloadtester"

var (
	logLevel     = flag.String("logLevel", "INFO", "DEBUG|INFO|WARN|ERROR")
	testDuration = flag.Duration("testDuration", 0, "performs the test for duration, 0 = infinite")
	apiURL       = flag.String("apiURL", "http://localhost:9201", "geojson2imaged HTTP API URL")
	inPath       = flag.String("in", "", "GeoJSON file to post")
	workers      = flag.Int("workers", 4, "concurrent requests")
	minSize      = flag.Int("minSize", 64, "smallest random image side")
	maxSize      = flag.Int("maxSize", 512, "largest random image side, equal to minSize to hit the caches")
	timeout      = flag.Duration("timeout", 5*time.Second, "request timeout")
)

func main() {
	flag.Parse()

	exitcode := 0
	defer func() { os.Exit(exitcode) }()

	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger, "caller", log.Caller(5), "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "app", appName)
	logger = loglevel.NewLevelFilterFromString(logger, *logLevel)

	stdlog.SetOutput(log.NewStdlibAdapter(logger))

	if *inPath == "" || *maxSize < *minSize || *minSize <= 0 {
		level.Error(logger).Log("msg", "need -in and 0 < minSize <= maxSize")

		exitcode = 2

		return
	}

	body, err := ioutil.ReadFile(*inPath)
	if err != nil {
		level.Error(logger).Log("msg", "can't read GeoJSON", "error", err, "path", *inPath)

		exitcode = 1

		return
	}

	rand.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *testDuration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *testDuration)
		defer cancel()
	}

	// catch termination
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(interrupt)

	client := &http.Client{}
	tm := metrics.NewTimer()
	errCount := metrics.NewCounter()

	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for ctx.Err() == nil {
				w := *minSize + rand.Intn(*maxSize-*minSize+1) // nolint: gosec
				h := *minSize + rand.Intn(*maxSize-*minSize+1) // nolint: gosec

				t := time.Now()
				n, err := render(ctx, client, body, w, h)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					errCount.Inc(1)
					level.Error(logger).Log("msg", "error with request", "error", err)

					continue
				}

				tm.UpdateSince(t)

				level.Debug(logger).Log("msg", "rendered", "width", w, "height", h, "size", n)
			}
		}()
	}

	select {
	case <-interrupt:
		cancel()
	case <-ctx.Done():
	}

	wg.Wait()

	msg := fmt.Sprintf("count %d errors %d rate mean %.0f/s rate1 %.0f/s 99p %.0f",
		tm.Count(), errCount.Count(), tm.RateMean(), tm.Rate1(), tm.Percentile(99.0))
	level.Info(logger).Log("msg", msg)
}

// render posts body and returns the image size
func render(ctx context.Context, client *http.Client, body []byte, w, h int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/render?width=%d&height=%d", *apiURL, w, h)
	resp, err := ctxhttp.Post(ctx, client, url, "application/geo+json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	return io.Copy(ioutil.Discard, resp.Body)
}
