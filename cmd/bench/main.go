// Command bench runs a synthetic workload against the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/lrucache/cache"
	pmet "github.com/IvanBrykalov/lrucache/metrics/prom"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "bench",
		Usage: "drive a Zipf read/write mix against the LRU cache",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cap", Value: 100_000, Usage: "cache capacity (entries)"},
			&cli.IntFlag{Name: "shards", Value: 0, Usage: "0 = single LRU, -1 = auto-sharded, N = sharded with N partitions"},
			&cli.IntFlag{Name: "workers", Value: 2 * runtime.GOMAXPROCS(0), Usage: "number of worker goroutines"},
			&cli.DurationFlag{Name: "duration", Value: 10 * time.Second, Usage: "benchmark duration"},
			&cli.IntFlag{Name: "reads", Value: 80, Usage: "read percentage [0..100]"},
			&cli.IntFlag{Name: "keys", Value: 1_000_000, Usage: "keyspace size"},
			&cli.Float64Flag{Name: "zipf-s", Value: 1.1, Usage: "Zipf s > 1 (skew)"},
			&cli.Float64Flag{Name: "zipf-v", Value: 1.0, Usage: "Zipf v >= 1"},
			&cli.Int64Flag{Name: "seed", Value: time.Now().UnixNano(), Usage: "random seed"},
			&cli.IntFlag{Name: "preload", Value: 0, Usage: "preload entries (0 = cap/2)"},
			&cli.StringFlag{Name: "pprof", Usage: "serve pprof at addr (e.g. :6060); empty = disabled"},
			&cli.StringFlag{Name: "http", Value: ":8080", Usage: "serve Prometheus metrics at addr; empty = disabled"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "logrus level (debug, info, warn, error)"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type config struct {
	capacity int
	shards   int
	workers  int
	duration time.Duration
	readPct  int
	keys     int
	zipfS    float64
	zipfV    float64
	seed     int64
	preload  int
}

func parseConfig(c *cli.Context) (config, error) {
	cfg := config{
		capacity: c.Int("cap"),
		shards:   c.Int("shards"),
		workers:  c.Int("workers"),
		duration: c.Duration("duration"),
		readPct:  c.Int("reads"),
		keys:     c.Int("keys"),
		zipfS:    c.Float64("zipf-s"),
		zipfV:    c.Float64("zipf-v"),
		seed:     c.Int64("seed"),
		preload:  c.Int("preload"),
	}
	switch {
	case cfg.readPct < 0 || cfg.readPct > 100:
		return cfg, fmt.Errorf("reads must be in [0..100], got %d", cfg.readPct)
	case cfg.keys < 1:
		return cfg, fmt.Errorf("keys must be >= 1, got %d", cfg.keys)
	case cfg.zipfS <= 1 || cfg.zipfV < 1:
		return cfg, fmt.Errorf("zipf requires s > 1 and v >= 1, got s=%v v=%v", cfg.zipfS, cfg.zipfV)
	}
	if cfg.workers <= 0 {
		cfg.workers = 1
	}
	if cfg.preload == 0 {
		cfg.preload = cfg.capacity / 2
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	lvl, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	cfg, err := parseConfig(c)
	if err != nil {
		return err
	}

	// ---- pprof server (on DefaultServeMux) ----
	if addr := c.String("pprof"); addr != "" {
		go func() {
			log.WithField("addr", addr).Info("pprof: serving")
			log.WithError(http.ListenAndServe(addr, nil)).Warn("pprof server stopped")
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	opt := cache.Options[string]{
		Capacity: cfg.capacity,
		Metrics:  pmet.New(nil, "lru", "bench", nil),
		Logger:   log.StandardLogger(),
	}
	if addr := c.String("http"); addr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.WithField("addr", addr).Info("metrics: serving")
			log.WithError(http.ListenAndServe(addr, nil)).Warn("metrics server stopped")
		}()
	}

	// ---- Build cache ----
	store, err := newStore(opt, cfg.shards)
	if err != nil {
		return err
	}

	// ---- Preload to get a realistic hit-rate ----
	for i := 0; i < cfg.preload; i++ {
		store.Add(i, "v"+strconv.Itoa(i))
	}

	res := generate(c.Context, store, cfg)

	hitRate := 0.0
	if res.reads > 0 {
		hitRate = float64(res.hits) / float64(res.reads) * 100
	}
	st := store.Stats()
	log.WithFields(log.Fields{
		"cap":      cfg.capacity,
		"shards":   cfg.shards,
		"workers":  cfg.workers,
		"keys":     cfg.keys,
		"seed":     cfg.seed,
		"elapsed":  res.elapsed,
		"ops":      res.ops,
		"ops_sec":  fmt.Sprintf("%.0f", float64(res.ops)/res.elapsed.Seconds()),
		"reads":    res.reads,
		"writes":   res.writes,
		"hit_rate": fmt.Sprintf("%.2f%%", hitRate),
		"evicted":  st.Evictions,
		"len":      st.Len,
	}).Info("bench finished")
	return nil
}

// newStore builds a single LRU for shards == 0 and a Sharded cache otherwise.
func newStore(opt cache.Options[string], shards int) (cache.Store[string], error) {
	if shards == 0 {
		c, err := cache.NewWithOptions(opt)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	if shards > 0 {
		opt.Shards = shards
	}
	s, err := cache.NewSharded(opt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type result struct {
	ops, reads, writes, hits uint64
	elapsed                  time.Duration
}

// generate runs cfg.workers goroutines until cfg.duration elapses or ctx is done.
func generate(ctx context.Context, store cache.Store[string], cfg config) result {
	var reads, writes, hits, total atomic.Uint64
	ctx, cancel := context.WithTimeout(ctx, cfg.duration)
	defer cancel()

	keysMax := uint64(cfg.keys - 1)
	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(cfg.workers)
	for w := 0; w < cfg.workers; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(cfg.seed + int64(id)*9973))
			zipf := rand.NewZipf(r, cfg.zipfS, cfg.zipfV, keysMax)

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				total.Add(1)
				k := int(zipf.Uint64())
				if int(r.Int31n(100)) < cfg.readPct {
					reads.Add(1)
					if _, ok := store.Get(k); ok {
						hits.Add(1)
					}
				} else {
					writes.Add(1)
					store.Add(k, "v"+strconv.Itoa(r.Int()))
				}
			}
		}(w)
	}
	wg.Wait()

	return result{
		ops:     total.Load(),
		reads:   reads.Load(),
		writes:  writes.Load(),
		hits:    hits.Load(),
		elapsed: time.Since(start),
	}
}
