package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/mohammed-shakir/digipin/pkg/digipin"
)

type BenchmarkResult struct {
	Points        int
	Workers       int
	TotalDuration time.Duration
	AvgDuration   time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	OpsPerSec     float64
	// MaxError is the largest per-axis distance in degrees between a point
	// and the decoded center of its code.
	MaxError float64
}

func (r BenchmarkResult) Print(w io.Writer) {
	fmt.Fprintln(w, "\n=== Benchmark Results ===")
	fmt.Fprintf(w, "Round trips: %d\n", r.Points)
	fmt.Fprintf(w, "Workers: %d\n", r.Workers)
	fmt.Fprintf(w, "Total time: %v\n", r.TotalDuration)
	fmt.Fprintf(w, "Ops/second: %.0f\n", r.OpsPerSec)
	fmt.Fprintf(w, "Average latency: %v\n", r.AvgDuration)
	fmt.Fprintf(w, "Min latency: %v\n", r.MinDuration)
	fmt.Fprintf(w, "Max latency: %v\n", r.MaxDuration)
	fmt.Fprintf(w, "Worst round-trip error: %.8f deg\n", r.MaxError)
}

type workerStats struct {
	total, min, max time.Duration
	maxErr          float64
	err             error
}

// runBench encodes and decodes n random points inside the bounding box,
// split across workers. Each worker draws from its own seeded source.
func runBench(n, workers int, seed int64) (BenchmarkResult, error) {
	if workers > n {
		workers = n
	}
	bb := digipin.Region()
	stats := make([]workerStats, workers)
	per := n / workers

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		count := per
		if w == workers-1 {
			count = n - per*(workers-1)
		}
		wg.Add(1)
		go func(w, count int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed + int64(w)))
			s := workerStats{min: time.Hour}
			for i := 0; i < count; i++ {
				lat := bb.MinLat + r.Float64()*(bb.MaxLat-bb.MinLat)
				lon := bb.MinLon + r.Float64()*(bb.MaxLon-bb.MinLon)

				t0 := time.Now()
				code, err := digipin.Encode(lat, lon)
				if err != nil {
					s.err = fmt.Errorf("encode (%f, %f): %w", lat, lon, err)
					break
				}
				ll, err := digipin.Decode(code)
				d := time.Since(t0)
				if err != nil {
					s.err = fmt.Errorf("decode %s: %w", code, err)
					break
				}

				s.total += d
				s.min = min(s.min, d)
				s.max = max(s.max, d)
				s.maxErr = max(s.maxErr, math.Abs(ll.Latitude-lat), math.Abs(ll.Longitude-lon))
			}
			stats[w] = s
		}(w, count)
	}
	wg.Wait()
	elapsed := time.Since(start)

	res := BenchmarkResult{Points: n, Workers: workers, TotalDuration: elapsed, MinDuration: time.Hour}
	var sum time.Duration
	for _, s := range stats {
		if s.err != nil {
			return BenchmarkResult{}, s.err
		}
		sum += s.total
		res.MinDuration = min(res.MinDuration, s.min)
		res.MaxDuration = max(res.MaxDuration, s.max)
		res.MaxError = max(res.MaxError, s.maxErr)
	}
	res.AvgDuration = sum / time.Duration(n)
	res.OpsPerSec = float64(n) / elapsed.Seconds()
	return res, nil
}
