package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	cache "github.com/krisalay/sheets-cache"
	"github.com/krisalay/sheets-cache/engine"
	"github.com/krisalay/sheets-cache/expiration"
)

// ================= REMOTE SHEET =================

// SlowSheet stands in for the Sheets API: every fetch costs latency.
type SlowSheet struct {
	rows    [][]string
	latency time.Duration
	fetches atomic.Int64
}

func NewSlowSheet(rows int, latency time.Duration) *SlowSheet {
	grid := [][]string{{"FECHA", "CLIENTE", "CELULAR", "", "CORREO"}}
	for i := 0; i < rows; i++ {
		grid = append(grid, []string{
			"2025-01-15",
			fmt.Sprintf("Cliente %d", i),
			fmt.Sprintf("9%08d", i),
			"",
			fmt.Sprintf("cliente%d@correo.pe", i),
		})
	}
	return &SlowSheet{rows: grid, latency: latency}
}

func (s *SlowSheet) Fetch(ctx context.Context) ([][]string, error) {
	s.fetches.Add(1)
	select {
	case <-time.After(s.latency):
		return s.rows, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()

	// ---------------- Cache Config ----------------
	const (
		rows       = 2000
		latency    = 200 * time.Millisecond
		ttl        = 500 * time.Millisecond
		goroutines = 200
		opsPerG    = 5000
	)

	fmt.Println("\n================ SHEET CACHE BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Sheet Rows    :", humanize.Comma(rows))
	fmt.Println("Fetch Latency :", latency)
	fmt.Println("TTL           :", ttl)
	fmt.Println("Goroutines    :", goroutines)
	fmt.Println("Ops/Goroutine :", humanize.Comma(opsPerG))
	fmt.Println("---------------------------------")

	sheet := NewSlowSheet(rows, latency)

	e := engine.NewCacheEngine(
		&expiration.ExpireAfterWrite{TTL: ttl},
		nil,
		sheet,
		nil,
	)
	c := cache.NewSheetCache(e)

	// ---------------- Load Test ----------------
	// Every goroutine starts on a cold cache: all of them miss at once and
	// must share a single fetch.
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	var empty atomic.Int64
	wg := sync.WaitGroup{}
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerG; j++ {
				if len(c.Records(ctx)) == 0 {
					empty.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := int64(goroutines * opsPerG)

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %s\n", humanize.Comma(totalOps))
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %s ops/sec\n", humanize.Commaf(float64(totalOps)/duration.Seconds()))
	fmt.Printf("Remote Fetches   : %d (at most one per TTL window: %d)\n", sheet.fetches.Load(), int64(duration/ttl)+1)
	fmt.Printf("Empty Responses  : %d\n", empty.Load())
	fmt.Println("=========================================")
}
