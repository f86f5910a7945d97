package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("metrics scrape: %v", err)
	}
	t.Cleanup(func() {
		if cerr := resp.Body.Close(); cerr != nil {
			t.Fatalf("close body: %v", cerr)
		}
	})
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	return string(b)
}

func TestMetrics_RegistrationAndLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	Init(reg, true)
	Init(reg, true) // second registration is tolerated

	ExposeBuildInfo("test")
	ObserveHTTP("GET", "/encode", 200, 0.001)
	ObserveOp("decode", "invalid_symbol")
	ObserveGridCells(12)
	ObserveCacheOp("mget", nil, 0.002)
	ObserveCacheOp("set", errors.New("boom"), 0.002)
	IncOverlayCache("memory", "hit")

	out := scrape(t, reg)
	mustContain := []string{
		`digipin_build_info{version="test"} 1`,
		`http_requests_total{method="GET",route="/encode",status="200"} `,
		`http_request_duration_seconds_bucket`,
		`digipin_ops_total{op="decode",outcome="invalid_symbol"} `,
		`grid_cells_returned_count `,
		`cache_op_total{op="mget",result="ok"} `,
		`cache_op_total{op="set",result="error"} `,
		`cache_operation_duration_seconds_bucket{op="mget"`,
		`overlay_cache_results_total{outcome="hit",tier="memory"} `,
	}
	for _, s := range mustContain {
		if !strings.Contains(out, s) {
			t.Fatalf("expected metrics to contain %q;\n---\n%s", s, out)
		}
	}
}

func TestMetrics_DisabledIsNoop(t *testing.T) {
	reg := prometheus.NewRegistry()
	Init(reg, true)
	Init(nil, false)
	t.Cleanup(func() { Init(reg, true) })

	ObserveOp("encode", "while_disabled")

	Init(reg, true)
	out := scrape(t, reg)
	if strings.Contains(out, "while_disabled") {
		t.Fatalf("observation recorded while disabled:\n%s", out)
	}
}

func TestMetrics_ObserveConcurrentWithInit(t *testing.T) {
	reg := prometheus.NewRegistry()
	Init(reg, true)
	t.Cleanup(func() { Init(reg, true) })

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				ObserveOp("encode", "ok")
				ObserveHTTP("GET", "/encode", 200, 0.001)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		Init(reg, i%2 == 0)
	}
	wg.Wait()

	Init(reg, true)
	if !isEnabled() {
		t.Fatal("expected observations enabled after Init(reg, true)")
	}
}
