package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker reports whether a backend the service depends on is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// Readiness answers 200 when every checker pings within timeout, 503 otherwise.
// A nil checker is always ready.
func Readiness(c Checker, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type resp struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}
		out := resp{Status: "ready"}
		if c != nil {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			err := c.Ping(ctx)
			cancel()
			if err != nil {
				out = resp{Status: "not_ready", Error: err.Error()}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if out.Status != "ready" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
