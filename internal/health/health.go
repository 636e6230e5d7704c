// Package health serves GET /health, reporting whether the dictionary can
// be read.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker reports readiness; *pinyin.Converter satisfies it.
type Checker interface {
	Ready(ctx context.Context) error
}

type response struct {
	Status     string `json:"status"`
	Dictionary string `json:"dictionary"`
	Error      string `json:"error,omitempty"`
}

// Handler answers 200 when checker is ready and 503 otherwise.
func Handler(checker Checker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := response{Status: "ok", Dictionary: "ready"}
		status := http.StatusOK
		if err := checker.Ready(ctx); err != nil {
			resp = response{Status: "unavailable", Dictionary: "unavailable", Error: err.Error()}
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	})
}
