package v1

import (
	"net/http"
	"sync/atomic"
)

// ReadyzHandler returns 200 when the server is ready, 503 otherwise.
//
// Unlike /healthz (liveness), this checks if the server is fully
// initialized: vector store reachable, collections created, and the
// HTTP listener up.
func ReadyzHandler(ready *atomic.Bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready.Load() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("Ready"))
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("Not Ready"))
		}
	}
}
