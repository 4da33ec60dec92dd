package cluster

import (
	"fmt"
	"net/http"
)

// NewHealthHandler returns a liveness check handler: it only confirms the
// process is up and serving HTTP.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}
}
