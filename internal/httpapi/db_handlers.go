package httpapi

import (
	"context"
	"net"
	"net/http"
)

type DBHandler struct {
	Checkpoint func(ctx context.Context) error
}

// CheckpointHandler flushes the WAL on demand. Local callers only; the
// endpoint exists for backup tooling that snapshots the data directory.
func (h DBHandler) CheckpointHandler(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "127.0.0.1" && host != "::1" && host != "localhost" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if h.Checkpoint == nil {
		http.Error(w, "no durable store", http.StatusConflict)
		return
	}
	if err := h.Checkpoint(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
