package httpapi

import (
	"net/http"
	"sync/atomic"
)

type HealthHandler struct {
	IngestStatus *atomic.Value // stores httpapi.IngestStatus
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"ok": true}
	if h.IngestStatus != nil {
		if st, ok := h.IngestStatus.Load().(IngestStatus); ok {
			body["ingest"] = st
		}
	}
	writeJSON(w, body)
}
