package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"haigoo-engine/internal/catalog"
	"haigoo-engine/internal/domain"
	"haigoo-engine/internal/events"
	"haigoo-engine/internal/query"
	"haigoo-engine/internal/store"
)

type JobsHandler struct {
	Deps Deps
}

// List serves GET /jobs. Filters arrive as query params; multi-value
// params accept both repetition (?region=a&region=b) and comma lists.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := query.FilterRequest{
		Search:      strings.TrimSpace(q.Get("q")),
		Categories:  multiParam(q["category"]),
		Industries:  multiParam(q["industry"]),
		JobTypes:    multiParam(q["jobType"]),
		Locations:   multiParam(q["location"]),
		Regions:     multiParam(q["region"]),
		Sources:     multiParam(q["source"]),
		SourceTypes: multiParam(q["sourceType"]),
		Remote:      boolParam(q.Get("remote")),
		Trusted:     boolParam(q.Get("trusted")),
		Featured:    boolParam(q.Get("featured")),
		CanRefer:    boolParam(q.Get("canRefer")),
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	sort := q.Get("sort")

	res, err := h.Deps.Engine.Query(r.Context(), req, page, pageSize, sort, h.Deps.privileged(r))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		WriteError(w, r, status, "query_failed", err.Error())
		return
	}
	writeJSON(w, res)
}

type ingestReq struct {
	Postings        []domain.RawPosting `json:"postings"`
	Mode            string              `json:"mode"`
	BypassRetention bool                `json:"bypassRetention"`
}

// Ingest serves POST /ingest. Mode defaults to replace, matching the
// periodic full-feed refresh; upsert is for incremental pushes.
func (h JobsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	mode := catalog.ModeReplace
	switch strings.ToLower(strings.TrimSpace(req.Mode)) {
	case "", "replace":
	case "upsert":
		mode = catalog.ModeUpsert
	default:
		WriteError(w, r, http.StatusBadRequest, "invalid_mode", "mode must be replace or upsert")
		return
	}

	h.markRunning()
	accepted, rejected, err := h.Deps.Engine.Ingest(r.Context(), req.Postings, catalog.IngestOptions{
		Mode:            mode,
		BypassRetention: req.BypassRetention,
	})
	h.markDone(accepted, rejected, err)

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		WriteError(w, r, status, "ingest_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"accepted": accepted, "rejected": rejected})
}

type cleanupReq struct {
	Days    int      `json:"days"`
	Sources []string `json:"sources"`
}

func (h JobsHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	}

	deleted, err := h.Deps.Engine.Cleanup(r.Context(), req.Days, req.Sources)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		WriteError(w, r, status, "cleanup_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"deleted": deleted})
}

type translateReq struct {
	Translations map[string]string `json:"translations"`
}

// Translate serves POST /jobs/{id}/translate.
func (h JobsHandler) Translate(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/jobs/")
	id, ok := strings.CutSuffix(rest, "/translate")
	if !ok || id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown path")
		return
	}

	var req translateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	applied, err := h.Deps.Engine.Translate(r.Context(), id, req.Translations)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		} else if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		WriteError(w, r, status, "translate_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	if h.Deps.Hub != nil && applied {
		h.Deps.Hub.Publish(events.MakeEvent(reqID, "job_translated", 1, map[string]any{"id": id}))
	}
	writeJSON(w, map[string]any{"applied": applied, "id": id})
}

func (h JobsHandler) markRunning() {
	if h.Deps.IngestStatus == nil {
		return
	}
	st, _ := h.Deps.IngestStatus.Load().(IngestStatus)
	h.Deps.IngestStatus.Store(IngestStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		LastOkAt:  st.LastOkAt,
		Running:   true,
	})
}

func (h JobsHandler) markDone(accepted, rejected int, err error) {
	if h.Deps.IngestStatus == nil {
		return
	}
	now := time.Now().Format(time.RFC3339)
	st, _ := h.Deps.IngestStatus.Load().(IngestStatus)
	st.Running = false
	st.LastRunAt = now
	st.LastAccepted = accepted
	st.LastRejected = rejected
	if err != nil {
		st.LastError = err.Error()
	} else {
		st.LastError = ""
		st.LastOkAt = now
	}
	h.Deps.IngestStatus.Store(st)
}

func multiParam(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func boolParam(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		v := true
		return &v
	case "0", "false", "no":
		v := false
		return &v
	}
	return nil
}
