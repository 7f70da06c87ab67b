package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"haigoo-engine/internal/catalog"
	"haigoo-engine/internal/domain"
	"haigoo-engine/internal/query"
)

type stubEngine struct {
	lastReq  query.FilterRequest
	lastPage int
	lastSize int
	lastSort string
	lastPriv bool

	ingested []domain.RawPosting
	mode     catalog.IngestMode
}

func (s *stubEngine) Query(_ context.Context, req query.FilterRequest, page, pageSize int, sort string, privileged bool) (catalog.QueryResult, error) {
	s.lastReq, s.lastPage, s.lastSize, s.lastSort, s.lastPriv = req, page, pageSize, sort, privileged
	return catalog.QueryResult{Items: []domain.JobPosting{}, Total: 0}, nil
}

func (s *stubEngine) Ingest(_ context.Context, raws []domain.RawPosting, opt catalog.IngestOptions) (int, int, error) {
	s.ingested = raws
	s.mode = opt.Mode
	return len(raws), 0, nil
}

func (s *stubEngine) Cleanup(context.Context, int, []string) (int, error) { return 3, nil }

func (s *stubEngine) Translate(context.Context, string, map[string]string) (bool, error) {
	return true, nil
}

func testDeps(e Engine) Deps {
	return Deps{
		Engine: e,
		Authorize: func(r *http.Request) bool {
			return r.Header.Get("X-Member-Token") == "secret"
		},
	}
}

func TestListParsesQueryParams(t *testing.T) {
	eng := &stubEngine{}
	mux := NewMux(testDeps(eng))

	r := httptest.NewRequest(http.MethodGet,
		"/jobs?q=backend&region=domestic,overseas&jobType=full-time&remote=true&page=2&pageSize=50&sort=recent", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if eng.lastReq.Search != "backend" {
		t.Errorf("search = %q", eng.lastReq.Search)
	}
	if len(eng.lastReq.Regions) != 2 || eng.lastReq.Regions[0] != "domestic" {
		t.Errorf("regions = %v", eng.lastReq.Regions)
	}
	if eng.lastReq.Remote == nil || !*eng.lastReq.Remote {
		t.Error("remote flag not parsed")
	}
	if eng.lastPage != 2 || eng.lastSize != 50 || eng.lastSort != "recent" {
		t.Errorf("paging = %d/%d sort=%q", eng.lastPage, eng.lastSize, eng.lastSort)
	}
	if eng.lastPriv {
		t.Error("anonymous request marked privileged")
	}
}

func TestListPrivilegedViaToken(t *testing.T) {
	eng := &stubEngine{}
	mux := NewMux(testDeps(eng))

	r := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	r.Header.Set("X-Member-Token", "secret")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if !eng.lastPriv {
		t.Error("valid token not recognized")
	}
}

func TestIngestEndpoint(t *testing.T) {
	eng := &stubEngine{}
	mux := NewMux(testDeps(eng))

	body := `{"mode":"upsert","postings":[{"title":"Engineer","company":"Acme","url":"https://acme.example/1"}]}`
	r := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if eng.mode != catalog.ModeUpsert {
		t.Errorf("mode = %q", eng.mode)
	}
	if len(eng.ingested) != 1 || eng.ingested[0].Title != "Engineer" {
		t.Errorf("postings = %+v", eng.ingested)
	}

	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["accepted"] != 1 {
		t.Errorf("accepted = %d", resp["accepted"])
	}
}

func TestIngestRejectsUnknownMode(t *testing.T) {
	mux := NewMux(testDeps(&stubEngine{}))
	r := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"mode":"merge"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCleanupEndpoint(t *testing.T) {
	mux := NewMux(testDeps(&stubEngine{}))
	r := httptest.NewRequest(http.MethodPost, "/cleanup", strings.NewReader(`{"days":14}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["deleted"] != 3 {
		t.Errorf("deleted = %d", resp["deleted"])
	}
}

func TestTranslatePath(t *testing.T) {
	mux := NewMux(testDeps(&stubEngine{}))

	r := httptest.NewRequest(http.MethodPost, "/jobs/abc123/translate",
		strings.NewReader(`{"translations":{"description":"翻译"}}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	r = httptest.NewRequest(http.MethodPost, "/jobs/abc123/other", strings.NewReader(`{}`))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := NewMux(testDeps(&stubEngine{}))
	r := httptest.NewRequest(http.MethodDelete, "/jobs", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
