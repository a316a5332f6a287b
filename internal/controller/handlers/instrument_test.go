package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInstrument_RecoversPanics(t *testing.T) {
	h := New(&mockStore{})

	handler := h.Instrument(OpAcceptJob, func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/jobs/accept", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want 500", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"Failed to accept job"}` {
		t.Errorf("got body %s", got)
	}
}

func TestInstrument_PassesThrough(t *testing.T) {
	h := New(&mockStore{})

	handler := h.Instrument(OpGetJob, func(w http.ResponseWriter, r *http.Request) {
		h.httpError(w, "Job not found", http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/1", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rr.Code)
	}
}

func TestInstrument_PanicAfterWriteKeepsResponse(t *testing.T) {
	h := New(&mockStore{})

	handler := h.Instrument(OpListJobs, func(w http.ResponseWriter, r *http.Request) {
		h.respondJson(w, http.StatusOK, map[string]string{"status": "partial"})
		panic("encoder blew up")
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("got status %d, want the already written 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"status":"partial"}` {
		t.Errorf("expected a single JSON body, got %s", got)
	}
}

func TestStatusRecorder_IgnoresSecondWriteHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}

	rec.Write([]byte("ok"))
	rec.WriteHeader(http.StatusInternalServerError)

	if !rec.wroteHeader || rec.status != http.StatusOK {
		t.Errorf("got wroteHeader=%v status=%d, want true/200", rec.wroteHeader, rec.status)
	}
	if rr.Code != http.StatusOK {
		t.Errorf("got recorded status %d, want 200", rr.Code)
	}
}
