package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dtapi/internal/store"
)

func runFeed(t *testing.T, mock *mockStore, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := New(mock)
	rr := httptest.NewRecorder()
	h.DistanceFeed(rr, httptest.NewRequest(http.MethodPost, "/jobs/distance-feed", strings.NewReader(body)))
	return rr
}

func TestDistanceFeed_DistanceUpdate(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantDistance bool
	}{
		{"jobid and distance", `{"jobid": 1, "distance": 5}`, true},
		{"string values", `{"jobid": "1", "distance": "12 km", "time": "00:20"}`, true},
		{"jobid only", `{"jobid": 1}`, false},
		{"distance only", `{"distance": 5}`, false},
		{"empty distance", `{"jobid": 1, "distance": ""}`, false},
		{"zero distance", `{"jobid": 1, "distance": "0"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockStore{}
			rr := runFeed(t, mock, tt.body)

			if rr.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200", rr.Code)
			}
			if got := strings.TrimSpace(rr.Body.String()); got != `{"message":"Record updated!"}` {
				t.Errorf("got body %s", got)
			}
			if mock.called("UpdateDistance") != tt.wantDistance {
				t.Errorf("UpdateDistance called = %v, want %v", mock.called("UpdateDistance"), tt.wantDistance)
			}
		})
	}
}

func TestDistanceFeed_TimeDefaultsToNull(t *testing.T) {
	mock := &mockStore{}
	runFeed(t, mock, `{"jobid": 1, "distance": 5}`)

	if mock.capturedDistance != "5" {
		t.Errorf("got distance %q, want 5", mock.capturedDistance)
	}
	if mock.capturedTime != nil {
		t.Errorf("expected nil time, got %q", *mock.capturedTime)
	}

	mock = &mockStore{}
	runFeed(t, mock, `{"jobid": 1, "distance": 5, "time": "01:15"}`)
	if mock.capturedTime == nil || *mock.capturedTime != "01:15" {
		t.Errorf("expected time 01:15, got %v", mock.capturedTime)
	}
}

func TestDistanceFeed_JobDetailsFlags(t *testing.T) {
	tests := []struct {
		name string
		body string
		want store.JobDetailsUpdate
	}{
		{
			name: "flagged true, rest absent",
			body: `{"jobid": 1, "flagged": "true"}`,
			want: store.JobDetailsUpdate{Flagged: "yes", ManuallyHandled: "no", ByAdmin: "no"},
		},
		{
			name: "all fields",
			body: `{"jobid": 1, "admincomment": "late", "flagged": "false", "manually_handled": "true", "by_admin": "true", "session_time": "01:30"}`,
			want: store.JobDetailsUpdate{AdminComments: "late", Flagged: "no", ManuallyHandled: "yes", ByAdmin: "yes", SessionTime: "01:30"},
		},
		{
			name: "boolean true is not the literal string",
			body: `{"jobid": 1, "flagged": true, "by_admin": "yes"}`,
			want: store.JobDetailsUpdate{Flagged: "no", ManuallyHandled: "no", ByAdmin: "no"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockStore{}
			rr := runFeed(t, mock, tt.body)

			if rr.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200", rr.Code)
			}
			if !mock.called("UpdateJobDetails") {
				t.Fatal("expected UpdateJobDetails to be called")
			}
			if mock.capturedJobDetails != tt.want {
				t.Errorf("got %+v, want %+v", mock.capturedJobDetails, tt.want)
			}
			if mock.capturedID != 1 {
				t.Errorf("got job id %d, want 1", mock.capturedID)
			}
		})
	}
}

func TestDistanceFeed_NoJobIDSkipsBothUpdates(t *testing.T) {
	for _, body := range []string{`{}`, `{"distance": 5, "flagged": "true"}`, `{"jobid": ""}`, `{"jobid": "abc", "distance": 5}`, ``} {
		mock := &mockStore{}
		rr := runFeed(t, mock, body)

		if rr.Code != http.StatusOK {
			t.Errorf("%s: got status %d, want 200", body, rr.Code)
		}
		if len(mock.calls) != 0 {
			t.Errorf("%s: expected no store calls, got %v", body, mock.calls)
		}
	}
}

func TestDistanceFeed_MalformedBody(t *testing.T) {
	mock := &mockStore{}
	rr := runFeed(t, mock, `{not json`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"message":"Record updated!"}` {
		t.Errorf("got body %s", got)
	}
	if len(mock.calls) != 0 {
		t.Errorf("expected no store calls, got %v", mock.calls)
	}
}

func TestDistanceFeed_StoreFailure(t *testing.T) {
	tests := []struct {
		name string
		mock *mockStore
	}{
		{"distance update fails", &mockStore{distanceErr: errors.New("pq: deadlock")}},
		{"job update fails", &mockStore{jobDetailsErr: errors.New("pq: deadlock")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := runFeed(t, tt.mock, `{"jobid": 1, "distance": 5}`)

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("got status %d, want 500", rr.Code)
			}
			if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"Failed to update records"}` {
				t.Errorf("got body %s", got)
			}
		})
	}
}
