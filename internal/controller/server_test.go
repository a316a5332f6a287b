package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dtapi/internal/auth"
	"dtapi/internal/config"
	"dtapi/internal/controller/middleware"
	"dtapi/internal/store"
)

const testToken = "token-abc"

type fakeStore struct {
	user      *store.User
	feedCalls int
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	return f.user, nil
}

func (f *fakeStore) GetUserByTokenHash(ctx context.Context, hash string) (*store.User, error) {
	if f.user == nil || hash != auth.HashKey(testToken) {
		return nil, store.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) GetUsersJobs(ctx context.Context, userID int64) (*store.UsersJobs, error) {
	return &store.UsersJobs{EmergencyJobs: []store.Job{}, NormalJobs: []store.Job{}, UserType: "customer"}, nil
}

func (f *fakeStore) GetAll(ctx context.Context, filter store.JobFilter) (*store.JobPage, error) {
	return &store.JobPage{Data: []store.Job{}, Page: filter.Page, PerPage: filter.PerPage}, nil
}

func (f *fakeStore) FindWithRelation(ctx context.Context, id int64, relation string) (*store.Job, error) {
	if id != 11 {
		return nil, store.ErrNotFound
	}
	return &store.Job{ID: 11}, nil
}

func (f *fakeStore) Store(ctx context.Context, user *store.User, data store.Payload) (*store.StoreResult, error) {
	return &store.StoreResult{Status: store.ResultSuccess, ID: 12}, nil
}

func (f *fakeStore) UpdateJob(ctx context.Context, id int64, data store.Payload, user *store.User) (*store.UpdateResult, error) {
	return &store.UpdateResult{Status: "Updated", Changes: []store.FieldChange{}}, nil
}

func (f *fakeStore) StoreJobEmail(ctx context.Context, data store.Payload) (*store.JobEmailResult, error) {
	return &store.JobEmailResult{Status: store.ResultSuccess}, nil
}

func (f *fakeStore) GetUsersJobsHistory(ctx context.Context, userID int64, filter store.JobFilter) (*store.JobHistory, error) {
	return &store.JobHistory{EmergencyJobs: []store.Job{}, NormalJobs: []store.Job{}}, nil
}

func (f *fakeStore) AcceptJob(ctx context.Context, data store.Payload, user *store.User) (*store.AcceptResult, error) {
	return &store.AcceptResult{Status: store.ResultSuccess}, nil
}

func (f *fakeStore) UpdateDistance(ctx context.Context, jobID int64, distance string, time *string) error {
	f.feedCalls++
	return nil
}

func (f *fakeStore) UpdateJobDetails(ctx context.Context, jobID int64, update store.JobDetailsUpdate) error {
	f.feedCalls++
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AdminRoleID:      "3",
		SuperAdminRoleID: "4",
		RateLimit:        100,
		RateLimitBurst:   100,
	}
}

func do(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRoutes(t *testing.T) {
	fs := &fakeStore{user: &store.User{ID: 1, UserType: "3"}}
	h := NewHandler(fs, testConfig(), nil)

	tests := []struct {
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/jobs", "", http.StatusOK},
		{http.MethodGet, "/jobs?user_id=7", "", http.StatusOK},
		{http.MethodPost, "/jobs", `{"from_language_id": 1}`, http.StatusCreated},
		{http.MethodGet, "/jobs/11", "", http.StatusOK},
		{http.MethodGet, "/jobs/12", "", http.StatusNotFound},
		{http.MethodPut, "/jobs/11", `{"status": "assigned"}`, http.StatusOK},
		{http.MethodPatch, "/jobs/11", `{"status": "assigned"}`, http.StatusOK},
		{http.MethodPost, "/jobs/email", `{"user_email_job_id": 11}`, http.StatusOK},
		{http.MethodGet, "/jobs/history", "", http.StatusBadRequest},
		{http.MethodGet, "/jobs/history?user_id=7", "", http.StatusOK},
		{http.MethodPost, "/jobs/accept", `{"job_id": 11}`, http.StatusOK},
		{http.MethodPost, "/jobs/distance-feed", `{"jobid": 11, "distance": 3}`, http.StatusOK},
		{http.MethodDelete, "/jobs/11", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.target, tt.body, testToken)
			if rr.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if rr.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("expected a request ID header")
			}
		})
	}
}

func TestRoutes_RequireToken(t *testing.T) {
	h := NewHandler(&fakeStore{user: &store.User{ID: 1, UserType: "1"}}, testConfig(), nil)

	rr := do(t, h, http.MethodGet, "/jobs?user_id=1", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rr.Code)
	}

	rr = do(t, h, http.MethodGet, "/jobs?user_id=1", "", "wrong-token")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rr.Code)
	}
}

func TestRoutes_ProbesAreOpen(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})
	h := NewHandler(&fakeStore{}, testConfig(), metrics)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rr := do(t, h, http.MethodGet, path, "", "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s: got status %d, want 200", path, rr.Code)
		}
	}
}

func TestRoutes_FeedWithSharedSecret(t *testing.T) {
	cfg := testConfig()
	cfg.FeedSecret = "feed-secret"
	fs := &fakeStore{}
	h := NewHandler(fs, cfg, nil)

	rr := do(t, h, http.MethodPost, "/jobs/distance-feed", `{"jobid": 1, "distance": 5}`, "feed-secret")
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if fs.feedCalls != 2 {
		t.Errorf("got %d feed updates, want 2", fs.feedCalls)
	}

	rr = do(t, h, http.MethodPost, "/jobs/distance-feed", `{"jobid": 1}`, testToken)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("user token on secret-protected feed: got status %d, want 401", rr.Code)
	}
}

func TestRoutes_NonAdminListIsForbidden(t *testing.T) {
	h := NewHandler(&fakeStore{user: &store.User{ID: 7, UserType: "1"}}, testConfig(), nil)

	rr := do(t, h, http.MethodGet, "/jobs", "", testToken)
	if rr.Code != http.StatusForbidden {
		t.Errorf("got status %d, want 403", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"Unauthorized"}` {
		t.Errorf("got body %s", got)
	}
}
