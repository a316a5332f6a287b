package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"dtapi/internal/apperr"
	"dtapi/internal/controller/middleware"
	"dtapi/internal/store"
)

// ListJobs handles GET /jobs.
// With user_id it returns that user's open jobs; otherwise administrators
// get the filtered listing of all jobs and everyone else gets 403.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if userID, ok := queryUserID(q); ok {
		resp, err := h.store.GetUsersJobs(ctx, userID)
		if err != nil {
			h.fail(w, r, OpListJobs, err)
			return
		}
		h.respondJson(w, http.StatusOK, resp)
		return
	}

	user, _ := middleware.UserFromContext(ctx)
	if !h.isAdminOrSuperAdmin(user) {
		h.fail(w, r, OpListJobs, apperr.Unauthorized("Unauthorized"))
		return
	}

	resp, err := h.store.GetAll(ctx, parseJobFilter(q))
	if err != nil {
		h.fail(w, r, OpListJobs, err)
		return
	}
	h.respondJson(w, http.StatusOK, resp)
}

// GetJob handles GET /jobs/{id}.
// The job comes with its active translator relation and that translator.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	notFound := apperr.NotFound("Job not found")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.fail(w, r, OpGetJob, notFound)
		return
	}

	job, err := h.store.FindWithRelation(r.Context(), id, store.RelTranslatorUser)
	if errors.Is(err, store.ErrNotFound) || (err == nil && job == nil) {
		h.fail(w, r, OpGetJob, notFound)
		return
	}
	if err != nil {
		h.fail(w, r, OpGetJob, err)
		return
	}

	h.respondJson(w, http.StatusOK, job)
}

// CreateJob handles POST /jobs.
// Store-level validation failures are part of the 201 body, not errors.
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := decodePayload(r)

	user, _ := middleware.UserFromContext(ctx)
	resp, err := h.store.Store(ctx, user, data)
	if err != nil {
		h.fail(w, r, OpCreateJob, err)
		return
	}
	h.respondJson(w, http.StatusCreated, resp)
}

// UpdateJob handles PUT and PATCH /jobs/{id}.
func (h *Handlers) UpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.fail(w, r, OpUpdateJob, apperr.Unexpected(err, "invalid job id"))
		return
	}

	data := decodePayload(r)

	user, _ := middleware.UserFromContext(ctx)
	resp, err := h.store.UpdateJob(ctx, id, data.Without("_token", "submit"), user)
	if err != nil {
		h.fail(w, r, OpUpdateJob, err)
		return
	}
	h.respondJson(w, http.StatusOK, resp)
}

// SendImmediateJobEmail handles POST /jobs/email.
func (h *Handlers) SendImmediateJobEmail(w http.ResponseWriter, r *http.Request) {
	data := decodePayload(r)

	resp, err := h.store.StoreJobEmail(r.Context(), data)
	if err != nil {
		h.fail(w, r, OpJobEmail, err)
		return
	}
	h.respondJson(w, http.StatusOK, resp)
}

// GetJobHistory handles GET /jobs/history.
func (h *Handlers) GetJobHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID, ok := queryUserID(q)
	if !ok {
		h.fail(w, r, OpJobHistory, apperr.Validation("User ID required"))
		return
	}

	resp, err := h.store.GetUsersJobsHistory(r.Context(), userID, parseJobFilter(q))
	if err != nil {
		h.fail(w, r, OpJobHistory, err)
		return
	}
	h.respondJson(w, http.StatusOK, resp)
}

// AcceptJob handles POST /jobs/accept.
func (h *Handlers) AcceptJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := decodePayload(r)

	user, _ := middleware.UserFromContext(ctx)
	resp, err := h.store.AcceptJob(ctx, data, user)
	if err != nil {
		h.fail(w, r, OpAcceptJob, err)
		return
	}
	h.respondJson(w, http.StatusOK, resp)
}
