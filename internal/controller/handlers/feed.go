package handlers

import (
	"context"
	"net/http"

	"dtapi/internal/store"
	"dtapi/pkg/api"
)

// DistanceFeed handles POST /jobs/distance-feed.
// The distance update and the job-detail update are independent; either may
// be skipped, and the response is the same.
func (h *Handlers) DistanceFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := decodePayload(r)

	if err := h.updateDistance(ctx, data); err != nil {
		h.fail(w, r, OpDistanceFeed, err)
		return
	}
	if err := h.updateJobDetails(ctx, data); err != nil {
		h.fail(w, r, OpDistanceFeed, err)
		return
	}

	h.respondJson(w, http.StatusOK, api.MessageResponse{Message: "Record updated!"})
}

// updateDistance runs only when both distance and jobid are non-empty.
func (h *Handlers) updateDistance(ctx context.Context, data store.Payload) error {
	if data.Empty("distance") || data.Empty("jobid") {
		return nil
	}
	jobID, ok := data.Int64("jobid")
	if !ok {
		return nil
	}
	return h.store.UpdateDistance(ctx, jobID, data.String("distance"), data.OptionalString("time"))
}

// updateJobDetails writes every admin field, so a flag missing from the feed
// is reset to "no".
func (h *Handlers) updateJobDetails(ctx context.Context, data store.Payload) error {
	update := store.JobDetailsUpdate{
		AdminComments:   data.StringOr("admincomment", ""),
		Flagged:         feedFlag(data, "flagged"),
		ManuallyHandled: feedFlag(data, "manually_handled"),
		ByAdmin:         feedFlag(data, "by_admin"),
		SessionTime:     data.StringOr("session_time", ""),
	}

	if data.Empty("jobid") {
		return nil
	}
	jobID, ok := data.Int64("jobid")
	if !ok {
		return nil
	}
	return h.store.UpdateJobDetails(ctx, jobID, update)
}

// feedFlag maps the literal string "true" to "yes" and anything else,
// including a JSON boolean, to "no".
func feedFlag(data store.Payload, key string) string {
	if v, ok := data[key].(string); ok && v == "true" {
		return "yes"
	}
	return "no"
}
