// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the booking API.
package api

// ErrorResponse is the standard error response format.
// The API only ever fills Error; the message is fixed per operation.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is returned by endpoints that only acknowledge work.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateJobRequest is the request body for booking a new job.
// The server accepts any extra fields and hands them to the store untouched.
type CreateJobRequest struct {
	FromLanguageID       int      `json:"from_language_id,omitempty"`
	Immediate            string   `json:"immediate,omitempty"`
	DueDate              string   `json:"due_date,omitempty"` // m/d/Y
	DueTime              string   `json:"due_time,omitempty"` // H:i
	Duration             int      `json:"duration,omitempty"`
	CustomerPhoneType    string   `json:"customer_phone_type,omitempty"`
	CustomerPhysicalType string   `json:"customer_physical_type,omitempty"`
	JobFor               []string `json:"job_for,omitempty"`
}

// JobEmailRequest is the request body for POST /jobs/email.
type JobEmailRequest struct {
	JobID        int64  `json:"user_email_job_id"`
	UserEmail    string `json:"user_email,omitempty"`
	Reference    string `json:"reference,omitempty"`
	Address      string `json:"address,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Town         string `json:"town,omitempty"`
}

// AcceptJobRequest is the request body for POST /jobs/accept.
type AcceptJobRequest struct {
	JobID int64 `json:"job_id"`
}

// DistanceFeedRequest is the request body for POST /jobs/distance-feed.
// Flag fields are only honoured when they carry the literal string "true".
type DistanceFeedRequest struct {
	JobID           string `json:"jobid,omitempty"`
	Distance        string `json:"distance,omitempty"`
	Time            string `json:"time,omitempty"`
	AdminComment    string `json:"admincomment,omitempty"`
	Flagged         string `json:"flagged,omitempty"`
	ManuallyHandled string `json:"manually_handled,omitempty"`
	ByAdmin         string `json:"by_admin,omitempty"`
	SessionTime     string `json:"session_time,omitempty"`
}

// Job statuses understood by the store.
const (
	StatusPending          = "pending"
	StatusAssigned         = "assigned"
	StatusStarted          = "started"
	StatusCompleted        = "completed"
	StatusWithdrawBefore24 = "withdrawbefore24"
	StatusWithdrawAfter24  = "withdrawafter24"
	StatusTimedOut         = "timedout"
	StatusCancelled        = "cancelled"
)
