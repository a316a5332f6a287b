// Package store contains the database layer for the booking API.
package store

import (
	"encoding/json"
	"time"
)

// RelTranslatorUser is the relation path that loads a job's translator
// relation together with the translator.
const RelTranslatorUser = "translatorJobRel.user"

// User is an account that authenticates against the API.
// UserType holds a role identifier; the role IDs themselves come from config.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	UserType     string    `json:"user_type"`
	ConsumerType string    `json:"consumer_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Job is a booking for an interpreter.
// Flag columns hold "yes" or "no".
type Job struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	FromLanguageID       int       `json:"from_language_id"`
	Immediate            string    `json:"immediate"`
	Due                  time.Time `json:"due"`
	Duration             int       `json:"duration"`
	Status               string    `json:"status"`
	Gender               string    `json:"gender"`
	Certified            string    `json:"certified"`
	JobType              string    `json:"job_type"`
	CustomerPhoneType    string    `json:"customer_phone_type"`
	CustomerPhysicalType string    `json:"customer_physical_type"`
	UserEmail            string    `json:"user_email"`
	Reference            string    `json:"reference"`
	Address              string    `json:"address"`
	Instructions         string    `json:"instructions"`
	Town                 string    `json:"town"`
	AdminComments        string    `json:"admin_comments"`
	Flagged              string    `json:"flagged"`
	ManuallyHandled      string    `json:"manually_handled"`
	ByAdmin              string    `json:"by_admin"`
	SessionTime          string    `json:"session_time"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	TranslatorJobRel *TranslatorJobRel `json:"translator_job_rel,omitempty"`
}

// TranslatorJobRel links a translator to a job they accepted.
type TranslatorJobRel struct {
	ID          int64      `json:"id"`
	JobID       int64      `json:"job_id"`
	UserID      int64      `json:"user_id"`
	CancelAt    *time.Time `json:"cancel_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	User        *User      `json:"user,omitempty"`
}

// Distance holds the travel distance recorded for a job.
type Distance struct {
	JobID    int64   `json:"job_id"`
	Distance string  `json:"distance"`
	Time     *string `json:"time"`
}

// JobDetailsUpdate is the partial update applied by the distance feed.
type JobDetailsUpdate struct {
	AdminComments   string
	Flagged         string
	ManuallyHandled string
	ByAdmin         string
	SessionTime     string
}

// FieldChange records a single column change made by UpdateJob.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// OutboxEmail is a notification waiting to be delivered by a mailer.
type OutboxEmail struct {
	ID        int64           `json:"id"`
	JobID     int64           `json:"job_id"`
	Recipient string          `json:"recipient"`
	Name      string          `json:"name"`
	Subject   string          `json:"subject"`
	Template  string          `json:"template"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// UsersJobs is the response of GetUsersJobs.
type UsersJobs struct {
	EmergencyJobs []Job  `json:"emergencyJobs"`
	NormalJobs    []Job  `json:"normalJobs"`
	UserType      string `json:"usertype"`
}

// JobPage is one page of a filtered job listing.
type JobPage struct {
	Data    []Job `json:"data"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// JobHistory is the response of GetUsersJobsHistory.
type JobHistory struct {
	EmergencyJobs []Job  `json:"emergencyJobs"`
	NormalJobs    []Job  `json:"normalJobs"`
	UserType      string `json:"usertype"`
	NumPages      int    `json:"numpages"`
	PageNum       int    `json:"pagenum"`
}

// Result statuses shared by the store responses.
const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// StoreResult is the outcome of booking a job.
// A failed validation is reported here rather than as an error.
type StoreResult struct {
	Status    string   `json:"status"`
	ID        int64    `json:"id,omitempty"`
	Immediate string   `json:"immediate,omitempty"`
	JobFor    []string `json:"job_for,omitempty"`
	Message   string   `json:"message,omitempty"`
	FieldName string   `json:"field_name,omitempty"`
}

// UpdateResult is the outcome of UpdateJob.
type UpdateResult struct {
	Status  string        `json:"status"`
	Changes []FieldChange `json:"changes"`
}

// JobEmailResult is the outcome of StoreJobEmail.
type JobEmailResult struct {
	Type   string `json:"type"`
	Job    *Job   `json:"job"`
	Status string `json:"status"`
}

// AcceptResult is the outcome of AcceptJob.
type AcceptResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Job     *Job   `json:"job,omitempty"`
}
