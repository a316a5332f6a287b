package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dtapi/pkg/api"
)

// BookingClient handles API calls to the booking API.
// Responses are returned as raw JSON; the commands only pretty-print them.
type BookingClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewBookingClient creates a new client with the given base URL and token.
func NewBookingClient(baseURL, token string) *BookingClient {
	return &BookingClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// ListJobs sends GET /jobs with the given query.
func (c *BookingClient) ListJobs(query url.Values) (json.RawMessage, error) {
	return c.do(http.MethodGet, "/jobs", query, nil)
}

// GetJob sends GET /jobs/{id}.
func (c *BookingClient) GetJob(id int64) (json.RawMessage, error) {
	return c.do(http.MethodGet, fmt.Sprintf("/jobs/%d", id), nil, nil)
}

// CreateJob sends POST /jobs to book a new job.
func (c *BookingClient) CreateJob(req api.CreateJobRequest) (json.RawMessage, error) {
	return c.do(http.MethodPost, "/jobs", nil, req)
}

// UpdateJob sends PUT /jobs/{id} with the changed fields.
func (c *BookingClient) UpdateJob(id int64, fields map[string]string) (json.RawMessage, error) {
	return c.do(http.MethodPut, fmt.Sprintf("/jobs/%d", id), nil, fields)
}

// SendJobEmail sends POST /jobs/email.
func (c *BookingClient) SendJobEmail(req api.JobEmailRequest) (json.RawMessage, error) {
	return c.do(http.MethodPost, "/jobs/email", nil, req)
}

// History sends GET /jobs/history for a user.
func (c *BookingClient) History(userID int64, page int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	return c.do(http.MethodGet, "/jobs/history", query, nil)
}

// AcceptJob sends POST /jobs/accept.
func (c *BookingClient) AcceptJob(jobID int64) (json.RawMessage, error) {
	return c.do(http.MethodPost, "/jobs/accept", nil, api.AcceptJobRequest{JobID: jobID})
}

// DistanceFeed sends POST /jobs/distance-feed.
func (c *BookingClient) DistanceFeed(req api.DistanceFeedRequest) (json.RawMessage, error) {
	return c.do(http.MethodPost, "/jobs/distance-feed", nil, req)
}

func (c *BookingClient) do(method, path string, query url.Values, body any) (json.RawMessage, error) {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	httpReq.Header.Add("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr api.ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("failed to parse response: invalid JSON")
	}
	return json.RawMessage(respBody), nil
}
