package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dtapi/internal/store"
)

const (
	maxBodyBytes = 1 << 20
	maxPerPage   = 100
	dateLayout   = "2006-01-02"
)

// decodePayload reads a JSON object body. A body that is empty, unreadable
// or not a JSON object is an empty payload, so required fields show up as
// missing to the store rather than failing the request.
func decodePayload(r *http.Request) store.Payload {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return store.Payload{}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data store.Payload
	if err := dec.Decode(&data); err != nil || data == nil {
		return store.Payload{}
	}
	return data
}

// queryUserID returns the user_id query parameter. Like a form field, it
// counts as absent when it is empty or "0". A value that is not an integer
// matches no user and is returned as 0.
func queryUserID(q url.Values) (int64, bool) {
	raw := strings.TrimSpace(q.Get("user_id"))
	if raw == "" || raw == "0" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true
	}
	return id, true
}

// parseJobFilter reads listing filters from the query string.
// Values that do not parse are ignored.
func parseJobFilter(q url.Values) store.JobFilter {
	var f store.JobFilter

	if id, err := strconv.ParseInt(q.Get("id"), 10, 64); err == nil {
		f.ID = id
	}
	for _, v := range splitList(q["lang"]) {
		if lang, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.Lang = append(f.Lang, lang)
		}
	}
	f.Status = splitList(q["status"])
	f.CustomerEmail = strings.TrimSpace(q.Get("customer_email"))

	if t, err := time.Parse(dateLayout, q.Get("due_from")); err == nil {
		f.DueFrom = &t
	}
	if t, err := time.Parse(dateLayout, q.Get("due_to")); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.DueTo = &end
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil {
		f.PerPage = min(perPage, maxPerPage)
	}

	return f.Normalized()
}

// splitList accepts both repeated parameters and comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
