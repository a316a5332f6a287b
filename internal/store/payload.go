package store

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Payload is a decoded request body: every field the client sent, untyped.
// Numbers are expected to be decoded as json.Number.
type Payload map[string]any

// Has reports whether key is present with a non-null value.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// Empty reports whether the value under key counts as empty: missing, null,
// "", "0", false, numeric zero, or an empty list or object.
func (p Payload) Empty(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == "" || val == "0"
	case bool:
		return !val
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

// String returns the value under key rendered as a string.
// Missing and null values render as "".
func (p Payload) String(key string) string {
	switch val := p[key].(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "1"
		}
		return ""
	}
	return ""
}

// StringOr returns String(key) when key is set, otherwise def.
func (p Payload) StringOr(key, def string) string {
	if !p.Has(key) {
		return def
	}
	return p.String(key)
}

// OptionalString returns a pointer to String(key), or nil when key is not set.
func (p Payload) OptionalString(key string) *string {
	if !p.Has(key) {
		return nil
	}
	s := p.String(key)
	return &s
}

// Int64 parses the value under key as an integer.
func (p Payload) Int64(key string) (int64, bool) {
	switch val := p[key].(type) {
	case json.Number:
		n, err := val.Int64()
		return n, err == nil
	case float64:
		if val != float64(int64(val)) {
			return 0, false
		}
		return int64(val), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Strings returns the string elements of a list value.
// A scalar value is returned as a single element.
func (p Payload) Strings(key string) []string {
	switch val := p[key].(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	}
	return nil
}

// Without returns a copy of p with the given keys removed.
func (p Payload) Without(keys ...string) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// JobFilter narrows job listings. Zero values mean "no filter".
type JobFilter struct {
	ID            int64
	Lang          []int64
	Status        []string
	CustomerEmail string
	DueFrom       *time.Time
	DueTo         *time.Time
	Page          int
	PerPage       int
}

// DefaultPerPage is the page size used when a filter does not set one.
const DefaultPerPage = 15

// Normalized returns a copy with paging defaults applied.
func (f JobFilter) Normalized() JobFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	return f
}

// Offset returns the row offset of the filter's page.
func (f JobFilter) Offset() int {
	n := f.Normalized()
	return (n.Page - 1) * n.PerPage
}
