package request

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/carbonjar/lms/internal/core"
	"github.com/carbonjar/lms/internal/model"
	"github.com/carbonjar/lms/internal/platform"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Page is a limit and an opaque cursor.
type Page struct {
	Limit  int
	Cursor string
}

// ParsePage reads limit and cursor. A missing, malformed or non-positive
// limit falls back to DefaultLimit; larger values are clamped to MaxLimit.
// Cursors are certificate IDs, so anything but a UUID is rejected.
func ParsePage(r *http.Request) (Page, error) {
	q := r.URL.Query()
	p := Page{Limit: DefaultLimit, Cursor: strings.TrimSpace(q.Get("cursor"))}

	if p.Cursor != "" && !platform.IsUUID(p.Cursor) {
		return Page{}, fmt.Errorf("invalid cursor %q", p.Cursor)
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		p.Limit = min(limit, MaxLimit)
	}
	return p, nil
}

// ListParams holds pagination and filter parameters for certificate lists.
type ListParams struct {
	Limit  int
	Cursor string
	Filter core.CertificateFilter
}

// ParseListParams extracts list parameters from the query string. status
// accepts active or revoked; expiry is derived per record and is not a
// filter.
func ParseListParams(r *http.Request) (ListParams, error) {
	pg, err := ParsePage(r)
	if err != nil {
		return ListParams{}, err
	}
	q := r.URL.Query()

	params := ListParams{
		Limit:  pg.Limit,
		Cursor: pg.Cursor,
		Filter: core.CertificateFilter{
			UserID:   strings.TrimSpace(q.Get("user_id")),
			CourseID: strings.TrimSpace(q.Get("course_id")),
			Search:   q.Get("search"),
		},
	}

	switch status := q.Get("status"); status {
	case "":
	case model.StatusActive:
		revoked := false
		params.Filter.Revoked = &revoked
	case model.StatusRevoked:
		revoked := true
		params.Filter.Revoked = &revoked
	default:
		return ListParams{}, fmt.Errorf("invalid status %q: want %s or %s", status, model.StatusActive, model.StatusRevoked)
	}

	return params, nil
}
