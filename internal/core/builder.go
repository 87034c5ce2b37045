package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/carbonjar/lms/internal/model"
	"github.com/carbonjar/lms/internal/platform"
)

// Issuing organization printed on every certificate.
const (
	IssuerName = "CarbonJar"
	IssuerRole = "Head of Training"
)

var datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// CertificateInput is the raw issuance request. Dates are strings so that
// callers can pass whatever the client sent; BuildCertificate normalizes them.
type CertificateInput struct {
	UserID          string
	CourseID        string
	HolderName      string
	Title           string
	Description     *string
	CourseStartDate string
	CourseEndDate   string
	IssueDate       *string
	ValidUntil      *string
	PDFURL          *string
}

// ParseDate reads the leading YYYY-MM-DD of s. Anything after the date, such
// as a time-of-day suffix, is ignored.
func ParseDate(s string) (model.Date, error) {
	m := datePrefix.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return model.Date{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidDateFormat)
	}
	t, err := time.Parse(model.DateLayout, m[1])
	if err != nil {
		return model.Date{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidDateFormat)
	}
	return model.Date{Time: t}, nil
}

// NormalizeDate converts the date-like values non-HTTP callers carry into a
// calendar date.
func NormalizeDate(v any) (model.Date, error) {
	switch d := v.(type) {
	case string:
		return ParseDate(d)
	case *string:
		if d == nil {
			return model.Date{}, ErrInvalidDateFormat
		}
		return ParseDate(*d)
	case time.Time:
		if d.IsZero() {
			return model.Date{}, ErrInvalidDateFormat
		}
		return model.NewDate(d.UTC()), nil
	case *time.Time:
		if d == nil || d.IsZero() {
			return model.Date{}, ErrInvalidDateFormat
		}
		return model.NewDate(d.UTC()), nil
	case model.Date:
		if d.IsZero() {
			return model.Date{}, ErrInvalidDateFormat
		}
		return d, nil
	default:
		return model.Date{}, fmt.Errorf("normalize %T: %w", v, ErrInvalidDateFormat)
	}
}

// BuildCertificate validates in and returns a complete, unsaved certificate
// with a fresh code, slug and hash. It never returns a partial record.
func BuildCertificate(in CertificateInput, now time.Time) (*model.Certificate, error) {
	required := []struct {
		field string
		value string
	}{
		{"user_id", in.UserID},
		{"course_id", in.CourseID},
		{"holder_name", in.HolderName},
		{"title", in.Title},
		{"course_start_date", in.CourseStartDate},
		{"course_end_date", in.CourseEndDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, missingField(r.field)
		}
	}

	start, err := ParseDate(in.CourseStartDate)
	if err != nil {
		return nil, invalidDate("course_start_date")
	}
	end, err := ParseDate(in.CourseEndDate)
	if err != nil {
		return nil, invalidDate("course_end_date")
	}

	var validUntil *model.Date
	if in.ValidUntil != nil && strings.TrimSpace(*in.ValidUntil) != "" {
		d, err := ParseDate(*in.ValidUntil)
		if err != nil {
			return nil, invalidDate("valid_until")
		}
		validUntil = &d
	}

	holder := strings.TrimSpace(in.HolderName)
	title := strings.TrimSpace(in.Title)

	return &model.Certificate{
		ID:              platform.NewID(),
		UserID:          in.UserID,
		CourseID:        in.CourseID,
		HolderName:      holder,
		Title:           title,
		Description:     trimmedOrNil(in.Description),
		IssuerName:      IssuerName,
		IssuerRole:      IssuerRole,
		CourseStartDate: start,
		CourseEndDate:   end,
		IssueDate:       parseIssueDate(in.IssueDate, now),
		ValidUntil:      validUntil,
		CertificateCode: platform.NewCode(),
		CertificateSlug: platform.CertificateSlug(holder, title),
		CertificateHash: platform.NewID(),
		PDFURL:          trimmedOrNil(in.PDFURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// parseIssueDate accepts an RFC 3339 timestamp or a date prefix and falls
// back to now for anything else.
func parseIssueDate(s *string, now time.Time) time.Time {
	if s == nil {
		return now
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return now
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC()
	}
	if d, err := ParseDate(v); err == nil {
		return d.Time
	}
	return now
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
