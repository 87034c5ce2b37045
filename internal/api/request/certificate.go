package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/carbonjar/lms/internal/core"
)

// CreateCertificate is the issuance request body. Presence and date checks
// happen in core.BuildCertificate so every rejection carries a field name.
type CreateCertificate struct {
	UserID          string  `json:"user_id" validate:"max=128"`
	CourseID        string  `json:"course_id" validate:"max=128"`
	HolderName      string  `json:"holder_name" validate:"max=200"`
	Title           string  `json:"title" validate:"max=200"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	CourseStartDate string  `json:"course_start_date" validate:"max=64"`
	CourseEndDate   string  `json:"course_end_date" validate:"max=64"`
	IssueDate       *string `json:"issue_date" validate:"omitempty,max=64"`
	ValidUntil      *string `json:"valid_until" validate:"omitempty,max=64"`
	PDFURL          *string `json:"pdf_url" validate:"omitempty,max=2048"`
}

func (c CreateCertificate) ToInput() core.CertificateInput {
	return core.CertificateInput{
		UserID:          c.UserID,
		CourseID:        c.CourseID,
		HolderName:      c.HolderName,
		Title:           c.Title,
		Description:     c.Description,
		CourseStartDate: c.CourseStartDate,
		CourseEndDate:   c.CourseEndDate,
		IssueDate:       c.IssueDate,
		ValidUntil:      c.ValidUntil,
		PDFURL:          c.PDFURL,
	}
}

// DecodeCertificatePatch reads a partial update. Only fields present with the
// expected JSON type are applied; anything else in the object is ignored.
// Both snake_case and camelCase keys are accepted.
func DecodeCertificatePatch(r *http.Request) (core.CertificatePatch, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return core.CertificatePatch{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if raw == nil {
		return core.CertificatePatch{}, fmt.Errorf("invalid JSON: body must be an object")
	}

	var p core.CertificatePatch
	if msg, ok := lookup(raw, "is_revoked", "isRevoked"); ok {
		var v bool
		if json.Unmarshal(msg, &v) == nil {
			p.IsRevoked = &v
		}
	}
	if msg, ok := lookup(raw, "revoked_reason", "revokedReason"); ok {
		p.RevokedReason = nullableString(msg)
	}
	if msg, ok := lookup(raw, "pdf_url", "pdfUrl"); ok {
		p.PDFURL = stringOnly(msg)
	}
	if msg, ok := lookup(raw, "title"); ok {
		p.Title = stringOnly(msg)
	}
	if msg, ok := lookup(raw, "description"); ok {
		p.Description = stringOnly(msg)
	}
	if msg, ok := lookup(raw, "valid_until", "validUntil"); ok {
		p.ValidUntil = nullableString(msg)
	}
	return p, nil
}

func lookup(raw map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if msg, ok := raw[k]; ok {
			return msg, true
		}
	}
	return nil, false
}

func isNull(msg json.RawMessage) bool {
	return string(msg) == "null"
}

// stringOnly decodes a JSON string. null and other types yield nil.
func stringOnly(msg json.RawMessage) *string {
	if isNull(msg) {
		return nil
	}
	var s string
	if json.Unmarshal(msg, &s) != nil {
		return nil
	}
	return &s
}

// nullableString accepts a string or null. Other types leave the field unset.
func nullableString(msg json.RawMessage) core.Nullable[string] {
	if isNull(msg) {
		return core.Null[string]()
	}
	if s := stringOnly(msg); s != nil {
		return core.Some(*s)
	}
	return core.Nullable[string]{}
}
