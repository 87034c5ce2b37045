package model

import "time"

type Certificate struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	CourseID        string    `json:"course_id" db:"course_id"`
	HolderName      string    `json:"holder_name" db:"holder_name"`
	Title           string    `json:"title" db:"title"`
	Description     *string   `json:"description,omitempty" db:"description"`
	IssuerName      string    `json:"issuer_name" db:"issuer_name"`
	IssuerRole      string    `json:"issuer_role" db:"issuer_role"`
	CourseStartDate Date      `json:"course_start_date" db:"course_start_date"`
	CourseEndDate   Date      `json:"course_end_date" db:"course_end_date"`
	IssueDate       time.Time `json:"issue_date" db:"issue_date"`
	ValidUntil      *Date     `json:"valid_until" db:"valid_until"`
	CertificateCode string    `json:"certificate_code" db:"certificate_code"`
	CertificateSlug string    `json:"certificate_slug" db:"certificate_slug"`
	CertificateHash string    `json:"certificate_hash" db:"certificate_hash"`
	PDFURL          *string   `json:"pdf_url" db:"pdf_url"`
	IsRevoked       bool      `json:"is_revoked" db:"is_revoked"`
	RevokedReason   *string   `json:"revoked_reason" db:"revoked_reason"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the certificate's validity window has closed.
// Expiry is informational; it never revokes the certificate.
func (c *Certificate) Expired(now time.Time) bool {
	if c.ValidUntil == nil || c.ValidUntil.IsZero() {
		return false
	}
	return NewDate(now).After(c.ValidUntil.Time)
}

// Asset provenance values returned by the asset resolver.
const (
	AssetSourceMissing   = "missing"
	AssetSourceEdgeStore = "edge-store"
	AssetSourceRemote    = "remote"
	AssetSourceRelative  = "relative"
)

// AssetURLs are the public preview and download links for a certificate PDF.
type AssetURLs struct {
	PreviewURL  *string `json:"preview_url"`
	DownloadURL *string `json:"download_url"`
	Source      string  `json:"source"`
}
