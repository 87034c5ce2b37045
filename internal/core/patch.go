package core

import (
	"strings"

	"github.com/carbonjar/lms/internal/model"
)

// Nullable distinguishes a field that was absent from one explicitly set to
// null. Value is nil when the field was sent as null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null returns a present-but-null field.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Some returns a present field holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// CertificatePatch is a partial update. Nil pointers and unset Nullables leave
// the stored value untouched.
type CertificatePatch struct {
	IsRevoked     *bool
	RevokedReason Nullable[string]
	PDFURL        *string
	Title         *string
	Description   *string
	// ValidUntil is kept raw: null or "" clears the expiry, a parseable date
	// replaces it, and anything else is ignored.
	ValidUntil Nullable[string]
}

// Empty reports whether the patch carries no fields.
func (p CertificatePatch) Empty() bool {
	return p.IsRevoked == nil && !p.RevokedReason.Set && p.PDFURL == nil &&
		p.Title == nil && p.Description == nil && !p.ValidUntil.Set
}

// ApplyUpdate returns cert with patch applied. A revocation reason never
// survives on a certificate that ends up not revoked.
func ApplyUpdate(cert model.Certificate, patch CertificatePatch) model.Certificate {
	if patch.IsRevoked != nil {
		cert.IsRevoked = *patch.IsRevoked
	}
	if patch.RevokedReason.Set {
		cert.RevokedReason = trimmedOrNil(patch.RevokedReason.Value)
	}
	if !cert.IsRevoked {
		cert.RevokedReason = nil
	}

	if patch.PDFURL != nil {
		cert.PDFURL = trimmedOrNil(patch.PDFURL)
	}
	if patch.Title != nil {
		if title := strings.TrimSpace(*patch.Title); title != "" {
			cert.Title = title
		}
	}
	if patch.Description != nil {
		cert.Description = trimmedOrNil(patch.Description)
	}

	if patch.ValidUntil.Set {
		switch v := patch.ValidUntil.Value; {
		case v == nil || strings.TrimSpace(*v) == "":
			cert.ValidUntil = nil
		default:
			if d, err := ParseDate(*v); err == nil {
				cert.ValidUntil = &d
			}
		}
	}

	return cert
}
