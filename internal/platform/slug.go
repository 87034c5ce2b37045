package platform

import (
	"strings"
	"unicode"
)

// Slugify lower-cases s and collapses every whitespace run into a single
// hyphen. Leading and trailing whitespace is dropped.
func Slugify(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace), "-")
}

// CertificateSlug derives the public slug for a holder and certificate title.
func CertificateSlug(holderName, title string) string {
	return Slugify(holderName + " " + title)
}
