// Package share builds social-network deep links for issued certificates.
package share

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/carbonjar/lms/internal/model"
)

const (
	addToProfileEndpoint = "https://www.linkedin.com/profile/add"
	defaultOrgName       = "CarbonJar"
)

// BuildAddToProfileURL returns the LinkedIn "Add to profile" link for cert.
// Expiry parameters are omitted for certificates that never expire, and
// organizationId only appears when orgID is configured.
func BuildAddToProfileURL(cert *model.Certificate, credentialURL, orgID string) string {
	q := url.Values{}
	q.Set("startTask", "CERTIFICATION_NAME")
	q.Set("name", cert.Title)

	orgName := strings.TrimSpace(cert.IssuerName)
	if orgName == "" {
		orgName = defaultOrgName
	}
	q.Set("organizationName", orgName)
	q.Set("certUrl", credentialURL)
	q.Set("certId", cert.CertificateCode)

	if !cert.IssueDate.IsZero() {
		issued := cert.IssueDate.UTC()
		q.Set("issueYear", strconv.Itoa(issued.Year()))
		q.Set("issueMonth", strconv.Itoa(int(issued.Month())))
	}
	if cert.ValidUntil != nil && !cert.ValidUntil.IsZero() {
		q.Set("expirationYear", strconv.Itoa(cert.ValidUntil.Year()))
		q.Set("expirationMonth", strconv.Itoa(int(cert.ValidUntil.Month())))
	}
	if id := strings.TrimSpace(orgID); id != "" {
		q.Set("organizationId", id)
	}

	// Encode sorts by key.
	return addToProfileEndpoint + "?" + q.Encode()
}

// CredentialURL is the public verification page for slug.
func CredentialURL(publicBaseURL, slug string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/credentials/" + url.PathEscape(slug)
}
