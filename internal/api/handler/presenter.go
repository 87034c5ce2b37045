package handler

import (
	"time"

	"github.com/carbonjar/lms/internal/asset"
	"github.com/carbonjar/lms/internal/model"
	"github.com/carbonjar/lms/internal/share"
)

// CredentialView is a certificate with the links a credential page renders.
type CredentialView struct {
	Certificate      *model.Certificate `json:"certificate"`
	CredentialURL    string             `json:"credential_url"`
	PreviewURL       *string            `json:"preview_url"`
	DownloadURL      *string            `json:"download_url"`
	AssetSource      string             `json:"asset_source"`
	PreviewAvailable bool               `json:"preview_available"`
	LinkedInURL      string             `json:"linkedin_url"`
	Expired          bool               `json:"expired"`
	Status           string             `json:"status"`
}

// Presenter builds CredentialViews. It holds configuration only.
type Presenter struct {
	Resolver        *asset.Resolver
	PublicBaseURL   string
	LinkedInOrgID   string
	FallbackPreview string
	Now             func() time.Time
}

func (p *Presenter) View(cert *model.Certificate) CredentialView {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	at := now()

	var fallback *string
	if p.FallbackPreview != "" {
		fallback = &p.FallbackPreview
	}
	slug := cert.CertificateSlug
	urls := p.Resolver.Resolve(cert.PDFURL, &slug, fallback)
	credentialURL := share.CredentialURL(p.PublicBaseURL, cert.CertificateSlug)

	return CredentialView{
		Certificate:      cert,
		CredentialURL:    credentialURL,
		PreviewURL:       urls.PreviewURL,
		DownloadURL:      urls.DownloadURL,
		AssetSource:      urls.Source,
		PreviewAvailable: urls.PreviewURL != nil,
		LinkedInURL:      share.BuildAddToProfileURL(cert, credentialURL, p.LinkedInOrgID),
		Expired:          cert.Expired(at),
		Status:           cert.Status(at),
	}
}

func (p *Presenter) Views(certs []model.Certificate) []CredentialView {
	views := make([]CredentialView, 0, len(certs))
	for i := range certs {
		views = append(views, p.View(&certs[i]))
	}
	return views
}
