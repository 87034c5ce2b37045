package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carbonjar/lms/internal/model"
)

func TestPresenterView_MissingDocument(t *testing.T) {
	cert := testCertificate()
	cert.PDFURL = nil

	view := testPresenter().View(&cert)

	assert.Equal(t, model.AssetSourceMissing, view.AssetSource)
	assert.False(t, view.PreviewAvailable)
	assert.Nil(t, view.DownloadURL)
}

func TestPresenterView_RemoteUsesFallbackPreview(t *testing.T) {
	p := testPresenter()
	p.FallbackPreview = "/images/certificate-placeholder.png"
	cert := testCertificate()
	remote := "https://docs.example.com/jane.pdf"
	cert.PDFURL = &remote

	view := p.View(&cert)

	assert.Equal(t, model.AssetSourceRemote, view.AssetSource)
	assert.Equal(t, "/images/certificate-placeholder.png", *view.PreviewURL)
	assert.Equal(t, remote, *view.DownloadURL)
}

func TestPresenterViews_EmptyIsNotNil(t *testing.T) {
	views := testPresenter().Views(nil)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}
