package handler

import (
	"net/http"

	"github.com/carbonjar/lms/internal/api/request"
	"github.com/carbonjar/lms/internal/api/response"
	"github.com/carbonjar/lms/internal/core"
)

// Verification serves public credential pages and the staff lookup.
type Verification struct {
	svc       *core.CertificateService
	presenter *Presenter
}

func NewVerification(svc *core.CertificateService, presenter *Presenter) *Verification {
	return &Verification{svc: svc, presenter: presenter}
}

// Verify godoc
//
//	@Summary		Verify a credential by slug
//	@Description	Revoked and unknown credentials both answer 404.
//	@Tags			Verification
//	@Param			slug path string true "Certificate slug"
//	@Success		200 {object} CredentialView
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/verify/{slug} [get]
func (h *Verification) Verify(w http.ResponseWriter, r *http.Request) {
	slug, err := request.PathParam(r, "slug")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.FindPublicBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, h.presenter.View(cert))
}

// Lookup godoc
//
//	@Summary		Look up a credential by ID, code or slug
//	@Description	Staff lookup. Revoked credentials are returned with is_revoked set.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Param			key path string true "Certificate UUID, 4-digit code or slug"
//	@Success		200 {object} CredentialView
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/credentials/{key} [get]
func (h *Verification) Lookup(w http.ResponseWriter, r *http.Request) {
	key, err := request.PathParam(r, "key")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.Lookup(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, h.presenter.View(cert))
}
