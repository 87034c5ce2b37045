package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	mw "github.com/carbonjar/lms/internal/api/middleware"
	"github.com/carbonjar/lms/internal/api/request"
	"github.com/carbonjar/lms/internal/api/response"
	"github.com/carbonjar/lms/internal/core"
	"github.com/carbonjar/lms/internal/model"
	"github.com/carbonjar/lms/internal/storage"
)

// MaxPDFBytes caps uploaded certificate documents.
const MaxPDFBytes = 20 << 20

var pdfMagic = []byte("%PDF-")

// DocumentStore persists certificate PDFs and returns their public URL.
type DocumentStore interface {
	PutPDF(ctx context.Context, key string, data []byte) (string, error)
}

type Certificate struct {
	svc       *core.CertificateService
	presenter *Presenter
	store     DocumentStore
}

// NewCertificate builds the certificate handler. store may be nil, in which
// case PDF uploads answer 503.
func NewCertificate(svc *core.CertificateService, presenter *Presenter, store DocumentStore) *Certificate {
	return &Certificate{svc: svc, presenter: presenter, store: store}
}

// Create godoc
//
//	@Summary		Issue a certificate
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Param			body body request.CreateCertificate true "Certificate details"
//	@Success		201 {object} model.Certificate
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/certificates [post]
func (h *Certificate) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCertificate
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	cert, err := h.svc.Create(r.Context(), req.ToInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("certificate_id", cert.ID).
		Str("user_id", cert.UserID).
		Str("course_id", cert.CourseID).
		Msg("certificate issued")
	response.WriteJSON(w, http.StatusCreated, cert)
}

// List godoc
//
//	@Summary		List certificates
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Param			user_id query string false "Holder user ID"
//	@Param			course_id query string false "Course ID"
//	@Param			status query string false "active or revoked"
//	@Param			search query string false "Holder name, title or code"
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Certificate}
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/certificates [get]
func (h *Certificate) List(w http.ResponseWriter, r *http.Request) {
	params, err := request.ParseListParams(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	certs, hasMore, err := h.svc.List(r.Context(), params.Filter, params.Limit, params.Cursor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if certs == nil {
		certs = []model.Certificate{}
	}

	response.WritePaginated(w, http.StatusOK, certs, nextCursor(certs, hasMore), hasMore)
}

// ListMine godoc
//
//	@Summary		List the caller's certificates with asset links
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]CredentialView}
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Router			/me/certificates [get]
func (h *Certificate) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := mw.GetIdentity(r.Context())
	if identity == nil {
		response.WriteError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	pg, err := request.ParsePage(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	certs, hasMore, err := h.svc.ListByUser(r.Context(), identity.UserID, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WritePaginated(w, http.StatusOK, h.presenter.Views(certs), nextCursor(certs, hasMore), hasMore)
}

// Get godoc
//
//	@Summary		Get a certificate
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Param			id path string true "Certificate ID"
//	@Success		200 {object} model.Certificate
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/certificates/{id} [get]
func (h *Certificate) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathParam(r, "id")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, cert)
}

// Update godoc
//
//	@Summary		Partially update a certificate
//	@Description	Revoke or restore a certificate, or edit its title, description, document or validity.
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Param			id path string true "Certificate ID"
//	@Success		200 {object} model.Certificate
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/certificates/{id} [patch]
func (h *Certificate) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathParam(r, "id")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := request.DecodeCertificatePatch(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if patch.IsRevoked != nil {
		zerolog.Ctx(r.Context()).Info().
			Str("certificate_id", cert.ID).
			Bool("is_revoked", cert.IsRevoked).
			Msg("certificate revocation changed")
	}
	response.WriteJSON(w, http.StatusOK, cert)
}

// Delete godoc
//
//	@Summary		Delete a certificate
//	@Description	Returns the deleted record, or null when nothing matched.
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Param			id path string true "Certificate ID"
//	@Success		200 {object} model.Certificate
//	@Router			/certificates/{id} [delete]
func (h *Certificate) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathParam(r, "id")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	// A nil snapshot encodes as null.
	response.WriteJSON(w, http.StatusOK, cert)
}

// UploadPDF godoc
//
//	@Summary		Upload the certificate document
//	@Tags			Certificates
//	@Security		BearerAuth
//	@Accept			application/pdf
//	@Param			id path string true "Certificate ID"
//	@Success		200 {object} model.Certificate
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		413 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/certificates/{id}/pdf [put]
func (h *Certificate) UploadPDF(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.WriteError(w, http.StatusServiceUnavailable, "document storage is not configured")
		return
	}

	id, err := request.PathParam(r, "id")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPDFBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteError(w, http.StatusRequestEntityTooLarge, "document exceeds 20 MiB")
			return
		}
		response.WriteError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		response.WriteError(w, http.StatusBadRequest, "body is not a PDF document")
		return
	}

	pdfURL, err := h.store.PutPDF(r.Context(), storage.CertificateKey(cert.ID, cert.CertificateSlug), data)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("certificate_id", cert.ID).Msg("store certificate document")
		response.WriteError(w, http.StatusBadGateway, "failed to store document")
		return
	}

	updated, err := h.svc.SetPDFURL(r.Context(), cert.ID, pdfURL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, updated)
}

func nextCursor(certs []model.Certificate, hasMore bool) string {
	if hasMore && len(certs) > 0 {
		return certs[len(certs)-1].ID
	}
	return ""
}
