package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/carbonjar/lms/internal/api/request"
	"github.com/carbonjar/lms/internal/api/response"
	"github.com/carbonjar/lms/internal/core"
)

// writeServiceError logs unexpected failures before mapping err to a
// response. Errors the client caused are not logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	if !errors.As(err, &ve) && !errors.Is(err, core.ErrNotFound) && !errors.Is(err, core.ErrConflict) {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	response.WriteServiceError(w, err)
}

// writeDecodeError reports a body decoding failure, naming the field when
// struct validation rejected one.
func writeDecodeError(w http.ResponseWriter, err error) {
	if field, reason, ok := request.FieldError(err); ok {
		response.WriteFieldError(w, field, reason, err.Error())
		return
	}
	response.WriteError(w, http.StatusBadRequest, err.Error())
}
