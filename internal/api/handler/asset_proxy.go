package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/carbonjar/lms/internal/api/response"
	"github.com/carbonjar/lms/internal/asset"
	"github.com/carbonjar/lms/internal/metrics"
)

type AssetProxy struct {
	gateway *asset.Gateway
}

func NewAssetProxy(gateway *asset.Gateway) *AssetProxy {
	return &AssetProxy{gateway: gateway}
}

// Serve godoc
//
//	@Summary		Stream a stored certificate document
//	@Description	Fetches an allow-listed HTTPS asset and relays it with framing and caching headers.
//	@Tags			Assets
//	@Produce		application/pdf
//	@Param			url query string true "Absolute HTTPS URL on the storage host"
//	@Param			filename query string false "Download filename"
//	@Success		200
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		502 {object} response.ErrorResponse
//	@Failure		504 {object} response.ErrorResponse
//	@Router			/certificates/proxy [get]
func (h *AssetProxy) Serve(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	target := r.URL.Query().Get("url")
	if target == "" {
		metrics.AssetProxyRequests.WithLabelValues(metrics.ProxyOutcomeRejected).Inc()
		response.WriteError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	upstream, err := h.gateway.Open(r.Context(), target)
	if err != nil {
		var statusErr *asset.UpstreamStatusError
		switch {
		case errors.Is(err, asset.ErrInvalidTarget):
			metrics.AssetProxyRequests.WithLabelValues(metrics.ProxyOutcomeRejected).Inc()
			logger.Warn().Err(err).Msg("rejected proxy target")
			response.WriteError(w, http.StatusBadRequest, "invalid URL")
		case errors.Is(err, asset.ErrUpstreamTimeout):
			metrics.AssetProxyRequests.WithLabelValues(metrics.ProxyOutcomeTimeout).Inc()
			logger.Warn().Err(err).Msg("asset upstream timed out")
			response.WriteError(w, http.StatusGatewayTimeout, "upstream timeout")
		case errors.As(err, &statusErr):
			metrics.AssetProxyRequests.WithLabelValues(metrics.ProxyOutcomeUpstream).Inc()
			logger.Warn().Int("upstream_status", statusErr.Status).Msg("asset upstream returned an error")
			response.WriteJSON(w, statusErr.Status, response.ErrorResponse{
				Error:  "upstream returned an error",
				Status: statusErr.Status,
			})
		default:
			metrics.AssetProxyRequests.WithLabelValues(metrics.ProxyOutcomeFailed).Inc()
			logger.Error().Err(err).Msg("asset upstream fetch failed")
			response.WriteError(w, http.StatusBadGateway, "failed to fetch asset")
		}
		return
	}
	defer upstream.Close()

	metrics.AssetProxyRequests.WithLabelValues(metrics.ProxyOutcomeOK).Inc()
	asset.WriteProxyHeaders(w.Header(), upstream.Header, r.URL.Query().Get("filename"))
	w.WriteHeader(http.StatusOK)

	// Headers are already sent; a broken stream can only be logged.
	if _, err := io.Copy(w, upstream.Body); err != nil {
		logger.Warn().Err(err).Msg("asset stream interrupted")
	}
}
