package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Proxy outcome label values.
const (
	ProxyOutcomeOK       = "ok"
	ProxyOutcomeRejected = "rejected"
	ProxyOutcomeUpstream = "upstream_status"
	ProxyOutcomeFailed   = "fetch_failed"
	ProxyOutcomeTimeout  = "timeout"
)

var (
	CertificatesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "certificates_issued_total",
		Help: "Total number of certificates issued",
	})

	CertificatesRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "certificates_revoked_total",
		Help: "Total number of certificates transitioned to revoked",
	})

	AssetProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_proxy_requests_total",
			Help: "Asset proxy requests by outcome",
		},
		[]string{"outcome"},
	)

	AssetProxyUpstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "asset_proxy_upstream_duration_seconds",
		Help:    "Time until the asset upstream returned response headers",
		Buckets: prometheus.DefBuckets,
	})
)
