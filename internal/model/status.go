package model

import "time"

// Certificate status values. Status is derived, never stored.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusRevoked = "revoked"
)

// Status reports the certificate's standing at now. Revocation wins over
// expiry.
func (c *Certificate) Status(now time.Time) string {
	switch {
	case c.IsRevoked:
		return StatusRevoked
	case c.Expired(now):
		return StatusExpired
	default:
		return StatusActive
	}
}
