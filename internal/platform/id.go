package platform

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	codeMin = 1000
	codeMax = 9999
)

func NewID() string {
	return uuid.New().String()
}

// IsUUID reports whether s has the canonical 8-4-4-4-12 UUID shape.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// NewCode returns a 4-digit numeric code drawn uniformly from 1000-9999.
func NewCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		panic("crypto/rand: " + err.Error())
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin)
}
