package services

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TokenLength is fixed: 32 characters over a 62-char alphabet makes the
// collision probability negligible; uniqueness is still enforced at the
// storage level.
const TokenLength = 32

// GenerateToken draws a fresh key token from a cryptographically secure
// source. Tokens are immutable once persisted.
func GenerateToken() (string, error) {
	var b strings.Builder
	b.Grow(TokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < TokenLength; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(tokenAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
