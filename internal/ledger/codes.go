package ledger

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 10
)

// CodeGenerator produces candidate voucher codes. Uniqueness is checked by the Registry.
type CodeGenerator interface {
	NewCode() (string, error)
}

// RandomCodes draws fixed-length codes from A-Z0-9 using crypto/rand.
type RandomCodes struct {
	Length int
}

// NewCode returns a fresh random code.
func (g RandomCodes) NewCode() (string, error) {
	n := g.Length
	if n <= 0 {
		n = codeLength
	}
	size := big.NewInt(int64(len(codeAlphabet)))

	var b strings.Builder
	b.Grow(n)
	for range n {
		i, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[i.Int64()])
	}
	return b.String(), nil
}

// NormalizeCode is the canonical form used for storage and comparison.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
