package sharing

import (
	"crypto/rand"
	"fmt"

	"github.com/phrazzld/tandem-api/internal/domain"
)

// CodeGenerator returns a candidate invitation code.
type CodeGenerator func() (string, error)

// maxUnbiased is the largest multiple of the alphabet size that fits in a
// byte; bytes at or above it are discarded so every symbol is equally likely.
var maxUnbiased = byte(256 - 256%len(domain.InvitationCodeAlphabet))

// RandomCode draws a code of domain.InvitationCodeLength symbols uniformly
// from domain.InvitationCodeAlphabet using crypto/rand.
func RandomCode() (string, error) {
	code := make([]byte, 0, domain.InvitationCodeLength)
	buf := make([]byte, domain.InvitationCodeLength*2)

	for len(code) < domain.InvitationCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= maxUnbiased {
				continue
			}
			code = append(code, domain.InvitationCodeAlphabet[int(b)%len(domain.InvitationCodeAlphabet)])
			if len(code) == domain.InvitationCodeLength {
				break
			}
		}
	}

	return string(code), nil
}
