package credential

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/sefworks/partner-portal/application/port/outbound"
)

// suffix entropy in bytes; 24 bytes is 192 bits before encoding.
const suffixBytes = 24

// Generator produces one-time credentials for freshly provisioned
// identities: a fixed prefix followed by a random base64url suffix.
// The credential is replaced by the user through the recovery link and
// is never stored by the portal.
type Generator struct {
	prefix string
}

func NewGenerator(prefix string) outbound.CredentialGenerator {
	return &Generator{prefix: prefix}
}

func (g *Generator) GenerateTempCredential() (string, error) {
	bytes := make([]byte, suffixBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return g.prefix + base64.URLEncoding.EncodeToString(bytes), nil
}
