package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTempCredential_PrefixAndLength(t *testing.T) {
	g := NewGenerator("Sef-")

	credential, err := g.GenerateTempCredential()

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(credential, "Sef-"))
	// 24 random bytes encode to 32 base64url characters.
	assert.Len(t, strings.TrimPrefix(credential, "Sef-"), 32)
}

func TestGenerateTempCredential_Unique(t *testing.T) {
	g := NewGenerator("Sef-")

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		credential, err := g.GenerateTempCredential()
		assert.NoError(t, err)
		_, dup := seen[credential]
		assert.False(t, dup)
		seen[credential] = struct{}{}
	}
}
