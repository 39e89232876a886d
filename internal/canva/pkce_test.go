package canva

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePKCEPair_RoundTrip(t *testing.T) {
	verifier, challenge, err := GeneratePKCEPair()
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	assert.Equal(t, want, challenge)
	assert.False(t, strings.HasSuffix(challenge, "="), "challenge must be unpadded")
}

func TestGeneratePKCEPair_VerifierShape(t *testing.T) {
	verifier, _, err := GeneratePKCEPair()
	require.NoError(t, err)

	assert.Len(t, verifier, 128)
	for _, r := range verifier {
		assert.Contains(t, verifierCharset, string(r))
	}
}

func TestGeneratePKCEPair_Unique(t *testing.T) {
	v1, _, err := GeneratePKCEPair()
	require.NoError(t, err)
	v2, _, err := GeneratePKCEPair()
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
}
