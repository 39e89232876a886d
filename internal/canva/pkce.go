package canva

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// verifierLength matches what the provider accepts (43..128); we use the max.
const verifierLength = 128

// Exactly 64 characters, so indexing a random byte with &63 is unbiased.
const verifierCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// GeneratePKCEPair returns a fresh (code_verifier, code_challenge) pair.
// The challenge is the unpadded base64url encoding of SHA-256(verifier).
func GeneratePKCEPair() (string, string, error) {
	buf := make([]byte, verifierLength)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("pkce verifier: %w", err)
	}
	for i, b := range buf {
		buf[i] = verifierCharset[b&63]
	}
	verifier := string(buf)

	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])
	return verifier, challenge, nil
}
