package signature

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecret creates a cryptographically random signing secret in the
// same format the delivery service assigns to endpoints:
// "whsec_" + base64-encoded 24-byte key.
func GenerateSecret() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		panic("signature: failed to generate random secret: " + err.Error())
	}
	return SecretPrefix + base64.StdEncoding.EncodeToString(b)
}
