// Package signature implements the signing scheme the delivery service
// applies to outgoing webhook requests, and its inverse for receivers.
//
// The content to sign is "{msg_id}.{timestamp}.{body}" and the signature
// header carries one or more space-separated "v1,<base64 mac>" entries.
// Secrets are "whsec_" + base64-encoded key material.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecretPrefix is the marker prepended to every endpoint signing secret.
const SecretPrefix = "whsec_"

// Sign computes the signature for a single webhook message.
// Returns a versioned signature in the format "v1,<base64>".
func Sign(secret, msgID string, timestamp time.Time, payload []byte) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	content := msgID + "." + strconv.FormatInt(timestamp.Unix(), 10) + "." + string(payload)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(content))
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// decodeSecret extracts the raw key material from a "whsec_" secret.
func decodeSecret(secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, SecretPrefix))
	if err != nil {
		return nil, fmt.Errorf("signature: malformed secret: %w", err)
	}
	return key, nil
}
