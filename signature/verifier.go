package signature

import (
	"crypto/hmac"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrVerificationFailed is returned when an inbound webhook payload cannot
// be authenticated: missing or malformed headers, a stale timestamp, or no
// matching signature.
var ErrVerificationFailed = errors.New("signature: webhook payload verification failed")

// Tolerance is the maximum accepted clock skew between the Webhook-Timestamp
// header and the receiver's clock.
const Tolerance = 5 * time.Minute

// Verify authenticates an inbound webhook request and returns its decoded
// JSON payload. headers must contain the Webhook-Id, Webhook-Timestamp and
// Webhook-Signature values sent by the delivery service; lookup is
// case-insensitive.
func Verify(payload []byte, headers map[string]string, secret string) (map[string]any, error) {
	msgID := header(headers, "Webhook-Id")
	tsRaw := header(headers, "Webhook-Timestamp")
	sigs := header(headers, "Webhook-Signature")
	if msgID == "" || tsRaw == "" || sigs == "" {
		return nil, fmt.Errorf("%w: missing webhook headers", ErrVerificationFailed)
	}

	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed timestamp %q", ErrVerificationFailed, tsRaw)
	}
	timestamp := time.Unix(ts, 0)
	if skew := time.Since(timestamp); skew > Tolerance || skew < -Tolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrVerificationFailed)
	}

	expected, err := Sign(secret, msgID, timestamp, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	// The signature header may list several versioned signatures, e.g. after
	// a secret rotation. Any v1 match authenticates the payload.
	for _, sig := range strings.Fields(sigs) {
		if !strings.HasPrefix(sig, "v1,") {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			var decoded map[string]any
			if err := json.Unmarshal(payload, &decoded); err != nil {
				return nil, fmt.Errorf("%w: body is not valid JSON", ErrVerificationFailed)
			}
			return decoded, nil
		}
	}

	return nil, fmt.Errorf("%w: no matching signature", ErrVerificationFailed)
}

// header returns the value for key using case-insensitive matching.
func header(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
