package signature_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/swhkit/webhooks/signature"
)

func TestSignKnownVector(t *testing.T) {
	payload := []byte(`{"event":"test"}`)
	secret := signature.SecretPrefix + base64.StdEncoding.EncodeToString([]byte("raw-key-material-1234567"))
	timestamp := time.Unix(1700000000, 0)

	got, err := signature.Sign(secret, "msg_2yZwUhvgr", timestamp, payload)
	if err != nil {
		t.Fatal(err)
	}

	// Compute expected HMAC-SHA256 independently.
	mac := hmac.New(sha256.New, []byte("raw-key-material-1234567"))
	mac.Write([]byte("msg_2yZwUhvgr.1700000000." + string(payload)))
	expected := "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got != expected {
		t.Errorf("Sign() = %q, want %q", got, expected)
	}
}

func TestSignatureFormat(t *testing.T) {
	sig, err := signature.Sign(signature.GenerateSecret(), "msg_1", time.Now(), []byte("{}"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sig, "v1,") {
		t.Errorf("signature should start with 'v1,', got %q", sig)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sig, "v1,"))
	if err != nil {
		t.Fatalf("signature is not valid base64: %v", err)
	}
	if len(raw) != sha256.Size {
		t.Errorf("expected %d-byte mac, got %d", sha256.Size, len(raw))
	}
}

func TestSignMalformedSecret(t *testing.T) {
	_, err := signature.Sign("whsec_%%%not-base64%%%", "msg_1", time.Now(), []byte("{}"))
	if err == nil {
		t.Fatal("expected error for malformed secret")
	}
}
