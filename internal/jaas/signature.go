package jaas

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignatureHeader is the webhook authenticity header sent by the provider.
const SignatureHeader = "x-jaas-signature"

// VerifySignature checks a "t=<unix-seconds>,v1=<base64 hmac-sha256>" header
// against the raw payload, where the MAC covers "<t>.<payload>". An empty
// secret disables verification entirely (operational escape hatch).
func VerifySignature(secret, header string, payload []byte) bool {
	if secret == "" {
		return true
	}
	if header == "" {
		return false
	}

	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		switch {
		case strings.HasPrefix(part, "t="):
			ts = strings.TrimPrefix(part, "t=")
		case strings.HasPrefix(part, "v1="):
			sig = strings.TrimPrefix(part, "v1=")
		}
	}
	if ts == "" || sig == "" {
		return false
	}

	provided, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)

	return hmac.Equal(provided, mac.Sum(nil))
}

// Sign produces the signature header for a payload. Used by tests and
// local tooling; the provider computes the real one.
func Sign(secret, ts string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return "t=" + ts + ",v1=" + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
