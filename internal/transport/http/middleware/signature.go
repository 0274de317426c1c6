package httpmw

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/internxt/meet-server/internal/jaas"
)

const maxWebhookBody = 1 << 20

// WebhookSignature rejects webhook deliveries whose x-jaas-signature header
// does not match the raw body. The body is re-attached for the handler.
func WebhookSignature(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				http.Error(w, `{"error":"cannot read body"}`, http.StatusBadRequest)
				return
			}
			_ = r.Body.Close()

			if !jaas.VerifySignature(secret, r.Header.Get(jaas.SignatureHeader), body) {
				slog.Warn("webhook signature rejected", "remote", r.RemoteAddr)
				http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
