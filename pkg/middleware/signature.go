package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the request body.
const SignatureHeader = "X-Lingua-Signature"

// Signature returns middleware that rejects requests whose body HMAC does not
// match the shared secret. The body is re-buffered for downstream handlers.
func Signature(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "unreadable body", http.StatusBadRequest)
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !VerifySignature(secret, body, r.Header.Get(SignatureHeader)) {
				logger.Warn("webhook signature mismatch", "addr", r.RemoteAddr)
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Sign computes the hex-encoded HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether provided matches the HMAC of body in constant time.
func VerifySignature(secret string, body []byte, provided string) bool {
	if provided == "" {
		return false
	}
	expected, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(expected, mac.Sum(nil))
}
