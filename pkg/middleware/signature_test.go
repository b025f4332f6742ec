package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gfmozzer/lingua/pkg/middleware"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	body := []byte(`{"job_id":"abc"}`)
	sig := middleware.Sign("secret", body)

	if !middleware.VerifySignature("secret", body, sig) {
		t.Error("signature should verify against the same secret and body")
	}
	if middleware.VerifySignature("other", body, sig) {
		t.Error("signature should not verify against a different secret")
	}
	if middleware.VerifySignature("secret", []byte(`{"job_id":"xyz"}`), sig) {
		t.Error("signature should not verify against a different body")
	}
	if middleware.VerifySignature("secret", body, "") {
		t.Error("empty signature should not verify")
	}
	if middleware.VerifySignature("secret", body, "not-hex") {
		t.Error("undecodable signature should not verify")
	}
}

func TestSignatureMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	secret := "webhook-secret"
	body := []byte(`{"job_id":"abc","status":"done"}`)

	var received []byte
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})
	guard := middleware.Signature(secret, logger)(next)

	t.Run("valid signature passes with readable body", func(t *testing.T) {
		received = nil
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/webhooks/n8n", bytes.NewReader(body))
		req.Header.Set(middleware.SignatureHeader, middleware.Sign(secret, body))
		guard.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !bytes.Equal(received, body) {
			t.Errorf("downstream body = %q, want %q", received, body)
		}
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		received = nil
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/webhooks/n8n", bytes.NewReader(body))
		guard.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if received != nil {
			t.Error("handler should not run on a rejected request")
		}
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/webhooks/n8n", bytes.NewReader([]byte(`{"job_id":"abc","status":"failed"}`)))
		req.Header.Set(middleware.SignatureHeader, middleware.Sign(secret, body))
		guard.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}
