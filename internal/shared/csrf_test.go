package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyRequestChecksHeaderToken(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{ID: "sess-1"}

	token, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/masterdata/items/", nil)
	req.Header.Set(CSRFHeader, token)
	if err := m.VerifyRequest(context.Background(), sess, req); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRequestRejectsForgedToken(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{ID: "sess-1"}
	if _, err := m.EnsureToken(context.Background(), sess); err != nil {
		t.Fatalf("ensure token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/masterdata/items/", nil)
	req.Header.Set(CSRFHeader, "forged")
	if err := m.VerifyRequest(context.Background(), sess, req); !errors.Is(err, ErrCSRFTokenMismatch) {
		t.Fatalf("err = %v, want mismatch", err)
	}
}

func TestVerifyRequestRequiresHeader(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{ID: "sess-1"}
	if _, err := m.EnsureToken(context.Background(), sess); err != nil {
		t.Fatalf("ensure token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/masterdata/items/", nil)
	if err := m.VerifyRequest(context.Background(), sess, req); !errors.Is(err, ErrCSRFTokenMissing) {
		t.Fatalf("err = %v, want missing", err)
	}
}
