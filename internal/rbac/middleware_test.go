package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meridian-erp/meridian/internal/rbac"
	"github.com/meridian-erp/meridian/internal/shared"
	"github.com/meridian-erp/meridian/internal/testutil"
)

type stubPermissions struct {
	granted map[int64][]string
}

func (s *stubPermissions) EffectivePermissions(_ context.Context, userID int64) ([]string, error) {
	return s.granted[userID], nil
}

func requestAs(t *testing.T, userID string) *http.Request {
	t.Helper()
	_, client := testutil.Redis(t)
	manager := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	sess, err := manager.Load(req.Context(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if userID != "" {
		sess.SetUser(userID)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func protected(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw(next).ServeHTTP(rec, req)
	return rec
}

func TestRequireAnyGrantsOnMatch(t *testing.T) {
	source := &stubPermissions{granted: map[int64][]string{7: {shared.PermItemsView}}}
	mw := rbac.Middleware{Source: source, Logger: testutil.Logger()}

	rec := protected(t, mw.RequireAny(shared.PermItemsView, shared.PermItemsEdit), requestAs(t, "7"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAnyRejectsWithoutPermission(t *testing.T) {
	source := &stubPermissions{granted: map[int64][]string{7: {shared.PermGeoView}}}
	mw := rbac.Middleware{Source: source, Logger: testutil.Logger()}

	rec := protected(t, mw.RequireAny(shared.PermItemsEdit), requestAs(t, "7"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAllNeedsEveryPermission(t *testing.T) {
	source := &stubPermissions{granted: map[int64][]string{7: {shared.PermItemsView}}}
	mw := rbac.Middleware{Source: source, Logger: testutil.Logger()}

	rec := protected(t, mw.RequireAll(shared.PermItemsView, shared.PermItemsEdit), requestAs(t, "7"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}

	source.granted[7] = append(source.granted[7], shared.PermItemsEdit)
	rec = protected(t, mw.RequireAll(shared.PermItemsView, shared.PermItemsEdit), requestAs(t, "7"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status after grant = %d", rec.Code)
	}
}

func TestAnonymousRejected(t *testing.T) {
	mw := rbac.Middleware{Source: &stubPermissions{}, Logger: testutil.Logger()}
	rec := protected(t, mw.RequireAny(shared.PermItemsView), requestAs(t, ""))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}
