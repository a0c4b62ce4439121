package tenant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian-erp/meridian/internal/tenant"
	"github.com/meridian-erp/meridian/internal/testutil"
)

type stubTenantRepo struct {
	tenants map[string]*tenant.Tenant
	lookups int
}

func (s *stubTenantRepo) FindBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	s.lookups++
	t, ok := s.tenants[slug]
	if !ok {
		return nil, tenant.ErrUnknownTenant
	}
	return t, nil
}

func (s *stubTenantRepo) List(context.Context) ([]tenant.Tenant, error) { return nil, nil }

func (s *stubTenantRepo) Create(_ context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	return t, nil
}

func (s *stubTenantRepo) SetActive(context.Context, int64, bool) error { return nil }

func serveWithTenant(t *testing.T, resolver *tenant.Resolver, slug string) (*httptest.ResponseRecorder, int64) {
	t.Helper()
	var seen int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = tenant.IDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/masterdata/items/", nil)
	if slug != "" {
		req.Header.Set(tenant.HeaderName, slug)
	}
	rec := httptest.NewRecorder()
	resolver.Middleware(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestResolveTenantFromHeader(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*tenant.Tenant{
		"acme": {ID: 11, Slug: "acme", Name: "Acme", IsActive: true},
	}}
	_, client := testutil.Redis(t)
	resolver := tenant.NewResolver(repo, client, testutil.Logger(), "")

	rec, seen := serveWithTenant(t, resolver, "acme")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if seen != 11 {
		t.Fatalf("tenant id in context = %d, want 11", seen)
	}
}

func TestResolveCachesLookups(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*tenant.Tenant{
		"acme": {ID: 11, Slug: "acme", IsActive: true},
	}}
	_, client := testutil.Redis(t)
	resolver := tenant.NewResolver(repo, client, testutil.Logger(), "")

	serveWithTenant(t, resolver, "acme")
	serveWithTenant(t, resolver, "acme")
	if repo.lookups != 1 {
		t.Fatalf("lookups = %d, want 1 (second hit served from cache)", repo.lookups)
	}
}

func TestUnknownTenantRejected(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*tenant.Tenant{}}
	_, client := testutil.Redis(t)
	resolver := tenant.NewResolver(repo, client, testutil.Logger(), "")

	rec, _ := serveWithTenant(t, resolver, "ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSuspendedTenantRejected(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*tenant.Tenant{
		"acme": {ID: 11, Slug: "acme", IsActive: false},
	}}
	_, client := testutil.Redis(t)
	resolver := tenant.NewResolver(repo, client, testutil.Logger(), "")

	rec, _ := serveWithTenant(t, resolver, "acme")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMissingTenantRejected(t *testing.T) {
	repo := &stubTenantRepo{}
	_, client := testutil.Redis(t)
	resolver := tenant.NewResolver(repo, client, testutil.Logger(), "")

	rec, _ := serveWithTenant(t, resolver, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSubdomainResolution(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*tenant.Tenant{
		"acme": {ID: 11, Slug: "acme", IsActive: true},
	}}
	_, client := testutil.Redis(t)
	resolver := tenant.NewResolver(repo, client, testutil.Logger(), "meridian.app")

	var seen int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = tenant.IDFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "acme.meridian.app:8080"
	rec := httptest.NewRecorder()
	resolver.Middleware(next).ServeHTTP(rec, req)
	if seen != 11 {
		t.Fatalf("tenant id = %d, want 11", seen)
	}
}
