package tenant

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// HeaderName carries the tenant slug when subdomain routing is not in play.
const HeaderName = "X-Tenant"

const cacheTTL = 5 * time.Minute

// Resolver maps incoming requests to tenants, with a short-lived redis cache
// in front of postgres.
type Resolver struct {
	repo   Repository
	cache  *redis.Client
	logger *slog.Logger
	group  singleflight.Group
	// BaseDomain strips the tenant slug out of the Host header, e.g.
	// "acme.meridian.app" with BaseDomain "meridian.app" yields "acme".
	BaseDomain string
}

// NewResolver constructs a Resolver.
func NewResolver(repo Repository, cache *redis.Client, logger *slog.Logger, baseDomain string) *Resolver {
	return &Resolver{repo: repo, cache: cache, logger: logger, BaseDomain: baseDomain}
}

// Middleware resolves the tenant and stores it in the request context.
// Requests without a resolvable, active tenant are rejected.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		slug := r.slugFromRequest(req)
		if slug == "" {
			http.Error(w, "tenant not specified", http.StatusBadRequest)
			return
		}
		t, err := r.resolve(req.Context(), slug)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("resolve tenant", slog.String("slug", slug), slog.Any("error", err))
			}
			http.Error(w, "unknown tenant", http.StatusNotFound)
			return
		}
		if !t.IsActive {
			http.Error(w, "tenant suspended", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, req.WithContext(ContextWithTenant(req.Context(), t)))
	})
}

// Optional resolves the tenant when the request names one but lets requests
// without a slug pass through untouched. Used on the auth surface where the
// platform audience carries no tenant.
func (r *Resolver) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		slug := r.slugFromRequest(req)
		if slug == "" {
			next.ServeHTTP(w, req)
			return
		}
		t, err := r.resolve(req.Context(), slug)
		if err != nil || !t.IsActive {
			next.ServeHTTP(w, req)
			return
		}
		next.ServeHTTP(w, req.WithContext(ContextWithTenant(req.Context(), t)))
	})
}

func (r *Resolver) slugFromRequest(req *http.Request) string {
	if slug := strings.TrimSpace(req.Header.Get(HeaderName)); slug != "" {
		return strings.ToLower(slug)
	}
	host := req.Host
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	if r.BaseDomain != "" && strings.HasSuffix(host, "."+r.BaseDomain) {
		return strings.ToLower(strings.TrimSuffix(host, "."+r.BaseDomain))
	}
	return ""
}

// resolve collapses concurrent lookups for the same slug into one flight.
func (r *Resolver) resolve(ctx context.Context, slug string) (*Tenant, error) {
	v, err, _ := r.group.Do(slug, func() (any, error) {
		key := "tenant:" + slug
		if r.cache != nil {
			if payload, err := r.cache.Get(ctx, key).Bytes(); err == nil {
				var t Tenant
				if err := json.Unmarshal(payload, &t); err == nil {
					return &t, nil
				}
			}
		}
		t, err := r.repo.FindBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			if payload, err := json.Marshal(t); err == nil {
				_ = r.cache.Set(ctx, key, payload, cacheTTL).Err()
			}
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tenant), nil
}
