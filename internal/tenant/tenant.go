// Package tenant resolves the tenant a request belongs to and carries it
// through context. Every master-data query is scoped by the resolved tenant.
package tenant

import (
	"context"
	"errors"
	"time"
)

// Tenant is one customer organization on the platform.
type Tenant struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrUnknownTenant indicates the request carried no resolvable tenant.
var ErrUnknownTenant = errors.New("tenant: unknown tenant")

type tenantContextKey struct{}

// ContextWithTenant stores the tenant in context.
func ContextWithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, t)
}

// FromContext extracts the tenant from context.
func FromContext(ctx context.Context) *Tenant {
	t, _ := ctx.Value(tenantContextKey{}).(*Tenant)
	return t
}

// IDFromContext returns the tenant id, or zero when no tenant is bound.
func IDFromContext(ctx context.Context) int64 {
	if t := FromContext(ctx); t != nil {
		return t.ID
	}
	return 0
}
