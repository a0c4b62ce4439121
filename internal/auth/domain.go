package auth

import "time"

// Audience identifies which login surface a user belongs to.
type Audience string

const (
	// AudiencePlatform is the operator backoffice.
	AudiencePlatform Audience = "platform"
	// AudienceTenantAdmin is the tenant administration console.
	AudienceTenantAdmin Audience = "tenant_admin"
	// AudienceTenantUser is the tenant end-user application.
	AudienceTenantUser Audience = "tenant_user"
)

// Valid reports whether the audience is one of the known surfaces.
func (a Audience) Valid() bool {
	switch a {
	case AudiencePlatform, AudienceTenantAdmin, AudienceTenantUser:
		return true
	}
	return false
}

// Tenanted reports whether accounts for the audience belong to a tenant.
func (a Audience) Tenanted() bool {
	return a == AudienceTenantAdmin || a == AudienceTenantUser
}

// User represents an authenticated account. TenantID is zero for platform
// accounts.
type User struct {
	ID           int64
	TenantID     int64
	Email        string
	PasswordHash string
	Audience     Audience
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
