package domain

import (
	"context"
	"strings"
)

type tenantKey struct{}

// MaxTenantIDLength bounds the tenant identifier stored on every row.
const MaxTenantIDLength = 100

// WithTenant returns a copy of ctx carrying the tenant id.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, strings.TrimSpace(tenantID))
}

// TenantFromContext returns the tenant id stored in ctx.
func TenantFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantKey{}).(string)
	if !ok || tenantID == "" {
		return "", false
	}
	return tenantID, true
}

// RequireTenant returns the tenant id or ErrTenantRequired.
func RequireTenant(ctx context.Context) (string, error) {
	tenantID, ok := TenantFromContext(ctx)
	if !ok {
		return "", ErrTenantRequired
	}
	if len(tenantID) > MaxTenantIDLength {
		return "", NewValidationError("tenant id exceeds %d characters", MaxTenantIDLength)
	}
	return tenantID, nil
}
