package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/logger"
)

// DefaultTenantHeader carries the caller's tenant.
const DefaultTenantHeader = "X-Tenant-Id"

// Tenant stores the tenant named by header in the request context, falling
// back to defaultTenant when the header is blank. With no default, requests
// without a tenant are rejected.
func Tenant(header, defaultTenant string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultTenantHeader
	}
	defaultTenant = strings.TrimSpace(defaultTenant)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := strings.TrimSpace(r.Header.Get(header))
			if tenantID == "" {
				tenantID = defaultTenant
			}
			if tenantID == "" {
				writeJSONError(w, http.StatusBadRequest, "tenant required", "missing "+header+" header")
				return
			}
			if len(tenantID) > domain.MaxTenantIDLength {
				writeJSONError(w, http.StatusBadRequest, "invalid tenant", "tenant id is too long")
				return
			}

			ctx := domain.WithTenant(r.Context(), tenantID)
			logger.TagTenant(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
