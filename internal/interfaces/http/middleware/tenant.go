package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgerdesk/backend/internal/infrastructure/logger"
	"github.com/ledgerdesk/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"

	// ErrCodeTenantMismatch is returned when the header names another tenant than the token
	ErrCodeTenantMismatch = "TENANT_MISMATCH"
)

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	// HeaderEnabled accepts X-Tenant-ID. Without JWT auth it is the only source.
	HeaderEnabled bool
	SkipPaths     []string
	// SkipPathPrefixes are path prefixes served without a tenant
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultTenantConfig returns the tenant middleware defaults
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		HeaderEnabled:    true,
		SkipPathPrefixes: []string{"/health", "/api/v1/health", "/swagger"},
	}
}

// Tenant resolves the calling tenant. A JWT claim wins over the header and
// a header naming a different tenant is rejected.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if skipPath(c.Request.URL.Path, cfg.SkipPaths, cfg.SkipPathPrefixes) {
			c.Next()
			return
		}

		tenantID := GetJWTTenantID(c)
		header := c.GetHeader(TenantHeaderKey)

		switch {
		case tenantID != "" && header != "" && !sameTenant(tenantID, header):
			log.Warn("Tenant header does not match token",
				zap.String("token_tenant", tenantID),
				zap.String("header_tenant", header),
			)
			abortWithError(c, ErrCodeTenantMismatch, "Tenant header does not match the authenticated tenant")
			return
		case tenantID == "" && cfg.HeaderEnabled:
			tenantID = header
		}

		if tenantID == "" {
			abortWithError(c, dto.ErrCodeTenantMissing, "Tenant identification required")
			return
		}
		parsed, err := uuid.Parse(tenantID)
		if err != nil {
			abortWithError(c, dto.ErrCodeTenantMissing, "Invalid tenant ID format")
			return
		}
		tenantID = parsed.String()

		c.Set(TenantIDKey, tenantID)
		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// sameTenant compares two tenant ids as UUIDs, so case and brace or urn
// forms of one id match
func sameTenant(a, b string) bool {
	ida, err := uuid.Parse(a)
	if err != nil {
		return false
	}
	idb, err := uuid.Parse(b)
	if err != nil {
		return false
	}
	return ida == idb
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, bool) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
