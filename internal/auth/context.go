package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const OrganizationHeader = "X-Organization-ID"

type organizationKey struct{}

func WithOrganizationID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, organizationKey{}, orgID)
}

// GetOrganizationID returns the organization placed on the context by the
// gateway middleware, or "".
func GetOrganizationID(ctx context.Context) string {
	if val, ok := ctx.Value(organizationKey{}).(string); ok {
		return val
	}
	return ""
}

// GetUserID reads the acting user forwarded by the gateway.
func GetUserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("X-User-ID"))
}

// OrganizationMiddleware copies the gateway's organization header onto the
// request context. Session handling happens upstream.
func OrganizationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if orgID := strings.TrimSpace(c.GetHeader(OrganizationHeader)); orgID != "" {
			c.Request = c.Request.WithContext(WithOrganizationID(c.Request.Context(), orgID))
		}
		c.Next()
	}
}
