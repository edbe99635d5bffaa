package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/villageflow/villageflow-api/internal/middleware"
	"github.com/villageflow/villageflow-api/internal/models"
)

// claimsFromContext returns the authenticated caller, or nil on
// unauthenticated routes. Services treat nil claims as unauthorized.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, _ := c.Value(middleware.ContextUserKey).(*models.JWTClaims)
	return claims
}
