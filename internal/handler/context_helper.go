package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cps-portal-api/internal/middleware"
	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/workflow"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorFromContext(c *gin.Context) workflow.Actor {
	return workflow.ActorFromClaims(claimsFromContext(c))
}
