// Package workflow implements the approval state machines shared by the
// three record domains. Transition functions mutate the record passed in
// and enforce actor role, ownership and department at the boundary instead
// of trusting the calling layer.
package workflow

import (
	"github.com/noah-isme/cps-portal-api/internal/models"
)

// Actor identifies the user attempting a transition.
type Actor struct {
	ID         string
	Name       string
	Role       models.UserRole
	Department string
}

// ActorFromClaims builds an Actor from JWT claims.
func ActorFromClaims(claims *models.JWTClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{
		ID:         claims.UserID,
		Name:       claims.FullName,
		Role:       claims.Role,
		Department: claims.Department,
	}
}
