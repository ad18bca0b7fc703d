package service

import "shoponline/internal/domain/entity"

// TokenService issues and validates signed, time-bounded access tokens.
type TokenService interface {
	// Issue signs a token for the user. An empty roleName omits the role claim.
	Issue(user *entity.User, roleName string) (string, error)

	// Validate checks signature, expiry, issuer and audience.
	Validate(token string) (*entity.TokenClaims, error)
}
