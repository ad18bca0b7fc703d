package entity

import "time"

// TokenClaims is the decoded identity carried by a validated access token.
type TokenClaims struct {
	UserID    uint      // Subject.
	Username  string    // Display name at issuance.
	Role      string    // Role name; empty when the user had no role.
	TokenID   string    // Unique jti.
	IssuedAt  time.Time // iat.
	ExpiresAt time.Time // exp.
}

// Principal is the per-request identity established by the access guard.
type Principal struct {
	UserID   uint
	Username string
	Role     string
}

// PrincipalFromClaims builds the request identity from validated claims.
func PrincipalFromClaims(claims *TokenClaims) Principal {
	return Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
}
