package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"shoponline/config"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/service"
)

const defaultTokenTTL = 3 * time.Hour

// accessClaims is the wire form of an access token.
type accessClaims struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewJWTService is the constructor for jwtService. A missing signing key is a
// fatal configuration error.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.Auth == nil || cfg.Auth.SecretKey == "" {
		return nil, errors.New("auth.secretKey must be provided")
	}

	return newJWTService(cfg.Auth.SecretKey, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL, time.Now), nil
}

func newJWTService(secret, issuer, audience string, ttl time.Duration, now func() time.Time) *jwtService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &jwtService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      now,
	}
}

// Issue signs an access token for the user.
func (s *jwtService) Issue(user *entity.User, roleName string) (string, error) {
	if user == nil || user.ID == 0 {
		return "", errors.New("token subject is required")
	}

	issuedAt := s.now()
	claims := accessClaims{
		Name: user.Username,
		Role: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}

	return signed, nil
}

// Validate parses the token and checks signature, expiry, issuer and audience.
// Every failure maps to the same Unauthenticated error.
func (s *jwtService) Validate(token string) (*entity.TokenClaims, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domainerrors.ErrUnauthenticated
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, domainerrors.ErrUnauthenticated
	}

	out := &entity.TokenClaims{
		UserID:   uint(userID),
		Username: claims.Name,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}
