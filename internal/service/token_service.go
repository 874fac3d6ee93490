package service

import (
	"context"
	"strconv"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const invalidToken = "Invalid or expired token"

// Revoker stores revoked token ids. cache.RevocationList implements it.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	revoked  Revoker
	now      func() time.Time
}

// NewTokenService reads the signing settings from cfg. revoked may be nil, which
// disables logout.
func NewTokenService(cfg *config.Config, revoked Revoker) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.JWTAccessTTL,
		revoked:  revoked,
		now:      time.Now,
	}
}

// Issue signs a token whose subject is userID.
func (s *TokenService) Issue(_ context.Context, userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

// Authenticate verifies token and returns the caller it names.
// Every rejection is reported as the same Unauthorized error.
func (s *TokenService) Authenticate(ctx context.Context, token string) (identity *models.Identity, err error) {
	defer func() { observability.AuthEvents.WithLabelValues("token", outcome(err)).Inc() }()

	if token == "" {
		return nil, models.NewUnauthorizedError("Authorization header required")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, models.NewUnauthorizedError(invalidToken)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 || claims.ID == "" {
		return nil, models.NewUnauthorizedError(invalidToken)
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		switch {
		case err != nil:
			// Redis outages must not lock every user out.
			middleware.Logger.WarnContext(ctx, "revocation lookup failed, accepting token", "error", err)
		case revoked:
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return &models.Identity{
		UserID:    uint(userID),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke blocks identity's token until it expires.
func (s *TokenService) Revoke(ctx context.Context, identity *models.Identity) error {
	if s.revoked == nil {
		return models.NewUnavailableError("Token revocation is not available", nil)
	}
	if identity == nil || identity.TokenID == "" {
		return models.NewUnauthorizedError(invalidToken)
	}
	if err := s.revoked.Revoke(ctx, identity.TokenID, identity.ExpiresAt.Sub(s.now())); err != nil {
		return models.NewUnavailableError("Token revocation is not available", err)
	}
	return nil
}
