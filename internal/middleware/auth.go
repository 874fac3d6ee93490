package middleware

import (
	"context"
	"strings"

	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenAuthenticator verifies a raw bearer token.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// AuthRequired rejects requests without a valid bearer token with 401.
// On success the caller is stored in the userID and identity locals and in the user context.
func AuthRequired(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization header required"))
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		identity, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if !models.HasCode(err, models.CodeUnauthorized) {
				Logger.ErrorContext(c.UserContext(), "token verification failed", "error", err)
			}
			return models.RespondWithError(c, models.StatusFor(err), err)
		}

		c.Locals("userID", identity.UserID)
		c.Locals("identity", identity)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, identity.UserID))

		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthRequired, if any.
func CurrentIdentity(c *fiber.Ctx) (*models.Identity, bool) {
	id, ok := c.Locals("identity").(*models.Identity)
	return id, ok && id != nil
}
