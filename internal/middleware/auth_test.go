package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	tokens map[string]*models.Identity
	err    error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.tokens[token]
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	return id, nil
}

func TestAuthRequired(t *testing.T) {
	auth := stubAuthenticator{tokens: map[string]*models.Identity{
		"good": {UserID: 123, TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)},
	}}

	app := fiber.New()
	app.Get("/test", AuthRequired(auth), func(c *fiber.Ctx) error {
		ctxUser, _ := c.UserContext().Value(UserIDKey).(uint)
		identity, ok := CurrentIdentity(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{
			"userID":  c.Locals("userID"),
			"ctxUser": ctxUser,
			"jti":     identity.TokenID,
		})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"Happy Path", "Bearer good", http.StatusOK},
		{"Lowercase Scheme", "bearer good", http.StatusOK},
		{"Missing Header", "", http.StatusUnauthorized},
		{"Invalid Format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"Empty Token", "Bearer ", http.StatusUnauthorized},
		{"Unknown Token", "Bearer malformed.token.here", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body struct {
					UserID  uint   `json:"userID"`
					CtxUser uint   `json:"ctxUser"`
					JTI     string `json:"jti"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, uint(123), body.UserID)
				assert.Equal(t, uint(123), body.CtxUser)
				assert.Equal(t, "jti-1", body.JTI)
				return
			}

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, models.CodeUnauthorized, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestAuthRequired_HandlerNotReachedOnFailure(t *testing.T) {
	called := false
	app := fiber.New()
	app.Post("/test", AuthRequired(stubAuthenticator{}), func(c *fiber.Ctx) error {
		called = true
		return c.SendStatus(fiber.StatusCreated)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, called)
}

func TestAuthRequired_InternalFailureIsNotLeaked(t *testing.T) {
	app := fiber.New()
	app.Get("/test", AuthRequired(stubAuthenticator{err: errors.New("redis: connection refused")}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Error)
}
