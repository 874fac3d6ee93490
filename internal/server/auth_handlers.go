package server

import (
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/serializer"
	"blogapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Message string          `json:"message"`
	User    serializer.User `json:"user"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles user registration
// @Summary Register a user
// @Description Create an account with a unique username
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	creds, err := validation.ParseCredentials(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.userService.Register(c.UserContext(), creds.Username, creds.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		Message: "User created successfully",
		User:    serializer.NewUser(user),
	})
}

// Login handles user authentication
// @Summary Log in
// @Description Exchange credentials for a bearer access token
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	creds, err := validation.ParseCredentials(c)
	if err != nil {
		return respondError(c, err)
	}

	userID, err := s.userService.Authenticate(c.UserContext(), creds.Username, creds.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.tokenService.Issue(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{AccessToken: token})
}

// Logout revokes the presented access token
// @Summary Log out
// @Description Revoke the current access token until it expires
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return respondError(c, models.NewUnauthorizedError("Authentication required"))
	}

	if err := s.tokenService.Revoke(c.UserContext(), identity); err != nil {
		return respondError(c, err)
	}

	return c.JSON(MessageResponse{Message: "Successfully logged out"})
}
