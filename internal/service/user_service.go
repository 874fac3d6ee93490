// Package service holds the business rules between the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid username or password"

// UserService registers users and checks their credentials.
type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	// dummyHash is compared against when the username is unknown so that
	// both failure paths cost one bcrypt verification.
	dummyHash []byte
}

// NewUserService hashes new passwords with cost; out-of-range costs fall back to bcrypt.DefaultCost.
func NewUserService(userRepo repository.UserRepository, cost int) *UserService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		panic(err)
	}
	return &UserService{userRepo: userRepo, bcryptCost: cost, dummyHash: dummy}
}

// Register creates a user with a hashed password. Taken usernames yield a conflict.
func (s *UserService) Register(ctx context.Context, username, password string) (user *models.User, err error) {
	defer func() { observability.AuthEvents.WithLabelValues("register", outcome(err)).Inc() }()

	existing, err := s.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		return nil, models.NewConflictError("A user with that username already exists")
	case err != nil && !models.HasCode(err, models.CodeNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, models.NewFieldError("password", "Password must be at most 72 bytes")
		}
		return nil, models.NewInternalError(err)
	}

	user = &models.User{Username: username, Password: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate returns the id of the user whose credentials match.
// Unknown usernames and wrong passwords produce the same Unauthorized error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (userID uint, err error) {
	defer func() { observability.AuthEvents.WithLabelValues("login", outcome(err)).Inc() }()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !models.HasCode(err, models.CodeNotFound) {
			return 0, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return 0, models.NewUnauthorizedError(invalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return 0, models.NewUnauthorizedError(invalidCredentials)
	}
	return user.ID, nil
}

// outcome labels an auth or post metric: ok, rejected for client errors, error otherwise.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code != models.CodeInternal && appErr.Code != models.CodeUnavailable {
		return "rejected"
	}
	return "error"
}
