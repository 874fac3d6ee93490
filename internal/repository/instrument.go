// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
)

// instrument opens a span and a latency timer for one repository call.
// Call the returned func with the call's final error.
func instrument(ctx context.Context, db *gorm.DB, method, table string) (context.Context, func(error)) {
	stop := observability.TrackQuery(method, table)
	ctx, end := observability.StartRepositorySpan(ctx, db.Dialector.Name(), method, table)
	return ctx, func(err error) {
		stop()
		// Not-found and ownership rejections are expected outcomes, not span errors.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code != models.CodeInternal {
			err = nil
		}
		end(err)
	}
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// isForeignKeyError checks if a DB error is a foreign key violation.
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL foreign key violation SQLSTATE 23503
	return strings.Contains(msg, "foreign key") || strings.Contains(msg, "23503")
}
