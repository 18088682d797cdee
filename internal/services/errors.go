package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by lookups of a post or user that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated is returned when an operation needs a logged in user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the caller does not own the post.
	ErrForbidden = errors.New("forbidden")
)

// FieldError is a validation failure tied to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
