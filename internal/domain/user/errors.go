package user

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Store level outcomes. Stores return these; the service turns them into the
// typed errors below.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

type NotFoundError struct {
	ID      int64
	Email   string
	ByEmail bool
}

func NotFoundByID(id int64) *NotFoundError {
	return &NotFoundError{ID: id}
}

func NotFoundByEmail(email string) *NotFoundError {
	return &NotFoundError{Email: email, ByEmail: true}
}

func (e *NotFoundError) Error() string {
	if e.ByEmail {
		return "User not found with email: " + e.Email
	}

	return "User not found with id: " + strconv.FormatInt(e.ID, 10)
}

func (e *NotFoundError) Unwrap() error { return ErrUserNotFound }

type EmailConflictError struct {
	Email string
}

func (e *EmailConflictError) Error() string {
	return "User with email " + e.Email + " already exists"
}

func (e *EmailConflictError) Unwrap() error { return ErrEmailTaken }

// FieldErrors maps a JSON field name to its violation message.
type FieldErrors map[string]string

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return "validation failed: " + strings.Join(names, ", ")
}
