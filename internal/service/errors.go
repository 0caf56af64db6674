package service

import (
	"errors"
	"fmt"

	"futurama-api/internal/repository"
)

// Категории ошибок, которые транспорт переводит в HTTP статусы.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrIntegrity     = errors.New("integrity error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrValidation    = errors.New("validation error")
)

// Error ошибка с текстом для клиента.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// FieldError ошибка валидации отдельного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError набор ошибок валидации запроса.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("%s: %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("%d invalid fields", len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// translate переводит ошибки хранилища в ошибки сервиса.
// Все, что не распознано, остается внутренней ошибкой.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return newError(ErrNotFound, entity+" not found")
	case errors.Is(err, repository.ErrAlreadyExists):
		return newError(ErrAlreadyExists, entity+" already exists")
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return newError(ErrIntegrity, "Integrity error")
	default:
		return fmt.Errorf("%s storage: %w", entity, err)
	}
}

func isAlreadyExists(err error) bool {
	return errors.Is(err, repository.ErrAlreadyExists)
}
