package models

import "errors"

// Доменные ошибки. Слой хранилища и сервисы оборачивают их через %w,
// HTTP-слой сопоставляет их со статусами ответа.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrAlreadyMember       = errors.New("already a participant")
	ErrNotMember           = errors.New("not a participant")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrValidation          = errors.New("validation failed")
	ErrNotFoundAfterInsert = errors.New("notification not found after insert")
)
