// Package apperr define la taxonomía de errores compartida por servicios, repos y handlers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound es el sentinel que cualquier NotFoundError satisface vía errors.Is.
var ErrNotFound = errors.New("not found")

// FieldError describe un problema de validación sobre un campo concreto del input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa errores de forma/rango del input (HTTP 400).
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.message()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.message() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) message() string {
	if strings.TrimSpace(e.Message) == "" {
		return "Datos inválidos"
	}
	return e.Message
}

// Add agrega un error de campo.
func (e *ValidationError) Add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// OrNil devuelve nil si no se acumularon errores de campo.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid crea un ValidationError de un solo campo.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

// NotFoundError indica que el recurso pedido no existe (HTTP 404).
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v: not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// QueryError envuelve fallas del datastore: constraint, sintaxis o conectividad (HTTP 500).
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return "query " + e.Op + ": " + e.Err.Error() }
func (e *QueryError) Unwrap() error { return e.Err }

// DependencyError es la falla de un efecto secundario (email, log de actividad).
// Nunca llega al cliente HTTP: se registra y se descarta.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string { return e.Dependency + ": " + e.Err.Error() }
func (e *DependencyError) Unwrap() error { return e.Err }

// IsValidation reporta si err es (o envuelve) un ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
