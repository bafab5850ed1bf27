// Package httpresp escribe el sobre JSON común {success, message, data, errors}
// y traduce los errores de dominio a códigos HTTP.
package httpresp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/logger"
)

// Envelope es la forma de toda respuesta de la API.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	// Error lleva el detalle interno; sólo se completa en desarrollo.
	Error string `json:"error,omitempty"`
}

type Writer struct {
	log          logger.Logger
	exposeErrors bool
}

// New crea un Writer. exposeErrors=true agrega el detalle de errores 500 (sólo desarrollo).
func New(log logger.Logger, exposeErrors bool) *Writer {
	if log == nil {
		log = logger.Nop()
	}
	return &Writer{log: log, exposeErrors: exposeErrors}
}

func (w *Writer) OK(rw http.ResponseWriter, data any) {
	JSON(rw, http.StatusOK, Envelope{Success: true, Data: data})
}

func (w *Writer) Created(rw http.ResponseWriter, message string, data any) {
	JSON(rw, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func (w *Writer) Message(rw http.ResponseWriter, message string) {
	JSON(rw, http.StatusOK, Envelope{Success: true, Message: message})
}

// Fail escribe status + mensaje sin pasar por el mapeo de errores.
func (w *Writer) Fail(rw http.ResponseWriter, status int, message string) {
	JSON(rw, status, Envelope{Success: false, Message: message})
}

// Err mapea err: ValidationError → 400, ErrNotFound → 404, resto → 500.
func (w *Writer) Err(rw http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := apperr.IsValidation(err); ok {
		JSON(rw, http.StatusBadRequest, Envelope{
			Success: false,
			Message: messageOf(ve),
			Errors:  ve.Fields,
		})
		return
	}

	if errors.Is(err, apperr.ErrNotFound) {
		JSON(rw, http.StatusNotFound, Envelope{Success: false, Message: notFoundMessage(err)})
		return
	}

	w.log.Error("request failed", map[string]any{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": middleware.GetReqID(r.Context()),
		"error":      err,
	})

	env := Envelope{Success: false, Message: "Error interno del servidor"}
	if w.exposeErrors {
		env.Error = err.Error()
	}
	JSON(rw, http.StatusInternalServerError, env)
}

// JSON es el writeJSON de siempre, exportado para middlewares.
func JSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func messageOf(ve *apperr.ValidationError) string {
	if ve.Message != "" {
		return ve.Message
	}
	return "Datos inválidos"
}

func notFoundMessage(err error) string {
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) && nf.Resource != "" {
		return nf.Resource + " no encontrado"
	}
	return "Recurso no encontrado"
}
