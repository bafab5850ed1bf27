package httpresp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
)

const maxBody = 1 << 20

// DecodeJSON decodifica el body en v. Un body inválido es un ValidationError.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &apperr.ValidationError{Message: "El cuerpo de la petición está vacío"}
		}
		return &apperr.ValidationError{Message: "JSON inválido"}
	}
	return nil
}

// PathID lee un id numérico positivo de la ruta.
func PathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Invalid(name, "debe ser un entero positivo")
	}
	return id, nil
}
