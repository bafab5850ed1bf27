// Package pagination normaliza page/limit del query string y arma el bloque
// de metadatos que acompaña a todo listado.
package pagination

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Defaults permite ajustar el límite por defecto y el máximo desde config.
type Defaults struct {
	Limit    int
	MaxLimit int
}

// Page es una página ya validada: page ≥ 1, 1 ≤ limit ≤ max.
type Page struct {
	Number int
	Limit  int
}

// Offset es (page-1)*limit en int64. Si no entra, satura en math.MaxInt64:
// una página tan lejana nunca tiene filas.
func (p Page) Offset() int64 {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	n, l := int64(p.Number-1), int64(p.Limit)
	if n > math.MaxInt64/l {
		return math.MaxInt64
	}
	return n * l
}

// Parse lee "page" y "limit" del query string.
//
//   - ausente o no numérico → default (page=1, limit=Defaults.Limit)
//   - cero, negativo o fuera de rango → ValidationError
//   - limit por encima del máximo → se recorta al máximo
func Parse(q url.Values, d Defaults) (Page, error) {
	if d.Limit <= 0 {
		d.Limit = DefaultLimit
	}
	if d.MaxLimit <= 0 {
		d.MaxLimit = MaxLimit
	}
	if d.Limit > d.MaxLimit {
		d.Limit = d.MaxLimit
	}

	ve := &apperr.ValidationError{Message: "Parámetros de paginación inválidos"}

	page, ok, overflow := parseInt(q.Get("page"))
	switch {
	case overflow:
		ve.Add("page", "está fuera de rango")
	case !ok:
		page = DefaultPage
	case page < 1:
		ve.Add("page", "debe ser un entero mayor o igual a 1")
	}

	limit, ok, overflow := parseInt(q.Get("limit"))
	switch {
	case overflow:
		ve.Add("limit", "está fuera de rango")
	case !ok:
		limit = d.Limit
	case limit < 1:
		ve.Add("limit", "debe ser un entero mayor o igual a 1")
	case limit > d.MaxLimit:
		limit = d.MaxLimit
	}

	if err := ve.OrNil(); err != nil {
		return Page{}, err
	}
	return Page{Number: page, Limit: limit}, nil
}

// parseInt distingue "no es un número" (ok=false) de "no entra en int" (overflow).
func parseInt(s string) (n int, ok, overflow bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, errors.Is(err, strconv.ErrRange)
	}
	return n, true, false
}

// Meta es el bloque de paginación de las respuestas de listado.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewMeta calcula totalPages = ceil(total/limit) y los flags de navegación.
func NewMeta(p Page, total int64) Meta {
	totalPages := 0
	if p.Limit > 0 && total > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		Page:       p.Number,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Number < totalPages,
		HasPrev:    p.Number > 1,
	}
}
