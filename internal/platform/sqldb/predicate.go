package sqldb

import (
	"strings"
	"time"
)

// Predicate arma una condición conjuntiva a partir de filtros opcionales.
// Un filtro ausente (valor vacío o nil) no agrega cláusula.
//
// Los nombres de columna son constantes del código que llama, nunca input del usuario;
// los valores siempre se agregan como argumentos posicionales.
type Predicate struct {
	dialect Dialect
	clauses []string
	args    []any
}

func NewPredicate(d Dialect) *Predicate {
	return &Predicate{dialect: d}
}

// Eq agrega "column = ?" si value no está vacío.
func (p *Predicate) Eq(column, value string) *Predicate {
	value = strings.TrimSpace(value)
	if value == "" {
		return p
	}
	return p.add(column+" = ?", value)
}

// EqBool agrega "column = ?" si value no es nil.
func (p *Predicate) EqBool(column string, value *bool) *Predicate {
	if value == nil {
		return p
	}
	return p.add(column+" = ?", *value)
}

// Contains agrega una búsqueda por substring sobre una o más columnas:
// (a LIKE ? OR b LIKE ?). Los comodines del término se escapan.
func (p *Predicate) Contains(value string, columns ...string) *Predicate {
	value = strings.TrimSpace(value)
	if value == "" || len(columns) == 0 {
		return p
	}

	term := "%" + escapeLike(value) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, c+" "+p.dialect.Like()+` ? ESCAPE '\'`)
		args = append(args, term)
	}
	return p.add("("+strings.Join(parts, " OR ")+")", args...)
}

// Since agrega "column >= ?" si t no es nil.
func (p *Predicate) Since(column string, t *time.Time) *Predicate {
	if t == nil {
		return p
	}
	return p.add(column+" >= ?", t.UTC())
}

// Until agrega "column <= ?" si t no es nil.
func (p *Predicate) Until(column string, t *time.Time) *Predicate {
	if t == nil {
		return p
	}
	return p.add(column+" <= ?", t.UTC())
}

// Where devuelve " WHERE ..." (o "" si no hay filtros) y sus argumentos.
// Cada llamada devuelve una copia de los argumentos, así el conteo y la página
// pueden usar el mismo predicado sin compartir slices.
func (p *Predicate) Where() (string, []any) {
	if p == nil || len(p.clauses) == 0 {
		return "", nil
	}
	args := make([]any, len(p.args))
	copy(args, p.args)
	return " WHERE " + strings.Join(p.clauses, " AND "), args
}

// Len es la cantidad de cláusulas presentes.
func (p *Predicate) Len() int {
	if p == nil {
		return 0
	}
	return len(p.clauses)
}

func (p *Predicate) add(clause string, args ...any) *Predicate {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
	return p
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
