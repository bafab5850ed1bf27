package sqldb

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect encapsula las diferencias entre motores que afectan al SQL generado.
// Todos los statements del repo se escriben con placeholders "?" y se reescriben acá.
type Dialect struct {
	Name string

	// numbered: placeholders $1..$N (PostgreSQL) en vez de "?".
	numbered bool
	// returningID: INSERT ... RETURNING id en lugar de LastInsertId (pgx no lo soporta).
	returningID bool
	// like es el operador de búsqueda case-insensitive.
	like string
}

var (
	Postgres = Dialect{Name: "postgres", numbered: true, returningID: true, like: "ILIKE"}
	SQLite   = Dialect{Name: "sqlite", like: "LIKE"}
)

// DialectFor resuelve el dialecto a partir del nombre de driver configurado.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("sqldb: unsupported driver %q", driver)
	}
}

// Like devuelve el operador de substring del motor (ILIKE en PostgreSQL).
func (d Dialect) Like() string {
	if d.like == "" {
		return "LIKE"
	}
	return d.like
}

// Rebind convierte "?" en "$N" cuando el motor usa placeholders numerados.
// Los "?" dentro de literales entre comillas simples se respetan.
func (d Dialect) Rebind(stmt string) string {
	if !d.numbered || !strings.Contains(stmt, "?") {
		return stmt
	}

	var sb strings.Builder
	sb.Grow(len(stmt) + 16)

	n := 0
	inLiteral := false
	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			sb.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
