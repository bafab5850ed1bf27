// Package sqldb contiene las primitivas de consulta (execute / fetch-many / fetch-one),
// el manejo de transacciones y el armado de listados filtrados y paginados.
//
// Invariante para todo caller: los valores controlados por el usuario viajan SIEMPRE
// como argumentos posicionales, nunca interpolados en el texto del statement.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
)

// Result es el resultado de una mutación.
type Result struct {
	InsertedID   int64
	AffectedRows int64
}

// Querier es la superficie común de *DB y de una transacción en curso.
type Querier interface {
	Exec(ctx context.Context, stmt string, args ...any) (Result, error)
	FetchAll(ctx context.Context, stmt string, args ...any) ([]Row, error)
	FetchOne(ctx context.Context, stmt string, args ...any) (Row, bool, error)
	Dialect() Dialect
}

// conn es lo que comparten *sql.DB y *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type runner struct {
	conn    conn
	dialect Dialect
}

// DB es el handle de acceso a datos. Se construye explícitamente y se inyecta
// en cada repositorio; no hay singleton de proceso.
type DB struct {
	runner
	raw *sql.DB
}

func New(raw *sql.DB, d Dialect) *DB {
	return &DB{runner: runner{conn: raw, dialect: d}, raw: raw}
}

// Raw expone el *sql.DB subyacente (ping, stats, cierre).
func (db *DB) Raw() *sql.DB { return db.raw }

func (db *DB) Close() error { return db.raw.Close() }

func (db *DB) PingContext(ctx context.Context) error { return db.raw.PingContext(ctx) }

// WithTx corre fn dentro de una transacción: commit si fn devuelve nil,
// rollback si devuelve error o entra en panic.
func (db *DB) WithTx(ctx context.Context, fn func(q Querier) error) (err error) {
	tx, err := db.raw.BeginTx(ctx, nil)
	if err != nil {
		return &apperr.QueryError{Op: "begin", Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(runner{conn: tx, dialect: db.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &apperr.QueryError{Op: "commit", Err: err}
	}
	return nil
}

func (r runner) Dialect() Dialect { return r.dialect }

// Exec ejecuta insert/update/delete. En PostgreSQL los INSERT se completan con
// RETURNING id para poder informar el id generado.
func (r runner) Exec(ctx context.Context, stmt string, args ...any) (Result, error) {
	if r.dialect.returningID && isInsert(stmt) {
		var id int64
		q := r.dialect.Rebind(strings.TrimRight(strings.TrimSpace(stmt), ";") + " RETURNING id")
		if err := r.conn.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
			return Result{}, &apperr.QueryError{Op: "exec", Err: err}
		}
		return Result{InsertedID: id, AffectedRows: 1}, nil
	}

	res, err := r.conn.ExecContext(ctx, r.dialect.Rebind(stmt), args...)
	if err != nil {
		return Result{}, &apperr.QueryError{Op: "exec", Err: err}
	}

	var out Result
	if isInsert(stmt) {
		if id, err := res.LastInsertId(); err == nil {
			out.InsertedID = id
		}
	}
	if n, err := res.RowsAffected(); err == nil {
		out.AffectedRows = n
	}
	return out, nil
}

// FetchAll devuelve todas las filas como mapas columna → valor.
// Sin coincidencias devuelve un slice vacío, no nil ni error.
func (r runner) FetchAll(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	rows, err := r.conn.QueryContext(ctx, r.dialect.Rebind(stmt), args...)
	if err != nil {
		return nil, &apperr.QueryError{Op: "query", Err: err}
	}
	defer rows.Close()

	out, err := collect(rows, 0)
	if err != nil {
		return nil, &apperr.QueryError{Op: "scan", Err: err}
	}
	return out, nil
}

// FetchOne devuelve la primera fila; ok=false si no hay ninguna.
func (r runner) FetchOne(ctx context.Context, stmt string, args ...any) (Row, bool, error) {
	rows, err := r.conn.QueryContext(ctx, r.dialect.Rebind(stmt), args...)
	if err != nil {
		return nil, false, &apperr.QueryError{Op: "query", Err: err}
	}
	defer rows.Close()

	out, err := collect(rows, 1)
	if err != nil {
		return nil, false, &apperr.QueryError{Op: "scan", Err: err}
	}
	if len(out) == 0 {
		return nil, false, nil
	}
	return out[0], true, nil
}

// collect lee hasta max filas (0 = todas).
func collect(rows *sql.Rows, max int) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = normalize(vals[i])
		}
		out = append(out, row)

		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, rows.Err()
}

// normalize copia los []byte: el driver puede reutilizar el buffer tras Next().
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func isInsert(stmt string) bool {
	s := strings.TrimSpace(stmt)
	return len(s) >= 6 && strings.EqualFold(s[:6], "INSERT")
}
