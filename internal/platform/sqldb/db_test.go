package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
)

func newMock(t *testing.T, d Dialect) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { raw.Close() })
	return New(raw, d), mock
}

func TestExecInsertReturnsLastInsertID(t *testing.T) {
	db, mock := newMock(t, SQLite)

	mock.ExpectExec("INSERT INTO mascotas (nombre) VALUES (?)").
		WithArgs("Rex").
		WillReturnResult(sqlmock.NewResult(7, 1))

	res, err := db.Exec(context.Background(), "INSERT INTO mascotas (nombre) VALUES (?)", "Rex")
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.InsertedID)
	assert.Equal(t, int64(1), res.AffectedRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecInsertPostgresUsesReturning(t *testing.T) {
	db, mock := newMock(t, Postgres)

	mock.ExpectQuery("INSERT INTO mascotas (nombre, tipo) VALUES ($1, $2) RETURNING id").
		WithArgs("Rex", "perro").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	res, err := db.Exec(context.Background(), "INSERT INTO mascotas (nombre, tipo) VALUES (?, ?)", "Rex", "perro")
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.InsertedID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecUpdateReportsAffectedRows(t *testing.T) {
	db, mock := newMock(t, Postgres)

	mock.ExpectExec("UPDATE contactos SET respondido = $1 WHERE id = $2").
		WithArgs(true, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := db.Exec(context.Background(), "UPDATE contactos SET respondido = ? WHERE id = ?", true, int64(3))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.InsertedID)
	assert.Equal(t, int64(1), res.AffectedRows)
}

func TestFetchAllWithoutMatchesReturnsEmptySlice(t *testing.T) {
	db, mock := newMock(t, SQLite)

	mock.ExpectQuery("SELECT id FROM mascotas WHERE tipo = ?").
		WithArgs("gato").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := db.FetchAll(context.Background(), "SELECT id FROM mascotas WHERE tipo = ?", "gato")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestFetchAllMapsColumns(t *testing.T) {
	db, mock := newMock(t, SQLite)

	mock.ExpectQuery("SELECT id, nombre, monto FROM donaciones").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "monto"}).
			AddRow(int64(1), []byte("Ana"), "150.50").
			AddRow(int64(2), "Luis", 10.0))

	rows, err := db.FetchAll(context.Background(), "SELECT id, nombre, monto FROM donaciones")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", rows[0].String("nombre"))
	assert.Equal(t, 150.5, rows[0].Float64("monto"))
	assert.Equal(t, int64(2), rows[1].Int64("id"))
	assert.Equal(t, 10.0, rows[1].Float64("monto"))
}

func TestFetchOneAbsent(t *testing.T) {
	db, mock := newMock(t, SQLite)

	mock.ExpectQuery("SELECT * FROM mascotas WHERE id = ?").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, ok, err := db.FetchOne(context.Background(), "SELECT * FROM mascotas WHERE id = ?", int64(999))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, row)
}

func TestFailuresAreQueryErrors(t *testing.T) {
	db, mock := newMock(t, SQLite)
	boom := errors.New("no such table: mascotas")

	mock.ExpectQuery("SELECT * FROM mascotas").WillReturnError(boom)
	mock.ExpectExec("DELETE FROM mascotas WHERE id = ?").WithArgs(1).WillReturnError(boom)

	_, err := db.FetchAll(context.Background(), "SELECT * FROM mascotas")
	var qe *apperr.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "query", qe.Op)
	assert.ErrorIs(t, err, boom)

	_, err = db.Exec(context.Background(), "DELETE FROM mascotas WHERE id = ?", 1)
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "exec", qe.Op)
}

func TestWithTxCommits(t *testing.T) {
	db, mock := newMock(t, SQLite)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM caracteristicas_mascotas WHERE mascota_id = ?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := db.WithTx(context.Background(), func(q Querier) error {
		_, err := q.Exec(context.Background(), "DELETE FROM caracteristicas_mascotas WHERE mascota_id = ?", int64(1))
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t, SQLite)
	fail := errors.New("trait insert failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.WithTx(context.Background(), func(q Querier) error { return fail })
	assert.ErrorIs(t, err, fail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db, mock := newMock(t, SQLite)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = db.WithTx(context.Background(), func(q Querier) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRebind(t *testing.T) {
	cases := []struct {
		name string
		d    Dialect
		in   string
		want string
	}{
		{"sqlite untouched", SQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{"postgres numbered", Postgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"postgres literal kept", Postgres, "SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
		{"no placeholders", Postgres, "SELECT 1", "SELECT 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.d.Rebind(tc.in))
		})
	}
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("pgx")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name)
	assert.Equal(t, "ILIKE", d.Like())

	d, err = DialectFor("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name)

	_, err = DialectFor("mysql")
	assert.Error(t, err)
}
