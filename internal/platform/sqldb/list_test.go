package sqldb

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateSkipsAbsentFilters(t *testing.T) {
	p := NewPredicate(SQLite).
		Eq("tipo", "").
		Eq("edad", "  ").
		EqBool("respondido", nil).
		Contains("", "nombre").
		Since("fecha", nil)

	where, args := p.Where()
	assert.Equal(t, "", where)
	assert.Nil(t, args)
	assert.Equal(t, 0, p.Len())
}

func TestPredicateConjunction(t *testing.T) {
	yes := true
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	p := NewPredicate(Postgres).
		Eq("tipo", "perro").
		EqBool("respondido", &yes).
		Contains("an_a%", "nombre", "email").
		Since("fecha", &since)

	where, args := p.Where()
	assert.Equal(t,
		` WHERE tipo = ? AND respondido = ? AND (nombre ILIKE ? ESCAPE '\' OR email ILIKE ? ESCAPE '\') AND fecha >= ?`,
		where)
	assert.Equal(t, []any{"perro", true, `%an\_a\%%`, `%an\_a\%%`, since}, args)
}

func TestPredicateWhereReturnsCopies(t *testing.T) {
	p := NewPredicate(SQLite).Eq("tipo", "gato")
	_, a := p.Where()
	a = append(a, 20, 0)
	_, b := p.Where()
	assert.Len(t, b, 1)
	assert.Len(t, a, 3)
}

func TestListRunsCountAndPage(t *testing.T) {
	db, mock := newMock(t, Postgres)

	mock.ExpectQuery("SELECT COUNT(*) AS total FROM mascotas WHERE tipo = $1 AND estado = $2").
		WithArgs("perro", "disponible").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(45)))
	mock.ExpectQuery("SELECT id, nombre FROM mascotas WHERE tipo = $1 AND estado = $2 ORDER BY fecha_ingreso DESC, id DESC LIMIT $3 OFFSET $4").
		WithArgs("perro", "disponible", 20, 40).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}).
			AddRow(int64(5), "Rex").
			AddRow(int64(4), "Toby").
			AddRow(int64(3), "Nala").
			AddRow(int64(2), "Kira").
			AddRow(int64(1), "Bobby"))

	rows, total, err := List(context.Background(), db, ListSpec{
		From:    "mascotas",
		Columns: []string{"id", "nombre"},
		Where:   NewPredicate(Postgres).Eq("tipo", "perro").Eq("estado", "disponible"),
		OrderBy: "fecha_ingreso DESC, id DESC",
		Limit:   20,
		Offset:  40,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Len(t, rows, 5)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithoutPredicate(t *testing.T) {
	db, mock := newMock(t, SQLite)

	mock.ExpectQuery("SELECT COUNT(*) AS total FROM contactos").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT * FROM contactos ORDER BY fecha_envio DESC, id DESC LIMIT ? OFFSET ?").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, total, err := List(context.Background(), db, ListSpec{
		From:    "contactos",
		OrderBy: "fecha_envio DESC, id DESC",
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListPastLastPageSkipsPageQuery(t *testing.T) {
	db, mock := newMock(t, Postgres)

	mock.ExpectQuery("SELECT COUNT(*) AS total FROM mascotas").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(1)))

	rows, total, err := List(context.Background(), db, ListSpec{
		From:    "mascotas",
		OrderBy: "created_at DESC, id DESC",
		Limit:   20,
		Offset:  math.MaxInt64,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowAccessors(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := Row{
		"id":         int64(3),
		"monto":      "25.75",
		"respondido": int64(1),
		"fecha":      now,
		"vacio":      nil,
	}

	assert.Equal(t, int64(3), r.Int64("id"))
	assert.Equal(t, 25.75, r.Float64("monto"))
	assert.True(t, r.Bool("respondido"))
	assert.Equal(t, now, r.Time("fecha"))
	assert.Nil(t, r.TimePtr("vacio"))
	assert.Nil(t, r.Int64Ptr("vacio"))
	assert.Equal(t, "", r.String("vacio"))
	assert.Equal(t, "", r.String("missing"))
}
