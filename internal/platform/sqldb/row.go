package sqldb

import (
	"time"

	"github.com/spf13/cast"
)

// Row es una fila como mapa columna → valor crudo del driver.
//
// Los accessors normalizan las diferencias entre drivers: pgx devuelve NUMERIC
// como string y SQLite devuelve BOOLEAN como int64. Un valor NULL o ausente
// produce el zero value (o nil en las variantes puntero).
type Row map[string]any

func (r Row) Int64(col string) int64 {
	v, _ := cast.ToInt64E(r[col])
	return v
}

func (r Row) Int64Ptr(col string) *int64 {
	if r[col] == nil {
		return nil
	}
	v, err := cast.ToInt64E(r[col])
	if err != nil {
		return nil
	}
	return &v
}

func (r Row) String(col string) string {
	if r[col] == nil {
		return ""
	}
	return cast.ToString(r[col])
}

func (r Row) Float64(col string) float64 {
	v, _ := cast.ToFloat64E(r[col])
	return v
}

func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case int64:
		return v != 0
	case int32:
		return v != 0
	}
	v, _ := cast.ToBoolE(r[col])
	return v
}

func (r Row) Time(col string) time.Time {
	if r[col] == nil {
		return time.Time{}
	}
	v, err := cast.ToTimeE(r[col])
	if err != nil {
		return time.Time{}
	}
	return v.UTC()
}

func (r Row) TimePtr(col string) *time.Time {
	t := r.Time(col)
	if t.IsZero() {
		return nil
	}
	return &t
}
