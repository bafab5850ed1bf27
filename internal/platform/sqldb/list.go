package sqldb

import (
	"context"
	"strings"
)

// ListSpec describe un listado paginado: una tabla, sus columnas, un predicado
// opcional y un orden estable. El conteo y la página comparten el mismo predicado.
type ListSpec struct {
	From    string
	Columns []string
	Where   *Predicate
	OrderBy string
	Limit   int
	Offset  int64
}

// List ejecuta el conteo total y la consulta de la página.
// total refleja todas las filas que cumplen el predicado, no sólo la página.
func List(ctx context.Context, q Querier, spec ListSpec) ([]Row, int64, error) {
	where, args := spec.Where.Where()

	countRow, _, err := q.FetchOne(ctx, "SELECT COUNT(*) AS total FROM "+spec.From+where, args...)
	if err != nil {
		return nil, 0, err
	}
	total := countRow.Int64("total")
	if spec.Limit > 0 && spec.Offset > 0 && spec.Offset >= total {
		return []Row{}, total, nil
	}

	cols := "*"
	if len(spec.Columns) > 0 {
		cols = strings.Join(spec.Columns, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(spec.From)
	sb.WriteString(where)
	if spec.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(spec.OrderBy)
	}

	_, pageArgs := spec.Where.Where()
	if spec.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		pageArgs = append(pageArgs, spec.Limit, spec.Offset)
	}

	rows, err := q.FetchAll(ctx, sb.String(), pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
