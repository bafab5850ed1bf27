package sqlstore

import (
	"context"
	"strings"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

// loadTraits trae las características de varias mascotas en una sola consulta y
// las agrupa por mascota, en orden de inserción. No hay concatenación en SQL:
// un valor con comas vuelve intacto.
func loadTraits(ctx context.Context, q sqldb.Querier, petIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(petIDs))
	if len(petIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(petIDs))
	for i, id := range petIDs {
		args[i] = id
	}

	rows, err := q.FetchAll(ctx, `
		SELECT mascota_id, caracteristica
		FROM caracteristicas_mascotas
		WHERE mascota_id IN (`+placeholders(len(petIDs))+`)
		ORDER BY mascota_id, id
	`, args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		id := row.Int64("mascota_id")
		out[id] = append(out[id], row.String("caracteristica"))
	}
	return out, nil
}

func insertTraits(ctx context.Context, q sqldb.Querier, petID int64, traits []string) error {
	for _, t := range traits {
		if _, err := q.Exec(ctx, `
			INSERT INTO caracteristicas_mascotas (mascota_id, caracteristica)
			VALUES (?, ?)
		`, petID, t); err != nil {
			return err
		}
	}
	return nil
}

// replaceTraits reemplaza el set completo. Debe correr dentro de la misma
// transacción que el update de la mascota.
func replaceTraits(ctx context.Context, q sqldb.Querier, petID int64, traits []string) error {
	if _, err := q.Exec(ctx, `DELETE FROM caracteristicas_mascotas WHERE mascota_id = ?`, petID); err != nil {
		return err
	}
	return insertTraits(ctx, q, petID, traits)
}

// placeholders devuelve "?, ?, ..." con n marcadores.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
