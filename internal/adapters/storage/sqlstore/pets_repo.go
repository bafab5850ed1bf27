package sqlstore

import (
	"context"
	"sort"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/pets"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

var petColumns = []string{
	"id", "nombre", "tipo", "edad", "tamano", "descripcion", "imagen",
	"estado", "fecha_ingreso", "fecha_adopcion", "adoptante_id",
	"created_at", "updated_at",
}

type PetsRepo struct {
	db *sqldb.DB
}

func NewPetsRepo(db *sqldb.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (int64, error) {
	var id int64
	err := r.db.WithTx(ctx, func(q sqldb.Querier) error {
		res, err := q.Exec(ctx, `
			INSERT INTO mascotas (
				nombre, tipo, edad, tamano, descripcion, imagen,
				estado, fecha_ingreso, fecha_adopcion, adoptante_id,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			p.Name,
			string(p.Species),
			string(p.Age),
			string(p.Size),
			nullString(p.Description),
			nullString(p.Image),
			string(p.Status),
			p.IntakeAt.UTC(),
			nullTime(p.AdoptedAt),
			nullInt64(p.AdopterID),
			p.CreatedAt.UTC(),
			p.UpdatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		id = res.InsertedID
		return insertTraits(ctx, q, id, p.Traits)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	return r.db.WithTx(ctx, func(q sqldb.Querier) error {
		res, err := q.Exec(ctx, `
			UPDATE mascotas
			SET
				nombre = ?,
				tipo = ?,
				edad = ?,
				tamano = ?,
				descripcion = ?,
				imagen = ?,
				estado = ?,
				fecha_adopcion = ?,
				adoptante_id = ?,
				updated_at = ?
			WHERE id = ?
		`,
			p.Name,
			string(p.Species),
			string(p.Age),
			string(p.Size),
			nullString(p.Description),
			nullString(p.Image),
			string(p.Status),
			nullTime(p.AdoptedAt),
			nullInt64(p.AdopterID),
			p.UpdatedAt.UTC(),
			p.ID,
		)
		if err != nil {
			return err
		}
		if res.AffectedRows == 0 {
			return apperr.NotFound("Mascota", p.ID)
		}
		return replaceTraits(ctx, q, p.ID, p.Traits)
	})
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row, ok, err := r.db.FetchOne(ctx, `
		SELECT `+columns(petColumns)+`
		FROM mascotas
		WHERE id = ?
	`, id)
	if err != nil {
		return pets.Pet{}, err
	}
	if !ok {
		return pets.Pet{}, apperr.NotFound("Mascota", id)
	}

	p := petFromRow(row)
	traits, err := loadTraits(ctx, r.db, []int64{id})
	if err != nil {
		return pets.Pet{}, err
	}
	p.Traits = traitsOrEmpty(traits[id])
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, int64, error) {
	where := sqldb.NewPredicate(r.db.Dialect()).
		Eq("tipo", string(f.Species)).
		Eq("edad", string(f.Age)).
		Eq("tamano", string(f.Size)).
		Eq("estado", string(f.Status)).
		Contains(f.Search, "nombre", "descripcion")

	rows, total, err := sqldb.List(ctx, r.db, sqldb.ListSpec{
		From:    "mascotas",
		Columns: petColumns,
		Where:   where,
		OrderBy: "created_at DESC, id DESC",
		Limit:   f.Page.Limit,
		Offset:  f.Page.Offset(),
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]pets.Pet, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		p := petFromRow(row)
		out = append(out, p)
		ids = append(ids, p.ID)
	}

	traits, err := loadTraits(ctx, r.db, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Traits = traitsOrEmpty(traits[out[i].ID])
	}
	return out, total, nil
}

// Delete borra la mascota; las características caen por ON DELETE CASCADE.
func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM mascotas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if res.AffectedRows == 0 {
		return apperr.NotFound("Mascota", id)
	}
	return nil
}

func (r *PetsRepo) Stats(ctx context.Context, now time.Time) (pets.Stats, error) {
	var st pets.Stats

	row, _, err := r.db.FetchOne(ctx, `SELECT COUNT(*) AS total FROM mascotas`)
	if err != nil {
		return st, err
	}
	st.Total = row.Int64("total")

	groups := []struct {
		column string
		dst    *[]pets.Count
	}{
		{"tipo", &st.ByType},
		{"estado", &st.ByStatus},
		{"edad", &st.ByAge},
		{"tamano", &st.BySize},
	}
	for _, g := range groups {
		counts, err := r.countBy(ctx, g.column)
		if err != nil {
			return st, err
		}
		*g.dst = counts
	}

	monthStart := startOfMonth(now)
	row, _, err = r.db.FetchOne(ctx, `
		SELECT COUNT(*) AS total
		FROM mascotas
		WHERE estado = ? AND fecha_adopcion >= ?
	`, string(pets.StatusAdopted), monthStart)
	if err != nil {
		return st, err
	}
	st.AdoptedThisMonth = row.Int64("total")

	rows, err := r.db.FetchAll(ctx, `
		SELECT fecha_adopcion
		FROM mascotas
		WHERE estado = ? AND fecha_adopcion >= ?
	`, string(pets.StatusAdopted), monthStart.AddDate(0, -11, 0))
	if err != nil {
		return st, err
	}

	byMonth := map[string]int64{}
	for _, row := range rows {
		byMonth[monthKey(row.Time("fecha_adopcion"))]++
	}
	st.AdoptedByMonth = make([]pets.MonthCount, 0, len(byMonth))
	for m, n := range byMonth {
		st.AdoptedByMonth = append(st.AdoptedByMonth, pets.MonthCount{Month: m, Count: n})
	}
	sort.Slice(st.AdoptedByMonth, func(i, j int) bool {
		return st.AdoptedByMonth[i].Month > st.AdoptedByMonth[j].Month
	})

	return st, nil
}

// countBy agrupa por una columna fija del código (nunca input del usuario).
func (r *PetsRepo) countBy(ctx context.Context, column string) ([]pets.Count, error) {
	rows, err := r.db.FetchAll(ctx, `
		SELECT `+column+` AS clave, COUNT(*) AS cantidad
		FROM mascotas
		GROUP BY `+column+`
		ORDER BY cantidad DESC, clave
	`)
	if err != nil {
		return nil, err
	}

	out := make([]pets.Count, 0, len(rows))
	for _, row := range rows {
		out = append(out, pets.Count{Key: row.String("clave"), Count: row.Int64("cantidad")})
	}
	return out, nil
}

func petFromRow(row sqldb.Row) pets.Pet {
	return pets.Pet{
		ID:          row.Int64("id"),
		Name:        row.String("nombre"),
		Species:     pets.Species(row.String("tipo")),
		Age:         pets.Age(row.String("edad")),
		Size:        pets.Size(row.String("tamano")),
		Description: row.String("descripcion"),
		Image:       row.String("imagen"),
		Status:      pets.Status(row.String("estado")),
		IntakeAt:    row.Time("fecha_ingreso"),
		AdoptedAt:   row.TimePtr("fecha_adopcion"),
		AdopterID:   row.Int64Ptr("adoptante_id"),
		CreatedAt:   row.Time("created_at"),
		UpdatedAt:   row.Time("updated_at"),
	}
}

func traitsOrEmpty(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}
