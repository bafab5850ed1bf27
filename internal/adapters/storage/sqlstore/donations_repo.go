package sqlstore

import (
	"context"
	"sort"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/donations"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

var donationColumns = []string{
	"id", "nombre", "email", "telefono", "monto", "metodo_pago", "mensaje",
	"estado", "referencia_pago", "fecha_donacion", "procesado",
	"created_at", "updated_at",
}

type DonationsRepo struct {
	db *sqldb.DB
}

func NewDonationsRepo(db *sqldb.DB) *DonationsRepo {
	return &DonationsRepo{db: db}
}

func (r *DonationsRepo) Create(ctx context.Context, d donations.Donation) (int64, error) {
	res, err := r.db.Exec(ctx, `
		INSERT INTO donaciones (
			nombre, email, telefono, monto, metodo_pago, mensaje,
			estado, fecha_donacion, procesado, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.Name,
		d.Email,
		nullString(d.Phone),
		d.Amount,
		string(d.Method),
		nullString(d.Message),
		string(d.Status),
		d.DonatedAt.UTC(),
		d.Processed,
		d.CreatedAt.UTC(),
		d.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.InsertedID, nil
}

func (r *DonationsRepo) GetByID(ctx context.Context, id int64) (donations.Donation, error) {
	row, ok, err := r.db.FetchOne(ctx, `
		SELECT `+columns(donationColumns)+`
		FROM donaciones
		WHERE id = ?
	`, id)
	if err != nil {
		return donations.Donation{}, err
	}
	if !ok {
		return donations.Donation{}, apperr.NotFound("Donación", id)
	}
	return donationFromRow(row), nil
}

func (r *DonationsRepo) List(ctx context.Context, f donations.ListFilter) ([]donations.Donation, int64, error) {
	where := sqldb.NewPredicate(r.db.Dialect()).
		Eq("estado", string(f.Status)).
		Eq("metodo_pago", string(f.Method)).
		Contains(f.Search, "nombre", "email")

	rows, total, err := sqldb.List(ctx, r.db, sqldb.ListSpec{
		From:    "donaciones",
		Columns: donationColumns,
		Where:   where,
		OrderBy: "fecha_donacion DESC, id DESC",
		Limit:   f.Page.Limit,
		Offset:  f.Page.Offset(),
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]donations.Donation, 0, len(rows))
	for _, row := range rows {
		out = append(out, donationFromRow(row))
	}
	return out, total, nil
}

// UpdateStatus fija el estado. referencia_pago sólo se pisa si viene informada;
// procesado refleja si la donación quedó completada.
func (r *DonationsRepo) UpdateStatus(ctx context.Context, id int64, status donations.Status, paymentRef string, at time.Time) error {
	res, err := r.db.Exec(ctx, `
		UPDATE donaciones
		SET
			estado = ?,
			referencia_pago = COALESCE(?, referencia_pago),
			procesado = ?,
			updated_at = ?
		WHERE id = ?
	`,
		string(status),
		nullString(paymentRef),
		status == donations.StatusCompleted,
		at.UTC(),
		id,
	)
	if err != nil {
		return err
	}
	if res.AffectedRows == 0 {
		return apperr.NotFound("Donación", id)
	}
	return nil
}

func (r *DonationsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM donaciones WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if res.AffectedRows == 0 {
		return apperr.NotFound("Donación", id)
	}
	return nil
}

// Stats: totales sobre todas las donaciones; por método y por mes sólo completadas.
func (r *DonationsRepo) Stats(ctx context.Context, since time.Time) (donations.Stats, error) {
	var st donations.Stats
	completed := string(donations.StatusCompleted)

	row, _, err := r.db.FetchOne(ctx, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(monto), 0) AS monto,
			COALESCE(SUM(CASE WHEN estado = ? THEN monto ELSE 0 END), 0) AS recaudado,
			COUNT(CASE WHEN estado = ? THEN 1 END) AS completadas,
			COUNT(CASE WHEN estado = ? THEN 1 END) AS pendientes
		FROM donaciones
	`, completed, completed, string(donations.StatusPending))
	if err != nil {
		return st, err
	}
	st.Count = row.Int64("total")
	st.Amount = round2(row.Float64("monto"))
	st.Raised = round2(row.Float64("recaudado"))
	st.Completed = row.Int64("completadas")
	st.Pending = row.Int64("pendientes")
	if st.Count > 0 {
		st.Average = round2(st.Amount / float64(st.Count))
	}

	rows, err := r.db.FetchAll(ctx, `
		SELECT metodo_pago, COUNT(*) AS cantidad, COALESCE(SUM(monto), 0) AS total
		FROM donaciones
		WHERE estado = ?
		GROUP BY metodo_pago
		ORDER BY total DESC, metodo_pago
	`, completed)
	if err != nil {
		return st, err
	}
	st.ByMethod = make([]donations.MethodTotal, 0, len(rows))
	for _, row := range rows {
		st.ByMethod = append(st.ByMethod, donations.MethodTotal{
			Method: donations.Method(row.String("metodo_pago")),
			Count:  row.Int64("cantidad"),
			Total:  round2(row.Float64("total")),
		})
	}

	rows, err = r.db.FetchAll(ctx, `
		SELECT fecha_donacion, monto
		FROM donaciones
		WHERE estado = ? AND fecha_donacion >= ?
	`, completed, since.UTC())
	if err != nil {
		return st, err
	}

	months := map[string]*donations.MonthTotal{}
	for _, row := range rows {
		key := monthKey(row.Time("fecha_donacion"))
		m, ok := months[key]
		if !ok {
			m = &donations.MonthTotal{Month: key}
			months[key] = m
		}
		m.Count++
		m.Total += row.Float64("monto")
	}
	st.ByMonth = make([]donations.MonthTotal, 0, len(months))
	for _, m := range months {
		m.Total = round2(m.Total)
		st.ByMonth = append(st.ByMonth, *m)
	}
	sort.Slice(st.ByMonth, func(i, j int) bool { return st.ByMonth[i].Month > st.ByMonth[j].Month })

	return st, nil
}

func donationFromRow(row sqldb.Row) donations.Donation {
	return donations.Donation{
		ID:         row.Int64("id"),
		Name:       row.String("nombre"),
		Email:      row.String("email"),
		Phone:      row.String("telefono"),
		Amount:     round2(row.Float64("monto")),
		Method:     donations.Method(row.String("metodo_pago")),
		Message:    row.String("mensaje"),
		Status:     donations.Status(row.String("estado")),
		PaymentRef: row.String("referencia_pago"),
		DonatedAt:  row.Time("fecha_donacion"),
		Processed:  row.Bool("procesado"),
		CreatedAt:  row.Time("created_at"),
		UpdatedAt:  row.Time("updated_at"),
	}
}
