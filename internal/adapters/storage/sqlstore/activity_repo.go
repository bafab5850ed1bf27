package sqlstore

import (
	"context"
	"sort"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

type ActivityRepo struct {
	db *sqldb.DB
}

func NewActivityRepo(db *sqldb.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Append(ctx context.Context, e activitylog.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO logs (nivel, mensaje, usuario_id, ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		string(e.Level),
		e.Message,
		nullInt64(e.Origin.UserID),
		nullString(e.Origin.IP),
		nullString(e.Origin.UserAgent),
		e.CreatedAt.UTC(),
	)
	return err
}

func (r *ActivityRepo) List(ctx context.Context, f activitylog.ListFilter) ([]activitylog.Entry, int64, error) {
	where := sqldb.NewPredicate(r.db.Dialect()).
		Eq("l.nivel", string(f.Level)).
		Since("l.created_at", f.From).
		Until("l.created_at", f.To)

	rows, total, err := sqldb.List(ctx, r.db, sqldb.ListSpec{
		From: "logs l LEFT JOIN usuarios u ON u.id = l.usuario_id",
		Columns: []string{
			"l.id", "l.nivel", "l.mensaje", "l.usuario_id", "l.ip", "l.user_agent",
			"l.created_at", "u.nombre AS usuario_nombre",
		},
		Where:   where,
		OrderBy: "l.created_at DESC, l.id DESC",
		Limit:   f.Page.Limit,
		Offset:  f.Page.Offset(),
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]activitylog.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, activitylog.Entry{
			ID:      row.Int64("id"),
			Level:   activitylog.Level(row.String("nivel")),
			Message: row.String("mensaje"),
			Origin: activitylog.Origin{
				IP:        row.String("ip"),
				UserAgent: row.String("user_agent"),
				UserID:    row.Int64Ptr("usuario_id"),
			},
			UserName:  row.String("usuario_nombre"),
			CreatedAt: row.Time("created_at"),
		})
	}
	return out, total, nil
}

// CountByDay agrupa en Go: DATE() no es portable entre motores y los
// timestamps se guardan en UTC.
func (r *ActivityRepo) CountByDay(ctx context.Context, since time.Time) ([]activitylog.DailyCount, error) {
	rows, err := r.db.FetchAll(ctx, `
		SELECT nivel, created_at
		FROM logs
		WHERE created_at >= ?
	`, since.UTC())
	if err != nil {
		return nil, err
	}

	type key struct {
		date  string
		level activitylog.Level
	}
	counts := map[key]int64{}
	for _, row := range rows {
		k := key{
			date:  row.Time("created_at").Format(time.DateOnly),
			level: activitylog.Level(row.String("nivel")),
		}
		counts[k]++
	}

	out := make([]activitylog.DailyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, activitylog.DailyCount{Date: k.date, Level: k.level, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Level < out[j].Level
	})
	return out, nil
}

func (r *ActivityRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM logs WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.AffectedRows, nil
}
