package sqlstore

import (
	"context"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/contacts"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

var contactColumns = []string{
	"id", "nombre", "email", "telefono", "mensaje", "estado",
	"fecha_contacto", "respondido", "fecha_respuesta", "observaciones",
	"created_at", "updated_at",
}

type ContactsRepo struct {
	db *sqldb.DB
}

func NewContactsRepo(db *sqldb.DB) *ContactsRepo {
	return &ContactsRepo{db: db}
}

func (r *ContactsRepo) Create(ctx context.Context, c contacts.Contact) (int64, error) {
	res, err := r.db.Exec(ctx, `
		INSERT INTO contactos (
			nombre, email, telefono, mensaje, estado,
			fecha_contacto, respondido, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.Name,
		c.Email,
		nullString(c.Phone),
		c.Message,
		string(c.Status),
		c.ContactedAt.UTC(),
		c.Responded,
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.InsertedID, nil
}

func (r *ContactsRepo) GetByID(ctx context.Context, id int64) (contacts.Contact, error) {
	row, ok, err := r.db.FetchOne(ctx, `
		SELECT `+columns(contactColumns)+`
		FROM contactos
		WHERE id = ?
	`, id)
	if err != nil {
		return contacts.Contact{}, err
	}
	if !ok {
		return contacts.Contact{}, apperr.NotFound("Contacto", id)
	}
	return contactFromRow(row), nil
}

func (r *ContactsRepo) List(ctx context.Context, f contacts.ListFilter) ([]contacts.Contact, int64, error) {
	where := sqldb.NewPredicate(r.db.Dialect()).
		Eq("estado", string(f.Status)).
		EqBool("respondido", f.Responded)

	rows, total, err := sqldb.List(ctx, r.db, sqldb.ListSpec{
		From:    "contactos",
		Columns: contactColumns,
		Where:   where,
		OrderBy: "fecha_contacto DESC, id DESC",
		Limit:   f.Page.Limit,
		Offset:  f.Page.Offset(),
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]contacts.Contact, 0, len(rows))
	for _, row := range rows {
		out = append(out, contactFromRow(row))
	}
	return out, total, nil
}

// MarkResponded es idempotente: repetirla vuelve a fijar la fecha de respuesta.
// Observaciones vacías conservan las anteriores.
func (r *ContactsRepo) MarkResponded(ctx context.Context, id int64, notes string, at time.Time) error {
	res, err := r.db.Exec(ctx, `
		UPDATE contactos
		SET
			respondido = ?,
			estado = ?,
			fecha_respuesta = ?,
			observaciones = COALESCE(?, observaciones),
			updated_at = ?
		WHERE id = ?
	`,
		true,
		string(contacts.StatusResponded),
		at.UTC(),
		nullString(notes),
		at.UTC(),
		id,
	)
	if err != nil {
		return err
	}
	if res.AffectedRows == 0 {
		return apperr.NotFound("Contacto", id)
	}
	return nil
}

func (r *ContactsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM contactos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if res.AffectedRows == 0 {
		return apperr.NotFound("Contacto", id)
	}
	return nil
}

func contactFromRow(row sqldb.Row) contacts.Contact {
	return contacts.Contact{
		ID:          row.Int64("id"),
		Name:        row.String("nombre"),
		Email:       row.String("email"),
		Phone:       row.String("telefono"),
		Message:     row.String("mensaje"),
		Status:      contacts.Status(row.String("estado")),
		ContactedAt: row.Time("fecha_contacto"),
		Responded:   row.Bool("respondido"),
		RespondedAt: row.TimePtr("fecha_respuesta"),
		Notes:       row.String("observaciones"),
		CreatedAt:   row.Time("created_at"),
		UpdatedAt:   row.Time("updated_at"),
	}
}
