package sqlstore

import (
	"context"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/admin"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/donations"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/pets"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

// pendingAdoption es el estado inicial de solicitudes_adopcion; las solicitudes
// no tienen módulo propio, sólo se cuentan.
const pendingAdoption = "pendiente"

type AdminRepo struct {
	db *sqldb.DB
}

func NewAdminRepo(db *sqldb.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// Counts lee todos los contadores del dashboard en una sola consulta.
func (r *AdminRepo) Counts(ctx context.Context) (admin.Counts, error) {
	row, _, err := r.db.FetchOne(ctx, `
		SELECT
			(SELECT COUNT(*) FROM mascotas WHERE estado = ?) AS disponibles,
			(SELECT COUNT(*) FROM mascotas WHERE estado = ?) AS adoptadas,
			(SELECT COUNT(*) FROM donaciones WHERE estado = ?) AS completadas,
			(SELECT COALESCE(SUM(monto), 0) FROM donaciones WHERE estado = ?) AS recaudado,
			(SELECT COUNT(*) FROM contactos WHERE respondido = ?) AS contactos_pendientes,
			(SELECT COUNT(*) FROM solicitudes_adopcion WHERE estado = ?) AS solicitudes_pendientes
	`,
		string(pets.StatusAvailable),
		string(pets.StatusAdopted),
		string(donations.StatusCompleted),
		string(donations.StatusCompleted),
		false,
		pendingAdoption,
	)
	if err != nil {
		return admin.Counts{}, err
	}

	return admin.Counts{
		AvailablePets:      row.Int64("disponibles"),
		AdoptedPets:        row.Int64("adoptadas"),
		CompletedDonations: row.Int64("completadas"),
		Raised:             round2(row.Float64("recaudado")),
		PendingContacts:    row.Int64("contactos_pendientes"),
		PendingAdoptions:   row.Int64("solicitudes_pendientes"),
	}, nil
}
