// Package sqlstore implementa los repositorios de dominio sobre sqldb. El mismo
// código corre en PostgreSQL y en SQLite; las diferencias quedan en el dialecto.
package sqlstore

import (
	"context"

	"github.com/VaneSolis/Sitio-AFAD/internal/adapters/storage/postgres"
	"github.com/VaneSolis/Sitio-AFAD/internal/adapters/storage/sqlite"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

// Open abre la base del driver configurado (postgres | sqlite).
func Open(ctx context.Context, driver, dsn string) (*sqldb.DB, error) {
	d, err := sqldb.DialectFor(driver)
	if err != nil {
		return nil, err
	}
	if d.Name == sqldb.Postgres.Name {
		return postgres.Open(ctx, dsn)
	}
	return sqlite.Open(ctx, dsn)
}

// Repos agrupa los repositorios sobre un mismo handle.
type Repos struct {
	Pets      *PetsRepo
	Donations *DonationsRepo
	Contacts  *ContactsRepo
	Activity  *ActivityRepo
	Admin     *AdminRepo
}

func NewRepos(db *sqldb.DB) Repos {
	return Repos{
		Pets:      NewPetsRepo(db),
		Donations: NewDonationsRepo(db),
		Contacts:  NewContactsRepo(db),
		Activity:  NewActivityRepo(db),
		Admin:     NewAdminRepo(db),
	}
}
