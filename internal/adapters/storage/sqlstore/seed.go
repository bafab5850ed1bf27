package sqlstore

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/pets"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

const (
	SeedAdminEmail    = "admin@afad.org"
	seedAdminPassword = "admin123"
)

type seedPet struct {
	pet    pets.Pet
	traits []string
}

var seedPets = []seedPet{
	{
		pet: pets.Pet{
			Name:        "Luna",
			Species:     pets.SpeciesCat,
			Age:         pets.AgeYoung,
			Size:        pets.SizeMedium,
			Description: "Luna es una gata muy cariñosa y juguetona. Le encanta estar cerca de las personas y es perfecta para familias con niños.",
			Image:       "images/gato-con-flores.jpg",
		},
		traits: []string{"Cariñosa", "Juguetona", "Buena con niños", "Vacunada", "Esterilizada"},
	},
	{
		pet: pets.Pet{
			Name:        "Max",
			Species:     pets.SpeciesDog,
			Age:         pets.AgeAdult,
			Size:        pets.SizeLarge,
			Description: "Max es un perro muy leal y protector. Es ideal para familias activas que disfruten de largas caminatas.",
			Image:       "images/perro-maleta-azul.jpg",
		},
		traits: []string{"Leal", "Protector", "Activo", "Vacunado", "Entrenado"},
	},
	{
		pet: pets.Pet{
			Name:        "Mittens",
			Species:     pets.SpeciesCat,
			Age:         pets.AgePuppy,
			Size:        pets.SizeSmall,
			Description: "Mittens es un gatito adorable y curioso. Está en la edad perfecta para socializar y aprender.",
			Image:       "images/gato-con-moño.jpg",
		},
		traits: []string{"Curioso", "Juguetón", "Inteligente", "Vacunado", "Desparasitado"},
	},
}

// Seed carga los datos iniciales: usuario admin, mascotas de ejemplo y un
// evento. Cada bloque se salta si su tabla ya tiene datos.
func Seed(ctx context.Context, db *sqldb.DB, now time.Time) error {
	now = now.UTC()

	if err := seedAdmin(ctx, db, now); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedPetsTable(ctx, db, now); err != nil {
		return fmt.Errorf("seed pets: %w", err)
	}
	if err := seedEvents(ctx, db, now); err != nil {
		return fmt.Errorf("seed events: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, db *sqldb.DB, now time.Time) error {
	_, exists, err := db.FetchOne(ctx, `SELECT id FROM usuarios WHERE email = ?`, SeedAdminEmail)
	if err != nil || exists {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO usuarios (email, password, nombre, rol, activo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, SeedAdminEmail, string(hash), "Administrador AFAD", "admin", true, now, now)
	return err
}

func seedPetsTable(ctx context.Context, db *sqldb.DB, now time.Time) error {
	_, exists, err := db.FetchOne(ctx, `SELECT id FROM mascotas LIMIT 1`)
	if err != nil || exists {
		return err
	}

	repo := NewPetsRepo(db)
	for _, sp := range seedPets {
		p := sp.pet
		p.Status = pets.StatusAvailable
		p.Traits = sp.traits
		p.IntakeAt = now
		p.CreatedAt = now
		p.UpdatedAt = now
		if _, err := repo.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func seedEvents(ctx context.Context, db *sqldb.DB, now time.Time) error {
	_, exists, err := db.FetchOne(ctx, `SELECT id FROM eventos LIMIT 1`)
	if err != nil || exists {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO eventos (titulo, descripcion, fecha_inicio, ubicacion, estado, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		"Jornada de Adopción",
		"Ven a conocer a nuestros amigos peludos disponibles para adopción",
		now.Add(7*24*time.Hour),
		"Refugio AFAD",
		"activo",
		now,
		now,
	)
	return err
}
