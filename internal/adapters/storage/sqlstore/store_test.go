package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/adapters/storage/sqlite"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/contacts"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/donations"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/pets"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

var baseTime = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqldb.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "afad.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newPet(name string, species pets.Species, status pets.Status, traits ...string) pets.Pet {
	return pets.Pet{
		Name:      name,
		Species:   species,
		Age:       pets.AgeAdult,
		Size:      pets.SizeMedium,
		Status:    status,
		Traits:    traits,
		IntakeAt:  baseTime,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
}

func TestMigrateAndSeedAreIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := Seed(ctx, db, baseTime); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}

	row, _, err := db.FetchOne(ctx, `SELECT COUNT(*) AS total FROM mascotas`)
	if err != nil {
		t.Fatal(err)
	}
	if row.Int64("total") != 3 {
		t.Fatalf("expected 3 seeded pets, got %d", row.Int64("total"))
	}

	luna, err := NewPetsRepo(db).GetByID(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if luna.Name != "Luna" || len(luna.Traits) != 5 || luna.Traits[0] != "Cariñosa" {
		t.Fatalf("unexpected seeded pet: %+v", luna)
	}
}

func TestPetsRepo_TraitRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPetsRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, newPet("Toby", pets.SpeciesDog, pets.StatusAvailable, "A", "B, con coma", "C"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"A", "B, con coma", "C"}; !reflect.DeepEqual(got.Traits, want) {
		t.Fatalf("traits = %#v, want %#v", got.Traits, want)
	}

	emptyID, err := repo.Create(ctx, newPet("Nube", pets.SpeciesCat, pets.StatusAvailable))
	if err != nil {
		t.Fatal(err)
	}
	empty, err := repo.GetByID(ctx, emptyID)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Traits == nil || len(empty.Traits) != 0 {
		t.Fatalf("expected [] for a pet without traits, got %#v", empty.Traits)
	}
}

func TestPetsRepo_UpdateReplacesTraits(t *testing.T) {
	db := newTestDB(t)
	repo := NewPetsRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, newPet("Rex", pets.SpeciesDog, pets.StatusAvailable, "Leal", "Vacunado"))
	if err != nil {
		t.Fatal(err)
	}

	p, _ := repo.GetByID(ctx, id)
	p.Traits = []string{"Entrenado"}
	p.Status = pets.StatusAdopted
	adopted := baseTime.Add(time.Hour)
	p.AdoptedAt = &adopted
	p.UpdatedAt = adopted
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := repo.GetByID(ctx, id)
	if !reflect.DeepEqual(got.Traits, []string{"Entrenado"}) {
		t.Fatalf("expected exactly [Entrenado], got %#v", got.Traits)
	}
	if got.Status != pets.StatusAdopted || got.AdoptedAt == nil || !got.AdoptedAt.Equal(adopted) {
		t.Fatalf("unexpected pet after update: %+v", got)
	}

	p.ID = 999
	if err := repo.Update(ctx, p); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPetsRepo_UpdateIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewPetsRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, newPet("Rex", pets.SpeciesDog, pets.StatusAvailable, "Leal", "Vacunado"))
	if err != nil {
		t.Fatal(err)
	}

	// Falla la reinserción después del DELETE de las características viejas.
	if _, err := db.Exec(ctx, `
		CREATE TRIGGER rechazar_caracteristica
		BEFORE INSERT ON caracteristicas_mascotas
		WHEN NEW.caracteristica = 'boom'
		BEGIN
			SELECT RAISE(ABORT, 'caracteristica rechazada');
		END
	`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	p, _ := repo.GetByID(ctx, id)
	p.Name = "Rex II"
	p.Traits = []string{"ok", "boom"}
	p.UpdatedAt = baseTime.Add(time.Hour)
	if err := repo.Update(ctx, p); err == nil {
		t.Fatal("expected update to fail")
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Traits, []string{"Leal", "Vacunado"}) {
		t.Fatalf("expected previous traits after rollback, got %#v", got.Traits)
	}
	if got.Name != "Rex" {
		t.Fatalf("expected pet row rolled back, got name %q", got.Name)
	}
}

func TestPetsRepo_DeleteCascadesTraits(t *testing.T) {
	db := newTestDB(t)
	repo := NewPetsRepo(db)
	ctx := context.Background()

	id, _ := repo.Create(ctx, newPet("Rex", pets.SpeciesDog, pets.StatusAvailable, "Leal", "Vacunado"))
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}

	row, _, err := db.FetchOne(ctx, `SELECT COUNT(*) AS total FROM caracteristicas_mascotas WHERE mascota_id = ?`, id)
	if err != nil {
		t.Fatal(err)
	}
	if row.Int64("total") != 0 {
		t.Fatalf("expected traits removed by cascade, got %d", row.Int64("total"))
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPetsRepo_ListCountMatchesPages(t *testing.T) {
	db := newTestDB(t)
	repo := NewPetsRepo(db)
	ctx := context.Background()

	fixtures := []pets.Pet{
		newPet("Rex", pets.SpeciesDog, pets.StatusAvailable, "Leal"),
		newPet("Luna", pets.SpeciesCat, pets.StatusAvailable),
		newPet("Max", pets.SpeciesDog, pets.StatusAdopted, "Activo", "Leal"),
		newPet("Nala", pets.SpeciesCat, pets.StatusReserved),
		newPet("Rocky", pets.SpeciesDog, pets.StatusAvailable),
		newPet("Michi 100%", pets.SpeciesCat, pets.StatusAvailable),
		newPet("Bobby", pets.SpeciesDog, pets.StatusTreatment),
	}
	for i, p := range fixtures {
		p.CreatedAt = baseTime.Add(time.Duration(i) * time.Minute)
		if _, err := repo.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	filters := []pets.ListFilter{
		{},
		{Species: pets.SpeciesDog},
		{Status: pets.StatusAvailable},
		{Species: pets.SpeciesCat, Status: pets.StatusAvailable},
		{Search: "r"},
		{Search: "%"},
		{Species: "loro"},
	}
	for _, f := range filters {
		t.Run(fmt.Sprintf("%+v", f), func(t *testing.T) {
			seen := map[int64]bool{}
			var total int64
			for page := 1; ; page++ {
				f.Page = pagination.Page{Number: page, Limit: 2}
				items, n, err := repo.List(ctx, f)
				if err != nil {
					t.Fatal(err)
				}
				total = n
				if len(items) == 0 {
					break
				}
				for _, p := range items {
					if seen[p.ID] {
						t.Fatalf("pet %d returned twice", p.ID)
					}
					seen[p.ID] = true
					if p.Traits == nil {
						t.Fatalf("pet %d has nil traits", p.ID)
					}
				}
			}
			if int64(len(seen)) != total {
				t.Fatalf("count = %d but pages returned %d rows", total, len(seen))
			}
		})
	}

	// Búsqueda con comodín escapado: sólo coincide el nombre que contiene '%'.
	items, total, err := repo.List(ctx, pets.ListFilter{Search: "%", Page: pagination.Page{Number: 1, Limit: 20}})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].Name != "Michi 100%" {
		t.Fatalf("expected only the literal %% match, got %d rows", total)
	}

	// Orden: más reciente primero.
	items, _, _ = repo.List(ctx, pets.ListFilter{Page: pagination.Page{Number: 1, Limit: 1}})
	if items[0].Name != "Bobby" {
		t.Fatalf("expected newest first, got %s", items[0].Name)
	}

	// Página más allá del final: vacía pero con total correcto.
	items, total, err = repo.List(ctx, pets.ListFilter{Page: pagination.Page{Number: 50, Limit: 20}})
	if err != nil {
		t.Fatal(err)
	}
	meta := pagination.NewMeta(pagination.Page{Number: 50, Limit: 20}, total)
	if len(items) != 0 || total != int64(len(fixtures)) || meta.HasNext {
		t.Fatalf("unexpected beyond-last page: %d items, total %d, meta %+v", len(items), total, meta)
	}
}

func TestPetsRepo_Stats(t *testing.T) {
	db := newTestDB(t)
	repo := NewPetsRepo(db)
	ctx := context.Background()

	adopted := newPet("Max", pets.SpeciesDog, pets.StatusAdopted)
	at := baseTime.AddDate(0, 0, -2)
	adopted.AdoptedAt = &at
	old := newPet("Toby", pets.SpeciesDog, pets.StatusAdopted)
	oldAt := baseTime.AddDate(0, -2, 0)
	old.AdoptedAt = &oldAt

	for _, p := range []pets.Pet{adopted, old, newPet("Luna", pets.SpeciesCat, pets.StatusAvailable)} {
		if _, err := repo.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	st, err := repo.Stats(ctx, baseTime)
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 3 || st.AdoptedThisMonth != 1 {
		t.Fatalf("unexpected totals: %+v", st)
	}
	if len(st.ByType) != 2 || st.ByType[0].Key != "perro" || st.ByType[0].Count != 2 {
		t.Fatalf("unexpected by type: %+v", st.ByType)
	}
	if len(st.AdoptedByMonth) != 2 || st.AdoptedByMonth[0].Month != "2025-06" || st.AdoptedByMonth[1].Month != "2025-04" {
		t.Fatalf("unexpected by month: %+v", st.AdoptedByMonth)
	}
}

func newDonation(name string, amount float64, method donations.Method, at time.Time) donations.Donation {
	return donations.Donation{
		Name:      name,
		Email:     name + "@example.com",
		Amount:    amount,
		Method:    method,
		Status:    donations.StatusPending,
		DonatedAt: at,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestDonationsRepo_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationsRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, newDonation("ana", 150.5, donations.MethodPayPal, baseTime))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Create(ctx, newDonation("beto", 10, donations.MethodCash, baseTime.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}

	if err := repo.UpdateStatus(ctx, id, donations.StatusCompleted, "PAY-123", baseTime.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	// Sin referencia nueva se conserva la anterior.
	if err := repo.UpdateStatus(ctx, id, donations.StatusCompleted, "", baseTime.Add(3*time.Hour)); err != nil {
		t.Fatal(err)
	}

	d, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if d.Status != donations.StatusCompleted || d.PaymentRef != "PAY-123" || !d.Processed || d.Amount != 150.5 {
		t.Fatalf("unexpected donation: %+v", d)
	}

	items, total, err := repo.List(ctx, donations.ListFilter{Method: donations.MethodCash, Page: pagination.Page{Number: 1, Limit: 20}})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].Name != "beto" {
		t.Fatalf("unexpected filtered list: %+v", items)
	}

	items, _, _ = repo.List(ctx, donations.ListFilter{Search: "ANA@", Page: pagination.Page{Number: 1, Limit: 20}})
	if len(items) != 1 || items[0].ID != id {
		t.Fatalf("expected case-insensitive search on email, got %+v", items)
	}

	st, err := repo.Stats(ctx, startOfMonth(baseTime).AddDate(0, -11, 0))
	if err != nil {
		t.Fatal(err)
	}
	if st.Count != 2 || st.Amount != 160.5 || st.Raised != 150.5 || st.Completed != 1 || st.Pending != 1 || st.Average != 80.25 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if len(st.ByMethod) != 1 || st.ByMethod[0].Method != donations.MethodPayPal {
		t.Fatalf("by method must only count completed: %+v", st.ByMethod)
	}
	if len(st.ByMonth) != 1 || st.ByMonth[0].Month != "2025-06" || st.ByMonth[0].Total != 150.5 {
		t.Fatalf("unexpected by month: %+v", st.ByMonth)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContactsRepo_MarkRespondedTwice(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactsRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, contacts.Contact{
		Name:        "Laura",
		Email:       "laura@example.com",
		Message:     "Quiero ser voluntaria.",
		Status:      contacts.StatusNew,
		ContactedAt: baseTime,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	})
	if err != nil {
		t.Fatal(err)
	}

	first := baseTime.Add(time.Hour)
	second := baseTime.Add(2 * time.Hour)
	if err := repo.MarkResponded(ctx, id, "Llamada", first); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkResponded(ctx, id, "", second); err != nil {
		t.Fatalf("second call must succeed: %v", err)
	}

	c, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Responded || c.Status != contacts.StatusResponded {
		t.Fatalf("expected responded, got %+v", c)
	}
	if c.RespondedAt == nil || !c.RespondedAt.Equal(second) {
		t.Fatalf("expected second timestamp, got %v", c.RespondedAt)
	}
	if c.Notes != "Llamada" {
		t.Fatalf("empty notes must keep the previous ones, got %q", c.Notes)
	}

	yes, no := true, false
	page := pagination.Page{Number: 1, Limit: 20}
	if _, total, _ := repo.List(ctx, contacts.ListFilter{Responded: &yes, Page: page}); total != 1 {
		t.Fatalf("expected 1 responded, got %d", total)
	}
	if _, total, _ := repo.List(ctx, contacts.ListFilter{Responded: &no, Page: page}); total != 0 {
		t.Fatalf("expected 0 pending, got %d", total)
	}

	if err := repo.MarkResponded(ctx, 999, "", second); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActivityRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepo(db)
	ctx := context.Background()

	entries := []activitylog.Entry{
		{Level: activitylog.LevelInfo, Message: "a", CreatedAt: baseTime.AddDate(0, 0, -40)},
		{Level: activitylog.LevelInfo, Message: "b", CreatedAt: baseTime.AddDate(0, 0, -1)},
		{Level: activitylog.LevelWarning, Message: "c", CreatedAt: baseTime.AddDate(0, 0, -1).Add(time.Hour)},
		{Level: activitylog.LevelInfo, Message: "d", CreatedAt: baseTime, Origin: activitylog.Origin{IP: "10.0.0.1"}},
	}
	for _, e := range entries {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	from := baseTime.AddDate(0, 0, -2)
	items, total, err := repo.List(ctx, activitylog.ListFilter{
		Level: activitylog.LevelInfo,
		From:  &from,
		Page:  pagination.Page{Number: 1, Limit: 20},
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || items[0].Message != "d" || items[0].Origin.IP != "10.0.0.1" {
		t.Fatalf("unexpected logs: total=%d %+v", total, items)
	}

	counts, err := repo.CountByDay(ctx, baseTime.AddDate(0, 0, -7))
	if err != nil {
		t.Fatal(err)
	}
	want := []activitylog.DailyCount{
		{Date: "2025-06-10", Level: activitylog.LevelInfo, Count: 1},
		{Date: "2025-06-09", Level: activitylog.LevelInfo, Count: 1},
		{Date: "2025-06-09", Level: activitylog.LevelWarning, Count: 1},
	}
	if !reflect.DeepEqual(counts, want) {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}

	n, err := repo.DeleteBefore(ctx, baseTime.AddDate(0, 0, -30))
	if err != nil || n != 1 {
		t.Fatalf("expected 1 deleted, got %d (%v)", n, err)
	}
}

func TestAdminRepo_Counts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	petsRepo := NewPetsRepo(db)
	_, _ = petsRepo.Create(ctx, newPet("Rex", pets.SpeciesDog, pets.StatusAvailable))
	_, _ = petsRepo.Create(ctx, newPet("Max", pets.SpeciesDog, pets.StatusAdopted))

	donRepo := NewDonationsRepo(db)
	id, _ := donRepo.Create(ctx, newDonation("ana", 99.99, donations.MethodPayPal, baseTime))
	_, _ = donRepo.Create(ctx, newDonation("beto", 50, donations.MethodCash, baseTime))
	_ = donRepo.UpdateStatus(ctx, id, donations.StatusCompleted, "", baseTime)

	_, _ = NewContactsRepo(db).Create(ctx, contacts.Contact{
		Name: "Laura", Email: "l@example.com", Message: "Hola, quiero adoptar.",
		Status: contacts.StatusNew, ContactedAt: baseTime, CreatedAt: baseTime, UpdatedAt: baseTime,
	})

	c, err := NewAdminRepo(db).Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c.AvailablePets != 1 || c.AdoptedPets != 1 || c.CompletedDonations != 1 || c.Raised != 99.99 ||
		c.PendingContacts != 1 || c.PendingAdoptions != 0 {
		t.Fatalf("unexpected counts: %+v", c)
	}
}
