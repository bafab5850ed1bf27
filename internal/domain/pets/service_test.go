package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID   map[int64]Pet
	nextID int64
	last   ListFilter
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) (int64, error) {
	r.nextID++
	p.ID = r.nextID
	r.byID[p.ID] = p
	return p.ID, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperr.NotFound("Mascota", p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, apperr.NotFound("Mascota", id)
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Pet, int64, error) {
	r.last = f
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("Mascota", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) Stats(ctx context.Context, now time.Time) (Stats, error) {
	return Stats{Total: int64(len(r.byID))}, nil
}

type recorded struct {
	level   activitylog.Level
	message string
}

type testRecorder struct{ entries []recorded }

func (t *testRecorder) Record(ctx context.Context, level activitylog.Level, message string) {
	t.entries = append(t.entries, recorded{level, message})
}

func rex() Input {
	return Input{
		Name:    "Rex",
		Species: "perro",
		Age:     "adulto",
		Size:    "grande",
		Traits:  []string{"Leal", " Vacunado "},
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsAndTraits(t *testing.T) {
	repo := newTestRepo()
	rec := &testRecorder{}
	svc := NewService(repo, rec)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), rex())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.ID != 1 {
		t.Fatalf("expected id 1, got %d", p.ID)
	}
	if p.Status != StatusAvailable || !p.IntakeAt.Equal(now) || p.AdoptedAt != nil {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	stored := repo.byID[1]
	if len(stored.Traits) != 2 || stored.Traits[0] != "Leal" || stored.Traits[1] != "Vacunado" {
		t.Fatalf("unexpected traits: %#v", stored.Traits)
	}
	if len(rec.entries) != 1 || rec.entries[0].level != activitylog.LevelInfo {
		t.Fatalf("expected one info activity, got %#v", rec.entries)
	}
}

func TestService_Create_RejectsInvalidEnums(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	in := rex()
	in.Species = "loro"
	in.Size = "enorme"
	in.Name = "R"

	_, err := svc.Create(context.Background(), in)
	ve, ok := apperr.IsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"tipo", "tamaño", "nombre"} {
		if !fields[want] {
			t.Fatalf("expected field error for %s, got %#v", want, ve.Fields)
		}
	}
}

func TestService_Create_RejectsBlankTrait(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	in := rex()
	in.Traits = []string{"Leal", "   "}
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatal("expected validation error for blank trait")
	}
}

func TestService_Update_ReplacesTraitsAndKeepsStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	p, _ := svc.Create(context.Background(), rex())

	in := rex()
	in.Traits = []string{"Entrenado"}
	if _, err := svc.Update(context.Background(), p.ID, in); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got := repo.byID[p.ID]
	if len(got.Traits) != 1 || got.Traits[0] != "Entrenado" {
		t.Fatalf("expected traits replaced, got %#v", got.Traits)
	}
	if got.Status != StatusAvailable {
		t.Fatalf("expected status kept, got %s", got.Status)
	}
}

func TestService_Update_AdoptionTimestamps(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	t1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	svc.now = func() time.Time { return t1 }
	p, _ := svc.Create(context.Background(), rex())

	in := rex()
	in.Status = "adoptada"
	svc.now = func() time.Time { return t2 }
	if _, err := svc.Update(context.Background(), p.ID, in); err != nil {
		t.Fatal(err)
	}
	if at := repo.byID[p.ID].AdoptedAt; at == nil || !at.Equal(t2) {
		t.Fatalf("expected fecha_adopcion = %v, got %v", t2, at)
	}

	// Sigue adoptada: no se pisa la fecha.
	svc.now = func() time.Time { return t2.Add(time.Hour) }
	if _, err := svc.Update(context.Background(), p.ID, in); err != nil {
		t.Fatal(err)
	}
	if at := repo.byID[p.ID].AdoptedAt; at == nil || !at.Equal(t2) {
		t.Fatalf("expected fecha_adopcion kept, got %v", at)
	}

	in.Status = "disponible"
	if _, err := svc.Update(context.Background(), p.ID, in); err != nil {
		t.Fatal(err)
	}
	if repo.byID[p.ID].AdoptedAt != nil {
		t.Fatal("expected fecha_adopcion cleared")
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	_, err := svc.Update(context.Background(), 99, rex())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_List_StatusDefaults(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)
	page := pagination.Page{Number: 1, Limit: 20}

	if _, _, err := svc.List(context.Background(), ListInput{Page: page}); err != nil {
		t.Fatal(err)
	}
	if repo.last.Status != StatusAvailable {
		t.Fatalf("expected default disponible, got %q", repo.last.Status)
	}

	if _, _, err := svc.List(context.Background(), ListInput{Status: "todos", Page: page}); err != nil {
		t.Fatal(err)
	}
	if repo.last.Status != "" {
		t.Fatalf("expected no status filter, got %q", repo.last.Status)
	}
}

func TestService_Delete_RecordsWarning(t *testing.T) {
	repo := newTestRepo()
	rec := &testRecorder{}
	svc := NewService(repo, rec)

	p, _ := svc.Create(context.Background(), rex())
	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if last := rec.entries[len(rec.entries)-1]; last.level != activitylog.LevelWarning {
		t.Fatalf("expected warning, got %#v", last)
	}
}
