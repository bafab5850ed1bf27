package contacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
	"github.com/VaneSolis/Sitio-AFAD/internal/ports/notify"
)

type testRepo struct {
	byID   map[int64]Contact
	nextID int64
	last   ListFilter
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]Contact{}}
}

func (r *testRepo) Create(ctx context.Context, c Contact) (int64, error) {
	r.nextID++
	c.ID = r.nextID
	r.byID[c.ID] = c
	return c.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Contact, error) {
	c, ok := r.byID[id]
	if !ok {
		return Contact{}, apperr.NotFound("Contacto", id)
	}
	return c, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Contact, int64, error) {
	r.last = f
	return []Contact{}, 0, nil
}

func (r *testRepo) MarkResponded(ctx context.Context, id int64, notes string, at time.Time) error {
	c, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("Contacto", id)
	}
	c.Responded = true
	c.Status = StatusResponded
	c.RespondedAt = &at
	c.Notes = notes
	r.byID[id] = c
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("Contacto", id)
	}
	delete(r.byID, id)
	return nil
}

type testMailer struct{ contacts []notify.ContactMail }

func (m *testMailer) DonationReceipt(context.Context, notify.DonationMail) error     { return nil }
func (m *testMailer) DonationAdminNotice(context.Context, notify.DonationMail) error { return nil }
func (m *testMailer) ContactNotice(ctx context.Context, c notify.ContactMail) error {
	m.contacts = append(m.contacts, c)
	return nil
}

func message() CreateInput {
	return CreateInput{
		Name:    "Laura",
		Email:   "laura@example.com",
		Phone:   "+52 (55) 1234-5678",
		Message: "Quiero ser voluntaria los fines de semana.",
	}
}

func TestService_Create(t *testing.T) {
	repo := newTestRepo()
	mailer := &testMailer{}
	svc := NewService(repo, Deps{Mailer: mailer})

	c, err := svc.Create(context.Background(), message())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.Status != StatusNew || c.Responded {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if len(mailer.contacts) != 1 || mailer.contacts[0].ID != c.ID {
		t.Fatalf("expected admin notice, got %#v", mailer.contacts)
	}
}

func TestService_Create_Validation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Deps{})

	in := message()
	in.Message = "Hola"
	in.Email = "laura"

	_, err := svc.Create(context.Background(), in)
	ve, ok := apperr.IsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("expected mensaje and email errors, got %#v", ve.Fields)
	}
	if len(repo.byID) != 0 {
		t.Fatal("nothing must be written on validation failure")
	}
}

func TestService_MarkResponded_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Deps{})

	c, _ := svc.Create(context.Background(), message())

	t1 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)

	svc.now = func() time.Time { return t1 }
	if err := svc.MarkResponded(context.Background(), c.ID, RespondInput{Notes: "Llamada"}); err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return t2 }
	if err := svc.MarkResponded(context.Background(), c.ID, RespondInput{Notes: "Email enviado"}); err != nil {
		t.Fatalf("second call must succeed: %v", err)
	}

	got := repo.byID[c.ID]
	if !got.Responded || got.Status != StatusResponded {
		t.Fatalf("expected responded, got %+v", got)
	}
	if got.RespondedAt == nil || !got.RespondedAt.Equal(t2) || got.Notes != "Email enviado" {
		t.Fatalf("expected second call to overwrite, got %+v", got)
	}

	if err := svc.MarkResponded(context.Background(), 99, RespondInput{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_List_RespondedFilter(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Deps{})
	page := pagination.Page{Number: 1, Limit: 20}

	if _, _, err := svc.List(context.Background(), ListInput{Page: page}); err != nil {
		t.Fatal(err)
	}
	if repo.last.Responded != nil {
		t.Fatal("expected no respondido filter")
	}

	if _, _, err := svc.List(context.Background(), ListInput{Responded: "false", Status: "Nuevo", Page: page}); err != nil {
		t.Fatal(err)
	}
	if repo.last.Responded == nil || *repo.last.Responded || repo.last.Status != StatusNew {
		t.Fatalf("unexpected filter: %+v", repo.last)
	}

	if _, _, err := svc.List(context.Background(), ListInput{Responded: "tal vez", Page: page}); err == nil {
		t.Fatal("expected ValidationError for bad respondido")
	}
}
