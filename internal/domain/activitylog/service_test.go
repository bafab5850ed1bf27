package activitylog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/reqctx"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/tasks"
)

type testRepo struct {
	entries []Entry
	last    ListFilter
	since   time.Time
	cutoff  time.Time
	err     error
}

func (r *testRepo) Append(ctx context.Context, e Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Entry, int64, error) {
	r.last = f
	return r.entries, int64(len(r.entries)), nil
}

func (r *testRepo) CountByDay(ctx context.Context, since time.Time) ([]DailyCount, error) {
	r.since = since
	return []DailyCount{}, nil
}

func (r *testRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return 3, nil
}

var fixedNow = time.Date(2025, 6, 10, 8, 30, 0, 0, time.UTC)

func newService(repo *testRepo) *Service {
	svc := NewService(repo, tasks.Inline{})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestService_Record_CapturesClient(t *testing.T) {
	repo := &testRepo{}
	svc := newService(repo)

	ctx := reqctx.WithClient(context.Background(), reqctx.ClientInfo{IP: "10.0.0.7", UserAgent: "curl/8"})
	svc.Record(ctx, LevelInfo, "  Nueva mascota agregada: Rex ")

	if len(repo.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(repo.entries))
	}
	e := repo.entries[0]
	if e.Message != "Nueva mascota agregada: Rex" || e.Level != LevelInfo {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Origin.IP != "10.0.0.7" || e.Origin.UserAgent != "curl/8" || !e.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected origin: %+v", e)
	}
}

func TestService_Record_SwallowsFailure(t *testing.T) {
	repo := &testRepo{err: errors.New("database is locked")}
	svc := newService(repo)

	// No debe entrar en pánico ni propagar el error.
	svc.Record(context.Background(), LevelError, "falla")
	if len(repo.entries) != 0 {
		t.Fatal("expected nothing persisted")
	}
}

func TestService_List_Validation(t *testing.T) {
	repo := &testRepo{}
	svc := newService(repo)
	page := pagination.Page{Number: 1, Limit: 20}

	if _, _, err := svc.List(context.Background(), ListInput{Level: "debug", Page: page}); err == nil {
		t.Fatal("expected error for unknown level")
	}

	from := fixedNow
	to := fixedNow.Add(-time.Hour)
	_, _, err := svc.List(context.Background(), ListInput{From: &from, To: &to, Page: page})
	if _, ok := apperr.IsValidation(err); !ok {
		t.Fatalf("expected ValidationError for inverted range, got %v", err)
	}

	if _, _, err := svc.List(context.Background(), ListInput{Level: "WARNING", Page: page}); err != nil {
		t.Fatal(err)
	}
	if repo.last.Level != LevelWarning {
		t.Fatalf("expected normalized level, got %q", repo.last.Level)
	}
}

func TestService_StatsAndCleanupWindows(t *testing.T) {
	repo := &testRepo{}
	svc := newService(repo)

	if _, err := svc.Stats(context.Background()); err != nil {
		t.Fatal(err)
	}
	if want := fixedNow.Add(-7 * 24 * time.Hour); !repo.since.Equal(want) {
		t.Fatalf("expected since %v, got %v", want, repo.since)
	}

	n, err := svc.Cleanup(context.Background(), 30)
	if err != nil || n != 3 {
		t.Fatalf("unexpected cleanup result: %d, %v", n, err)
	}
	if want := fixedNow.AddDate(0, 0, -30); !repo.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, repo.cutoff)
	}

	if n, _ := svc.Cleanup(context.Background(), 0); n != 0 {
		t.Fatal("retention 0 must disable cleanup")
	}
}
