package contacts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/tasks"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/validation"
	"github.com/VaneSolis/Sitio-AFAD/internal/ports/notify"
)

type Deps struct {
	Mailer   notify.Mailer
	Tasks    tasks.Dispatcher
	Activity activitylog.Recorder
}

type Service struct {
	repo     Repository
	mailer   notify.Mailer
	tasks    tasks.Dispatcher
	activity activitylog.Recorder
	now      func() time.Time
}

func NewService(repo Repository, deps Deps) *Service {
	if deps.Tasks == nil {
		deps.Tasks = tasks.Inline{}
	}
	if deps.Activity == nil {
		deps.Activity = activitylog.Discard{}
	}
	return &Service{
		repo:     repo,
		mailer:   deps.Mailer,
		tasks:    deps.Tasks,
		activity: deps.Activity,
		now:      time.Now,
	}
}

type CreateInput struct {
	Name    string `json:"nombre" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"telefono" validate:"omitempty,telefono"`
	Message string `json:"mensaje" validate:"required,min=10,max=1000"`
}

func (in *CreateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Contact, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return Contact{}, err
	}

	now := s.now().UTC()
	c := Contact{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
		Status:      StatusNew,
		ContactedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return Contact{}, err
	}
	c.ID = id

	if s.mailer != nil {
		mail := notify.ContactMail{
			ID:      c.ID,
			Name:    c.Name,
			Email:   c.Email,
			Phone:   c.Phone,
			Message: c.Message,
			Date:    c.ContactedAt,
		}
		s.tasks.Go("contact_notice", func(ctx context.Context) error {
			return s.mailer.ContactNotice(ctx, mail)
		})
	}
	s.activity.Record(ctx, activitylog.LevelInfo, fmt.Sprintf("Nuevo mensaje de contacto de %s", c.Name))
	return c, nil
}

type RespondInput struct {
	Notes string `json:"observaciones" validate:"max=1000"`
}

// MarkResponded marca el mensaje como respondido. Repetirlo no es un error:
// se pisan la fecha y las observaciones.
func (s *Service) MarkResponded(ctx context.Context, id int64, in RespondInput) error {
	in.Notes = strings.TrimSpace(in.Notes)
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := s.repo.MarkResponded(ctx, id, in.Notes, s.now().UTC()); err != nil {
		return err
	}
	s.activity.Record(ctx, activitylog.LevelInfo, fmt.Sprintf("Contacto %d marcado como respondido", id))
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Contact, error) {
	return s.repo.GetByID(ctx, id)
}

type ListInput struct {
	Status string
	// Responded es el valor crudo del query string; vacío = sin filtro.
	Responded string
	Page      pagination.Page
}

func (s *Service) List(ctx context.Context, in ListInput) ([]Contact, pagination.Meta, error) {
	f := ListFilter{
		Status: Status(strings.ToLower(strings.TrimSpace(in.Status))),
		Page:   in.Page,
	}
	if raw := strings.TrimSpace(in.Responded); raw != "" {
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, pagination.Meta{}, apperr.Invalid("respondido", "debe ser true o false")
		}
		f.Responded = &b
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, pagination.NewMeta(in.Page, total), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, activitylog.LevelWarning, fmt.Sprintf("Contacto %d eliminado", id))
	return nil
}
