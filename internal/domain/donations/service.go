package donations

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/tasks"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/validation"
	"github.com/VaneSolis/Sitio-AFAD/internal/ports/notify"
)

// maxAmount es el máximo representable en DECIMAL(10,2).
const maxAmount = 99999999.99

type Options struct {
	MinAmount       float64
	ReferencePrefix string
	ReferenceWidth  int
}

// Deps son los colaboradores de efectos secundarios. Todos opcionales.
type Deps struct {
	Mailer   notify.Mailer
	Tasks    tasks.Dispatcher
	Activity activitylog.Recorder
}

type Service struct {
	repo     Repository
	opts     Options
	mailer   notify.Mailer
	tasks    tasks.Dispatcher
	activity activitylog.Recorder
	now      func() time.Time
}

func NewService(repo Repository, opts Options, deps Deps) *Service {
	if opts.MinAmount <= 0 {
		opts.MinAmount = 10
	}
	if strings.TrimSpace(opts.ReferencePrefix) == "" {
		opts.ReferencePrefix = "AFAD"
	}
	if opts.ReferenceWidth <= 0 {
		opts.ReferenceWidth = 6
	}
	if deps.Tasks == nil {
		deps.Tasks = tasks.Inline{}
	}
	if deps.Activity == nil {
		deps.Activity = activitylog.Discard{}
	}
	return &Service{
		repo:     repo,
		opts:     opts,
		mailer:   deps.Mailer,
		tasks:    deps.Tasks,
		activity: deps.Activity,
		now:      time.Now,
	}
}

// Reference arma la referencia legible: prefijo + id con ceros a la izquierda (AFAD-000042).
func (s *Service) Reference(id int64) string {
	return fmt.Sprintf("%s-%0*d", s.opts.ReferencePrefix, s.opts.ReferenceWidth, id)
}

type CreateInput struct {
	Name    string `json:"nombre" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"telefono" validate:"omitempty,telefono"`
	Amount  Amount `json:"monto"`
	Method  string `json:"metodo_pago" validate:"required,oneof=paypal transferencia efectivo"`
	Message string `json:"mensaje" validate:"max=500"`
}

func (in *CreateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Method = strings.ToLower(strings.TrimSpace(in.Method))
	in.Message = strings.TrimSpace(in.Message)
}

func (s *Service) validateCreate(in CreateInput) error {
	ve := &apperr.ValidationError{}
	if err := validation.Struct(in); err != nil {
		v, ok := apperr.IsValidation(err)
		if !ok {
			return err
		}
		ve = v
	}

	amount := float64(in.Amount)
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		ve.Add("monto", "debe ser un número")
	case amount < s.opts.MinAmount:
		ve.Add("monto", fmt.Sprintf("El monto mínimo es $%.2f", s.opts.MinAmount))
	case amount > maxAmount:
		ve.Add("monto", fmt.Sprintf("El monto máximo es $%.2f", maxAmount))
	}
	return ve.OrNil()
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Donation, error) {
	in.normalize()
	if err := s.validateCreate(in); err != nil {
		return Donation{}, err
	}

	now := s.now().UTC()
	d := Donation{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Amount:    math.Round(float64(in.Amount)*100) / 100,
		Method:    Method(in.Method),
		Message:   in.Message,
		Status:    StatusPending,
		DonatedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.Create(ctx, d)
	if err != nil {
		return Donation{}, err
	}
	d.ID = id

	s.notify(d)
	s.activity.Record(ctx, activitylog.LevelInfo, fmt.Sprintf("Nueva donación recibida: $%.2f de %s", d.Amount, d.Name))
	return d, nil
}

// notify despacha el recibo al donante y el aviso al admin; sus fallas no afectan al alta.
func (s *Service) notify(d Donation) {
	if s.mailer == nil {
		return
	}
	mail := notify.DonationMail{
		ID:        d.ID,
		Reference: s.Reference(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Amount:    d.Amount,
		Method:    string(d.Method),
		Message:   d.Message,
		Date:      d.DonatedAt,
	}
	s.tasks.Go("donation_receipt", func(ctx context.Context) error {
		return s.mailer.DonationReceipt(ctx, mail)
	})
	s.tasks.Go("donation_admin_notice", func(ctx context.Context) error {
		return s.mailer.DonationAdminNotice(ctx, mail)
	})
}

type StatusInput struct {
	Status     string `json:"estado" validate:"required,oneof=pendiente completado cancelado rechazado"`
	PaymentRef string `json:"referencia_pago" validate:"max=100"`
}

// UpdateStatus cambia el estado. Sin máquina de estados: cualquier valor del
// conjunto es aceptado desde cualquier estado.
func (s *Service) UpdateStatus(ctx context.Context, id int64, in StatusInput) error {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.PaymentRef = strings.TrimSpace(in.PaymentRef)
	if err := validation.Struct(in); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, Status(in.Status), in.PaymentRef, s.now().UTC()); err != nil {
		return err
	}

	s.activity.Record(ctx, activitylog.LevelInfo, fmt.Sprintf("Donación %d actualizada a estado: %s", id, in.Status))
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Donation, error) {
	return s.repo.GetByID(ctx, id)
}

type ListInput struct {
	Status string
	Method string
	Search string
	Page   pagination.Page
}

func (s *Service) List(ctx context.Context, in ListInput) ([]Donation, pagination.Meta, error) {
	items, total, err := s.repo.List(ctx, ListFilter{
		Status: Status(strings.ToLower(strings.TrimSpace(in.Status))),
		Method: Method(strings.ToLower(strings.TrimSpace(in.Method))),
		Search: strings.TrimSpace(in.Search),
		Page:   in.Page,
	})
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, pagination.NewMeta(in.Page, total), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, activitylog.LevelWarning, fmt.Sprintf("Donación %d eliminada", id))
	return nil
}

// Stats agrega totales, por método y por mes (últimos 12 meses, incluido el actual).
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := s.now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	return s.repo.Stats(ctx, since)
}
