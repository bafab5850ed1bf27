package pets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/validation"
)

type Service struct {
	repo     Repository
	activity activitylog.Recorder
	now      func() time.Time
}

func NewService(repo Repository, activity activitylog.Recorder) *Service {
	if activity == nil {
		activity = activitylog.Discard{}
	}
	return &Service{
		repo:     repo,
		activity: activity,
		now:      time.Now,
	}
}

// Input es el cuerpo de alta y de actualización (PUT completo).
// Traits reemplaza el set completo; nil o [] deja la mascota sin traits.
type Input struct {
	Name        string   `json:"nombre" validate:"required,min=2,max=50"`
	Species     string   `json:"tipo" validate:"required,oneof=perro gato"`
	Age         string   `json:"edad" validate:"required,oneof=cachorro joven adulto senior"`
	Size        string   `json:"tamaño" validate:"required,oneof=pequeño mediano grande"`
	Description string   `json:"descripcion" validate:"max=500"`
	Image       string   `json:"imagen" validate:"max=255"`
	Status      string   `json:"estado" validate:"omitempty,oneof=disponible adoptada reservada en_tratamiento"`
	Traits      []string `json:"caracteristicas" validate:"max=20,dive,required,max=100"`
}

func (in *Input) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.ToLower(strings.TrimSpace(in.Species))
	in.Age = strings.ToLower(strings.TrimSpace(in.Age))
	in.Size = strings.ToLower(strings.TrimSpace(in.Size))
	in.Description = strings.TrimSpace(in.Description)
	in.Image = strings.TrimSpace(in.Image)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))

	traits := make([]string, 0, len(in.Traits))
	for _, t := range in.Traits {
		traits = append(traits, strings.TrimSpace(t))
	}
	in.Traits = traits
}

func (s *Service) Create(ctx context.Context, in Input) (Pet, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return Pet{}, err
	}

	now := s.now().UTC()
	p := Pet{
		Name:        in.Name,
		Species:     Species(in.Species),
		Age:         Age(in.Age),
		Size:        Size(in.Size),
		Description: in.Description,
		Image:       in.Image,
		Status:      StatusAvailable,
		IntakeAt:    now,
		Traits:      in.Traits,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Status != "" {
		p.Status = Status(in.Status)
	}
	if p.Status == StatusAdopted {
		p.AdoptedAt = &now
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return Pet{}, err
	}
	p.ID = id

	s.activity.Record(ctx, activitylog.LevelInfo, "Nueva mascota agregada: "+p.Name)
	return p, nil
}

// Update reemplaza los datos y el set completo de traits.
// Sin estado en el input se conserva el actual.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Pet, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return Pet{}, err
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	now := s.now().UTC()
	p := cur
	p.Name = in.Name
	p.Species = Species(in.Species)
	p.Age = Age(in.Age)
	p.Size = Size(in.Size)
	p.Description = in.Description
	p.Image = in.Image
	p.Traits = in.Traits
	p.UpdatedAt = now
	if in.Status != "" {
		p.Status = Status(in.Status)
	}

	switch {
	case p.Status != StatusAdopted:
		p.AdoptedAt = nil
		p.AdopterID = nil
	case p.AdoptedAt == nil:
		p.AdoptedAt = &now
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}

	s.activity.Record(ctx, activitylog.LevelInfo, fmt.Sprintf("Mascota %d actualizada: %s", id, p.Name))
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

// ListInput: Status vacío lista sólo disponibles; "todos" no filtra por estado.
type ListInput struct {
	Species string
	Age     string
	Size    string
	Status  string
	Search  string
	Page    pagination.Page
}

func (s *Service) List(ctx context.Context, in ListInput) ([]Pet, pagination.Meta, error) {
	status := Status(strings.ToLower(strings.TrimSpace(in.Status)))
	switch status {
	case "":
		status = StatusAvailable
	case StatusAll:
		status = ""
	}

	items, total, err := s.repo.List(ctx, ListFilter{
		Species: Species(strings.ToLower(strings.TrimSpace(in.Species))),
		Age:     Age(strings.ToLower(strings.TrimSpace(in.Age))),
		Size:    Size(strings.ToLower(strings.TrimSpace(in.Size))),
		Status:  status,
		Search:  strings.TrimSpace(in.Search),
		Page:    in.Page,
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
	s.activity.Record(ctx, activitylog.LevelWarning, fmt.Sprintf("Mascota %d eliminada", id))
	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx, s.now().UTC())
}
