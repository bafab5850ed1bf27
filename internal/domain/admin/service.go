// Package admin compone el dashboard y las estadísticas a partir de los
// servicios de cada módulo; sólo los contadores tienen consulta propia.
package admin

import (
	"context"
	"fmt"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/contacts"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/donations"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/pets"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

// RecentLimit es la cantidad de elementos recientes por listado del dashboard.
const RecentLimit = 5

type PetReader interface {
	List(ctx context.Context, in pets.ListInput) ([]pets.Pet, pagination.Meta, error)
	Stats(ctx context.Context) (pets.Stats, error)
}

type DonationReader interface {
	List(ctx context.Context, in donations.ListInput) ([]donations.Donation, pagination.Meta, error)
	Stats(ctx context.Context) (donations.Stats, error)
	Reference(id int64) string
}

type ContactReader interface {
	List(ctx context.Context, in contacts.ListInput) ([]contacts.Contact, pagination.Meta, error)
}

type LogReader interface {
	List(ctx context.Context, in activitylog.ListInput) ([]activitylog.Entry, pagination.Meta, error)
	Stats(ctx context.Context) ([]activitylog.DailyCount, error)
}

type Service struct {
	repo      Repository
	pets      PetReader
	donations DonationReader
	contacts  ContactReader
	logs      LogReader
}

func NewService(repo Repository, p PetReader, d DonationReader, c ContactReader, l LogReader) *Service {
	return &Service{repo: repo, pets: p, donations: d, contacts: c, logs: l}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	recent := pagination.Page{Number: 1, Limit: RecentLimit}

	petList, _, err := s.pets.List(ctx, pets.ListInput{Status: string(pets.StatusAll), Page: recent})
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent pets: %w", err)
	}
	donationList, _, err := s.donations.List(ctx, donations.ListInput{Page: recent})
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent donations: %w", err)
	}
	contactList, _, err := s.contacts.List(ctx, contacts.ListInput{Page: recent})
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent contacts: %w", err)
	}

	return Dashboard{
		Counts:          counts,
		RecentPets:      petList,
		RecentDonations: donationList,
		RecentContacts:  contactList,
	}, nil
}

func (s *Service) DonationStats(ctx context.Context) (donations.Stats, error) {
	return s.donations.Stats(ctx)
}

func (s *Service) PetStats(ctx context.Context) (pets.Stats, error) {
	return s.pets.Stats(ctx)
}

func (s *Service) Logs(ctx context.Context, in activitylog.ListInput) ([]activitylog.Entry, pagination.Meta, error) {
	return s.logs.List(ctx, in)
}

func (s *Service) LogStats(ctx context.Context) ([]activitylog.DailyCount, error) {
	return s.logs.Stats(ctx)
}
