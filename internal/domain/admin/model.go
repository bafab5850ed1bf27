package admin

import (
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/contacts"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/donations"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/pets"
)

// Counts son los contadores del dashboard, leídos en una sola consulta.
type Counts struct {
	AvailablePets      int64
	AdoptedPets        int64
	CompletedDonations int64
	Raised             float64
	PendingContacts    int64
	PendingAdoptions   int64
}

type Dashboard struct {
	Counts          Counts
	RecentPets      []pets.Pet
	RecentDonations []donations.Donation
	RecentContacts  []contacts.Contact
}
