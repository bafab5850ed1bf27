package contacts

import "time"

// Status del mensaje. "respondido" se fija al marcarlo como respondido.
// @Enum nuevo, respondido
type Status string

const (
	StatusNew       Status = "nuevo"
	StatusResponded Status = "respondido"
)

// Contact es un mensaje recibido por el formulario de contacto.
type Contact struct {
	ID int64

	Name    string
	Email   string
	Phone   string
	Message string

	Status      Status
	ContactedAt time.Time
	Responded   bool
	RespondedAt *time.Time
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
