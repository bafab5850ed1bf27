package pets

import "time"

// Species define las especies que recibe el refugio.
// @Enum perro, gato
type Species string

const (
	SpeciesDog Species = "perro"
	SpeciesCat Species = "gato"
)

// Age es la franja de edad.
// @Enum cachorro, joven, adulto, senior
type Age string

const (
	AgePuppy  Age = "cachorro"
	AgeYoung  Age = "joven"
	AgeAdult  Age = "adulto"
	AgeSenior Age = "senior"
)

// Size es el tamaño.
// @Enum pequeño, mediano, grande
type Size string

const (
	SizeSmall  Size = "pequeño"
	SizeMedium Size = "mediano"
	SizeLarge  Size = "grande"
)

// Status es el estado de la mascota en el refugio. Enum abierto: cualquier
// estado puede seguir a cualquier otro.
// @Enum disponible, adoptada, reservada, en_tratamiento
type Status string

const (
	StatusAvailable Status = "disponible"
	StatusAdopted   Status = "adoptada"
	StatusReserved  Status = "reservada"
	StatusTreatment Status = "en_tratamiento"

	// StatusAll en el filtro de listado desactiva el filtro por estado.
	StatusAll Status = "todos"
)

// Pet es una mascota del refugio con sus características (traits).
type Pet struct {
	ID int64

	Name        string
	Species     Species
	Age         Age
	Size        Size
	Description string
	Image       string

	Status    Status
	IntakeAt  time.Time
	AdoptedAt *time.Time
	AdopterID *int64

	// Traits en orden de inserción. Nunca nil al leer.
	Traits []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Count es un par clave → cantidad de una agregación.
type Count struct {
	Key   string
	Count int64
}

// MonthCount es la cantidad de un mes (YYYY-MM).
type MonthCount struct {
	Month string
	Count int64
}

type Stats struct {
	Total            int64
	ByType           []Count
	ByStatus         []Count
	ByAge            []Count
	BySize           []Count
	AdoptedThisMonth int64
	// AdoptedByMonth cubre los últimos 12 meses, mes más reciente primero.
	AdoptedByMonth []MonthCount
}
