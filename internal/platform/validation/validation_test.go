package validation

import (
	"testing"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
)

type sample struct {
	Nombre   string   `json:"nombre" validate:"required,min=2,max=10"`
	Email    string   `json:"email" validate:"required,email"`
	Telefono string   `json:"telefono" validate:"omitempty,telefono"`
	Tipo     string   `json:"tipo" validate:"required,oneof=perro gato"`
	Monto    float64  `json:"monto" validate:"gte=10"`
	Tags     []string `json:"tags" validate:"dive,max=5"`
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := apperr.IsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	out := map[string]string{}
	for _, f := range ve.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestStructValid(t *testing.T) {
	err := Struct(sample{
		Nombre:   "Ana",
		Email:    "ana@example.com",
		Telefono: "+54 11 5555-1234",
		Tipo:     "gato",
		Monto:    10,
		Tags:     []string{"a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{
		Nombre:   "A",
		Email:    "nope",
		Telefono: "0abc",
		Tipo:     "loro",
		Monto:    9.99,
	})
	got := fieldMessages(t, err)

	want := map[string]string{
		"nombre":   "debe tener al menos 2 caracteres",
		"email":    "debe ser un email válido",
		"telefono": "debe ser un teléfono válido",
		"tipo":     "debe ser uno de: perro, gato",
		"monto":    "debe ser mayor o igual a 10",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestStructNilOnSuccessIsUntypedNil(t *testing.T) {
	var err error = Struct(sample{Nombre: "Ana", Email: "a@b.co", Tipo: "perro", Monto: 15})
	if err != nil {
		t.Fatalf("expected untyped nil, got %#v", err)
	}
}
