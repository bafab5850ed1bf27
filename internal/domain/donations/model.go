package donations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Method es el método de pago.
// @Enum paypal, transferencia, efectivo
type Method string

const (
	MethodPayPal   Method = "paypal"
	MethodTransfer Method = "transferencia"
	MethodCash     Method = "efectivo"
)

// Status es el estado de la donación. Cualquier estado puede seguir a cualquier
// otro; sólo se restringe al conjunto enumerado.
// @Enum pendiente, completado, cancelado, rechazado
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusCompleted Status = "completado"
	StatusCancelled Status = "cancelado"
	StatusRejected  Status = "rechazado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Donation es una donación registrada.
type Donation struct {
	ID int64

	Name    string
	Email   string
	Phone   string
	Amount  float64
	Method  Method
	Message string

	Status     Status
	PaymentRef string
	DonatedAt  time.Time
	Processed  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Amount acepta el monto como número JSON o como string ("150.50").
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}

	var raw any = string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		raw = s
	}

	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return fmt.Errorf("monto: %w", err)
	}
	*a = Amount(v)
	return nil
}

type MethodTotal struct {
	Method Method
	Count  int64
	Total  float64
}

type MonthTotal struct {
	Month string // YYYY-MM
	Count int64
	Total float64
}

type Stats struct {
	Count     int64
	Amount    float64 // todas las donaciones
	Average   float64
	Raised    float64 // sólo completadas
	Completed int64
	Pending   int64
	// ByMethod y ByMonth sólo cuentan completadas. ByMonth: últimos 12 meses, más reciente primero.
	ByMethod []MethodTotal
	ByMonth  []MonthTotal
}
