package sqlstore

import (
	"math"
	"strings"
	"time"
)

// Helpers de parámetros: los opcionales vacíos se guardan como NULL.

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func columns(cols []string) string {
	return strings.Join(cols, ", ")
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// round2 redondea a centavos. Los SUM de SQLite son float y arrastran error.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
