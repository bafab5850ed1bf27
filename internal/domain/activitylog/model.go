package activitylog

import "time"

// Level es la severidad de una entrada del log de actividad.
// @Enum info, warning, error
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelWarning, LevelError:
		return true
	}
	return false
}

// Origin es quién originó la acción registrada.
type Origin struct {
	IP        string
	UserAgent string
	UserID    *int64
}

// Entry es una fila de la tabla logs.
type Entry struct {
	ID       int64
	Level    Level
	Message  string
	Origin   Origin
	UserName string // nombre del usuario (join), vacío si no hay

	CreatedAt time.Time
}

// DailyCount es la cantidad de entradas de un nivel en un día (UTC).
type DailyCount struct {
	Date  string // YYYY-MM-DD
	Level Level
	Count int64
}
