// Package sqlite abre la base embebida (modernc, sin cgo) que se usa en
// desarrollo y en los tests de repositorio.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

// pragmas: FKs activas (cascade de características), espera ante locks y
// timestamps en formato texto ordenable.
const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

// Open abre (o crea) la base en path. ":memory:" no se soporta: con una sola
// conexión sería utilizable, pero cada Open tendría su propia base.
func Open(ctx context.Context, path string) (*sqldb.DB, error) {
	path = strings.TrimSpace(strings.TrimPrefix(path, "file:"))
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", "file:"+path+sep+pragmas)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// SQLite serializa las escrituras; una conexión evita SQLITE_BUSY entre
	// conexiones del mismo proceso.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return sqldb.New(db, sqldb.SQLite), nil
}
