package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
)

// Los tipos que cambian entre motores se escriben como {{pk}}, {{ref}}, {{ts}}
// y {{money}}; Migrate los reemplaza según el dialecto.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS usuarios (
		id {{pk}},
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		nombre VARCHAR(100) NOT NULL,
		rol VARCHAR(20) NOT NULL DEFAULT 'admin',
		activo BOOLEAN NOT NULL DEFAULT TRUE,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mascotas (
		id {{pk}},
		nombre VARCHAR(50) NOT NULL,
		tipo VARCHAR(10) NOT NULL CHECK (tipo IN ('perro', 'gato')),
		edad VARCHAR(10) NOT NULL CHECK (edad IN ('cachorro', 'joven', 'adulto', 'senior')),
		tamano VARCHAR(10) NOT NULL CHECK (tamano IN ('pequeño', 'mediano', 'grande')),
		descripcion TEXT,
		imagen VARCHAR(255),
		estado VARCHAR(20) NOT NULL DEFAULT 'disponible',
		fecha_ingreso {{ts}} NOT NULL,
		fecha_adopcion {{ts}},
		adoptante_id {{ref}},
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS caracteristicas_mascotas (
		id {{pk}},
		mascota_id {{ref}} NOT NULL REFERENCES mascotas (id) ON DELETE CASCADE,
		caracteristica VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS donaciones (
		id {{pk}},
		nombre VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		telefono VARCHAR(20),
		monto {{money}} NOT NULL,
		metodo_pago VARCHAR(20) NOT NULL CHECK (metodo_pago IN ('paypal', 'transferencia', 'efectivo')),
		mensaje TEXT,
		estado VARCHAR(20) NOT NULL DEFAULT 'pendiente',
		referencia_pago VARCHAR(100),
		fecha_donacion {{ts}} NOT NULL,
		procesado BOOLEAN NOT NULL DEFAULT FALSE,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contactos (
		id {{pk}},
		nombre VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		telefono VARCHAR(20),
		mensaje TEXT NOT NULL,
		estado VARCHAR(20) NOT NULL DEFAULT 'nuevo',
		fecha_contacto {{ts}} NOT NULL,
		respondido BOOLEAN NOT NULL DEFAULT FALSE,
		fecha_respuesta {{ts}},
		observaciones TEXT,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS solicitudes_adopcion (
		id {{pk}},
		mascota_id {{ref}} NOT NULL REFERENCES mascotas (id) ON DELETE CASCADE,
		nombre_solicitante VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		telefono VARCHAR(20) NOT NULL,
		direccion TEXT,
		experiencia_mascotas TEXT,
		motivo_adopcion TEXT,
		estado VARCHAR(20) NOT NULL DEFAULT 'pendiente',
		fecha_solicitud {{ts}} NOT NULL,
		fecha_revision {{ts}},
		revisado_por {{ref}} REFERENCES usuarios (id) ON DELETE SET NULL,
		observaciones TEXT,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS eventos (
		id {{pk}},
		titulo VARCHAR(150) NOT NULL,
		descripcion TEXT,
		fecha_inicio {{ts}} NOT NULL,
		fecha_fin {{ts}},
		ubicacion VARCHAR(255),
		imagen VARCHAR(255),
		estado VARCHAR(20) NOT NULL DEFAULT 'activo',
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recursos (
		id {{pk}},
		titulo VARCHAR(150) NOT NULL,
		descripcion TEXT,
		tipo VARCHAR(50) NOT NULL,
		url VARCHAR(255),
		archivo VARCHAR(255),
		imagen VARCHAR(255),
		estado VARCHAR(20) NOT NULL DEFAULT 'activo',
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id {{pk}},
		nivel VARCHAR(10) NOT NULL,
		mensaje TEXT NOT NULL,
		usuario_id {{ref}} REFERENCES usuarios (id) ON DELETE SET NULL,
		ip VARCHAR(45),
		user_agent TEXT,
		created_at {{ts}} NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_mascotas_estado ON mascotas (estado, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_caracteristicas_mascota ON caracteristicas_mascotas (mascota_id, id)`,
	`CREATE INDEX IF NOT EXISTS idx_donaciones_estado ON donaciones (estado, fecha_donacion)`,
	`CREATE INDEX IF NOT EXISTS idx_contactos_respondido ON contactos (respondido, fecha_contacto)`,
	`CREATE INDEX IF NOT EXISTS idx_solicitudes_estado ON solicitudes_adopcion (estado)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_created ON logs (created_at, nivel)`,
}

var columnTypes = map[string]*strings.Replacer{
	sqldb.Postgres.Name: strings.NewReplacer(
		"{{pk}}", "BIGSERIAL PRIMARY KEY",
		"{{ref}}", "BIGINT",
		"{{ts}}", "TIMESTAMPTZ",
		"{{money}}", "NUMERIC(10,2)",
	),
	sqldb.SQLite.Name: strings.NewReplacer(
		"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{ref}}", "INTEGER",
		"{{ts}}", "DATETIME",
		"{{money}}", "DECIMAL(10,2)",
	),
}

// Migrate crea las tablas e índices que falten. Es idempotente.
func Migrate(ctx context.Context, db *sqldb.DB) error {
	r, ok := columnTypes[db.Dialect().Name]
	if !ok {
		return fmt.Errorf("sqlstore: no schema for dialect %q", db.Dialect().Name)
	}

	return db.WithTx(ctx, func(q sqldb.Querier) error {
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, r.Replace(stmt)); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
