package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/rentmojo-api/migrations"
)

// Migrate aplica las migraciones pendientes. Con path vacío usa las embebidas en el binario;
// si no, lee los .sql del directorio indicado. Sin cambios pendientes no es error.
func Migrate(pool *pgxpool.Pool, path string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return fmt.Errorf("migrate: driver: %w", err)
	}

	var m *migrate.Migrate
	if path == "" {
		src, err := iofs.New(migrations.FS, ".")
		if err != nil {
			return fmt.Errorf("migrate: source: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "pgx_v5", driver)
		if err != nil {
			return fmt.Errorf("migrate: init: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance("file://"+path, "pgx_v5", driver)
		if err != nil {
			return fmt.Errorf("migrate: init: %w", err)
		}
	}

	// Cerrar m devuelve la conexión al pool; el pool sigue abierto.
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: up: %w", err)
	}
	return nil
}
