// seed genera un script SQL idempotente con el catálogo de productos (y opcionalmente un admin)
// a partir de un CSV. El CSV puede venir en UTF-8 o ISO-8859-1.
//
// Uso: go run ./cmd/seed --in cmd/seed/catalog.csv --out seed.sql [--admin-email admin@rentmojo.com --admin-password ...]
// Luego: psql "$DATABASE_URL" -f seed.sql
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

type options struct {
	In            string
	Out           string // "-" = stdout
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func main() {
	var opts options
	pflag.StringVar(&opts.In, "in", "cmd/seed/catalog.csv", "CSV del catálogo")
	pflag.StringVar(&opts.Out, "out", "-", "archivo SQL de salida (- = stdout)")
	pflag.StringVar(&opts.AdminEmail, "admin-email", "", "email del administrador a crear (vacío = no crear)")
	pflag.StringVar(&opts.AdminPassword, "admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña del administrador")
	pflag.StringVar(&opts.AdminName, "admin-name", "Administrador", "nombre del administrador")
	pflag.Parse()

	n, err := run(opts, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d productos escritos en %s\n", n, opts.Out)
}

// run escribe el script y devuelve cuántos productos incluyó. Si la escritura falla
// el archivo de salida se cierra y se borra para no dejar un script a medias.
func run(opts options, stdout io.Writer) (n int, err error) {
	raw, err := os.ReadFile(opts.In)
	if err != nil {
		return 0, fmt.Errorf("leer CSV: %w", err)
	}
	rows, err := parseCatalog(raw)
	if err != nil {
		return 0, fmt.Errorf("catálogo inválido: %w", err)
	}

	var admin *adminSeed
	if opts.AdminEmail != "" {
		if len(opts.AdminPassword) < 6 {
			return 0, errors.New("--admin-password (o SEED_ADMIN_PASSWORD) debe tener al menos 6 caracteres")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return 0, fmt.Errorf("hash de contraseña: %w", err)
		}
		admin = &adminSeed{Name: opts.AdminName, Email: opts.AdminEmail, PasswordHash: string(hash), Phone: "-", Address: "-"}
	}

	if opts.Out == "-" {
		if err := writeSQL(stdout, rows, admin); err != nil {
			return 0, fmt.Errorf("escribir SQL: %w", err)
		}
		return len(rows), nil
	}

	f, err := os.Create(opts.Out)
	if err != nil {
		return 0, fmt.Errorf("crear salida: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cerrar salida: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(opts.Out)
			n = 0
		}
	}()
	if err := writeSQL(f, rows, admin); err != nil {
		return 0, fmt.Errorf("escribir SQL: %w", err)
	}
	return len(rows), nil
}
