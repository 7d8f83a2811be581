package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
)

// catalogNamespace fija los UUID del seed: el mismo nombre siempre produce el mismo id.
var catalogNamespace = uuid.MustParse("6f1c2a0e-8d4b-4f7a-9c3e-5b2d1a0f9e87")

var catalogHeader = []string{
	"name", "category", "sub_category", "description", "image",
	"monthly_rent", "security_deposit", "tenure_options", "stock", "is_available",
}

type catalogRow struct {
	ID              string
	Name            string
	Category        string
	SubCategory     string
	Description     string
	Image           string
	MonthlyRent     decimal.Decimal
	SecurityDeposit decimal.Decimal
	TenureOptions   []int
	Stock           int
	IsAvailable     bool
}

// decodeCatalog devuelve el contenido en UTF-8. Si no es UTF-8 válido se asume ISO-8859-1 (exportes de Excel).
func decodeCatalog(raw []byte) (io.Reader, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()), nil
}

// parseCatalog lee el CSV con cabecera; acepta ',' o ';' como separador.
func parseCatalog(raw []byte) ([]catalogRow, error) {
	r, err := decodeCatalog(raw)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(body))
	if first, _, _ := strings.Cut(string(body), "\n"); strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range catalogHeader[:7] {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}

	var rows []catalogRow
	seen := map[string]int{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		row, err := buildRow(get)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if prev, dup := seen[strings.ToLower(row.Name)]; dup {
			return nil, fmt.Errorf("línea %d: producto %q repetido (línea %d)", line, row.Name, prev)
		}
		seen[strings.ToLower(row.Name)] = line
		rows = append(rows, row)
	}
	return rows, nil
}

func buildRow(get func(string) string) (catalogRow, error) {
	row := catalogRow{
		Name:        get("name"),
		Category:    get("category"),
		SubCategory: get("sub_category"),
		Description: get("description"),
		Image:       get("image"),
		IsAvailable: true,
	}
	if row.Name == "" || row.Image == "" {
		return row, errors.New("name e image son obligatorios")
	}
	if !entity.ValidCategory(row.Category) {
		return row, fmt.Errorf("categoría inválida %q", row.Category)
	}
	var err error
	if row.MonthlyRent, err = decimal.NewFromString(get("monthly_rent")); err != nil || !row.MonthlyRent.IsPositive() {
		return row, fmt.Errorf("monthly_rent inválido %q", get("monthly_rent"))
	}
	if row.SecurityDeposit, err = decimal.NewFromString(get("security_deposit")); err != nil || row.SecurityDeposit.IsNegative() {
		return row, fmt.Errorf("security_deposit inválido %q", get("security_deposit"))
	}
	if v := get("tenure_options"); v != "" {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == '|' || r == ' ' }) {
			n, err := strconv.Atoi(part)
			if err != nil || n <= 0 {
				return row, fmt.Errorf("tenure_options inválido %q", v)
			}
			row.TenureOptions = append(row.TenureOptions, n)
		}
		slices.Sort(row.TenureOptions)
		row.TenureOptions = slices.Compact(row.TenureOptions)
	}
	if v := get("stock"); v != "" {
		if row.Stock, err = strconv.Atoi(v); err != nil || row.Stock < 0 {
			return row, fmt.Errorf("stock inválido %q", v)
		}
	}
	if v := get("is_available"); v != "" {
		if row.IsAvailable, err = strconv.ParseBool(v); err != nil {
			return row, fmt.Errorf("is_available inválido %q", v)
		}
	}
	row.ID = uuid.NewSHA1(catalogNamespace, []byte(strings.ToLower(row.Name))).String()
	return row, nil
}

type adminSeed struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
}

// writeSQL genera el script. Re-ejecutarlo actualiza el catálogo y no duplica al admin.
func writeSQL(w io.Writer, rows []catalogRow, admin *adminSeed) error {
	var b strings.Builder
	b.WriteString("-- Generado por cmd/seed. Idempotente: se puede ejecutar varias veces.\n")
	b.WriteString("BEGIN;\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b,
			"INSERT INTO products (id, name, category, sub_category, description, image, monthly_rent, security_deposit, tenure_options, stock, is_available)\n"+
				"VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %d, %t)\n"+
				"ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, sub_category = EXCLUDED.sub_category,\n"+
				"    description = EXCLUDED.description, image = EXCLUDED.image, monthly_rent = EXCLUDED.monthly_rent,\n"+
				"    security_deposit = EXCLUDED.security_deposit, tenure_options = EXCLUDED.tenure_options, stock = EXCLUDED.stock,\n"+
				"    is_available = EXCLUDED.is_available, updated_at = now();\n\n",
			quote(r.ID), quote(r.Name), quote(r.Category), quote(r.SubCategory), quote(r.Description), quote(r.Image),
			r.MonthlyRent.StringFixed(2), r.SecurityDeposit.StringFixed(2), intArray(r.TenureOptions), r.Stock, r.IsAvailable,
		)
	}
	if admin != nil {
		fmt.Fprintf(&b,
			"INSERT INTO users (id, name, email, password_hash, phone, address, role)\n"+
				"VALUES (%s, %s, %s, %s, %s, %s, 'admin')\n"+
				"ON CONFLICT ((lower(email))) DO NOTHING;\n\n",
			quote(uuid.NewSHA1(catalogNamespace, []byte("admin:"+strings.ToLower(admin.Email))).String()),
			quote(admin.Name), quote(strings.ToLower(admin.Email)), quote(admin.PasswordHash),
			quote(admin.Phone), quote(admin.Address),
		)
	}
	b.WriteString("COMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func intArray(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "'{" + strings.Join(parts, ",") + "}'::INTEGER[]"
}
