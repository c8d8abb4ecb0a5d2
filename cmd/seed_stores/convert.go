package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// storeNamespace espacio de nombres para derivar el id de la tienda desde su codehex:
// volver a sembrar el mismo CSV produce los mismos ids.
var storeNamespace = uuid.MustParse("6f1c2a0e-3b7d-5e42-9a51-0c8d4b2e7f10")

// columnas esperadas en la cabecera (el orden puede variar).
var requiredColumns = []string{"codehex", "name"}

type storeRow struct {
	id, codehex, name, brand, city, size string
}

// readStores decodifica un CSV en ISO-8859-1 separado por sep.
// Filas sin codehex o nombre se descartan; un codehex repetido conserva la última fila.
func readStores(r io.Reader, sep rune) ([]storeRow, int, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, 0, fmt.Errorf("falta la columna %q", c)
		}
	}
	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		rows    []storeRow
		pos     = map[string]int{}
		skipped int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("leer fila: %w", err)
		}
		row := storeRow{
			codehex: strings.ToUpper(field(rec, "codehex")),
			name:    field(rec, "name"),
			brand:   field(rec, "brand"),
			city:    field(rec, "city"),
			size:    field(rec, "size"),
		}
		if row.codehex == "" || row.name == "" {
			skipped++
			continue
		}
		row.id = uuid.NewSHA1(storeNamespace, []byte(row.codehex)).String()
		if i, dup := pos[row.codehex]; dup {
			rows[i] = row
			continue
		}
		pos[row.codehex] = len(rows)
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// writeSQL escribe un INSERT idempotente por tienda (upsert por codehex).
// No toca dot_user_id ni aderente_id: las asignaciones se gestionan por la API.
func writeSQL(w io.Writer, rows []storeRow) error {
	var b strings.Builder
	b.WriteString("-- Tiendas\n")
	b.WriteString("-- Generado por cmd/seed_stores\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "INSERT INTO stores (id, codehex, name, brand, city, size)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', '%s')\n",
			r.id, escapeSQL(r.codehex), escapeSQL(r.name), escapeSQL(r.brand), escapeSQL(r.city), escapeSQL(r.size))
		b.WriteString("ON CONFLICT (codehex) DO UPDATE SET name = EXCLUDED.name, brand = EXCLUDED.brand,\n")
		b.WriteString("    city = EXCLUDED.city, size = EXCLUDED.size, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
