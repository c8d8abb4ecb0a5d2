// seed_stores genera un script SQL idempotente para poblar la tabla stores
// a partir de un CSV exportado en ISO-8859-1 (separador ';' por defecto).
//
// Uso: go run ./cmd/seed_stores [-sep ';'] [-out seed_stores.sql] tiendas.csv
// Cabecera: codehex;name;brand;city;size (brand, city y size son opcionales).
package main

import (
	"flag"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/retail-audit-api/pkg/logger"
)

func main() {
	sep := flag.String("sep", ";", "separador de columnas")
	outPath := flag.String("out", "seed_stores.sql", "archivo SQL de salida")
	flag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "info", Service: "seed_stores"})

	csvPath := "tiendas.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	if utf8.RuneCountInString(*sep) != 1 {
		log.Fatal().Str("sep", *sep).Msg("el separador debe ser un único carácter")
	}
	comma, _ := utf8.DecodeRuneInString(*sep)

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	rows, skipped, err := readStores(f, comma)
	if err != nil {
		log.Fatal().Err(err).Msg("decodificar CSV")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("crear archivo")
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		log.Fatal().Err(err).Msg("escribir SQL")
	}
	log.Info().Str("out", *outPath).Int("stores", len(rows)).Int("skipped", skipped).Msg("seed generado")
}
