package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func latin1(t *testing.T, s string) *bytes.Reader {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return bytes.NewReader([]byte(b))
}

func TestReadStores_DecodificaLatin1YDescartaFilasIncompletas(t *testing.T) {
	in := "Codehex;Name;City\n" +
		"a1f;Tienda Logroño;Logroño\n" +
		";Sin código;Madrid\n" +
		"B2C;L'Àngel;Girona\n" +
		"A1F;Tienda Logroño Centro;Logroño\n"

	rows, skipped, err := readStores(latin1(t, in), ';')
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 2, "codehex repetido conserva la última fila")
	assert.Equal(t, "A1F", rows[0].codehex)
	assert.Equal(t, "Tienda Logroño Centro", rows[0].name)
	assert.Equal(t, "Logroño", rows[0].city)
	assert.Equal(t, "L'Àngel", rows[1].name)
}

func TestReadStores_IDEstablePorCodehex(t *testing.T) {
	in := "codehex;name\nA1F;Uno\n"
	first, _, err := readStores(latin1(t, in), ';')
	require.NoError(t, err)
	second, _, err := readStores(latin1(t, in), ';')
	require.NoError(t, err)
	assert.Equal(t, first[0].id, second[0].id)
}

func TestReadStores_FaltaColumnaObligatoria(t *testing.T) {
	_, _, err := readStores(latin1(t, "codehex;city\nA1F;Madrid\n"), ';')
	assert.ErrorContains(t, err, "name")
}

func TestWriteSQL_UpsertEscapado(t *testing.T) {
	rows := []storeRow{{id: "00000000-0000-0000-0000-000000000001", codehex: "B2C", name: "L'Àngel"}}
	var buf strings.Builder
	require.NoError(t, writeSQL(&buf, rows))
	sql := buf.String()
	assert.Contains(t, sql, "'L''Àngel'")
	assert.Contains(t, sql, "ON CONFLICT (codehex) DO UPDATE")
	assert.NotContains(t, sql, "dot_user_id")
}
