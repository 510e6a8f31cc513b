package library

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/superir/pkg/norma"
)

func testDoc(id, numero string) *norma.Norma {
	return &norma.Norma{
		Identificador: id,
		Tipo:          norma.TipoNCG,
		Metadatos: norma.DocumentMetadata{
			Numero:             numero,
			FechaISO:           "2024-09-04",
			Materia:            "Rendición de cuentas",
			LeyesReferenciadas: []string{"Ley N° 20.720"},
			Deroga:             []string{"NCG-2"},
		},
		Estructuras: []*norma.StructuralNode{
			{
				Kind: norma.KindTitulo, ID: "1", Ordinal: "I",
				Hijos: []*norma.StructuralNode{
					{Kind: norma.KindArticulo, ID: "1", Ordinal: "1"},
					{Kind: norma.KindArticulo, ID: "2", Ordinal: "2"},
				},
			},
		},
	}
}

func TestLibraryIngestAndGet(t *testing.T) {
	lib, err := Init(t.TempDir())
	require.NoError(t, err)
	defer lib.Close()

	rec, err := lib.Ingest(testDoc("NCG-14", "14"), []byte("<norma/>"))
	require.NoError(t, err)
	assert.Equal(t, "NCG-14", rec.Identificador)
	assert.Equal(t, 2, rec.Articulos)
	assert.Equal(t, 1, rec.Divisiones)

	got, err := lib.Get("NCG-14")
	require.NoError(t, err)
	assert.Equal(t, "14", got.Numero)
	assert.Equal(t, "2024-09-04", got.Fecha)

	xml, err := lib.LoadXML("NCG-14")
	require.NoError(t, err)
	assert.Equal(t, "<norma/>", string(xml))
}

func TestLibraryGetMissing(t *testing.T) {
	lib, err := Init(t.TempDir())
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.Get("NCG-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLibraryReingestReplaces(t *testing.T) {
	lib, err := Init(t.TempDir())
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.Ingest(testDoc("NCG-14", "14"), []byte("<norma/>"))
	require.NoError(t, err)

	updated := testDoc("NCG-14", "14")
	updated.Metadatos.Materia = "Versión actualizada"
	updated.Metadatos.Deroga = nil
	_, err = lib.Ingest(updated, []byte("<norma version=\"2\"/>"))
	require.NoError(t, err)

	got, err := lib.Get("NCG-14")
	require.NoError(t, err)
	assert.Equal(t, "Versión actualizada", got.Materia)

	refs, err := lib.References("NCG-14")
	require.NoError(t, err)
	for _, r := range refs {
		assert.NotEqual(t, "deroga", r.Kind, "stale deroga reference survived re-ingest")
	}

	records, err := lib.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLibraryListOrdersByNumero(t *testing.T) {
	lib, err := Init(t.TempDir())
	require.NoError(t, err)
	defer lib.Close()

	for _, n := range []string{"14", "3", "31"} {
		_, err := lib.Ingest(testDoc("NCG-"+n, n), []byte("<norma/>"))
		require.NoError(t, err)
	}

	records, err := lib.List()
	require.NoError(t, err)
	require.Len(t, records, 3)

	var numeros []string
	for _, r := range records {
		numeros = append(numeros, r.Numero)
	}
	assert.Equal(t, []string{"3", "14", "31"}, numeros)
}

func TestLibraryReferences(t *testing.T) {
	lib, err := Init(t.TempDir())
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.Ingest(testDoc("NCG-14", "14"), []byte("<norma/>"))
	require.NoError(t, err)

	refs, err := lib.References("NCG-14")
	require.NoError(t, err)

	kinds := make(map[string][]string)
	for _, r := range refs {
		kinds[r.Kind] = append(kinds[r.Kind], r.Referencia)
	}
	assert.Equal(t, []string{"Ley N° 20.720"}, kinds["cita"])
	assert.Equal(t, []string{"NCG-2"}, kinds["deroga"])
}

func TestLibraryRejectsAnonymousDocument(t *testing.T) {
	lib, err := Init(t.TempDir())
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.Ingest(&norma.Norma{}, []byte("<norma/>"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "identifier"))
}

func TestLibraryOpenMissing(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
}
