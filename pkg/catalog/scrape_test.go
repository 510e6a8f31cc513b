package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleListingHTML = `<!DOCTYPE html>
<html><body>
<div class="documentos">
  <ul>
    <li><a href="/wp-content/uploads/2024/09/NCG_14.pdf">NCG N° 14 Rendición de cuentas</a></li>
    <li><a href="https://www.superir.gob.cl/docs/ncg-3.pdf">Norma de Carácter General NCG 3</a></li>
    <li><a href="/docs/NCG_14.pdf">NCG N° 14 duplicada</a></li>
    <li><a href="/docs/instructivo_superir_n2.pdf">Instructivo SUPERIR N° 2</a></li>
    <li><a href="/docs/otros.pdf">Documento sin número</a></li>
    <li><a href="/noticias/ncg-14-publicada.html">Noticia sobre la NCG 14</a></li>
  </ul>
</div>
</body></html>`

func TestScrapeListing(t *testing.T) {
	listings, err := ScrapeListing(strings.NewReader(sampleListingHTML), "https://www.superir.gob.cl")
	require.NoError(t, err)

	byNumero := map[string]Listing{}
	for _, l := range listings {
		byNumero[l.Numero] = l
	}

	require.Len(t, listings, 3, "duplicates, non-PDF links and unnumbered PDFs are skipped")

	ncg14, ok := byNumero["14"]
	require.True(t, ok)
	assert.Equal(t, "https://www.superir.gob.cl/wp-content/uploads/2024/09/NCG_14.pdf", ncg14.URL)
	assert.Contains(t, ncg14.Titulo, "Rendición")

	ncg3, ok := byNumero["3"]
	require.True(t, ok)
	assert.Equal(t, "https://www.superir.gob.cl/docs/ncg-3.pdf", ncg3.URL)

	inst2, ok := byNumero["2"]
	require.True(t, ok)
	assert.Equal(t, "https://www.superir.gob.cl/docs/instructivo_superir_n2.pdf", inst2.URL)
}

func TestScrapeListingEmptyPage(t *testing.T) {
	listings, err := ScrapeListing(strings.NewReader("<html><body><p>nada</p></body></html>"), "")
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestExtractNumero(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"NCG_14.pdf", "14"},
		{"NCG N° 31", "31"},
		{"ncg-5", "5"},
		{"Instructivo SUPERIR N° 2", "2"},
		{"instructivo_sir_n4.pdf", "4"},
		{"otros.pdf", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractNumero(tc.in), "extractNumero(%q)", tc.in)
	}
}
