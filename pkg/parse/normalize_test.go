package parse

import (
	"strings"
	"testing"
)

func TestNormalizeTextMergesWrappedLines(t *testing.T) {
	in := "La presente norma regula el\nprocedimiento concursal de\nrenegociación."
	got := NormalizeText(in)
	if strings.Count(got, "\n") != 0 {
		t.Errorf("wrapped sentence not merged into one paragraph: %q", got)
	}
}

func TestNormalizeTextKeepsStructuralOpeners(t *testing.T) {
	in := "TÍTULO I\nDisposiciones Generales\nArtículo 1°. Ámbito de aplicación."
	got := NormalizeText(in)
	lines := strings.Split(got, "\n")

	var articleLine string
	for _, ln := range lines {
		if strings.HasPrefix(ln, "Artículo") {
			articleLine = ln
		}
	}
	if articleLine == "" {
		t.Fatalf("article header merged away: %q", got)
	}
	if !strings.HasPrefix(lines[0], "TÍTULO I") {
		t.Errorf("first line = %q, want TÍTULO heading", lines[0])
	}
}

func TestNormalizeTextPreservesBlankLines(t *testing.T) {
	in := "Primer párrafo.\n\nSegundo párrafo."
	got := NormalizeText(in)
	if !strings.Contains(got, "\n\n") {
		t.Errorf("paragraph gap lost: %q", got)
	}
}

func TestNormalizeTextKeepsItemMarkers(t *testing.T) {
	in := "Se acompañarán los siguientes antecedentes:\na) Certificado de deudas.\nb) Informe social."
	got := NormalizeText(in)
	for _, marker := range []string{"a) ", "b) "} {
		if !strings.Contains(got, "\n"+marker) {
			t.Errorf("item marker %q not kept at line start:\n%s", marker, got)
		}
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	in := "VISTOS:\nLo dispuesto en la Ley N° 20.720;\nla Ley N° 21.563.\n\nCONSIDERANDO:\n1° Que, corresponde a esta\nSuperintendencia impartir instrucciones."
	once := NormalizeText(in)
	twice := NormalizeText(once)
	if once != twice {
		t.Errorf("normalization not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestSplitParagraphsCollapsedText(t *testing.T) {
	in := "Primera oración completa.  Segunda oración que sigue.  Tercera parte."
	got := splitCollapsed(in)
	if len(got) != 3 {
		t.Fatalf("splitCollapsed returned %d parts, want 3: %#v", len(got), got)
	}
}
