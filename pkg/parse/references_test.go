package parse

import (
	"slices"
	"testing"
)

func TestExtractLawReferences(t *testing.T) {
	text := "VISTOS: Lo dispuesto en la Ley N° 20.720, sobre Reorganización y Liquidación; " +
		"la Ley N° 20720 ya citada; el D.F.L. N° 1-19.653; " +
		"el Decreto Supremo N° 134; y la NCG N° 12 de esta Superintendencia."

	refs := extractLawReferences(text, "")
	if !slices.Contains(refs, "Ley N° 20.720") {
		t.Errorf("missing dotted law: %#v", refs)
	}
	count := 0
	for _, r := range refs {
		if r == "Ley N° 20.720" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("dotted and undotted writings not deduplicated: %#v", refs)
	}
	if !slices.Contains(refs, "DFL N° 1-19.653") {
		t.Errorf("missing DFL: %#v", refs)
	}
	if !slices.Contains(refs, "D.S. N° 134") {
		t.Errorf("missing decreto supremo: %#v", refs)
	}
	if !slices.Contains(refs, "NCG N° 12") {
		t.Errorf("missing NCG: %#v", refs)
	}
}

func TestExtractLawReferencesSelfFilter(t *testing.T) {
	text := "NORMA DE CARÁCTER GENERAL N° 14. La presente NCG N° 14 modifica la NCG N° 3."
	refs := extractLawReferences(text, "14")
	if slices.Contains(refs, "NCG N° 14") {
		t.Errorf("self reference kept: %#v", refs)
	}
	if !slices.Contains(refs, "NCG N° 3") {
		t.Errorf("genuine NCG reference lost: %#v", refs)
	}
}

func TestExtractLawReferencesShortNumbersSkipped(t *testing.T) {
	refs := extractLawReferences("según la Ley N° 123 citada", "")
	for _, r := range refs {
		if r == "Ley N° 123" {
			t.Errorf("short law number kept: %#v", refs)
		}
	}
}

func TestFormatLeyNumero(t *testing.T) {
	cases := []struct{ in, want string }{
		{"20720", "20.720"},
		{"20.720", "20.720"},
		{"1234", "1.234"},
		{"818", "818"},
	}
	for _, tc := range cases {
		if got := formatLeyNumero(tc.in); got != tc.want {
			t.Errorf("formatLeyNumero(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
