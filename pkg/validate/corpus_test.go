package validate

import (
	"testing"

	"github.com/coolbeans/superir/pkg/library"
	"github.com/coolbeans/superir/pkg/norma"
)

func corpusDoc(id, numero string, deroga, derogadaPor []string) *norma.Norma {
	return &norma.Norma{
		Identificador: id,
		Tipo:          norma.TipoNCG,
		Metadatos: norma.DocumentMetadata{
			Numero:      numero,
			FechaISO:    "2024-09-04",
			Deroga:      deroga,
			DerogadaPor: derogadaPor,
		},
		Estructuras: []*norma.StructuralNode{
			{Kind: norma.KindArticulo, ID: "1", Ordinal: "1", Texto: "Texto."},
		},
	}
}

func ingestAll(t *testing.T, docs ...*norma.Norma) *library.Library {
	t.Helper()
	lib, err := library.Init(t.TempDir())
	if err != nil {
		t.Fatalf("init library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	for _, doc := range docs {
		if _, err := lib.Ingest(doc, []byte("<norma/>")); err != nil {
			t.Fatalf("ingest %s: %v", doc.Identificador, err)
		}
	}
	return lib
}

func TestValidateCorpusConsistent(t *testing.T) {
	lib := ingestAll(t,
		corpusDoc("NCG-2", "2", nil, []string{"NCG-14"}),
		corpusDoc("NCG-14", "14", []string{"NCG-2"}, nil),
	)

	result, err := NewValidator().ValidateCorpus(lib)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusPass {
		t.Errorf("status = %s, issues = %v, warnings = %v",
			result.Status, result.Issues, result.Warnings)
	}
	if result.Documentos != 2 {
		t.Errorf("documentos = %d, want 2", result.Documentos)
	}
}

func TestValidateCorpusOneSidedDerogation(t *testing.T) {
	lib := ingestAll(t,
		corpusDoc("NCG-2", "2", nil, nil),
		corpusDoc("NCG-14", "14", []string{"NCG-2"}, nil),
	)

	result, err := NewValidator().ValidateCorpus(lib)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusWarn {
		t.Fatalf("status = %s, want WARN", result.Status)
	}
	if !hasIssue(result.Warnings, "references", "one side only") {
		t.Errorf("expected one-sided edge warning, got %v", result.Warnings)
	}
}

func TestValidateCorpusDanglingDerogation(t *testing.T) {
	lib := ingestAll(t, corpusDoc("NCG-14", "14", []string{"NCG-2"}, nil))

	result, err := NewValidator().ValidateCorpus(lib)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusWarn {
		t.Fatalf("status = %s, want WARN", result.Status)
	}
	if !hasIssue(result.Warnings, "references", "not present") {
		t.Errorf("expected dangling reference warning, got %v", result.Warnings)
	}
}

func TestValidateCorpusSelfDerogation(t *testing.T) {
	lib := ingestAll(t, corpusDoc("NCG-14", "14", []string{"NCG-14"}, nil))

	result, err := NewValidator().ValidateCorpus(lib)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusFail {
		t.Fatalf("status = %s, want FAIL", result.Status)
	}
	if !hasIssue(result.Issues, "references", "themselves") {
		t.Errorf("expected self reference issue, got %v", result.Issues)
	}
}

func TestValidateCorpusExternalReferencesIgnored(t *testing.T) {
	doc := corpusDoc("NCG-14", "14", []string{"Resolución Exenta N° 100"}, nil)
	lib := ingestAll(t, doc)

	result, err := NewValidator().ValidateCorpus(lib)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusPass {
		t.Errorf("status = %s, warnings = %v", result.Status, result.Warnings)
	}
}
