package parse

import (
	"strings"
	"testing"
)

func TestSplitConsiderandosNumbered(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "1° Que, corresponde a esta Superintendencia impartir instrucciones.\n" +
		"2° Que, la Ley N° 20.720 regula los procedimientos concursales.\n" +
		"3° Que, en conformidad a lo anterior, se dicta la siguiente:"

	items, formula := p.splitConsiderandos(text)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2 (formula item dropped): %#v", len(items), items)
	}
	if items[0].Numero != 1 || items[1].Numero != 2 {
		t.Errorf("numeros = %d, %d", items[0].Numero, items[1].Numero)
	}
	if !strings.HasPrefix(items[0].Texto, "Que, corresponde") {
		t.Errorf("item numbering prefix not stripped: %q", items[0].Texto)
	}
	if !strings.HasPrefix(formula, "Que, en conformidad a lo anterior") {
		t.Errorf("formula = %q", formula)
	}
}

func TestSplitConsiderandosFormulaKeepsNonEmptyItem(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "1° Que, existen razones fundadas para actualizar la normativa vigente. " +
		"Que, en conformidad a lo anterior, se dicta la siguiente norma:"

	items, formula := p.splitConsiderandos(text)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if formula == "" {
		t.Fatal("formula not extracted")
	}
	if strings.Contains(items[0].Texto, "dicta la siguiente") {
		t.Errorf("formula left inside item: %q", items[0].Texto)
	}
}

func TestSplitConsiderandosUnnumbered(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "Que la ley encarga a este Servicio la supervigilancia de los entes fiscalizados."
	items, formula := p.splitConsiderandos(text)
	if len(items) != 1 || items[0].Numero != 1 {
		t.Fatalf("items = %#v", items)
	}
	if formula != "" {
		t.Errorf("unexpected formula %q", formula)
	}
}

func TestSplitConsiderandosStripsTitleResidue(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "1° Que, procede dictar la norma correspondiente.\n" +
		"TÍTULO I\nDisposiciones Generales"

	items, _ := p.splitConsiderandos(text)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if strings.Contains(items[0].Texto, "TÍTULO") {
		t.Errorf("title residue kept: %q", items[0].Texto)
	}
}

func TestSplitConsiderandosEmpty(t *testing.T) {
	p := NewParser(NCGProfile)
	items, formula := p.splitConsiderandos("   \n ")
	if items != nil || formula != "" {
		t.Errorf("got %#v, %q for blank span", items, formula)
	}
}
