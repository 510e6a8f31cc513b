package parse

import (
	"strings"
	"testing"
)

func TestParseCierreFullBlock(t *testing.T) {
	p := NewParser(NCGProfile)
	closing := "Anótese y publíquese en el sitio web institucional.\n\n" +
		"JOSEFINA MONTENEGRO ARANEDA\n" +
		"SUPERINTENDENTA DE INSOLVENCIA Y REEMPRENDIMIENTO"
	raw := closing + "\n\nDISTRIBUCIÓN:\n- Intendencia de Fiscalización\n- Unidad de Estudios\nPVL/PCP\n"

	cierre := p.parseCierre(closing, raw)
	if cierre == nil {
		t.Fatal("nil cierre for populated closing")
	}
	if !strings.HasPrefix(cierre.Formula, "Anótese y publíquese") {
		t.Errorf("formula = %q", cierre.Formula)
	}
	if cierre.Firmante == nil {
		t.Fatal("firmante not found")
	}
	if cierre.Firmante.Nombre != "JOSEFINA MONTENEGRO ARANEDA" {
		t.Errorf("nombre = %q", cierre.Firmante.Nombre)
	}
	if !strings.Contains(cierre.Firmante.Cargo, "SUPERINTENDENTA") {
		t.Errorf("cargo = %q", cierre.Firmante.Cargo)
	}
	if got := cierre.Destinatarios; got != "Intendencia de Fiscalización; Unidad de Estudios" {
		t.Errorf("destinatarios = %q", got)
	}
}

func TestParseCierreUppercaseFormula(t *testing.T) {
	p := NewParser(NCGProfile)
	closing := "ANÓTESE, PUBLÍQUESE Y ARCHÍVESE\n\n" +
		"PEDRO PABLO SOTO CONTRERAS\n" +
		"Superintendente de Insolvencia y Reemprendimiento"

	cierre := p.parseCierre(closing, closing)
	if cierre == nil {
		t.Fatal("nil cierre")
	}
	if !strings.Contains(cierre.Formula, "ANÓTESE") {
		t.Errorf("formula = %q", cierre.Formula)
	}
	if cierre.Firmante == nil || cierre.Firmante.Nombre != "PEDRO PABLO SOTO CONTRERAS" {
		t.Fatalf("firmante = %#v", cierre.Firmante)
	}
	if cierre.Firmante.Cargo != "SUPERINTENDENTE DE INSOLVENCIA Y REEMPRENDIMIENTO" {
		t.Errorf("cargo not uppercased: %q", cierre.Firmante.Cargo)
	}
}

func TestParseCierreDistribucionCode(t *testing.T) {
	p := NewParser(NCGProfile)
	closing := "Anótese y archívese.\n\nMARÍA LORETO RIED UNDURRAGA\nFiscal y Superintendenta (S)"
	raw := closing + "\n\nGJN/SRC/PVL\n"

	cierre := p.parseCierre(closing, raw)
	if cierre == nil {
		t.Fatal("nil cierre")
	}
	if cierre.Distribucion != "GJN/SRC/PVL" {
		t.Errorf("distribucion = %q", cierre.Distribucion)
	}
}

func TestParseCierreKeywordLinesNotNames(t *testing.T) {
	p := NewParser(NCGProfile)
	closing := "ANÓTESE, NOTIFÍQUESE Y PUBLÍQUESE EN EL DIARIO OFICIAL"

	cierre := p.parseCierre(closing, closing)
	if cierre == nil {
		t.Fatal("nil cierre")
	}
	if cierre.Firmante != nil {
		t.Errorf("directive line taken as signer: %#v", cierre.Firmante)
	}
}

func TestParseCierreEmpty(t *testing.T) {
	p := NewParser(NCGProfile)
	if cierre := p.parseCierre("  \n ", "algo"); cierre != nil {
		t.Errorf("got %#v for blank closing", cierre)
	}
}
