package parse

import (
	"strings"
	"testing"

	"github.com/coolbeans/superir/pkg/norma"
)

func TestParseContentLetteredListado(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "Para iniciar el procedimiento, la persona deudora acompañará los siguientes instrumentos:\n" +
		"a) Certificado de deudas emitido por un distribuidor de información comercial.\n" +
		"b) Declaración jurada con la singularización de sus ingresos."

	c := p.parseArticleContent(text)
	if len(c.Requisitos) != 0 {
		t.Fatalf("Requisitos populated alongside Listado: %d", len(c.Requisitos))
	}
	if len(c.Listado) != 2 {
		t.Fatalf("len(Listado) = %d, want 2", len(c.Listado))
	}
	if len(c.Parrafos) != 1 || !strings.HasPrefix(c.Parrafos[0], "Para iniciar") {
		t.Errorf("intro paragraphs = %#v", c.Parrafos)
	}
	for i, want := range []string{"a", "b"} {
		if c.Listado[i].Letra != want {
			t.Errorf("item %d letra = %q, want %q", i, c.Listado[i].Letra, want)
		}
		if c.Listado[i].Numero != "" {
			t.Errorf("item %d has both letra and numero", i)
		}
	}
	body, ok := c.Listado[1].Cuerpo.(norma.ItemTexto)
	if !ok {
		t.Fatalf("item b cuerpo is %T, want ItemTexto", c.Listado[1].Cuerpo)
	}
	if !strings.HasPrefix(body.Texto, "Declaración jurada") {
		t.Errorf("item b texto = %q", body.Texto)
	}
}

func TestParseContentLetterReferenceNotMarker(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "El informe indicado en la letra a) anterior se remitirá mensualmente.\n" +
		"La letra b) del artículo precedente no aplica en este caso."

	c := p.parseArticleContent(text)
	if len(c.Listado) != 0 {
		t.Errorf("cross-references parsed as items: %#v", c.Listado)
	}
	if len(c.Parrafos) != 2 {
		t.Errorf("len(Parrafos) = %d, want 2", len(c.Parrafos))
	}
}

func TestParseContentNumberedListado(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "El plan de pagos contendrá:\n" +
		"1. Monto total de cada crédito.\n" +
		"2. Plazo de pago propuesto.\n" +
		"3. Tasa de interés aplicable."

	c := p.parseArticleContent(text)
	if len(c.Listado) != 3 {
		t.Fatalf("len(Listado) = %d, want 3", len(c.Listado))
	}
	for i, want := range []string{"1", "2", "3"} {
		if c.Listado[i].Numero != want {
			t.Errorf("item %d numero = %q, want %q", i, c.Listado[i].Numero, want)
		}
	}
}

func TestParseContentNumberedRequiresUppercase(t *testing.T) {
	p := NewParser(NCGProfile)
	// Dotted amounts and dates must not become item markers.
	text := "El saldo asciende a 1.500 unidades de fomento y el plazo vence el 3. de cada mes según lo pactado."
	c := p.parseArticleContent(text)
	if len(c.Listado) != 0 {
		t.Errorf("inline numbers parsed as items: %#v", c.Listado)
	}
}

func TestParseContentRequisitos(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "Los interesados acreditarán los siguientes requisitos:\n" +
		"I.- Requisitos generales: Ser mayor de edad y no haber sido condenado por delito concursal.\n" +
		"II.- Antecedentes a acompañar:\n" +
		"a) Certificado de título profesional. Emitido por la institución correspondiente.\n" +
		"b) Declaración jurada de independencia.\n" +
		"III.- Garantía de fiel desempeño vigente por el período que señala la ley."

	c := p.parseArticleContent(text)
	if len(c.Listado) != 0 {
		t.Fatalf("Listado populated alongside Requisitos: %#v", c.Listado)
	}
	if len(c.Requisitos) != 3 {
		t.Fatalf("len(Requisitos) = %d, want 3", len(c.Requisitos))
	}
	for i, want := range []string{"I", "II", "III"} {
		if c.Requisitos[i].Numero != want {
			t.Errorf("requisito %d numero = %q, want %q", i, c.Requisitos[i].Numero, want)
		}
	}
	if got := len(c.Requisitos[1].Items); got != 2 {
		t.Fatalf("requisito II items = %d, want 2", got)
	}
	itemA := c.Requisitos[1].Items[0]
	if itemA.Letra != "a" {
		t.Errorf("requisito II first item letra = %q", itemA.Letra)
	}
	if itemA.Nombre != "Certificado de título profesional" {
		t.Errorf("requisito II item a nombre = %q", itemA.Nombre)
	}
	if c.Requisitos[1].Nombre != "Antecedentes a acompañar" {
		t.Errorf("requisito II nombre = %q", c.Requisitos[1].Nombre)
	}
}

func TestParseContentSingleRequisito(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "Para inscribirse en el registro se exigirá:\n" +
		"I.- Ser mayor de edad y contar con título profesional."

	c := p.parseArticleContent(text)
	if len(c.Requisitos) != 1 {
		t.Fatalf("len(Requisitos) = %d, want 1: %#v", len(c.Requisitos), c)
	}
	if c.Requisitos[0].Numero != "I" {
		t.Errorf("requisito numero = %q, want I", c.Requisitos[0].Numero)
	}
	if len(c.Parrafos) != 1 || !strings.HasPrefix(c.Parrafos[0], "Para inscribirse") {
		t.Errorf("intro paragraphs = %#v", c.Parrafos)
	}
	if len(c.Requisitos[0].Parrafos) != 1 {
		t.Errorf("requisito body = %#v", c.Requisitos[0].Parrafos)
	}
}

func TestParseContentSingleRequisitoWithItems(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "Se exigirá:\n" +
		"I.- Antecedentes:\n" +
		"a) Cédula de identidad vigente.\n" +
		"b) Certificado de antecedentes."

	c := p.parseArticleContent(text)
	if len(c.Listado) != 0 {
		t.Fatalf("lettered sub-items promoted to Listado: %#v", c.Listado)
	}
	if len(c.Requisitos) != 1 {
		t.Fatalf("len(Requisitos) = %d, want 1: %#v", len(c.Requisitos), c)
	}
	req := c.Requisitos[0]
	if req.Nombre != "Antecedentes" {
		t.Errorf("requisito nombre = %q", req.Nombre)
	}
	if len(req.Items) != 2 {
		t.Fatalf("requisito items = %d, want 2", len(req.Items))
	}
}

func TestParseContentSingleLetteredItem(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "El escrito acompañará:\n" +
		"a) Certificado de deudas emitido por un distribuidor de información comercial."

	c := p.parseArticleContent(text)
	if len(c.Listado) != 1 {
		t.Fatalf("len(Listado) = %d, want 1: %#v", len(c.Listado), c)
	}
	if c.Listado[0].Letra != "a" {
		t.Errorf("item letra = %q, want a", c.Listado[0].Letra)
	}
}

func TestParseContentRequisitoAnnexReference(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "Se exigirá lo siguiente:\n" +
		"I.- Identificación completa del solicitante.\n" +
		"II.- Documentación de respaldo.\n\n" +
		"En el Anexo I se detalla el formato de presentación de los antecedentes."

	c := p.parseArticleContent(text)
	if len(c.Requisitos) != 2 {
		t.Fatalf("len(Requisitos) = %d, want 2", len(c.Requisitos))
	}
	if c.ReferenciaAnexo == "" {
		t.Fatal("annex reference not extracted")
	}
	if !strings.HasPrefix(c.ReferenciaAnexo, "En el Anexo I") {
		t.Errorf("ReferenciaAnexo = %q", c.ReferenciaAnexo)
	}
}

func TestParseContentRomanSublist(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "El veedor verificará lo siguiente:\n" +
		"a) Estado de los bienes:\n" +
		"i. Bienes inmuebles inscritos.\n" +
		"ii. Bienes muebles sujetos a prenda.\n" +
		"b) Estado de las obligaciones vigentes."

	c := p.parseArticleContent(text)
	if len(c.Listado) != 2 {
		t.Fatalf("len(Listado) = %d, want 2: %#v", len(c.Listado), c.Listado)
	}
	sub, ok := c.Listado[0].Cuerpo.(norma.ItemSublistado)
	if !ok {
		t.Fatalf("item a cuerpo is %T, want ItemSublistado", c.Listado[0].Cuerpo)
	}
	if len(sub.Subitems) != 2 {
		t.Fatalf("len(Subitems) = %d, want 2", len(sub.Subitems))
	}
	for i, want := range []string{"i", "ii"} {
		if sub.Subitems[i].Numero != want {
			t.Errorf("subitem %d numero = %q, want %q", i, sub.Subitems[i].Numero, want)
		}
	}
}

func TestParseContentRomanListStandalone(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "Las etapas del procedimiento son:\n" +
		"i. Presentación de la solicitud.\n" +
		"ii. Examen de admisibilidad.\n" +
		"iii. Audiencia de renegociación."

	c := p.parseArticleContent(text)
	if len(c.Listado) != 3 {
		t.Fatalf("len(Listado) = %d, want 3: %#v", len(c.Listado), c.Listado)
	}
	if c.Listado[2].Numero != "iii" {
		t.Errorf("third item numero = %q, want iii", c.Listado[2].Numero)
	}
}

func TestParseContentUppercaseListado(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "Las materias se ordenan como sigue:\n" +
		"A.- Normas de registro de los entes fiscalizados.\n" +
		"B.- Normas de supervisión en terreno.\n" +
		"C.- Normas sancionatorias."

	c := p.parseArticleContent(text)
	if len(c.Listado) != 3 {
		t.Fatalf("len(Listado) = %d, want 3: %#v", len(c.Listado), c.Listado)
	}
	for i, want := range []string{"A", "B", "C"} {
		if c.Listado[i].Letra != want {
			t.Errorf("item %d letra = %q, want %q", i, c.Listado[i].Letra, want)
		}
	}
}

func TestParseContentPlainParagraphs(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "La presente norma entrará en vigencia el primer día hábil del mes siguiente.\n" +
		"Sus disposiciones se aplicarán a los procedimientos iniciados con posterioridad."

	c := p.parseArticleContent(text)
	if c.HasStructure() {
		t.Fatalf("plain text reported structure: %#v", c)
	}
	if len(c.Parrafos) != 2 {
		t.Errorf("len(Parrafos) = %d, want 2", len(c.Parrafos))
	}
}

func TestParseContentEmptyText(t *testing.T) {
	p := NewParser(NCGProfile)
	c := p.parseArticleContent("   ")
	if c == nil {
		t.Fatal("nil content for blank text")
	}
	if len(c.Parrafos) != 0 || c.HasStructure() {
		t.Errorf("blank text produced content: %#v", c)
	}
}
