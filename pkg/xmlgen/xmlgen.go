// Package xmlgen serializes a parsed norma into the superir XML schema.
// Output is deterministic: the same document always yields the same bytes.
package xmlgen

import (
	"fmt"
	"strings"

	"github.com/coolbeans/superir/pkg/norma"
)

// Namespace is the schema namespace declared on the root element.
const Namespace = "https://superir.cl/schema/norma/v1"

// Generator converts *norma.Norma values to XML.
type Generator struct {
	indent string
}

// Option configures a Generator.
type Option func(*Generator)

// WithIndent overrides the two-space indentation unit.
func WithIndent(unit string) Option {
	return func(g *Generator) { g.indent = unit }
}

// NewGenerator creates a Generator with default settings.
func NewGenerator(options ...Option) *Generator {
	g := &Generator{indent: "  "}
	for _, option := range options {
		option(g)
	}
	return g
}

// Generate renders the document as a complete XML file.
func (g *Generator) Generate(doc *norma.Norma) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")

	fmt.Fprintf(&b, "<norma xmlns=\"%s\"", Namespace)
	if doc.Identificador != "" {
		fmt.Fprintf(&b, " id=\"%s\"", escapeAttr(doc.Identificador))
	}
	fmt.Fprintf(&b, " tipo=\"%s\">\n", escapeAttr(string(doc.Tipo)))

	g.writeMetadatos(&b, doc, 1)
	g.writeTextBlock(&b, "encabezado", doc.EncabezadoTexto, 1)
	g.writeConsiderandos(&b, doc, 1)
	if doc.FormulaDictacion != "" {
		g.writeElement(&b, "formula_dictacion", doc.FormulaDictacion, 1)
	}
	g.writeCuerpo(&b, doc, 1)
	g.writeTextBlock(&b, "promulgacion", doc.PromulgacionTexto, 1)
	g.writeCierre(&b, doc.Cierre, 1)
	for _, anexo := range doc.Anexos {
		g.writeAnexo(&b, anexo, 1)
	}

	b.WriteString("</norma>\n")
	return b.String()
}

func (g *Generator) writeMetadatos(b *strings.Builder, doc *norma.Norma, depth int) {
	md := doc.Metadatos
	g.open(b, "metadatos", depth)
	g.writeElement(b, "numero", md.Numero, depth+1)
	g.writeElement(b, "fecha", md.FechaISO, depth+1)
	g.writeElement(b, "fecha_texto", md.FechaTexto, depth+1)
	g.writeElement(b, "materia", md.Materia, depth+1)
	g.writeElement(b, "resolucion_exenta", md.ResolucionExenta, depth+1)
	g.writeElement(b, "titulo_completo", md.TituloCompleto, depth+1)
	g.writeList(b, "materias", "materia", md.Materias, depth+1)
	g.writeList(b, "nombres_comunes", "nombre", md.NombresComunes, depth+1)
	g.writeElement(b, "fecha_publicacion", md.FechaPublicacion, depth+1)
	g.writeList(b, "leyes_referenciadas", "ley", md.LeyesReferenciadas, depth+1)
	g.writeList(b, "deroga", "referencia", md.Deroga, depth+1)
	g.writeList(b, "modifica", "referencia", md.Modifica, depth+1)
	g.writeList(b, "derogada_por", "referencia", md.DerogadaPor, depth+1)
	g.writeList(b, "modificada_por", "referencia", md.ModificadaPor, depth+1)
	g.writeElement(b, "url_original", doc.URLOriginal, depth+1)
	g.close(b, "metadatos", depth)
}

func (g *Generator) writeConsiderandos(b *strings.Builder, doc *norma.Norma, depth int) {
	if len(doc.Considerandos) == 0 {
		return
	}
	g.open(b, "considerandos", depth)
	for _, item := range doc.Considerandos {
		fmt.Fprintf(b, "%s<considerando numero=\"%d\">\n", g.pad(depth+1), item.Numero)
		g.writeParagraphs(b, item.Texto, depth+2)
		g.close(b, "considerando", depth+1)
	}
	g.close(b, "considerandos", depth)
}

func (g *Generator) writeCuerpo(b *strings.Builder, doc *norma.Norma, depth int) {
	if len(doc.Estructuras) == 0 {
		return
	}
	g.open(b, "cuerpo_normativo", depth)
	for _, node := range doc.Estructuras {
		g.writeNode(b, node, depth+1)
	}
	g.close(b, "cuerpo_normativo", depth)
}

// divisionElements maps structural kinds to their element names.
var divisionElements = map[norma.NodeKind]string{
	norma.KindTitulo:   "titulo",
	norma.KindCapitulo: "capitulo",
	norma.KindParrafo:  "parrafo_division",
}

func (g *Generator) writeNode(b *strings.Builder, node *norma.StructuralNode, depth int) {
	if node.Kind == norma.KindArticulo {
		g.writeArticulo(b, node, depth)
		return
	}

	name := divisionElements[node.Kind]
	fmt.Fprintf(b, "%s<%s numero=\"%s\"", g.pad(depth), name, escapeAttr(node.Ordinal))
	if node.Nombre != "" {
		fmt.Fprintf(b, " nombre=\"%s\"", escapeAttr(node.Nombre))
	}
	b.WriteString(">\n")
	for _, child := range node.Hijos {
		g.writeNode(b, child, depth+1)
	}
	g.close(b, name, depth)
}

func (g *Generator) writeArticulo(b *strings.Builder, art *norma.StructuralNode, depth int) {
	fmt.Fprintf(b, "%s<articulo numero=\"%s\"", g.pad(depth), escapeAttr(art.Ordinal))
	if art.Nombre != "" {
		fmt.Fprintf(b, " epigrafe=\"%s\"", escapeAttr(art.Nombre))
	}
	if art.Transitorio {
		b.WriteString(` transitorio="true"`)
	}
	if art.Derogado {
		b.WriteString(` derogado="true"`)
	}
	b.WriteString(">\n")

	if c := art.Contenido; c != nil {
		for _, p := range c.Parrafos {
			g.writeElement(b, "parrafo", p, depth+1)
		}
		g.writeListado(b, c.Listado, depth+1)
		for _, req := range c.Requisitos {
			g.writeRequisito(b, req, depth+1)
		}
		for _, p := range c.ParrafosPost {
			g.writeElement(b, "parrafo", p, depth+1)
		}
		if c.ReferenciaAnexo != "" {
			g.writeElement(b, "referencia_anexo", c.ReferenciaAnexo, depth+1)
		}
	} else if art.Texto != "" {
		g.writeParagraphs(b, art.Texto, depth+1)
	}
	g.close(b, "articulo", depth)
}

func (g *Generator) writeListado(b *strings.Builder, items []norma.ItemListado, depth int) {
	if len(items) == 0 {
		return
	}
	g.open(b, "listado", depth)
	for _, item := range items {
		g.writeItem(b, item, depth+1)
	}
	g.close(b, "listado", depth)
}

func (g *Generator) writeItem(b *strings.Builder, item norma.ItemListado, depth int) {
	b.WriteString(g.pad(depth))
	b.WriteString("<item")
	if item.Letra != "" {
		fmt.Fprintf(b, " letra=\"%s\"", escapeAttr(item.Letra))
	}
	if item.Numero != "" {
		fmt.Fprintf(b, " numero=\"%s\"", escapeAttr(item.Numero))
	}
	if item.Nombre != "" {
		fmt.Fprintf(b, " nombre=\"%s\"", escapeAttr(item.Nombre))
	}

	switch body := item.Cuerpo.(type) {
	case norma.ItemTexto:
		fmt.Fprintf(b, ">%s</item>\n", escapeText(body.Texto))
	case norma.ItemParrafos:
		b.WriteString(">\n")
		for _, p := range body.Parrafos {
			g.writeElement(b, "parrafo", p, depth+1)
		}
		g.close(b, "item", depth)
	case norma.ItemSublistado:
		b.WriteString(">\n")
		for _, p := range body.Parrafos {
			g.writeElement(b, "parrafo", p, depth+1)
		}
		g.writeSublistado(b, body.Subitems, depth+1)
		for _, p := range body.ParrafosPost {
			g.writeElement(b, "parrafo", p, depth+1)
		}
		g.close(b, "item", depth)
	case norma.ItemBloques:
		b.WriteString(">\n")
		for _, p := range body.Parrafos {
			g.writeElement(b, "parrafo", p, depth+1)
		}
		for _, block := range body.Bloques {
			if block.Parrafo != "" {
				g.writeElement(b, "parrafo", block.Parrafo, depth+1)
				continue
			}
			g.writeSublistado(b, block.Subitems, depth+1)
		}
		g.close(b, "item", depth)
	default:
		b.WriteString("/>\n")
	}
}

func (g *Generator) writeSublistado(b *strings.Builder, subs []norma.Subitem, depth int) {
	if len(subs) == 0 {
		return
	}
	g.open(b, "sublistado", depth)
	for _, sub := range subs {
		b.WriteString(g.pad(depth + 1))
		b.WriteString("<subitem")
		if sub.Numero != "" {
			fmt.Fprintf(b, " numero=\"%s\"", escapeAttr(sub.Numero))
		}
		if sub.Letra != "" {
			fmt.Fprintf(b, " letra=\"%s\"", escapeAttr(sub.Letra))
		}
		fmt.Fprintf(b, ">%s</subitem>\n", escapeText(sub.Texto))
	}
	g.close(b, "sublistado", depth)
}

func (g *Generator) writeRequisito(b *strings.Builder, req norma.Requisito, depth int) {
	fmt.Fprintf(b, "%s<requisito numero=\"%s\"", g.pad(depth), escapeAttr(req.Numero))
	if req.Nombre != "" {
		fmt.Fprintf(b, " nombre=\"%s\"", escapeAttr(req.Nombre))
	}
	b.WriteString(">\n")
	for _, p := range req.Parrafos {
		g.writeElement(b, "parrafo", p, depth+1)
	}
	for _, item := range req.Items {
		fmt.Fprintf(b, "%s<item letra=\"%s\"", g.pad(depth+1), escapeAttr(item.Letra))
		if item.Nombre != "" {
			fmt.Fprintf(b, " nombre=\"%s\"", escapeAttr(item.Nombre))
		}
		switch body := item.Cuerpo.(type) {
		case norma.ItemTexto:
			fmt.Fprintf(b, ">%s</item>\n", escapeText(body.Texto))
		case norma.ItemParrafos:
			b.WriteString(">\n")
			for _, p := range body.Parrafos {
				g.writeElement(b, "parrafo", p, depth+2)
			}
			g.close(b, "item", depth+1)
		default:
			b.WriteString("/>\n")
		}
	}
	g.close(b, "requisito", depth)
}

func (g *Generator) writeCierre(b *strings.Builder, cierre *norma.Cierre, depth int) {
	if cierre == nil {
		return
	}
	g.open(b, "cierre", depth)
	g.writeElement(b, "formula", cierre.Formula, depth+1)
	if f := cierre.Firmante; f != nil {
		g.open(b, "firmante", depth+1)
		g.writeElement(b, "nombre", f.Nombre, depth+2)
		g.writeElement(b, "cargo", f.Cargo, depth+2)
		g.close(b, "firmante", depth+1)
	}
	g.writeElement(b, "distribucion", cierre.Distribucion, depth+1)
	g.writeElement(b, "destinatarios", cierre.Destinatarios, depth+1)
	g.close(b, "cierre", depth)
}

func (g *Generator) writeAnexo(b *strings.Builder, anexo norma.Anexo, depth int) {
	fmt.Fprintf(b, "%s<anexo", g.pad(depth))
	if anexo.Numero != "" {
		fmt.Fprintf(b, " numero=\"%s\"", escapeAttr(anexo.Numero))
	}
	if anexo.Titulo != "" {
		fmt.Fprintf(b, " titulo=\"%s\"", escapeAttr(anexo.Titulo))
	}
	if anexo.Pendiente {
		b.WriteString(` pendiente="true"`)
	}
	if anexo.Texto == "" {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	g.writeParagraphs(b, anexo.Texto, depth+1)
	g.close(b, "anexo", depth)
}

// writeTextBlock renders a multi-paragraph span as <name><parrafo>…</name>.
func (g *Generator) writeTextBlock(b *strings.Builder, name, text string, depth int) {
	if strings.TrimSpace(text) == "" {
		return
	}
	g.open(b, name, depth)
	g.writeParagraphs(b, text, depth+1)
	g.close(b, name, depth)
}

func (g *Generator) writeParagraphs(b *strings.Builder, text string, depth int) {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			g.writeElement(b, "parrafo", trimmed, depth)
		}
	}
}

// writeElement renders one leaf element; empty values are omitted.
func (g *Generator) writeElement(b *strings.Builder, name, value string, depth int) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s<%s>%s</%s>\n", g.pad(depth), name, escapeText(value), name)
}

func (g *Generator) writeList(b *strings.Builder, wrapper, element string, values []string, depth int) {
	if len(values) == 0 {
		return
	}
	g.open(b, wrapper, depth)
	for _, v := range values {
		g.writeElement(b, element, v, depth+1)
	}
	g.close(b, wrapper, depth)
}

func (g *Generator) open(b *strings.Builder, name string, depth int) {
	fmt.Fprintf(b, "%s<%s>\n", g.pad(depth), name)
}

func (g *Generator) close(b *strings.Builder, name string, depth int) {
	fmt.Fprintf(b, "%s</%s>\n", g.pad(depth), name)
}

func (g *Generator) pad(depth int) string {
	return strings.Repeat(g.indent, depth)
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", " ",
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
