// Package norma defines the document model produced by the SUPERIR parser:
// a typed tree for Normas de Carácter General and Instructivos, shaped 1:1
// with the superir XML schema so serialization is a structural walk.
//
// Every value in this package is built once by the parser and never mutated
// afterward; callers own the returned Norma exclusively.
package norma

// TipoDocumento identifies the catalog family a document belongs to.
type TipoDocumento string

const (
	// TipoNCG is a Norma de Carácter General.
	TipoNCG TipoDocumento = "Norma de Carácter General"

	// TipoInstructivo is an administrative Instructivo.
	TipoInstructivo TipoDocumento = "Instructivo"
)

// DocumentMetadata holds the header fields extracted from the first part of
// a document. Any field may be empty when extraction missed; misses are
// logged, never fatal.
type DocumentMetadata struct {
	// Numero is the catalog ordinal ("14" for NCG N.° 14).
	Numero string

	// FechaISO is the issue date in ISO form (2024-09-04).
	FechaISO string

	// FechaTexto is the issue date as written ("04 de septiembre de 2024").
	FechaTexto string

	// Materia is the subject line after MAT.: or REF.:.
	Materia string

	// ResolucionExenta is the number of the administrative act wrapping the
	// document, when one exists.
	ResolucionExenta string

	// LeyesReferenciadas lists law/decree/NCG citations found in
	// VISTOS+CONSIDERANDO, in first-appearance order.
	LeyesReferenciadas []string

	// Catalog-supplied fields. They override auto-detected values when the
	// caller passes a catalog entry. Deroga/Modifica and their inverses
	// DerogadaPor/ModificadaPor are declared on both documents of an edge;
	// the corpus validator checks the two sides agree.
	TituloCompleto   string
	Materias         []string
	NombresComunes   []string
	FechaPublicacion string
	Deroga           []string
	Modifica         []string
	DerogadaPor      []string
	ModificadaPor    []string
}

// Secciones is the six-span section bundle produced by the section splitter.
// Spans are non-overlapping and in document order; any may be empty.
type Secciones struct {
	Header        string
	Vistos        string
	Considerando  string
	ResuelvoIntro string
	Body          string
	Closing       string
	AnexosRaw     string
}

// ConsiderandoItem is one numbered rationale item. Texto keeps the "Que,"
// discourse marker; the enacting formula, when present, is split off into
// Norma.FormulaDictacion instead.
type ConsiderandoItem struct {
	Numero int
	Texto  string
}

// Firmante is the official who signs the document.
type Firmante struct {
	Nombre string
	Cargo  string
}

// Cierre is the structured closing block.
type Cierre struct {
	// Formula is the performative closing sentence ("Anótese y publíquese.").
	Formula string

	Firmante *Firmante

	// Distribucion is the slash-separated internal routing code (PVL/PCP/CVS).
	Distribucion string

	// Destinatarios lists notification recipients from the DISTRIBUCIÓN
	// section, joined with "; ".
	Destinatarios string
}

// Anexo is an appendix recorded by title and existence only. Its internal
// structure is not modeled; Pendiente marks it for later treatment.
type Anexo struct {
	Numero    string
	Titulo    string
	Texto     string
	Pendiente bool
}

// Norma is the root of a parsed document.
type Norma struct {
	// Identificador is the stable document id ("NCG-14", "INST-3").
	Identificador string

	Tipo      TipoDocumento
	Metadatos DocumentMetadata

	// EncabezadoTexto preserves the VISTOS and CONSIDERANDO spans verbatim
	// (normalized), for consumers that want the running text.
	EncabezadoTexto string

	Considerandos []ConsiderandoItem

	// FormulaDictacion is the enacting formula detached from the last
	// considerando ("Que, en conformidad a lo anterior ... dicta la
	// siguiente:"), empty when none was found.
	FormulaDictacion string

	// Estructuras is the ordered root list of the normative body tree.
	Estructuras []*StructuralNode

	// PromulgacionTexto preserves the RESUELVO intro and closing spans.
	PromulgacionTexto string

	Cierre *Cierre

	Anexos []Anexo

	URLOriginal string
}

// CountArticles returns the number of Artículo nodes in the tree.
func (n *Norma) CountArticles() int {
	count := 0
	for _, node := range n.Estructuras {
		count += node.countKind(KindArticulo)
	}
	return count
}

// CountDivisions returns the number of non-article division nodes.
func (n *Norma) CountDivisions() int {
	count := 0
	for _, node := range n.Estructuras {
		count += node.countDivisions()
	}
	return count
}

// WalkArticles visits every Artículo node in document order.
func (n *Norma) WalkArticles(visit func(*StructuralNode)) {
	for _, node := range n.Estructuras {
		node.walkArticles(visit)
	}
}
