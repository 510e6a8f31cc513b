package norma

// ArticleContent is the decoded content of one article: intro paragraphs,
// then at most one of a Listado or a Requisito list, then trailing
// paragraphs. Listado and Requisitos are never both populated; the content
// parser chooses one by its priority rules.
type ArticleContent struct {
	// Parrafos are the paragraphs before any enumeration.
	Parrafos []string

	Listado []ItemListado

	// ParrafosPost are paragraphs after the enumeration, including a
	// trailing sentence reassigned out of the last item.
	ParrafosPost []string

	Requisitos []Requisito

	// ReferenciaAnexo is an annex reference found as the very last
	// paragraph ("En el Anexo I...", "conforme a los Anexos II y III").
	ReferenciaAnexo string
}

// HasStructure reports whether the article carried any enumeration.
func (c *ArticleContent) HasStructure() bool {
	return len(c.Listado) > 0 || len(c.Requisitos) > 0
}

// ItemListado is one enumerated item. Identity is a letter (a,b,c or
// A,B,C) or a number (1,2,3 or i,ii,iii); exactly one of Letra/Numero is
// set. Cuerpo holds the item's content as a sealed sum.
type ItemListado struct {
	Letra  string
	Numero string

	// Nombre is an optional label extracted from the item's leading
	// fragment ("Veedores Concursales").
	Nombre string

	Cuerpo ItemBody
}

// Subitem is one entry of a nested sub-list. Exactly one of Numero (roman
// or compound like "a.1") or Letra is set.
type Subitem struct {
	Numero string
	Letra  string
	Texto  string
}

// ContentBlock is one element of an interleaved item body: either a single
// paragraph or a sub-list run.
type ContentBlock struct {
	// Parrafo is set for paragraph blocks; Subitems for sub-list blocks.
	Parrafo  string
	Subitems []Subitem
}

// ItemBody is the content of an ItemListado or RequisitoItem. It is a
// sealed sum: exactly one of ItemTexto, ItemParrafos, ItemSublistado or
// ItemBloques, so the mutually exclusive shapes cannot be mixed.
type ItemBody interface {
	isItemBody()
}

// ItemTexto is a single-text body.
type ItemTexto struct {
	Texto string
}

// ItemParrafos is a multi-paragraph body with no sub-list.
type ItemParrafos struct {
	Parrafos []string
}

// ItemSublistado is a body with intro paragraphs, one nested sub-list and
// optional trailing paragraphs.
type ItemSublistado struct {
	Parrafos     []string
	Subitems     []Subitem
	ParrafosPost []string
}

// ItemBloques is a body whose paragraphs and sub-list runs interleave in
// document order.
type ItemBloques struct {
	Parrafos []string
	Bloques  []ContentBlock
}

func (ItemTexto) isItemBody()      {}
func (ItemParrafos) isItemBody()   {}
func (ItemSublistado) isItemBody() {}
func (ItemBloques) isItemBody()    {}

// Requisito is a formally roman-numbered requirement block: intro
// paragraphs plus ordered lettered items.
type Requisito struct {
	// Numero is the roman ordinal as written ("I", "II").
	Numero string

	// Nombre is an optional short colon-terminated label preceding the
	// items.
	Nombre string

	Parrafos []string
	Items    []RequisitoItem
}

// RequisitoItem is one lettered entry of a requisito. Cuerpo is either an
// ItemTexto or an ItemParrafos; the deeper shapes never occur inside
// requisitos.
type RequisitoItem struct {
	Letra  string
	Nombre string
	Cuerpo ItemBody
}
