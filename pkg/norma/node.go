package norma

// NodeKind is the structural class of a node in the normative body.
type NodeKind int

const (
	// KindTitulo is a top-level TÍTULO division.
	KindTitulo NodeKind = iota

	// KindCapitulo is a CAPÍTULO division nested under a Título or at root.
	KindCapitulo

	// KindParrafo is a PÁRRAFO division, the rarest grouping level.
	KindParrafo

	// KindArticulo is a leaf article. Articles never have children.
	KindArticulo
)

// String returns the Spanish division name used in the XML vocabulary.
func (k NodeKind) String() string {
	switch k {
	case KindTitulo:
		return "Título"
	case KindCapitulo:
		return "Capítulo"
	case KindParrafo:
		return "Párrafo"
	case KindArticulo:
		return "Artículo"
	}
	return "desconocido"
}

// IsDivision reports whether the kind may hold children.
func (k NodeKind) IsDivision() bool {
	return k != KindArticulo
}

// StructuralNode is one node of the division/article tree. Divisions
// (Título, Capítulo, Párrafo) nest; an Artículo is always a leaf whose
// Contenido carries the decoded enumerations.
type StructuralNode struct {
	Kind NodeKind

	// ID is the parse-local sequential id: divisions and articles are
	// numbered on separate monotonic counters.
	ID string

	// Ordinal is the label as written: "I", "1", "1 bis", "transitorio".
	Ordinal string

	// Nombre is the free-text heading. For articles it is the epígrafe,
	// the short descriptive title after the ordinal.
	Nombre string

	// Texto is the raw joined text of an article. Empty for divisions.
	Texto string

	Derogado    bool
	Transitorio bool

	// Hijos is the ordered child list. Always nil for articles.
	Hijos []*StructuralNode

	// Contenido is the decoded per-article content. Nil for divisions and
	// for articles whose text carried no enumeration structure.
	Contenido *ArticleContent
}

// IsArticle reports whether the node is an Artículo leaf.
func (n *StructuralNode) IsArticle() bool {
	return n.Kind == KindArticulo
}

func (n *StructuralNode) countKind(kind NodeKind) int {
	count := 0
	if n.Kind == kind {
		count++
	}
	for _, child := range n.Hijos {
		count += child.countKind(kind)
	}
	return count
}

func (n *StructuralNode) countDivisions() int {
	count := 0
	if n.Kind.IsDivision() {
		count++
	}
	for _, child := range n.Hijos {
		count += child.countDivisions()
	}
	return count
}

func (n *StructuralNode) walkArticles(visit func(*StructuralNode)) {
	if n.IsArticle() {
		visit(n)
	}
	for _, child := range n.Hijos {
		child.walkArticles(visit)
	}
}
