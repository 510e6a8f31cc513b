package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/superir/pkg/norma"
)

var (
	// Leading "Capitalized clause." split off an article's text as its
	// epígrafe when the header line carried none.
	epigrafeInlinePattern = regexp.MustCompile(`^([A-ZÁÉÍÓÚÑ][^.]{1,80})\.\s*[:\-]?\s*`)
	epigrafeLatePattern   = regexp.MustCompile(`^([A-ZÁÉÍÓÚÑ][^.]{1,100})\.\s*`)

	transitorioPrefxPattern = regexp.MustCompile(`(?i)^Art[ií]culo\s+transitorio[°º.]?\s*[:\-.]?\s*`)

	// A division heading that ends mid-phrase continues on the next line.
	danglingHeadingPattern = regexp.MustCompile(`(?i)\b(?:de|del|la|las|los|el|en|y|para|por|al|a)\s*$`)
)

// bodyParser is the per-parse state of the structural state machine: a
// stack of open division nodes, the currently open article with its line
// buffer, and the two monotonic counters. All state is parse-local.
type bodyParser struct {
	roots []*norma.StructuralNode

	// openDivisions is the stack of currently open divisions, outermost
	// first. A Título clears the stack; a Capítulo closes down to Título
	// depth; a Párrafo opens under whatever is innermost.
	openDivisions []*norma.StructuralNode

	openArticle  *norma.StructuralNode
	articleLines []string

	articleCounter  int
	divisionCounter int

	// pendingHeading is the division whose name may continue on the
	// following line(s) when the header line carried no description.
	pendingHeading *norma.StructuralNode
}

// parseBody turns the normalized body span into the division/article tree.
func (p *Parser) parseBody(body string) []*norma.StructuralNode {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	bp := &bodyParser{}
	for _, line := range strings.Split(body, "\n") {
		bp.consume(line)
	}
	bp.flush()

	return bp.roots
}

func (bp *bodyParser) consume(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		if bp.openArticle != nil {
			bp.articleLines = append(bp.articleLines, "")
		}
		return
	}

	if bp.pendingHeading != nil && bp.continueHeading(trimmed) {
		return
	}

	if m := tituloHeaderPattern.FindStringSubmatch(trimmed); m != nil {
		bp.openTitulo(m[1], strings.TrimSpace(m[2]))
		return
	}
	if m := capituloHeaderPattern.FindStringSubmatch(trimmed); m != nil {
		bp.openCapitulo(m[1], strings.TrimSpace(m[2]))
		return
	}
	if m := parrafoHeaderPattern.FindStringSubmatch(trimmed); m != nil {
		bp.openParrafoDivision(m[1], strings.TrimSpace(m[2]))
		return
	}
	if articuloTransitorioPattern.MatchString(trimmed) {
		bp.openTransitorio(trimmed)
		return
	}
	if m := articuloHeaderPattern.FindStringSubmatch(trimmed); m != nil {
		bp.openArticulo(m[1], strings.TrimSpace(m[2]))
		return
	}

	if bp.openArticle != nil {
		bp.articleLines = append(bp.articleLines, trimmed)
	}
	// Lines outside any article (stray residue between divisions) are
	// discarded.
}

// continueHeading absorbs a continuation line into a division heading that
// ended without a description. Reports whether the line was consumed.
func (bp *bodyParser) continueHeading(line string) bool {
	if tituloHeaderPattern.MatchString(line) ||
		capituloHeaderPattern.MatchString(line) ||
		parrafoHeaderPattern.MatchString(line) ||
		articuloHeaderPattern.MatchString(line) ||
		articuloTransitorioPattern.MatchString(line) {
		bp.pendingHeading = nil
		return false
	}

	if bp.pendingHeading.Nombre == "" {
		bp.pendingHeading.Nombre = line
	} else {
		bp.pendingHeading.Nombre += " " + line
	}
	// Keep absorbing while the heading still ends in a preposition or
	// article, as happens when the PDF wraps the name.
	if !danglingHeadingPattern.MatchString(line) {
		bp.pendingHeading = nil
	}
	return true
}

func (bp *bodyParser) openTitulo(ordinal, descripcion string) {
	bp.closeArticle()
	bp.openDivisions = bp.openDivisions[:0]
	bp.divisionCounter++

	titulo := &norma.StructuralNode{
		Kind:    norma.KindTitulo,
		ID:      fmt.Sprintf("%d", bp.divisionCounter),
		Ordinal: ordinal,
		Nombre:  descripcion,
	}
	bp.roots = append(bp.roots, titulo)
	bp.openDivisions = append(bp.openDivisions, titulo)

	if descripcion == "" {
		bp.pendingHeading = titulo
	}
}

func (bp *bodyParser) openCapitulo(ordinal, descripcion string) {
	bp.closeArticle()
	// Close down to Título depth; a Capítulo nests under the current
	// Título, or sits at root when none is open.
	if len(bp.openDivisions) > 1 {
		bp.openDivisions = bp.openDivisions[:1]
	}
	if len(bp.openDivisions) == 1 && bp.openDivisions[0].Kind != norma.KindTitulo {
		bp.openDivisions = bp.openDivisions[:0]
	}
	bp.divisionCounter++

	capitulo := &norma.StructuralNode{
		Kind:    norma.KindCapitulo,
		ID:      fmt.Sprintf("%d", bp.divisionCounter),
		Ordinal: ordinal,
		Nombre:  descripcion,
	}
	bp.attach(capitulo)
	bp.openDivisions = append(bp.openDivisions, capitulo)

	if descripcion == "" {
		bp.pendingHeading = capitulo
	}
}

func (bp *bodyParser) openParrafoDivision(ordinal, descripcion string) {
	bp.closeArticle()
	bp.divisionCounter++

	parrafo := &norma.StructuralNode{
		Kind:    norma.KindParrafo,
		ID:      fmt.Sprintf("%d", bp.divisionCounter),
		Ordinal: ordinal,
		Nombre:  descripcion,
	}
	bp.attach(parrafo)
	bp.openDivisions = append(bp.openDivisions, parrafo)

	if descripcion == "" {
		bp.pendingHeading = parrafo
	}
}

func (bp *bodyParser) openTransitorio(line string) {
	bp.closeArticle()
	bp.articleCounter++

	bp.openArticle = &norma.StructuralNode{
		Kind:        norma.KindArticulo,
		ID:          fmt.Sprintf("%d", bp.articleCounter),
		Ordinal:     "transitorio",
		Transitorio: true,
	}
	bp.articleLines = nil
	if rest := strings.TrimSpace(transitorioPrefxPattern.ReplaceAllString(line, "")); rest != "" {
		bp.articleLines = append(bp.articleLines, rest)
	}
	bp.attach(bp.openArticle)
}

func (bp *bodyParser) openArticulo(ordinal, rest string) {
	bp.closeArticle()
	bp.articleCounter++

	article := &norma.StructuralNode{
		Kind:    norma.KindArticulo,
		ID:      fmt.Sprintf("%d", bp.articleCounter),
		Ordinal: strings.Join(strings.Fields(ordinal), " "),
	}

	firstText := rest
	if m := epigrafeInlinePattern.FindStringSubmatch(rest); m != nil {
		article.Nombre = strings.TrimSpace(m[1])
		firstText = strings.TrimSpace(rest[len(m[0]):])
	}

	bp.openArticle = article
	bp.articleLines = nil
	if firstText != "" {
		bp.articleLines = append(bp.articleLines, firstText)
	}
	bp.attach(article)
}

// closeArticle joins the buffered lines into the open article's text and,
// when no epígrafe was set from the header line, splits a leading
// capitalized clause out of the first chars as a late epígrafe.
func (bp *bodyParser) closeArticle() {
	if bp.openArticle == nil {
		bp.articleLines = nil
		return
	}

	text := strings.TrimSpace(strings.Join(bp.articleLines, "\n"))
	if bp.openArticle.Nombre == "" && text != "" {
		firstLines := strings.Split(text, "\n")
		limit := min(3, len(firstLines))
		flat := strings.Join(firstLines[:limit], " ")
		if m := epigrafeLatePattern.FindStringSubmatch(flat); m != nil {
			bp.openArticle.Nombre = strings.TrimSpace(m[1])
			remaining := strings.TrimSpace(flat[len(m[0]):])
			if remaining != "" {
				full := strings.Join(firstLines, " ")
				if pos := strings.Index(full, remaining); pos >= 0 {
					text = full[pos:]
				}
			}
		}
	}
	bp.openArticle.Texto = text

	bp.openArticle = nil
	bp.articleLines = nil
}

// attach adds a node under the innermost open division, or at root.
func (bp *bodyParser) attach(node *norma.StructuralNode) {
	if len(bp.openDivisions) > 0 {
		parent := bp.openDivisions[len(bp.openDivisions)-1]
		parent.Hijos = append(parent.Hijos, node)
		return
	}
	bp.roots = append(bp.roots, node)
}

// flush closes everything still open at end of input, bottom-up.
func (bp *bodyParser) flush() {
	bp.closeArticle()
	bp.openDivisions = bp.openDivisions[:0]
	bp.pendingHeading = nil
}
