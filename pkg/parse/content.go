package parse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/superir/pkg/norma"
)

// Enumeration markers. Markers are recognized at a paragraph start or
// after a two-space run inside collapsed text.
var (
	upperItemMarker  = regexp.MustCompile(`(?m)(?:^|\s{2})([A-Z])\.(?:-|–)?\s+`)
	lowerItemMarker  = regexp.MustCompile(`(?m)(?:^|\s{2})([a-z])[.)]\s+`)
	arabicItemMarker = regexp.MustCompile(`(?m)(?:^|\s{2}|\.\s|:\s)(\d+)[.)]\s+`)
	romanLowerMarker = regexp.MustCompile(`(?m)(?:^|\s{2})(i{1,3}|iv|vi{0,3})\.\s*`)
	alfanumSubMarker = regexp.MustCompile(`(?m)(?:^|\s+)([a-z]\.\d+)\)\s+`)

	// "la letra a) anterior" is a cross-reference, not a marker.
	letraReferencePattern = regexp.MustCompile(`(?i)letras?\s*$`)

	// Boundary between the last item and article-level closing text: a
	// sentence end at a paragraph gap or double space, followed by a
	// capital.
	postListadoGapPattern   = regexp.MustCompile(`\.\s*\n\s*\n\s*[A-ZÁÉÍÓÚÑ]`)
	postListadoSpacePattern = regexp.MustCompile(`\.[ \t]{2,}[A-ZÁÉÍÓÚÑ]`)
	lowerMarkerAtStart      = regexp.MustCompile(`^[a-z][.)]\s+`)

	itemNombrePattern = regexp.MustCompile(`^([A-ZÁÉÍÓÚÑ][^:.]{1,60})[.:]\s+(.*)`)

	// Listado labels must be colon-terminated; a period would swallow
	// the item's first sentence.
	itemNombreColonPattern = regexp.MustCompile(`^([A-ZÁÉÍÓÚÑ][^:.]{1,60}):\s+(.*)`)
)

var romanUpperSet = map[byte]bool{'I': true, 'V': true, 'X': true, 'L': true, 'C': true, 'D': true, 'M': true}

// marker is one enumeration marker occurrence: its identifier and the
// byte offsets of the marker start and of the text following it.
type marker struct {
	id    string
	start int
	text  int
}

func findMarkers(re *regexp.Regexp, text string) []marker {
	var out []marker
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		id := text[loc[2]:loc[3]]
		out = append(out, marker{id: id, start: loc[2], text: loc[1]})
	}
	return out
}

// parseArticleContent decodes one article's text into its content model.
// The enumeration families are tried in a fixed priority order; the first
// that recognizes the text wins, and a plain paragraph split is the
// fallback.
func (p *Parser) parseArticleContent(text string) *norma.ArticleContent {
	if strings.TrimSpace(text) == "" {
		return &norma.ArticleContent{}
	}
	if c, ok := p.parseUpperListado(text); ok {
		return c
	}
	if c, ok := p.parseRequisitos(text); ok {
		return c
	}
	if c, ok := p.parseLowerListado(text); ok {
		return c
	}
	if c, ok := p.parseNumberedListado(text); ok {
		return c
	}
	if c, ok := p.parseRomanListado(text); ok {
		return c
	}
	return &norma.ArticleContent{Parrafos: splitLines(text)}
}

// splitLines splits normalized text into its paragraphs, one per
// non-blank line.
func splitLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// itemBodyOf packs item text as a single string or a paragraph list.
func itemBodyOf(text string) norma.ItemBody {
	ps := splitLines(text)
	switch len(ps) {
	case 0:
		return norma.ItemTexto{}
	case 1:
		return norma.ItemTexto{Texto: ps[0]}
	default:
		return norma.ItemParrafos{Parrafos: ps}
	}
}

// splitItemNombre peels a short leading label ("Veedores Concursales:")
// off an item's text. Labels run at most eight words.
func splitItemNombre(text string, re *regexp.Regexp) (nombre, rest string) {
	first := text
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	m := re.FindStringSubmatch(first)
	if m == nil {
		return "", text
	}
	label := strings.TrimSpace(m[1])
	if len(strings.Fields(label)) > 8 {
		return "", text
	}
	return label, strings.TrimSpace(text[len(first)-len(m[2]):])
}

// parseUpperListado recognizes A. / B.- item runs. An all-roman run
// (I. V. X.) is a requisito or roman list, never an uppercase listado.
func (p *Parser) parseUpperListado(text string) (*norma.ArticleContent, bool) {
	ms := findMarkers(upperItemMarker, text)
	if len(ms) == 0 {
		return nil, false
	}
	someNonRoman := false
	for _, m := range ms {
		if !romanUpperSet[m.id[0]] {
			someNonRoman = true
			break
		}
	}
	if !someNonRoman {
		return nil, false
	}

	content := &norma.ArticleContent{Parrafos: splitLines(text[:ms[0].start])}
	for i, m := range ms {
		end := len(text)
		if i+1 < len(ms) {
			end = ms[i+1].start
		}
		span := text[m.text:end]
		item := norma.ItemListado{Letra: m.id}
		item.Nombre, span = labelAndBody(span)
		item.Cuerpo = upperItemBody(span)
		content.Listado = append(content.Listado, item)
	}
	splitPostListado(content)
	return content, true
}

func labelAndBody(span string) (string, string) {
	return splitItemNombre(strings.TrimSpace(span), itemNombreColonPattern)
}

// upperItemBody decodes the body of one uppercase item: alphanumeric
// sub-markers ("a.1)") produce interleaved blocks, a contiguous a, b, c
// run produces a sub-list, anything else stays paragraphs.
func upperItemBody(span string) norma.ItemBody {
	if subs := findMarkers(alfanumSubMarker, span); len(subs) >= 2 {
		return interleavedBody(span, subs)
	}
	if body, ok := letterSublist(span); ok {
		return body
	}
	return itemBodyOf(span)
}

// interleavedBody keeps paragraphs and a.1)-style sub-entries in document
// order. A sub-entry's text ends at the next paragraph gap; anything
// between two entries is a paragraph block.
func interleavedBody(span string, subs []marker) norma.ItemBody {
	body := norma.ItemBloques{Parrafos: splitLines(span[:subs[0].start])}
	cursor := subs[0].start
	for i, s := range subs {
		end := len(span)
		if i+1 < len(subs) {
			end = subs[i+1].start
		}
		if s.start > cursor {
			for _, para := range splitLines(span[cursor:s.start]) {
				body.Bloques = append(body.Bloques, norma.ContentBlock{Parrafo: para})
			}
		}
		subText := span[s.text:end]
		if gap := strings.Index(subText, "\n\n"); gap >= 0 {
			end = s.text + gap
			subText = span[s.text:end]
		}
		appendSubitem(&body, norma.Subitem{Numero: s.id, Texto: strings.TrimSpace(subText)})
		cursor = end
	}
	if cursor < len(span) {
		for _, para := range splitLines(span[cursor:]) {
			body.Bloques = append(body.Bloques, norma.ContentBlock{Parrafo: para})
		}
	}
	return body
}

// appendSubitem extends the current sub-list run or opens a new one.
func appendSubitem(body *norma.ItemBloques, sub norma.Subitem) {
	n := len(body.Bloques)
	if n > 0 && body.Bloques[n-1].Parrafo == "" {
		body.Bloques[n-1].Subitems = append(body.Bloques[n-1].Subitems, sub)
		return
	}
	body.Bloques = append(body.Bloques, norma.ContentBlock{Subitems: []norma.Subitem{sub}})
}

// letterSublist recognizes a contiguous lowercase run starting at "a"
// inside an item body. The run stops at the first letter gap; the last
// sub-entry's text ends at the first paragraph gap after its marker, with
// the remainder becoming trailing paragraphs.
func letterSublist(span string) (norma.ItemBody, bool) {
	ms := findMarkers(lowerItemMarker, span)
	ms = dropLetterReferences(span, ms)
	if len(ms) < 2 || ms[0].id != "a" {
		return nil, false
	}
	run := []marker{ms[0]}
	for _, m := range ms[1:] {
		if m.id[0] != run[len(run)-1].id[0]+1 {
			break
		}
		run = append(run, m)
	}
	if len(run) < 2 {
		return nil, false
	}

	body := norma.ItemSublistado{Parrafos: splitLines(span[:run[0].start])}
	for i, m := range run {
		end := len(span)
		if i+1 < len(run) {
			end = run[i+1].start
		}
		subText := span[m.text:end]
		if i == len(run)-1 {
			if gap := strings.Index(subText, "\n\n"); gap >= 0 {
				body.ParrafosPost = splitLines(subText[gap:])
				subText = subText[:gap]
			}
		}
		body.Subitems = append(body.Subitems, norma.Subitem{Letra: m.id, Texto: strings.TrimSpace(subText)})
	}
	return body, true
}

// dropLetterReferences removes marker matches immediately preceded by the
// word "letra"/"letras", which are cross-references to other items.
func dropLetterReferences(text string, ms []marker) []marker {
	out := ms[:0:0]
	for _, m := range ms {
		lo := max(0, m.start-15)
		if letraReferencePattern.MatchString(strings.TrimRight(text[lo:m.start], " \n")) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// parseLowerListado recognizes a) / b) item runs, with lowercase roman
// markers inside the run becoming nested sub-lists.
func (p *Parser) parseLowerListado(text string) (*norma.ArticleContent, bool) {
	ms := dropLetterReferences(text, findMarkers(lowerItemMarker, text))
	if len(ms) == 0 {
		return nil, false
	}

	romans := findRomanMarkers(text)
	if allRomanAmbiguous(ms) && len(romans) > len(ms) {
		// The "markers" are i. and v. of a roman list in disguise.
		return nil, false
	}

	parents, subRomans := splitRomanSubitems(ms, romans)
	if len(parents) == 0 {
		return nil, false
	}

	content := &norma.ArticleContent{Parrafos: splitLines(text[:parents[0].start])}
	for i, m := range parents {
		end := len(text)
		if i+1 < len(parents) {
			end = parents[i+1].start
		}
		span := text[m.text:end]
		item := norma.ItemListado{Letra: m.id}
		item.Nombre, span = labelAndBody(span)
		item.Cuerpo = lowerItemBody(span, subRomansIn(subRomans, m.text, end))
		content.Listado = append(content.Listado, item)
	}
	splitPostListado(content)
	return content, true
}

// allRomanAmbiguous reports whether every marker letter could also be a
// lowercase roman numeral head.
func allRomanAmbiguous(ms []marker) bool {
	for _, m := range ms {
		if m.id != "i" && m.id != "v" {
			return false
		}
	}
	return true
}

// findRomanMarkers finds lowercase roman markers followed by a letter.
func findRomanMarkers(text string) []marker {
	var out []marker
	for _, m := range findMarkers(romanLowerMarker, text) {
		r, _ := utf8.DecodeRuneInString(text[m.text:])
		if unicode.IsLetter(r) {
			out = append(out, m)
		}
	}
	return out
}

// splitRomanSubitems decides whether the roman markers nest inside the
// lettered run. They do when the first roman falls after the first letter
// marker and within 500 bytes past the last one; the letters i and v then
// belong to the roman set, not the parent run.
func splitRomanSubitems(letters, romans []marker) (parents, subs []marker) {
	if len(romans) == 0 {
		return letters, nil
	}
	firstLetter := letters[0].start
	lastLetter := letters[len(letters)-1].start
	firstRoman := romans[0].start
	if firstLetter < firstRoman && firstRoman < lastLetter+500 {
		for _, m := range letters {
			if m.id == "i" || m.id == "v" {
				continue
			}
			parents = append(parents, m)
		}
		return parents, romans
	}
	return letters, nil
}

func subRomansIn(romans []marker, lo, hi int) []marker {
	var out []marker
	for _, m := range romans {
		if m.start >= lo && m.start < hi {
			out = append(out, m)
		}
	}
	return out
}

// lowerItemBody builds one lettered item's body, nesting any roman
// markers found inside its span.
func lowerItemBody(span string, romans []marker) norma.ItemBody {
	if len(romans) == 0 {
		return itemBodyOf(span)
	}

	// Roman offsets were computed on the full text; rebase them on the
	// item span by locating each marker's text again.
	ms := findRomanMarkers(span)
	if len(ms) == 0 {
		return itemBodyOf(span)
	}
	body := norma.ItemSublistado{Parrafos: splitLines(span[:ms[0].start])}
	for i, m := range ms {
		end := len(span)
		if i+1 < len(ms) {
			end = ms[i+1].start
		}
		subText := span[m.text:end]
		if i == len(ms)-1 {
			if gap := strings.Index(subText, "\n\n"); gap >= 0 {
				body.ParrafosPost = splitLines(subText[gap:])
				subText = subText[:gap]
			}
		}
		body.Subitems = append(body.Subitems, norma.Subitem{Numero: m.id, Texto: strings.TrimSpace(subText)})
	}
	return body
}

// parseNumberedListado recognizes 1. / 2) item runs whose markers are
// followed by a capital letter.
func (p *Parser) parseNumberedListado(text string) (*norma.ArticleContent, bool) {
	var ms []marker
	for _, m := range findMarkers(arabicItemMarker, text) {
		r, _ := utf8.DecodeRuneInString(text[m.text:])
		if unicode.IsUpper(r) {
			ms = append(ms, m)
		}
	}
	if len(ms) == 0 {
		return nil, false
	}

	content := &norma.ArticleContent{Parrafos: splitLines(text[:ms[0].start])}
	for i, m := range ms {
		end := len(text)
		if i+1 < len(ms) {
			end = ms[i+1].start
		}
		span := text[m.text:end]
		item := norma.ItemListado{Numero: m.id}
		item.Nombre, span = labelAndBody(span)
		item.Cuerpo = itemBodyOf(span)
		content.Listado = append(content.Listado, item)
	}
	splitPostListado(content)
	return content, true
}

// parseRomanListado recognizes standalone i. / ii. runs.
func (p *Parser) parseRomanListado(text string) (*norma.ArticleContent, bool) {
	ms := findRomanMarkers(text)
	if len(ms) == 0 {
		return nil, false
	}

	content := &norma.ArticleContent{Parrafos: splitLines(text[:ms[0].start])}
	for i, m := range ms {
		end := len(text)
		if i+1 < len(ms) {
			end = ms[i+1].start
		}
		content.Listado = append(content.Listado, norma.ItemListado{
			Numero: m.id,
			Cuerpo: itemBodyOf(text[m.text:end]),
		})
	}
	splitPostListado(content)
	return content, true
}

// splitPostListado reassigns a trailing sentence of the last item to the
// article's closing paragraphs, when a sentence boundary followed by a
// capital marks the seam.
func splitPostListado(content *norma.ArticleContent) {
	if len(content.Listado) == 0 {
		return
	}
	last := &content.Listado[len(content.Listado)-1]

	var texto string
	switch b := last.Cuerpo.(type) {
	case norma.ItemTexto:
		texto = b.Texto
	case norma.ItemParrafos:
		texto = strings.Join(b.Parrafos, "\n")
	default:
		return
	}

	cut := -1
	if loc := postListadoGapPattern.FindStringIndex(texto); loc != nil {
		cut = loc[0] + 1
	} else if loc := postListadoSpacePattern.FindStringIndex(texto); loc != nil {
		cut = loc[0] + 1
	}
	if cut < 0 {
		return
	}

	post := strings.TrimSpace(texto[cut:])
	if post == "" || lowerMarkerAtStart.MatchString(post) {
		return
	}
	last.Cuerpo = itemBodyOf(strings.TrimSpace(texto[:cut]))
	content.ParrafosPost = append(splitLines(post), content.ParrafosPost...)
}
