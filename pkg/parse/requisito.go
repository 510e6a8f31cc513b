package parse

import (
	"regexp"
	"strings"

	"github.com/coolbeans/superir/pkg/norma"
)

var (
	requisitoMarker = regexp.MustCompile(`(?m)(?:^|\s{2})([IVXLCDM]+)\.\-\s+`)

	requisitoItemMarker = regexp.MustCompile(`(?m)(?:^|\s{2})([a-z])[.)]\s+`)

	// "En el Anexo I ..." / "conforme al Anexo II ..." as a requisito's
	// closing sentence is a pointer to annex material, not body text.
	anexoReferencePattern = regexp.MustCompile(`(?i)^(?:En\s+el\s+Anexo|conforme\s+(?:a\s+los|al)\s+Anexo)`)
)

// parseRequisitos recognizes the I.- / II.- requirement-block family.
func (p *Parser) parseRequisitos(text string) (*norma.ArticleContent, bool) {
	ms := findMarkers(requisitoMarker, text)
	if len(ms) == 0 {
		return nil, false
	}

	content := &norma.ArticleContent{Parrafos: splitLines(text[:ms[0].start])}
	for i, m := range ms {
		end := len(text)
		if i+1 < len(ms) {
			end = ms[i+1].start
		}
		content.Requisitos = append(content.Requisitos, parseRequisito(m.id, text[m.text:end]))
	}
	content.ReferenciaAnexo = extractAnexoReference(content)
	return content, true
}

// parseRequisito decodes one block: optional short colon-terminated label,
// intro paragraphs, then lettered items.
func parseRequisito(numero, span string) norma.Requisito {
	req := norma.Requisito{Numero: numero}

	items := dropLetterReferences(span, findMarkers(requisitoItemMarker, span))
	pre := span
	if len(items) > 0 {
		pre = span[:items[0].start]
	}

	pre = strings.TrimSpace(pre)
	if pre != "" {
		if strings.HasSuffix(pre, ":") && len(pre) < 120 && !strings.Contains(pre, "\n") {
			req.Nombre = strings.TrimSuffix(pre, ":")
		} else {
			req.Parrafos = splitLines(pre)
		}
	}

	for i, m := range items {
		end := len(span)
		if i+1 < len(items) {
			end = items[i+1].start
		}
		item := norma.RequisitoItem{Letra: m.id}
		nombre, body := splitItemNombre(strings.TrimSpace(span[m.text:end]), itemNombrePattern)
		item.Nombre = nombre
		item.Cuerpo = itemBodyOf(body)
		req.Items = append(req.Items, item)
	}
	return req
}

// extractAnexoReference pulls an annex pointer out of the last requisito's
// final paragraph or item, removing it from the body it came from.
func extractAnexoReference(content *norma.ArticleContent) string {
	if len(content.Requisitos) == 0 {
		return ""
	}
	last := &content.Requisitos[len(content.Requisitos)-1]

	if n := len(last.Items); n > 0 {
		item := &last.Items[n-1]
		switch b := item.Cuerpo.(type) {
		case norma.ItemTexto:
			if anexoReferencePattern.MatchString(b.Texto) {
				ref := b.Texto
				last.Items = last.Items[:n-1]
				return ref
			}
		case norma.ItemParrafos:
			final := b.Parrafos[len(b.Parrafos)-1]
			if anexoReferencePattern.MatchString(final) {
				item.Cuerpo = itemBodyOf(strings.Join(b.Parrafos[:len(b.Parrafos)-1], "\n"))
				return final
			}
		}
		return ""
	}

	if n := len(last.Parrafos); n > 0 && anexoReferencePattern.MatchString(last.Parrafos[n-1]) {
		ref := last.Parrafos[n-1]
		last.Parrafos = last.Parrafos[:n-1]
		return ref
	}
	return ""
}
