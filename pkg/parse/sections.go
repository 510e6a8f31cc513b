package parse

import (
	"regexp"
	"strings"

	"github.com/coolbeans/superir/pkg/norma"
)

// Section anchors. Each is located at most once, by first occurrence.
var (
	vistosPattern       = regexp.MustCompile(`(?m)^VISTOS?\s*:?\s*$|^VISTOS?\s*:`)
	considerandoPattern = regexp.MustCompile(`(?m)^CONSIDERANDO\s*:?\s*$|^CONSIDERANDO\s*:`)
	resuelvoPattern     = regexp.MustCompile(`(?m)^RESUELVO\s*:?\s*$|^RESUELVO\s*:`)

	closingKeywordPattern = regexp.MustCompile(`(?im)^(AN[OÓ]TESE|REG[IÍ]STRESE|COMUN[IÍ]QUESE|PUBL[IÍ]QUESE)`)

	// Numbered resolutive directives that terminate the normative body
	// ("II. PUBLÍQUESE...", "2° DERÓGUENSE...").
	resolutiveDirectivePattern = regexp.MustCompile(`(?im)^(?:[IVX]+|\d+)[.°º]\s*(NOTIF[ÍI]QUESE|PUBL[ÍI]QUESE|DER[ÓO]GUENSE|DISP[ÓO]NGASE|AN[ÓO]TESE|REG[ÍI]STRESE|COMUN[ÍI]QUESE|ARCH[ÍI]VESE)`)

	tituloHeaderPattern   = regexp.MustCompile(`(?im)^T[ÍI]TULO\s+([IVXLCDM]+|\d+)\s*[:\-.]?\s*(.*)$`)
	capituloHeaderPattern = regexp.MustCompile(`(?im)^CAP[ÍI]TULO\s+([IVXLCDM]+|\d+)\s*[:\-.]?\s*(.*)$`)
	parrafoHeaderPattern  = regexp.MustCompile(`(?im)^P[ÁA]RRAFO\s+([IVXLCDM]+|\d+)[°º]?\s*[:\-.]?\s*(.*)$`)

	articuloHeaderPattern      = regexp.MustCompile(`(?m)^Art[ií]culo\s+(\d+(?:\s*(?:bis|ter))?)[°º.]?\s*[:\-.]?\s*(.*)$`)
	articuloTransitorioPattern = regexp.MustCompile(`(?im)^Art[ií]culo\s+transitorio`)

	// Deliberately case-sensitive: annex headers are set in caps, while
	// in-article references ("el Anexo I") must not end the body.
	anexoHeaderPattern = regexp.MustCompile(`(?m)^ANEXO(?:S)?\s+(?:N\.?\s*[°º]?\s*)?([IVXLCDM\d]+(?:-[A-Z])?)?\s*[:.]?\s*(.*)$`)

	distribucionHeaderPattern = regexp.MustCompile(`(?im)^DISTRIBUCI[ÓO]N\s*:?`)

	// Trailing page-number or drafter-initials residue at the end of the
	// closing span ("3", "PVL/pcp").
	closingArtifactPattern = regexp.MustCompile(`(?m)^\s*(?:\d{1,3}|[A-Z]{2,4}/[a-z]{2,4})\s*$`)
)

// splitSections partitions the full text into the six named spans, each
// post-processed by the normalizer. When neither VISTOS nor CONSIDERANDO
// exists the whole text becomes the body; that is logged, never fatal.
func (p *Parser) splitSections(text string) norma.Secciones {
	var s norma.Secciones

	posVistos := vistosPattern.FindStringIndex(text)
	posConsiderando := considerandoPattern.FindStringIndex(text)
	posResuelvo := resuelvoPattern.FindStringIndex(text)
	posFirstArticle := firstArticleIndex(text)
	posClosingKeyword := closingKeywordPattern.FindStringIndex(text)

	// Header: everything before VISTOS (or before the first article).
	switch {
	case posVistos != nil:
		s.Header = strings.TrimSpace(text[:posVistos[0]])
	case posFirstArticle != nil:
		s.Header = strings.TrimSpace(text[:posFirstArticle[0]])
	}

	switch {
	case posVistos != nil && posConsiderando != nil:
		s.Vistos = strings.TrimSpace(text[posVistos[1]:posConsiderando[0]])
	case posVistos != nil && posResuelvo != nil:
		s.Vistos = strings.TrimSpace(text[posVistos[1]:posResuelvo[0]])
	}

	if posConsiderando != nil {
		end := -1
		if posResuelvo != nil {
			end = posResuelvo[0]
		} else if posFirstArticle != nil {
			end = posFirstArticle[0]
		}
		if end > posConsiderando[1] {
			s.Considerando = strings.TrimSpace(text[posConsiderando[1]:end])
		}
	}

	// Body start: the first TÍTULO after RESUELVO/CONSIDERANDO when it
	// precedes the first article, else the first article.
	posFirstTitulo := tituloHeaderPattern.FindStringIndex(text)
	bodyStart := posFirstArticle
	if posFirstTitulo != nil && posFirstArticle != nil && posFirstTitulo[0] < posFirstArticle[0] {
		bodyZoneStart := 0
		if posResuelvo != nil {
			bodyZoneStart = posResuelvo[1]
		} else if posConsiderando != nil {
			bodyZoneStart = posConsiderando[1]
		}
		if posFirstTitulo[0] >= bodyZoneStart {
			bodyStart = posFirstTitulo
		}
	}

	if posResuelvo != nil && bodyStart != nil && bodyStart[0] > posResuelvo[1] {
		s.ResuelvoIntro = strings.TrimSpace(text[posResuelvo[1]:bodyStart[0]])
	}

	// Body end: the first closing directive after the body start.
	bodyEnd := -1
	if posDirective := resolutiveDirectivePattern.FindStringIndex(text); posDirective != nil && bodyStart != nil && posDirective[0] > bodyStart[0] {
		bodyEnd = posDirective[0]
	}
	if bodyEnd < 0 && posClosingKeyword != nil {
		if bodyStart == nil || posClosingKeyword[0] > bodyStart[0] {
			bodyEnd = posClosingKeyword[0]
		}
	}

	if bodyStart != nil {
		if bodyEnd > bodyStart[0] {
			s.Body = strings.TrimSpace(text[bodyStart[0]:bodyEnd])
		} else {
			s.Body = strings.TrimSpace(text[bodyStart[0]:])
		}
	}

	closingStart := bodyEnd
	if closingStart < 0 && posClosingKeyword != nil {
		closingStart = posClosingKeyword[0]
	}
	closing := ""
	if closingStart >= 0 {
		closing = text[closingStart:]
	}

	// Annexes: from the first ANEXO marker after the body start.
	if bodyStart != nil {
		if loc := anexoHeaderPattern.FindStringIndex(text[bodyStart[0]:]); loc != nil {
			anexoAbs := bodyStart[0] + loc[0]
			s.AnexosRaw = strings.TrimSpace(text[anexoAbs:])
			if closingStart >= 0 && anexoAbs > closingStart {
				closing = text[closingStart:anexoAbs]
			}
			if bodyEnd < 0 || anexoAbs < bodyEnd {
				if anexoAbs > bodyStart[0] {
					s.Body = strings.TrimSpace(text[bodyStart[0]:anexoAbs])
				}
			}
		}
	}

	s.Closing = cleanClosing(closing)

	if s.Body == "" && posVistos == nil && posConsiderando == nil {
		s.Body = strings.TrimSpace(text)
		p.logger.Warn("no VISTOS/CONSIDERANDO anchors found, treating whole text as body")
	}

	s.Header = NormalizeText(s.Header)
	s.Vistos = NormalizeText(s.Vistos)
	s.Considerando = NormalizeText(s.Considerando)
	s.ResuelvoIntro = NormalizeText(s.ResuelvoIntro)
	s.Body = NormalizeText(s.Body)
	s.Closing = NormalizeText(s.Closing)

	return s
}

// firstArticleIndex finds the first article header, ordinary or transitorio.
func firstArticleIndex(text string) []int {
	ordinary := articuloHeaderPattern.FindStringIndex(text)
	transitorio := articuloTransitorioPattern.FindStringIndex(text)
	switch {
	case ordinary == nil:
		return transitorio
	case transitorio == nil:
		return ordinary
	case transitorio[0] < ordinary[0]:
		return transitorio
	default:
		return ordinary
	}
}

// cleanClosing strips the DISTRIBUCIÓN section onward and trailing page
// artifacts from the closing span. The distribution block itself is parsed
// separately from the raw tail by the closing parser.
func cleanClosing(closing string) string {
	closing = strings.TrimSpace(closing)
	if closing == "" {
		return ""
	}

	if loc := anexoHeaderPattern.FindStringIndex(closing); loc != nil {
		closing = closing[:loc[0]]
	}
	if loc := distribucionHeaderPattern.FindStringIndex(closing); loc != nil {
		closing = closing[:loc[0]]
	}

	// Strip trailing artifact lines bottom-up.
	lines := strings.Split(strings.TrimSpace(closing), "\n")
	for len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if last == "" || closingArtifactPattern.MatchString(last) {
			lines = lines[:len(lines)-1]
			continue
		}
		break
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
