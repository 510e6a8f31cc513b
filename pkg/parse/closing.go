package parse

import (
	"regexp"
	"strings"

	"github.com/coolbeans/superir/pkg/norma"
)

var (
	cierreFormulaPattern = regexp.MustCompile(`(?s)(An[óo]tese\b.*?)(?:\n|$)`)

	firmanteInlinePattern = regexp.MustCompile(`([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ ]{5,}?)\s+((?i:SUPERINTENDENTE|SUPERINTENDENTA|FISCAL)\s.+)`)
	cargoLinePattern      = regexp.MustCompile(`(?i)Superintendent[ea]`)

	distribucionCodePattern   = regexp.MustCompile(`(?m)^([A-Z]{2,4}(?:/[A-Z]{2,4})+)\s*$`)
	distribucionHeaderAnchor  = regexp.MustCompile(`(?i)DISTRIBUCI[ÓO]N\s*:`)
	destinatarioPrefixPattern = regexp.MustCompile(`^[-–]\s*`)
)

// closingKeywords are dispositive verbs and section headers that cannot be
// a signer's name even when fully capitalized.
var closingKeywords = map[string]bool{
	"ANÓTESE": true, "ANOTESE": true,
	"PUBLÍQUESE": true, "PUBLIQUESE": true,
	"NOTIFÍQUESE": true, "NOTIFIQUESE": true,
	"ARCHÍVESE": true, "ARCHIVESE": true,
	"DISTRIBUCIÓN": true, "DISTRIBUCION": true,
	"RESUELVO": true,
	"DÉJASE":   true, "DEJASE": true,
	"DISPÓNGASE": true, "DISPONGASE": true,
	"REGÍSTRESE": true, "REGISTRESE": true,
	"COMUNÍQUESE": true, "COMUNIQUESE": true,
	"DERÓGUENSE": true, "DEROGUENSE": true,
}

// parseCierre decodes the closing block. The dispositive formula and the
// signer come from the cleaned closing span; the distribution code and
// addressee list are searched on the raw tail, where the stripped
// DISTRIBUCIÓN section lives.
func (p *Parser) parseCierre(closing, raw string) *norma.Cierre {
	closing = strings.TrimSpace(closing)
	if closing == "" {
		return nil
	}

	cierre := &norma.Cierre{}
	if m := cierreFormulaPattern.FindStringSubmatch(closing); m != nil {
		cierre.Formula = strings.TrimSpace(m[1])
	} else {
		for _, ln := range strings.Split(closing, "\n") {
			if strings.Contains(strings.ToUpper(ln), "ANÓTESE") || strings.Contains(strings.ToUpper(ln), "ANOTESE") {
				cierre.Formula = strings.TrimSpace(ln)
				break
			}
		}
	}

	cierre.Firmante = extractFirmante(closing)
	cierre.Distribucion = extractDistribucion(cierre.Formula, raw)
	cierre.Destinatarios = extractDestinatarios(raw)
	return cierre
}

// extractFirmante tries three shapes in order: a capitalized name line
// followed by a Superintendente cargo line, an inline name-plus-cargo
// run, and finally any plausible all-caps name line with the next line
// as cargo.
func extractFirmante(closing string) *norma.Firmante {
	lines := splitLines(closing)

	for i := 0; i+1 < len(lines); i++ {
		if isCapsName(lines[i]) && cargoLinePattern.MatchString(lines[i+1]) {
			return &norma.Firmante{
				Nombre: lines[i],
				Cargo:  strings.ToUpper(lines[i+1]),
			}
		}
	}

	// Column merging can leave name and cargo on one line.
	for _, ln := range lines {
		m := firmanteInlinePattern.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		nombre := strings.TrimSpace(m[1])
		if !plausibleName(nombre) {
			continue
		}
		return &norma.Firmante{
			Nombre: nombre,
			Cargo:  strings.ToUpper(strings.TrimSpace(m[2])),
		}
	}

	for i, ln := range lines {
		if !isCapsName(ln) {
			continue
		}
		cargo := ""
		if i+1 < len(lines) {
			cargo = strings.ToUpper(lines[i+1])
		}
		return &norma.Firmante{Nombre: ln, Cargo: cargo}
	}
	return nil
}

// plausibleName rejects name candidates built from dispositive verbs.
func plausibleName(s string) bool {
	if len(strings.Fields(s)) < 2 {
		return false
	}
	for _, word := range strings.Fields(s) {
		if closingKeywords[strings.TrimRight(word, ".,;:")] {
			return false
		}
	}
	return true
}

// isCapsName reports whether a line looks like a signer name: all caps,
// at least two words, longer than ten characters, and not a dispositive
// keyword.
func isCapsName(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) <= 10 || len(strings.Fields(line)) < 2 {
		return false
	}
	if line != strings.ToUpper(line) {
		return false
	}
	for _, word := range strings.Fields(line) {
		if closingKeywords[strings.TrimRight(word, ".,;:")] {
			return false
		}
	}
	for _, r := range line {
		if r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}

// extractDistribucion looks for the routing code (e.g. GJN/SRC) within
// 500 characters after the dispositive formula, then in the last 200
// characters of the document.
func extractDistribucion(formula, raw string) string {
	if formula != "" {
		if pos := strings.Index(raw, formula); pos >= 0 {
			window := raw[pos+len(formula):]
			if len(window) > 500 {
				window = window[:500]
			}
			if m := distribucionCodePattern.FindStringSubmatch(window); m != nil {
				return m[1]
			}
		}
	}
	tail := raw
	if len(tail) > 200 {
		tail = tail[len(tail)-200:]
	}
	if m := distribucionCodePattern.FindStringSubmatch(tail); m != nil {
		return m[1]
	}
	return ""
}

// extractDestinatarios collects the dash-prefixed addressee lines after a
// DISTRIBUCIÓN: header, joined with "; ". A shared prefix line right
// before the dashed items (e.g. "Señores") is prepended to each.
func extractDestinatarios(raw string) string {
	loc := distribucionHeaderAnchor.FindStringIndex(raw)
	if loc == nil {
		return ""
	}
	section := raw[loc[1]:]

	var entries []string
	var prefix string
	for _, ln := range strings.Split(section, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			if len(entries) > 0 {
				break
			}
			continue
		}
		if strings.EqualFold(ln, "presente") {
			continue
		}
		if destinatarioPrefixPattern.MatchString(ln) {
			entry := strings.TrimSpace(destinatarioPrefixPattern.ReplaceAllString(ln, ""))
			if prefix != "" {
				entry = prefix + " " + entry
			}
			entries = append(entries, entry)
			continue
		}
		if len(entries) == 0 {
			prefix = ln
			continue
		}
		break
	}
	return strings.Join(entries, "; ")
}
