package parse

import (
	"fmt"
	"regexp"
	"strings"
)

// headerWindow bounds the region searched for header metadata.
const headerWindow = 3000

// Spanish month names, including the historical "setiembre" spelling.
var spanishMonths = map[string]string{
	"enero":      "01",
	"febrero":    "02",
	"marzo":      "03",
	"abril":      "04",
	"mayo":       "05",
	"junio":      "06",
	"julio":      "07",
	"agosto":     "08",
	"septiembre": "09",
	"setiembre":  "09",
	"octubre":    "10",
	"noviembre":  "11",
	"diciembre":  "12",
}

var (
	datePattern = regexp.MustCompile(`(?i)Santiago,?\s*(\d{1,2})\s+(?:de\s+)?([A-Za-zÁÉÍÓÚÑáéíóúñ]+)\s+(?:de\s+)?(\d{4})`)

	materiaPattern    = regexp.MustCompile(`(?im)^MAT\.?\s*:\.?\s*(.+)$`)
	referenciaPattern = regexp.MustCompile(`(?im)^REF\.?\s*:\.?\s*(.+)$`)

	resolucionExentaPattern = regexp.MustCompile(`(?i)RESOLUCI[ÓO]N\s+EXENTA\s+N[.°º]*\s*(\d+)`)

	fieldStopPattern = regexp.MustCompile(`(?i)^(SANTIAGO|VISTOS?|CONSIDERANDO|RESUELVO)`)
)

// documentMetadata is the working form of the extracted header fields.
type documentMetadata struct {
	numero           string
	fechaISO         string
	fechaTexto       string
	materia          string
	resolucionExenta string
}

// extractMetadata pulls header fields from the first headerWindow chars.
// Every extraction is independently optional; a miss leaves the field
// empty and is reported by the caller through logs, never as an error.
func (p *Parser) extractMetadata(text string) documentMetadata {
	var md documentMetadata

	header := text
	if len(header) > headerWindow {
		header = header[:headerWindow]
	}

	for _, pattern := range p.profile.NumeroPatterns {
		if m := pattern.FindStringSubmatch(header); m != nil {
			md.numero = m[1]
			break
		}
	}

	if m := resolucionExentaPattern.FindStringSubmatch(header); m != nil {
		md.resolucionExenta = m[1]
	}

	if m := datePattern.FindStringSubmatch(header); m != nil {
		day := m[1]
		if len(day) == 1 {
			day = "0" + day
		}
		monthName := strings.ToLower(m[2])
		year := m[3]
		md.fechaTexto = fmt.Sprintf("%s de %s de %s", day, monthName, year)

		month, ok := spanishMonths[monthName]
		if !ok {
			p.logger.Warn("unrecognized month name in date", "month", monthName)
			month = "01"
		}
		md.fechaISO = fmt.Sprintf("%s-%s-%s", year, month, day)
	}

	md.materia = extractSubject(header, materiaPattern)
	if md.materia == "" {
		md.materia = extractSubject(header, referenciaPattern)
	}

	return md
}

// extractSubject finds the MAT.:/REF.: line and continues it across the
// following lines until a double blank line, a section keyword, or a
// second date match.
func extractSubject(header string, pattern *regexp.Regexp) string {
	loc := pattern.FindStringSubmatchIndex(header)
	if loc == nil {
		return ""
	}

	initial := strings.TrimSpace(header[loc[2]:loc[3]])
	rest := header[loc[1]:]

	parts := []string{initial}
	consecutiveEmpty := 0
	for _, line := range strings.Split(rest, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			consecutiveEmpty++
			if consecutiveEmpty >= 2 {
				break
			}
			continue
		}
		consecutiveEmpty = 0
		if fieldStopPattern.MatchString(trimmed) {
			break
		}
		if datePattern.MatchString(trimmed) {
			break
		}
		parts = append(parts, trimmed)
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
