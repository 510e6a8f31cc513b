package fetch

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0b\x0e-\x1f\x7f]`)

	// A word broken across a line by end-of-line hyphenation: letter,
	// hyphen, newline, lowercase letter.
	hyphenBreakPattern = regexp.MustCompile(`([A-Za-zÁÉÍÓÚÑÜáéíóúñü])-\n([a-záéíóúñü])`)

	pageNumberPattern = regexp.MustCompile(`^\s*(?:-\s*)?\d{1,3}(?:\s*-)?\s*$`)

	excessBlankPattern = regexp.MustCompile(`\n{3,}`)

	// Structural lines that repeat legitimately and must survive
	// header/footer removal.
	protectedLinePattern = regexp.MustCompile(`(?i)^(T[ÍI]TULO|CAP[ÍI]TULO|P[ÁA]RRAFO|Art[ií]culo|VISTOS|CONSIDERANDO|RESUELVO|ANEXO|AN[ÓO]TESE)`)
)

// headerFooterThreshold is how many times a line must recur across pages
// before it is treated as running header or footer noise.
const headerFooterThreshold = 3

// CleanText normalizes raw extracted text: strips control characters,
// repairs hyphenated line breaks, removes page numbers and per-page
// running headers, collapses blank runs and applies Unicode NFC.
func CleanText(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = controlCharPattern.ReplaceAllString(text, "")
	text = hyphenBreakPattern.ReplaceAllString(text, "$1$2")
	text = removeRunningLines(text)
	text = excessBlankPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// removeRunningLines drops page-number lines and lines that recur more
// than headerFooterThreshold times across page breaks.
func removeRunningLines(text string) string {
	lines := strings.Split(text, "\n")

	counts := make(map[string]int)
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			counts[trimmed]++
		}
	}

	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(strings.ReplaceAll(line, "\f", ""))
		if strings.Contains(line, "\f") && trimmed == "" {
			out = append(out, "")
			continue
		}
		if pageNumberPattern.MatchString(trimmed) {
			continue
		}
		if counts[trimmed] > headerFooterThreshold && !protectedLinePattern.MatchString(trimmed) {
			continue
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.Join(out, "\n")
}
