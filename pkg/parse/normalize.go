package parse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Markers that open a structural unit; a wrapped line starting with one of
// these must not be merged into the previous line.
var structuralOpeners = []*regexp.Regexp{
	regexp.MustCompile(`^(?i)T[ÍI]TULO\s+(?:[IVXLCDM]+|\d+)\b`),
	regexp.MustCompile(`^(?i)CAP[ÍI]TULO\s+(?:[IVXLCDM]+|\d+)\b`),
	regexp.MustCompile(`^(?i)P[ÁA]RRAFO\s+(?:[IVXLCDM]+|\d+)[°º]?\b`),
	regexp.MustCompile(`^Art[ií]culo\s+(?:\d|[Tt]ransitorio|[Úú]nico)`),
	regexp.MustCompile(`^(?i)(?:VISTOS?|CONSIDERANDO|RESUELVO)\s*:?\s*$`),
	regexp.MustCompile(`^(?i)(?:AN[ÓO]TESE|REG[ÍI]STRESE|COMUN[ÍI]QUESE|PUBL[ÍI]QUESE|NOTIF[ÍI]QUESE|ARCH[ÍI]VESE)\b`),
	regexp.MustCompile(`^(?i)DISTRIBUCI[ÓO]N\s*:?`),
	regexp.MustCompile(`^(?i)ANEXO(?:S)?\s+(?:N\.?\s*[°º]?\s*)?[IVXLCDM\d]`),
	regexp.MustCompile(`^[a-z][.)]\s`),
	regexp.MustCompile(`^[a-z]\.\d+\)\s`),
	regexp.MustCompile(`^[A-Z]\.(?:-|–)?\s`),
	regexp.MustCompile(`^[A-Z]\)\s`),
	regexp.MustCompile(`^\d+[.)°º]`),
	regexp.MustCompile(`^[IVXLCDM]+\.\-\s`),
	regexp.MustCompile(`^(?:i{1,3}|iv|vi{0,3})\.`),
	regexp.MustCompile(`^-\S?`),
}

// NormalizeText rejoins PDF column-wrapped lines into paragraphs. A blank
// line is always a break; a non-blank line merges into the previous one
// unless it opens a new structural unit, or the previous line ends in one
// of `.;:)` and the new line starts uppercase. Single pass, never fails.
//
// In the output each paragraph occupies one line; a blank source gap is
// kept as a blank line so paragraph boundaries survive.
func NormalizeText(text string) string {
	lines := strings.Split(text, "\n")

	var out []string
	blankPending := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(out) > 0 {
				blankPending = true
			}
			continue
		}

		switch {
		case len(out) == 0:
			out = append(out, trimmed)
		case blankPending:
			out = append(out, "", trimmed)
		case opensStructuralUnit(trimmed) || breaksAfter(out[len(out)-1], trimmed):
			out = append(out, trimmed)
		default:
			out[len(out)-1] += " " + trimmed
		}
		blankPending = false
	}

	return strings.Join(out, "\n")
}

func opensStructuralUnit(line string) bool {
	for _, pattern := range structuralOpeners {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// breaksAfter reports whether next starts a new paragraph given the line
// before it: previous ends in closing punctuation and next opens uppercase.
func breaksAfter(prev, next string) bool {
	if prev == "" {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(prev)
	if !strings.ContainsRune(".;:)", last) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(next)
	return unicode.IsUpper(first)
}

// splitParagraphs cuts normalized text into paragraphs. Primary mode splits
// on line boundaries, merging a line into the previous paragraph when that
// paragraph does not end in closing punctuation (page-break residue).
// Collapsed mode handles text with no newlines left, splitting after a
// period followed by run-on double spaces and an uppercase letter.
func splitParagraphs(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if len(paragraphs) > 0 && !endsInClosingPunct(paragraphs[len(paragraphs)-1]) {
			paragraphs[len(paragraphs)-1] += " " + trimmed
			continue
		}
		paragraphs = append(paragraphs, trimmed)
	}

	if len(paragraphs) != 1 {
		return paragraphs
	}

	return splitCollapsed(paragraphs[0])
}

var collapsedBoundary = regexp.MustCompile(`\.[ \t]{2,}[A-ZÁÉÍÓÚÑ]`)

func splitCollapsed(text string) []string {
	locs := collapsedBoundary.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var parts []string
	start := 0
	for _, loc := range locs {
		cut := loc[0] + 1 // keep the period with the left part
		part := strings.TrimSpace(text[start:cut])
		if part != "" {
			parts = append(parts, part)
		}
		start = cut
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

func endsInClosingPunct(s string) bool {
	last, _ := utf8.DecodeLastRuneInString(strings.TrimRight(s, " \t"))
	return strings.ContainsRune(".;:)", last)
}
