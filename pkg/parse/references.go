package parse

import (
	"regexp"
	"sort"
	"strings"
)

var (
	leyRefPattern = regexp.MustCompile(`(?i)Ley\s+N[°º.]*\s*([\d.]+)`)
	dflRefPattern = regexp.MustCompile(`(?i)D\.?F\.?L\.?\s+N[°º.]*\s*([\d\-./]+)`)
	dsRefPattern  = regexp.MustCompile(`(?i)(?:Decreto\s+Supremo|D\.?S\.?)\s+N[°º.]*\s*(\d+)`)
	ncgRefPattern = regexp.MustCompile(`(?i)(?:Norma\s+de\s+Car[áa]cter\s+General|NCG)\s+N[°º.]*\s*(\d+)`)
)

const referenceWindow = 10000

// extractLawReferences collects the laws, decrees and NCGs cited in the
// document head. Dotted and undotted writings of the same law number
// collapse to one entry, displayed with the thousands dot. A document's
// reference to its own number is not a citation.
func extractLawReferences(text, ownNumero string) []string {
	if len(text) > referenceWindow {
		text = text[:referenceWindow]
	}

	seen := make(map[string]bool)
	var refs []string
	add := func(ref string) {
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	leyes := make(map[string]string)
	for _, m := range leyRefPattern.FindAllStringSubmatch(text, -1) {
		num := strings.Trim(m[1], ".")
		digits := strings.ReplaceAll(num, ".", "")
		if len(digits) < 4 {
			continue
		}
		// Prefer the dotted writing when both appear.
		if prev, ok := leyes[digits]; !ok || (!strings.Contains(prev, ".") && strings.Contains(num, ".")) {
			leyes[digits] = num
		}
	}
	var leyKeys []string
	for k := range leyes {
		leyKeys = append(leyKeys, k)
	}
	sort.Strings(leyKeys)
	for _, k := range leyKeys {
		add("Ley N° " + formatLeyNumero(leyes[k]))
	}

	for _, m := range dflRefPattern.FindAllStringSubmatch(text, -1) {
		add("DFL N° " + strings.Trim(m[1], "."))
	}
	for _, m := range dsRefPattern.FindAllStringSubmatch(text, -1) {
		add("D.S. N° " + m[1])
	}
	for _, m := range ncgRefPattern.FindAllStringSubmatch(text, -1) {
		if ownNumero != "" && m[1] == ownNumero {
			continue
		}
		add("NCG N° " + m[1])
	}
	return refs
}

// formatLeyNumero renders a law number with the thousands dot (20720 →
// 20.720). Already-dotted numbers pass through.
func formatLeyNumero(num string) string {
	if strings.Contains(num, ".") {
		return num
	}
	if len(num) <= 3 {
		return num
	}
	head := len(num) % 3
	if head == 0 {
		head = 3
	}
	parts := []string{num[:head]}
	for i := head; i < len(num); i += 3 {
		parts = append(parts, num[i:i+3])
	}
	return strings.Join(parts, ".")
}
