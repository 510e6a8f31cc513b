// Package validate checks parsed documents and the ingested corpus
// against the structural rules of the SUPERIR regulation family.
package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/superir/pkg/norma"
)

// ValidationStatus indicates the outcome of a validation run.
type ValidationStatus string

const (
	StatusPass ValidationStatus = "PASS"
	StatusWarn ValidationStatus = "WARN"
	StatusFail ValidationStatus = "FAIL"
)

// Issue represents a single validation finding.
type Issue struct {
	Category string   `json:"category"`
	Severity string   `json:"severity"` // "error", "warning"
	Message  string   `json:"message"`
	Examples []string `json:"examples,omitempty"`
}

// DocumentResult is the validation report for a single document.
type DocumentResult struct {
	Documento  string           `json:"documento"`
	Status     ValidationStatus `json:"status"`
	Articulos  int              `json:"articulos"`
	Divisiones int              `json:"divisiones"`

	Issues   []Issue `json:"issues"`
	Warnings []Issue `json:"warnings"`
}

// ToJSON serializes the report to indented JSON.
func (r *DocumentResult) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validator applies per-document structural checks.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDocument checks a parsed document. Errors mark structural
// rules that every document of the family must obey; warnings mark
// recoverable gaps that usually point at extraction misses.
func (v *Validator) ValidateDocument(doc *norma.Norma) *DocumentResult {
	result := &DocumentResult{
		Documento: doc.Identificador,
		Issues:    make([]Issue, 0),
		Warnings:  make([]Issue, 0),
	}

	v.checkMetadata(doc, result)
	v.checkTree(doc, result)
	v.checkArticles(doc, result)
	v.checkClosing(doc, result)

	result.Articulos = doc.CountArticles()
	result.Divisiones = doc.CountDivisions()

	switch {
	case len(result.Issues) > 0:
		result.Status = StatusFail
	case len(result.Warnings) > 0:
		result.Status = StatusWarn
	default:
		result.Status = StatusPass
	}
	return result
}

func (v *Validator) checkMetadata(doc *norma.Norma, result *DocumentResult) {
	if doc.Identificador == "" {
		result.Issues = append(result.Issues, Issue{
			Category: "metadata",
			Severity: "error",
			Message:  "document has no identifier",
		})
	}
	if doc.Metadatos.Numero == "" {
		result.Issues = append(result.Issues, Issue{
			Category: "metadata",
			Severity: "error",
			Message:  "document number was not extracted",
		})
	}
	if doc.Metadatos.FechaISO == "" {
		result.Warnings = append(result.Warnings, Issue{
			Category: "metadata",
			Severity: "warning",
			Message:  "issue date was not extracted",
		})
	} else if !isoDatePattern.MatchString(doc.Metadatos.FechaISO) {
		result.Issues = append(result.Issues, Issue{
			Category: "metadata",
			Severity: "error",
			Message:  fmt.Sprintf("issue date %q is not in ISO form", doc.Metadatos.FechaISO),
		})
	}
	if doc.Metadatos.Materia == "" {
		result.Warnings = append(result.Warnings, Issue{
			Category: "metadata",
			Severity: "warning",
			Message:  "subject (materia) was not extracted",
		})
	}
}

// checkTree enforces the shape of the division tree: articles are
// leaves, divisions carry no article content.
func (v *Validator) checkTree(doc *norma.Norma, result *DocumentResult) {
	if len(doc.Estructuras) == 0 {
		result.Issues = append(result.Issues, Issue{
			Category: "structure",
			Severity: "error",
			Message:  "document has no normative body",
		})
		return
	}

	var badLeaves, badDivisions []string
	var walk func(node *norma.StructuralNode)
	walk = func(node *norma.StructuralNode) {
		if node.IsArticle() {
			if len(node.Hijos) > 0 {
				badLeaves = append(badLeaves, articleLabel(node))
			}
		} else if node.Texto != "" || node.Contenido != nil {
			badDivisions = append(badDivisions, divisionLabel(node))
		}
		for _, child := range node.Hijos {
			walk(child)
		}
	}
	for _, node := range doc.Estructuras {
		walk(node)
	}

	if len(badLeaves) > 0 {
		result.Issues = append(result.Issues, Issue{
			Category: "structure",
			Severity: "error",
			Message:  "articles must be leaves of the division tree",
			Examples: badLeaves,
		})
	}
	if len(badDivisions) > 0 {
		result.Issues = append(result.Issues, Issue{
			Category: "structure",
			Severity: "error",
			Message:  "divisions must not carry article text or content",
			Examples: badDivisions,
		})
	}

	v.checkDivisionOrder(doc, result)
}

// checkDivisionOrder warns when sibling divisions or article numbers
// run out of sequence, which usually means a header was misread.
func (v *Validator) checkDivisionOrder(doc *norma.Norma, result *DocumentResult) {
	var outOfOrder []string
	var checkSiblings func(nodes []*norma.StructuralNode)
	checkSiblings = func(nodes []*norma.StructuralNode) {
		prev := map[norma.NodeKind]int{}
		for _, node := range nodes {
			value, ok := ordinalValue(node)
			if ok {
				if last, seen := prev[node.Kind]; seen && value <= last {
					outOfOrder = append(outOfOrder,
						fmt.Sprintf("%s %s", node.Kind, node.Ordinal))
				}
				prev[node.Kind] = value
			}
			checkSiblings(node.Hijos)
		}
	}
	checkSiblings(doc.Estructuras)

	var prevArticle int
	var articleJumps []string
	doc.WalkArticles(func(article *norma.StructuralNode) {
		if article.Transitorio {
			return
		}
		value, ok := ordinalValue(article)
		if !ok {
			return
		}
		if prevArticle > 0 && value <= prevArticle {
			articleJumps = append(articleJumps, articleLabel(article))
		}
		prevArticle = value
	})

	if len(outOfOrder) > 0 {
		result.Warnings = append(result.Warnings, Issue{
			Category: "structure",
			Severity: "warning",
			Message:  "division ordinals are out of sequence",
			Examples: outOfOrder,
		})
	}
	if len(articleJumps) > 0 {
		result.Warnings = append(result.Warnings, Issue{
			Category: "structure",
			Severity: "warning",
			Message:  "article numbers are out of sequence",
			Examples: articleJumps,
		})
	}
}

func (v *Validator) checkArticles(doc *norma.Norma, result *DocumentResult) {
	var empty, mixed []string
	doc.WalkArticles(func(article *norma.StructuralNode) {
		if article.Derogado {
			return
		}
		if strings.TrimSpace(article.Texto) == "" {
			empty = append(empty, articleLabel(article))
		}
		if c := article.Contenido; c != nil && len(c.Listado) > 0 && len(c.Requisitos) > 0 {
			mixed = append(mixed, articleLabel(article))
		}
	})

	if len(empty) > 0 {
		result.Warnings = append(result.Warnings, Issue{
			Category: "content",
			Severity: "warning",
			Message:  "articles with no text",
			Examples: empty,
		})
	}
	if len(mixed) > 0 {
		result.Issues = append(result.Issues, Issue{
			Category: "content",
			Severity: "error",
			Message:  "articles carry both a listado and requisito blocks",
			Examples: mixed,
		})
	}
}

func (v *Validator) checkClosing(doc *norma.Norma, result *DocumentResult) {
	if doc.Cierre == nil {
		result.Warnings = append(result.Warnings, Issue{
			Category: "closing",
			Severity: "warning",
			Message:  "closing block was not extracted",
		})
		return
	}
	if doc.Cierre.Firmante == nil || doc.Cierre.Firmante.Nombre == "" {
		result.Warnings = append(result.Warnings, Issue{
			Category: "closing",
			Severity: "warning",
			Message:  "signatory was not extracted",
		})
	}
}

func articleLabel(node *norma.StructuralNode) string {
	return "Artículo " + node.Ordinal
}

func divisionLabel(node *norma.StructuralNode) string {
	return fmt.Sprintf("%s %s", node.Kind, node.Ordinal)
}

// ordinalValue decodes a node ordinal into a comparable integer.
// Division ordinals are roman, article ordinals arabic with an
// optional bis/ter suffix.
func ordinalValue(node *norma.StructuralNode) (int, bool) {
	ordinal := strings.TrimSpace(node.Ordinal)
	if ordinal == "" {
		return 0, false
	}
	if node.IsArticle() {
		base := ordinal
		suffix := 0
		if idx := strings.IndexByte(ordinal, ' '); idx > 0 {
			base = ordinal[:idx]
			switch strings.TrimSpace(ordinal[idx+1:]) {
			case "bis":
				suffix = 1
			case "ter":
				suffix = 2
			}
		}
		n, err := strconv.Atoi(base)
		if err != nil {
			return 0, false
		}
		return n*10 + suffix, true
	}
	return romanValue(ordinal)
}

var romanDigits = map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}

func romanValue(s string) (int, bool) {
	total := 0
	for i := 0; i < len(s); i++ {
		value, ok := romanDigits[s[i]]
		if !ok {
			return 0, false
		}
		if i+1 < len(s) && romanDigits[s[i+1]] > value {
			total -= value
		} else {
			total += value
		}
	}
	return total, total > 0
}
