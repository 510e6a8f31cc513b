package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/coolbeans/superir/pkg/library"
)

// CorpusResult is the validation report for an ingested library.
type CorpusResult struct {
	Status     ValidationStatus `json:"status"`
	Documentos int              `json:"documentos"`

	Issues   []Issue `json:"issues"`
	Warnings []Issue `json:"warnings"`
}

// ToJSON serializes the report to indented JSON.
func (r *CorpusResult) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// corpusIDPattern matches references that name another document of the
// library ("NCG-14", "INST-3") rather than an external law or decree.
var corpusIDPattern = regexp.MustCompile(`^(?:NCG|INST)-\d+$`)

// inverseKinds pairs each forward relation with its declared inverse.
var inverseKinds = map[string]string{
	"deroga":   "derogada_por",
	"modifica": "modificada_por",
}

type edge struct {
	from, kind, to string
}

// ValidateCorpus checks cross-document consistency of the library:
// deroga/modifica edges must point at ingested documents, never at the
// document itself, and each edge between two ingested documents must be
// declared on both sides (A deroga B requires B derogada_por A and
// conversely).
func (v *Validator) ValidateCorpus(lib *library.Library) (*CorpusResult, error) {
	records, err := lib.List()
	if err != nil {
		return nil, fmt.Errorf("listing library: %w", err)
	}

	result := &CorpusResult{
		Documentos: len(records),
		Issues:     make([]Issue, 0),
		Warnings:   make([]Issue, 0),
	}

	known := make(map[string]bool, len(records))
	for _, rec := range records {
		known[rec.Identificador] = true
	}

	declared := map[edge]bool{}
	var edges []edge
	var selfRefs, dangling []string
	for _, rec := range records {
		refs, err := lib.References(rec.Identificador)
		if err != nil {
			return nil, fmt.Errorf("loading references for %s: %w", rec.Identificador, err)
		}
		for _, ref := range refs {
			if ref.Kind == "cita" {
				continue
			}
			if ref.Referencia == rec.Identificador {
				selfRefs = append(selfRefs,
					fmt.Sprintf("%s %s %s", rec.Identificador, ref.Kind, ref.Referencia))
				continue
			}
			if !corpusIDPattern.MatchString(ref.Referencia) {
				continue
			}
			if !known[ref.Referencia] {
				dangling = append(dangling,
					fmt.Sprintf("%s %s %s", rec.Identificador, ref.Kind, ref.Referencia))
				continue
			}
			e := edge{from: rec.Identificador, kind: ref.Kind, to: ref.Referencia}
			declared[e] = true
			edges = append(edges, e)
		}
	}

	// Every edge between two ingested documents needs its declared
	// counterpart on the other document.
	var oneSided []string
	for _, e := range edges {
		counterpart := inverseKinds[e.kind]
		if counterpart == "" {
			for forward, inv := range inverseKinds {
				if inv == e.kind {
					counterpart = forward
				}
			}
		}
		if counterpart == "" {
			continue
		}
		if !declared[edge{from: e.to, kind: counterpart, to: e.from}] {
			oneSided = append(oneSided,
				fmt.Sprintf("%s %s %s, but %s does not declare %s %s",
					e.from, e.kind, e.to, e.to, counterpart, e.from))
		}
	}
	sort.Strings(oneSided)

	if len(selfRefs) > 0 {
		result.Issues = append(result.Issues, Issue{
			Category: "references",
			Severity: "error",
			Message:  "documents that derogate or modify themselves",
			Examples: selfRefs,
		})
	}
	if len(dangling) > 0 {
		result.Warnings = append(result.Warnings, Issue{
			Category: "references",
			Severity: "warning",
			Message:  "deroga/modifica targets not present in the library",
			Examples: dangling,
		})
	}
	if len(oneSided) > 0 {
		result.Warnings = append(result.Warnings, Issue{
			Category: "references",
			Severity: "warning",
			Message:  "derogation/modification edges declared on one side only",
			Examples: oneSided,
		})
	}

	switch {
	case len(result.Issues) > 0:
		result.Status = StatusFail
	case len(result.Warnings) > 0:
		result.Status = StatusWarn
	default:
		result.Status = StatusPass
	}
	return result, nil
}
