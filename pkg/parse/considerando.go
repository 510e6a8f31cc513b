package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/superir/pkg/norma"
)

var (
	considerandoSplitPattern  = regexp.MustCompile(`(?m)^(\d+)[.°º]+\s+(?:[Qq]ue[,\s]|Asimismo[,\s])`)
	considerandoPrefixPattern = regexp.MustCompile(`^\d+[.°º]+\s+`)

	// Title residue that bleeds into the last considerando when the
	// resolutive anchor was missing.
	residualTitlePattern = regexp.MustCompile(`(?s)NORMA DE CARÁCTER GENERAL.*$`)
	residualTituloI      = regexp.MustCompile(`(?s)TÍTULO [IVX]+.*$`)

	formulaDictacionPattern = regexp.MustCompile(`(?is)(Que,?\s+en\s+conformidad\s+a\s+lo\s+anterior.*?(?:dicta\s+la\s+siguiente|siguiente\s+norma).*?[.:])\s*$`)
)

// splitConsiderandos cuts the considerando span into its numbered items
// and peels the dictation formula off the last one.
func (p *Parser) splitConsiderandos(text string) ([]norma.ConsiderandoItem, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ""
	}

	var items []norma.ConsiderandoItem
	locs := considerandoSplitPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		items = []norma.ConsiderandoItem{{Numero: 1, Texto: text}}
	} else {
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			numero, err := strconv.Atoi(text[loc[2]:loc[3]])
			if err != nil {
				numero = i + 1
			}
			body := strings.TrimSpace(text[loc[0]:end])
			body = considerandoPrefixPattern.ReplaceAllString(body, "")
			items = append(items, norma.ConsiderandoItem{Numero: numero, Texto: strings.TrimSpace(body)})
		}
	}

	if n := len(items); n > 0 {
		last := &items[n-1]
		last.Texto = strings.TrimSpace(residualTitlePattern.ReplaceAllString(last.Texto, ""))
		last.Texto = strings.TrimSpace(residualTituloI.ReplaceAllString(last.Texto, ""))
	}

	var formula string
	if n := len(items); n > 0 {
		last := &items[n-1]
		if m := formulaDictacionPattern.FindStringSubmatchIndex(last.Texto); m != nil {
			formula = strings.TrimSpace(last.Texto[m[2]:m[3]])
			last.Texto = strings.TrimSpace(last.Texto[:m[0]])
			if last.Texto == "" {
				items = items[:n-1]
			}
		}
	}
	return items, formula
}
