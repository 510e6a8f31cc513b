// Package parse recovers the structure of SUPERIR administrative
// regulations from plain text: section spans, the Título/Capítulo/Artículo
// tree, enumerations and requisito blocks, considerandos and the closing
// block.
package parse

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/coolbeans/superir/pkg/catalog"
	"github.com/coolbeans/superir/pkg/norma"
)

// Profile carries the per-document-type knobs: the identity patterns tried
// in order against the header, and the identifier prefix.
type Profile struct {
	Tipo     norma.TipoDocumento
	IDPrefix string

	// NumeroPatterns are tried in order; the first submatch of the first
	// pattern that hits becomes the document number.
	NumeroPatterns []*regexp.Regexp
}

// NCGProfile recognizes Normas de Carácter General.
var NCGProfile = Profile{
	Tipo:     norma.TipoNCG,
	IDPrefix: "NCG",
	NumeroPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)NORMA\s+DE\s+CAR[ÁA]CTER\s+GENERAL\s+N\.?\s*[°º]?\s*(\d+)`),
		regexp.MustCompile(`(?i)NCG\s+N\.?\s*[°º]?\s*(\d+)`),
	},
}

// InstructivoProfile recognizes Instructivos SUPERIR/SIR.
var InstructivoProfile = Profile{
	Tipo:     norma.TipoInstructivo,
	IDPrefix: "INST",
	NumeroPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)INSTRUCTIVO\s+(?:SUPERIR|SIR\.?|S\.?I\.?R\.?)\s*N[.°º]*\s*(\d+)`),
		regexp.MustCompile(`(?i)INSTRUCTIVO\s*N[.°º]*\s*(\d+)`),
	},
}

// Parser turns one document's plain text into a *norma.Norma. A Parser is
// safe for concurrent use; all per-parse state is local to Parse.
type Parser struct {
	profile Profile
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the structured logger. The default discards nothing and
// writes to slog's default handler.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// NewParser builds a parser for one document family.
func NewParser(profile Profile, opts ...Option) *Parser {
	p := &Parser{profile: profile, logger: slog.Default()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ParseOptions carries per-document inputs beyond the text itself.
type ParseOptions struct {
	// URL is the source location, recorded on the document.
	URL string

	// NumeroOverride forces the document number when the header is
	// unreadable (scanned first pages).
	NumeroOverride string

	// Catalog supplies curated metadata merged over the extracted fields.
	Catalog *catalog.Entry
}

// Parse runs the full pipeline on one document's plain text.
func (p *Parser) Parse(text string, opts ParseOptions) (*norma.Norma, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("parse: empty document text")
	}

	md := p.extractMetadata(text)
	if opts.NumeroOverride != "" {
		md.numero = opts.NumeroOverride
	}
	if md.numero == "" {
		p.logger.Warn("document number not found in header", "tipo", p.profile.Tipo)
	}

	secciones := p.splitSections(text)

	doc := &norma.Norma{
		Tipo:        p.profile.Tipo,
		URLOriginal: opts.URL,
		Metadatos: norma.DocumentMetadata{
			Numero:           md.numero,
			FechaISO:         md.fechaISO,
			FechaTexto:       md.fechaTexto,
			Materia:          md.materia,
			ResolucionExenta: md.resolucionExenta,
		},
	}
	if md.numero != "" {
		doc.Identificador = p.profile.IDPrefix + "-" + md.numero
	}
	if e := opts.Catalog; e != nil {
		mergeCatalogEntry(&doc.Metadatos, e)
		if doc.URLOriginal == "" {
			doc.URLOriginal = e.URL
		}
	}

	doc.Metadatos.LeyesReferenciadas = extractLawReferences(text, md.numero)

	doc.Estructuras = p.parseBody(secciones.Body)
	hasResolutivo := strings.TrimSpace(secciones.ResuelvoIntro) != "" ||
		doc.Metadatos.ResolucionExenta != ""
	p.stripResolutiveTail(doc, hasResolutivo)
	doc.WalkArticles(func(a *norma.StructuralNode) {
		a.Contenido = p.parseArticleContent(a.Texto)
	})

	doc.Considerandos, doc.FormulaDictacion = p.splitConsiderandos(secciones.Considerando)
	doc.Cierre = p.parseCierre(secciones.Closing, text)
	doc.Anexos = p.parseAnexos(secciones.AnexosRaw)

	doc.EncabezadoTexto = joinSpans(
		span{"VISTOS:", secciones.Vistos},
		span{"CONSIDERANDO:", secciones.Considerando},
	)
	doc.PromulgacionTexto = joinSpans(
		span{"RESUELVO:", secciones.ResuelvoIntro},
		span{"", secciones.Closing},
	)

	p.logger.Info("document parsed",
		"id", doc.Identificador,
		"divisions", doc.CountDivisions(),
		"articles", doc.CountArticles(),
		"considerandos", len(doc.Considerandos),
		"anexos", len(doc.Anexos),
	)
	return doc, nil
}

type span struct {
	label string
	text  string
}

func joinSpans(spans ...span) string {
	var parts []string
	for _, sp := range spans {
		if strings.TrimSpace(sp.text) == "" {
			continue
		}
		if sp.label != "" {
			parts = append(parts, sp.label+"\n\n"+sp.text)
		} else {
			parts = append(parts, sp.text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func mergeCatalogEntry(md *norma.DocumentMetadata, e *catalog.Entry) {
	md.TituloCompleto = e.TituloCompleto
	md.Materias = e.Materias
	md.NombresComunes = e.NombresComunes
	md.FechaPublicacion = e.FechaPublicacion
	md.Deroga = e.Deroga
	md.Modifica = e.Modifica
	md.DerogadaPor = e.DerogadaPor
	md.ModificadaPor = e.ModificadaPor
	if e.ResolucionExenta != "" {
		md.ResolucionExenta = e.ResolucionExenta
	}
}

var (
	// Resolutive points of the wrapping act that leak into the final
	// article when the section splitter had no anchor to cut on.
	resolutiveLeakPattern     = regexp.MustCompile(`\d+[°º.]\s*(?:NOTIF[ÍI]QUESE|PUBL[ÍI]QUESE|DER[ÓO]GUENSE|DISP[ÓO]NGASE|AN[ÓO]TESE)`)
	resolutiveLeakFallbackPat = regexp.MustCompile(`\s+\d+[°º]\s+[A-ZÁÉÍÓÚÑ]{4,}`)
)

// stripResolutiveTail truncates resolutive-act residue off the last
// article's text. The loose fallback pattern runs only for documents
// wrapped in a resolución exenta: elsewhere "N° PALABRA" is legitimate
// article text (vigencia dates, law citations in caps).
func (p *Parser) stripResolutiveTail(doc *norma.Norma, hasResolutivo bool) {
	var last *norma.StructuralNode
	doc.WalkArticles(func(a *norma.StructuralNode) { last = a })
	if last == nil {
		return
	}
	if loc := resolutiveLeakPattern.FindStringIndex(last.Texto); loc != nil {
		last.Texto = strings.TrimSpace(last.Texto[:loc[0]])
		return
	}
	if !hasResolutivo {
		return
	}
	if loc := resolutiveLeakFallbackPat.FindStringIndex(last.Texto); loc != nil {
		last.Texto = strings.TrimSpace(last.Texto[:loc[0]])
	}
}

// parseAnexos records each ANEXO header found in the annex span. Annex
// bodies are kept as raw text and marked pending.
func (p *Parser) parseAnexos(raw string) []norma.Anexo {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	locs := anexoHeaderPattern.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return nil
	}
	var anexos []norma.Anexo
	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		a := norma.Anexo{Pendiente: true}
		if loc[2] >= 0 {
			a.Numero = raw[loc[2]:loc[3]]
		}
		if loc[4] >= 0 {
			a.Titulo = strings.TrimSpace(raw[loc[4]:loc[5]])
		}
		body := strings.TrimSpace(raw[loc[1]:end])
		if a.Titulo == "" {
			if lines := splitLines(body); len(lines) > 0 {
				a.Titulo = lines[0]
			}
		}
		a.Texto = body
		anexos = append(anexos, a)
	}
	return anexos
}
