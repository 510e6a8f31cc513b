package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coolbeans/superir/pkg/catalog"
	"github.com/coolbeans/superir/pkg/fetch"
	"github.com/coolbeans/superir/pkg/library"
	"github.com/coolbeans/superir/pkg/norma"
	"github.com/coolbeans/superir/pkg/parse"
	"github.com/coolbeans/superir/pkg/validate"
	"github.com/coolbeans/superir/pkg/xmlgen"
)

var version = "0.1.0"

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "superir",
		Short: "Structural parser for SUPERIR regulations",
		Long: `Superir recovers the structure of Chilean SUPERIR administrative
regulations (NCGs and Instructivos) from plain text.

It produces:
  - Typed document trees (Títulos, Capítulos, Artículos, enumerations)
  - Versioned XML renditions of each document
  - A local library with cross-document derogation tracking
  - Validation reports for documents and the ingested corpus`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(libraryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func profileFor(tipo string) (parse.Profile, error) {
	switch strings.ToLower(tipo) {
	case "ncg":
		return parse.NCGProfile, nil
	case "instructivo", "inst":
		return parse.InstructivoProfile, nil
	}
	return parse.Profile{}, fmt.Errorf("unknown document type %q (want ncg or instructivo)", tipo)
}

func loadCatalogEntry(path, numero string) (*catalog.Entry, error) {
	if path == "" || numero == "" {
		return nil, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return cat.Get(numero), nil
}

func newFetcher(cacheDir string) (*fetch.Fetcher, error) {
	var options []fetch.FetcherOption
	if cacheDir != "" {
		cache, err := fetch.NewDiskCache(cacheDir, 30*24*time.Hour)
		if err != nil {
			return nil, err
		}
		options = append(options, fetch.WithCache(cache))
	}
	return fetch.NewFetcher(options...), nil
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a document into structured XML",
		Long: `Parse one document from a text file, a PDF, or a URL and emit the
structured XML rendition.

Example:
  superir parse --source ncg-14.txt --tipo ncg --output ncg-14.xml
  superir parse --url https://www.superir.gob.cl/ncg_14.pdf --tipo ncg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			url, _ := cmd.Flags().GetString("url")
			tipo, _ := cmd.Flags().GetString("tipo")
			numero, _ := cmd.Flags().GetString("numero")
			catalogPath, _ := cmd.Flags().GetString("catalog")
			output, _ := cmd.Flags().GetString("output")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")
			showStats, _ := cmd.Flags().GetBool("stats")

			profile, err := profileFor(tipo)
			if err != nil {
				return err
			}

			text, sourceURL, err := loadText(cmd.Context(), source, url, cacheDir)
			if err != nil {
				return err
			}

			doc, err := parseText(text, profile, parseInput{
				URL:            sourceURL,
				NumeroOverride: numero,
				CatalogPath:    catalogPath,
			})
			if err != nil {
				return err
			}

			xml := xmlgen.NewGenerator().Generate(doc)
			if output == "" {
				fmt.Print(xml)
			} else if err := os.WriteFile(output, []byte(xml), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			if showStats {
				printDocStats(doc)
			}
			return nil
		},
	}

	cmd.Flags().String("source", "", "path to a text or PDF file")
	cmd.Flags().String("url", "", "document URL to fetch")
	cmd.Flags().String("tipo", "ncg", "document type: ncg or instructivo")
	cmd.Flags().String("numero", "", "force the document number")
	cmd.Flags().String("catalog", "", "catalog YAML with curated metadata")
	cmd.Flags().String("output", "", "XML output path (default stdout)")
	cmd.Flags().String("cache-dir", "", "cache directory for fetched documents")
	cmd.Flags().Bool("stats", false, "print document statistics")
	return cmd
}

// loadText resolves the document text from --source or --url. PDF files
// and URLs go through the fetch package's extraction and cleanup.
func loadText(ctx context.Context, source, url, cacheDir string) (string, string, error) {
	switch {
	case source != "" && url != "":
		return "", "", fmt.Errorf("--source and --url are mutually exclusive")
	case source != "":
		data, err := os.ReadFile(source)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		if strings.HasSuffix(strings.ToLower(source), ".pdf") {
			text, err := fetch.ExtractPDFText(data)
			if err != nil {
				return "", "", fmt.Errorf("failed to extract %s: %w", source, err)
			}
			return fetch.CleanText(text), "", nil
		}
		return fetch.CleanText(string(data)), "", nil
	case url != "":
		fetcher, err := newFetcher(cacheDir)
		if err != nil {
			return "", "", err
		}
		result, err := fetcher.FetchText(ctx, url)
		if err != nil {
			return "", "", err
		}
		return result.Text, url, nil
	}
	return "", "", fmt.Errorf("either --source or --url is required")
}

// parseText wires the optional catalog entry into the parse.
func parseText(text string, profile parse.Profile, opts parseInput) (*norma.Norma, error) {
	entry, err := loadCatalogEntry(opts.CatalogPath, opts.NumeroOverride)
	if err != nil {
		return nil, err
	}

	parser := parse.NewParser(profile)
	doc, err := parser.Parse(text, parse.ParseOptions{
		URL:            opts.URL,
		NumeroOverride: opts.NumeroOverride,
		Catalog:        entry,
	})
	if err != nil {
		return nil, err
	}

	// A catalog lookup keyed on the extracted number, for documents
	// whose number was read from the header rather than forced.
	if entry == nil && opts.CatalogPath != "" && doc.Metadatos.Numero != "" {
		entry, err = loadCatalogEntry(opts.CatalogPath, doc.Metadatos.Numero)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			doc, err = parser.Parse(text, parse.ParseOptions{
				URL:            opts.URL,
				NumeroOverride: opts.NumeroOverride,
				Catalog:        entry,
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

type parseInput struct {
	URL            string
	NumeroOverride string
	CatalogPath    string
}

func printDocStats(doc *norma.Norma) {
	fmt.Printf("Document: %s\n", doc.Identificador)
	fmt.Printf("  Type:          %s\n", doc.Tipo)
	fmt.Printf("  Date:          %s\n", doc.Metadatos.FechaISO)
	fmt.Printf("  Divisions:     %d\n", doc.CountDivisions())
	fmt.Printf("  Articles:      %d\n", doc.CountArticles())
	fmt.Printf("  Considerandos: %d\n", len(doc.Considerandos))
	fmt.Printf("  Annexes:       %d\n", len(doc.Anexos))
	if doc.Cierre != nil && doc.Cierre.Firmante != nil {
		fmt.Printf("  Signed by:     %s\n", doc.Cierre.Firmante.Nombre)
	}
}

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a document and print its cleaned text",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			output, _ := cmd.Flags().GetString("output")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")

			if url == "" {
				return fmt.Errorf("--url flag is required")
			}
			fetcher, err := newFetcher(cacheDir)
			if err != nil {
				return err
			}
			result, err := fetcher.FetchText(cmd.Context(), url)
			if err != nil {
				return err
			}
			if result.FromCache {
				fmt.Fprintf(os.Stderr, "served from cache (fetched %s)\n",
					result.FetchedAt.Format("2006-01-02"))
			}
			if output == "" {
				fmt.Println(result.Text)
				return nil
			}
			return os.WriteFile(output, []byte(result.Text), 0o644)
		},
	}

	cmd.Flags().String("url", "", "document URL")
	cmd.Flags().String("output", "", "text output path (default stdout)")
	cmd.Flags().String("cache-dir", "", "cache directory for fetched documents")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Fetch, parse and ingest every catalog entry",
		Long: `Process a whole catalog: fetch each entry's document, parse it,
generate XML and ingest it into the library. Failures are reported and
skipped so one bad scan does not abort the run.

Example:
  superir batch --catalog ncg.yaml --tipo ncg --library ./biblioteca --cache-dir ./cache`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath, _ := cmd.Flags().GetString("catalog")
			tipo, _ := cmd.Flags().GetString("tipo")
			libraryDir, _ := cmd.Flags().GetString("library")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")

			if catalogPath == "" {
				return fmt.Errorf("--catalog flag is required")
			}
			profile, err := profileFor(tipo)
			if err != nil {
				return err
			}
			cat, err := catalog.LoadFile(catalogPath)
			if err != nil {
				return err
			}
			lib, err := library.Init(libraryDir)
			if err != nil {
				return err
			}
			defer lib.Close()

			fetcher, err := newFetcher(cacheDir)
			if err != nil {
				return err
			}
			parser := parse.NewParser(profile)
			generator := xmlgen.NewGenerator()

			numeros := make([]string, 0, len(cat.Entradas))
			for numero := range cat.Entradas {
				numeros = append(numeros, numero)
			}
			sort.Strings(numeros)

			failed := 0
			for _, numero := range numeros {
				entry := cat.Entradas[numero]
				if entry.URL == "" {
					fmt.Printf("SKIP %s-%s: no URL in catalog\n", profile.IDPrefix, numero)
					continue
				}
				if err := processEntry(cmd.Context(), fetcher, parser, generator, lib, numero, entry); err != nil {
					failed++
					fmt.Printf("FAIL %s-%s: %v\n", profile.IDPrefix, numero, err)
					continue
				}
				fmt.Printf("OK   %s-%s\n", profile.IDPrefix, numero)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(numeros))
			}
			return nil
		},
	}

	cmd.Flags().String("catalog", "", "catalog YAML to process")
	cmd.Flags().String("tipo", "ncg", "document type: ncg or instructivo")
	cmd.Flags().String("library", "biblioteca", "library directory")
	cmd.Flags().String("cache-dir", "cache", "cache directory for fetched documents")
	return cmd
}

func processEntry(ctx context.Context, fetcher *fetch.Fetcher, parser *parse.Parser,
	generator *xmlgen.Generator, lib *library.Library, numero string, entry *catalog.Entry) error {

	result, err := fetcher.FetchText(ctx, entry.URL)
	if err != nil {
		return err
	}
	doc, err := parser.Parse(result.Text, parse.ParseOptions{
		URL:            entry.URL,
		NumeroOverride: numero,
		Catalog:        entry,
	})
	if err != nil {
		return err
	}
	xml := generator.Generate(doc)
	_, err = lib.Ingest(doc, []byte(xml))
	return err
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with document catalogs",
	}
	cmd.AddCommand(scrapeCmd())
	return cmd
}

func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a listing page into a catalog skeleton",
		Long: `Scrape the PDF links off a published listing page and write a
catalog YAML skeleton with one entry per discovered document. Existing
entries in the output catalog keep their curated fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			source, _ := cmd.Flags().GetString("source")
			tipo, _ := cmd.Flags().GetString("tipo")
			output, _ := cmd.Flags().GetString("output")

			if output == "" {
				return fmt.Errorf("--output flag is required")
			}

			var listings []catalog.Listing
			switch {
			case source != "":
				f, err := os.Open(source)
				if err != nil {
					return err
				}
				defer f.Close()
				listings, err = catalog.ScrapeListing(f, url)
				if err != nil {
					return err
				}
			case url != "":
				resp, err := http.Get(url)
				if err != nil {
					return fmt.Errorf("failed to fetch listing page: %w", err)
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return fmt.Errorf("listing page returned status %d", resp.StatusCode)
				}
				listings, err = catalog.ScrapeListing(resp.Body, url)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either --source or --url is required")
			}

			cat := &catalog.Catalog{Tipo: tipo, Entradas: map[string]*catalog.Entry{}}
			if existing, err := catalog.LoadFile(output); err == nil {
				cat = existing
			}
			added := 0
			for _, l := range listings {
				if _, ok := cat.Entradas[l.Numero]; ok {
					continue
				}
				cat.Entradas[l.Numero] = &catalog.Entry{
					TituloCompleto: l.Titulo,
					URL:            l.URL,
				}
				added++
			}
			if err := cat.Save(output); err != nil {
				return err
			}
			fmt.Printf("Discovered %d documents, %d new entries written to %s\n",
				len(listings), added, output)
			return nil
		},
	}

	cmd.Flags().String("url", "", "listing page URL")
	cmd.Flags().String("source", "", "local HTML file instead of a URL")
	cmd.Flags().String("tipo", "ncg", "document type label for the catalog")
	cmd.Flags().String("output", "", "catalog YAML to create or extend")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a parsed document or the whole library",
		Long: `Validate one document (parse it, then check structural rules) or
the cross-document consistency of an ingested library.

Example:
  superir validate --source ncg-14.txt --tipo ncg
  superir validate --library ./biblioteca`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			tipo, _ := cmd.Flags().GetString("tipo")
			libraryDir, _ := cmd.Flags().GetString("library")
			asJSON, _ := cmd.Flags().GetBool("json")

			validator := validate.NewValidator()

			if libraryDir != "" {
				lib, err := library.Open(libraryDir)
				if err != nil {
					return err
				}
				defer lib.Close()

				result, err := validator.ValidateCorpus(lib)
				if err != nil {
					return err
				}
				if asJSON {
					data, err := result.ToJSON()
					if err != nil {
						return err
					}
					fmt.Println(string(data))
				} else {
					fmt.Printf("Corpus: %d documents, status %s\n", result.Documentos, result.Status)
					printIssues(result.Issues, result.Warnings)
				}
				if result.Status == validate.StatusFail {
					return fmt.Errorf("corpus validation failed")
				}
				return nil
			}

			if source == "" {
				return fmt.Errorf("either --source or --library is required")
			}
			profile, err := profileFor(tipo)
			if err != nil {
				return err
			}
			text, _, err := loadText(cmd.Context(), source, "", "")
			if err != nil {
				return err
			}
			doc, err := parse.NewParser(profile).Parse(text, parse.ParseOptions{})
			if err != nil {
				return err
			}

			result := validator.ValidateDocument(doc)
			if asJSON {
				data, err := result.ToJSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				fmt.Printf("%s: status %s (%d articles, %d divisions)\n",
					result.Documento, result.Status, result.Articulos, result.Divisiones)
				printIssues(result.Issues, result.Warnings)
			}
			if result.Status == validate.StatusFail {
				return fmt.Errorf("document validation failed")
			}
			return nil
		},
	}

	cmd.Flags().String("source", "", "path to a text or PDF file")
	cmd.Flags().String("tipo", "ncg", "document type: ncg or instructivo")
	cmd.Flags().String("library", "", "validate an ingested library instead")
	cmd.Flags().Bool("json", false, "emit the report as JSON")
	return cmd
}

func printIssues(issues, warnings []validate.Issue) {
	for _, issue := range issues {
		fmt.Printf("  ERROR [%s] %s\n", issue.Category, issue.Message)
		for _, ex := range issue.Examples {
			fmt.Printf("    - %s\n", ex)
		}
	}
	for _, warning := range warnings {
		fmt.Printf("  WARN  [%s] %s\n", warning.Category, warning.Message)
		for _, ex := range warning.Examples {
			fmt.Printf("    - %s\n", ex)
		}
	}
}

func libraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the local document library",
	}
	cmd.PersistentFlags().String("dir", "biblioteca", "library directory")

	cmd.AddCommand(libraryInitCmd())
	cmd.AddCommand(libraryListCmd())
	cmd.AddCommand(libraryShowCmd())
	cmd.AddCommand(libraryRefsCmd())
	return cmd
}

func libraryDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("dir")
	return dir
}

func libraryInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a library directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := libraryDir(cmd)
			lib, err := library.Init(dir)
			if err != nil {
				return err
			}
			defer lib.Close()
			fmt.Printf("Initialized library at %s\n", dir)
			return nil
		},
	}
}

func libraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ingested documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := library.Open(libraryDir(cmd))
			if err != nil {
				return err
			}
			defer lib.Close()

			records, err := lib.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("Library is empty.")
				return nil
			}
			fmt.Printf("%-10s %-12s %-4s %-4s %s\n", "ID", "FECHA", "ART", "DIV", "MATERIA")
			for _, rec := range records {
				fmt.Printf("%-10s %-12s %-4d %-4d %s\n",
					rec.Identificador, rec.Fecha, rec.Articulos, rec.Divisiones,
					truncate(rec.Materia, 60))
			}
			return nil
		},
	}
}

func libraryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print the stored XML of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := library.Open(libraryDir(cmd))
			if err != nil {
				return err
			}
			defer lib.Close()

			data, err := lib.LoadXML(args[0])
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func libraryRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs [id]",
		Short: "List the references recorded for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := library.Open(libraryDir(cmd))
			if err != nil {
				return err
			}
			defer lib.Close()

			if _, err := lib.Get(args[0]); err != nil {
				return err
			}
			refs, err := lib.References(args[0])
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				fmt.Printf("%s has no recorded references.\n", args[0])
				return nil
			}
			for _, ref := range refs {
				fmt.Printf("%-9s %s\n", ref.Kind, ref.Referencia)
			}
			return nil
		},
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
