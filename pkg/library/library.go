// Package library is the persistent document store: generated XML files on
// disk plus a SQLite index with per-document metadata and the references
// between documents.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/coolbeans/superir/pkg/norma"
)

// ErrNotFound is returned when a document id is not in the index.
var ErrNotFound = errors.New("document not found")

const documentsDir = "documents"

// Library is a handle on one library directory. Safe for concurrent use;
// writes serialize on the SQLite connection.
type Library struct {
	dir    string
	db     *sql.DB
	logger *slog.Logger
}

// Record is the indexed metadata of one stored document.
type Record struct {
	Identificador string
	Tipo          string
	Numero        string
	Fecha         string
	Materia       string
	Articulos     int
	Divisiones    int
	XMLPath       string
	IngestedAt    time.Time
}

// Reference is one indexed cross-reference of a stored document.
type Reference struct {
	Documento  string
	Kind       string // "cita", "deroga", "modifica", "derogada_por" or "modificada_por"
	Referencia string
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	identificador TEXT PRIMARY KEY,
	tipo          TEXT NOT NULL,
	numero        TEXT NOT NULL,
	fecha         TEXT,
	materia       TEXT,
	articulos     INTEGER NOT NULL DEFAULT 0,
	divisiones    INTEGER NOT NULL DEFAULT 0,
	xml_path      TEXT NOT NULL,
	ingested_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS referencias (
	documento  TEXT NOT NULL REFERENCES documents(identificador) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	referencia TEXT NOT NULL,
	PRIMARY KEY (documento, kind, referencia)
);
CREATE INDEX IF NOT EXISTS referencias_por_destino ON referencias(referencia);
`

// Init creates a library directory (and its index) or opens an existing one.
func Init(dir string, opts ...Option) (*Library, error) {
	if err := os.MkdirAll(filepath.Join(dir, documentsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create library directory %s: %w", dir, err)
	}
	lib, err := open(dir, opts)
	if err != nil {
		return nil, err
	}
	if _, err := lib.db.Exec(schema); err != nil {
		lib.db.Close()
		return nil, fmt.Errorf("failed to create library schema: %w", err)
	}
	return lib, nil
}

// Open opens an existing library. It fails when the directory has no index.
func Open(dir string, opts ...Option) (*Library, error) {
	if _, err := os.Stat(filepath.Join(dir, "index.db")); err != nil {
		return nil, fmt.Errorf("not a library directory %s: %w", dir, err)
	}
	return open(dir, opts)
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(lib *Library) { lib.logger = logger }
}

func open(dir string, opts []Option) (*Library, error) {
	dsn := filepath.Join(dir, "index.db") + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open library index: %w", err)
	}

	lib := &Library{dir: dir, db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(lib)
	}
	return lib, nil
}

// Ingest stores a parsed document: its XML rendering on disk and its
// metadata and references in the index. Re-ingesting an id replaces the
// previous version.
func (lib *Library) Ingest(doc *norma.Norma, xmlData []byte) (*Record, error) {
	if doc.Identificador == "" {
		return nil, fmt.Errorf("cannot ingest document without identifier")
	}

	relPath := filepath.Join(documentsDir, doc.Identificador+".xml")
	if err := os.WriteFile(filepath.Join(lib.dir, relPath), xmlData, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write document XML: %w", err)
	}

	rec := &Record{
		Identificador: doc.Identificador,
		Tipo:          string(doc.Tipo),
		Numero:        doc.Metadatos.Numero,
		Fecha:         doc.Metadatos.FechaISO,
		Materia:       doc.Metadatos.Materia,
		Articulos:     doc.CountArticles(),
		Divisiones:    doc.CountDivisions(),
		XMLPath:       relPath,
		IngestedAt:    time.Now().UTC(),
	}

	tx, err := lib.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO documents
		(identificador, tipo, numero, fecha, materia, articulos, divisiones, xml_path, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identificador) DO UPDATE SET
		tipo=excluded.tipo, numero=excluded.numero, fecha=excluded.fecha,
		materia=excluded.materia, articulos=excluded.articulos,
		divisiones=excluded.divisiones, xml_path=excluded.xml_path,
		ingested_at=excluded.ingested_at`,
		rec.Identificador, rec.Tipo, rec.Numero, rec.Fecha, rec.Materia,
		rec.Articulos, rec.Divisiones, rec.XMLPath, rec.IngestedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to index document %s: %w", rec.Identificador, err)
	}

	if _, err := tx.Exec(`DELETE FROM referencias WHERE documento = ?`, rec.Identificador); err != nil {
		return nil, fmt.Errorf("failed to clear references of %s: %w", rec.Identificador, err)
	}
	insert := func(kind string, refs []string) error {
		for _, ref := range refs {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO referencias (documento, kind, referencia) VALUES (?, ?, ?)`,
				rec.Identificador, kind, ref); err != nil {
				return fmt.Errorf("failed to index %s reference of %s: %w", kind, rec.Identificador, err)
			}
		}
		return nil
	}
	if err := insert("cita", doc.Metadatos.LeyesReferenciadas); err != nil {
		return nil, err
	}
	if err := insert("deroga", doc.Metadatos.Deroga); err != nil {
		return nil, err
	}
	if err := insert("modifica", doc.Metadatos.Modifica); err != nil {
		return nil, err
	}
	if err := insert("derogada_por", doc.Metadatos.DerogadaPor); err != nil {
		return nil, err
	}
	if err := insert("modificada_por", doc.Metadatos.ModificadaPor); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ingest of %s: %w", rec.Identificador, err)
	}

	lib.logger.Info("document ingested", "id", rec.Identificador, "articles", rec.Articulos)
	return rec, nil
}

// Get returns the indexed record for one document.
func (lib *Library) Get(identificador string) (*Record, error) {
	row := lib.db.QueryRow(`SELECT identificador, tipo, numero, fecha, materia,
		articulos, divisiones, xml_path, ingested_at
		FROM documents WHERE identificador = ?`, identificador)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, identificador)
	}
	return rec, err
}

// List returns every stored document ordered by type and numeric ordinal.
func (lib *Library) List() ([]*Record, error) {
	rows, err := lib.db.Query(`SELECT identificador, tipo, numero, fecha, materia,
		articulos, divisiones, xml_path, ingested_at
		FROM documents ORDER BY tipo, CAST(numero AS INTEGER)`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// References returns the indexed references of one document.
func (lib *Library) References(identificador string) ([]Reference, error) {
	rows, err := lib.db.Query(`SELECT documento, kind, referencia FROM referencias
		WHERE documento = ? ORDER BY kind, referencia`, identificador)
	if err != nil {
		return nil, fmt.Errorf("failed to load references of %s: %w", identificador, err)
	}
	defer rows.Close()

	var refs []Reference
	for rows.Next() {
		var r Reference
		if err := rows.Scan(&r.Documento, &r.Kind, &r.Referencia); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// LoadXML reads back a stored document's XML.
func (lib *Library) LoadXML(identificador string) ([]byte, error) {
	rec, err := lib.Get(identificador)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(lib.dir, rec.XMLPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read XML of %s: %w", identificador, err)
	}
	return data, nil
}

// Close releases the index connection.
func (lib *Library) Close() error {
	return lib.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var ingested string
	err := row.Scan(&rec.Identificador, &rec.Tipo, &rec.Numero, &rec.Fecha,
		&rec.Materia, &rec.Articulos, &rec.Divisiones, &rec.XMLPath, &ingested)
	if err != nil {
		return nil, err
	}
	rec.IngestedAt, _ = time.Parse(time.RFC3339, ingested)
	return &rec, nil
}
