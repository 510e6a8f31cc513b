// Package catalog handles the document catalog of the Superintendencia:
// per-document metadata entries kept in YAML files and discovery of PDF
// links on the published listing pages.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is the catalog record for one document. Parsed documents merge
// these fields into their metadata, preferring catalog values over
// auto-detected ones for the ambiguous fields.
type Entry struct {
	TituloCompleto    string   `yaml:"titulo_completo,omitempty"`
	Materias          []string `yaml:"materias,omitempty"`
	NombresComunes    []string `yaml:"nombres_comunes,omitempty"`
	ResolucionExenta  string   `yaml:"resolucion_exenta,omitempty"`
	FechaPublicacion  string   `yaml:"fecha_publicacion,omitempty"`
	LeyesHabilitantes []string `yaml:"leyes_habilitantes,omitempty"`
	Deroga            []string `yaml:"deroga,omitempty"`
	Modifica          []string `yaml:"modifica,omitempty"`
	DerogadaPor       []string `yaml:"derogada_por,omitempty"`
	ModificadaPor     []string `yaml:"modificada_por,omitempty"`
	URL               string   `yaml:"url,omitempty"`
}

// Catalog maps document ordinal ("14") to its entry for one document type.
type Catalog struct {
	Tipo     string            `yaml:"tipo"`
	Entradas map[string]*Entry `yaml:"entradas"`
}

// LoadFile reads a catalog YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if cat.Entradas == nil {
		cat.Entradas = map[string]*Entry{}
	}
	return &cat, nil
}

// Get returns the entry for a document number, or nil when absent.
func (c *Catalog) Get(numero string) *Entry {
	return c.Entradas[numero]
}

// Save writes the catalog back to a YAML file.
func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file %s: %w", path, err)
	}
	return nil
}
