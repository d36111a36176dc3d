package kol

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ColumnManifestDocument models a YAML/JSON manifest describing table columns,
// for deployments that customize the catalog without recompiling.
type ColumnManifestDocument struct {
	Version string   `json:"version" yaml:"version"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Columns []Column `json:"columns" yaml:"columns"`
	Source  string   `json:"-" yaml:"-"`
}

// LoadManifestFile reads a manifest from disk, registers its columns against
// the catalog, and returns the document.
func (c *Catalog) LoadManifestFile(path string) (*ColumnManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := c.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers columns from a decoded manifest.
func (c *Catalog) LoadManifestDocument(doc *ColumnManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("kol: manifest document is nil")
	}
	for _, col := range doc.Columns {
		if err := c.Register(col); err != nil {
			return fmt.Errorf("kol: register column %s from %s: %w", col.Key, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ColumnManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("kol: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("kol: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ColumnManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ColumnManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("kol: manifest is empty")
		}
		return nil, fmt.Errorf("kol: parse manifest: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ColumnManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("kol: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Columns))
	for idx, col := range doc.Columns {
		if col.Key == "" {
			return fmt.Errorf("kol: manifest column at index %d is missing key", idx)
		}
		if col.Title == "" {
			return fmt.Errorf("kol: manifest column %s missing title", col.Key)
		}
		switch col.Kind {
		case KindString, KindEnum, KindNumber, KindDate:
		default:
			return fmt.Errorf("kol: manifest column %s has unknown kind %q", col.Key, col.Kind)
		}
		if col.Kind == KindEnum && len(col.EnumOptions) == 0 {
			return fmt.Errorf("kol: manifest enum column %s has no options", col.Key)
		}
		if _, exists := seen[col.Key]; exists {
			return fmt.Errorf("kol: manifest duplicates column key %s", col.Key)
		}
		seen[col.Key] = struct{}{}
	}
	return nil
}
