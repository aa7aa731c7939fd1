package document

import (
	"encoding/json"
	"fmt"

	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/chartbind/api"
)

// Load reads a JSON document from fs.
func Load(fs billy.Filesystem, path string) (*api.Document, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // safe to ignore

	var doc api.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes doc to fs as indented JSON, replacing any existing file.
func Save(fs billy.Filesystem, path string, doc *api.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
