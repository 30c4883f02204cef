// Package page generates the standalone HTML page with the pairing table
// embedded as JSON.
package page

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/flavorgraph/core/internal/errors"
	"github.com/flavorgraph/core/internal/models"
	"github.com/flavorgraph/core/internal/parser"
)

// Placeholder is replaced with the JSON array of pairing records.
const Placeholder = "{{FLAVOR_DATA}}"

//go:embed templates/flavor-bible-template.html
var templates embed.FS

// DefaultTemplate returns the built-in page template.
func DefaultTemplate() []byte {
	data, err := templates.ReadFile("templates/flavor-bible-template.html")
	if err != nil {
		panic(fmt.Sprintf("embedded template missing: %v", err))
	}
	return data
}

// LoadTemplate reads the template at path, or returns the built-in one when
// path is empty.
func LoadTemplate(path string) ([]byte, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- template path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return data, nil
}

// Render writes tmpl with every placeholder replaced by records encoded as
// [{"main":..,"pairing":..,"level":..}, ...]. Non-ASCII text is kept as is.
func Render(w io.Writer, tmpl []byte, records []models.PairingRecord) error {
	if !bytes.Contains(tmpl, []byte(Placeholder)) {
		return errors.Validationf("template has no %s placeholder", Placeholder)
	}
	if records == nil {
		records = []models.PairingRecord{}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(records); err != nil {
		return fmt.Errorf("failed to encode pairings: %w", err)
	}
	payload := bytes.TrimRight(buf.Bytes(), "\n")

	if _, err := w.Write(bytes.ReplaceAll(tmpl, []byte(Placeholder), payload)); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// Build renders the page for the CSV at csvPath into outPath and returns the
// number of pairings written.
func Build(csvPath, templatePath, outPath string) (int, error) {
	idx, err := parser.LoadDataset(csvPath)
	if err != nil {
		return 0, err
	}

	tmpl, err := LoadTemplate(templatePath)
	if err != nil {
		return 0, err
	}

	var out bytes.Buffer
	records := idx.Records()
	if err := Render(&out, tmpl, records); err != nil {
		return 0, err
	}

	if err := os.WriteFile(outPath, out.Bytes(), 0o644); err != nil { //#nosec G306 -- generated page is meant to be world-readable
		return 0, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	return len(records), nil
}
