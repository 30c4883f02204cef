// Package parser provides utilities for parsing and transforming input data.
// It reads the pairing table and converts selector results into the
// rendering payload.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/flavorgraph/core/internal/errors"
	"github.com/flavorgraph/core/internal/models"
	"github.com/flavorgraph/core/internal/pairing"
)

const (
	ColumnMain    = "MAIN"
	ColumnPairing = "PAIRING"
	ColumnLevel   = "RECOMMENDATION_LEVEL"
)

// ParseCSV reads the pairing table. Columns are located by header name, so
// their order does not matter and extra columns are ignored.
func ParseCSV(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Validation("empty pairing table: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []models.RawRecord
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeMalformedRecord, "failed to read pairing table")
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, models.RawRecord{
			Main:    fields[cols[ColumnMain]],
			Pairing: fields[cols[ColumnPairing]],
			Level:   fields[cols[ColumnLevel]],
			Line:    line,
		})
	}

	return rows, nil
}

func locateColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, 3)
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		key := strings.ToUpper(strings.TrimSpace(name))
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}

	var missing []string
	for _, want := range []string{ColumnMain, ColumnPairing, ColumnLevel} {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Validationf("pairing table is missing columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

// LoadDataset reads the CSV file at path and builds the pairing index.
func LoadDataset(path string) (*pairing.Index, error) {
	f, err := os.Open(path) //#nosec G304 -- dataset path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	rows, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	idx, err := pairing.Load(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}

	return idx, nil
}
