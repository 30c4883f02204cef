// Package pairing builds the immutable pairing index the graph selector reads from.
package pairing

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/flavorgraph/core/internal/errors"
	"github.com/flavorgraph/core/internal/models"
	"github.com/flavorgraph/core/internal/normalize"
)

// Index holds the normalized pairing records together with the set of main
// ingredients and the connectable subset. It is never mutated after Load and
// may be shared between goroutines.
type Index struct {
	records     []models.PairingRecord
	connectable []models.PairingRecord
	mains       map[string]struct{}
	mainList    []string
}

// Load normalizes rows and builds an Index. The first malformed row aborts the
// load; no partial index is returned.
func Load(rows []models.RawRecord) (*Index, error) {
	idx := &Index{
		records: make([]models.PairingRecord, 0, len(rows)),
		mains:   make(map[string]struct{}),
	}

	for i, row := range rows {
		rec, err := normalizeRow(row, i)
		if err != nil {
			return nil, err
		}

		idx.records = append(idx.records, rec)
		idx.mains[rec.Main] = struct{}{}
	}

	for _, rec := range idx.records {
		if _, ok := idx.mains[rec.Pairing]; ok {
			idx.connectable = append(idx.connectable, rec)
		}
	}

	idx.mainList = make([]string, 0, len(idx.mains))
	for m := range idx.mains {
		idx.mainList = append(idx.mainList, m)
	}
	slices.Sort(idx.mainList)

	return idx, nil
}

func normalizeRow(row models.RawRecord, pos int) (models.PairingRecord, error) {
	line := row.Line
	if line == 0 {
		line = pos + 1
	}

	if strings.TrimSpace(row.Main) == "" {
		return models.PairingRecord{}, errors.MalformedRecordf("row %d: MAIN is empty", line)
	}
	if strings.TrimSpace(row.Pairing) == "" {
		return models.PairingRecord{}, errors.MalformedRecordf("row %d: PAIRING is empty", line)
	}

	level, err := strconv.Atoi(strings.TrimSpace(row.Level))
	if err != nil {
		return models.PairingRecord{}, errors.Wrapf(err, errors.CodeMalformedRecord,
			"row %d: invalid RECOMMENDATION_LEVEL %q", line, row.Level)
	}

	return models.PairingRecord{
		Main:    normalize.Name(row.Main),
		Pairing: normalize.Name(row.Pairing),
		Level:   level,
	}, nil
}

// Len returns the number of loaded records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Records returns a copy of every loaded record in input order.
func (idx *Index) Records() []models.PairingRecord {
	return slices.Clone(idx.records)
}

// ConnectablePairs returns a copy of the records whose pairing is itself a main.
func (idx *Index) ConnectablePairs() []models.PairingRecord {
	return slices.Clone(idx.connectable)
}

// Connectable iterates the connectable records without copying them.
func (idx *Index) Connectable() iter.Seq[models.PairingRecord] {
	return func(yield func(models.PairingRecord) bool) {
		for _, rec := range idx.connectable {
			if !yield(rec) {
				return
			}
		}
	}
}

// IsMain reports whether name (already lower-cased) is a main ingredient.
func (idx *Index) IsMain(name string) bool {
	_, ok := idx.mains[name]
	return ok
}

// AllMains returns the set of main ingredients as a fresh map.
func (idx *Index) AllMains() map[string]struct{} {
	out := make(map[string]struct{}, len(idx.mains))
	for m := range idx.mains {
		out[m] = struct{}{}
	}
	return out
}

// Mains returns the main ingredients sorted by name.
func (idx *Index) Mains() []string {
	return slices.Clone(idx.mainList)
}
