// Package search provides ingredient-name lookup for the selection widget,
// backed by an in-memory Bleve index.
package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/flavorgraph/core/internal/normalize"
)

const (
	fieldWords = "name"
	fieldExact = "exact"
)

type document struct {
	Name  string `json:"name"`
	Exact string `json:"exact"`
}

// Index answers prefix and typo-tolerant lookups over ingredient names.
//
// Thread safety: Search may run concurrently with Rebuild; a rebuild builds
// a fresh index and swaps it in.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
	size  int
}

// New returns an empty index.
func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	words := bleve.NewTextFieldMapping()
	words.Analyzer = simple.Name
	docMapping.AddFieldMappingsAt(fieldWords, words)

	// Whole name as one token, for prefixes that span words and for sorting.
	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(fieldExact, exact)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Rebuild replaces the indexed names.
func (s *Index) Rebuild(names []string) error {
	fresh, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("create search index: %w", err)
	}

	batch := fresh.NewBatch()
	for _, name := range names {
		n := normalize.Name(name)
		if n == "" {
			continue
		}
		if err := batch.Index(n, document{Name: n, Exact: n}); err != nil {
			fresh.Close()
			return fmt.Errorf("index %q: %w", n, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		fresh.Close()
		return fmt.Errorf("write search batch: %w", err)
	}

	count, err := fresh.DocCount()
	if err != nil {
		fresh.Close()
		return fmt.Errorf("count documents: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.size = int(count)
	s.mu.Unlock()

	return old.Close()
}

// Len returns the number of indexed names.
func (s *Index) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Search returns up to limit names matching q, best match first. Ties are
// broken alphabetically.
func (s *Index) Search(q string, limit int) ([]string, error) {
	text := strings.TrimSpace(normalize.Name(q))
	if text == "" || limit <= 0 {
		return []string{}, nil
	}

	req := bleve.NewSearchRequestOptions(buildQuery(text), limit, 0, false)
	req.SortBy([]string{"-_score", fieldExact})

	s.mu.RLock()
	res, err := s.index.Search(req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", text, err)
	}

	names := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		names = append(names, hit.ID)
	}
	return names, nil
}

func buildQuery(text string) query.Query {
	wholePrefix := bleve.NewPrefixQuery(text)
	wholePrefix.SetField(fieldExact)
	wholePrefix.SetBoost(3)

	wordPrefix := bleve.NewPrefixQuery(text)
	wordPrefix.SetField(fieldWords)
	wordPrefix.SetBoost(2)

	words := bleve.NewMatchQuery(text)
	words.SetField(fieldWords)
	words.SetFuzziness(1)

	return bleve.NewDisjunctionQuery(wholePrefix, wordPrefix, words)
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
