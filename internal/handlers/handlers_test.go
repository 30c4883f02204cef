package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/core/internal/models"
	"github.com/flavorgraph/core/internal/pairing"
)

type stubStore struct {
	idx *pairing.Index
}

func (s stubStore) Index() *pairing.Index {
	return s.idx
}

type stubSearcher struct {
	query string
	limit int
	names []string
	err   error
}

func (s *stubSearcher) Search(q string, limit int) ([]string, error) {
	s.query, s.limit = q, limit
	return s.names, s.err
}

type graphObservation struct {
	mutual bool
	nodes  int
}

type stubObserver struct {
	mu   sync.Mutex
	seen []graphObservation
}

func (o *stubObserver) ObserveGraph(mutualOnly bool, nodes int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, graphObservation{mutual: mutualOnly, nodes: nodes})
}

func testIndex(t *testing.T) *pairing.Index {
	t.Helper()

	rows := [][3]string{
		{"chicken", "garlic", "3"},
		{"chicken", "lemons", "2"},
		{"chicken", "thyme", "1"},
		{"garlic", "chicken", "3"},
		{"garlic", "lemons", "1"},
		{"garlic", "rosemary", "2"},
		{"lemons", "basil", "1"},
		{"rosemary", "garlic", "2"},
	}

	raw := make([]models.RawRecord, 0, len(rows))
	for i, r := range rows {
		raw = append(raw, models.RawRecord{Main: r[0], Pairing: r[1], Level: r[2], Line: i + 2})
	}

	idx, err := pairing.Load(raw)
	require.NoError(t, err)
	return idx
}

func newTestHandlers(t *testing.T, opts Options) *Handlers {
	t.Helper()
	if opts.Store == nil {
		opts.Store = stubStore{idx: testIndex(t)}
	}
	return New(opts)
}

// decodeEnvelope decodes the response body, re-decoding Data into data when
// data is non-nil.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) Envelope {
	t.Helper()

	var raw struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))

	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Envelope
}
