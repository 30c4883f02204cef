// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"time"

	"github.com/flavorgraph/core/internal/logger"
	"github.com/flavorgraph/core/internal/pairing"
	"github.com/flavorgraph/core/internal/page"
	"github.com/flavorgraph/core/internal/validation"
)

// IndexProvider returns the active pairing index. *dataset.Store satisfies it.
type IndexProvider interface {
	Index() *pairing.Index
}

// Searcher looks up ingredient names. *search.Index satisfies it.
type Searcher interface {
	Search(q string, limit int) ([]string, error)
}

// GraphObserver records graph computations. *metrics.Metrics satisfies it.
type GraphObserver interface {
	ObserveGraph(mutualOnly bool, nodes int, elapsed time.Duration)
}

type Options struct {
	Store        IndexProvider
	Search       Searcher
	Metrics      GraphObserver
	Logger       *logger.Logger
	Template     []byte
	MaxSelection int
}

type Handlers struct {
	store        IndexProvider
	search       Searcher
	metrics      GraphObserver
	validator    *validation.Validator
	log          *logger.Logger
	template     []byte
	maxSelection int
}

func New(opts Options) *Handlers {
	h := &Handlers{
		store:        opts.Store,
		search:       opts.Search,
		metrics:      opts.Metrics,
		validator:    validation.New(),
		log:          opts.Logger,
		template:     opts.Template,
		maxSelection: opts.MaxSelection,
	}

	if h.log == nil {
		h.log = logger.Discard()
	}
	if h.template == nil {
		h.template = page.DefaultTemplate()
	}
	if h.maxSelection <= 0 {
		h.maxSelection = 25
	}

	return h
}
