package retriever

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"groundqa/internal/domain"
)

const (
	// DefaultMaxResults caps how many excerpts are offered to the model.
	DefaultMaxResults = 4

	// DefaultMinScore is the empirical relevance floor. Scores must exceed it.
	DefaultMinScore = 0.12

	// DefaultMinDimension is the shortest embedding treated as valid.
	DefaultMinDimension = 10
)

// Options tunes ranking.
type Options struct {
	MaxResults   int
	MinScore     float64
	MinDimension int
}

// DefaultOptions returns the ranking settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxResults:   DefaultMaxResults,
		MinScore:     DefaultMinScore,
		MinDimension: DefaultMinDimension,
	}
}

// Retriever ranks corpus documents against a question embedding by brute-force
// cosine similarity.
type Retriever struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Retriever. Zero MaxResults or MinDimension fall back to defaults.
func New(opts Options, logger *slog.Logger) *Retriever {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.MinDimension <= 0 {
		opts.MinDimension = DefaultMinDimension
	}
	return &Retriever{opts: opts, logger: logger}
}

// Options returns the effective ranking settings.
func (r *Retriever) Options() Options { return r.opts }

// Retrieve scores every usable document, sorts by descending score keeping
// corpus order on ties, keeps the first MaxResults and drops those scoring at
// or below MinScore. Documents whose embedding length differs from query are
// skipped with a warning.
func (r *Retriever) Retrieve(query []float64, docs []domain.Document) ([]domain.ScoredDocument, error) {
	scored := make([]domain.ScoredDocument, 0, len(docs))
	for _, d := range docs {
		if !d.Usable(r.opts.MinDimension) {
			continue
		}
		s, err := Cosine(query, d.Embedding)
		if errors.Is(err, domain.ErrDimensionMismatch) {
			r.logger.Warn("skipping document with mismatched embedding dimension",
				"id", d.ID, "query_dimension", len(query), "document_dimension", len(d.Embedding))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("score document %s: %w", d.ID, err)
		}
		scored = append(scored, domain.ScoredDocument{Document: d, Score: s})
	}
	if len(scored) == 0 {
		return scored, nil
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > r.opts.MaxResults {
		scored = scored[:r.opts.MaxResults]
	}
	out := scored[:0]
	for _, sd := range scored {
		if sd.Score > r.opts.MinScore {
			out = append(out, sd)
		}
	}
	for _, sd := range out {
		r.logger.Debug("retrieved", "id", sd.ID, "score", sd.Score)
	}
	return out, nil
}
