// Package service wires corpus, retrieval and answer synthesis into the
// question-answering request path.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"groundqa/internal/answer"
	"groundqa/internal/corpus"
	"groundqa/internal/domain"
	"groundqa/internal/retriever"
)

// Options tunes request handling.
type Options struct {
	// RequireDocuments makes an empty corpus an error instead of a refusal.
	RequireDocuments bool

	// SummaryMaxSentences bounds the corpus overview.
	SummaryMaxSentences int
}

// Status describes the corpus as seen by the request path.
type Status struct {
	State         string `json:"state"`
	Documents     int    `json:"documents"`
	Usable        int    `json:"usable"`
	Failed        int    `json:"failed"`
	Rejected      int    `json:"rejected"`
	SourceMissing bool   `json:"source_missing"`
	Overview      string `json:"overview,omitempty"`
}

type RAGServiceImpl struct {
	cache       *corpus.Cache
	embedder    domain.Embedder
	retriever   *retriever.Retriever
	synthesizer *answer.Synthesizer
	summarizer  domain.Summarizer
	opts        Options
	logger      *slog.Logger

	overviewMu sync.Mutex
	overview   *string
}

func NewRAGService(
	cache *corpus.Cache,
	embedder domain.Embedder,
	retriever *retriever.Retriever,
	synthesizer *answer.Synthesizer,
	summarizer domain.Summarizer,
	opts Options,
	logger *slog.Logger,
) *RAGServiceImpl {
	return &RAGServiceImpl{
		cache:       cache,
		embedder:    embedder,
		retriever:   retriever,
		synthesizer: synthesizer,
		summarizer:  summarizer,
		opts:        opts,
		logger:      logger,
	}
}

// Ask answers question from the corpus. The corpus is warmed on first use.
func (s *RAGServiceImpl) Ask(ctx context.Context, question string) (domain.Answer, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return domain.Answer{}, domain.ErrInvalidQuestion
	}

	cp, err := s.cache.Warm(ctx)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrCorpusUnavailable, err)
	}
	if cp.Len() == 0 {
		if s.opts.RequireDocuments {
			return domain.Answer{}, fmt.Errorf("%w: no documents indexed", domain.ErrCorpusUnavailable)
		}
		s.logger.Warn("answering from an empty corpus")
		return s.synthesizer.Refusal(), nil
	}

	minDim := s.retriever.Options().MinDimension
	if cp.Usable(minDim) == 0 {
		s.logger.Warn("no document has a usable embedding", "documents", cp.Len())
		return s.synthesizer.Refusal(), nil
	}

	qvec, err := s.embedder.Embed(ctx, q)
	if err != nil {
		if !errors.Is(err, domain.ErrProvider) {
			err = fmt.Errorf("%w: %v", domain.ErrProvider, err)
		}
		return domain.Answer{}, fmt.Errorf("failed to embed question: %w", err)
	}

	hits, err := s.retriever.Retrieve(qvec, cp.Documents)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("failed to retrieve excerpts: %w", err)
	}
	s.logger.Debug("retrieved excerpts", "question", q, "hits", len(hits))

	return s.synthesizer.Synthesize(ctx, q, hits)
}

// Warm loads and embeds the corpus ahead of the first question.
func (s *RAGServiceImpl) Warm(ctx context.Context) (*corpus.Corpus, error) {
	return s.cache.Warm(ctx)
}

// Status reports the cache without triggering a warm-up. The overview is
// included once the corpus is ready.
func (s *RAGServiceImpl) Status() Status {
	st := Status{State: s.cache.State().String()}
	cp := s.cache.Corpus()
	if cp == nil {
		return st
	}
	st.Documents = cp.Len()
	st.Usable = cp.Usable(s.retriever.Options().MinDimension)
	st.Failed = len(cp.Report.Failed())
	st.Rejected = len(cp.Report.Rejected)
	st.SourceMissing = cp.Report.SourceMissing
	// the corpus is ready, so this never triggers a warm-up
	if overview, err := s.Overview(context.Background()); err == nil {
		st.Overview = overview
	} else {
		s.logger.Warn("failed to summarize corpus", "error", err)
	}
	return st
}

// Overview summarizes the whole corpus, warming it if needed. The result is
// computed once.
func (s *RAGServiceImpl) Overview(ctx context.Context) (string, error) {
	if o := s.cachedOverview(); o != nil {
		return *o, nil
	}
	cp, err := s.cache.Warm(ctx)
	if err != nil {
		return "", err
	}

	s.overviewMu.Lock()
	defer s.overviewMu.Unlock()
	if s.overview != nil {
		return *s.overview, nil
	}
	var b strings.Builder
	for _, d := range cp.Documents {
		text := strings.TrimSpace(d.Text)
		b.WriteString(text)
		if !strings.ContainsAny(text[len(text)-1:], ".!?") {
			b.WriteString(".")
		}
		b.WriteString("\n")
	}
	summary, err := s.summarizer.Summarize(b.String(), s.opts.SummaryMaxSentences)
	if err != nil {
		return "", fmt.Errorf("failed to summarize corpus: %w", err)
	}
	s.overview = &summary
	return summary, nil
}

func (s *RAGServiceImpl) cachedOverview() *string {
	s.overviewMu.Lock()
	defer s.overviewMu.Unlock()
	return s.overview
}

var _ domain.RAGService = (*RAGServiceImpl)(nil)
