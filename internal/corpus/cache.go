// Package corpus loads the document corpus and keeps it, embeddings included,
// in memory for the life of the process.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"groundqa/internal/domain"
)

// State is the lifecycle position of a Cache.
type State int32

const (
	StateUninitialized State = iota
	StateWarming
	StateReady
)

func (s State) String() string {
	switch s {
	case StateWarming:
		return "warming"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

const warmKey = "warm"

// Cache owns the in-process corpus. It is populated once, on the first Warm,
// and never invalidated.
type Cache struct {
	source       Source
	embedder     domain.Embedder
	minDimension int
	logger       *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	state  State
	corpus *Corpus
}

// NewCache creates an uninitialized cache.
func NewCache(source Source, embedder domain.Embedder, minDimension int, logger *slog.Logger) *Cache {
	return &Cache{
		source:       source,
		embedder:     embedder,
		minDimension: minDimension,
		logger:       logger,
	}
}

// State returns the current lifecycle state.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Corpus returns the published corpus, or nil before the first successful warm.
func (c *Cache) Corpus() *Corpus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.corpus
}

// Warm returns the corpus, loading and embedding it on first use. Concurrent
// callers on a cold cache share a single load. Failed loads leave the cache
// uninitialized so the next call retries.
func (c *Cache) Warm(ctx context.Context) (*Corpus, error) {
	if cp := c.Corpus(); cp != nil {
		return cp, nil
	}
	v, err, shared := c.group.Do(warmKey, func() (any, error) {
		if cp := c.Corpus(); cp != nil {
			return cp, nil
		}
		c.setState(StateWarming)

		cp, err := c.load(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state = StateUninitialized
			return nil, err
		}
		c.corpus = cp
		c.state = StateReady
		return cp, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("joined in-flight corpus warm-up")
	}
	return v.(*Corpus), nil
}

func (c *Cache) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context) (*Corpus, error) {
	var rep Report

	entries, err := c.source.Entries()
	if err != nil {
		if errors.Is(err, ErrSourceMissing) {
			c.logger.Warn("corpus directory does not exist; create it and add JSON records {id,title,url,text,embedding}", "error", err)
			rep.SourceMissing = true
			return &Corpus{Documents: []domain.Document{}, Report: rep}, nil
		}
		return nil, err
	}
	rep.Entries = len(entries)

	docs := make([]domain.Document, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		doc, err := c.source.Read(entry)
		if err == nil {
			err = Validate(doc)
		}
		if err == nil {
			if _, dup := seen[doc.ID]; dup {
				err = &domain.DuplicateIDError{ID: doc.ID}
			}
		}
		if err != nil {
			c.logger.Warn("skipping corpus entry", "entry", entry, "error", err)
			rep.Rejected = append(rep.Rejected, Rejection{Entry: entry, Err: err})
			continue
		}
		seen[doc.ID] = struct{}{}
		docs = append(docs, doc)
	}
	rep.Loaded = len(docs)

	refit, prepErr := c.prepare(docs)

	for i := range docs {
		d := &docs[i]
		if !refit && d.Usable(c.minDimension) {
			rep.Preembedded++
			continue
		}
		d.Embedding = nil
		outcome := EmbedOutcome{DocumentID: d.ID}
		if prepErr != nil {
			outcome.Err = prepErr
		} else {
			emb, err := c.embedder.Embed(ctx, d.Text)
			if err != nil {
				outcome.Err = err
			} else {
				d.Embedding = emb
				outcome.Dimension = len(emb)
				rep.Embedded++
			}
		}
		if outcome.Err != nil {
			c.logger.Error("failed to embed document", "id", d.ID, "error", outcome.Err)
		} else if !d.Usable(c.minDimension) {
			c.logger.Warn("embedding shorter than minimum dimension", "id", d.ID, "dimension", outcome.Dimension, "min", c.minDimension)
		}
		rep.Outcomes = append(rep.Outcomes, outcome)
	}

	c.logger.Info("corpus warmed",
		"entries", rep.Entries,
		"loaded", rep.Loaded,
		"preembedded", rep.Preembedded,
		"embedded", rep.Embedded,
		"failed", len(rep.Failed()),
		"rejected", len(rep.Rejected),
	)
	return &Corpus{Documents: docs, Report: rep}, nil
}

// prepare fits corpus-dependent embedders. When one is fitted every document
// is re-embedded, since stored vectors belong to a different space.
func (c *Cache) prepare(docs []domain.Document) (bool, error) {
	p, ok := c.embedder.(domain.Preparer)
	if !ok || len(docs) == 0 {
		return false, nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	if err := p.Prepare(texts); err != nil {
		c.logger.Error("failed to prepare embedder", "embedder", c.embedder.Name(), "error", err)
		return true, fmt.Errorf("%w: prepare %s: %v", domain.ErrProvider, c.embedder.Name(), err)
	}
	return true, nil
}
