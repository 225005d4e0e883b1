// Package answer composes grounded answers from retrieved excerpts.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"groundqa/internal/domain"
)

const (
	// DefaultRefusal is returned verbatim when the corpus holds no evidence.
	DefaultRefusal = "Não encontrei resposta nas fontes oficiais indexadas."

	DefaultLanguage     = "Português de Portugal"
	DefaultLocale       = "pt-PT"
	DefaultSourcesLabel = "Fontes:"
	DefaultMaxTokens    = 600
)

// Config controls prompt wording and completion settings.
type Config struct {
	Refusal      string
	Language     string
	Locale       string
	SourcesLabel string
	Temperature  float64
	MaxTokens    int
}

func (c *Config) applyDefaults() {
	if c.Refusal == "" {
		c.Refusal = DefaultRefusal
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.SourcesLabel == "" {
		c.SourcesLabel = DefaultSourcesLabel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
}

// Synthesizer asks the completion provider for an answer restricted to the
// retrieved excerpts.
type Synthesizer struct {
	completer domain.Completer
	cfg       Config
	logger    *slog.Logger
}

// NewSynthesizer creates a Synthesizer; empty Config fields take defaults.
func NewSynthesizer(completer domain.Completer, cfg Config, logger *slog.Logger) *Synthesizer {
	cfg.applyDefaults()
	return &Synthesizer{completer: completer, cfg: cfg, logger: logger}
}

// Refusal returns the fixed no-evidence answer.
func (s *Synthesizer) Refusal() domain.Answer {
	return domain.Answer{Answer: s.cfg.Refusal, Sources: []domain.Source{}}
}

// Synthesize returns the refusal without calling the provider when hits is
// empty. Otherwise the sources are every document offered as context, in
// ranking order, flagged as cited when the answer mentions their URL.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, hits []domain.ScoredDocument) (domain.Answer, error) {
	if len(hits) == 0 {
		return s.Refusal(), nil
	}

	req := domain.CompletionRequest{
		System:      SystemPrompt(s.cfg),
		User:        UserPrompt(s.cfg, question, BuildContext(hits)),
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}
	s.logger.Debug("requesting completion", "completer", s.completer.Name(), "excerpts", len(hits))

	text, err := s.completer.Complete(ctx, req)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("failed to complete answer: %w", err)
	}

	sources := make([]domain.Source, len(hits))
	for i, h := range hits {
		sources[i] = domain.Source{
			Title: h.Title,
			URL:   h.URL,
			Cited: cites(text, h.URL),
		}
	}
	return domain.Answer{Answer: text, Sources: sources}, nil
}

// cites reports whether url appears in text as a whole token, so that a URL
// which is a prefix of another cited one does not count.
func cites(text, url string) bool {
	if url == "" {
		return false
	}
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], url)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(url)
		if opensToken(text[:start]) && closesToken(text[end:]) {
			return true
		}
		from = start + 1
	}
	return false
}

func opensToken(before string) bool {
	r, _ := utf8.DecodeLastRuneInString(before)
	return before == "" || unicode.IsSpace(r) || strings.ContainsRune(`(<["'`, r)
}

func closesToken(after string) bool {
	r, _ := utf8.DecodeRuneInString(after)
	return after == "" || unicode.IsSpace(r) || strings.ContainsRune(`.,;:!?)>]"'`, r)
}
