package domain

import "context"

// Document is a single corpus record: one excerpt from an official source.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// Usable reports whether the document carries an embedding long enough to be
// ranked. Documents whose embedding failed keep a nil embedding and are never usable.
func (d Document) Usable(minDimension int) bool {
	return d.Embedding != nil && len(d.Embedding) >= minDimension
}

// ScoredDocument pairs a document with its similarity to a question.
type ScoredDocument struct {
	Document
	Score float64
}

// Source is a document offered to the model as context.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	// Cited is set when the answer text mentions the source URL.
	Cited bool `json:"cited"`
}

// Answer is the grounded response returned to callers.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// CompletionRequest carries the prompts and sampling settings for one completion.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Preparer is implemented by embedders that must be fitted on the corpus
// before they can embed anything (e.g. TF-IDF).
type Preparer interface {
	Prepare(corpus []string) error
}

// Completer produces a chat completion from a system and a user prompt.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// RAGService defines the operations exposed by the application core.
type RAGService interface {
	Ask(ctx context.Context, question string) (Answer, error)
}
