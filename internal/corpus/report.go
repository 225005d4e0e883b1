package corpus

import "groundqa/internal/domain"

// Rejection records a corpus entry that never entered the cache.
type Rejection struct {
	Entry string
	Err   error
}

// EmbedOutcome is the result of embedding one document during warm-up.
type EmbedOutcome struct {
	DocumentID string
	Dimension  int
	Err        error
}

// Report summarises one warm-up.
type Report struct {
	// SourceMissing is set when the corpus directory did not exist.
	SourceMissing bool
	Entries       int
	Loaded        int
	Preembedded   int
	Embedded      int
	Rejected      []Rejection
	Outcomes      []EmbedOutcome
}

// Failed returns the documents whose embedding request failed.
func (r Report) Failed() []EmbedOutcome {
	var out []EmbedOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Corpus is the published, read-only result of a warm-up.
type Corpus struct {
	Documents []domain.Document
	Report    Report
}

// Len returns the number of validated documents.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Documents)
}

// Usable counts documents eligible for retrieval.
func (c *Corpus) Usable(minDimension int) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, d := range c.Documents {
		if d.Usable(minDimension) {
			n++
		}
	}
	return n
}
