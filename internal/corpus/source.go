package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"groundqa/internal/domain"
)

// ErrSourceMissing is returned by Entries when the corpus location does not exist.
var ErrSourceMissing = errors.New("corpus source missing")

// Source enumerates and parses corpus records.
type Source interface {
	Entries() ([]string, error)
	Read(entry string) (domain.Document, error)
}

// DirSource reads one JSON record per file from a directory.
type DirSource struct {
	dir string
	ext string
}

// NewDirSource creates a source over dir considering files ending in ext
// (".json" when empty).
func NewDirSource(dir, ext string) *DirSource {
	if ext == "" {
		ext = ".json"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &DirSource{dir: dir, ext: strings.ToLower(ext)}
}

// Dir returns the directory the source reads from.
func (s *DirSource) Dir() string { return s.dir }

// Entries lists record file names in lexical order.
func (s *DirSource) Entries() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, s.dir)
		}
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), s.ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// record mirrors the on-disk format. Embedding stays raw so a null or
// malformed value downgrades to "needs embedding" instead of failing the record.
type record struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	Text      string          `json:"text"`
	Embedding json.RawMessage `json:"embedding"`
}

// Read parses one record. The result is not validated.
func (s *DirSource) Read(entry string) (domain.Document, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, entry))
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %s: %v", domain.ErrParse, entry, err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %s: %v", domain.ErrParse, entry, err)
	}
	doc := domain.Document{ID: rec.ID, Title: rec.Title, URL: rec.URL, Text: rec.Text}
	if len(rec.Embedding) > 0 {
		var emb []float64
		if err := json.Unmarshal(rec.Embedding, &emb); err == nil && len(emb) > 0 {
			doc.Embedding = emb
		}
	}
	return doc, nil
}
