package corpus

import (
	"strings"

	"groundqa/internal/domain"
)

// Validate checks the fields every retrievable document needs and returns a
// *domain.MissingFieldError naming the first one absent.
func Validate(doc domain.Document) error {
	fields := []struct {
		name  string
		value string
	}{
		{"id", doc.ID},
		{"title", doc.Title},
		{"url", doc.URL},
		{"text", doc.Text},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &domain.MissingFieldError{Field: f.name}
		}
	}
	return nil
}
