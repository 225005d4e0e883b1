package retriever

import (
	"fmt"
	"math"

	"groundqa/internal/domain"
)

// epsilon keeps the denominator positive for all-zero vectors.
const epsilon = 1e-12

// Cosine returns the cosine similarity of a and b.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", domain.ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + epsilon), nil
}
