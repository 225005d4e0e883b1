package domain_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"groundqa/internal/domain"
)

func TestDomain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Domain Suite")
}

var _ = Describe("Document", func() {
	It("is usable only with an embedding of at least the minimum dimension", func() {
		Expect(domain.Document{}.Usable(10)).To(BeFalse())
		Expect(domain.Document{Embedding: make([]float64, 9)}.Usable(10)).To(BeFalse())
		Expect(domain.Document{Embedding: make([]float64, 10)}.Usable(10)).To(BeTrue())
		Expect(domain.Document{Embedding: []float64{1, 0}}.Usable(2)).To(BeTrue())
	})
})

var _ = Describe("validation errors", func() {
	It("names the missing field", func() {
		var err error = &domain.MissingFieldError{Field: "title"}
		Expect(err.Error()).To(ContainSubstring(`"title"`))

		var target *domain.MissingFieldError
		Expect(errors.As(err, &target)).To(BeTrue())
		Expect(target.Field).To(Equal("title"))
	})

	It("names the duplicated id", func() {
		err := &domain.DuplicateIDError{ID: "d1"}
		Expect(err.Error()).To(ContainSubstring(`"d1"`))
	})
})
