package cliui_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"groundqa/internal/cliui"
	"groundqa/internal/domain"
)

func TestCLIUI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CLI UI Suite")
}

var _ = Describe("cliui", func() {
	It("renders markdown text", func() {
		out, err := cliui.RenderMarkdown("**Fontes:** u1", 40)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Fontes:"))
		Expect(out).To(ContainSubstring("u1"))
	})

	It("lists every source with its URL", func() {
		out := cliui.RenderSources([]domain.Source{
			{Title: "Primeira", URL: "https://a.example", Cited: true},
			{Title: "Segunda", URL: "https://b.example"},
		})
		Expect(out).To(ContainSubstring("Primeira"))
		Expect(out).To(ContainSubstring("https://b.example"))
		Expect(out).To(ContainSubstring("[2]"))
	})

	It("marks an empty source list", func() {
		Expect(cliui.RenderSources(nil)).To(ContainSubstring("sem fontes"))
	})

	It("renders an answer followed by its sources", func() {
		out := cliui.RenderAnswer(domain.Answer{
			Answer:  "Resposta.",
			Sources: []domain.Source{{Title: "T", URL: "u1"}},
		}, 0)
		Expect(out).To(ContainSubstring("Resposta."))
		Expect(out).To(ContainSubstring("u1"))
	})
})
