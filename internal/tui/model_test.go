package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"groundqa/internal/domain"
)

func TestTUI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TUI Suite")
}

type stubService struct {
	answer domain.Answer
	err    error
}

func (s stubService) Ask(_ context.Context, _ string) (domain.Answer, error) {
	return s.answer, s.err
}

var _ = Describe("Model", func() {
	var svc stubService

	BeforeEach(func() {
		svc = stubService{answer: domain.Answer{
			Answer:  "O IMI é anual. Outra frase.",
			Sources: []domain.Source{{Title: "IMI", URL: "https://imi.example", Cited: true}},
		}}
	})

	sized := func(m Model) Model {
		next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
		return next.(Model)
	}

	It("waits for a window size before rendering", func() {
		Expect(New(svc, "resumo").View()).To(Equal("A carregar…"))
	})

	It("ignores enter on an empty prompt", func() {
		m := sized(New(svc, ""))
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		Expect(cmd).To(BeNil())
		Expect(next.(Model).pending).To(BeFalse())
	})

	It("asks asynchronously and appends the answer", func() {
		m := sized(New(svc, "resumo do corpus"))
		m.input.SetValue("  Quando se paga o IMI?  ")

		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = next.(Model)
		Expect(cmd).NotTo(BeNil())
		Expect(m.pending).To(BeTrue())
		Expect(m.input.Value()).To(BeEmpty())

		msg := ask(svc, "Quando se paga o IMI?")()
		next, _ = m.Update(msg)
		m = next.(Model)
		Expect(m.pending).To(BeFalse())
		Expect(m.history).To(HaveLen(1))
		Expect(m.history[0].question).To(Equal("Quando se paga o IMI?"))

		view := m.View()
		Expect(view).To(ContainSubstring("resumo do corpus"))
		Expect(m.renderTranscript()).To(ContainSubstring("https://imi.example"))
	})

	It("shows failures in the status line", func() {
		svc.err = errors.New("provider failed")
		m := sized(New(svc, ""))
		next, _ := m.Update(ask(svc, "q")())
		m = next.(Model)
		Expect(m.status).To(ContainSubstring("provider failed"))
		Expect(m.history[0].err).To(HaveOccurred())
	})
})

var _ = Describe("highlightBestSentence", func() {
	It("returns text unchanged when nothing overlaps", func() {
		Expect(highlightBestSentence("Nada a ver. Mesmo.", "imposto")).To(Equal("Nada a ver. Mesmo."))
	})

	It("keeps surrounding text around the best sentence", func() {
		out := highlightBestSentence("Primeira frase.\nO imposto é anual.", "imposto anual")
		Expect(out).To(HavePrefix("Primeira frase.\n"))
		Expect(out).To(ContainSubstring("O imposto é anual."))
	})
})
