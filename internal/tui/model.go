// Package tui is an interactive chat over the indexed corpus.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"groundqa/internal/cliui"
	"groundqa/internal/domain"
)

// askTimeout bounds one question round trip.
const askTimeout = 2 * time.Minute

type exchange struct {
	question string
	answer   domain.Answer
	err      error
}

type answerMsg exchange

// Model is the Bubble Tea model for the chat.
type Model struct {
	service  domain.RAGService
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	history  []exchange
	overview string
	status   string
	pending  bool
	ready    bool
}

// New creates a chat model. overview is shown under the title.
func New(service domain.RAGService, overview string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Escreve a pergunta e carrega Enter"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		service:  service,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		overview: overview,
		status:   "Pronto. Enter envia, PgUp/PgDn percorre, Ctrl+C sai.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+overview, status, input, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.refresh()
		return m, nil

	case answerMsg:
		m.pending = false
		m.history = append(m.history, exchange(msg))
		if msg.err != nil {
			m.status = cliui.ErrorStyle.Render("Erro: " + msg.err.Error())
		} else {
			m.status = fmt.Sprintf("%d fonte(s) consultada(s).", len(msg.answer.Sources))
		}
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending {
				return m, nil
			}
			m.input.Reset()
			m.pending = true
			m.status = "A procurar nas fontes…"
			return m, tea.Batch(m.spinner.Tick, ask(m.service, q))
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func ask(service domain.RAGService, question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()
		ans, err := service.Ask(ctx, question)
		return answerMsg{question: question, answer: ans, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "A carregar…"
	}
	header := titleStyle.Render("groundqa")
	overview := overviewStyle.Render(m.overview)
	status := statusStyle.Render(m.status)
	if m.pending {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" + overview + "\n" +
		transcriptBoxStyle.Render(m.viewport.View()) + "\n" +
		queryBoxStyle.Render(m.input.View()) + "\n" +
		status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
}

func (m Model) renderTranscript() string {
	if len(m.history) == 0 {
		return cliui.DimStyle.Render("Ainda sem perguntas.")
	}
	width := m.viewport.Width - 4
	blocks := make([]string, 0, len(m.history))
	for _, ex := range m.history {
		var b strings.Builder
		b.WriteString(questionStyle.Render("? " + ex.question))
		b.WriteString("\n\n")
		if ex.err != nil {
			b.WriteString(cliui.ErrorStyle.Render(ex.err.Error()))
		} else {
			b.WriteString(highlightBestSentence(ex.answer.Answer, ex.question))
			b.WriteString("\n\n")
			b.WriteString(cliui.RenderSources(ex.answer.Sources))
		}
		blocks = append(blocks, lipgloss.NewStyle().Width(max(20, width)).Render(b.String()))
	}
	return strings.Join(blocks, "\n\n")
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true)
	overviewStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe      = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe         = regexp.MustCompile(`[^.!?\n]+[.!?]*`)
)

// highlightBestSentence emphasises the sentence sharing most words with query,
// leaving the rest of text untouched.
func highlightBestSentence(text, query string) string {
	spans := sentenceRe.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return text
	}
	qTokens := toTokenSet(query)
	best, bestScore := -1, 0
	for i, sp := range spans {
		if score := tokenOverlapScore(qTokens, text[sp[0]:sp[1]]); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return text
	}
	sp := spans[best]
	return text[:sp[0]] + highlightStyle.Render(text[sp[0]:sp[1]]) + text[sp[1]:]
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
