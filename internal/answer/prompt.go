package answer

import (
	"fmt"
	"strings"

	"groundqa/internal/domain"
)

const contextDelimiter = "\n\n----\n\n"

// BuildContext renders the retrieved excerpts in ranking order.
func BuildContext(hits []domain.ScoredDocument) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("URL: %s\nTITLE: %s\nEXCERPT: %s", h.URL, h.Title, h.Text)
	}
	return strings.Join(parts, contextDelimiter)
}

// SystemPrompt fixes the assistant's behaviour: language, grounding, refusal
// string and the trailing sources section.
func SystemPrompt(cfg Config) string {
	lines := []string{
		fmt.Sprintf("És um assistente que responde exclusivamente em %s.", cfg.Language),
		"Só podes usar as informações textuais fornecidas nos excertos abaixo, não inventes.",
		fmt.Sprintf(`Se a resposta não estiver nos excertos, responde exactamente: "%s"`, cfg.Refusal),
		fmt.Sprintf(`No fim da resposta inclui uma secção "%s" com as URLs utilizadas.`, cfg.SourcesLabel),
		"Mantém linguagem clara, concisa e sem jargão desnecessário.",
	}
	return strings.Join(lines, "\n")
}

// UserPrompt embeds the question and the context block.
func UserPrompt(cfg Config, question, contextBlock string) string {
	return fmt.Sprintf("Pergunta: %s\n\nContexto:\n%s\n\nResponde em %s.", question, contextBlock, cfg.Locale)
}
