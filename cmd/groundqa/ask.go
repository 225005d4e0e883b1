package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"groundqa/internal/cliui"
)

type askCommander struct {
	jsonOut bool
}

const askLongDesc string = `Answer one question from the corpus and print the answer with its sources.

Sources marked ● are cited in the answer; ○ were offered as context only.

Example:
  groundqa ask "Quando se paga o IMI?"
  groundqa ask --json "Quando se paga o IMI?"`

const askShortDesc string = "Answer a single question"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")

			ans, err := a.service.Ask(cmd.Context(), question)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cmder.jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ans)
			}
			fmt.Fprintf(out, "\n%s %s\n\n", cliui.HeaderStyle.Render("Pergunta:"), cliui.AccentStyle.Render(question))
			fmt.Fprintln(out, cliui.RenderAnswer(ans, terminalWidth()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print the answer as JSON")

	return cmd
}

// terminalWidth returns the stdout width, or 0 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
