package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"groundqa/internal/tui"
)

const chatLongDesc string = `Open an interactive chat over the corpus.

The corpus is loaded before the chat opens and its overview is shown in the
header. Logs are discarded unless --debug is set, in which case they are
written to groundqa-debug.log.`

const chatShortDesc string = "Interactive chat"

func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			var logOut io.Writer = io.Discard
			if debug {
				f, err := tea.LogToFile("groundqa-debug.log", "")
				if err != nil {
					return fmt.Errorf("opening debug log: %w", err)
				}
				defer f.Close()
				logOut = f
			}

			a, err := newApp(cmd, logOut)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "A preparar o corpus…")
			overview, err := a.service.Overview(cmd.Context())
			if err != nil {
				return fmt.Errorf("warming corpus: %w", err)
			}

			m := tui.New(a.service, overview)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	return cmd
}
