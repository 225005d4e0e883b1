package main

import (
	"github.com/spf13/cobra"
)

const rootLongDesc string = `groundqa answers questions using only a small corpus of official documents.

Each document is a JSON record {id, title, url, text, embedding} in the corpus
directory. Missing embeddings are computed on first use and kept in memory.

Run using:
  groundqa serve            Serve POST /api/ask (and MCP at /mcp)
  groundqa ask "question"   Answer one question on the terminal
  groundqa chat             Interactive chat
  groundqa warm             Load and embed the corpus, then report`

const rootShortDesc string = "Grounded question answering over official sources"

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "groundqa",
		Short:        rootShortDesc,
		Long:         rootLongDesc,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file (default: ./config.yaml or ~/.config/groundqa/config.yaml)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewWarmCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}
