package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"groundqa/internal/answer"
	"groundqa/internal/completion"
	"groundqa/internal/config"
	"groundqa/internal/corpus"
	"groundqa/internal/embedding"
	"groundqa/internal/logger"
	"groundqa/internal/retriever"
	"groundqa/internal/service"
	"groundqa/internal/summarizer"
)

// app is the assembled process: config, logger and the request path.
type app struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	service *service.RAGServiceImpl
}

// newApp loads configuration from the command's persistent flags and wires
// every component. Logs go to logOut.
func newApp(cmd *cobra.Command, logOut io.Writer) (*app, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not get config flag: %w", err)
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, fmt.Errorf("could not get debug flag: %w", err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(
		logger.WithWriter(logOut),
		logger.WithDebug(debug || cfg.Log.Debug),
		logger.WithJSON(cfg.Log.JSON),
		logger.WithPretty(cfg.Log.Pretty),
	)

	svc, err := buildService(cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: log, service: svc}, nil
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

func buildService(cfg *config.AppConfig, log *slog.Logger) (*service.RAGServiceImpl, error) {
	emb, err := embedding.New(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	comp, err := completion.New(cfg.Completion)
	if err != nil {
		return nil, err
	}
	sum, err := summarizer.New(cfg.Summarizer)
	if err != nil {
		return nil, err
	}

	cache := corpus.NewCache(
		corpus.NewDirSource(cfg.Corpus.Dir, cfg.Corpus.Extension),
		emb,
		cfg.Corpus.MinDimension,
		log.With("component", "corpus"),
	)
	ret := retriever.New(retriever.Options{
		MaxResults:   cfg.Retrieval.MaxResults,
		MinScore:     cfg.Retrieval.MinScore,
		MinDimension: cfg.Corpus.MinDimension,
	}, log.With("component", "retriever"))
	synth := answer.NewSynthesizer(comp, answer.Config{
		Refusal:     cfg.Answer.Refusal,
		Language:    cfg.Answer.Language,
		Locale:      cfg.Answer.Locale,
		Temperature: cfg.Completion.Temperature,
		MaxTokens:   cfg.Completion.MaxTokens,
	}, log.With("component", "answer"))

	log.Debug("assembled request path",
		"corpus_dir", cfg.Corpus.Dir,
		"embedder", emb.Name(),
		"completer", comp.Name(),
	)

	return service.NewRAGService(cache, emb, ret, synth, sum, service.Options{
		RequireDocuments:    cfg.Corpus.RequireDocuments,
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
	}, log), nil
}
