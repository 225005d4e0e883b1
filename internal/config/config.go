package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. GROUNDQA_CORPUS_DIR.
const EnvPrefix = "GROUNDQA"

// OpenAIConfig holds configuration for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env" mapstructure:"api_key_env"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// CorpusConfig locates the document records.
type CorpusConfig struct {
	Dir              string `yaml:"dir" mapstructure:"dir"`
	Extension        string `yaml:"extension" mapstructure:"extension"`
	MinDimension     int    `yaml:"min_dimension" mapstructure:"min_dimension"`
	RequireDocuments bool   `yaml:"require_documents" mapstructure:"require_documents"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string       `yaml:"type" mapstructure:"type"`
	OpenAI OpenAIConfig `yaml:"openai" mapstructure:"openai"`
}

// CompletionConfig selects and configures the answer-writing model.
type CompletionConfig struct {
	Type        string       `yaml:"type" mapstructure:"type"`
	Temperature float64      `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int          `yaml:"max_tokens" mapstructure:"max_tokens"`
	OpenAI      OpenAIConfig `yaml:"openai" mapstructure:"openai"`
}

// RetrievalConfig bounds the evidence handed to the completion model.
type RetrievalConfig struct {
	MaxResults int     `yaml:"max_results" mapstructure:"max_results"`
	MinScore   float64 `yaml:"min_score" mapstructure:"min_score"`
}

// AnswerConfig controls answer wording.
type AnswerConfig struct {
	Refusal  string `yaml:"refusal" mapstructure:"refusal"`
	Language string `yaml:"language" mapstructure:"language"`
	Locale   string `yaml:"locale" mapstructure:"locale"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type" mapstructure:"type"`
	MaxSentences int    `yaml:"max_sentences" mapstructure:"max_sentences"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen       string   `yaml:"listen" mapstructure:"listen"`
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	MCP          bool     `yaml:"mcp" mapstructure:"mcp"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Debug  bool `yaml:"debug" mapstructure:"debug"`
	JSON   bool `yaml:"json" mapstructure:"json"`
	Pretty bool `yaml:"pretty" mapstructure:"pretty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus     CorpusConfig     `yaml:"corpus" mapstructure:"corpus"`
	Embedder   EmbedderConfig   `yaml:"embedder" mapstructure:"embedder"`
	Completion CompletionConfig `yaml:"completion" mapstructure:"completion"`
	Retrieval  RetrievalConfig  `yaml:"retrieval" mapstructure:"retrieval"`
	Answer     AnswerConfig     `yaml:"answer" mapstructure:"answer"`
	Summarizer SummarizerConfig `yaml:"summarizer" mapstructure:"summarizer"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// Load reads a config from path, layering it over defaults and under
// GROUNDQA_* environment variables. An empty path yields defaults plus env;
// a path that does not exist is an error.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setViperDefaults(v)
	v.SetConfigType("yaml")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/groundqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/groundqa/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	if err := Save(userPath, defaultConfig()); err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "groundqa", "config.yaml"), nil
}

func defaultOpenAI(model string, timeoutSecs int) OpenAIConfig {
	return OpenAIConfig{
		BaseURL:     "https://api.openai.com/v1",
		APIKeyEnv:   "OPENAI_API_KEY",
		Model:       model,
		TimeoutSecs: timeoutSecs,
		MaxRetries:  2,
	}
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Corpus: CorpusConfig{
			Dir:              "data",
			Extension:        ".json",
			MinDimension:     10,
			RequireDocuments: true,
		},
		Embedder: EmbedderConfig{
			Type:   "openai",
			OpenAI: defaultOpenAI("text-embedding-3-small", 30),
		},
		Completion: CompletionConfig{
			Type:        "openai",
			Temperature: 0,
			MaxTokens:   600,
			OpenAI:      defaultOpenAI("gpt-4o-mini", 60),
		},
		Retrieval:  RetrievalConfig{MaxResults: 4, MinScore: 0.12},
		Answer:     AnswerConfig{Refusal: "Não encontrei resposta nas fontes oficiais indexadas.", Language: "Português de Portugal", Locale: "pt-PT"},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 3},
		Server:     ServerConfig{Listen: ":3000", AllowOrigins: []string{"*"}, MCP: true},
		Log:        LogConfig{Pretty: true},
	}
}

// setViperDefaults registers defaultConfig() under dotted keys so every key
// is known to viper, which AutomaticEnv needs to resolve overrides.
func setViperDefaults(v *viper.Viper) {
	d := defaultConfig()

	v.SetDefault("corpus.dir", d.Corpus.Dir)
	v.SetDefault("corpus.extension", d.Corpus.Extension)
	v.SetDefault("corpus.min_dimension", d.Corpus.MinDimension)
	v.SetDefault("corpus.require_documents", d.Corpus.RequireDocuments)

	v.SetDefault("embedder.type", d.Embedder.Type)
	setOpenAIDefaults(v, "embedder.openai", d.Embedder.OpenAI)

	v.SetDefault("completion.type", d.Completion.Type)
	v.SetDefault("completion.temperature", d.Completion.Temperature)
	v.SetDefault("completion.max_tokens", d.Completion.MaxTokens)
	setOpenAIDefaults(v, "completion.openai", d.Completion.OpenAI)

	v.SetDefault("retrieval.max_results", d.Retrieval.MaxResults)
	v.SetDefault("retrieval.min_score", d.Retrieval.MinScore)

	v.SetDefault("answer.refusal", d.Answer.Refusal)
	v.SetDefault("answer.language", d.Answer.Language)
	v.SetDefault("answer.locale", d.Answer.Locale)

	v.SetDefault("summarizer.type", d.Summarizer.Type)
	v.SetDefault("summarizer.max_sentences", d.Summarizer.MaxSentences)

	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.allow_origins", d.Server.AllowOrigins)
	v.SetDefault("server.mcp", d.Server.MCP)

	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

func setOpenAIDefaults(v *viper.Viper, prefix string, o OpenAIConfig) {
	v.SetDefault(prefix+".base_url", o.BaseURL)
	v.SetDefault(prefix+".api_key_env", o.APIKeyEnv)
	v.SetDefault(prefix+".model", o.Model)
	v.SetDefault(prefix+".timeout_secs", o.TimeoutSecs)
	v.SetDefault(prefix+".max_retries", o.MaxRetries)
}

// applyConfigDefaults repairs values a hand-edited file may have zeroed.
func applyConfigDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = d.Corpus.Dir
	}
	if cfg.Corpus.Extension == "" {
		cfg.Corpus.Extension = d.Corpus.Extension
	}
	if cfg.Corpus.MinDimension <= 0 {
		cfg.Corpus.MinDimension = d.Corpus.MinDimension
	}
	if cfg.Completion.MaxTokens <= 0 {
		cfg.Completion.MaxTokens = d.Completion.MaxTokens
	}
	if cfg.Retrieval.MaxResults <= 0 {
		cfg.Retrieval.MaxResults = d.Retrieval.MaxResults
	}
	if cfg.Summarizer.MaxSentences <= 0 {
		cfg.Summarizer.MaxSentences = d.Summarizer.MaxSentences
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = d.Server.Listen
	}
	if len(cfg.Server.AllowOrigins) == 0 {
		cfg.Server.AllowOrigins = d.Server.AllowOrigins
	}
	if cfg.Embedder.Type == "openai" {
		fillOpenAI(&cfg.Embedder.OpenAI, d.Embedder.OpenAI)
	}
	if cfg.Completion.Type == "openai" {
		fillOpenAI(&cfg.Completion.OpenAI, d.Completion.OpenAI)
	}
}

func fillOpenAI(o *OpenAIConfig, d OpenAIConfig) {
	if o.BaseURL == "" {
		o.BaseURL = d.BaseURL
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = d.APIKeyEnv
	}
	if o.Model == "" {
		o.Model = d.Model
	}
	if o.TimeoutSecs == 0 {
		o.TimeoutSecs = d.TimeoutSecs
	}
}
