package config

import (
	"log"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderNone   LLMProvider = ""
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AdminUsers       []int64 `env:"ADMIN_USERS" envSeparator:":"`
	AdminsFilePath   string  `env:"ADMINS_FILE_PATH" envDefault:"data/admins.json"`
	CommandPrefix    string  `env:"ADMIN_COMMAND_PREFIX" envDefault:"!dmb"`

	// Stores
	RetortsFilePath  string `env:"RETORTS_FILE_PATH" envDefault:"data/retorts.json"`
	UnknownsFilePath string `env:"UNKNOWNS_FILE_PATH" envDefault:"data/unknowns.json"`
	BackupsDir       string `env:"BACKUPS_DIR"`
	ReadOnlyStores   bool   `env:"READ_ONLY_STORES" envDefault:"false"`

	// Conversation
	PhrasesFilePath string `env:"PHRASES_FILE_PATH"`
	BotName         string `env:"BOT_NAME" envDefault:"DMB"`
	UserName        string `env:"USER_NAME" envDefault:"Talker"`

	// Logs
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/log.jsonl"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// LLM settings, provider empty disables the answerer
	LLMProvider      LLMProvider `env:"LLM_PROVIDER"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`
	SystemPromptPath string      `env:"SYSTEM_PROMPT_PATH"`

	// Empty disables the daily report
	ReportCron string `env:"REPORT_CRON" envDefault:"0 21 * * *"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.LLMProvider = LLMProvider(strings.ToLower(strings.TrimSpace(string(cfg.LLMProvider))))
	return cfg, nil
}

func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
