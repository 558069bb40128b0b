// Package app wires the stores, skills and engine together from configuration.
// Both the Telegram bot and the local CLI start from here.
package app

import (
	"fmt"
	"log/slog"

	"dmb-chatter/internal/auth"
	"dmb-chatter/internal/brain"
	"dmb-chatter/internal/command"
	"dmb-chatter/internal/config"
	"dmb-chatter/internal/dialog"
	"dmb-chatter/internal/llm"
	"dmb-chatter/internal/phrases"
	"dmb-chatter/internal/records"
	"dmb-chatter/internal/session"
	"dmb-chatter/internal/skills"
	"dmb-chatter/internal/storage"
)

type App struct {
	Config   *config.Config
	Phrases  phrases.Phrases
	Retorts  *records.Retorts
	Unknowns *records.Unknowns
	Admins   *auth.Service
	Recorder storage.Recorder
	Skills   *skills.Dispatcher
	Engine   *brain.Engine
}

type options struct {
	answerer skills.Answerer
	noLLM    bool
}

type Option func(*options)

// WithAnswerer replaces the configured LLM answerer.
func WithAnswerer(a skills.Answerer) Option {
	return func(o *options) { o.answerer = a }
}

// WithoutLLM skips the LLM answerer even when a provider is configured.
func WithoutLLM() Option {
	return func(o *options) { o.noLLM = true }
}

// Stores opens only the collections, for offline maintenance.
func Stores(cfg *config.Config, log *slog.Logger) (*records.Retorts, *records.Unknowns, error) {
	fileOpts := []storage.Option{storage.WithReadOnly(cfg.ReadOnlyStores), storage.WithLogger(log)}
	if cfg.BackupsDir != "" {
		fileOpts = append(fileOpts, storage.WithBackupDir(cfg.BackupsDir))
	}
	rf, err := storage.NewJSONFile[records.Retort](cfg.RetortsFilePath, fileOpts...)
	if err != nil {
		return nil, nil, err
	}
	uf, err := storage.NewJSONFile[records.Unknown](cfg.UnknownsFilePath, fileOpts...)
	if err != nil {
		return nil, nil, err
	}
	retorts, err := records.OpenRetorts(rf, records.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	unknowns, err := records.OpenUnknowns(uf, records.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return retorts, unknowns, nil
}

// AdminRegistry opens the admin list: env ids merged with the admins file.
func AdminRegistry(cfg *config.Config, log *slog.Logger) (*auth.Service, error) {
	var repo auth.Repository
	if cfg.AdminsFilePath != "" {
		fileOpts := []storage.Option{storage.WithReadOnly(cfg.ReadOnlyStores), storage.WithLogger(log)}
		if cfg.BackupsDir != "" {
			fileOpts = append(fileOpts, storage.WithBackupDir(cfg.BackupsDir))
		}
		r, err := auth.NewFileRepository(cfg.AdminsFilePath, fileOpts...)
		if err != nil {
			return nil, err
		}
		repo = r
	}
	return auth.NewWithRepo(repo, cfg.AdminUsers)
}

func New(cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p, err := phrases.Load(cfg.PhrasesFilePath)
	if err != nil {
		return nil, err
	}
	retorts, unknowns, err := Stores(cfg, log)
	if err != nil {
		return nil, err
	}
	admins, err := AdminRegistry(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("admins: %w", err)
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Warn("turn log disabled", "path", cfg.LogFilePath, "err", err)
		} else {
			rec = fr
		}
	}

	answerer := o.answerer
	if answerer == nil && !o.noLLM {
		answerer, err = newAnswerer(cfg)
		if err != nil {
			return nil, err
		}
	}

	protocol := dialog.NewProtocol(p)
	d := skills.NewDispatcher(log)
	d.Register(
		skills.NewAdmin(command.NewParser(cfg.CommandPrefix), retorts, unknowns, d, p, log),
		skills.NewQuestions(protocol),
		skills.NewGreetings(p),
		skills.NewPrompts(protocol, p),
		skills.NewRetorts(retorts),
		skills.NewUnknowns(unknowns, answerer, p, log),
	)

	engineOpts := []brain.Option{brain.WithLogger(log)}
	if rec != nil {
		engineOpts = append(engineOpts, brain.WithRecorder(rec))
	}
	engine := brain.New(session.NewManager(cfg.BotName, cfg.UserName), d, p, engineOpts...)

	log.Info("stores loaded",
		"retorts", retorts.Count(),
		"unknowns", unknowns.Count(),
		"admins", len(admins.List()),
		"read_only", cfg.ReadOnlyStores,
		"llm", string(cfg.LLMProvider),
	)
	return &App{
		Config:   cfg,
		Phrases:  p,
		Retorts:  retorts,
		Unknowns: unknowns,
		Admins:   admins,
		Recorder: rec,
		Skills:   d,
		Engine:   engine,
	}, nil
}

// newAnswerer returns a nil interface when no provider is configured.
func newAnswerer(cfg *config.Config) (skills.Answerer, error) {
	client, err := llm.NewFactory(cfg).CreateClient(cfg.LLMProvider)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	if client == nil {
		return nil, nil
	}
	prompt, err := llm.LoadSystemPrompt(cfg.SystemPromptPath, cfg.BotName)
	if err != nil {
		return nil, err
	}
	return llm.NewAnswerer(client, prompt), nil
}
