package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gsheetagent/app/config"
	"gsheetagent/app/usecase"
	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/llm"
	"gsheetagent/internal/infrastructure/scriptapi"
	"gsheetagent/internal/infrastructure/store"
	"gsheetagent/internal/infrastructure/store/filesystem"
	mongorepo "gsheetagent/internal/infrastructure/store/mongodb"
)

// newUpdater wires the template directory into a ScriptUpdater. Shared by
// the server and the one-shot commands.
func newUpdater(cfg *config.Config, logger *slog.Logger) (*usecase.ScriptUpdater, error) {
	templates, err := filesystem.NewTemplateRepository(cfg.Templates.Dir)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	logger.Info("template directory ready", "path", templates.GetBasePath(), "unknown_policy", cfg.Templates.UnknownPolicy)

	return usecase.NewScriptUpdater(templates, usecase.ScriptUpdaterConfig{
		Scopes:        cfg.Script.Scopes,
		UnknownPolicy: cfg.Templates.UnknownPolicy,
		Timeout:       cfg.Script.Timeout,
	}, logger), nil
}

func newTranslator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Translator, error) {
	prompt, err := filesystem.LoadPrompt(cfg.LLM.PromptPath)
	if err != nil {
		return nil, err
	}

	translator, err := llm.New(ctx, llm.Options{
		Provider:  cfg.LLM.Provider,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	}, prompt)
	if err != nil {
		return nil, err
	}
	logger.Info("translator ready", "provider", translator.Provider(), "model", cfg.LLM.Model, "prompt", prompt.ID)
	return translator, nil
}

// openJournal connects to Mongo when MONGO_URI is set. The returned close
// func is never nil.
func openJournal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.GenerationJournal, func(context.Context), error) {
	if cfg.Mongo.URI == "" {
		logger.Info("generation journal disabled")
		return store.NopJournal{}, func(context.Context) {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to mongo", "database", cfg.Mongo.Database)

	closeFn := func(ctx context.Context) {
		logger.Info("disconnecting mongo")
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("mongo disconnect error", "err", err)
		}
	}
	journal := mongorepo.NewMongoGenerationRepo(client.Database(cfg.Mongo.Database))
	if err := journal.EnsureIndexes(connectCtx); err != nil {
		logger.Warn("generation journal indexes not created", "err", err)
	}
	return journal, closeFn, nil
}

func newProjects(cfg *config.Config) repository.ScriptProjectFactory {
	return scriptapi.NewFactory(cfg.Script.Endpoint)
}
