package main

import (
	"fmt"
	"log"

	"github.com/ShayCichocki/linguist/internal/config"
	"github.com/ShayCichocki/linguist/internal/credentials"
	"github.com/ShayCichocki/linguist/internal/history"
	"github.com/ShayCichocki/linguist/internal/provider"
	"github.com/ShayCichocki/linguist/internal/runner"
	"github.com/ShayCichocki/linguist/internal/translate"
	"github.com/ShayCichocki/linguist/pkg/models"
)

// app bundles the collaborators a command needs.
type app struct {
	cfg     *config.Config
	store   *credentials.Store
	runner  *runner.Runner
	history *history.DB
	watcher *credentials.Watcher
}

type appOptions struct {
	mock      bool
	noHistory bool
	watch     bool
}

// newApp wires config into credentials, provider clients, the runner and
// the history store.
func newApp(cfg *config.Config, opts appOptions) (*app, error) {
	vault, err := credentials.NewVault(credentialLoader(cfg))
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	var storeOpts []credentials.StoreOption
	if cfg.Providers.Claude.UseBedrock {
		storeOpts = append(storeOpts, credentials.WithAmbient(models.ProviderClaude))
	}
	store := credentials.NewStore(vault, storeOpts...)

	a := &app{
		cfg:   cfg,
		store: store,
		runner: runner.New(runner.RequiredConfig{
			Registry:    buildRegistry(cfg),
			Credentials: store,
		},
			runner.WithMock(cfg.Runner.UseMock || opts.mock),
			runner.WithMaxParallel(cfg.Runner.MaxParallel),
			runner.WithRequestTimeout(cfg.Runner.RequestTimeout),
		),
	}

	if cfg.History.Enabled && !opts.noHistory {
		var db *history.DB
		if cfg.History.Path == "" {
			db, err = history.OpenDefault()
		} else {
			db, err = history.OpenAndMigrate(cfg.History.Path)
		}
		if err != nil {
			log.Printf("[history] disabled: %v", err)
		} else {
			a.history = db
		}
	}

	if opts.watch {
		if files := credentialFiles(cfg); len(files) > 0 {
			w, err := credentials.Watch(vault, files...)
			if err != nil {
				log.Printf("[credentials] not watching %v: %v", files, err)
			} else {
				a.watcher = w
			}
		}
	}

	return a, nil
}

// Close releases the history database and the credential watcher.
func (a *app) Close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.history != nil {
		a.history.Close()
	}
}

// record stores a completed run. History failures never fail the command.
func (a *app) record(build func() (*history.Entry, error)) {
	if a.history == nil {
		return
	}
	e, err := build()
	if err == nil {
		err = a.history.Save(e)
	}
	if err != nil {
		log.Printf("[history] save: %v", err)
	}
}

// credentialLoader reads provider keys from, in priority order: the process
// environment, the dotenv file, the credentials file and the config files.
func credentialLoader(cfg *config.Config) credentials.Loader {
	keys := credentials.KeyNames()

	loaders := []credentials.Loader{credentials.EnvLoader(keys...)}
	if cfg.Credentials.Dotenv != "" {
		loaders = append(loaders, credentials.DotenvLoader(cfg.Credentials.Dotenv, keys...))
	}
	if cfg.Credentials.File != "" {
		loaders = append(loaders, credentials.FileLoader(cfg.Credentials.File, keys...))
	}

	fromConfig := map[string]string{}
	for p, key := range cfg.APIKeys() {
		fromConfig[credentials.DefaultKeys[p]] = key
	}
	loaders = append(loaders, credentials.StaticLoader(fromConfig))

	return credentials.Chain(loaders...)
}

func credentialFiles(cfg *config.Config) []string {
	var files []string
	if cfg.Credentials.Dotenv != "" {
		files = append(files, cfg.Credentials.Dotenv)
	}
	if cfg.Credentials.File != "" {
		files = append(files, cfg.Credentials.File)
	}
	return files
}

// buildRegistry creates one client per concrete provider. Network clients
// share a retrying HTTP client.
func buildRegistry(cfg *config.Config) *provider.Registry {
	policy := provider.RetryPolicy{
		MaxAttempts: cfg.Runner.Retry.MaxAttempts,
		BaseDelay:   cfg.Runner.Retry.BaseDelay,
	}
	hc := provider.NewHTTPClient(nil, policy)

	claude := cfg.Providers.Claude
	return provider.NewRegistry(
		provider.NewOpenAIClient(cfg.Providers.OpenAI.BaseURL, hc),
		provider.NewClaudeClient(provider.ClaudeConfig{
			BaseURL:    claude.BaseURL,
			HTTPClient: hc,
			UseBedrock: claude.UseBedrock,
			AWSRegion:  claude.AWSRegion,
			AWSProfile: claude.AWSProfile,
		}),
		provider.NewGeminiClient(cfg.Providers.Gemini.BaseURL, hc),
		provider.NewLocalClient(translate.New(cfg.Providers.Local.BaseURL, cfg.Providers.Local.MinConfidence)),
	)
}
