package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"medscribe/internal/artifacts"
	"medscribe/internal/config"
	"medscribe/internal/generate"
	"medscribe/internal/logging"
	"medscribe/internal/ocr"
	"medscribe/internal/pipeline"
	"medscribe/internal/render"
	"medscribe/internal/transcribe"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the artifact store for one command invocation and closes
// it when the command returns.
func (c *commandContext) withStore(ctx context.Context, fn func(context.Context, *config.Config, *artifacts.Store, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := artifacts.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, cfg, store, logger)
}

// withPipeline additionally wires the collaborator clients.
func (c *commandContext) withPipeline(ctx context.Context, fn func(context.Context, *config.Config, *artifacts.Store, *pipeline.Pipeline) error) error {
	return c.withStore(ctx, func(ctx context.Context, cfg *config.Config, store *artifacts.Store, logger *slog.Logger) error {
		deps := pipeline.Collaborators{
			Transcriber: transcribe.NewClient(cfg.Transcription),
			Generator:   generate.NewClient(cfg.Generation),
			Recognizer:  ocr.NewClient(cfg.OCR),
			Renderer:    render.NewRenderer(cfg.Paths.OutputDir),
		}
		p := pipeline.New(store, deps, pipeline.TimeoutsFromConfig(cfg), logger)
		return fn(ctx, cfg, store, p)
	})
}
