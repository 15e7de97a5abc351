// Package bootstrap wires configuration, adapters and services together.
package bootstrap

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"digest_server/adapter/out/delivery"
	"digest_server/adapter/out/llm"
	"digest_server/adapter/out/provider/gmail"
	"digest_server/config"
	"digest_server/core/port/out"
	"digest_server/core/service/classify"
	"digest_server/core/service/extract"
	"digest_server/core/service/pipeline"
	"digest_server/core/service/summarize"
	"digest_server/pkg/apperr"
)

// NewPipeline builds a fully wired digest pipeline from configuration.
func NewPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, apperr.ConfigError("OPENAI_API_KEY is required")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, apperr.ConfigError("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	// Mail provider
	store := gmail.NewTokenStore(cfg.TokenFile)
	token, err := store.Load()
	if err != nil {
		return nil, err
	}
	oauthCfg := gmail.NewOAuthConfig(&gmail.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	provider, err := gmail.NewProvider(ctx, store.TokenSource(ctx, oauthCfg, token))
	if err != nil {
		return nil, err
	}

	// Model client
	llmClient := llm.NewClient(llm.ClientConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		Timeout:     time.Duration(cfg.LLMTimeoutSec) * time.Second,
	})

	// Core services
	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()
	classifier := classify.NewBatchClassifier(classify.NewClassifier(llmClient), cfg.ClassifyWorkers, zlog)
	generator := summarize.NewGenerator(llmClient, cfg.SummaryWorkers)

	return pipeline.New(
		provider,
		provider,
		extract.NewExtractor(),
		classifier,
		generator,
		buildSinks(cfg, provider),
		pipeline.Config{
			MaxMessages: cfg.MaxMessages,
			MarkRead:    cfg.MarkRead,
		},
	), nil
}

func buildSinks(cfg *config.Config, sender out.MailSender) []out.DeliverySink {
	var sinks []out.DeliverySink
	for _, mode := range cfg.DeliveryModes {
		switch mode {
		case "console":
			sinks = append(sinks, delivery.NewConsoleSink())
		case "email":
			sinks = append(sinks, delivery.NewEmailSink(sender, cfg.DeliveryTo))
		case "file":
			sinks = append(sinks, delivery.NewFileSink(cfg.OutputDir))
		}
	}
	return sinks
}
