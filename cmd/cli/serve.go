package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/triagegrid/triagegrid/internal/board"
	"github.com/triagegrid/triagegrid/internal/config"
	"github.com/triagegrid/triagegrid/internal/controllers"
	"github.com/triagegrid/triagegrid/internal/notify"
	"github.com/triagegrid/triagegrid/internal/server"
	"github.com/triagegrid/triagegrid/internal/store"
	"github.com/triagegrid/triagegrid/pkg/classify"
	"github.com/triagegrid/triagegrid/pkg/llm"
	"github.com/triagegrid/triagegrid/pkg/llm/anthropic"
	"github.com/triagegrid/triagegrid/pkg/llm/gemini"
	"github.com/triagegrid/triagegrid/pkg/llm/openai"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the triage grid server",
		Long:  `Start the HTTP server hosting the grid UI and the classification API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

func runServe() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	model, err := buildLanguageModel(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to construct language model provider")
	}

	taxonomy, err := classify.LoadTaxonomy()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load taxonomy")
	}

	classifyClient := classify.NewClient(classify.ClientDependencies{
		Model:    model,
		Taxonomy: taxonomy,
	})

	pipeline := classify.NewPipeline(classify.PipelineDependencies{
		Client:  classifyClient,
		Mode:    classify.Mode(cfg.PipelineMode),
		Timeout: cfg.RequestTimeout,
	})

	rowStore := store.New(cfg.DefaultRows)
	hub := notify.NewHub()

	boardService := board.NewService(board.ServiceDependencies{
		Store:    rowStore,
		Pipeline: pipeline,
		Hub:      hub,
	})

	boardController := controllers.NewBoardController(controllers.BoardControllerDependencies{
		BoardService: boardService,
	})

	app := server.NewHTTPServer(server.HTTPServerDependencies{
		BoardController: boardController,
	})

	log.Info().
		Str("address", cfg.HTTPAddress).
		Str("model", model.ID()).
		Str("pipeline_mode", cfg.PipelineMode).
		Int("default_rows", cfg.DefaultRows).
		Msg("Starting triage grid server")

	if err := app.Listen(cfg.HTTPAddress, fiber.ListenConfig{
		GracefulContext:       ctx,
		DisableStartupMessage: true,
	}); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}

	log.Info().Msg("Triage grid server stopped")
	return nil
}

func buildLanguageModel(ctx context.Context, cfg *config.Config) (llm.LanguageModel, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.Model), nil
	case "anthropic":
		return anthropic.New(cfg.AnthropicAPIKey, cfg.Model), nil
	case "gemini":
		return gemini.New(ctx, cfg.GeminiAPIKey, cfg.Model)
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
