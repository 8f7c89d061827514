package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daywise-ai/daywise/internal/api/handlers"
	"github.com/daywise-ai/daywise/internal/config"
	"github.com/daywise-ai/daywise/internal/openai"
	"github.com/daywise-ai/daywise/internal/server"
	"github.com/daywise-ai/daywise/internal/service"
	"github.com/daywise-ai/daywise/internal/store"
	"github.com/daywise-ai/daywise/internal/telemetry"
	openaiapi "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the daywise API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.HasSentry() {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	// Without an API key the server still runs: the semantic gate degrades,
	// answers come from the mock path, and evaluations return the default
	// verdict.
	var embedder store.Embedder
	var completer service.Completer
	if cfg.HasOpenAI() {
		client := openai.NewClientWithConfig(openai.Config{
			APIKey:          cfg.OpenAIAPIKey,
			EmbeddingModel:  openaiapi.EmbeddingModel(cfg.EmbeddingModel),
			CompletionModel: cfg.CompletionModel,
		})
		embedder = client
		completer = client
		log.Println("openai client configured")
	} else {
		log.Println("no OPENAI_API_KEY set, serving degraded mock responses")
	}

	dkbStore := store.NewDKBStore(embedder, store.Options{
		Capacity:      cfg.DKBCapacity,
		CacheCapacity: cfg.EmbedCacheCapacity,
		ConceptCap:    cfg.ConceptCap,
	})

	builder := service.NewContextBuilder(cfg.ContextSoftBudget)
	gate := service.NewScopeGate(dkbStore, builder, service.ScopeConfig{
		Threshold:       cfg.ScopeThreshold,
		MinContextWords: cfg.MinContextWords,
		EmbedTimeout:    cfg.EmbedTimeout,
	})
	extractor := service.NewConceptExtractor(completer, cfg.ExtractMax, cfg.ModelTimeout)

	mentorSvc := service.NewMentorService(gate, completer, extractor, dkbStore, service.MentorConfig{
		ModelTimeout: cfg.ModelTimeout,
	})
	evaluationSvc := service.NewEvaluationService(completer, cfg.ModelTimeout, cfg.MinReflectionChars)
	generator := service.NewModelDayGenerator(completer, cfg.ModelTimeout)
	curriculumSvc := service.NewCurriculumService(evaluationSvc, generator, dkbStore)

	router := server.NewRouter(server.RouterConfig{
		MentorHandler:     handlers.NewMentorHandler(mentorSvc),
		ReflectionHandler: handlers.NewReflectionHandler(evaluationSvc),
		SyllabusHandler:   handlers.NewSyllabusHandler(curriculumSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("server stopped")
	return nil
}
