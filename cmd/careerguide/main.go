// Command careerguide runs the resume advice HTTP service. It indexes
// uploaded resumes into a vector store and answers career questions by
// retrieving relevant passages and asking an LLM for suggestions.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/careerguide/careerguide/config"
	"github.com/careerguide/careerguide/embedding"
	"github.com/careerguide/careerguide/guide"
	"github.com/careerguide/careerguide/llm"
	"github.com/careerguide/careerguide/logging"
	"github.com/careerguide/careerguide/server"
	"github.com/careerguide/careerguide/shutdown"
	"github.com/careerguide/careerguide/vectorstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "careerguide: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (TOML)")
	flag.Parse()

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := logging.New()
	logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	log := logger.WithComponent("main")

	embedder, err := newEmbedder(cfg, log)
	if err != nil {
		return err
	}

	store, err := newStore(cfg, embedder)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	log.Info("store opened", map[string]interface{}{
		"type":      cfg.Store.Type,
		"path":      cfg.Store.Path,
		"documents": store.Len(),
	})

	ctx := context.Background()
	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		store.Close()
		return err
	}

	g := guide.New(guide.Config{
		Store:     store,
		Generator: generator,
		Logger:    logger,
		TopK:      cfg.Retrieval.TopK,
		Timeout:   cfg.GenerateTimeout(),
	})

	srv := server.New(server.Config{
		Store:  store,
		Guide:  g,
		Logger: logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	coord := shutdown.NewCoordinator(30*time.Second, logger)
	coord.Register("http-server", httpServer.Shutdown)
	if closer, ok := generator.(interface{ Close() error }); ok {
		coord.Register("llm-client", func(context.Context) error {
			return closer.Close()
		})
	}
	coord.Register("vector-store", func(context.Context) error {
		return store.Close()
	})
	coord.HandleSignals()

	log.Info("listening", map[string]interface{}{"addr": cfg.Server.Addr})
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-coord.Done()
	return coord.Err()
}

// loadConfig loads the explicit path if given, otherwise the first file
// from the standard locations, otherwise defaults.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newStore(cfg *config.Config, embedder embedding.Provider) (vectorstore.Store, error) {
	switch cfg.Store.Type {
	case "sqlite":
		return vectorstore.OpenSQLite(cfg.Store.Path, embedder)
	case "bleve":
		return vectorstore.OpenBleve(cfg.Store.Path)
	default:
		return vectorstore.OpenSnapshot(cfg.Store.Path, embedder)
	}
}

func newEmbedder(cfg *config.Config, log *logging.Logger) (embedding.Provider, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY is not set; embedding calls will fail")
		}
		return embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.Embedding.Model,
		}), nil
	case "mock":
		return embedding.NewMockEmbedder(0), nil
	default:
		if cfg.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY is not set; embedding calls will fail")
		}
		return embedding.NewGoogleEmbedder(embedding.GoogleConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.Embedding.Model,
		}), nil
	}
}

func newGenerator(ctx context.Context, cfg *config.Config, log *logging.Logger) (llm.Provider, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
		})
	case "anthropic":
		return llm.NewAnthropicProvider(llm.AnthropicConfig{
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
		})
	default:
		if cfg.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY is not set; chat requests will degrade")
		}
		return llm.NewGoogleProvider(ctx, llm.GoogleConfig{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
		})
	}
}
