package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"taxsarthi/internal/config"
	"taxsarthi/internal/domain"
	"taxsarthi/internal/handler"
	"taxsarthi/internal/llm"
	"taxsarthi/internal/llm/claude"
	"taxsarthi/internal/llm/gemini"
	"taxsarthi/internal/llm/openai"
	"taxsarthi/internal/port"
	"taxsarthi/internal/repository/postgres"
	"taxsarthi/internal/router"
	"taxsarthi/internal/rulegen"
	"taxsarthi/internal/rulestore"
	"taxsarthi/internal/service"
	s3storage "taxsarthi/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func registerProviders() {
	llm.RegisterProvider("gemini", func(cfg *config.LLMProviderConfig) (port.ChatModel, error) {
		return gemini.NewChatModel(cfg), nil
	})
	llm.RegisterProvider("openai", func(cfg *config.LLMProviderConfig) (port.ChatModel, error) {
		return openai.NewChatModel(cfg), nil
	})
	llm.RegisterProvider("claude", func(cfg *config.LLMProviderConfig) (port.ChatModel, error) {
		return claude.NewChatModel(cfg), nil
	})
}

// buildChatModel assembles the fallback chain from the configured providers.
// Providers without an API key are skipped; with none configured the result
// is nil and the AI features degrade gracefully.
func buildChatModel(cfg *config.LLMConfig) port.ChatModel {
	var models []port.ChatModel
	var names []string
	for _, pc := range cfg.Providers() {
		if pc.APIKey == "" {
			continue
		}
		model, err := llm.NewChatModel(pc)
		if err != nil {
			log.Printf("skipping chat model provider %s: %v", pc.Provider, err)
			continue
		}
		models = append(models, model)
		names = append(names, pc.Provider)
	}
	if len(models) == 0 {
		log.Printf("no chat model providers configured; chat and AI insights are disabled")
		return nil
	}
	log.Printf("chat model fallback chain: %v", names)
	return llm.NewFallbackChatModel(models, names)
}

// seedRules writes the builtin rule documents for the default financial
// year when no documents exist yet, so a fresh deployment serves requests
// without an admin generation step.
func seedRules(store *rulestore.Store, financialYear string) error {
	for _, regime := range []domain.Regime{domain.RegimeOld, domain.RegimeNew} {
		if _, err := store.Get(regime, financialYear); err == nil {
			continue
		}
		if err := store.Save(rulegen.BuiltinRuleSet(regime, financialYear)); err != nil {
			return err
		}
	}
	return nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Optional history store
	var db *sqlx.DB
	var analysisRepo port.AnalysisRepository
	if cfg.DB.Enabled {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		analysisRepo = postgres.NewAnalysisRepo(db)
	}

	// Rule documents
	store := rulestore.NewStore(cfg.Rules.Dir)
	if err := seedRules(store, cfg.Rules.DefaultFY); err != nil {
		return fmt.Errorf("failed to seed rule documents: %w", err)
	}

	// Chat model fallback chain
	registerProviders()
	chatModel := buildChatModel(&cfg.LLM)

	// Optional statement archive
	var objectStorage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		objectStorage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	generator := rulegen.NewGenerator(store, chatModel, cfg.Rules.AllowLivesite, cfg.Rules.FetchTimeout)
	analysisSvc := service.NewAnalysisService(store, analysisRepo)
	ruleSvc := service.NewRuleService(store, generator)
	chatSvc := service.NewChatService(chatModel)
	transactionSvc := service.NewTransactionService(chatModel, objectStorage, cfg.Upload.MaxFileSizeMB)

	// Initialize handlers
	analysisH := handler.NewAnalysisHandler(analysisSvc, cfg.Rules.DefaultFY)
	ruleH := handler.NewRuleHandler(ruleSvc, cfg.Rules.DefaultFY)
	chatH := handler.NewChatHandler(chatSvc)
	transactionH := handler.NewTransactionHandler(transactionSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, analysisH, ruleH, chatH, transactionH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
