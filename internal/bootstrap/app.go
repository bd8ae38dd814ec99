package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/coverletters"
	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/llm"
	openai "coverletter-backend/internal/llm/openai"
	"coverletter-backend/internal/services/health"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/server"
	"coverletter-backend/internal/shared/storage/db"
	"coverletter-backend/internal/shared/storage/object"
	localstore "coverletter-backend/internal/shared/storage/object/local"
	s3store "coverletter-backend/internal/shared/storage/object/s3"
	"coverletter-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	ResumeStore object.Reader
	Extractor   *extract.ResumeExtractor
	LLM         llm.Client
	Cache       coverletters.Store
	Service     *coverletters.Service
	Handler     *coverletters.Handler
	Health      *health.Service
}

// Build prepares every dependency from cfg and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.Configure(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resumeStore, err := buildResumeStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		ResumeStore: resumeStore,
		Extractor:   extract.NewResumeExtractor(resumeStore, cfg.ResumePath),
		LLM:         llmClient,
		Cache:       buildCache(cfg, sqlDB),
		Health:      health.NewService(),
	}
	app.Service = &coverletters.Service{
		Resume: app.Extractor,
		LLM:    app.LLM,
		Store:  app.Cache,
	}
	app.Handler = coverletters.NewHandler(app.Service)
	registerHealthChecks(app)

	app.Router = server.NewRouter(cfg, server.Deps{
		CoverLetters: app.Handler,
		Health:       app.Health,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"resume_store": cfg.ResumeStoreType,
		"resume_path":  cfg.ResumePath,
		"cache":        cacheKind(app.Cache),
		"llm":          fmt.Sprintf("%T", app.LLM),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_unavailable", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, err
	}
	return sqlDB, nil
}

func buildResumeStore(ctx context.Context, cfg config.Config) (object.Reader, error) {
	switch cfg.ResumeStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		if !isDevLike(cfg.Env) {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"reason": "OPENAI_API_KEY empty"})
		return llm.PlaceholderClient{}, nil
	}
	return openai.NewResponsesClient(cfg.OpenAIAPIKey,
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithTimeout(cfg.OpenAITimeout),
	)
}

func buildCache(cfg config.Config, sqlDB *sql.DB) coverletters.Store {
	if sqlDB != nil {
		return &coverletters.PGStore{DB: sqlDB}
	}
	return coverletters.NewFileStore(cfg.CachePath, cfg.CacheStrict)
}

func registerHealthChecks(app *App) {
	key := app.Extractor.Key()
	app.Health.Register("resume", func(ctx context.Context) error {
		body, err := app.ResumeStore.Open(ctx, key)
		if err != nil {
			return err
		}
		return body.Close()
	})
	if app.DB != nil {
		app.Health.Register("database", app.DB.PingContext)
	}
}

func cacheKind(store coverletters.Store) string {
	switch s := store.(type) {
	case *coverletters.PGStore:
		return "postgres"
	case *coverletters.FileStore:
		return "file:" + s.Path()
	default:
		return fmt.Sprintf("%T", store)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
