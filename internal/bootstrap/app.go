package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"careerprep-backend/internal/assessments"
	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/documents"
	"careerprep-backend/internal/jobs"
	"careerprep-backend/internal/reports"
	"careerprep-backend/internal/resumes"
	"careerprep-backend/internal/services/health"
	"careerprep-backend/internal/shared/config"
	"careerprep-backend/internal/shared/server"
	"careerprep-backend/internal/shared/server/middleware"
	"careerprep-backend/internal/shared/storage/db"
	"careerprep-backend/internal/shared/storage/object"
	localstore "careerprep-backend/internal/shared/storage/object/local"
	s3store "careerprep-backend/internal/shared/storage/object/s3"
	"careerprep-backend/internal/shared/telemetry"
	"careerprep-backend/internal/skillcache"
	"careerprep-backend/internal/transcription"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Store   object.ObjectStore
	Backend *backend.Client

	DocumentsService     *documents.Service
	SkillsService        *skillcache.Service
	ResumesService       *resumes.Service
	AssessmentsService   *assessments.Service
	ReportsService       *reports.Service
	JobsService          *jobs.Service
	TranscriptionService *transcription.Service
	HealthService        *health.Service
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Backend: backend.New(backend.Config{
			BaseURL:       cfg.BackendBaseURL,
			Token:         cfg.BackendAPIToken,
			Timeout:       cfg.BackendTimeout,
			TranscribeURL: cfg.TranscribeURL,
			Breaker:       backend.DefaultBreakerSettings(),
		}),
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Health: app.HealthService,
		Handlers: []server.RouteRegistrar{
			documents.NewHandler(app.DocumentsService),
			skillcache.NewHandler(app.SkillsService),
			resumes.NewHandler(app.ResumesService),
			assessments.NewHandler(app.AssessmentsService),
			reports.NewHandler(app.ReportsService),
			jobs.NewHandler(app.JobsService),
			transcription.NewHandler(app.TranscriptionService),
		},
		Limiter: middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Shutdown stops background parse jobs and countdowns, then closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.ResumesService.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("resume jobs: %w", err))
	}
	if err := a.AssessmentsService.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("assessments: %w", err))
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "err": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	cfg := app.Config

	var (
		docRepo   documents.Repo
		skillRepo skillcache.Repo
		draftRepo resumes.DraftRepo
		jobRepo   resumes.JobRepo
	)
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		skillRepo = &skillcache.PGRepo{DB: app.DB}
		draftRepo = &resumes.PGDraftRepo{DB: app.DB}
		jobRepo = &resumes.PGJobRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		skillRepo = skillcache.NewMemoryRepo()
		draftRepo = resumes.NewMemoryDraftRepo()
		jobRepo = resumes.NewMemoryJobRepo()
	}

	app.DocumentsService = &documents.Service{
		Store:    app.Store,
		Repo:     docRepo,
		MaxBytes: cfg.UploadMaxBytes,
	}
	app.SkillsService = skillcache.NewService(skillRepo)

	app.ResumesService = &resumes.Service{
		Drafts:     draftRepo,
		Jobs:       jobRepo,
		Documents:  app.DocumentsService,
		Skills:     app.SkillsService,
		ParseMode:  cfg.UploadParseMode,
		ParseDelay: cfg.UploadParseDelay,
	}
	if strings.TrimSpace(cfg.BackendBaseURL) != "" {
		app.ResumesService.Analyzer = app.Backend
	}

	app.AssessmentsService = &assessments.Service{
		Backend:            app.Backend,
		Skills:             app.SkillsService,
		Policy:             assessments.ParsePolicy(cfg.UnansweredPolicy),
		TimeLimit:          cfg.AssessmentTimeLimit,
		QuestionCount:      cfg.AssessmentQuestions,
		RetryBaseDelay:     cfg.RetryBaseDelay,
		AutoSubmitOnExpiry: cfg.AutoSubmitOnExpiry,
	}
	app.ReportsService = &reports.Service{
		Sessions: app.AssessmentsService,
		Analyzer: app.Backend,
		Skills:   app.SkillsService,
		Store:    app.Store,
	}
	app.JobsService = &jobs.Service{Backend: app.Backend, Skills: app.SkillsService}
	app.TranscriptionService = &transcription.Service{
		Primary:  app.Backend,
		Fallback: transcription.BrowserFallback{},
	}
	app.HealthService = health.NewService(app.DB, app.Backend.BreakerState)
}
