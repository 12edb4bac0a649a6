package routes

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/d0ughnat/Fruad-detection/internal/activity"
	"github.com/d0ughnat/Fruad-detection/internal/auth"
	"github.com/d0ughnat/Fruad-detection/internal/classifier"
	"github.com/d0ughnat/Fruad-detection/internal/config"
	"github.com/d0ughnat/Fruad-detection/internal/dashboard"
	"github.com/d0ughnat/Fruad-detection/internal/gate"
	"github.com/d0ughnat/Fruad-detection/internal/identity"
	"github.com/d0ughnat/Fruad-detection/internal/middleware"
	"github.com/d0ughnat/Fruad-detection/internal/notification"
	"github.com/d0ughnat/Fruad-detection/internal/progress"
	"github.com/d0ughnat/Fruad-detection/internal/promptchain"
	"github.com/d0ughnat/Fruad-detection/internal/session"
	"github.com/d0ughnat/Fruad-detection/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	codec, err := token.NewCodec(d.Cfg.JWTSecret, d.Cfg.SessionTTL)
	if err != nil {
		return err
	}
	sessions, err := sessionStore(d)
	if err != nil {
		return err
	}
	dashboardRepo, err := dashboardRepository(d)
	if err != nil {
		return err
	}

	var (
		identityRepo identity.Repository
		activityRepo activity.Repository
		progressRepo progress.Repository
		chainRepo    promptchain.Repository
	)
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		activityRepo = activity.NewPostgresRepository(d.DB)
		progressRepo = progress.NewPostgresRepository(d.DB)
		chainRepo = promptchain.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		activityRepo = activity.NewMemoryRepository()
		progressRepo = progress.NewMemoryRepository()
		chainRepo = promptchain.NewMemoryRepository()
	}

	validate := validator.New()
	users := identity.NewService(identityRepo)
	activitySvc := activity.NewService(activityRepo)
	authSvc := auth.NewService(users, sessions, codec, activitySvc, d.Logger)
	authority := auth.NewAuthority(codec, sessions, users, d.Logger)
	notifier := notification.NewLoggerNotifier(d.Logger)
	gemini := classifier.NewGemini(classifier.GeminiConfig{
		APIKey:   d.Cfg.Classifier.APIKey,
		Model:    d.Cfg.Classifier.Model,
		Endpoint: d.Cfg.Classifier.Endpoint,
		Timeout:  d.Cfg.Classifier.Timeout,
	}, d.Logger)

	// Middlewares
	app.Use(recover.New(recover.Config{EnableStackTrace: d.Cfg.IsDev()}))
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(d.Logger))
	app.Use(middleware.Gate(gate.DefaultPolicy(), gate.NewFastValidator(), d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	g := Guards{Session: middleware.RequireSession(authority, d.Logger)}
	if d.Cache != nil {
		g.Idempotency = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}

	api := app.Group("/api")
	RegisterAuthRoutes(api, auth.NewHandler(authSvc, auth.CookieConfig{
		Secure: d.Cfg.CookieSecure(),
		MaxAge: d.Cfg.SessionTTL,
	}, validate, d.Logger), g.Session)

	RegisterActivityRoutes(api, activity.NewHandler(activitySvc), g)
	RegisterProgressRoutes(api, progress.NewHandler(progress.NewService(progressRepo, activitySvc, d.Logger), validate), g)
	RegisterDashboardRoutes(api, dashboard.NewHandler(dashboard.NewService(dashboardRepo, activitySvc, d.Logger), validate), g)
	RegisterPromptChainRoutes(api, promptchain.NewHandler(promptchain.NewService(chainRepo, activitySvc, d.Logger), validate), g)
	RegisterClassifierRoutes(api, classifier.NewHandler(classifier.NewService(gemini, notifier, d.Logger), d.Logger), g)

	return nil
}

func sessionStore(d Deps) (session.Store, error) {
	switch d.Cfg.SessionStore {
	case config.BackendPostgres:
		if d.DB == nil {
			return nil, fmt.Errorf("session store postgres: database not connected")
		}
		return session.NewPostgresStore(d.DB), nil
	case config.BackendRedis:
		if d.Cache == nil {
			return nil, fmt.Errorf("session store redis: redis not connected")
		}
		return session.NewRedisStore(d.Cache), nil
	case config.BackendMemory, "":
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", d.Cfg.SessionStore)
	}
}

func dashboardRepository(d Deps) (dashboard.Repository, error) {
	switch d.Cfg.DashboardStore {
	case config.BackendPostgres:
		if d.DB == nil {
			return nil, fmt.Errorf("dashboard store postgres: database not connected")
		}
		return dashboard.NewPostgresRepository(d.DB), nil
	case config.BackendRedis:
		if d.Cache == nil {
			return nil, fmt.Errorf("dashboard store redis: redis not connected")
		}
		return dashboard.NewRedisRepository(d.Cache), nil
	case config.BackendMemory, "":
		return dashboard.NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown dashboard store %q", d.Cfg.DashboardStore)
	}
}
