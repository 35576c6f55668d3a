// Package wire provides dependency injection for the quitplan application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	cliadapter "github.com/example/quitplan/internal/adapters/cli"
	"github.com/example/quitplan/internal/adapters/rest"
	"github.com/example/quitplan/internal/adapters/session"
	"github.com/example/quitplan/internal/adapters/sqlite"
	"github.com/example/quitplan/internal/app"
	"github.com/example/quitplan/internal/config"
	"github.com/example/quitplan/internal/db"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/ports/secondary"
)

var (
	cfg     *config.Config
	cfgOnce sync.Once

	planService        primary.PlanService
	stageService       primary.StageService
	taskService        primary.TaskService
	progressionService primary.ProgressionService
	ratingService      primary.RatingService
	logService         primary.LogService
	once               sync.Once
)

// Config returns the process configuration, loaded once.
func Config() *config.Config {
	cfgOnce.Do(func() { cfg = config.Load() })
	return cfg
}

// PlanService returns the singleton PlanService instance.
func PlanService() primary.PlanService {
	once.Do(initServices)
	return planService
}

// StageService returns the singleton StageService instance.
func StageService() primary.StageService {
	once.Do(initServices)
	return stageService
}

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	once.Do(initServices)
	return taskService
}

// ProgressionService returns the singleton ProgressionService instance.
func ProgressionService() primary.ProgressionService {
	once.Do(initServices)
	return progressionService
}

// RatingService returns the singleton RatingService instance.
func RatingService() primary.RatingService {
	once.Do(initServices)
	return ratingService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()

	database, err := db.Open(c.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Audit trail first so every repository can record its writes
	logRepo := sqlite.NewAuditLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(logRepo)

	planRepo := sqlite.NewPlanRepository(database, logWriter)
	stageRepo := sqlite.NewStageRepository(database, logWriter)
	taskRepo := sqlite.NewTaskRepository(database, logWriter)
	ratingRepo := sqlite.NewRatingRepository(database, logWriter)

	planService = app.NewPlanService(planRepo)
	stageService = app.NewStageService(planRepo, stageRepo, taskRepo)
	taskService = app.NewTaskService(planRepo, stageRepo, taskRepo, nil)
	progressionService = app.NewProgressionService(planRepo, stageRepo, taskRepo)
	ratingService = app.NewRatingService(planRepo, stageRepo, ratingRepo, newSessionStore(c), c.RatingSessionTTL)
	logService = app.NewLogService(logRepo)
}

// newSessionStore uses Redis when REDIS_URL is set and reachable,
// otherwise an in-process store.
func newSessionStore(c *config.Config) secondary.SessionStore {
	if c.RedisURL == "" {
		return session.NewMemoryStore()
	}
	store, err := session.NewRedisStore(context.Background(), c.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, using in-memory rating sessions", "error", err)
		return session.NewMemoryStore()
	}
	return store
}

// Router returns the REST API engine over the singleton services.
func Router() *gin.Engine {
	once.Do(initServices)
	c := Config()
	if c.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return rest.NewRouter(rest.Services{
		Plans:       planService,
		Stages:      stageService,
		Tasks:       taskService,
		Progression: progressionService,
		Ratings:     ratingService,
		Logs:        logService,
	}, rest.Options{
		JWTSecret:  []byte(c.JWTSecret),
		CORSOrigin: c.CORSOrigin,
	})
}

// PlanAdapter returns a new PlanAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func PlanAdapter() *cliadapter.PlanAdapter {
	return PlanAdapterWithOutput(os.Stdout)
}

// PlanAdapterWithOutput returns a new PlanAdapter writing to the given output.
func PlanAdapterWithOutput(out io.Writer) *cliadapter.PlanAdapter {
	once.Do(initServices)
	return cliadapter.NewPlanAdapter(planService, out)
}

// ProgressAdapter returns a new ProgressAdapter writing to stdout.
func ProgressAdapter() *cliadapter.ProgressAdapter {
	return ProgressAdapterWithOutput(os.Stdout)
}

// ProgressAdapterWithOutput returns a new ProgressAdapter writing to the given output.
func ProgressAdapterWithOutput(out io.Writer) *cliadapter.ProgressAdapter {
	once.Do(initServices)
	return cliadapter.NewProgressAdapter(progressionService, taskService, out)
}
