// Package rest exposes the quit-plan services over a gin JSON API.
package rest

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/example/quitplan/internal/ctxutil"
	"github.com/example/quitplan/internal/ports/primary"
)

// Services bundles the primary ports the API serves.
type Services struct {
	Plans       primary.PlanService
	Stages      primary.StageService
	Tasks       primary.TaskService
	Progression primary.ProgressionService
	Ratings     primary.RatingService
	Logs        primary.LogService
}

// Options configures the router.
type Options struct {
	JWTSecret  []byte
	CORSOrigin string
}

// NewRouter builds the gin engine with middleware and routes registered.
func NewRouter(svc Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	if opts.CORSOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{opts.CORSOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", SessionHeader},
			ExposeHeaders:    []string{"Content-Length", SessionHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	registerRoutes(r, &handlers{svc: svc}, opts.JWTSecret)
	return r
}

// registerRoutes wires every endpoint onto r.
func registerRoutes(r *gin.Engine, h *handlers, secret []byte) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/")
	auth.Use(AuthMiddleware(secret))

	coach := RequireRole(ctxutil.RoleCoach, ctxutil.RoleAdmin)
	user := RequireRole(ctxutil.RoleUser)

	// Stages
	auth.GET("/stages/plan/:planId", h.listStages)
	auth.GET("/stages/plan/:planId/next-number", h.nextStageNumber)
	auth.POST("/stages", coach, h.createStage)
	auth.POST("/stages/validate", coach, h.validateStage)
	auth.POST("/stages/import", coach, h.importStages)
	auth.DELETE("/stages/:id", coach, h.deleteStage)

	// Tasks
	auth.GET("/tasks/stage/:stageId", h.listTasks)
	auth.POST("/tasks", coach, h.createTask)
	auth.PUT("/tasks/:id", coach, h.updateTask)
	auth.DELETE("/tasks/:id", coach, h.deleteTask)
	auth.POST("/tasks/:id/complete", user, h.completeTask)

	// Plans
	auth.POST("/quitPlan/request", user, h.requestPlan)
	auth.PUT("/quitPlan/:id/approve", coach, h.approvePlan)
	auth.PUT("/quitPlan/:id/reject", coach, h.rejectPlan)
	auth.POST("/quitPlan", coach, h.createPlan)
	auth.GET("/quitPlan", h.listPlans)
	auth.GET("/quitPlan/:id", h.getPlan)

	// Progression
	auth.GET("/quitPlan/:id/progress", h.getProgression)
	auth.POST("/quitPlan/:id/advance", user, h.advance)

	// Rating
	auth.GET("/quitPlan/:id/rating-prompt", user, SessionID(), h.checkPrompt)
	auth.POST("/quitPlan/:id/rating-prompt/dismiss", user, SessionID(), h.dismissPrompt)
	auth.POST("/feedback", user, SessionID(), h.submitFeedback)

	// Audit
	auth.GET("/logs", coach, h.listLogs)
}
