package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/middleware"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/logger"
	corsmiddleware "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/middleware/requestid"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Users       *UserHandler
	Courses     *CourseHandler
	Tasks       *TaskHandler
	Results     *ResultHandler
	Requests    *RequestHandler
	Chat        *ChatHandler
	Submissions *SubmissionHandler
	Metrics     *service.MetricsService
}

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(cfg *config.Config, logr *zap.Logger, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(h.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/users", h.Users.List)
		api.PUT("/users/:id", h.Users.Update)
		api.DELETE("/users/:id/courses/:courseId", h.Users.RemoveFromCourse)
		api.POST("/register_user", h.Users.Register)
		api.POST("/recover_password", h.Users.RecoverPassword)

		api.GET("/courses", h.Courses.List)
		api.POST("/courses", h.Courses.Create)
		api.GET("/courses/:id/results/export", h.Results.Export)

		api.GET("/tasks", h.Tasks.List)
		api.POST("/tasks", h.Tasks.Create)
		api.PATCH("/tasks/:id/timer", h.Tasks.StartTimer)

		api.GET("/results", h.Results.List)
		api.POST("/results", h.Results.Create)
		api.PATCH("/results/:id", h.Results.UpdateGrade)

		api.GET("/requests", h.Requests.List)
		api.POST("/requests", h.Requests.Create)
		api.POST("/requests/:id/approve", h.Requests.Approve)

		api.GET("/messages", h.Chat.History)
		api.POST("/messages", h.Chat.Send)

		api.POST("/submissions", h.Submissions.Submit)
	}

	return r
}
