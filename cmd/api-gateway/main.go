package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	_ "github.com/xasanboymatvafayev/it-ustoz-sub000/api/swagger"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/ai"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/handler"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/mailer"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/repository"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/cache"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/database"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/export"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/logger"
)

// @title IT-Ustoz API
// @version 0.1.0
// @description Learning platform backend with AI grading and course chat
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	resultRepo := repository.NewResultRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService(nil)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	validate := validator.New()
	mail := mailer.New(cfg.Email, logr)
	grader := ai.NewGrader(cfg.AI, logr)

	var tutor *ai.Tutor
	if cfg.Tutor.Enabled {
		tutor = ai.NewTutor(cfg.AI, cfg.Tutor, logr)
	}

	userSvc := service.NewUserService(userRepo, mail, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheSvc, validate, logr)
	taskSvc := service.NewTaskService(taskRepo, courseRepo, validate, logr)
	resultSvc := service.NewResultService(resultRepo, taskRepo, userRepo, courseRepo,
		export.NewCSVExporter(), export.NewPDFExporter(), validate, logr)
	requestSvc := service.NewRequestService(requestRepo, userRepo, courseRepo, validate, logr)
	submissionSvc := service.NewSubmissionService(resultRepo, taskRepo, userRepo, grader, metricsSvc, validate, logr)

	var tutorClient service.ChatTutor
	if tutor != nil {
		tutorClient = tutor
	}
	chatSvc := service.NewChatService(messageRepo, userRepo, courseRepo, tutorClient,
		metricsSvc, cfg.Tutor.Workers, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chatSvc.Start(ctx)
	defer chatSvc.Stop()

	r := handler.NewRouter(cfg, logr, handler.Handlers{
		Users:       handler.NewUserHandler(userSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Tasks:       handler.NewTaskHandler(taskSvc),
		Results:     handler.NewResultHandler(resultSvc),
		Requests:    handler.NewRequestHandler(requestSvc),
		Chat:        handler.NewChatHandler(chatSvc),
		Submissions: handler.NewSubmissionHandler(submissionSvc),
		Metrics:     metricsSvc,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
