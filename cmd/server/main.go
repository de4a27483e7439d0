package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/smartcity-backend-go/internal/api"
	"github.com/jengzang/smartcity-backend-go/internal/classify"
	"github.com/jengzang/smartcity-backend-go/internal/config"
	"github.com/jengzang/smartcity-backend-go/internal/database"
	"github.com/jengzang/smartcity-backend-go/internal/handler"
	"github.com/jengzang/smartcity-backend-go/internal/logger"
	"github.com/jengzang/smartcity-backend-go/internal/notify"
	"github.com/jengzang/smartcity-backend-go/internal/repository"
	"github.com/jengzang/smartcity-backend-go/internal/service"
)

func main() {
	log := logger.Setup()

	// 加载配置
	cfg := config.Load()
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	if err := database.Init(database.Config{URL: cfg.DatabaseURL}); err != nil {
		log.Error("database_init_failed", "err", err)
		os.Exit(1)
	}
	defer database.Close()

	notifier, err := notify.NewRedis(ctx, cfg.RedisAddr, cfg.RedisChannel)
	if err != nil {
		log.Warn("redis_unavailable", "addr", cfg.RedisAddr, "err", err)
		notifier = notify.New(nil, cfg.RedisChannel)
	}
	defer notifier.Close()

	var classifier classify.Classifier = classify.NewRuleClassifier()
	switch {
	case cfg.InferenceURL != "":
		classifier = classify.WithFallback(classify.NewHTTPClassifier(cfg.InferenceURL), classifier)
		log.Info("inference_enabled", "url", cfg.InferenceURL)
	case cfg.InferenceScript != "":
		classifier = classify.WithFallback(classify.NewScriptClassifier(cfg.PythonBin, cfg.InferenceScript), classifier)
		log.Info("inference_enabled", "script", cfg.InferenceScript)
	}

	repo := repository.NewComplaintRepository(database.GetDB())
	complaintService := service.NewComplaintService(repo, classifier, notifier, service.Options{
		ImagesDir:       cfg.ImagesDir,
		DupRadiusMeters: cfg.DupRadiusMeters,
		DupScanLimit:    cfg.DupScanLimit,
	})

	// 初始化路由
	router := api.SetupRouter(ctx, cfg, api.Handlers{
		Complaints: handler.NewComplaintHandler(complaintService, cfg.MaxUploadBytes),
		Stats:      handler.NewStatsHandler(service.NewStatsService(repo)),
		Admin:      handler.NewAdminHandler(service.NewAkimatService(repo, notifier, cfg.ExportsDir)),
	})
	if cfg.JWTSecret == "" {
		log.Warn("admin_auth_disabled", "hint", "set JWT_SECRET to protect /admin")
	}

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown_failed", "err", err)
		}
	}()

	// 启动服务器
	log.Info("server_starting", "addr", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server_failed", "err", err)
		os.Exit(1)
	}
	log.Info("server_stopped")
}
