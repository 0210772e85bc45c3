package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"historytutor/tutor/config"
	"historytutor/tutor/controllers"
	"historytutor/tutor/localization"
	"historytutor/tutor/prompts"
	"historytutor/tutor/routes"
	"historytutor/tutor/services/echo"
	"historytutor/tutor/services/llm"
	"historytutor/tutor/sources/psql"
	"historytutor/tutor/sources/psql/dao"
	"historytutor/tutor/sources/storage"
	"historytutor/tutor/utils/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	tutor, err := prompts.Load(cfg.PropertiesPath)
	if err != nil {
		logging.ErrorLogger.Error("tutor prompts", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Locale overlays are optional; without a bucket the embedded tables stand.
	var bundles localization.BundleSource
	if cfg.LocalesEnabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
		bundles = minioClient
	}

	echoClient := echo.NewClient(cfg.EchoBaseURL, cfg.EchoAppID)
	if echoClient.AppID() == "" {
		logging.AppLogger.Warn("ECHO_APP_ID not set, sign in will fail")
	} else {
		logging.AppLogger.Info("echo client ready", zap.String("app_id", echoClient.AppID()), zap.String("base_url", cfg.EchoBaseURL))
	}
	router := llm.NewGPTClient(cfg.EchoRouterURL)

	handler := routes.NewRouter(routes.Controllers{
		Auth:        controllers.NewAuthController(echoClient, cfg),
		Chat:        controllers.NewChatController(router, tutor, cfg.ChatModel),
		Suggestions: controllers.NewSuggestionsController(router, tutor, cfg.SuggestionModel),
		Preferences: controllers.NewPreferencesController(dao.NewPreferenceDAO(db.DB)),
		Locales:     controllers.NewLocalesController(bundles),
		Health:      controllers.NewHealthController(db),
	}, cfg.SecureCookies)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
