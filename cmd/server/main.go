package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/yusufkecer/diabetes-prediction/internal/config"
	"github.com/yusufkecer/diabetes-prediction/internal/domain"
	"github.com/yusufkecer/diabetes-prediction/internal/handler"
	"github.com/yusufkecer/diabetes-prediction/internal/logging"
	"github.com/yusufkecer/diabetes-prediction/internal/middleware"
	"github.com/yusufkecer/diabetes-prediction/internal/model"
	"github.com/yusufkecer/diabetes-prediction/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	router, err := setup(cfg, logger)
	if err != nil {
		logger.Error("model load failed", "path", cfg.ModelPath, "error", err)
		fmt.Fprintln(os.Stderr, model.FatalMessage(cfg.ModelPath, err))
		logCloser.Close()
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			logCloser.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}
}

// setup loads the model before anything is routed, so a bad artifact
// stops the process without ever serving the form.
func setup(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	artifact, err := model.LoadArtifact(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	logger.Info("model loaded",
		"path", artifact.Path,
		"type", artifact.Type,
		"shape", artifact.Shape.String(),
	)

	return newRouter(cfg, artifact, logger), nil
}

func newRouter(cfg *config.Config, artifact *model.Artifact, logger *slog.Logger) http.Handler {
	assessments := service.NewAssessmentService(artifact.Predictor, logger)
	tokens := middleware.NewFormTokens(cfg.FormSecret, cfg.FormTokenTTL)

	formHandler := handler.NewFormHandler(assessments, tokens, logger)
	apiHandler := handler.NewAPIHandler(assessments, domain.ModelInfo{
		Type:         artifact.Type,
		Shape:        artifact.Shape.String(),
		Path:         artifact.Path,
		FeatureOrder: domain.FeatureOrder,
	}, logger)

	predictRL := middleware.NewRateLimiter(cfg.PredictRateLimit, cfg.PredictRateWindow)

	r := mux.NewRouter()

	// Global middleware: request id → access log → recovery → CORS → security headers → MaxBytesReader
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
			next.ServeHTTP(w, r)
		})
	})

	r.HandleFunc("/", formHandler.Show).Methods(http.MethodGet)
	r.Handle("/predict", predictRL.Middleware(http.HandlerFunc(formHandler.Predict))).Methods(http.MethodPost)

	r.HandleFunc("/api/v1/health", apiHandler.Health).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.APIKeyMiddleware(cfg.APIKey))

	api.HandleFunc("/model", apiHandler.Model).Methods(http.MethodGet, http.MethodOptions)
	api.Handle("/predict", predictRL.Middleware(http.HandlerFunc(apiHandler.Predict))).Methods(http.MethodPost, http.MethodOptions)

	return r
}
