package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/audio"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/config"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/gemini"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/httpapi"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/launcher"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/processor"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/summarizer"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/transcriber"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/watcher"
	"github.com/cjdbcurvajxjencj/dIArio-backend/pkg/executor"
)

func main() {
	configPath := flag.String("config", os.Getenv("DIARIO_CONFIG"), "path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "Server stopped with error: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Store: %s, max concurrent jobs: %d (0 = unlimited)", cfg.Store.Driver, cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Initialize dependencies
	tool := audio.New(audio.Options{
		FFmpegPath:     cfg.Audio.FFmpegPath,
		FFprobePath:    cfg.Audio.FFprobePath,
		Bitrate:        cfg.Audio.Bitrate,
		MinOutputBytes: cfg.Audio.MinOutputBytes,
	}, executor.New(), log)

	proc := processor.New(processor.Deps{
		Normalizer:  tool,
		Chunker:     tool,
		Transcriber: transcriber.New(transcriber.Options{PollInterval: cfg.Gemini.PollInterval}, log),
		Summarizer:  summarizer.New(summarizer.Options{}, log),
		Remote: gemini.NewFactory(gemini.Options{
			BaseURL:        cfg.Gemini.BaseURL,
			RequestTimeout: cfg.Gemini.RequestTimeout,
		}),
		Store:   st,
		Logger:  log,
		TempDir: cfg.Paths.Temp,
	})

	jobs := launcher.New(proc, st, log, launcher.Options{MaxConcurrent: cfg.Performance.MaxConcurrent})

	handler := httpapi.NewRouter(httpapi.NewHandler(jobs, st, log, httpapi.Options{
		TempDir:            cfg.Paths.Temp,
		MaxUploadMB:        cfg.Server.MaxUploadMB,
		TranscriptionModel: cfg.Gemini.TranscriptionModel,
		SummaryModel:       cfg.Gemini.SummaryModel,
		CORSOrigins:        cfg.Server.CORSOrigins,
	}))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	var inbox watcher.Watcher
	if cfg.Inbox.Enabled {
		inbox, err = watcher.New(cfg.Inbox.Dir, watcher.SubmitHandler(jobs, watcher.IntakeOptions{
			TempDir:            cfg.Paths.Temp,
			APIKey:             cfg.Inbox.APIKey,
			Subject:            cfg.Inbox.Subject,
			TranscriptionModel: cfg.Gemini.TranscriptionModel,
			SummaryModel:       cfg.Gemini.SummaryModel,
		}, log), log, 0)
		if err != nil {
			return fmt.Errorf("create inbox watcher: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if inbox != nil {
		defer inbox.Stop()
		g.Go(func() error {
			if err := inbox.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("inbox watcher: %w", err)
			}
			return nil
		})
	}

	err = g.Wait()

	log.Info(context.Background(), "Waiting up to %s for running jobs...", cfg.Server.ShutdownTimeout)
	waitCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if werr := jobs.Wait(waitCtx); werr != nil {
		log.Warn(context.Background(), "Some jobs were still running at shutdown: %v", werr)
	}

	log.Info(context.Background(), "Server stopped")
	return err
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Paths.Temp}
	if cfg.Inbox.Enabled {
		dirs = append(dirs, cfg.Inbox.Dir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
