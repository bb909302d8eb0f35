package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/CageChen/spaceinspect/internal/config"
	"github.com/CageChen/spaceinspect/internal/explorer"
	mfs "github.com/CageChen/spaceinspect/internal/fs"
	"github.com/CageChen/spaceinspect/internal/handler"
	"github.com/CageChen/spaceinspect/internal/logging"
	"github.com/CageChen/spaceinspect/internal/render"
	"github.com/CageChen/spaceinspect/internal/session"
	"github.com/CageChen/spaceinspect/internal/sniff"
	"github.com/CageChen/spaceinspect/internal/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed web/*
var webFS embed.FS

const shutdownTimeout = 5 * time.Second

func registerServeFlags(cmd *cobra.Command) {
	config.RegisterFlags(cmd.Flags())
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server (default)",
		Args:  cobra.NoArgs,
		RunE:  serveAction,
	}
	registerServeFlags(cmd)
	return cmd
}

// components builds everything the API needs from cfg.
func components(cfg *config.Config, log *zap.Logger) (handler.Deps, error) {
	limit, err := cfg.ReadLimitBytes()
	if err != nil {
		return handler.Deps{}, err
	}
	e, err := explorer.New(mfs.NewLocalFS(), sniff.New(cfg.MimeCommand), explorer.Options{
		ReadLimit: limit,
		Hide:      cfg.Hide,
	})
	if err != nil {
		return handler.Deps{}, err
	}
	return handler.Deps{
		Config:     cfg,
		Explorer:   e,
		Controller: session.NewController(e, cfg.Glob),
		Renderer:   render.New(cfg.HighlightStyle),
		Disk:       snapshot.DiskUsage(cfg.DiskCommand),
		Packages:   snapshot.Dependencies(cfg.DepsCommand),
		Log:        log,
	}, nil
}

func serveAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	deps, err := components(cfg, log)
	if err != nil {
		return err
	}

	log.Info("spaceinspect - sandbox inspector",
		zap.String("config", cfg.GetConfigFilePath()),
		zap.String("root", cfg.Root),
		zap.String("home", cfg.Home),
		zap.String("glob", cfg.Glob),
		zap.Bool("watch", cfg.Watch))
	log.Warn(handler.Warning)

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("failed to load web assets: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.NewAPIHandler(deps), handler.RouterOptions{
		Static:  http.FS(webContent),
		Metrics: cfg.Metrics,
		Watch:   cfg.Watch,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url := fmt.Sprintf("http://localhost:%d", cfg.Port)
		log.Info("server starting", zap.String("url", url))
		if cfg.Open {
			go openBrowser(url)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default: // linux, etc.
		cmd = "xdg-open"
		args = []string{url}
	}

	_ = exec.Command(cmd, args...).Start()
}
