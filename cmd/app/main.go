package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Stefan-Allen/fileconverter/internal/config"
	router "github.com/Stefan-Allen/fileconverter/internal/transport/http"
	"github.com/Stefan-Allen/fileconverter/internal/transport/http/handlers"
	"github.com/Stefan-Allen/fileconverter/pkg/graceful_shutdown"
	httpserver "github.com/Stefan-Allen/fileconverter/pkg/http_server"
	"github.com/Stefan-Allen/fileconverter/pkg/http_server/mw"
	pkgjson "github.com/Stefan-Allen/fileconverter/pkg/json"
)

type Options struct {
	ConfigPath  string
	EnvFile     string
	PrintConfig bool
}

// LoadEnv applies variables from an optional dotenv file. Variables already
// set in the process environment win.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Run(opts Options) error {
	if err := LoadEnv(opts.EnvFile); err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.PrintConfig {
		return pkgjson.PrettyPrint(os.Stdout, cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := config.NewLive(opts.ConfigPath, cfg)

	httpHandlers := handlers.NewHTTPHandlers(live, int64(cfg.Server.MaxUploadMB)<<20)

	router := router.NewRouter(httpHandlers)

	server := httpserver.NewHTTPServer(router,
		httpserver.WithAddress(cfg.Server.Address),
		httpserver.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		httpserver.WithMiddleware(mw.AccessLog, mw.RequestMetadata))

	gfl := graceful_shutdown.NewGracefulShutdown(ctx)

	gfl.Go(server.Start)
	gfl.Go(func() error {
		return live.Watch(gfl.Context())
	})
	gfl.Go(func() error {
		return httpHandlers.ConversionUseCase.RunSweeper(gfl.Context(), cfg.Sessions.SweepInterval)
	})
	gfl.MustClose(server.Stop)

	slog.Info("fileconverter ready",
		"address", cfg.Server.Address,
		"config", opts.ConfigPath,
		"presets", len(cfg.PresetList()))

	return gfl.Wait()
}
