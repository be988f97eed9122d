package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/Stefan-Allen/fileconverter/cmd/app"
	"github.com/Stefan-Allen/fileconverter/internal/config"
)

func main() {
	var opts app.Options
	flag.StringVar(&opts.ConfigPath, "config", config.GetEnv("CONFIG", ""), "path to the YAML config file")
	flag.StringVar(&opts.EnvFile, "env-file", ".env", "optional dotenv file")
	flag.BoolVar(&opts.PrintConfig, "print-config", false, "print the effective config and exit")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := app.Run(opts); err != nil {
		slog.Error("fileconverter stopped", "error", err)
		os.Exit(1)
	}
}
