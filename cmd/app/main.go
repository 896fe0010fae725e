package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/exampledeck/internal"
	pkgconfig "github.com/starford/exampledeck/pkg/config"
)

// runMode returns a command action that runs the application in mode.
func runMode(mode internal.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		loaded, err := pkgconfig.LoadOptional(configPath, cfg)
		if err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		if !loaded {
			slog.Debug("config file not found, using defaults", slog.String("path", configPath))
		}

		if dir := cmd.String("source"); dir != "" {
			cfg.Source.Dir = dir
		}
		if dir := cmd.String("out"); dir != "" {
			cfg.Output.Dir = dir
		}
		if cmd.Bool("index") {
			cfg.Index.Enabled = true
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithMode(mode),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}

		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "exampledeck",
		Usage:  "Build Markdown code examples into JSON artifacts and a manifest",
		Action: runMode(internal.ModeBuild),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional; defaults apply when missing)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Directory holding example .md files (overrides source.dir)",
				Sources: cli.EnvVars("EXAMPLES_SOURCE_DIR"),
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory for artifacts and manifest (overrides output.dir)",
				Sources: cli.EnvVars("EXAMPLES_OUTPUT_DIR"),
			},
			&cli.BoolFlag{
				Name:  "index",
				Usage: "Maintain the SQLite search index (overrides index.enabled)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build every example once and exit",
				Action: runMode(internal.ModeBuild),
			},
			{
				Name:   "watch",
				Usage:  "Build, then rebuild whenever example sources change",
				Action: runMode(internal.ModeWatch),
			},
			{
				Name:   "serve",
				Usage:  "Watch and serve the output with a JSON API and live events",
				Action: runMode(internal.ModeServe),
			},
			{
				Name:   "mcp",
				Usage:  "Build, then expose the examples over MCP stdio",
				Action: runMode(internal.ModeMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
