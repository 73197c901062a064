package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/vaultgen/internal"
	pkgconfig "github.com/starford/vaultgen/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

// loadConfig reads the layered config. A missing default file falls back to
// built-in defaults; a missing file named explicitly is an error.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config") {
		return cfg, cfg.Validate()
	}
	if err := pkgconfig.LoadLayered(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runMode(mode string, extra func(cmd *cli.Command) []internal.Option) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithMode(mode),
		}
		if extra != nil {
			opts = append(opts, extra(cmd)...)
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func targetOptions(cmd *cli.Command) []internal.Option {
	return []internal.Option{internal.WithTargets(cmd.Bool("commands-only"), cmd.Bool("index-only"))}
}

func importOptions(cmd *cli.Command) []internal.Option {
	return []internal.Option{internal.WithImportFile(cmd.Args().First())}
}

func main() {
	cmd := &cli.Command{
		Name:   "vaultgen",
		Usage:  "Generate a Markdown knowledge vault and hierarchical index from a SQLite entry table",
		Action: runMode(internal.ModeGenerate, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (config.local.yaml next to it overrides keys)",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Write entry documents and the index once",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "commands-only",
						Usage: "Only generate entry documents, skip the index",
					},
					&cli.BoolFlag{
						Name:  "index-only",
						Usage: "Only generate the index, skip entry documents",
					},
				},
				Action: runMode(internal.ModeGenerate, targetOptions),
			},
			{
				Name:   "watch",
				Usage:  "Regenerate whenever the database changes",
				Action: runMode(internal.ModeWatch, nil),
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API and regenerate on database changes",
				Action: runMode(internal.ModeServe, nil),
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: runMode(internal.ModeMCP, nil),
			},
			{
				Name:   "publish",
				Usage:  "Copy the site files into the vault",
				Action: runMode(internal.ModePublish, nil),
			},
			{
				Name:      "import",
				Usage:     "Load entries from a YAML file into the database",
				ArgsUsage: "<entries.yaml>",
				Action:    runMode(internal.ModeImport, importOptions),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
