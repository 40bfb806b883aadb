package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/yada/internal"
	"github.com/starford/yada/internal/profile"
	pkgconfig "github.com/starford/yada/pkg/config"
)

// loadConfig reads the config file named by --config and applies any
// profile flags on top of it.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var upd profile.Update
	if cmd.IsSet("height-cm") {
		v := cmd.Float("height-cm")
		upd.HeightCm = &v
	}
	if cmd.IsSet("weight-kg") {
		v := cmd.Float("weight-kg")
		upd.WeightKg = &v
	}
	if cmd.IsSet("age") {
		v := int(cmd.Int("age"))
		upd.Age = &v
	}
	if cmd.IsSet("activity") {
		v := cmd.String("activity")
		upd.ActivityLevel = &v
	}
	p, err := cfg.Profile.Apply(upd)
	if err != nil {
		return nil, fmt.Errorf("invalid profile flags: %w", err)
	}
	cfg.Profile = p

	if cmd.IsSet("owner") {
		cfg.Data.Owner = cmd.String("owner")
		if err := cfg.Data.Validate(); err != nil {
			return nil, fmt.Errorf("invalid owner: %w", err)
		}
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "owner",
			Usage:   "Owner key of the daily log file",
			Sources: cli.EnvVars("YADA_OWNER"),
		},
		&cli.FloatFlag{Name: "height-cm", Usage: "Override profile height"},
		&cli.FloatFlag{Name: "weight-kg", Usage: "Override profile weight"},
		&cli.IntFlag{Name: "age", Usage: "Override profile age"},
		&cli.StringFlag{Name: "activity", Usage: "Override activity level (sedentary, light, moderate, active, very_active)"},
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "yada",
		Usage:  "Calorie tracker with a composable food catalog, daily logs with undo, and an MCP interface",
		Action: serve,
		Flags:  flags(),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and the catalog watcher",
				Action: serve,
				Flags:  flags(),
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
				Flags:  flags(),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
