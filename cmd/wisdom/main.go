package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wisdom/internal/config"
	"github.com/kailas-cloud/wisdom/internal/db"
	dbFile "github.com/kailas-cloud/wisdom/internal/db/file"
	dbRedis "github.com/kailas-cloud/wisdom/internal/db/redis"
	logpkg "github.com/kailas-cloud/wisdom/internal/logger"
	"github.com/kailas-cloud/wisdom/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "wisdom",
		Usage:   "Read-only search API over a tabular dataset catalog",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Configuration environment (config/<env>.yaml)",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override logging level (debug, info, warn, error)",
			},
		},
		Action: serveCommand,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server",
				Action: serveCommand,
			},
			{
				Name:   "check",
				Usage:  "Load the dataset and report what it contains",
				Action: checkCommand,
			},
			{
				Name:   "seed",
				Usage:  "Copy a file dataset into Redis",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Dataset directory to read (defaults to dataset.dir)",
					},
					&cli.StringSliceFlag{
						Name:  "redis-addr",
						Usage: "Redis address to write to (defaults to dataset.addrs)",
					},
				},
			},
		},
	}
}

// setup loads configuration and builds the logger for a command.
func setup(c *cli.Context) (config.Config, *zap.Logger, error) {
	env := c.String("env")
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if c.String("log-level") != "" {
		level = c.String("log-level")
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore creates the dataset source selected by dataset.driver.
func openStore(cfg config.DatasetConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverFile:
		s, err := dbFile.NewStore(dbFile.Config{Dir: cfg.Dir})
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		return s, nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown dataset driver %q", cfg.Driver)
	}
}
