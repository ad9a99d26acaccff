package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/outofforest/category5/config"
	"github.com/outofforest/logger"
)

func main() {
	log := logger.New(logger.DefaultConfig)
	ctx := logger.WithLogger(context.Background(), log)

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Error("Replay failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("cat5replay", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", config.DefaultPath(), "path to the TOML or YAML config file")
	scenarioPath := flags.StringP("scenario", "s", "", "path to the YAML scenario")
	if err := flags.Parse(args); err != nil {
		return errors.WithStack(err)
	}
	if *scenarioPath == "" {
		return errors.New("scenario is required")
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		return err
	}

	scenario, err := LoadScenario(*scenarioPath)
	if err != nil {
		return err
	}

	log := logger.Get(ctx)
	log.Info("Replaying scenario",
		zap.String("scenario", *scenarioPath),
		zap.Int("clients", len(scenario.Clients)),
		zap.Int("steps", len(scenario.Steps)))

	return NewReplayer(cfg, os.Stdout, log).Replay(scenario)
}
