package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/juju/clock"

	"kitchenlog/internal/cli"
	"kitchenlog/internal/config"
	"kitchenlog/internal/logger"
	"kitchenlog/internal/repository"
	"kitchenlog/internal/service"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string        `name:"config-dir" help:"Directory holding config.yml." default:"configs" type:"path"`
	Log       string        `name:"log" help:"Durable log file; overrides store.csv_path and selects the file backend." type:"path"`
	Wait      time.Duration `help:"How long to wait for a document store to connect." default:"30s"`

	Station cli.StationCmd `cmd:"" help:"Run an interactive cook station." default:"1"`
	Recent  cli.RecentCmd  `cmd:"" help:"Show the most recent saved cooks."`
	Export  cli.ExportCmd  `cmd:"" help:"Export the cook log."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("kitchenlog"),
		kong.Description("Deep fry cook tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := run(kctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(kctx *kong.Context) error {
	cfg, err := config.Load(CLI.ConfigDir)
	if err != nil {
		return err
	}
	if CLI.Log != "" {
		cfg.Store.Backend = repository.BackendFile
		cfg.Store.CSVPath = CLI.Log
	}
	// the terminal is the UI; only warnings and errors go to the log
	log := logger.New(logger.WarnLevel, cfg.Log.Encoding)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, err := repository.NewRepository(ctx, cfg.Store, clock.WallClock, log.Named("store"))
	if err != nil {
		return err
	}
	defer repos.CookLog.Close()

	waitCtx, waitCancel := context.WithTimeout(ctx, CLI.Wait)
	defer waitCancel()
	if err := repos.CookLog.Wait(waitCtx); err != nil {
		return err
	}

	opts := service.Options{
		Clock:     clock.WallClock,
		Roster:    cfg.Staff,
		ReportURL: cfg.Report.BaseURL,
		Logger:    log.Named("service"),
	}
	if cfg.Report.RendererURL != "" {
		opts.Renderer = service.NewHTTPRenderer(cfg.Report.RendererURL, cfg.Report.Timeout)
	}
	services := service.NewService(repos, opts)
	defer services.Close()

	return kctx.Run(&cli.Context{Services: services, In: os.Stdin, Out: os.Stdout})
}
