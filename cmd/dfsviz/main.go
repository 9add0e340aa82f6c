package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/service"
)

const usage = `Usage: dfsviz <command> [flags] [args]

Commands:
  build [--out path] [--title t] [--dry-run] <csv>    Build the HTML report
  check <csv>                                           List names needing review
  mappings list|set|remove|suggest|unmatched            Manage name corrections
  headshots extract <report>|compress|update <csv>      Manage the headshot cache
  deploy [website|headshots|all]                        Upload over FTP
  chart [--position QB] [--out chart.png] [source]      Export the chart as PNG
  schedule                                              Rebuild and publish on a schedule
  preview serve|screenshot                              Serve or screenshot the report locally
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if len(args) == 0 {
		return errUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "build":
		return a.build(ctx, rest)
	case "check":
		return a.check(ctx, rest)
	case "mappings":
		return a.mappings(ctx, rest)
	case "headshots":
		return a.headshots(ctx, rest)
	case "deploy":
		return a.deploy(ctx, rest)
	case "chart":
		return a.chart(ctx, rest)
	case "schedule":
		return a.schedule(ctx)
	case "preview":
		return a.preview(ctx, rest)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

type app struct {
	cfg *config.Config
	svc *service.PipelineService
}

func newApp(cfg *config.Config) (*app, error) {
	svc, err := service.New(cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, svc: svc}, nil
}
