package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/bot"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/chart"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/preview"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/publish"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/report"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/scheduler"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/service"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/viewmodel"
)

const progressEvery = 25

func printProgress(label string) service.Progress {
	return func(done, total int) {
		if done%progressEvery == 0 || done == total {
			fmt.Fprintf(os.Stderr, "%s %d/%d\n", label, done, total)
		}
	}
}

// oneArg returns the single positional argument of fs.
func oneArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s expects %s", errUsage, fs.Name(), what)
	}
	return fs.Arg(0), nil
}

func (a *app) build(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	out := fs.String("out", a.cfg.Paths.Output, "Path of the generated report")
	title := fs.String("title", report.DefaultTitle, "Report title")
	dryRun := fs.Bool("dry-run", false, "Resolve headshots without writing the report")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	csvPath, err := oneArg(fs, "a CSV path")
	if err != nil {
		return err
	}

	res, err := a.svc.Build(ctx, service.BuildOptions{
		CSVPath:  csvPath,
		Output:   *out,
		Title:    *title,
		DryRun:   *dryRun,
		Progress: printProgress("Resolving headshots"),
	})
	if err != nil {
		return err
	}
	fmt.Print(service.FormatBuild(res))
	return nil
}

func (a *app) check(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	csvPath, err := oneArg(fs, "a CSV path")
	if err != nil {
		return err
	}
	reviews, err := a.svc.CheckNames(ctx, csvPath, printProgress("Checking names"))
	if err != nil {
		return err
	}
	fmt.Print(service.FormatReviews(reviews))
	return nil
}

func (a *app) mappings(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: mappings needs a subcommand", errUsage)
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		all := a.svc.Mappings().All()
		if len(all) == 0 {
			fmt.Println("No name mappings.")
			return nil
		}
		for _, m := range all {
			fmt.Printf("%s (%s) → %s\n", m.Name, m.Team, m.Canonical)
		}
		return nil
	case "set":
		if len(rest) != 3 {
			return fmt.Errorf("%w: mappings set <name> <team> <canonical>", errUsage)
		}
		if err := a.svc.SetMapping(rest[0], rest[1], rest[2]); err != nil {
			return err
		}
		fmt.Printf("Mapped %s (%s) → %s\n", rest[0], strings.ToUpper(rest[1]), strings.TrimSpace(rest[2]))
		return nil
	case "remove":
		if len(rest) != 2 {
			return fmt.Errorf("%w: mappings remove <name> <team>", errUsage)
		}
		removed, err := a.svc.RemoveMapping(rest[0], rest[1])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("No mapping for %s (%s)\n", rest[0], rest[1])
			return nil
		}
		fmt.Printf("Removed mapping for %s (%s)\n", rest[0], rest[1])
		return nil
	case "suggest":
		fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
		limit := fs.Int("limit", 10, "Maximum number of suggestions")
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		if fs.NArg() != 2 {
			return fmt.Errorf("%w: mappings suggest [--limit n] <name> <team>", errUsage)
		}
		entries := a.svc.Suggest(ctx, fs.Arg(0), fs.Arg(1), *limit)
		if len(entries) == 0 {
			fmt.Println("No suggestions.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s (%s %s)\n", e.Name, e.Position, e.Team)
		}
		return nil
	case "unmatched":
		return a.check(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown mappings subcommand %q", errUsage, sub)
	}
}

func (a *app) headshots(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: headshots needs a subcommand", errUsage)
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "extract":
		if len(rest) != 1 {
			return fmt.Errorf("%w: headshots extract <report.html>", errUsage)
		}
		st, err := a.svc.ExtractHeadshots(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Print(service.FormatExtract(st))
	case "compress":
		st, err := a.svc.CompressHeadshots(ctx, printProgress("Compressed"))
		if err != nil {
			return err
		}
		fmt.Print(service.FormatCompress(st))
	case "update":
		if len(rest) != 1 {
			return fmt.Errorf("%w: headshots update <csv>", errUsage)
		}
		st, err := a.svc.UpdateHeadshots(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Print(service.FormatUpdate(st))
	default:
		return fmt.Errorf("%w: unknown headshots subcommand %q", errUsage, sub)
	}
	return nil
}

func (a *app) deploy(ctx context.Context, args []string) error {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	target, err := publish.ParseTarget(arg)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	res, err := a.svc.Deploy(ctx, target)
	if err != nil {
		return err
	}
	fmt.Print(a.svc.FormatDeploy(res))
	if !res.OK() {
		return fmt.Errorf("%d upload(s) failed", len(res.Failed))
	}
	return nil
}

func (a *app) chart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chart", flag.ContinueOnError)
	position := fs.String("position", "", "Position to plot (default: the report default)")
	x := fs.String("x", "", "X axis field")
	y := fs.String("y", "", "Y axis field")
	size := fs.String("size", "", "Bubble size field")
	out := fs.String("out", "chart.png", "Output PNG path")
	title := fs.String("title", "", "Chart title")
	width := fs.Int("width", chart.DefaultWidth, "Image width")
	height := fs.Int("height", chart.DefaultHeight, "Image height")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: chart takes at most one source", errUsage)
	}

	ds, err := a.chartDataset(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	state := viewmodel.NewState(ds)
	if *position != "" {
		pos := strings.ToUpper(*position)
		if _, ok := ds.Players[pos]; !ok {
			return fmt.Errorf("position %s not in dataset (have %s)", pos, strings.Join(ds.Positions, ", "))
		}
		state.SelectedPositions = []string{pos}
	}
	state = state.SetAxes(models.Field(*x), models.Field(*y), models.Field(*size))

	if *title == "" {
		*title = fmt.Sprintf("%s vs %s (%s)", state.YField.Label(), state.XField.Label(), strings.Join(state.SelectedPositions, ", "))
	}
	if err := chart.WriteFile(*out, ds, state, chart.Options{Title: *title, Width: *width, Height: *height}); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", *out)
	return nil
}

// chartDataset loads a report's embedded data, builds a CSV without
// writing anything, or falls back to the last build.
func (a *app) chartDataset(ctx context.Context, source string) (*models.Dataset, error) {
	switch {
	case source == "":
		return a.svc.CurrentDataset()
	case strings.EqualFold(filepath.Ext(source), ".html"):
		return report.ReadDataset(source)
	default:
		res, err := a.svc.Build(ctx, service.BuildOptions{CSVPath: source, DryRun: true})
		if err != nil {
			return nil, err
		}
		return res.Dataset, nil
	}
}

func (a *app) schedule(ctx context.Context) error {
	var notify func(string) error
	var telegramBot *bot.TelegramBot
	if a.cfg.Telegram.Enabled() {
		var err error
		telegramBot, err = bot.NewTelegramBot(a.cfg.Telegram.Token, a.cfg.Telegram.ChatID, a.svc)
		if err != nil {
			return err
		}
		notify = telegramBot.SendMessage
	}

	sched, err := scheduler.NewScheduler(a.svc, a.cfg.Schedule, notify)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	if telegramBot != nil {
		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	}

	if _, err := sched.RunOnce(ctx); err != nil {
		slog.Error("Initial build failed", "error", err)
	}

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")
	return nil
}

func (a *app) preview(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: preview needs a subcommand", errUsage)
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "serve":
		fs := flag.NewFlagSet("serve", flag.ContinueOnError)
		addr := fs.String("addr", a.cfg.Preview.Addr, "Address to listen on")
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return preview.NewServer(*addr, a.cfg.Paths).Start(ctx)
	case "screenshot":
		fs := flag.NewFlagSet("screenshot", flag.ContinueOnError)
		chromeURL := fs.String("chrome-url", a.cfg.Preview.ChromeURL, "Remote debugging URL of a headless Chrome")
		addr := fs.String("addr", a.cfg.Preview.Addr, "Address for the local preview server")
		pageURL := fs.String("url", "", "Page to capture (default: the local preview)")
		out := fs.String("out", "screenshot.png", "Output path")
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}

		if *pageURL == "" {
			srvCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				if err := preview.NewServer(*addr, a.cfg.Paths).Start(srvCtx); err != nil {
					slog.Error("Error running preview server", "error", err)
				}
			}()
			*pageURL = fmt.Sprintf("http://localhost%s%s/", *addr, preview.SitePrefix)
		}

		if err := preview.Screenshot(ctx, *pageURL, *out, preview.ScreenshotOptions{ChromeURL: *chromeURL}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *out)
		return nil
	default:
		return fmt.Errorf("%w: unknown preview subcommand %q", errUsage, sub)
	}
}
