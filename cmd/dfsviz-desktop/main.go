package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/joho/godotenv"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/publish"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/report"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	svc, err := service.New(cfg)
	if err != nil {
		return err
	}

	a := app.NewWithID("com.joshengleman.dfsviz")
	w := a.NewWindow("NFL DFS Visualizer")
	w.Resize(fyne.NewSize(760, 560))

	ui := newForm(w, cfg, svc)
	w.SetContent(ui.content())
	w.ShowAndRun()
	return nil
}

// form is the single-window build form. Long operations run off the UI
// goroutine and post updates back with fyne.Do.
type form struct {
	window fyne.Window
	cfg    *config.Config
	svc    *service.PipelineService

	csvEntry    *widget.Entry
	outputEntry *widget.Entry
	titleEntry  *widget.Entry
	progress    *widget.ProgressBar
	logView     *widget.Entry
	buttons     []*widget.Button
}

func newForm(w fyne.Window, cfg *config.Config, svc *service.PipelineService) *form {
	f := &form{window: w, cfg: cfg, svc: svc}

	f.csvEntry = widget.NewEntry()
	f.csvEntry.SetPlaceHolder("projections.csv")
	f.outputEntry = widget.NewEntry()
	f.outputEntry.SetText(cfg.Paths.Output)
	f.titleEntry = widget.NewEntry()
	f.titleEntry.SetText(report.DefaultTitle)
	f.progress = widget.NewProgressBar()
	f.logView = widget.NewMultiLineEntry()
	f.logView.Wrapping = fyne.TextWrapWord
	f.logView.Disable()
	return f
}

func (f *form) content() fyne.CanvasObject {
	csvRow := container.NewBorder(nil, nil, nil, widget.NewButton("Browse…", f.pickCSV), f.csvEntry)
	outRow := container.NewBorder(nil, nil, nil, widget.NewButton("Browse…", f.pickOutput), f.outputEntry)

	fields := widget.NewForm(
		widget.NewFormItem("CSV", csvRow),
		widget.NewFormItem("Output", outRow),
		widget.NewFormItem("Title", f.titleEntry),
	)

	check := widget.NewButton("Check names", f.checkNames)
	build := widget.NewButton("Build report", f.build)
	build.Importance = widget.HighImportance
	deploy := widget.NewButton("Deploy", f.deploy)
	f.buttons = []*widget.Button{check, build, deploy}

	top := container.NewVBox(fields, container.NewHBox(check, build, deploy), f.progress)
	return container.NewBorder(top, nil, nil, nil, f.logView)
}

func (f *form) pickCSV() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		f.csvEntry.SetText(rc.URI().Path())
	}, f.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	d.Show()
}

func (f *form) pickOutput() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		f.outputEntry.SetText(wc.URI().Path())
	}, f.window)
	d.SetFileName("index.html")
	d.Show()
}

func (f *form) logf(format string, args ...any) {
	line := fmt.Sprintf("%s  %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	fyne.Do(func() {
		f.logView.SetText(strings.TrimLeft(f.logView.Text+"\n"+line, "\n"))
		f.logView.CursorRow = len(strings.Split(f.logView.Text, "\n")) - 1
	})
}

func (f *form) setBusy(busy bool) {
	fyne.Do(func() {
		for _, b := range f.buttons {
			if busy {
				b.Disable()
			} else {
				b.Enable()
			}
		}
		if !busy {
			f.progress.SetValue(0)
		}
	})
}

func (f *form) onProgress(done, total int) {
	fyne.Do(func() {
		f.progress.Max = float64(total)
		f.progress.SetValue(float64(done))
	})
}

// background runs job off the UI goroutine with the buttons disabled.
func (f *form) background(job func(ctx context.Context) error) {
	f.setBusy(true)
	go func() {
		defer f.setBusy(false)
		if err := job(context.Background()); err != nil {
			f.logf("Error: %v", err)
			fyne.Do(func() { dialog.ShowError(err, f.window) })
		}
	}()
}

func (f *form) csvPath() (string, bool) {
	path := strings.TrimSpace(f.csvEntry.Text)
	if path == "" {
		dialog.ShowInformation("No CSV", "Choose a projections CSV first.", f.window)
		return "", false
	}
	return path, true
}

func (f *form) build() {
	path, ok := f.csvPath()
	if !ok {
		return
	}
	opts := service.BuildOptions{
		CSVPath:  path,
		Output:   strings.TrimSpace(f.outputEntry.Text),
		Title:    strings.TrimSpace(f.titleEntry.Text),
		Progress: f.onProgress,
	}
	f.logf("Building from %s", path)
	f.background(func(ctx context.Context) error {
		res, err := f.svc.Build(ctx, opts)
		if err != nil {
			return err
		}
		f.logf("%s", strings.TrimSpace(service.FormatBuild(res)))
		if len(res.Unmatched) > 0 {
			f.logf("Use \"Check names\" to review %d name(s)", len(res.Unmatched))
		}
		return nil
	})
}

func (f *form) checkNames() {
	path, ok := f.csvPath()
	if !ok {
		return
	}
	f.logf("Checking names in %s", path)
	f.background(func(ctx context.Context) error {
		reviews, err := f.svc.CheckNames(ctx, path, f.onProgress)
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			f.logf("All names matched.")
			return nil
		}
		f.logf("%d name(s) need review", len(reviews))
		fyne.Do(func() { f.review(reviews, 0, 0) })
		return nil
	})
}

func (f *form) deploy() {
	dialog.ShowConfirm("Deploy", "Upload the report and headshots?", func(ok bool) {
		if !ok {
			return
		}
		f.logf("Deploying")
		f.background(func(ctx context.Context) error {
			res, err := f.svc.Deploy(ctx, publish.TargetAll)
			if err != nil {
				return err
			}
			f.logf("%s", strings.TrimSpace(f.svc.FormatDeploy(res)))
			return nil
		})
	}, f.window)
}
