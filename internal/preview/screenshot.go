package preview

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/fsutil"
)

type ScreenshotOptions struct {
	ChromeURL string
	Width     int64
	Height    int64
	Quality   int
	Timeout   time.Duration
}

func (o ScreenshotOptions) withDefaults() ScreenshotOptions {
	if o.Width == 0 {
		o.Width = 1440
	}
	if o.Height == 0 {
		o.Height = 900
	}
	if o.Quality == 0 {
		o.Quality = 100
	}
	if o.Timeout == 0 {
		o.Timeout = 55 * time.Second
	}
	return o
}

// Screenshot loads pageURL in a remote Chrome, waits for the chart to
// draw, and writes a full-page capture to path. Quality 100 gives a PNG,
// anything lower a JPEG.
func Screenshot(ctx context.Context, pageURL, path string, opts ScreenshotOptions) error {
	opts = opts.withDefaults()
	if opts.ChromeURL == "" {
		return fmt.Errorf("CHROME_URL must be set")
	}

	ctx, cancel := chromedp.NewRemoteAllocator(ctx, opts.ChromeURL)
	defer cancel()

	ctx, cancel = chromedp.NewContext(ctx, chromedp.WithLogf(log.Printf))
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(ctx,
		chromedp.EmulateViewport(opts.Width, opts.Height),
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("#player-table", chromedp.ByQuery),
		chromedp.WaitReady("#chart svg", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, opts.Quality),
	)
	if err != nil {
		return fmt.Errorf("error capturing %s: %w", pageURL, err)
	}

	if err := fsutil.WriteFileAtomic(path, buf, 0o644); err != nil {
		return fmt.Errorf("error writing screenshot: %w", err)
	}
	return nil
}
