package headshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/dataset"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

// Progress reports batch advancement after each item.
type Progress func(done, total int)

type CompressStats struct {
	Processed       int
	Failed          []string
	OriginalBytes   int64
	CompressedBytes int64
}

// Reduction is the percentage of bytes saved.
func (s CompressStats) Reduction() float64 {
	if s.OriginalBytes == 0 {
		return 0
	}
	return float64(s.OriginalBytes-s.CompressedBytes) / float64(s.OriginalBytes) * 100
}

// CompressDir writes a shrunken copy of every image in src into dst under
// the same file name.
func CompressDir(ctx context.Context, src, dst *Cache, maxSize, quality int, progress Progress) (CompressStats, error) {
	var stats CompressStats

	files, err := src.Files()
	if err != nil {
		return stats, err
	}
	if err := os.MkdirAll(dst.Dir(), 0o755); err != nil {
		return stats, fmt.Errorf("creating %s: %w", dst.Dir(), err)
	}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		name := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Failed to read headshot", "file", name, "error", err)
			stats.Failed = append(stats.Failed, name)
			continue
		}
		out, _, err := Compress(data, maxSize, quality)
		if err != nil {
			slog.Warn("Failed to compress headshot", "file", name, "error", err)
			stats.Failed = append(stats.Failed, name)
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if err := dst.Store(stem, out); err != nil {
			slog.Warn("Failed to write headshot", "file", name, "error", err)
			stats.Failed = append(stats.Failed, name)
			continue
		}

		stats.Processed++
		stats.OriginalBytes += int64(len(data))
		stats.CompressedBytes += int64(len(out))
		if progress != nil {
			progress(i+1, len(files))
		}
	}
	return stats, nil
}

type ExtractStats struct {
	Extracted int
	Skipped   int
	Failed    []string
}

// ExtractFromReport saves every headshot referenced by a published report
// into dst, named by player slug. Inline data URLs are decoded; http(s)
// references are downloaded.
func ExtractFromReport(ctx context.Context, html []byte, dst *Cache, g Getter) (ExtractStats, error) {
	var stats ExtractStats

	blob, err := dataset.ExtractBlob(html)
	if err != nil {
		return stats, err
	}
	ds, err := dataset.DecodeBlob(blob)
	if err != nil {
		return stats, err
	}

	for _, p := range ds.Records(models.AllPositions) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		ref := p.HeadshotURL

		var data []byte
		switch {
		case strings.HasPrefix(ref, "data:image/"):
			data, err = decodeDataURL(ref)
		case g != nil && (strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")):
			data, err = Download(ctx, g, ref)
		default:
			stats.Skipped++
			continue
		}
		if err != nil {
			slog.Warn("Failed to extract headshot", "player", p.Name, "error", err)
			stats.Failed = append(stats.Failed, p.Name)
			continue
		}

		out, _, err := Compress(data, 0, 85)
		if err != nil {
			stats.Failed = append(stats.Failed, p.Name)
			continue
		}
		if err := dst.Store(Slug(p.Name), out); err != nil {
			return stats, err
		}
		stats.Extracted++
	}
	return stats, nil
}

// Finder looks up a remote headshot URL by player name.
type Finder interface {
	HeadshotURL(ctx context.Context, name string) (string, error)
}

type UpdateStats struct {
	Downloaded int
	Skipped    int
	Failed     []string
}

// Update fetches a headshot for every player not already present in dst,
// pausing delay between remote lookups.
func Update(ctx context.Context, players []models.PlayerRecord, mappings Mappings, f Finder, g Getter, dst *Cache, maxSize, quality int, delay time.Duration) (UpdateStats, error) {
	var stats UpdateStats
	done := make(map[string]bool)

	for _, p := range players {
		canonical := p.Name
		if mappings != nil {
			if mapped, ok := mappings.Lookup(p.Name, p.Team); ok {
				canonical = mapped
			}
		}
		slug := Slug(canonical)
		if slug == "" || done[slug] {
			continue
		}
		done[slug] = true

		if dst.Has(slug) {
			stats.Skipped++
			continue
		}

		url, err := f.HeadshotURL(ctx, canonical)
		if err == nil {
			var data []byte
			data, err = Download(ctx, g, url)
			if err == nil {
				data, _, err = Compress(data, maxSize, quality)
			}
			if err == nil {
				err = dst.Store(slug, data)
			}
		}
		if err != nil {
			slog.Info("No headshot saved", "player", p.Name, "team", p.Team, "error", err)
			stats.Failed = append(stats.Failed, p.Name)
		} else {
			slog.Info("Saved headshot", "player", p.Name, "file", slug+".png")
			stats.Downloaded++
		}

		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-time.After(delay):
		}
	}
	return stats, nil
}
