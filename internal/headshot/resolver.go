package headshot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/dataset"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/matcher"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

// Placeholder is the neutral silhouette shown when nothing else resolves.
const Placeholder = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCA2NCA2NCI+PHJlY3Qgd2lkdGg9IjY0IiBoZWlnaHQ9IjY0IiBmaWxsPSIjZTVlN2ViIi8+PGNpcmNsZSBjeD0iMzIiIGN5PSIyNCIgcj0iMTIiIGZpbGw9IiM5Y2EzYWYiLz48cGF0aCBkPSJNMTIgNTZjMC0xMSA5LTE4IDIwLTE4czIwIDcgMjAgMTh6IiBmaWxsPSIjOWNhM2FmIi8+PC9zdmc+"

const maxDownloadBytes = 10 << 20

// Getter performs an HTTP GET, returning the body on a 200 response.
type Getter interface {
	Get(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error)
}

// Matcher finds a roster entry for an input name.
type Matcher interface {
	Match(name, team string) (matcher.Match, bool)
}

// Mappings resolves an input name to its canonical form.
type Mappings interface {
	Lookup(name, team string) (string, bool)
}

type Options struct {
	Embed   bool
	BaseURL string
	Quality int
	// MaxSize shrinks downloads before they are cached for hosting.
	MaxSize int
}

// Resolver picks a headshot reference for each player, recording names
// that matched only fuzzily or not at all.
type Resolver struct {
	original map[string]string
	cache    *Cache
	matcher  Matcher
	mappings Mappings
	getter   Getter
	opts     Options

	mu        sync.Mutex
	unmatched []models.UnmatchedName
	seen      map[models.UnmatchedName]bool
}

func NewResolver(cache *Cache, m Matcher, mappings Mappings, getter Getter, opts Options) *Resolver {
	if opts.Quality <= 0 {
		opts.Quality = 85
	}
	return &Resolver{
		original: make(map[string]string),
		cache:    cache,
		matcher:  m,
		mappings: mappings,
		getter:   getter,
		opts:     opts,
		seen:     make(map[models.UnmatchedName]bool),
	}
}

// UseOriginal makes headshots from a previously published dataset take
// precedence over every other source.
func (r *Resolver) UseOriginal(ds *models.Dataset) {
	r.original = dataset.HeadshotIndex(ds)
}

// Resolve returns a headshot reference. Sources are tried in order:
// previously published dataset, local cache, team logo for defenses,
// roster lookup, then team logo or placeholder.
func (r *Resolver) Resolve(ctx context.Context, name, team, position string) string {
	if ref, ok := r.original[dataset.NameKey(name)]; ok {
		return ref
	}

	canonical := name
	if r.mappings != nil {
		if mapped, ok := r.mappings.Lookup(name, team); ok {
			canonical = mapped
		}
	}
	slug := Slug(canonical)

	if r.cache != nil && r.cache.Has(slug) {
		ref, err := r.serveLocal(slug)
		if err == nil {
			return ref
		}
		slog.Debug("Cached headshot unusable", "player", name, "error", err)
	}

	if position == models.PositionDST {
		return Fallback(team)
	}

	if r.matcher != nil {
		if m, ok := r.matcher.Match(name, team); ok {
			if m.Tier.Fuzzy() {
				r.recordUnmatched(name, team, position)
			}
			ref, err := r.fetchAndServe(ctx, m.Entry.HeadshotURL, slug)
			if err == nil {
				return ref
			}
			slog.Debug("Could not cache headshot, linking remote", "player", name, "error", err)
			return m.Entry.HeadshotURL
		}
	}

	r.recordUnmatched(name, team, position)
	return Fallback(team)
}

// Fallback is the team logo for a known team, otherwise the placeholder.
func Fallback(team string) string {
	if models.KnownTeam(team) {
		return models.TeamLogoURL(team)
	}
	return Placeholder
}

func (r *Resolver) fetchAndServe(ctx context.Context, url, slug string) (string, error) {
	if r.getter == nil || r.cache == nil || slug == "" {
		return "", fmt.Errorf("no cache configured")
	}
	data, err := Download(ctx, r.getter, url)
	if err != nil {
		return "", err
	}
	if !r.opts.Embed && r.opts.MaxSize > 0 {
		if data, _, err = Compress(data, r.opts.MaxSize, r.opts.Quality); err != nil {
			return "", err
		}
	}
	if err := r.cache.Store(slug, data); err != nil {
		return "", err
	}
	return r.serveLocal(slug)
}

func (r *Resolver) serveLocal(slug string) (string, error) {
	if !r.opts.Embed {
		return strings.TrimSuffix(r.opts.BaseURL, "/") + "/" + slug + ".png", nil
	}
	data, err := r.cache.Read(slug)
	if err != nil {
		return "", err
	}
	return DataURL(data, EmbedMaxSize, r.opts.Quality)
}

func (r *Resolver) recordUnmatched(name, team, position string) {
	u := models.UnmatchedName{Name: name, Team: team, Position: position}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[u] {
		return
	}
	r.seen[u] = true
	r.unmatched = append(r.unmatched, u)
}

// Unmatched returns the names needing review in first-seen order.
func (r *Resolver) Unmatched() []models.UnmatchedName {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UnmatchedName, len(r.unmatched))
	copy(out, r.unmatched)
	return out
}

// Download fetches an image body, capped at a sane size.
func Download(ctx context.Context, g Getter, url string) ([]byte, error) {
	body, err := g.Get(ctx, url, map[string]string{"Accept": "image/*"})
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("downloading %s: empty body", url)
	}
	return data, nil
}
