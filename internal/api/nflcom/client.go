package nflcom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/api/roster"
)

const (
	defaultBaseURL = "https://www.nfl.com/players/"
	imageBaseURL   = "https://static.www.nfl.com/image/upload/f_auto,q_auto/league/"
	maxPageBytes   = 4 << 20
)

var ErrNoHeadshot = errors.New("no headshot found on player page")

var headshotPattern = regexp.MustCompile(`https://static\.www\.nfl\.com/image/upload/t_headshot_desktop/league/([a-z0-9]+)`)

// API scrapes player pages for headshot image ids, reusing the roster
// client's HTTP plumbing.
type API struct {
	client  *roster.Client
	baseURL string
}

func NewAPI(client *roster.Client) *API {
	return &API{client: client, baseURL: defaultBaseURL}
}

// WithBaseURL points the scraper at another host.
func (a *API) WithBaseURL(u string) *API {
	a.baseURL = strings.TrimSuffix(u, "/") + "/"
	return a
}

// PageSlug converts a player name to the site's kebab-case path segment.
func PageSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer("'", "", ".", "").Replace(s)
	return strings.Join(strings.Fields(s), "-")
}

// HeadshotURL returns the auto-format image URL for a player.
func (a *API) HeadshotURL(ctx context.Context, name string) (string, error) {
	page := a.baseURL + PageSlug(name) + "/"
	body, err := a.client.Get(ctx, page, map[string]string{"Accept": "text/html"})
	if err != nil {
		return "", fmt.Errorf("fetching player page for %s: %w", name, err)
	}
	defer body.Close()

	html, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading player page for %s: %w", name, err)
	}

	m := headshotPattern.FindSubmatch(html)
	if m == nil {
		return "", ErrNoHeadshot
	}
	return imageBaseURL + string(m[1]), nil
}
