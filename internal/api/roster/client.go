package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

var ErrNoRosterColumns = errors.New("roster is missing name or headshot columns")

type Client struct {
	httpClient *http.Client
	Config     config.Roster
}

func NewClient(cfg config.Roster) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		Config:     cfg,
	}
}

// CurrentSeason returns the roster season for now: the NFL season starts in
// September, so earlier months belong to the previous year.
func CurrentSeason(now time.Time) int {
	if now.Month() < time.September {
		return now.Year() - 1
	}
	return now.Year()
}

// Season returns the configured season, or the current one.
func (c *Client) Season(now time.Time) int {
	if c.Config.Season > 0 {
		return c.Config.Season
	}
	return CurrentSeason(now)
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// FetchSeason downloads and parses the public roster for a season.
func (c *Client) FetchSeason(ctx context.Context, season int) ([]models.RosterEntry, error) {
	url := fmt.Sprintf(c.Config.URLTemplate, season)
	body, err := c.Get(ctx, url, map[string]string{"Accept": "text/csv"})
	if err != nil {
		return nil, fmt.Errorf("fetching %d roster: %w", season, err)
	}
	defer body.Close()

	entries, err := ParseCSV(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %d roster: %w", season, err)
	}
	return entries, nil
}

// ParseCSV reads roster rows, keeping only the columns the matcher needs.
func ParseCSV(r io.Reader) ([]models.RosterEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := func(names ...string) int {
		for _, n := range names {
			for i, h := range header {
				if strings.EqualFold(strings.TrimSpace(h), n) {
					return i
				}
			}
		}
		return -1
	}
	nameIdx := col("full_name", "player_name")
	teamIdx := col("team", "recent_team")
	posIdx := col("position")
	shotIdx := col("headshot_url", "headshot")
	if nameIdx < 0 || shotIdx < 0 {
		return nil, ErrNoRosterColumns
	}

	field := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var entries []models.RosterEntry
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		name := field(rec, nameIdx)
		if name == "" {
			continue
		}
		entries = append(entries, models.RosterEntry{
			Name:        name,
			Team:        models.NormalizeTeam(field(rec, teamIdx)),
			Position:    strings.ToUpper(field(rec, posIdx)),
			HeadshotURL: field(rec, shotIdx),
		})
	}
	return entries, nil
}
