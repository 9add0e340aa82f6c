package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	LogLevel  string `envconfig:"DFSVIZ_LOG_LEVEL" default:"info"`
	Paths     Paths
	Roster    Roster
	Headshots Headshots
	FTP       FTP
	Schedule  Schedule
	Telegram  Telegram
	Preview   Preview
}

type Paths struct {
	Output         string `envconfig:"DFSVIZ_OUTPUT" default:"public/index.html"`
	CacheDir       string `envconfig:"DFSVIZ_CACHE_DIR" default:"cache/headshot_cache"`
	CompressedDir  string `envconfig:"DFSVIZ_COMPRESSED_DIR" default:"cache/headshot_cache_compressed"`
	MappingsFile   string `envconfig:"DFSVIZ_MAPPINGS_FILE" default:"name_mappings.json"`
	SnapshotDir    string `envconfig:"DFSVIZ_SNAPSHOT_DIR" default:"cache/snapshot"`
	OriginalReport string `envconfig:"DFSVIZ_ORIGINAL_REPORT"`
}

type Roster struct {
	URLTemplate string        `envconfig:"ROSTER_URL_TEMPLATE" default:"https://github.com/nflverse/nflverse-data/releases/download/rosters/roster_%d.csv"`
	Season      int           `envconfig:"ROSTER_SEASON"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type Headshots struct {
	MaxSize      int           `envconfig:"HEADSHOT_MAX_SIZE" default:"400"`
	Quality      int           `envconfig:"HEADSHOT_QUALITY" default:"85"`
	Embed        bool          `envconfig:"HEADSHOT_EMBED" default:"false"`
	BaseURL      string        `envconfig:"HEADSHOT_BASE_URL" default:"/nfl-dfs/headshots"`
	RequestDelay time.Duration `envconfig:"HEADSHOT_REQUEST_DELAY" default:"500ms"`
}

type FTP struct {
	Host                string        `envconfig:"FTP_HOST"`
	User                string        `envconfig:"FTP_USER"`
	Pass                string        `envconfig:"FTP_PASS"`
	Port                int           `envconfig:"FTP_PORT" default:"21"`
	Timeout             time.Duration `envconfig:"FTP_TIMEOUT" default:"30s"`
	RemoteBasePath      string        `envconfig:"REMOTE_BASE_PATH" default:"/public_html/nfl-dfs"`
	RemoteHeadshotsPath string        `envconfig:"REMOTE_HEADSHOTS_PATH" default:"/public_html/nfl-dfs/headshots"`
	SiteURL             string        `envconfig:"SITE_URL"`
}

// Addr returns host:port for dialing.
func (f FTP) Addr() string {
	return fmt.Sprintf("%s:%d", f.Host, f.Port)
}

type Schedule struct {
	Cron     string `envconfig:"SCHEDULE_CRON" default:"*/15 * * * *"`
	Timezone string `envconfig:"SCHEDULE_TZ" default:"America/Chicago"`
	CSV      string `envconfig:"SCHEDULE_CSV"`
	Deploy   bool   `envconfig:"SCHEDULE_DEPLOY" default:"true"`
}

type Telegram struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

// Enabled reports whether both token and chat are configured.
func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type Preview struct {
	Addr      string `envconfig:"PREVIEW_ADDR" default:":8080"`
	ChromeURL string `envconfig:"CHROME_URL"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Headshots.MaxSize <= 0 {
		return fmt.Errorf("HEADSHOT_MAX_SIZE must be positive, got %d", c.Headshots.MaxSize)
	}
	if c.Headshots.Quality < 1 || c.Headshots.Quality > 100 {
		return fmt.Errorf("HEADSHOT_QUALITY must be between 1 and 100, got %d", c.Headshots.Quality)
	}
	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			return fmt.Errorf("invalid SCHEDULE_CRON %q: %w", c.Schedule.Cron, err)
		}
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid SCHEDULE_TZ %q: %w", c.Schedule.Timezone, err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
