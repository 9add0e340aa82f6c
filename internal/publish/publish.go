// Package publish uploads the rendered report and headshots to the web host.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
)

var (
	ErrMissingCredentials = errors.New("FTP_HOST, FTP_USER and FTP_PASS must be set")
	ErrUnknownTarget      = errors.New("unknown deploy target")
)

// Target selects what to upload.
type Target string

const (
	TargetWebsite   Target = "website"
	TargetHeadshots Target = "headshots"
	TargetAll       Target = "all"
)

func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetWebsite, TargetHeadshots, TargetAll:
		return t, nil
	case "":
		return TargetAll, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, s)
	}
}

// Conn is the subset of an FTP session used for uploads.
type Conn interface {
	Login(user, password string) error
	ChangeDir(path string) error
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

// Dialer opens a session to addr.
type Dialer func(ctx context.Context, addr string, timeout time.Duration) (Conn, error)

// DialFTP is the Dialer backed by a real FTP connection.
func DialFTP(ctx context.Context, addr string, timeout time.Duration) (Conn, error) {
	c, err := ftp.Dial(addr, ftp.DialWithTimeout(timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Upload is one local file and its remote destination.
type Upload struct {
	Local  string
	Remote string
}

type Failure struct {
	Upload
	Err error
}

// Result aggregates per-file outcomes of one session.
type Result struct {
	Uploaded []Upload
	Failed   []Failure
}

func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

type Publisher struct {
	cfg  config.FTP
	dial Dialer
}

func New(cfg config.FTP) *Publisher {
	return &Publisher{cfg: cfg, dial: DialFTP}
}

// WithDialer replaces how sessions are opened.
func (p *Publisher) WithDialer(d Dialer) *Publisher {
	p.dial = d
	return p
}

// SiteURL is the public address of the published report, if configured.
func (p *Publisher) SiteURL() string {
	return p.cfg.SiteURL
}

func (p *Publisher) checkCredentials() error {
	if p.cfg.Host == "" || p.cfg.User == "" || p.cfg.Pass == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Deploy uploads the selected target. Local inputs and credentials are
// checked before any connection is opened.
func (p *Publisher) Deploy(ctx context.Context, target Target, reportPath, headshotDir string) (*Result, error) {
	var uploads []Upload
	switch target {
	case TargetWebsite:
		u, err := p.websiteUpload(reportPath)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	case TargetHeadshots:
		us, err := p.headshotUploads(headshotDir)
		if err != nil {
			return nil, err
		}
		uploads = us
	case TargetAll:
		u, err := p.websiteUpload(reportPath)
		if err != nil {
			return nil, err
		}
		us, err := p.headshotUploads(headshotDir)
		if err != nil {
			return nil, err
		}
		uploads = append([]Upload{u}, us...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	return p.Upload(ctx, uploads)
}

func (p *Publisher) websiteUpload(reportPath string) (Upload, error) {
	info, err := os.Stat(reportPath)
	if err != nil {
		return Upload{}, fmt.Errorf("report not found: %w", err)
	}
	if info.IsDir() {
		return Upload{}, fmt.Errorf("report path %s is a directory", reportPath)
	}
	return Upload{Local: reportPath, Remote: path.Join(p.cfg.RemoteBasePath, "index.html")}, nil
}

func (p *Publisher) headshotUploads(dir string) ([]Upload, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("headshot directory not found: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("listing headshots: %w", err)
	}
	sort.Strings(files)
	uploads := make([]Upload, len(files))
	for i, f := range files {
		uploads[i] = Upload{Local: f, Remote: path.Join(p.cfg.RemoteHeadshotsPath, filepath.Base(f))}
	}
	return uploads, nil
}

// Upload sends every file over one session. A failed file is recorded
// and the rest still go out; only session-level problems return an error.
func (p *Publisher) Upload(ctx context.Context, uploads []Upload) (*Result, error) {
	if err := p.checkCredentials(); err != nil {
		return nil, err
	}
	for _, u := range uploads {
		if _, err := os.Stat(u.Local); err != nil {
			return nil, fmt.Errorf("local file missing: %w", err)
		}
	}
	res := &Result{}
	if len(uploads) == 0 {
		return res, nil
	}

	conn, err := p.dial(ctx, p.cfg.Addr(), p.cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", p.cfg.Addr(), err)
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			slog.Debug("Error closing FTP session", "error", err)
		}
	}()
	if err := conn.Login(p.cfg.User, p.cfg.Pass); err != nil {
		return nil, fmt.Errorf("error logging in: %w", err)
	}

	made := make(map[string]bool)
	for i, u := range uploads {
		if err := ctx.Err(); err != nil {
			for _, rest := range uploads[i:] {
				res.Failed = append(res.Failed, Failure{Upload: rest, Err: err})
			}
			break
		}
		if err := p.put(conn, u, made); err != nil {
			slog.Warn("Upload failed", "file", u.Local, "remote", u.Remote, "error", err)
			res.Failed = append(res.Failed, Failure{Upload: u, Err: err})
			continue
		}
		slog.Debug("Uploaded", "file", u.Local, "remote", u.Remote)
		res.Uploaded = append(res.Uploaded, u)
	}
	return res, nil
}

func (p *Publisher) put(conn Conn, u Upload, made map[string]bool) error {
	if err := ensureDir(conn, path.Dir(u.Remote), made); err != nil {
		return err
	}
	f, err := os.Open(u.Local)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := conn.Stor(u.Remote, f); err != nil {
		return fmt.Errorf("storing %s: %w", u.Remote, err)
	}
	return nil
}

// ensureDir creates each missing component of dir.
func ensureDir(conn Conn, dir string, made map[string]bool) error {
	if dir == "" || dir == "." || dir == "/" || made[dir] {
		return nil
	}
	cur := ""
	if strings.HasPrefix(dir, "/") {
		cur = "/"
	}
	for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
		cur = path.Join(cur, part)
		if made[cur] {
			continue
		}
		if err := conn.ChangeDir(cur); err != nil {
			if err := conn.MakeDir(cur); err != nil {
				return fmt.Errorf("creating %s: %w", cur, err)
			}
		}
		made[cur] = true
	}
	return nil
}

// Summary describes a result for humans.
func (r *Result) Summary(siteURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Uploaded %d file(s)", len(r.Uploaded))
	if len(r.Failed) > 0 {
		fmt.Fprintf(&b, ", %d failed:\n", len(r.Failed))
		for _, f := range r.Failed {
			fmt.Fprintf(&b, "  %s: %v\n", f.Local, f.Err)
		}
	} else {
		b.WriteString("\n")
	}
	if siteURL != "" && r.OK() {
		fmt.Fprintf(&b, "Live at %s\n", siteURL)
	}
	return b.String()
}
