package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/dataset"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/headshot"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/ingest"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/matcher"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/publish"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/report"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/repository/mappings"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/repository/memory"
)

// ErrNoDataset is returned by queries that need a completed build.
var ErrNoDataset = errors.New("no dataset has been built yet")

const (
	rosterTTL       = 24 * time.Hour
	suggestionLimit = 10
)

// RosterClient fetches the season roster and serves image downloads.
type RosterClient interface {
	headshot.Getter
	FetchSeason(ctx context.Context, season int) ([]models.RosterEntry, error)
	Season(now time.Time) int
}

// Deployer pushes local files to the web host.
type Deployer interface {
	Deploy(ctx context.Context, target publish.Target, reportPath, headshotDir string) (*publish.Result, error)
	SiteURL() string
}

// Progress reports how many players have been processed.
type Progress func(done, total int)

type PipelineService struct {
	cfg       *config.Config
	roster    RosterClient
	finder    headshot.Finder
	repo      *memory.Repository
	mappings  *mappings.Store
	publisher Deployer
	now       func() time.Time
}

func NewPipelineService(cfg *config.Config, roster RosterClient, finder headshot.Finder, repo *memory.Repository, store *mappings.Store, publisher Deployer) *PipelineService {
	return &PipelineService{
		cfg:       cfg,
		roster:    roster,
		finder:    finder,
		repo:      repo,
		mappings:  store,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *PipelineService) Mappings() *mappings.Store {
	return s.mappings
}

// getRoster returns the cached season roster, refreshing it daily. A failed
// fetch falls back to the stale copy, or to an empty roster.
func (s *PipelineService) getRoster(ctx context.Context) []models.RosterEntry {
	season := s.roster.Season(s.now())
	cached := s.repo.GetRoster()
	if cached != nil && cached.Season == season && s.now().Sub(cached.LastUpdated) <= rosterTTL {
		return cached.Entries
	}

	entries, err := s.roster.FetchSeason(ctx, season)
	if err != nil {
		if cached != nil {
			slog.Warn("Roster refresh failed, using cached roster", "season", season, "error", err)
			return cached.Entries
		}
		slog.Warn("Roster unavailable, falling back to team logos", "season", season, "error", err)
		return nil
	}
	slog.Info("Loaded roster", "season", season, "players", len(entries))
	s.repo.SaveRoster(&models.RosterCache{Season: season, Entries: entries, LastUpdated: s.now()})
	return entries
}

func (s *PipelineService) newMatcher(ctx context.Context) *matcher.Matcher {
	return matcher.New(s.getRoster(ctx), s.mappings)
}

func (s *PipelineService) newResolver(m *matcher.Matcher) *headshot.Resolver {
	h := s.cfg.Headshots
	dir := s.cfg.Paths.CompressedDir
	if h.Embed {
		dir = s.cfg.Paths.CacheDir
	}
	r := headshot.NewResolver(headshot.NewCache(dir), m, s.mappings, s.roster, headshot.Options{
		Embed:   h.Embed,
		BaseURL: h.BaseURL,
		Quality: h.Quality,
		MaxSize: h.MaxSize,
	})

	if path := s.cfg.Paths.OriginalReport; path != "" {
		original, err := report.ReadDataset(path)
		if err != nil {
			slog.Warn("Could not load original report, ignoring", "path", path, "error", err)
		} else {
			r.UseOriginal(original)
		}
	}
	return r
}

type BuildOptions struct {
	CSVPath string
	// Output defaults to the configured report path.
	Output string
	Title  string
	// DryRun resolves headshots and records unmatched names without
	// writing the report or replacing the snapshot.
	DryRun   bool
	Progress Progress
}

type BuildResult struct {
	Dataset   *models.Dataset
	Unmatched []models.UnmatchedName
	Output    string
	Duration  time.Duration
}

// Build imports a CSV, resolves every player's headshot and renders the
// report. Headshot problems never fail the build.
func (s *PipelineService) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	start := s.now()
	info, err := os.Stat(opts.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	records, err := ingest.ReadCSVFile(opts.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("error importing %s: %w", opts.CSVPath, err)
	}
	slog.Info("Imported CSV", "path", opts.CSVPath, "players", len(records))

	resolver := s.newResolver(s.newMatcher(ctx))
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &records[i]
		p.HeadshotURL = resolver.Resolve(ctx, p.Name, p.Team, p.Position)
		if opts.Progress != nil {
			opts.Progress(i+1, len(records))
		}
	}

	ds := dataset.Assemble(records)
	res := &BuildResult{
		Dataset:   ds,
		Unmatched: resolver.Unmatched(),
	}
	if opts.DryRun {
		res.Duration = s.now().Sub(start)
		return res, nil
	}

	res.Output = opts.Output
	if res.Output == "" {
		res.Output = s.cfg.Paths.Output
	}
	if err := report.WriteFile(res.Output, ds, report.Options{Title: opts.Title}); err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		Dataset:       ds,
		Unmatched:     res.Unmatched,
		SourceCSV:     opts.CSVPath,
		SourceModTime: info.ModTime(),
		OutputPath:    res.Output,
		BuiltAt:       s.now(),
	}
	if err := s.repo.SaveSnapshot(snap); err != nil {
		slog.Warn("Could not persist snapshot", "error", err)
	}
	res.Duration = s.now().Sub(start)
	slog.Info("Built report", "output", res.Output, "players", len(ds.Records(models.AllPositions)), "unmatched", len(res.Unmatched))
	return res, nil
}

// RebuildIfChanged builds from csvPath unless the last snapshot was built
// from the same file with the same modification time.
func (s *PipelineService) RebuildIfChanged(ctx context.Context, csvPath string) (*BuildResult, bool, error) {
	info, err := os.Stat(csvPath)
	if err != nil {
		return nil, false, fmt.Errorf("error reading CSV: %w", err)
	}
	if snap := s.repo.GetSnapshot(); snap != nil && snap.SourceCSV == csvPath && snap.SourceModTime.Equal(info.ModTime()) {
		slog.Debug("CSV unchanged, skipping rebuild", "path", csvPath)
		return nil, false, nil
	}
	res, err := s.Build(ctx, BuildOptions{CSVPath: csvPath})
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// NameReview is an unmatched name with candidate roster identities.
type NameReview struct {
	models.UnmatchedName
	Suggestions []models.RosterEntry
}

// CheckNames resolves a CSV without writing anything and returns the
// names needing review, each with up to ten suggestions.
func (s *PipelineService) CheckNames(ctx context.Context, csvPath string, progress Progress) ([]NameReview, error) {
	records, err := ingest.ReadCSVFile(csvPath)
	if err != nil {
		return nil, fmt.Errorf("error importing %s: %w", csvPath, err)
	}
	m := s.newMatcher(ctx)
	resolver := s.newResolver(m)
	for i, p := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resolver.Resolve(ctx, p.Name, p.Team, p.Position)
		if progress != nil {
			progress(i+1, len(records))
		}
	}

	unmatched := resolver.Unmatched()
	reviews := make([]NameReview, len(unmatched))
	for i, u := range unmatched {
		reviews[i] = NameReview{UnmatchedName: u, Suggestions: m.Suggest(u.Name, u.Team, suggestionLimit)}
	}
	return reviews, nil
}

// Suggest lists roster candidates for one input name.
func (s *PipelineService) Suggest(ctx context.Context, name, team string, limit int) []models.RosterEntry {
	return s.newMatcher(ctx).Suggest(name, models.NormalizeTeam(team), limit)
}

// SetMapping records a correction and persists the store.
func (s *PipelineService) SetMapping(name, team, canonical string) error {
	if err := s.mappings.Set(name, models.NormalizeTeam(team), canonical); err != nil {
		return err
	}
	return s.mappings.Save()
}

// RemoveMapping deletes a correction, persisting only when one existed.
func (s *PipelineService) RemoveMapping(name, team string) (bool, error) {
	if !s.mappings.Remove(name, models.NormalizeTeam(team)) {
		return false, nil
	}
	return true, s.mappings.Save()
}

// Deploy uploads the configured report and compressed headshots.
func (s *PipelineService) Deploy(ctx context.Context, target publish.Target) (*publish.Result, error) {
	res, err := s.publisher.Deploy(ctx, target, s.cfg.Paths.Output, s.cfg.Paths.CompressedDir)
	if err != nil {
		return nil, fmt.Errorf("error deploying %s: %w", target, err)
	}
	return res, nil
}

func (s *PipelineService) CompressHeadshots(ctx context.Context, progress Progress) (headshot.CompressStats, error) {
	src := headshot.NewCache(s.cfg.Paths.CacheDir)
	dst := headshot.NewCache(s.cfg.Paths.CompressedDir)
	return headshot.CompressDir(ctx, src, dst, s.cfg.Headshots.MaxSize, s.cfg.Headshots.Quality, headshot.Progress(progress))
}

// ExtractHeadshots saves the headshots referenced by a published report
// into the local cache.
func (s *PipelineService) ExtractHeadshots(ctx context.Context, reportPath string) (headshot.ExtractStats, error) {
	html, err := os.ReadFile(reportPath)
	if err != nil {
		return headshot.ExtractStats{}, fmt.Errorf("error reading report: %w", err)
	}
	return headshot.ExtractFromReport(ctx, html, headshot.NewCache(s.cfg.Paths.CacheDir), s.roster)
}

// UpdateHeadshots scrapes and stores headshots missing from the hosted set.
func (s *PipelineService) UpdateHeadshots(ctx context.Context, csvPath string) (headshot.UpdateStats, error) {
	records, err := ingest.ReadCSVFile(csvPath)
	if err != nil {
		return headshot.UpdateStats{}, fmt.Errorf("error importing %s: %w", csvPath, err)
	}
	h := s.cfg.Headshots
	dst := headshot.NewCache(s.cfg.Paths.CompressedDir)
	return headshot.Update(ctx, records, s.mappings, s.finder, s.roster, dst, h.MaxSize, h.Quality, h.RequestDelay)
}

func (s *PipelineService) snapshot() (*models.Snapshot, error) {
	snap := s.repo.GetSnapshot()
	if snap == nil || snap.Dataset == nil {
		return nil, ErrNoDataset
	}
	return snap, nil
}

// CurrentDataset returns the dataset of the last successful build.
func (s *PipelineService) CurrentDataset() (*models.Dataset, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Dataset, nil
}
