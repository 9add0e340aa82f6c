package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/headshot"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/publish"
)

const timeLayout = "Mon Jan 2 3:04 PM MST"

// GetStatus describes the last successful build.
func (s *PipelineService) GetStatus() (string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}
	ds := snap.Dataset

	var sb strings.Builder
	sb.WriteString("📊 *DFS Build Status*\n\n")
	sb.WriteString(fmt.Sprintf("Built: %s\n", snap.BuiltAt.Format(timeLayout)))
	sb.WriteString(fmt.Sprintf("Source: %s\n", snap.SourceCSV))
	sb.WriteString(fmt.Sprintf("Players: %d\n", len(ds.Records(models.AllPositions))))
	for _, pos := range ds.Positions {
		if pos == models.AllPositions {
			continue
		}
		sb.WriteString(fmt.Sprintf("  • %s: %d\n", pos, len(ds.Records(pos))))
	}
	sb.WriteString(fmt.Sprintf("Needs review: %d\n", len(snap.Unmatched)))
	if url := s.publisher.SiteURL(); url != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", url))
	}
	return sb.String(), nil
}

// GetUnmatched lists names from the last build that need a mapping.
func (s *PipelineService) GetUnmatched() (string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("🔍 *Names Needing Review*\n\n")
	if len(snap.Unmatched) == 0 {
		sb.WriteString("Every player matched a roster headshot.")
		return sb.String(), nil
	}
	for _, u := range snap.Unmatched {
		sb.WriteString(fmt.Sprintf("• %s (%s %s)\n", u.Name, u.Position, u.Team))
	}
	return sb.String(), nil
}

// FindPlayer summarizes every player in the last build whose name
// contains query.
func (s *PipelineService) FindPlayer(query string) (string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var found []models.PlayerRecord
	for _, p := range snap.Dataset.Records(models.AllPositions) {
		if q != "" && strings.Contains(strings.ToLower(p.Name), q) {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return fmt.Sprintf("🔍 No player found matching '%s'.", query), nil
	}

	var sb strings.Builder
	for i, p := range found {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", p.Name, p.Position, p.Team))
		sb.WriteString("━━━━━━━━━━━━━━━━\n")
		sb.WriteString(fmt.Sprintf("Salary: $%s\n", formatSalary(p.Salary)))
		sb.WriteString(fmt.Sprintf("Projection: %.1f (±%.1f, ceiling %.1f)\n", p.Projection, p.StdDev, p.Ceiling))
		sb.WriteString(fmt.Sprintf("Boom/Bust: %.1f%% / %.1f%%\n", p.BoomPct, p.BustPct))
		sb.WriteString(fmt.Sprintf("Own: %.1f%% | Optimal: %.1f%% | Leverage: %+.1f\n", p.OwnershipPct, p.OptimalPct, p.Leverage))
	}
	return sb.String(), nil
}

func formatSalary(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func FormatBuild(res *BuildResult) string {
	var sb strings.Builder
	ds := res.Dataset
	if res.Output != "" {
		sb.WriteString(fmt.Sprintf("Wrote %s\n", res.Output))
	}
	sb.WriteString(fmt.Sprintf("%d players across %d positions in %s\n",
		len(ds.Records(models.AllPositions)), len(ds.Positions)-1, res.Duration.Round(time.Millisecond)))
	if len(res.Unmatched) > 0 {
		sb.WriteString(fmt.Sprintf("%d name(s) need review:\n", len(res.Unmatched)))
		for _, u := range res.Unmatched {
			sb.WriteString(fmt.Sprintf("  %s (%s %s)\n", u.Name, u.Position, u.Team))
		}
	}
	return sb.String()
}

func FormatReviews(reviews []NameReview) string {
	var sb strings.Builder
	if len(reviews) == 0 {
		sb.WriteString("All names matched.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("%d name(s) need review\n", len(reviews)))
	for _, r := range reviews {
		sb.WriteString(fmt.Sprintf("\n%s (%s %s)\n", r.Name, r.Position, r.Team))
		if len(r.Suggestions) == 0 {
			sb.WriteString("  no suggestions\n")
			continue
		}
		for _, e := range r.Suggestions {
			sb.WriteString(fmt.Sprintf("  → %s (%s %s)\n", e.Name, e.Position, e.Team))
		}
	}
	return sb.String()
}

func FormatCompress(st headshot.CompressStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compressed %d headshot(s)\n", st.Processed))
	sb.WriteString(fmt.Sprintf("Original: %.1f KB, compressed: %.1f KB (%.1f%% smaller)\n",
		float64(st.OriginalBytes)/1024, float64(st.CompressedBytes)/1024, st.Reduction()))
	writeFailures(&sb, st.Failed)
	return sb.String()
}

func FormatExtract(st headshot.ExtractStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extracted %d, skipped %d, failed %d\n", st.Extracted, st.Skipped, len(st.Failed)))
	writeFailures(&sb, st.Failed)
	return sb.String()
}

func FormatUpdate(st headshot.UpdateStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Downloaded %d, already present %d, failed %d\n", st.Downloaded, st.Skipped, len(st.Failed)))
	writeFailures(&sb, st.Failed)
	return sb.String()
}

// FormatDeploy reports an upload result in chat-friendly form.
func (s *PipelineService) FormatDeploy(res *publish.Result) string {
	return res.Summary(s.publisher.SiteURL())
}

func writeFailures(sb *strings.Builder, failed []string) {
	if len(failed) == 0 {
		return
	}
	names := append([]string(nil), failed...)
	sort.Strings(names)
	sb.WriteString("Failed:\n")
	for _, n := range names {
		sb.WriteString(fmt.Sprintf("  %s\n", n))
	}
}
