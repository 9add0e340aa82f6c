package dataset

import (
	"sort"
	"time"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/google/uuid"
)

const preferredDefault = "QB"

// Assemble groups records by position and adds the ALL key, which holds
// each distinct id once in first-seen order.
func Assemble(records []models.PlayerRecord) *models.Dataset {
	ds := &models.Dataset{
		Players:     make(map[string][]models.PlayerRecord),
		BuildID:     uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	seen := make(map[string]bool, len(records))
	all := make([]models.PlayerRecord, 0, len(records))
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		all = append(all, r)
		if r.Position != "" {
			ds.Players[r.Position] = append(ds.Players[r.Position], r)
		}
	}
	ds.Players[models.AllPositions] = all

	finalize(ds)
	return ds
}

// finalize derives Positions, DefaultPosition and Teams from Players.
func finalize(ds *models.Dataset) {
	positions := make([]string, 0, len(ds.Players))
	for k := range ds.Players {
		if k != models.AllPositions {
			positions = append(positions, k)
		}
	}
	sort.Strings(positions)
	ds.Positions = append([]string{models.AllPositions}, positions...)
	ds.DefaultPosition = DefaultPosition(ds.Positions)

	teams := make(map[string]bool)
	for _, r := range ds.Players[models.AllPositions] {
		if r.Team != "" {
			teams[r.Team] = true
		}
	}
	ds.Teams = make([]string, 0, len(teams))
	for t := range teams {
		ds.Teams = append(ds.Teams, t)
	}
	sort.Strings(ds.Teams)
}

// DefaultPosition picks QB when present, else the first real position,
// else ALL.
func DefaultPosition(positions []string) string {
	first := ""
	for _, p := range positions {
		if p == preferredDefault {
			return p
		}
		if first == "" && p != models.AllPositions {
			first = p
		}
	}
	if first != "" {
		return first
	}
	return models.AllPositions
}
