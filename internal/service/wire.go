package service

import (
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/api/nflcom"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/api/roster"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/publish"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/repository/mappings"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/repository/memory"
)

// New wires the pipeline against the real roster source, NFL.com, the
// persisted snapshot and mappings, and the FTP publisher.
func New(cfg *config.Config) (*PipelineService, error) {
	rosterClient := roster.NewClient(cfg.Roster)
	finder := nflcom.NewAPI(rosterClient)

	repo, err := memory.NewPersistentRepository(cfg.Paths.SnapshotDir)
	if err != nil {
		return nil, err
	}
	store := mappings.Open(cfg.Paths.MappingsFile)
	publisher := publish.New(cfg.FTP)

	return NewPipelineService(cfg, rosterClient, finder, repo, store, publisher), nil
}
