package models

import "time"

// Dataset groups player records by position. Players[AllPositions] holds
// each distinct player exactly once.
type Dataset struct {
	Positions       []string                  `json:"positions"`
	DefaultPosition string                    `json:"defaultPosition"`
	Teams           []string                  `json:"teams"`
	Players         map[string][]PlayerRecord `json:"players"`
	BuildID         string                    `json:"buildId"`
	GeneratedAt     time.Time                 `json:"generatedAt"`
}

// Records returns the records for a position key, nil when absent.
func (d *Dataset) Records(position string) []PlayerRecord {
	if d == nil {
		return nil
	}
	return d.Players[position]
}

// RosterEntry is one row of the public season roster.
type RosterEntry struct {
	Name        string `json:"player_name"`
	Team        string `json:"team"`
	Position    string `json:"position"`
	HeadshotURL string `json:"headshot_url"`
}

// UnmatchedName is an input name that resolved only fuzzily or not at all.
type UnmatchedName struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
}

// Snapshot is the persisted state of the last successful build.
type Snapshot struct {
	Dataset       *Dataset        `json:"dataset"`
	Unmatched     []UnmatchedName `json:"unmatched"`
	SourceCSV     string          `json:"sourceCsv"`
	SourceModTime time.Time       `json:"sourceModTime"`
	OutputPath    string          `json:"outputPath"`
	BuiltAt       time.Time       `json:"builtAt"`
}

// RosterCache holds the fetched season roster with its fetch time.
type RosterCache struct {
	Season      int
	Entries     []RosterEntry
	LastUpdated time.Time
}
