package ingest

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

type column string

const (
	colName       column = "name"
	colPosition   column = "position"
	colTeam       column = "team"
	colSalary     column = "salary"
	colProjection column = "projection"
	colStdDev     column = "std_dev"
	colCeiling    column = "ceiling"
	colBust       column = "bust"
	colBoom       column = "boom"
	colOwnership  column = "ownership"
	colOptimal    column = "optimal"
	colLeverage   column = "leverage"
)

// aliases lists accepted source headers per column, most preferred first.
var aliases = map[column][]string{
	colName:       {"Name", "player_name", "Player", "full_name"},
	colPosition:   {"Position", "Pos", "position"},
	colTeam:       {"Team", "team_abbr", "Tm", "TeamAbbrev", "team"},
	colSalary:     {"Salary", "salary"},
	colProjection: {"Projection", "DK Projection", "dk_projection", "Proj"},
	colStdDev:     {"Std Dev", "std_dev", "StdDev"},
	colCeiling:    {"Ceiling", "ceiling"},
	colBust:       {"Bust%", "bust_pct", "Bust", "Bust %"},
	colBoom:       {"Boom%", "boom_pct", "Boom", "Boom %"},
	colOwnership:  {"Own%", "Ownership%", "ownership_pct", "Ownership", "proj_ownership", "Own %", "Ownership %"},
	colOptimal:    {"Optimal%", "optimal_pct", "Optimal", "Optimal %"},
	colLeverage:   {"Leverage", "leverage"},
}

var positionAliases = map[string]string{
	"D/ST": "DST",
	"DEF":  "DST",
	"D":    "DST",
	"DST":  "DST",
}

var textPolicy = bluemonday.StrictPolicy()

// lookup finds the raw value for a column, trying exact alias matches
// before case-insensitive ones.
func lookup(raw map[string]string, c column) string {
	for _, a := range aliases[c] {
		if v, ok := raw[a]; ok {
			return v
		}
	}
	for _, a := range aliases[c] {
		for k, v := range raw {
			if strings.EqualFold(strings.TrimSpace(k), a) {
				return v
			}
		}
	}
	return ""
}

// HasNameColumn reports whether any header is a recognized name alias.
func HasNameColumn(header []string) bool {
	for _, h := range header {
		for _, a := range aliases[colName] {
			if strings.EqualFold(strings.TrimSpace(h), a) {
				return true
			}
		}
	}
	return false
}

// NormalizeRow maps one loosely-keyed source row onto a PlayerRecord.
// Missing or unparseable numerics become 0. The id combines the name with
// index so duplicate names stay distinct.
func NormalizeRow(raw map[string]string, index int) models.PlayerRecord {
	name := cleanText(lookup(raw, colName))
	return models.PlayerRecord{
		Name:         name,
		ID:           PlayerID(name, index),
		Position:     normalizePosition(lookup(raw, colPosition)),
		Team:         models.NormalizeTeam(cleanText(lookup(raw, colTeam))),
		Salary:       parseMoney(lookup(raw, colSalary)),
		Projection:   parseNumber(lookup(raw, colProjection)),
		StdDev:       parseNumber(lookup(raw, colStdDev)),
		Ceiling:      parseNumber(lookup(raw, colCeiling)),
		BustPct:      parseNumber(lookup(raw, colBust)),
		BoomPct:      parseNumber(lookup(raw, colBoom)),
		OwnershipPct: parseNumber(lookup(raw, colOwnership)),
		OptimalPct:   parseNumber(lookup(raw, colOptimal)),
		Leverage:     parseNumber(lookup(raw, colLeverage)),
	}
}

// PlayerID builds the stable record id for a name at a row index.
func PlayerID(name string, index int) string {
	return strings.Join(strings.Fields(name), "_") + "_" + strconv.Itoa(index)
}

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func normalizePosition(s string) string {
	p := strings.ToUpper(cleanText(s))
	if a, ok := positionAliases[p]; ok {
		return a
	}
	return p
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseMoney(s string) float64 {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',', ' ':
			return -1
		}
		return r
	}, s)
	return parseNumber(s)
}
