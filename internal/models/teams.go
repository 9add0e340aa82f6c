package models

import (
	"fmt"
	"strings"
)

var teamColors = map[string]string{
	"ARI": "#97233F", "ATL": "#A71930", "BAL": "#241773", "BUF": "#00338D",
	"CAR": "#0085CA", "CHI": "#C83803", "CIN": "#FB4F14", "CLE": "#311D00",
	"DAL": "#041E42", "DEN": "#FB4F14", "DET": "#0076B6", "GB": "#203731",
	"HOU": "#03202F", "IND": "#002C5F", "JAX": "#006778", "KC": "#E31837",
	"LAC": "#0080C6", "LAR": "#003594", "LV": "#000000", "MIA": "#008E97",
	"MIN": "#4F2683", "NE": "#002244", "NO": "#D3BC8D", "NYG": "#0B2265",
	"NYJ": "#125740", "PHI": "#004C54", "PIT": "#FFB612", "SF": "#AA0000",
	"SEA": "#002244", "TB": "#D50A0A", "TEN": "#0C2340", "WAS": "#5A1414",
}

var teamAliases = map[string]string{
	"WSH": "WAS",
	"JAC": "JAX",
	"LA":  "LAR",
	"OAK": "LV",
	"SD":  "LAC",
	"STL": "LAR",
}

const defaultTeamColor = "#6b7280"

// NormalizeTeam upper-cases a team abbreviation and folds known aliases.
func NormalizeTeam(team string) string {
	t := strings.ToUpper(strings.TrimSpace(team))
	if a, ok := teamAliases[t]; ok {
		return a
	}
	return t
}

// KnownTeam reports whether team is one of the 32 franchises.
func KnownTeam(team string) bool {
	_, ok := teamColors[NormalizeTeam(team)]
	return ok
}

func TeamColor(team string) string {
	if c, ok := teamColors[NormalizeTeam(team)]; ok {
		return c
	}
	return defaultTeamColor
}

// TeamColors returns a copy of the team color table.
func TeamColors() map[string]string {
	out := make(map[string]string, len(teamColors))
	for k, v := range teamColors {
		out[k] = v
	}
	return out
}

func TeamLogoURL(team string) string {
	return fmt.Sprintf("https://a.espncdn.com/i/teamlogos/nfl/500/%s.png", NormalizeTeam(team))
}
