package matcher

import (
	"testing"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

type mapStore map[string]string

func (m mapStore) Lookup(name, team string) (string, bool) {
	v, ok := m[name+"|"+team]
	return v, ok
}

func testRoster() []models.RosterEntry {
	return []models.RosterEntry{
		{Name: "Josh Allen", Team: "ARI", Position: "LB", HeadshotURL: "https://img/ari-allen"},
		{Name: "Josh Allen", Team: "BUF", Position: "QB", HeadshotURL: "https://img/buf-allen"},
		{Name: "Keenan Allen", Team: "CHI", Position: "WR", HeadshotURL: "https://img/keenan"},
		{Name: "Marquise Brown", Team: "KC", Position: "WR", HeadshotURL: "https://img/hollywood"},
		{Name: "Amon-Ra St. Brown", Team: "DET", Position: "WR", HeadshotURL: "https://img/amonra"},
		{Name: "Kenneth Walker III", Team: "SEA", Position: "RB", HeadshotURL: "https://img/walker"},
		{Name: "No Photo", Team: "NYJ", Position: "TE"},
	}
}

func TestMatchTiers(t *testing.T) {
	m := New(testRoster(), mapStore{"Hollywood Brown|KC": "Marquise Brown"})

	tests := []struct {
		name     string
		input    string
		team     string
		wantURL  string
		wantTier Tier
		wantOK   bool
	}{
		{"mapping", "Hollywood Brown", "KC", "https://img/hollywood", TierMapping, true},
		{"exact picks team", "Josh Allen", "BUF", "https://img/buf-allen", TierExact, true},
		{"exact case insensitive", "josh allen", "ari", "https://img/ari-allen", TierExact, true},
		{"last name same team", "Kenneth Walker", "SEA", "https://img/walker", TierLastNameTeam, true},
		{"full name any team", "Keenan Allen", "LAC", "https://img/keenan", TierNameAnyTeam, true},
		{"no headshot", "No Photo", "NYJ", "", TierNone, false},
		{"unknown", "Nobody Special", "DAL", "", TierNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(tt.input, tt.team)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q, %q) ok = %v, want %v", tt.input, tt.team, ok, tt.wantOK)
			}
			if got.Entry.HeadshotURL != tt.wantURL || got.Tier != tt.wantTier {
				t.Errorf("Match(%q, %q) = %q (%s), want %q (%s)",
					tt.input, tt.team, got.Entry.HeadshotURL, got.Tier, tt.wantURL, tt.wantTier)
			}
		})
	}
}

func TestMappingTakesPrecedence(t *testing.T) {
	m := New(testRoster(), mapStore{"Josh Allen|BUF": "Keenan Allen"})
	got, ok := m.Match("Josh Allen", "BUF")
	if !ok || got.Entry.Name != "Keenan Allen" || got.Tier != TierMapping {
		t.Errorf("Match() = %+v, %v; want mapped Keenan Allen", got, ok)
	}
}

func TestTierFuzzy(t *testing.T) {
	for tier, want := range map[Tier]bool{
		TierNone: false, TierMapping: false, TierExact: false,
		TierLastNameTeam: true, TierNameAnyTeam: true,
	} {
		if got := tier.Fuzzy(); got != want {
			t.Errorf("%s.Fuzzy() = %v, want %v", tier, got, want)
		}
	}
}

func TestSuggest(t *testing.T) {
	m := New(testRoster(), nil)

	got := m.Suggest("Josh Allen", "BUF", 10)
	if len(got) < 3 {
		t.Fatalf("Suggest() returned %d entries, want at least 3", len(got))
	}
	if got[0].Team != "BUF" {
		t.Errorf("Suggest()[0] = %+v, want the BUF entry first", got[0])
	}
	seen := make(map[string]bool)
	for _, e := range got {
		key := e.Name + "|" + e.Team
		if seen[key] {
			t.Errorf("duplicate suggestion %s", key)
		}
		seen[key] = true
	}
	if !seen["Keenan Allen|CHI"] {
		t.Error("Suggest() should include other Allens")
	}

	if got := m.Suggest("Josh Allen", "BUF", 1); len(got) != 1 {
		t.Errorf("Suggest(limit 1) returned %d", len(got))
	}
	if got := m.Suggest("", "BUF", 10); got != nil {
		t.Errorf("Suggest(empty) = %v, want nil", got)
	}
}

func TestSimilarity(t *testing.T) {
	if s := Similarity("josh allen", "josh allen"); s != 1 {
		t.Errorf("Similarity(identical) = %v, want 1", s)
	}
	if s := Similarity("josh allen", "josh alen"); s <= similarityThreshold {
		t.Errorf("Similarity(one typo) = %v, want > %v", s, similarityThreshold)
	}
	if s := Similarity("josh allen", "tyreek hill"); s > similarityThreshold {
		t.Errorf("Similarity(different) = %v, want <= %v", s, similarityThreshold)
	}
}

func TestMappingToRosterSpelling(t *testing.T) {
	roster := []models.RosterEntry{
		{Name: "Josh P. Allen", Team: "JAX", Position: "LB", HeadshotURL: "https://img/jax-allen"},
	}
	m := New(roster, mapStore{"Josh Allen|BUF": "Josh P. Allen"})
	got, ok := m.Match("Josh Allen", "BUF")
	if !ok || got.Entry.HeadshotURL != "https://img/jax-allen" || got.Tier.Fuzzy() {
		t.Errorf("Match() = %+v, %v; want mapped Josh P. Allen", got, ok)
	}
}
