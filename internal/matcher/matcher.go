package matcher

import (
	"sort"
	"strings"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Tier identifies which rule produced a roster match.
type Tier int

const (
	TierNone Tier = iota
	TierMapping
	TierExact
	TierLastNameTeam
	TierNameAnyTeam
)

func (t Tier) String() string {
	switch t {
	case TierMapping:
		return "mapping"
	case TierExact:
		return "exact"
	case TierLastNameTeam:
		return "last name + team"
	case TierNameAnyTeam:
		return "name, any team"
	default:
		return "none"
	}
}

// Fuzzy reports whether the tier is a guess that deserves human review.
func (t Tier) Fuzzy() bool {
	return t == TierLastNameTeam || t == TierNameAnyTeam
}

// Mappings resolves an input name and team to a canonical roster name.
type Mappings interface {
	Lookup(name, team string) (string, bool)
}

type Match struct {
	Entry models.RosterEntry
	Tier  Tier
}

const similarityThreshold = 0.7

type Matcher struct {
	roster   []models.RosterEntry
	mappings Mappings
}

func New(roster []models.RosterEntry, mappings Mappings) *Matcher {
	return &Matcher{roster: roster, mappings: mappings}
}

func (m *Matcher) Roster() []models.RosterEntry {
	return m.roster
}

// Match finds the roster entry with a headshot for an input name, trying
// the mapping store first and then each tier in order.
func (m *Matcher) Match(name, team string) (Match, bool) {
	team = models.NormalizeTeam(team)

	if m.mappings != nil {
		if canonical, ok := m.mappings.Lookup(name, team); ok {
			if e, ok := m.first(func(e models.RosterEntry) bool {
				return strings.EqualFold(e.Name, canonical)
			}); ok {
				return Match{Entry: e, Tier: TierMapping}, true
			}
		}
	}

	if e, ok := m.first(func(e models.RosterEntry) bool {
		return strings.EqualFold(e.Name, name) && e.Team == team
	}); ok {
		return Match{Entry: e, Tier: TierExact}, true
	}

	last := strings.ToLower(models.LastName(name))
	if last != "" && team != "" {
		if e, ok := m.first(func(e models.RosterEntry) bool {
			return e.Team == team && strings.Contains(strings.ToLower(e.Name), last)
		}); ok {
			return Match{Entry: e, Tier: TierLastNameTeam}, true
		}
	}

	full := strings.ToLower(strings.TrimSpace(name))
	if full != "" {
		if e, ok := m.first(func(e models.RosterEntry) bool {
			return strings.Contains(strings.ToLower(e.Name), full)
		}); ok {
			return Match{Entry: e, Tier: TierNameAnyTeam}, true
		}
	}

	return Match{}, false
}

func (m *Matcher) first(pred func(models.RosterEntry) bool) (models.RosterEntry, bool) {
	for _, e := range m.roster {
		if e.HeadshotURL != "" && pred(e) {
			return e, true
		}
	}
	return models.RosterEntry{}, false
}

// Suggest lists candidate roster entries for an unmatched name: last-name
// hits on the same team first, then ranked last-name hits on any team,
// then whole-name near misses.
func (m *Matcher) Suggest(name, team string, limit int) []models.RosterEntry {
	if limit <= 0 {
		limit = 10
	}
	team = models.NormalizeTeam(team)
	last := models.LastName(name)
	if last == "" {
		return nil
	}

	var out []models.RosterEntry
	seen := make(map[string]bool)
	add := func(e models.RosterEntry) bool {
		key := e.Name + "|" + e.Team
		if !seen[key] {
			seen[key] = true
			out = append(out, e)
		}
		return len(out) >= limit
	}

	lowerLast := strings.ToLower(last)
	if team != "" {
		for _, e := range m.roster {
			if e.Team == team && strings.Contains(strings.ToLower(e.Name), lowerLast) {
				if add(e) {
					return out
				}
			}
		}
	}

	names := make([]string, len(m.roster))
	for i, e := range m.roster {
		names[i] = e.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(last, names)
	sort.Sort(ranks)
	for _, r := range ranks {
		e := m.roster[r.OriginalIndex]
		if !strings.Contains(strings.ToLower(e.Name), lowerLast) {
			continue
		}
		if add(e) {
			return out
		}
	}

	type scored struct {
		entry models.RosterEntry
		score float64
	}
	var near []scored
	lowerName := strings.ToLower(name)
	for _, e := range m.roster {
		if s := Similarity(lowerName, strings.ToLower(e.Name)); s > similarityThreshold {
			near = append(near, scored{e, s})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].score > near[j].score })
	for _, n := range near {
		if add(n.entry) {
			return out
		}
	}
	return out
}

// Similarity is 1 minus the Levenshtein distance over the longer length.
func Similarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(distance)/float64(maxLen)
}
