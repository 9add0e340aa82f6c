package viewmodel

import (
	"cmp"
	"slices"
	"strings"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

const PageSize = 25

// Column names a table column by its serialized record key.
type Column string

const (
	ColumnName     Column = "player_name"
	ColumnTeam     Column = "team_abbr"
	ColumnPosition Column = "position"
)

type ColumnKind string

const (
	KindText  ColumnKind = "text"
	KindSet   ColumnKind = "set"
	KindRange ColumnKind = "range"
)

type ColumnDef struct {
	Key    Column     `json:"key"`
	Label  string     `json:"label"`
	Kind   ColumnKind `json:"kind"`
	Locked bool       `json:"locked,omitempty"`
}

// Columns lists the table columns in display order.
var Columns = []ColumnDef{
	{Key: ColumnName, Label: "Player", Kind: KindText, Locked: true},
	{Key: ColumnTeam, Label: "Team", Kind: KindSet},
	{Key: ColumnPosition, Label: "Pos", Kind: KindSet},
	{Key: Column(models.FieldSalary), Label: "Salary", Kind: KindRange},
	{Key: Column(models.FieldProjection), Label: "Proj", Kind: KindRange},
	{Key: Column(models.FieldStdDev), Label: "Std Dev", Kind: KindRange},
	{Key: Column(models.FieldCeiling), Label: "Ceiling", Kind: KindRange},
	{Key: Column(models.FieldBoom), Label: "Boom%", Kind: KindRange},
	{Key: Column(models.FieldBust), Label: "Bust%", Kind: KindRange},
	{Key: Column(models.FieldOwnership), Label: "Own%", Kind: KindRange},
	{Key: Column(models.FieldOptimal), Label: "Opt%", Kind: KindRange},
	{Key: Column(models.FieldLeverage), Label: "Lev", Kind: KindRange},
}

func columnByKey(c Column) (ColumnDef, bool) {
	for _, def := range Columns {
		if def.Key == c {
			return def, true
		}
	}
	return ColumnDef{}, false
}

func textValue(p models.PlayerRecord, c Column) (string, bool) {
	switch c {
	case ColumnName:
		return p.Name, true
	case ColumnTeam:
		return p.Team, true
	case ColumnPosition:
		return p.Position, true
	}
	return "", false
}

// TableView is one page of filtered, sorted rows.
type TableView struct {
	Rows      []models.PlayerRecord
	Total     int
	Page      int
	PageCount int
	First     int
	Last      int
}

// Empty reports whether no rows survived filtering.
func (t TableView) Empty() bool {
	return t.Total == 0
}

// FilterTable applies the shared chart filters, then the table's search
// text and column filters.
func FilterTable(records []models.PlayerRecord, s State) []models.PlayerRecord {
	search := strings.ToLower(strings.TrimSpace(s.Search))
	var out []models.PlayerRecord
	for _, p := range FilterChart(records, s) {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Team), search) {
			continue
		}
		if !matchesColumnFilters(p, s.ColumnFilters) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesColumnFilters(p models.PlayerRecord, filters map[Column]ColumnFilter) bool {
	for c, f := range filters {
		if text, ok := textValue(p, c); ok {
			if len(f.Values) > 0 && !slices.Contains(f.Values, text) {
				return false
			}
			continue
		}
		v := p.Value(models.Field(c))
		if f.Min != nil && v < *f.Min {
			return false
		}
		if f.Max != nil && v > *f.Max {
			return false
		}
	}
	return true
}

// SortRecords returns a stably sorted copy; equal values keep their order.
func SortRecords(records []models.PlayerRecord, srt Sort) []models.PlayerRecord {
	out := slices.Clone(records)
	if srt.Column == "" {
		return out
	}
	_, isText := textValue(models.PlayerRecord{}, srt.Column)
	slices.SortStableFunc(out, func(a, b models.PlayerRecord) int {
		var c int
		if isText {
			av, _ := textValue(a, srt.Column)
			bv, _ := textValue(b, srt.Column)
			c = cmp.Compare(av, bv)
		} else {
			c = cmp.Compare(a.Value(models.Field(srt.Column)), b.Value(models.Field(srt.Column)))
		}
		if srt.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}

// PageCount is the number of pages needed for total rows.
func PageCount(total int) int {
	return (total + PageSize - 1) / PageSize
}

// ClampPage bounds page to [1, PageCount(total)], treating zero pages as one.
func ClampPage(page, total int) int {
	maxPage := max(1, PageCount(total))
	return min(max(page, 1), maxPage)
}

// Table derives the visible table page for a state.
func Table(ds *models.Dataset, s State) TableView {
	rows := SortRecords(FilterTable(ResolveBase(ds, s.SelectedPositions), s), s.Sort)
	total := len(rows)
	page := ClampPage(s.Page, total)
	start := min((page-1)*PageSize, total)
	end := min(start+PageSize, total)
	tv := TableView{
		Rows:      rows[start:end],
		Total:     total,
		Page:      page,
		PageCount: PageCount(total),
	}
	if total > 0 {
		tv.First = start + 1
		tv.Last = end
	}
	return tv
}

// VisibleColumnDefs returns the displayed column definitions in order.
func (s State) VisibleColumnDefs() []ColumnDef {
	var out []ColumnDef
	for _, c := range Columns {
		if c.Locked || s.VisibleColumns[c.Key] {
			out = append(out, c)
		}
	}
	return out
}
