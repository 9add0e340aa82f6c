// Package viewmodel holds the report's interactive state and the pure
// functions that derive chart points and table rows from it. The script
// embedded in the rendered report mirrors these rules.
package viewmodel

import (
	"math"
	"slices"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

type Tab string

const (
	TabChart Tab = "chart"
	TabTable Tab = "table"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	DefaultSalaryMin    = 3000
	DefaultSalaryMax    = 12000
	DefaultOwnershipMin = 0
	DefaultOwnershipMax = 100

	DefaultXField    = models.FieldBoom
	DefaultYField    = models.FieldLeverage
	DefaultSizeField = models.FieldOwnership
)

// Range is a closed interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) normalized() Range {
	if r.Min > r.Max {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// Bounds is an axis-aligned rectangle in data coordinates.
type Bounds struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

// Point is a position in data coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sort selects a table column and direction. An empty Column keeps
// the filtered order.
type Sort struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// ColumnFilter restricts one table column, either to a set of values
// (text columns) or to an optional closed range (numeric columns).
type ColumnFilter struct {
	Values []string `json:"values,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

func (f ColumnFilter) active() bool {
	return len(f.Values) > 0 || f.Min != nil || f.Max != nil
}

// State is the complete chart and table configuration. Action methods
// return a new State and never modify the receiver.
type State struct {
	ActiveTab         Tab                     `json:"activeTab"`
	SelectedPositions []string                `json:"selectedPositions"`
	SelectedTeams     []string                `json:"selectedTeams"`
	SalaryRange       Range                   `json:"salaryRange"`
	OwnershipRange    Range                   `json:"ownershipRange"`
	XField            models.Field            `json:"xField"`
	YField            models.Field            `json:"yField"`
	SizeField         models.Field            `json:"sizeField"`
	Zoom              *Bounds                 `json:"zoom,omitempty"`
	DragStart         *Point                  `json:"dragStart,omitempty"`
	DragEnd           *Point                  `json:"dragEnd,omitempty"`
	Sort              Sort                    `json:"sort"`
	Search            string                  `json:"search"`
	ColumnFilters     map[Column]ColumnFilter `json:"columnFilters"`
	Page              int                     `json:"page"`
	VisibleColumns    map[Column]bool         `json:"visibleColumns"`

	defaultPosition string
}

// NewState returns the initial state for a dataset.
func NewState(ds *models.Dataset) State {
	def := models.AllPositions
	if ds != nil && ds.DefaultPosition != "" {
		def = ds.DefaultPosition
	}
	visible := make(map[Column]bool, len(Columns))
	for _, c := range Columns {
		visible[c.Key] = true
	}
	return State{
		ActiveTab:         TabChart,
		SelectedPositions: []string{def},
		SalaryRange:       Range{Min: DefaultSalaryMin, Max: DefaultSalaryMax},
		OwnershipRange:    Range{Min: DefaultOwnershipMin, Max: DefaultOwnershipMax},
		XField:            DefaultXField,
		YField:            DefaultYField,
		SizeField:         DefaultSizeField,
		Sort:              Sort{Direction: Asc},
		ColumnFilters:     make(map[Column]ColumnFilter),
		Page:              1,
		VisibleColumns:    visible,
		defaultPosition:   def,
	}
}

func (s State) clone() State {
	out := s
	out.SelectedPositions = slices.Clone(s.SelectedPositions)
	out.SelectedTeams = slices.Clone(s.SelectedTeams)
	if s.Zoom != nil {
		z := *s.Zoom
		out.Zoom = &z
	}
	if s.DragStart != nil {
		p := *s.DragStart
		out.DragStart = &p
	}
	if s.DragEnd != nil {
		p := *s.DragEnd
		out.DragEnd = &p
	}
	out.ColumnFilters = make(map[Column]ColumnFilter, len(s.ColumnFilters))
	for k, v := range s.ColumnFilters {
		v.Values = slices.Clone(v.Values)
		out.ColumnFilters[k] = v
	}
	out.VisibleColumns = make(map[Column]bool, len(s.VisibleColumns))
	for k, v := range s.VisibleColumns {
		out.VisibleColumns[k] = v
	}
	return out
}

func (s State) SetTab(t Tab) State {
	out := s.clone()
	out.ActiveTab = t
	return out
}

// TogglePosition adds or removes a position. Removing the last selected
// position is a no-op.
func (s State) TogglePosition(pos string) State {
	out := s.clone()
	if i := slices.Index(out.SelectedPositions, pos); i >= 0 {
		if len(out.SelectedPositions) == 1 {
			return out
		}
		out.SelectedPositions = slices.Delete(out.SelectedPositions, i, i+1)
		return out
	}
	out.SelectedPositions = append(out.SelectedPositions, pos)
	return out
}

// ToggleTeam adds or removes a team. An empty team set means all teams.
func (s State) ToggleTeam(team string) State {
	out := s.clone()
	if i := slices.Index(out.SelectedTeams, team); i >= 0 {
		out.SelectedTeams = slices.Delete(out.SelectedTeams, i, i+1)
		return out
	}
	out.SelectedTeams = append(out.SelectedTeams, team)
	return out
}

func (s State) SetSalaryRange(r Range) State {
	out := s.clone()
	out.SalaryRange = r.normalized()
	return out
}

func (s State) SetOwnershipRange(r Range) State {
	out := s.clone()
	out.OwnershipRange = r.normalized()
	return out
}

// SetAxes changes the plotted fields; unknown fields are ignored.
func (s State) SetAxes(x, y, size models.Field) State {
	out := s.clone()
	if x.Valid() {
		out.XField = x
	}
	if y.Valid() {
		out.YField = y
	}
	if size.Valid() {
		out.SizeField = size
	}
	return out
}

// BeginDrag starts a zoom selection.
func (s State) BeginDrag(p Point) State {
	out := s.clone()
	out.DragStart = &p
	out.DragEnd = nil
	return out
}

// DragTo extends an in-progress zoom selection.
func (s State) DragTo(p Point) State {
	if s.DragStart == nil {
		return s.clone()
	}
	out := s.clone()
	out.DragEnd = &p
	return out
}

// EndDrag applies the dragged rectangle as the zoom, rounded to hundredths
// with bounds ordered. A zero-width or zero-height selection only clears
// the drag.
func (s State) EndDrag() State {
	out := s.clone()
	start, end := out.DragStart, out.DragEnd
	out.DragStart, out.DragEnd = nil, nil
	if start == nil || end == nil || start.X == end.X || start.Y == end.Y {
		return out
	}
	left, right := start.X, end.X
	if left > right {
		left, right = right, left
	}
	bottom, top := end.Y, start.Y
	if bottom > top {
		bottom, top = top, bottom
	}
	out.Zoom = &Bounds{
		Left:   round2(left),
		Right:  round2(right),
		Bottom: round2(bottom),
		Top:    round2(top),
	}
	return out
}

// ResetZoom clears explicit bounds and any in-progress drag.
func (s State) ResetZoom() State {
	out := s.clone()
	out.Zoom = nil
	out.DragStart, out.DragEnd = nil, nil
	return out
}

// ClearFilters restores the chart filters to their defaults.
func (s State) ClearFilters() State {
	out := s.clone()
	def := s.defaultPosition
	if def == "" {
		def = models.AllPositions
	}
	out.SelectedPositions = []string{def}
	out.SelectedTeams = nil
	out.SalaryRange = Range{Min: DefaultSalaryMin, Max: DefaultSalaryMax}
	out.OwnershipRange = Range{Min: DefaultOwnershipMin, Max: DefaultOwnershipMax}
	return out
}

// SetSearch updates the table search text and returns to the first page.
func (s State) SetSearch(q string) State {
	out := s.clone()
	out.Search = q
	out.Page = 1
	return out
}

// SetColumnFilter replaces one column's filter and returns to the first page.
func (s State) SetColumnFilter(c Column, f ColumnFilter) State {
	out := s.clone()
	if f.active() {
		f.Values = slices.Clone(f.Values)
		out.ColumnFilters[c] = f
	} else {
		delete(out.ColumnFilters, c)
	}
	out.Page = 1
	return out
}

// ClearColumnFilters drops every table filter, the search text and the sort.
func (s State) ClearColumnFilters() State {
	out := s.clone()
	out.ColumnFilters = make(map[Column]ColumnFilter)
	out.Search = ""
	out.Sort = Sort{Direction: Asc}
	out.Page = 1
	return out
}

// ToggleSort sorts by c ascending, or flips direction if already sorted by c.
func (s State) ToggleSort(c Column) State {
	out := s.clone()
	if out.Sort.Column == c && out.Sort.Direction == Asc {
		out.Sort = Sort{Column: c, Direction: Desc}
	} else {
		out.Sort = Sort{Column: c, Direction: Asc}
	}
	return out
}

func (s State) SetPage(p int) State {
	out := s.clone()
	out.Page = p
	return out
}

// ToggleColumn shows or hides a column. Locked columns stay visible.
func (s State) ToggleColumn(c Column) State {
	out := s.clone()
	if col, ok := columnByKey(c); !ok || col.Locked {
		return out
	}
	out.VisibleColumns[c] = !out.VisibleColumns[c]
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
