package viewmodel

import (
	"math"
	"slices"
	"unicode/utf16"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

// Quadrant is a chart point's classification against the axis midpoints.
type Quadrant string

const (
	HighHigh Quadrant = "high-high"
	LowHigh  Quadrant = "low-high"
	HighLow  Quadrant = "high-low"
	LowLow   Quadrant = "low-low"
)

var quadrantColors = map[Quadrant]string{
	HighHigh: "#059669",
	LowHigh:  "#d97706",
	HighLow:  "#6b7280",
	LowLow:   "#dc2626",
}

func (q Quadrant) Color() string {
	return quadrantColors[q]
}

const (
	MinBubble = 24.0
	MaxBubble = 48.0

	// LabelRadius is the data-unit distance within which labels crowd.
	LabelRadius = 3.0
)

// Placement is where a point's label sits relative to its bubble.
type Placement string

const (
	PlaceBelow      Placement = "below"
	PlaceBelowRight Placement = "below-right"
	PlaceBelowLeft  Placement = "below-left"
	PlaceAbove      Placement = "above"
	PlaceBelowFar   Placement = "below-far"
)

// Stats are the nearest-rank statistics of the filtered chart set.
type Stats struct {
	XMedian  float64
	X75      float64
	Y75      float64
	YMid     float64
	SizeMin  float64
	SizeMax  float64
	Defaults Bounds
}

// ChartPoint is one rendered bubble.
type ChartPoint struct {
	Record    models.PlayerRecord
	X, Y      float64
	Size      float64
	Quadrant  Quadrant
	ShowLabel bool
	Label     string
	Placement Placement
}

type ChartView struct {
	Points []ChartPoint
	Stats  Stats
	Domain Bounds
	Zoomed bool
}

// Empty reports whether no records survived filtering; callers render an
// explicit empty state instead of a blank chart.
func (c ChartView) Empty() bool {
	return len(c.Points) == 0
}

// ResolveBase returns the records for the selected positions. ALL wins
// outright; otherwise buckets are merged in dataset position order with
// the first occurrence of each id kept.
func ResolveBase(ds *models.Dataset, selected []string) []models.PlayerRecord {
	if ds == nil {
		return nil
	}
	if slices.Contains(selected, models.AllPositions) {
		return ds.Players[models.AllPositions]
	}

	order := ds.Positions
	if len(order) == 0 {
		order = selected
	}
	seen := make(map[string]bool)
	var out []models.PlayerRecord
	for _, pos := range order {
		if !slices.Contains(selected, pos) {
			continue
		}
		for _, p := range ds.Players[pos] {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}

// FilterChart keeps records matching the team, salary and ownership filters.
func FilterChart(records []models.PlayerRecord, s State) []models.PlayerRecord {
	var out []models.PlayerRecord
	for _, p := range records {
		if len(s.SelectedTeams) > 0 && !slices.Contains(s.SelectedTeams, p.Team) {
			continue
		}
		if !s.SalaryRange.Contains(p.Salary) || !s.OwnershipRange.Contains(p.OwnershipPct) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ComputeStats derives medians, percentiles and default axis bounds.
// It returns the zero Stats for an empty set.
func ComputeStats(records []models.PlayerRecord, x, y, size models.Field) Stats {
	n := len(records)
	if n == 0 {
		return Stats{}
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	var st Stats
	st.SizeMin, st.SizeMax = math.Inf(1), math.Inf(-1)
	for i, p := range records {
		xs[i] = p.Value(x)
		ys[i] = p.Value(y)
		sz := p.Value(size)
		st.SizeMin = math.Min(st.SizeMin, sz)
		st.SizeMax = math.Max(st.SizeMax, sz)
	}
	slices.Sort(xs)
	slices.Sort(ys)

	st.XMedian = xs[n/2]
	st.X75 = xs[n*3/4]
	st.Y75 = ys[n*3/4]
	st.YMid = YMidpoint(y, st.XMedian)
	st.Defaults = Bounds{
		Left:   padLow(xs[0]),
		Right:  padHigh(xs[n-1]),
		Bottom: padLow(ys[0]),
		Top:    padHigh(ys[n-1]),
	}
	return st
}

// YMidpoint is 0 for leverage, whose sign is meaningful, and otherwise
// reuses the X median.
func YMidpoint(y models.Field, xMedian float64) float64 {
	if y == models.FieldLeverage {
		return 0
	}
	return xMedian
}

func padLow(v float64) float64 {
	return math.Floor(v - math.Abs(v*0.05))
}

func padHigh(v float64) float64 {
	return math.Ceil(v + math.Abs(v*0.05))
}

// Classify places a point in a quadrant. Ties go to the high side.
func Classify(xv, yv, xMedian, yMid float64) Quadrant {
	highX := xv >= xMedian
	highY := yv >= yMid
	switch {
	case highX && highY:
		return HighHigh
	case !highX && highY:
		return LowHigh
	case highX && !highY:
		return HighLow
	default:
		return LowLow
	}
}

// BubbleSize maps v linearly into [MinBubble, MaxBubble]. A uniform size
// field yields the midpoint.
func BubbleSize(v, lo, hi float64) float64 {
	if hi <= lo {
		return (MinBubble + MaxBubble) / 2
	}
	return MinBubble + (v-lo)/(hi-lo)*(MaxBubble-MinBubble)
}

// LabelHash is the sum of an id's UTF-16 code units modulo 4, matching
// the browser's charCodeAt.
func LabelHash(id string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(id)) {
		sum += int(u)
	}
	return sum % 4
}

// PlacementFor picks a label spot; crowded points spread by id hash.
func PlacementFor(id string, crowded bool) Placement {
	if !crowded {
		return PlaceBelow
	}
	switch LabelHash(id) {
	case 0:
		return PlaceBelowRight
	case 1:
		return PlaceBelowLeft
	case 2:
		return PlaceAbove
	default:
		return PlaceBelowFar
	}
}

// Chart derives the scatter view for a state.
func Chart(ds *models.Dataset, s State) ChartView {
	records := FilterChart(ResolveBase(ds, s.SelectedPositions), s)
	st := ComputeStats(records, s.XField, s.YField, s.SizeField)

	view := ChartView{Stats: st, Domain: st.Defaults}
	if s.Zoom != nil {
		view.Domain = *s.Zoom
		view.Zoomed = true
	}
	if len(records) == 0 {
		return view
	}

	view.Points = make([]ChartPoint, len(records))
	for i, p := range records {
		xv, yv := p.Value(s.XField), p.Value(s.YField)
		view.Points[i] = ChartPoint{
			Record:    p,
			X:         xv,
			Y:         yv,
			Size:      BubbleSize(p.Value(s.SizeField), st.SizeMin, st.SizeMax),
			Quadrant:  Classify(xv, yv, st.XMedian, st.YMid),
			ShowLabel: xv >= st.X75 || yv >= st.Y75,
			Label:     models.LastName(p.Name),
		}
	}
	for i := range view.Points {
		pt := &view.Points[i]
		pt.Placement = PlacementFor(pt.Record.ID, crowded(view.Points, i))
	}
	return view
}

func crowded(points []ChartPoint, i int) bool {
	for j, o := range points {
		if j == i {
			continue
		}
		if math.Hypot(o.X-points[i].X, o.Y-points[i].Y) < LabelRadius {
			return true
		}
	}
	return false
}
