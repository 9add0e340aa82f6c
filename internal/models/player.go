package models

import "strings"

// AllPositions is the synthetic dataset key holding every player once.
const AllPositions = "ALL"

const PositionDST = "DST"

// PlayerRecord is one normalized row of DFS projection data.
type PlayerRecord struct {
	Name         string  `json:"player_name"`
	ID           string  `json:"player_id"`
	Position     string  `json:"position"`
	Team         string  `json:"team_abbr"`
	Salary       float64 `json:"salary"`
	Projection   float64 `json:"dk_projection"`
	StdDev       float64 `json:"std_dev"`
	Ceiling      float64 `json:"ceiling"`
	BustPct      float64 `json:"bust_pct"`
	BoomPct      float64 `json:"boom_pct"`
	OwnershipPct float64 `json:"ownership_pct"`
	OptimalPct   float64 `json:"optimal_pct"`
	Leverage     float64 `json:"leverage"`
	HeadshotURL  string  `json:"headshot_url"`
}

// Field names a numeric statistic of a PlayerRecord by its serialized key.
type Field string

const (
	FieldBoom       Field = "boom_pct"
	FieldBust       Field = "bust_pct"
	FieldLeverage   Field = "leverage"
	FieldOwnership  Field = "ownership_pct"
	FieldOptimal    Field = "optimal_pct"
	FieldSalary     Field = "salary"
	FieldProjection Field = "dk_projection"
	FieldStdDev     Field = "std_dev"
	FieldCeiling    Field = "ceiling"
)

// NumericFields lists every selectable statistic in display order.
var NumericFields = []Field{
	FieldBoom,
	FieldBust,
	FieldLeverage,
	FieldOwnership,
	FieldOptimal,
	FieldSalary,
	FieldProjection,
	FieldStdDev,
	FieldCeiling,
}

var fieldLabels = map[Field]string{
	FieldBoom:       "Boom %",
	FieldBust:       "Bust %",
	FieldLeverage:   "Leverage",
	FieldOwnership:  "Ownership %",
	FieldOptimal:    "Optimal %",
	FieldSalary:     "Salary",
	FieldProjection: "Projection",
	FieldStdDev:     "Std Dev",
	FieldCeiling:    "Ceiling",
}

func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// Value returns the record's value for a numeric field, or 0 for unknown fields.
func (p PlayerRecord) Value(f Field) float64 {
	switch f {
	case FieldBoom:
		return p.BoomPct
	case FieldBust:
		return p.BustPct
	case FieldLeverage:
		return p.Leverage
	case FieldOwnership:
		return p.OwnershipPct
	case FieldOptimal:
		return p.OptimalPct
	case FieldSalary:
		return p.Salary
	case FieldProjection:
		return p.Projection
	case FieldStdDev:
		return p.StdDev
	case FieldCeiling:
		return p.Ceiling
	}
	return 0
}

var nameSuffixes = map[string]bool{
	"Jr.": true, "Sr.": true, "Jr": true, "Sr": true,
	"II": true, "III": true, "IV": true, "V": true,
}

// LastName returns the final name token, skipping generational suffixes
// when the name has more than two parts.
func LastName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	last := parts[len(parts)-1]
	if len(parts) > 2 && nameSuffixes[last] {
		return parts[len(parts)-2]
	}
	return last
}
