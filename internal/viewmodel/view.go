package viewmodel

import "github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"

// View is everything a surface renders for one state.
type View struct {
	State State
	Chart ChartView
	Table TableView
}

// Derive recomputes the full view. It is pure and safe to call on every
// state change.
func Derive(ds *models.Dataset, s State) View {
	return View{
		State: s,
		Chart: Chart(ds, s),
		Table: Table(ds, s),
	}
}

type StatOption struct {
	Value models.Field `json:"value"`
	Label string       `json:"label"`
}

// ClientConfig carries the constants the report script needs so both
// implementations agree.
type ClientConfig struct {
	PageSize       int                 `json:"pageSize"`
	SalaryRange    Range               `json:"salaryRange"`
	OwnershipRange Range               `json:"ownershipRange"`
	XField         models.Field        `json:"xField"`
	YField         models.Field        `json:"yField"`
	SizeField      models.Field        `json:"sizeField"`
	LeverageField  models.Field        `json:"leverageField"`
	StatOptions    []StatOption        `json:"statOptions"`
	Columns        []ColumnDef         `json:"columns"`
	QuadrantColors map[Quadrant]string `json:"quadrantColors"`
	MinBubble      float64             `json:"minBubble"`
	MaxBubble      float64             `json:"maxBubble"`
	LabelRadius    float64             `json:"labelRadius"`
	TeamColors     map[string]string   `json:"teamColors"`
}

func NewClientConfig() ClientConfig {
	opts := make([]StatOption, len(models.NumericFields))
	for i, f := range models.NumericFields {
		opts[i] = StatOption{Value: f, Label: f.Label()}
	}
	colors := make(map[Quadrant]string, len(quadrantColors))
	for k, v := range quadrantColors {
		colors[k] = v
	}
	return ClientConfig{
		PageSize:       PageSize,
		SalaryRange:    Range{Min: DefaultSalaryMin, Max: DefaultSalaryMax},
		OwnershipRange: Range{Min: DefaultOwnershipMin, Max: DefaultOwnershipMax},
		XField:         DefaultXField,
		YField:         DefaultYField,
		SizeField:      DefaultSizeField,
		LeverageField:  models.FieldLeverage,
		StatOptions:    opts,
		Columns:        Columns,
		QuadrantColors: colors,
		MinBubble:      MinBubble,
		MaxBubble:      MaxBubble,
		LabelRadius:    LabelRadius,
		TeamColors:     models.TeamColors(),
	}
}
