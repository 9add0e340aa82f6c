package viewmodel

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestPagination(t *testing.T) {
	var all []models.PlayerRecord
	for i := 0; i < 57; i++ {
		all = append(all, rec(fmt.Sprintf("p%02d", i), "WR", "DAL", 5000, 10))
	}
	ds := &models.Dataset{
		Positions: []string{"ALL", "WR"},
		Players:   map[string][]models.PlayerRecord{"ALL": all, "WR": all},
	}
	s := NewState(ds)

	if got := PageCount(57); got != 3 {
		t.Errorf("PageCount(57) = %d, want 3", got)
	}

	tests := []struct {
		page     int
		wantPage int
		wantRows int
		first    int
		last     int
	}{
		{1, 1, 25, 1, 25},
		{3, 3, 7, 51, 57},
		{4, 3, 7, 51, 57},
		{0, 1, 25, 1, 25},
	}
	for _, tt := range tests {
		tv := Table(ds, s.SetPage(tt.page))
		if tv.Page != tt.wantPage || len(tv.Rows) != tt.wantRows || tv.First != tt.first || tv.Last != tt.last {
			t.Errorf("page %d: got page %d rows %d [%d-%d], want page %d rows %d [%d-%d]",
				tt.page, tv.Page, len(tv.Rows), tv.First, tv.Last, tt.wantPage, tt.wantRows, tt.first, tt.last)
		}
		if tv.PageCount != 3 || tv.Total != 57 {
			t.Errorf("PageCount/Total = %d/%d", tv.PageCount, tv.Total)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{4, 57, 3},
		{2, 0, 1},
		{-3, 10, 1},
		{2, 50, 2},
		{3, 50, 2},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestSortStable(t *testing.T) {
	records := []models.PlayerRecord{
		rec("a", "WR", "DAL", 5000, 1),
		rec("b", "WR", "BUF", 6000, 1),
		rec("c", "WR", "ATL", 5000, 1),
		rec("d", "WR", "BUF", 4000, 1),
	}
	tests := []struct {
		sort Sort
		want []string
	}{
		{Sort{}, []string{"a", "b", "c", "d"}},
		{Sort{Column: Column(models.FieldSalary), Direction: Asc}, []string{"d", "a", "c", "b"}},
		{Sort{Column: Column(models.FieldSalary), Direction: Desc}, []string{"b", "a", "c", "d"}},
		{Sort{Column: ColumnTeam, Direction: Asc}, []string{"c", "b", "d", "a"}},
	}
	for _, tt := range tests {
		got := ids(SortRecords(records, tt.sort))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SortRecords(%+v) = %v, want %v", tt.sort, got, tt.want)
		}
	}
	if ids(records)[0] != "a" {
		t.Error("SortRecords mutated its input")
	}
}

func TestToggleSort(t *testing.T) {
	s := NewState(testDataset())
	s = s.ToggleSort(Column(models.FieldSalary))
	if s.Sort != (Sort{Column: Column(models.FieldSalary), Direction: Asc}) {
		t.Errorf("first toggle = %+v", s.Sort)
	}
	s = s.ToggleSort(Column(models.FieldSalary))
	if s.Sort.Direction != Desc {
		t.Errorf("second toggle = %+v", s.Sort)
	}
	s = s.ToggleSort(ColumnName)
	if s.Sort != (Sort{Column: ColumnName, Direction: Asc}) {
		t.Errorf("new column = %+v", s.Sort)
	}
}

func TestTableFilters(t *testing.T) {
	ds := testDataset()
	base := NewState(ds).TogglePosition("ALL").SetPage(2)

	tests := []struct {
		name  string
		state State
		want  []string
	}{
		{"search name", base.SetSearch("MAHO"), []string{"Mahomes"}},
		{"search team", base.SetSearch("buf"), []string{"Allen", "Cook"}},
		{"set filter", base.SetColumnFilter(ColumnPosition, ColumnFilter{Values: []string{"QB"}}), []string{"Allen", "Mahomes"}},
		{"range filter", base.SetColumnFilter(Column(models.FieldSalary), ColumnFilter{Min: floatPtr(6000), Max: floatPtr(8000)}), []string{"Mahomes", "Cook"}},
		{"chart filters apply", base.ToggleTeam("HOU"), []string{"Diggs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := Table(ds, tt.state)
			if got := ids(tv.Rows); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
		})
	}

	if got := base.SetSearch("x").Page; got != 1 {
		t.Errorf("SetSearch left page %d, want 1", got)
	}
	cleared := base.SetColumnFilter(ColumnTeam, ColumnFilter{Values: []string{"KC"}}).ClearColumnFilters()
	if len(cleared.ColumnFilters) != 0 || cleared.Search != "" || cleared.Page != 1 {
		t.Errorf("ClearColumnFilters() = %+v", cleared)
	}
	if s := base.SetColumnFilter(ColumnTeam, ColumnFilter{}); len(s.ColumnFilters) != 0 {
		t.Error("inactive filter should be removed")
	}
}

func TestTableEmpty(t *testing.T) {
	ds := testDataset()
	tv := Table(ds, NewState(ds).SetSearch("nobody"))
	if !tv.Empty() || tv.Page != 1 || tv.First != 0 {
		t.Errorf("empty table = %+v", tv)
	}
}

func TestDerive(t *testing.T) {
	ds := testDataset()
	v := Derive(ds, NewState(ds))
	if len(v.Chart.Points) != 2 || v.Table.Total != 2 {
		t.Errorf("Derive() chart %d points, table %d rows; want 2/2", len(v.Chart.Points), v.Table.Total)
	}
	cfg := NewClientConfig()
	if cfg.PageSize != PageSize || len(cfg.StatOptions) != len(models.NumericFields) || len(cfg.TeamColors) != 32 {
		t.Errorf("NewClientConfig() = %+v", cfg)
	}
}
