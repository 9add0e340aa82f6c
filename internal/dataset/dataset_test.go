package dataset

import (
	"errors"
	"reflect"
	"testing"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

func sampleRecords() []models.PlayerRecord {
	return []models.PlayerRecord{
		{Name: "Josh Allen", ID: "Josh_Allen_0", Position: "QB", Team: "BUF", Salary: 8200, BoomPct: 21.3, Leverage: 2.5, HeadshotURL: "/nfl-dfs/headshots/Josh_Allen.png"},
		{Name: "Bijan Robinson", ID: "Bijan_Robinson_1", Position: "RB", Team: "ATL", Salary: 8700, BoomPct: 30.1, Leverage: -1.25},
		{Name: "Bills", ID: "Bills_2", Position: "DST", Team: "BUF", Salary: 3200},
		{Name: "Josh Allen", ID: "Josh_Allen_0", Position: "QB", Team: "BUF", Salary: 8200},
		{Name: "Puka Nacua", ID: "Puka_Nacua_4", Position: "WR", Team: "LAR", Salary: 7400, OwnershipPct: 14.75},
	}
}

func TestAssemble(t *testing.T) {
	ds := Assemble(sampleRecords())

	wantPositions := []string{"ALL", "DST", "QB", "RB", "WR"}
	if !reflect.DeepEqual(ds.Positions, wantPositions) {
		t.Errorf("Positions = %v, want %v", ds.Positions, wantPositions)
	}
	if ds.DefaultPosition != "QB" {
		t.Errorf("DefaultPosition = %q, want QB", ds.DefaultPosition)
	}
	if got := len(ds.Players[models.AllPositions]); got != 4 {
		t.Errorf("len(ALL) = %d, want 4 distinct ids", got)
	}
	if got := len(ds.Players["QB"]); got != 1 {
		t.Errorf("len(QB) = %d, want 1", got)
	}
	if !reflect.DeepEqual(ds.Teams, []string{"ATL", "BUF", "LAR"}) {
		t.Errorf("Teams = %v", ds.Teams)
	}
	if ds.BuildID == "" || ds.GeneratedAt.IsZero() {
		t.Error("BuildID and GeneratedAt should be set")
	}
}

func TestAllHoldsEachDistinctIDOnce(t *testing.T) {
	ds := Assemble(sampleRecords())
	seen := make(map[string]bool)
	for _, r := range ds.Players[models.AllPositions] {
		if seen[r.ID] {
			t.Errorf("id %q appears twice in ALL", r.ID)
		}
		seen[r.ID] = true
	}
	for _, pos := range ds.Positions[1:] {
		for _, r := range ds.Players[pos] {
			if !seen[r.ID] {
				t.Errorf("id %q in %s missing from ALL", r.ID, pos)
			}
		}
	}
}

func TestDefaultPosition(t *testing.T) {
	tests := []struct {
		name      string
		positions []string
		want      string
	}{
		{"prefers QB", []string{"ALL", "DST", "QB", "RB"}, "QB"},
		{"first real position", []string{"ALL", "RB", "WR"}, "RB"},
		{"only ALL", []string{"ALL"}, "ALL"},
		{"empty", nil, "ALL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultPosition(tt.positions); got != tt.want {
				t.Errorf("DefaultPosition(%v) = %q, want %q", tt.positions, got, tt.want)
			}
		})
	}
}

func TestBlobRoundTrip(t *testing.T) {
	ds := Assemble(sampleRecords())

	blob, err := EncodeBlob(ds)
	if err != nil {
		t.Fatalf("EncodeBlob() error = %v", err)
	}
	got, err := DecodeBlob(blob)
	if err != nil {
		t.Fatalf("DecodeBlob() error = %v", err)
	}

	if !reflect.DeepEqual(got.Players, ds.Players) {
		t.Errorf("Players differ after round trip")
	}
	if !reflect.DeepEqual(got.Positions, ds.Positions) {
		t.Errorf("Positions = %v, want %v", got.Positions, ds.Positions)
	}
	if got.DefaultPosition != ds.DefaultPosition {
		t.Errorf("DefaultPosition = %q, want %q", got.DefaultPosition, ds.DefaultPosition)
	}

	again, err := EncodeBlob(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(blob) {
		t.Error("re-encoding is not byte-identical")
	}
}

func TestDecodeBlobInvalid(t *testing.T) {
	if _, err := DecodeBlob([]byte("{not json")); err == nil {
		t.Error("DecodeBlob() accepted invalid JSON")
	}
}

func TestExtractBlob(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "script element",
			html: `<html><script id="dfs-data" type="application/json">{"QB":[]}</script></html>`,
			want: `{"QB":[]}`,
		},
		{
			name: "legacy constant",
			html: "<script>\nconst ORIGINAL_DATA = ({\"ALL\":[]});\nconst x = 1;\n</script>",
			want: `{"ALL":[]}`,
		},
		{
			name: "legacy allData",
			html: "<script>\n  const allData = {\"RB\":[]};\n</script>",
			want: `{"RB":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBlob([]byte(tt.html))
			if err != nil {
				t.Fatalf("ExtractBlob() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractBlob() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ExtractBlob([]byte("<html></html>")); !errors.Is(err, ErrNoBlob) {
		t.Errorf("ExtractBlob() error = %v, want ErrNoBlob", err)
	}
}

func TestHeadshotIndex(t *testing.T) {
	ds := Assemble(sampleRecords())
	idx := HeadshotIndex(ds)
	if got := idx[NameKey(" JOSH ALLEN")]; got != "/nfl-dfs/headshots/Josh_Allen.png" {
		t.Errorf("idx[josh allen] = %q", got)
	}
	if _, ok := idx["bijan robinson"]; ok {
		t.Error("records without headshots should not be indexed")
	}
}
