package chart

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/dataset"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/viewmodel"
)

func testDataset() *models.Dataset {
	return dataset.Assemble([]models.PlayerRecord{
		{Name: "Josh Allen", ID: "a", Position: "QB", Team: "BUF", Salary: 8200, BoomPct: 31, Leverage: 4, OwnershipPct: 18},
		{Name: "Lamar Jackson", ID: "b", Position: "QB", Team: "BAL", Salary: 8000, BoomPct: 28, Leverage: -2, OwnershipPct: 14},
		{Name: "Bo Nix", ID: "c", Position: "QB", Team: "DEN", Salary: 5600, BoomPct: 12, Leverage: 1.5, OwnershipPct: 6},
	})
}

func TestRender(t *testing.T) {
	ds := testDataset()
	var buf bytes.Buffer
	err := Render(&buf, ds, viewmodel.NewState(ds), Options{Title: "QB", Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("image size = %dx%d, want 640x480", b.Dx(), b.Dy())
	}
}

func TestRenderEmpty(t *testing.T) {
	ds := testDataset()
	s := viewmodel.NewState(ds).SetSalaryRange(viewmodel.Range{Min: 10000, Max: 12000})
	err := Render(&bytes.Buffer{}, ds, s, Options{})
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Render() error = %v, want ErrEmpty", err)
	}
}

func TestWriteFile(t *testing.T) {
	ds := testDataset()
	path := filepath.Join(t.TempDir(), "out", "chart.png")
	if err := WriteFile(path, ds, viewmodel.NewState(ds), Options{}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestAxisRange(t *testing.T) {
	tests := []struct {
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{0, 10, 0, 10},
		{5, 5, 4, 6},
		{0, 0, -1, 1},
	}
	for _, tt := range tests {
		r := axisRange(tt.lo, tt.hi)
		if r.Min != tt.wantLo || r.Max != tt.wantHi {
			t.Errorf("axisRange(%v, %v) = [%v, %v], want [%v, %v]", tt.lo, tt.hi, r.Min, r.Max, tt.wantLo, tt.wantHi)
		}
	}
}
