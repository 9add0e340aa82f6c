// Package report renders the self-contained interactive HTML document.
package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/dataset"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/fsutil"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/headshot"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/viewmodel"
)

// MetaElementID is the id of the script element carrying build metadata
// and client constants.
const MetaElementID = "dfs-meta"

const DefaultTitle = "NFL DFS Visualizer"

//go:embed templates/report.html.tmpl assets/report.css assets/report.js
var content embed.FS

var page = template.Must(template.ParseFS(content, "templates/report.html.tmpl"))

type Options struct {
	Title string
}

// Meta is everything the report script needs besides the player blob.
type Meta struct {
	Positions       []string               `json:"positions"`
	DefaultPosition string                 `json:"defaultPosition"`
	Teams           []string               `json:"teams"`
	BuildID         string                 `json:"buildId"`
	GeneratedAt     time.Time              `json:"generatedAt"`
	Placeholder     string                 `json:"placeholder"`
	Config          viewmodel.ClientConfig `json:"config"`
}

type pageData struct {
	Title       string
	GeneratedAt string
	PlayerCount int
	DataID      string
	MetaID      string
	Data        template.JS
	Meta        template.JS
	Style       template.CSS
	Script      template.JS
}

// NewMeta collects the metadata embedded alongside the dataset.
func NewMeta(ds *models.Dataset) Meta {
	return Meta{
		Positions:       ds.Positions,
		DefaultPosition: ds.DefaultPosition,
		Teams:           ds.Teams,
		BuildID:         ds.BuildID,
		GeneratedAt:     ds.GeneratedAt,
		Placeholder:     headshot.Placeholder,
		Config:          viewmodel.NewClientConfig(),
	}
}

// Render writes the report for ds to w.
func Render(w io.Writer, ds *models.Dataset, opts Options) error {
	if ds == nil {
		return fmt.Errorf("rendering report: nil dataset")
	}
	blob, err := dataset.EncodeBlob(ds)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(NewMeta(ds))
	if err != nil {
		return fmt.Errorf("encoding report metadata: %w", err)
	}
	css, err := content.ReadFile("assets/report.css")
	if err != nil {
		return fmt.Errorf("reading stylesheet: %w", err)
	}
	js, err := content.ReadFile("assets/report.js")
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	// json.Marshal escapes <, > and &, so the blobs cannot close the
	// surrounding script element.
	data := pageData{
		Title:       title,
		GeneratedAt: ds.GeneratedAt.Format("Jan 2, 2006 3:04 PM MST"),
		PlayerCount: len(ds.Records(models.AllPositions)),
		DataID:      dataset.DataElementID,
		MetaID:      MetaElementID,
		Data:        template.JS(blob),
		Meta:        template.JS(meta),
		Style:       template.CSS(css),
		Script:      template.JS(js),
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("executing report template: %w", err)
	}
	return nil
}

// Bytes renders the report into memory.
func Bytes(ds *models.Dataset, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, ds, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the report and replaces path in one step; a failed
// render leaves any existing file untouched.
func WriteFile(path string, ds *models.Dataset, opts Options) error {
	b, err := Bytes(ds, opts)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// ReadDataset loads the dataset embedded in a previously rendered report.
func ReadDataset(path string) (*models.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	blob, err := dataset.ExtractBlob(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dataset.DecodeBlob(blob)
}
