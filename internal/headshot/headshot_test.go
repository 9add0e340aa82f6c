package headshot

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/matcher"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeGetter struct {
	bodies map[string][]byte
	calls  []string
}

func (g *fakeGetter) Get(_ context.Context, url string, _ map[string]string) (io.ReadCloser, error) {
	g.calls = append(g.calls, url)
	b, ok := g.bodies[url]
	if !ok {
		return nil, errors.New("unexpected status code: 404")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type fakeMatcher map[string]matcher.Match

func (m fakeMatcher) Match(name, team string) (matcher.Match, bool) {
	got, ok := m[name]
	return got, ok
}

type fakeMappings map[string]string

func (m fakeMappings) Lookup(name, team string) (string, bool) {
	v, ok := m[name+"|"+team]
	return v, ok
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Josh Allen", "Josh_Allen"},
		{"Ja'Marr Chase", "JaMarr_Chase"},
		{"A.J. Brown", "AJ_Brown"},
		{"Amon-Ra St. Brown", "AmonRa_St_Brown"},
		{"  Kenneth  Walker III ", "Kenneth_Walker_III"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FileName("A.J. Brown"); got != "AJ_Brown.png" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"landscape", 800, 400, 400, 400, 200},
		{"portrait", 300, 600, 300, 150, 300},
		{"already small", 100, 80, 400, 100, 80},
		{"no limit", 500, 500, 0, 500, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			b := Thumbnail(src, tt.max).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Thumbnail(%dx%d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.max, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestThumbnailFlattensOntoWhite(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	got := Thumbnail(src, 10)
	r, g, b, a := got.At(5, 5).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("transparent pixel = %v,%v,%v,%v, want opaque white", r, g, b, a)
	}
}

func TestCompress(t *testing.T) {
	out, format, err := Compress(pngBytes(t, 600, 300), 400, 85)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png for a small image", format)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 400 || cfg.Height != 200 {
		t.Errorf("compressed size = %dx%d, want 400x200", cfg.Width, cfg.Height)
	}

	if _, _, err := Compress([]byte("not an image"), 400, 85); err == nil {
		t.Error("Compress() accepted garbage")
	}
}

func TestDataURL(t *testing.T) {
	got, err := DataURL(pngBytes(t, 50, 50), EmbedMaxSize, 85)
	if err != nil {
		t.Fatalf("DataURL() error = %v", err)
	}
	if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Errorf("DataURL() prefix = %q", got[:30])
	}
	payload, err := decodeDataURL(got)
	if err != nil {
		t.Fatal(err)
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(payload)); err != nil || format != "jpeg" {
		t.Errorf("payload format = %q, err = %v", format, err)
	}
}

func TestResolveOrder(t *testing.T) {
	shot := pngBytes(t, 20, 20)
	getter := &fakeGetter{bodies: map[string][]byte{"https://roster/buf-allen": shot}}
	m := fakeMatcher{
		"Josh Allen":     {Entry: models.RosterEntry{Name: "Josh Allen", Team: "BUF", HeadshotURL: "https://roster/buf-allen"}, Tier: matcher.TierExact},
		"Kenneth Walker": {Entry: models.RosterEntry{Name: "Kenneth Walker III", Team: "SEA", HeadshotURL: "https://roster/missing"}, Tier: matcher.TierLastNameTeam},
	}
	cache := NewCache(t.TempDir())
	r := NewResolver(cache, m, fakeMappings{}, getter, Options{BaseURL: "/nfl-dfs/headshots/"})
	r.UseOriginal(&models.Dataset{
		Positions: []string{"ALL"},
		Players: map[string][]models.PlayerRecord{
			"ALL": {{Name: "Patrick Mahomes", HeadshotURL: "data:image/jpeg;base64,AAAA"}},
		},
	})
	ctx := context.Background()

	if got := r.Resolve(ctx, "patrick mahomes", "KC", "QB"); got != "data:image/jpeg;base64,AAAA" {
		t.Errorf("original dataset: got %q", got)
	}

	if got := r.Resolve(ctx, "Josh Allen", "BUF", "QB"); got != "/nfl-dfs/headshots/Josh_Allen.png" {
		t.Errorf("roster match: got %q", got)
	}
	if !cache.Has("Josh_Allen") {
		t.Error("roster headshot was not cached")
	}

	getter.calls = nil
	if got := r.Resolve(ctx, "Josh Allen", "BUF", "QB"); got != "/nfl-dfs/headshots/Josh_Allen.png" {
		t.Errorf("cache hit: got %q", got)
	}
	if len(getter.calls) != 0 {
		t.Errorf("cache hit made %d requests", len(getter.calls))
	}

	if got := r.Resolve(ctx, "Bills", "BUF", "DST"); got != models.TeamLogoURL("BUF") {
		t.Errorf("defense: got %q", got)
	}

	for _, team := range []string{"", "XYZ"} {
		if got := r.Resolve(ctx, "Mystery", team, "DST"); got != Placeholder {
			t.Errorf("defense with team %q: got %q, want placeholder", team, got)
		}
	}

	if got := r.Resolve(ctx, "Kenneth Walker", "SEA", "RB"); got != "https://roster/missing" {
		t.Errorf("failed download should link remote: got %q", got)
	}

	if got := r.Resolve(ctx, "Nobody", "DAL", "WR"); got != models.TeamLogoURL("DAL") {
		t.Errorf("unknown player: got %q", got)
	}
	if got := r.Resolve(ctx, "Nobody", "FA", "WR"); got != Placeholder {
		t.Errorf("unknown team: got %q", got)
	}
	r.Resolve(ctx, "Nobody", "DAL", "WR")

	want := []models.UnmatchedName{
		{Name: "Kenneth Walker", Team: "SEA", Position: "RB"},
		{Name: "Nobody", Team: "DAL", Position: "WR"},
		{Name: "Nobody", Team: "FA", Position: "WR"},
	}
	got := r.Unmatched()
	if len(got) != len(want) {
		t.Fatalf("Unmatched() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Unmatched()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResolveEmbedsAndUsesMappedSlug(t *testing.T) {
	cache := NewCache(t.TempDir())
	if err := cache.Store("Marquise_Brown", pngBytes(t, 500, 500)); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(cache, nil, fakeMappings{"Hollywood Brown|KC": "Marquise Brown"}, nil, Options{Embed: true})

	got := r.Resolve(context.Background(), "Hollywood Brown", "KC", "WR")
	if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Fatalf("Resolve() = %q, want inline JPEG", got)
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, "data:image/jpeg;base64,"))
	if err != nil {
		t.Fatal(err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != EmbedMaxSize {
		t.Errorf("embedded width = %d, want %d", cfg.Width, EmbedMaxSize)
	}
	if len(r.Unmatched()) != 0 {
		t.Errorf("Unmatched() = %v, want none", r.Unmatched())
	}
}
