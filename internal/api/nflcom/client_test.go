package nflcom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/api/roster"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
)

func TestPageSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Brock Purdy", "brock-purdy"},
		{"Ja'Marr Chase", "jamarr-chase"},
		{"A.J. Brown", "aj-brown"},
		{" Kenneth  Walker III", "kenneth-walker-iii"},
	}
	for _, tt := range tests {
		if got := PageSlug(tt.in); got != tt.want {
			t.Errorf("PageSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHeadshotURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/players/brock-purdy/":
			w.Write([]byte(`<img src="https://static.www.nfl.com/image/upload/t_headshot_desktop/league/abc123xyz">`))
		case "/players/no-photo/":
			w.Write([]byte(`<html>nothing here</html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	api := NewAPI(roster.NewClient(config.Roster{HTTPTimeout: time.Second})).WithBaseURL(srv.URL + "/players")
	ctx := context.Background()

	got, err := api.HeadshotURL(ctx, "Brock Purdy")
	if err != nil {
		t.Fatalf("HeadshotURL() error = %v", err)
	}
	if want := "https://static.www.nfl.com/image/upload/f_auto,q_auto/league/abc123xyz"; got != want {
		t.Errorf("HeadshotURL() = %q, want %q", got, want)
	}

	if _, err := api.HeadshotURL(ctx, "No Photo"); !errors.Is(err, ErrNoHeadshot) {
		t.Errorf("HeadshotURL(no photo) error = %v, want ErrNoHeadshot", err)
	}
	if _, err := api.HeadshotURL(ctx, "Missing Page"); err == nil {
		t.Error("HeadshotURL(missing) succeeded, want error")
	}
}
