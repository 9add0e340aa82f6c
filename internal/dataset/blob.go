package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

// DataElementID is the id of the script element carrying the blob in a report.
const DataElementID = "dfs-data"

var ErrNoBlob = errors.New("no embedded dataset found")

var (
	scriptBlob = regexp.MustCompile(`(?s)<script id="` + DataElementID + `" type="application/json">(.*?)</script>`)
	legacyBlob = regexp.MustCompile(`(?s)const (?:ORIGINAL_DATA|allData) = \(?(\{.*?\})\)?;\s*\n`)
)

// EncodeBlob serializes the dataset as {position: [PlayerRecord...]}.
// Map keys are emitted sorted, so equal datasets encode identically.
func EncodeBlob(ds *models.Dataset) ([]byte, error) {
	b, err := json.Marshal(ds.Players)
	if err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}
	return b, nil
}

// DecodeBlob parses a blob produced by EncodeBlob and rebuilds the
// derived position and team lists.
func DecodeBlob(b []byte) (*models.Dataset, error) {
	var players map[string][]models.PlayerRecord
	if err := json.Unmarshal(bytes.TrimSpace(b), &players); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if players == nil {
		players = make(map[string][]models.PlayerRecord)
	}
	ds := &models.Dataset{Players: players}
	finalize(ds)
	return ds, nil
}

// ExtractBlob pulls the raw dataset blob out of a rendered report.
// Reports from older builds that assigned the blob to a script constant
// are also accepted.
func ExtractBlob(html []byte) ([]byte, error) {
	if m := scriptBlob.FindSubmatch(html); m != nil {
		return m[1], nil
	}
	if m := legacyBlob.FindSubmatch(html); m != nil {
		return m[1], nil
	}
	return nil, ErrNoBlob
}

// HeadshotIndex maps lower-cased player names to their headshot reference,
// first occurrence winning.
func HeadshotIndex(ds *models.Dataset) map[string]string {
	idx := make(map[string]string)
	for _, pos := range ds.Positions {
		for _, r := range ds.Players[pos] {
			if r.HeadshotURL == "" {
				continue
			}
			key := NameKey(r.Name)
			if _, ok := idx[key]; !ok {
				idx[key] = r.HeadshotURL
			}
		}
	}
	return idx
}

// NameKey is the case-insensitive lookup key used by HeadshotIndex.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
