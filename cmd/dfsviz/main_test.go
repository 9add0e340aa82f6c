package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DFSVIZ_SNAPSHOT_DIR", filepath.Join(dir, "snapshot"))
	t.Setenv("DFSVIZ_MAPPINGS_FILE", filepath.Join(dir, "name_mappings.json"))
	t.Setenv("DFSVIZ_OUTPUT", filepath.Join(dir, "public", "index.html"))
	t.Setenv("DFSVIZ_COMPRESSED_DIR", filepath.Join(dir, "compressed"))
	t.Setenv("FTP_HOST", "")
	return dir
}

func TestRunUsage(t *testing.T) {
	setupEnv(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"build without csv", []string{"build"}},
		{"unknown mappings subcommand", []string{"mappings", "rename"}},
		{"bad deploy target", []string{"deploy", "everything"}},
		{"preview without subcommand", []string{"preview"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args); !errors.Is(err, errUsage) {
				t.Errorf("run(%q) error = %v, want errUsage", tt.args, err)
			}
		})
	}
}

func TestRunMappings(t *testing.T) {
	dir := setupEnv(t)

	if err := run([]string{"mappings", "set", "Hollywood Brown", "kc", "Marquise Brown"}); err != nil {
		t.Fatalf("mappings set error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "name_mappings.json"))
	if err != nil {
		t.Fatalf("mappings file not written: %v", err)
	}
	if !strings.Contains(string(data), `"Hollywood Brown|KC": "Marquise Brown"`) {
		t.Errorf("mappings file = %s", data)
	}

	if err := run([]string{"mappings", "set", "Hollywood Brown", "KC", "  "}); err == nil {
		t.Error("mappings set with a blank canonical name succeeded")
	}
	if err := run([]string{"mappings", "remove", "Hollywood Brown", "KC"}); err != nil {
		t.Fatalf("mappings remove error = %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(dir, "name_mappings.json"))
	if strings.Contains(string(data), "Hollywood Brown") {
		t.Errorf("mapping still present after remove: %s", data)
	}
}

func TestRunDeployMissingReport(t *testing.T) {
	setupEnv(t)
	err := run([]string{"deploy", "website"})
	if err == nil || errors.Is(err, errUsage) {
		t.Errorf("deploy without a built report error = %v", err)
	}
}
