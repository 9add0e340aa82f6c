package headshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/fsutil"
)

// Cache is a directory of headshot images named by player slug.
type Cache struct {
	dir string
}

func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) Path(slug string) string {
	return filepath.Join(c.dir, slug+".png")
}

func (c *Cache) Has(slug string) bool {
	if slug == "" {
		return false
	}
	info, err := os.Stat(c.Path(slug))
	return err == nil && info.Size() > 0
}

func (c *Cache) Read(slug string) ([]byte, error) {
	return os.ReadFile(c.Path(slug))
}

func (c *Cache) Store(slug string, data []byte) error {
	if slug == "" {
		return fmt.Errorf("empty headshot slug")
	}
	return fsutil.WriteFileAtomic(c.Path(slug), data, 0o644)
}

// Files lists cached image paths in name order.
func (c *Cache) Files() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", c.dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, filepath.Join(c.dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
