package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml reactions/*.yaml
var PrefabsFS embed.FS

// Dir is the on-disk prefab directory. Files found there take precedence
// over the embedded copies, which is what makes hot reload work.
var Dir = "prefabs"

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	info, err := os.Stat(diskPrefabPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// List returns the prefab files under dir ("" for agents, "reactions" for
// reactions), merging the embedded set with the disk override.
func List(dir string) ([]string, error) {
	seen := map[string]bool{}
	pattern := "*.yaml"
	if dir != "" {
		pattern = path.Join(dir, "*.yaml")
	}

	embedded, err := fs.Glob(PrefabsFS, pattern)
	if err != nil {
		return nil, fmt.Errorf("prefabs: list %s: %w", pattern, err)
	}
	for _, name := range embedded {
		seen[name] = true
	}

	onDisk, _ := filepath.Glob(filepath.Join(Dir, filepath.FromSlash(pattern)))
	for _, name := range onDisk {
		rel, err := filepath.Rel(Dir, name)
		if err != nil {
			continue
		}
		seen[filepath.ToSlash(rel)] = true
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}

	s := filepath.ToSlash(p)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
