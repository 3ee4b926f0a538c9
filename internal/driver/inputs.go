package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Collect expands paths into the list of inputs to check. Directories are
// walked recursively for *.json dumps, plus *.php when withPHP is set.
// Explicit file arguments are kept whatever their extension. Hidden
// directories and vendor/ are skipped.
func Collect(paths []string, withPHP bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		var found []string
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if p != root && (strings.HasPrefix(name, ".") || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			switch filepath.Ext(p) {
			case ".json":
				found = append(found, p)
			case ".php":
				if withPHP && !hasDump(p) {
					found = append(found, p)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("driver: walk %s: %w", root, err)
		}
		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}

// hasDump reports whether a .php file already has a JSON dump next to it;
// the dump is checked instead of running the frontend again.
func hasDump(php string) bool {
	for _, cand := range []string{php + ".json", strings.TrimSuffix(php, ".php") + ".json"} {
		if _, err := os.Stat(cand); err == nil {
			return true
		}
	}
	return false
}

// sourceFor returns the PHP file a dump was produced from, if it exists:
// a.php.json and a.json both map to a.php.
func sourceFor(dump string) (string, bool) {
	base := strings.TrimSuffix(dump, ".json")
	if !strings.HasSuffix(base, ".php") {
		base += ".php"
	}
	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		return base, true
	}
	return "", false
}
