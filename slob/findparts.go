package slob

import (
	"path/filepath"
	"sort"
	"strings"
)

// FindParts returns every file in name's directory whose basename starts
// with basename(name), lexicographically sorted, used to discover a
// multi-file split before calling Open.
func FindParts(name string) ([]string, error) {
	dir := filepath.Dir(name)
	prefix := filepath.Base(name)

	entries, err := filepath.Glob(filepath.Join(dir, prefix+"*"))
	if err != nil {
		return nil, err
	}

	matches := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(filepath.Base(e), prefix) {
			matches = append(matches, e)
		}
	}
	sort.Strings(matches)
	return matches, nil
}
