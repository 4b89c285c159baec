package report

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// imageExt is the only extension the builder accepts.
const imageExt = ".png"

// Pattern returns the glob a prefix selects, e.g. "German_NDVI_*.png".
func Pattern(prefix string) string {
	return prefix + "*" + imageExt
}

// Discover lists the files in dir matching <prefix>*.png in ascending
// lexicographic order. Subdirectories are ignored. An empty result is a
// *NoInputError.
func Discover(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NoInputError{Dir: dir, Pattern: Pattern(prefix)}
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, imageExt) {
			continue
		}
		if len(name) < len(prefix)+len(imageExt) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, &NoInputError{Dir: dir, Pattern: Pattern(prefix)}
	}

	slices.Sort(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// Stem returns the file name without directory and extension. It is the
// caption key of a page.
func Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
