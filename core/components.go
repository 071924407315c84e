package core

import (
	"sort"
	"strings"
)

// maxComponents caps how many component names one analysis reports.
const maxComponents = 5

// componentStoplist holds path segments that describe repository layout
// rather than product areas.
var componentStoplist = map[string]bool{
	"src":     true,
	".github": true,
	"tests":   true,
	"docs":    true,
	"config":  true,
	"utils":   true,
}

// DeriveComponents maps changed file paths to a sorted, deduplicated list of
// component names. Directories under services/ or modules/ name components
// directly; otherwise the first non-boilerplate directory segment is used.
func DeriveComponents(paths []string) []string {
	seen := map[string]bool{}
	for _, path := range paths {
		if name := componentForPath(path); name != "" {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > maxComponents {
		names = names[:maxComponents]
	}
	return names
}

// componentForPath derives the component name of a single path, or "" when
// the path gives no signal (e.g. a file at the repository root).
func componentForPath(path string) string {
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return ""
	}
	dirs := segments[:len(segments)-1]

	for i, seg := range dirs {
		if (seg == "services" || seg == "modules") && i+1 < len(dirs) {
			return strings.TrimSuffix(dirs[i+1], "_service")
		}
	}

	for _, seg := range dirs {
		if !componentStoplist[seg] {
			return seg
		}
	}
	return ""
}
