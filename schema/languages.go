package schema

import "strings"

// languageByExtension maps lower-cased file extensions (without the leading
// dot) to programming language names. Unknown extensions map to "".
var languageByExtension = map[string]string{
	"py":   "python",
	"js":   "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"jsx":  "javascript",
	"java": "java",
	"go":   "go",
	"rs":   "rust",
	"cpp":  "cpp",
	"c":    "c",
	"h":    "c",
	"hpp":  "cpp",
	"cs":   "csharp",
	"sql":  "sql",
	"sh":   "bash",
	"yaml": "yaml",
	"yml":  "yaml",
	"json": "json",
	"xml":  "xml",
	"html": "html",
	"css":  "css",
}

// FileExtension returns the lower-cased extension of path without the
// leading dot, or "" when the path has no extension.
func FileExtension(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[idx+1:])
}

// DetectLanguage returns the programming language for a file extension.
// The extension is expected without a leading dot; matching is
// case-insensitive. Returns "" for unknown extensions.
func DetectLanguage(extension string) string {
	return languageByExtension[strings.ToLower(extension)]
}
