// Package classify maps file extensions to organizational categories.
// The built-in table is immutable; custom tables are layered in front of
// it and consulted in priority order.
package classify

import "strings"

// Category is a classification bucket. The nine built-in categories are
// predeclared; user-defined tables introduce further names.
type Category string

const (
	Documents     Category = "Documents"
	Images        Category = "Images"
	Videos        Category = "Videos"
	Audio         Category = "Audio"
	Archives      Category = "Archives"
	Code          Category = "Code"
	Data          Category = "Data"
	Configuration Category = "Configuration"
	Other         Category = "Other"
)

// Builtin lists the built-in categories in display order.
var Builtin = []Category{
	Documents, Images, Videos, Audio, Archives, Code, Data, Configuration, Other,
}

// maxExtLen bounds the extension length considered for classification.
// Anything longer is not a real extension and maps to Other.
const maxExtLen = 16

var builtinTable = map[string]Category{
	".pdf": Documents, ".doc": Documents, ".docx": Documents, ".xls": Documents,
	".xlsx": Documents, ".ppt": Documents, ".pptx": Documents, ".txt": Documents,
	".rtf": Documents, ".odt": Documents, ".md": Documents,

	".jpg": Images, ".jpeg": Images, ".png": Images, ".gif": Images,
	".bmp": Images, ".webp": Images, ".tiff": Images, ".svg": Images,
	".heic": Images, ".ico": Images,

	".mp4": Videos, ".mov": Videos, ".mkv": Videos, ".avi": Videos,
	".wmv": Videos, ".flv": Videos, ".webm": Videos,

	".mp3": Audio, ".wav": Audio, ".flac": Audio, ".aac": Audio,
	".m4a": Audio, ".ogg": Audio, ".wma": Audio,

	".zip": Archives, ".tar": Archives, ".gz": Archives, ".rar": Archives,
	".7z": Archives, ".bz2": Archives, ".xz": Archives,

	".go": Code, ".py": Code, ".js": Code, ".ts": Code, ".java": Code,
	".c": Code, ".cpp": Code, ".h": Code, ".rs": Code, ".rb": Code,
	".php": Code, ".sh": Code,

	".csv": Data, ".json": Data, ".xml": Data, ".sql": Data, ".db": Data,

	".yaml": Configuration, ".yml": Configuration, ".toml": Configuration,
	".ini": Configuration, ".conf": Configuration, ".env": Configuration,
}

var dirNames = map[Category]string{
	Documents:     "documents",
	Images:        "images",
	Videos:        "videos",
	Audio:         "audio",
	Archives:      "archives",
	Code:          "code",
	Data:          "data",
	Configuration: "configuration",
	Other:         "misc", // intentional: not "other"
}

// DirName returns the on-disk folder name for a category. Built-in
// categories use a fixed lowercase mapping; custom categories use their
// name unchanged.
func (c Category) DirName() string {
	if name, ok := dirNames[c]; ok {
		return name
	}
	return string(c)
}

// Classify maps an extension (leading dot included) to a built-in
// category using case-insensitive matching.
func Classify(ext string) Category {
	if !usable(ext) {
		return Other
	}
	if cat, ok := builtinTable[strings.ToLower(ext)]; ok {
		return cat
	}
	return Other
}

// usable filters pathological extensions: empty, longer than maxExtLen,
// or with no alphanumeric character.
func usable(ext string) bool {
	if ext == "" || len(ext) > maxExtLen {
		return false
	}
	for i := 0; i < len(ext); i++ {
		c := ext[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}

// Ext derives the classification extension from a file name: the suffix
// beginning at the last dot, unless that dot is the leading character.
// Hidden files with a single leading dot have no extension.
func Ext(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return ""
	}
	ext := name[idx:]
	if ext == "." || strings.Trim(name, ".") == "" {
		return ""
	}
	return ext
}
