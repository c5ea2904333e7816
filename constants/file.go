package constants

import "strings"

// DocumentExtensions holds the document extensions Textract accepts.
var DocumentExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tiff": {},
}

// ResultExtensions holds the extensions of stored detection results.
var ResultExtensions = map[string]struct{}{
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsDocument reports whether the path names a supported source document.
func IsDocument(path string) bool {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return false
	}
	_, ok := DocumentExtensions[NormalizeExt(path[i:])]
	return ok
}
