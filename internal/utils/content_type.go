package utils

import (
	"path/filepath"
	"strings"
)

// contentTypes maps file extensions to the MIME types understood by the Khoj
// indexing endpoint. Anything else is sent as plain text.
var contentTypes = map[string]string{
	".org":      "text/org",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".pdf":      "application/pdf",
	".doc":      "application/msword",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DetectContentType returns the MIME type to use when uploading the given
// path for indexing.
func DetectContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mimeType, ok := contentTypes[ext]; ok {
		return mimeType
	}
	return "text/plain"
}
