package fileutil

import (
	"mime"
	"path/filepath"
	"strings"
)

const defaultMIMEType = "application/octet-stream"

// DetectMIME resolves a MIME type from the file extension. Parameters
// such as charset are stripped; unknown extensions map to the generic
// binary type.
func DetectMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return defaultMIMEType
	}
	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return defaultMIMEType
	}
	if idx := strings.Index(typ, ";"); idx > 0 {
		typ = typ[:idx]
	}
	return strings.TrimSpace(typ)
}
