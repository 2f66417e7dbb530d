// Package extract pulls raw text and embedded images out of CV documents.
package extract

import (
	"path/filepath"
	"strings"
)

// PageText is one unit of extracted document text. Page numbers are
// 1-based for paginated formats; DOCX content is returned as page 1.
type PageText struct {
	Page int
	Text string
}

// Supported document format extensions. Legacy .doc files are handled
// by the DOCX path and fail gracefully when they are not OOXML archives.
const (
	FormatPDF  = ".pdf"
	FormatDocx = ".docx"
	FormatDoc  = ".doc"
)

var supportedFormats = []string{FormatPDF, FormatDocx, FormatDoc}

var rasterExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// Ext returns the lowercased file extension used for format dispatch.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Supports reports whether the file's extension maps to a known format.
func Supports(path string) bool {
	ext := Ext(path)
	for _, f := range supportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// SupportedFormats returns the set of processable extensions. This is the
// capability set surfaced by the formats command.
func SupportedFormats() []string {
	out := make([]string, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}

func isRasterImage(name string) bool {
	return rasterExtensions[strings.ToLower(filepath.Ext(name))]
}
