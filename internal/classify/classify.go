// Package classify routes downloaded resources into category directories
// based on the response Content-Type, with the URL path extension as a
// fallback signal.
package classify

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

type Category int

const (
	CategoryHTML Category = iota
	CategoryDocument
	CategoryImage
	CategoryOther
)

// Subdir returns the directory name a category's files are stored under.
func (c Category) Subdir() string {
	switch c {
	case CategoryHTML:
		return "html_pages"
	case CategoryDocument:
		return "documents"
	case CategoryImage:
		return "images"
	default:
		return "other_files"
	}
}

func (c Category) String() string {
	switch c {
	case CategoryHTML:
		return "html"
	case CategoryDocument:
		return "document"
	case CategoryImage:
		return "image"
	default:
		return "other"
	}
}

var documentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

var documentExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".xls":  {},
	".xlsx": {},
	".ppt":  {},
	".pptx": {},
}

// mime.ExtensionsByType orders alphabetically, which would pick ".htm" over
// ".html"; common types get a pinned extension instead.
var preferredExtensions = map[string]string{
	"text/html":       ".html",
	"text/plain":      ".txt",
	"application/json": ".json",
	"application/xml":  ".xml",
	"text/xml":         ".xml",
	"application/pdf":  ".pdf",
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/gif":        ".gif",
	"image/svg+xml":    ".svg",
}

// MediaType extracts the lowercase media type from a Content-Type header
// value, dropping parameters such as charset.
func MediaType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(header, ";")[0]))
	}
	return mediaType
}

// FromContentType maps a media type and a URL path extension to a category.
// The media type wins; the extension catches servers that mislabel documents.
func FromContentType(mediaType string, urlExt string) Category {
	if strings.Contains(mediaType, "text/html") {
		return CategoryHTML
	}
	for _, t := range documentTypes {
		if strings.Contains(mediaType, t) {
			return CategoryDocument
		}
	}
	if strings.HasPrefix(mediaType, "image/") {
		return CategoryImage
	}
	if _, ok := documentExtensions[strings.ToLower(urlExt)]; ok {
		return CategoryDocument
	}
	return CategoryOther
}

// ExtensionFor picks a file extension for a resource: the media type first,
// the URL path extension second, then coarse media-type families, and ".bin"
// when nothing matches.
func ExtensionFor(mediaType string, u *url.URL) string {
	if ext, ok := preferredExtensions[mediaType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	if ext := path.Ext(u.Path); ext != "" {
		return strings.ToLower(ext)
	}
	switch {
	case strings.Contains(mediaType, "html"):
		return ".html"
	case strings.HasPrefix(mediaType, "text/"):
		return ".txt"
	case strings.Contains(mediaType, "json"):
		return ".json"
	case strings.Contains(mediaType, "xml"):
		return ".xml"
	case strings.Contains(mediaType, "pdf"):
		return ".pdf"
	}
	return ".bin"
}
