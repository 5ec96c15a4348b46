package urlutil

import (
	"net/url"
	"strings"
)

// fileExtensions lists lowercase path suffixes that identify non-HTML
// resources. URLs ending with one of these are recorded during a crawl but
// never descended into.
var fileExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".zip": {}, ".rar": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".7z": {},
	".exe": {}, ".dmg": {}, ".apk": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".svg": {}, ".webp": {},
	".mp3": {}, ".wav": {}, ".ogg": {}, ".flac": {},
	".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".flv": {}, ".webm": {},
	".txt": {}, ".csv": {}, ".json": {}, ".xml": {}, ".yaml": {}, ".md": {},
	".css": {}, ".js": {}, ".php": {}, ".asp": {}, ".aspx": {}, ".jsp": {}, ".cfm": {}, ".cgi": {},
}

// IsFileURL reports whether the URL path points at a non-HTML file resource,
// judged by its lowercase extension.
//
// Properties:
//   - Pure: no state, no I/O
//   - Deterministic and idempotent: same input always produces same output
func IsFileURL(u *url.URL) bool {
	path := strings.ToLower(u.Path)
	for ext := range fileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Normalize resolves href against base and applies the crawl's link equality
// rules, producing the canonical absolute form:
//   - Scheme must be http or https (this also discards mailto:, javascript:, tel:, data:)
//   - Fragments are stripped
//
// The second return value is false when the link must be discarded entirely.
//
// Properties:
//   - Pure: no state, no memory
//   - Idempotent: normalizing an already-normalized URL is a no-op
func Normalize(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}

	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved, true
}
