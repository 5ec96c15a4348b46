package fileutil

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"siteharvest/pkg/failure"
	"siteharvest/pkg/hashutil"
)

// EnsureDir checks if a given directory plus the following path exist, then creates one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	target := filepath.Join(targetPath...)
	if err := os.MkdirAll(target, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}

// invalid filename characters, replaced with underscores
const invalidFilenameChars = `\/:*?"<>|`

// SanitizeFilename derives a safe base filename (no extension) from a URL.
// The last path segment is used, or the host when the path is empty. A URL
// carrying a query string gets an 8-hex hash of the query appended so two
// URLs differing only in query map to distinct files.
func SanitizeFilename(u *url.URL) string {
	decoded := u.Path
	if unescaped, err := url.PathUnescape(u.Path); err == nil {
		decoded = unescaped
	}

	var name string
	segments := strings.Split(decoded, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			name = segments[i]
			break
		}
	}

	if name != "" {
		// Strip a trailing extension; the caller appends one chosen from the
		// response content type.
		if dot := strings.LastIndex(name, "."); dot > 0 {
			if ext := name[dot+1:]; ext != "" && isAlnum(ext) {
				name = name[:dot]
			}
		}
	} else {
		name = u.Host
	}

	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, " .")

	if u.RawQuery != "" {
		queryHash := hashutil.ShortHash([]byte(u.RawQuery), 8)
		if name == "" {
			name = "index_" + queryHash
		} else {
			name = name + "_" + queryHash
		}
	}
	if name == "" {
		name = "index"
	}
	return name
}

// UniquePath returns dir/base+ext, appending _1, _2, ... to base until the
// path does not collide with an existing file.
func UniquePath(dir, base, ext string) string {
	path := filepath.Join(dir, base+ext)
	counter := 1
	for {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
		counter++
	}
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
