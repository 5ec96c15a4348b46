package classify_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteharvest/internal/classify"
)

func TestMediaType(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{name: "plain type", header: "text/html", want: "text/html"},
		{name: "charset parameter dropped", header: "text/html; charset=utf-8", want: "text/html"},
		{name: "lowercased", header: "Application/PDF", want: "application/pdf"},
		{name: "empty header", header: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify.MediaType(tc.header))
		})
	}
}

func TestFromContentType(t *testing.T) {
	testCases := []struct {
		name      string
		mediaType string
		urlExt    string
		want      classify.Category
	}{
		{name: "html", mediaType: "text/html", urlExt: "", want: classify.CategoryHTML},
		{name: "pdf", mediaType: "application/pdf", urlExt: ".pdf", want: classify.CategoryDocument},
		{name: "word document", mediaType: "application/msword", urlExt: "", want: classify.CategoryDocument},
		{name: "spreadsheet", mediaType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", urlExt: "", want: classify.CategoryDocument},
		{name: "jpeg", mediaType: "image/jpeg", urlExt: ".jpg", want: classify.CategoryImage},
		{name: "png", mediaType: "image/png", urlExt: "", want: classify.CategoryImage},
		{name: "mislabeled pdf falls back to extension", mediaType: "application/octet-stream", urlExt: ".pdf", want: classify.CategoryDocument},
		{name: "mislabeled docx falls back to extension", mediaType: "application/octet-stream", urlExt: ".DOCX", want: classify.CategoryDocument},
		{name: "zip archive", mediaType: "application/zip", urlExt: ".zip", want: classify.CategoryOther},
		{name: "json", mediaType: "application/json", urlExt: "", want: classify.CategoryOther},
		{name: "unknown", mediaType: "", urlExt: "", want: classify.CategoryOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify.FromContentType(tc.mediaType, tc.urlExt))
		})
	}
}

func TestCategorySubdir(t *testing.T) {
	assert.Equal(t, "html_pages", classify.CategoryHTML.Subdir())
	assert.Equal(t, "documents", classify.CategoryDocument.Subdir())
	assert.Equal(t, "images", classify.CategoryImage.Subdir())
	assert.Equal(t, "other_files", classify.CategoryOther.Subdir())
}

func TestExtensionFor(t *testing.T) {
	testCases := []struct {
		name      string
		mediaType string
		rawURL    string
		want      string
	}{
		{name: "html pinned over htm", mediaType: "text/html", rawURL: "https://a.test/page", want: ".html"},
		{name: "pdf", mediaType: "application/pdf", rawURL: "https://a.test/doc", want: ".pdf"},
		{name: "jpeg pinned", mediaType: "image/jpeg", rawURL: "https://a.test/pic", want: ".jpg"},
		{name: "url path extension fallback", mediaType: "", rawURL: "https://a.test/archive.ZIP", want: ".zip"},
		{name: "binary default", mediaType: "", rawURL: "https://a.test/stream", want: ".bin"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := url.Parse(tc.rawURL)
			require.NoError(t, err)
			assert.Equal(t, tc.want, classify.ExtensionFor(tc.mediaType, u))
		})
	}
}
