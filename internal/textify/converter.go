// Package textify converts a directory of saved HTML pages into plain-text
// or Markdown files, one output per page with the same base filename.
package textify

import (
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"siteharvest/internal/config"
	"siteharvest/internal/extract"
	"siteharvest/internal/metadata"
	"siteharvest/internal/storage"
	"siteharvest/pkg/failure"
)

type Converter struct {
	cfg          config.Config
	metadataSink metadata.Sink
	storageSink  storage.Sink
}

func New(cfg config.Config, metadataSink metadata.Sink) Converter {
	return Converter{
		cfg:          cfg,
		metadataSink: metadataSink,
		storageSink:  storage.NewSink(metadataSink),
	}
}

// Run converts every .html/.htm file in the configured input directory and
// returns how many files were written. A missing input directory is an
// error; a file that fails to parse is recorded and skipped.
func (c *Converter) Run() (int, failure.ClassifiedError) {
	entries, err := os.ReadDir(c.cfg.HTMLDir())
	if err != nil {
		cause := ErrCauseInputDirRead
		if os.IsNotExist(err) {
			cause = ErrCauseInputDirMissing
		}
		convertErr := &ConvertError{Message: err.Error(), Cause: cause}
		c.metadataSink.RecordError(
			"textify",
			"Converter.Run",
			metadata.CauseStorageFailure,
			convertErr.Error(),
			c.cfg.HTMLDir(),
		)
		return 0, convertErr
	}

	converted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".html") && !strings.HasSuffix(lower, ".htm") {
			continue
		}

		if c.convertFile(name) {
			converted++
		}
	}
	return converted, nil
}

func (c *Converter) convertFile(name string) bool {
	inputPath := filepath.Join(c.cfg.HTMLDir(), name)
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		c.recordFileError(inputPath, metadata.CauseStorageFailure, err.Error())
		return false
	}

	var output string
	var outputExt string
	if c.cfg.Markdown() {
		markdown, convErr := htmltomarkdown.ConvertString(string(raw))
		if convErr != nil {
			c.recordFileError(inputPath, metadata.CauseParseDegraded, convErr.Error())
			return false
		}
		output = markdown
		outputExt = ".md"
	} else {
		text, convErr := extract.Text(strings.NewReader(string(raw)))
		if convErr != nil {
			c.recordFileError(inputPath, metadata.CauseParseDegraded, convErr.Error())
			return false
		}
		output = text
		outputExt = ".txt"
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	outputPath := filepath.Join(c.cfg.TextDir(), base+outputExt)
	if saveErr := c.storageSink.SaveText(outputPath, metadata.ArtifactText, output); saveErr != nil {
		return false
	}
	return true
}

func (c *Converter) recordFileError(path string, cause metadata.ErrorCause, message string) {
	c.metadataSink.RecordError("textify", "Converter.Run", cause, message, path)
}
