package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"siteharvest/internal/metadata"
	"siteharvest/pkg/failure"
	"siteharvest/pkg/fileutil"
	"siteharvest/pkg/hashutil"
)

/*
Responsibilities
- Persist the URL inventory file
- Persist downloaded payloads and extracted text

Output characteristics
- Stable, line-oriented inventory format
- Overwrite-safe reruns
- Every written artifact is recorded with its blake3 content digest
*/

type Sink struct {
	metadataSink metadata.Sink
}

func NewSink(metadataSink metadata.Sink) Sink {
	return Sink{metadataSink: metadataSink}
}

// WriteURLList writes one URL per line to path, newline-terminated, UTF-8,
// overwriting any existing file. The caller supplies urls already sorted; the
// sink imposes no ordering of its own.
func (s *Sink) WriteURLList(path string, urls []string) failure.ClassifiedError {
	var sb strings.Builder
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteByte('\n')
	}
	return s.SaveBytes(path, metadata.ArtifactURLList, []byte(sb.String()))
}

// SaveStream buffers r and writes it to path. Payloads here are crawl-scale
// pages and documents, small enough to hold in memory for digesting.
func (s *Sink) SaveStream(path string, kind metadata.ArtifactKind, r io.Reader) failure.ClassifiedError {
	data, err := io.ReadAll(r)
	if err != nil {
		return s.writeFailed(path, err)
	}
	return s.SaveBytes(path, kind, data)
}

// SaveText writes a UTF-8 text artifact to path.
func (s *Sink) SaveText(path string, kind metadata.ArtifactKind, text string) failure.ClassifiedError {
	return s.SaveBytes(path, kind, []byte(text))
}

// SaveBytes writes data to path, creating parent directories as needed, and
// records the artifact with its content digest.
func (s *Sink) SaveBytes(path string, kind metadata.ArtifactKind, data []byte) failure.ClassifiedError {
	if dir := filepath.Dir(path); dir != "." {
		if err := fileutil.EnsureDir(dir); err != nil {
			return s.writeFailed(path, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return s.writeFailed(path, err)
	}

	s.metadataSink.RecordArtifact(kind, path, contentDigest(data))
	return nil
}

// contentDigest returns the blake3 hash recorded alongside each artifact.
func contentDigest(data []byte) string {
	digest, err := hashutil.HashBytes(data, hashutil.HashAlgoBLAKE3)
	if err != nil {
		return ""
	}
	return digest
}

func (s *Sink) writeFailed(path string, err error) failure.ClassifiedError {
	cause := ErrCauseWriteFailure
	var fileErr *fileutil.FileError
	if errors.As(err, &fileErr) {
		cause = ErrCausePathError
	}

	storageErr := &StorageError{
		Message:   err.Error(),
		Retryable: false,
		Cause:     cause,
		Path:      path,
	}
	s.metadataSink.RecordError("storage", "Sink.Write", metadata.CauseStorageFailure, storageErr.Error(), path)
	return storageErr
}
