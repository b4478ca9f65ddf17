package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"

	"github.com/erraggy/xmlmerge/xmlerrors"
)

// DefaultMaxFileSize is the input size limit used when none is configured (64 MiB).
const DefaultMaxFileSize int64 = 64 << 20

// Loader reads XML documents from files, URLs, readers or bytes.
//
// Concurrency: a Loader holds no per-call state and can be shared once
// configured. The zero value is ready to use.
type Loader struct {
	// PreserveWhitespace keeps whitespace-only text between elements.
	PreserveWhitespace bool
	// MaxFileSize rejects inputs larger than this many bytes (0 means DefaultMaxFileSize).
	MaxFileSize int64

	fs     afs.Service
	fsOnce sync.Once
}

// NewLoader creates a Loader backed by the default afs file service.
func NewLoader() *Loader {
	return &Loader{fs: afs.New()}
}

// ParseResult contains a loaded document and metadata about the load.
type ParseResult struct {
	// SourcePath is the path or URL the document came from (empty for unnamed in-memory input)
	SourcePath string
	// Document is the loaded tree
	Document *Document
	// SourceSize is the size of the raw input in bytes
	SourceSize int64
	// LoadTime is how long reading and decoding took
	LoadTime time.Duration
	// Stats describes the loaded tree
	Stats Stats
}

// Parse loads a document from a local path or an afs URL (file://, mem://).
// Missing or unreadable inputs are reported as *xmlerrors.MalformedInputError.
func (l *Loader) Parse(ctx context.Context, location string) (*ParseResult, error) {
	start := time.Now()
	url := normalizeLocation(location)

	exists, err := l.service().Exists(ctx, url)
	if err != nil {
		return nil, &xmlerrors.MalformedInputError{Path: location, Message: "cannot access input", Cause: err}
	}
	if !exists {
		return nil, &xmlerrors.MalformedInputError{
			Path:    location,
			Message: "cannot read input",
			Cause:   fmt.Errorf("%s: %w", location, os.ErrNotExist),
		}
	}

	obj, err := l.service().Object(ctx, url)
	if err != nil {
		return nil, &xmlerrors.MalformedInputError{Path: location, Message: "cannot access input", Cause: err}
	}
	if obj.IsDir() {
		return nil, &xmlerrors.MalformedInputError{Path: location, Message: "input is a directory"}
	}
	if limit := l.maxFileSize(); obj.Size() > limit {
		return nil, &xmlerrors.MalformedInputError{
			Path:    location,
			Message: fmt.Sprintf("input exceeds %d byte limit", limit),
		}
	}

	data, err := l.service().DownloadWithURL(ctx, url)
	if err != nil {
		return nil, &xmlerrors.MalformedInputError{Path: location, Message: "cannot read input", Cause: err}
	}
	return l.finish(data, location, start)
}

// ParseReader loads a document from r.
func (l *Loader) ParseReader(r io.Reader, sourceName string) (*ParseResult, error) {
	start := time.Now()
	limit := l.maxFileSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &xmlerrors.MalformedInputError{Path: sourceName, Message: "cannot read input", Cause: err}
	}
	return l.finish(data, sourceName, start)
}

// ParseBytes loads a document from data.
func (l *Loader) ParseBytes(data []byte, sourceName string) (*ParseResult, error) {
	return l.finish(data, sourceName, time.Now())
}

func (l *Loader) finish(data []byte, source string, start time.Time) (*ParseResult, error) {
	if limit := l.maxFileSize(); int64(len(data)) > limit {
		return nil, &xmlerrors.MalformedInputError{
			Path:    source,
			Message: fmt.Sprintf("input exceeds %d byte limit", limit),
		}
	}
	doc, err := decode(data, source, l.PreserveWhitespace)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		SourcePath: source,
		Document:   doc,
		SourceSize: int64(len(data)),
		LoadTime:   time.Since(start),
		Stats:      GetStats(doc),
	}, nil
}

func (l *Loader) service() afs.Service {
	l.fsOnce.Do(func() {
		if l.fs == nil {
			l.fs = afs.New()
		}
	})
	return l.fs
}

func (l *Loader) maxFileSize() int64 {
	if l.MaxFileSize > 0 {
		return l.MaxFileSize
	}
	return DefaultMaxFileSize
}

// normalizeLocation turns plain relative paths into absolute ones so afs
// resolves them against the working directory. URLs pass through.
func normalizeLocation(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}
