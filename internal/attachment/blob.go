package attachment

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Blob is a single binary attachment with its original metadata.
type Blob interface {
	// Name is the original filename, passed through unmodified.
	Name() string
	// MIMEType is the declared content type (e.g. "image/png").
	MIMEType() string
	// Open returns a fresh reader over the blob's bytes.
	Open() (io.ReadCloser, error)
}

// FileBlob is a Blob backed by a file on disk
type FileBlob struct {
	Path     string
	FileName string
	Type     string
	Size     int64
}

// NewFileBlob stats the file at path and determines its MIME type.
// The type comes from the file extension, falling back to content sniffing.
func NewFileBlob(path string) (*FileBlob, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType, err = sniffType(path)
		if err != nil {
			return nil, err
		}
	}

	return &FileBlob{
		Path:     path,
		FileName: filepath.Base(path),
		Type:     mimeType,
		Size:     info.Size(),
	}, nil
}

// Name returns the base filename
func (f *FileBlob) Name() string { return f.FileName }

// MIMEType returns the detected content type
func (f *FileBlob) MIMEType() string { return f.Type }

// Open opens the underlying file
func (f *FileBlob) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

func sniffType(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return http.DetectContentType(head[:n]), nil
}

// MemoryBlob is a Blob held entirely in memory
type MemoryBlob struct {
	FileName string
	Type     string
	Data     []byte
}

// Name returns the filename
func (m *MemoryBlob) Name() string { return m.FileName }

// MIMEType returns the content type
func (m *MemoryBlob) MIMEType() string { return m.Type }

// Open returns a reader over a copy-free view of Data
func (m *MemoryBlob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.Data)), nil
}

// ParseDataURI builds a MemoryBlob from a base64 data URI such as
// "data:image/png;base64,iVBOR...". The MIME type is taken from the URI.
func ParseDataURI(name, uri string) (*MemoryBlob, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no payload")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}

	mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return &MemoryBlob{FileName: name, Type: mimeType, Data: data}, nil
}

// StripDataURIPrefix removes a leading "data:<type>;base64," header, leaving
// only the base64 payload. Strings without such a header are returned as is.
func StripDataURIPrefix(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if _, payload, ok := strings.Cut(s, ","); ok {
		return payload
	}
	return s
}
