package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

const defaultContentType = "application/octet-stream"

// File is a handle to local media selected for upload. Open may be called
// more than once; each call returns a reader positioned at the start.
type File interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadSeekCloser, error)
}

type pathFile struct {
	path        string
	size        int64
	contentType string
}

// FileFromPath stats path and returns a File backed by it.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("upload: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("upload: %s is a directory", path)
	}
	return &pathFile{
		path:        path,
		size:        info.Size(),
		contentType: contentTypeFor(path),
	}, nil
}

func (f *pathFile) Name() string        { return filepath.Base(f.path) }
func (f *pathFile) Size() int64         { return f.size }
func (f *pathFile) ContentType() string { return f.contentType }

func (f *pathFile) Open() (io.ReadSeekCloser, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("upload: open %s: %w", f.path, err)
	}
	return fh, nil
}

type memFile struct {
	name        string
	data        []byte
	contentType string
}

// FileFromBytes wraps an in-memory payload. An empty contentType is derived
// from the name's extension.
func FileFromBytes(name string, data []byte, contentType string) File {
	if contentType == "" {
		contentType = contentTypeFor(name)
	}
	return &memFile{name: name, data: data, contentType: contentType}
}

func (f *memFile) Name() string        { return f.name }
func (f *memFile) Size() int64         { return int64(len(f.data)) }
func (f *memFile) ContentType() string { return f.contentType }

func (f *memFile) Open() (io.ReadSeekCloser, error) {
	return nopSeekCloser{bytes.NewReader(f.data)}, nil
}

type nopSeekCloser struct {
	io.ReadSeeker
}

func (nopSeekCloser) Close() error { return nil }

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}
