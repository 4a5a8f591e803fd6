// Package file provides a backend.Storage backed by a plain image file on
// disk — the only kind of backing handle this store ever opens. Unlike
// the teacher's device/partition-aware OpenFromPath, there is no block
// device path here to special-case: Format and Open always address one
// whole, regular image file.
package file

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/blockfs/blockfs/backend"
)

type imageBackend struct {
	storage  io.ReadWriteSeeker
	readOnly bool
}

// New wraps an already-open handle as a backend.Storage.
func New(f io.ReadWriteSeeker, readOnly bool) backend.Storage {
	return imageBackend{storage: f, readOnly: readOnly}
}

// OpenFromPath opens an existing image file at pathName. Exclusivity
// between sessions is enforced by store.Format/store.Open's flock, not by
// the open mode, so this never passes O_EXCL: a second Open legitimately
// needs to reach the lock call in order to fail it with ErrBusy rather
// than failing earlier with a misleading "file busy" from the OS.
func OpenFromPath(pathName string, readOnly bool) (backend.Storage, error) {
	if pathName == "" {
		return nil, errors.New("must pass an image file path")
	}
	if _, err := os.Stat(pathName); os.IsNotExist(err) {
		return nil, fmt.Errorf("image file %s does not exist", pathName)
	}

	openMode := os.O_RDONLY
	if !readOnly {
		openMode = os.O_RDWR
	}
	f, err := os.OpenFile(pathName, openMode, 0o600)
	if err != nil {
		return nil, fmt.Errorf("could not open image %s with mode %v: %w", pathName, openMode, err)
	}
	return imageBackend{storage: f, readOnly: readOnly}, nil
}

// CreateFromPath creates a fresh, zero-filled image file of size bytes at
// pathName, which must not already exist — store.CreateImage is the only
// caller, and a pre-existing path there always means the caller reused a
// name by mistake.
func CreateFromPath(pathName string, size int64) (backend.Storage, error) {
	if pathName == "" {
		return nil, errors.New("must pass an image file path")
	}
	if size <= 0 {
		return nil, errors.New("must pass a positive image size")
	}
	f, err := os.OpenFile(pathName, os.O_RDWR|os.O_EXCL|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("could not create image %s: %w", pathName, err)
	}
	if err := f.Truncate(size); err != nil {
		return nil, fmt.Errorf("could not size image %s to %d bytes: %w", pathName, size, err)
	}
	return imageBackend{storage: f, readOnly: false}, nil
}

// backend.Storage interface guard
var _ backend.Storage = (*imageBackend)(nil)

func (f imageBackend) Sys() (*os.File, error) {
	if osFile, ok := f.storage.(*os.File); ok {
		return osFile, nil
	}
	return nil, backend.ErrNotSuitable
}

func (f imageBackend) Writable() (backend.WritableFile, error) {
	if rwFile, ok := f.storage.(backend.WritableFile); ok {
		if f.readOnly {
			return nil, backend.ErrIncorrectOpenMode
		}
		return rwFile, nil
	}
	return nil, backend.ErrNotSuitable
}

func (f imageBackend) Read(b []byte) (int, error) {
	return f.storage.Read(b)
}

func (f imageBackend) Close() error {
	if c, ok := f.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (f imageBackend) ReadAt(p []byte, off int64) (int, error) {
	if readerAt, ok := f.storage.(io.ReaderAt); ok {
		return readerAt.ReadAt(p, off)
	}
	return -1, backend.ErrNotSuitable
}

func (f imageBackend) Seek(offset int64, whence int) (int64, error) {
	return f.storage.Seek(offset, whence)
}
