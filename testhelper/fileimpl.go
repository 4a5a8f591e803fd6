package testhelper

import (
	"fmt"
	"os"

	"github.com/blockfs/blockfs/backend"
)

type reader func(b []byte, offset int64) (int, error)
type writer func(b []byte, offset int64) (int, error)

// FileImpl implements github.com/blockfs/blockfs/backend.Storage
// used for testing to enable stubbing out files
type FileImpl struct {
	Reader reader
	Writer writer
}

// backend.Storage interface guard
var _ backend.Storage = (*FileImpl)(nil)

// Sys a FileImpl is never backed by a real *os.File
func (f *FileImpl) Sys() (*os.File, error) {
	return nil, backend.ErrNotSuitable
}

// Writable a FileImpl always implements WriteAt, so it is always writable
func (f *FileImpl) Writable() (backend.WritableFile, error) {
	return f, nil
}

func (f *FileImpl) Read(b []byte) (int, error) {
	return f.Reader(b, 0)
}

func (f *FileImpl) Close() error {
	return nil
}

// ReadAt read at a particular offset
func (f *FileImpl) ReadAt(b []byte, offset int64) (int, error) {
	return f.Reader(b, offset)
}

// WriteAt write at a particular offset
func (f *FileImpl) WriteAt(b []byte, offset int64) (int, error) {
	return f.Writer(b, offset)
}

// Seek seek a particular offset - does not actually work
//
//nolint:unused,revive // to implement the interface
func (f *FileImpl) Seek(offset int64, whence int) (int64, error) {
	return 0, fmt.Errorf("FileImpl does not implement Seek()")
}
