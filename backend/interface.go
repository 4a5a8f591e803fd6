// Package backend defines the raw byte-addressable handle a mounted
// block store is built on. store/blockio.go never sees an *os.File
// directly — only this interface, addressed in whole blocks via
// ReadAt/WriteAt, so the store can be driven against a real image file in
// production and a fault-injecting stub (testhelper.FileImpl) in tests.
package backend

import (
	"errors"
	"io"
	"os"
)

var (
	// ErrIncorrectOpenMode is returned by Writable when the backing
	// image was opened read-only.
	ErrIncorrectOpenMode = errors.New("backing image not open for write")
	// ErrNotSuitable is returned when a handle can't support the
	// operation asked of it — e.g. Sys() on a handle with no *os.File.
	ErrNotSuitable = errors.New("backing handle does not support this operation")
)

// File is the minimum a backing handle must support: sequential reads
// (SnapshotLZ4/SnapshotXZ stream the whole image through io.Copy),
// random-access reads (every block read), seeking (Format uses this to
// measure the image before computing nblocks), and closing.
type File interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
}

// WritableFile is a File that also accepts writes at an arbitrary block
// offset. The store never appends or tracks a write cursor — every
// mutation lands via WriteAt.
type WritableFile interface {
	File
	io.WriterAt
}

// Storage is the backing handle for one mounted image, the contract
// store.Format/store.Open hold for the session's lifetime.
type Storage interface {
	File
	// Sys exposes the OS-level *os.File underneath, needed to flock(2)
	// the image exclusively for the duration of the mount.
	Sys() (*os.File, error)
	// Writable returns a WritableFile view of this Storage, or
	// ErrIncorrectOpenMode if the handle was opened read-only.
	Writable() (WritableFile, error)
}
