package store

import (
	"path/filepath"
	"testing"
)

// newTestStore formats a fresh image in a t.TempDir() and returns the
// mounted Store. Callers get a ready-to-use handle; Close is registered
// via t.Cleanup.
func newTestStore(t *testing.T, blksz, nblocks uint64) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.blockfs")
	if err := CreateImage(path, int64(blksz*nblocks)); err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	s, err := Format(path, blksz)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
