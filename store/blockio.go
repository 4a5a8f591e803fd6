package store

import (
	"fmt"

	"github.com/blockfs/blockfs/backend"
)

// blockIO is the raw I/O shim (§4.A): it knows how to seek to a block index
// and transfer exactly blksz bytes, or a caller-specified shorter length, to
// or from the backing storage. It has no knowledge of superblocks, inodes,
// or the free list.
type blockIO struct {
	storage backend.Storage
	blksz   uint64
}

// readBlock reads blksz bytes (or n, if given and smaller) from block pos.
func (b *blockIO) readBlock(pos uint64, buf []byte, n ...uint64) error {
	want := b.blksz
	if len(n) > 0 {
		want = n[0]
	}
	if uint64(len(buf)) < want {
		return fmt.Errorf("read_block: buffer too small for %d bytes", want)
	}
	off := int64(pos) * int64(b.blksz)
	got, err := b.storage.ReadAt(buf[:want], off)
	if err != nil && uint64(got) < want {
		return fmt.Errorf("read_block(%d): %w", pos, err)
	}
	return nil
}

// writeBlock writes blksz bytes (or n, if given and smaller) to block pos.
func (b *blockIO) writeBlock(pos uint64, buf []byte, n ...uint64) error {
	want := b.blksz
	if len(n) > 0 {
		want = n[0]
	}
	if uint64(len(buf)) < want {
		return fmt.Errorf("write_block: buffer too small for %d bytes", want)
	}
	w, err := b.storage.Writable()
	if err != nil {
		return fmt.Errorf("write_block(%d): %w", pos, err)
	}
	off := int64(pos) * int64(b.blksz)
	got, err := w.WriteAt(buf[:want], off)
	if err != nil && uint64(got) < want {
		return fmt.Errorf("write_block(%d): %w", pos, err)
	}
	return nil
}

func (b *blockIO) newBlock() []byte {
	return make([]byte, b.blksz)
}
