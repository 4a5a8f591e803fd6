package store

import (
	"errors"
	"testing"
)

func TestGetPutBlockRoundTrip(t *testing.T) {
	s := newTestStore(t, 64, 16)
	free0 := s.FreeBlocks()

	blk, err := s.GetBlock()
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if blk == 0 {
		t.Fatalf("GetBlock returned 0 (no space) on a fresh %d-block image", s.BlockCount())
	}
	if s.FreeBlocks() != free0-1 {
		t.Errorf("FreeBlocks after GetBlock = %d, want %d", s.FreeBlocks(), free0-1)
	}

	if err := s.PutBlock(blk); err != nil {
		t.Fatalf("PutBlock: %v", err)
	}
	if s.FreeBlocks() != free0 {
		t.Errorf("FreeBlocks after PutBlock = %d, want %d", s.FreeBlocks(), free0)
	}

	// The freed block is handed out again before any other, since the
	// free list is LIFO.
	blk2, err := s.GetBlock()
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if blk2 != blk {
		t.Errorf("GetBlock after PutBlock = %d, want %d (LIFO reuse)", blk2, blk)
	}
}

func TestGetBlockExhaustion(t *testing.T) {
	s := newTestStore(t, 64, 8) // MinBlockCount: 5 free blocks (8 - superblock - root inode - root nodeinfo)
	var got []uint64
	for {
		blk, err := s.GetBlock()
		if err != nil {
			t.Fatalf("GetBlock: %v", err)
		}
		if blk == 0 {
			break
		}
		got = append(got, blk)
	}
	if uint64(len(got)) != 5 {
		t.Fatalf("drained %d blocks, want 5", len(got))
	}
	if s.FreeBlocks() != 0 {
		t.Errorf("FreeBlocks after exhaustion = %d, want 0", s.FreeBlocks())
	}

	blk, err := s.GetBlock()
	if err != nil {
		t.Fatalf("GetBlock on empty list: %v", err)
	}
	if blk != 0 {
		t.Errorf("GetBlock on empty list = %d, want 0", blk)
	}

	for _, b := range got {
		if err := s.PutBlock(b); err != nil {
			t.Fatalf("PutBlock(%d): %v", b, err)
		}
	}
	if s.FreeBlocks() != 5 {
		t.Errorf("FreeBlocks after returning everything = %d, want 5", s.FreeBlocks())
	}
}

func TestGetPutBlockFailAfterClose(t *testing.T) {
	s := newTestStore(t, 64, 16)
	_ = s.Close()
	if _, err := s.GetBlock(); !errors.Is(err, ErrBadFileDescriptor) {
		t.Errorf("GetBlock after Close: err = %v, want ErrBadFileDescriptor", err)
	}
	if err := s.PutBlock(3); !errors.Is(err, ErrBadFileDescriptor) {
		t.Errorf("PutBlock after Close: err = %v, want ErrBadFileDescriptor", err)
	}
}
