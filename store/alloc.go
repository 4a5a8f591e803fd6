package store

// GetBlock hands out the block at the head of the free list, advances the
// free-list head, and persists the superblock. It returns 0 ("no space")
// when the free list is empty — 0 is never itself allocated, since it is
// the superblock's own index (see spec.md §9 design notes on this
// sentinel).
func (s *Store) GetBlock() (uint64, error) {
	if err := s.checkMagic("get_block", ""); err != nil {
		return 0, err
	}
	return s.getBlock()
}

func (s *Store) getBlock() (uint64, error) {
	if s.sb.freeblks == 0 {
		return 0, nil
	}
	blk := s.sb.freelist
	buf := s.io.newBlock()
	if err := s.io.readBlock(blk, buf); err != nil {
		return 0, err
	}
	fp, err := decodeFreepage(buf)
	if err != nil {
		return 0, err
	}
	s.sb.freelist = fp.next
	s.sb.freeblks--
	if err := s.persistSuperblock(); err != nil {
		return 0, err
	}
	return blk, nil
}

// PutBlock pushes blk onto the front of the free list and persists the
// superblock.
func (s *Store) PutBlock(blk uint64) error {
	if err := s.checkMagic("put_block", ""); err != nil {
		return err
	}
	return s.putBlock(blk)
}

func (s *Store) putBlock(blk uint64) error {
	fp := freepageRecord{count: 0, next: s.sb.freelist}
	buf := s.io.newBlock()
	fp.encode(buf)
	if err := s.io.writeBlock(blk, buf); err != nil {
		return err
	}
	s.sb.freelist = blk
	s.sb.freeblks++
	return s.persistSuperblock()
}
