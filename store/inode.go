package store

// readInodeAt loads and decodes the inode stored at block blk.
func (s *Store) readInodeAt(blk uint64) (*inodeRecord, error) {
	buf := s.io.newBlock()
	if err := s.io.readBlock(blk, buf); err != nil {
		return nil, err
	}
	return decodeInode(buf, s.io.blksz)
}

// writeInodeAt persists ino to block blk.
func (s *Store) writeInodeAt(blk uint64, ino *inodeRecord) error {
	buf := s.io.newBlock()
	ino.encode(buf, s.io.blksz)
	return s.io.writeBlock(blk, buf)
}

// readNodeinfoAt loads and decodes the nodeinfo stored at block blk.
func (s *Store) readNodeinfoAt(blk uint64) (*nodeinfoRecord, error) {
	buf := s.io.newBlock()
	if err := s.io.readBlock(blk, buf); err != nil {
		return nil, err
	}
	return decodeNodeinfo(buf, s.io.blksz)
}

// writeNodeinfoAt persists info to block blk.
func (s *Store) writeNodeinfoAt(blk uint64, info *nodeinfoRecord) error {
	buf := s.io.newBlock()
	if err := info.encode(buf, s.io.blksz); err != nil {
		return err
	}
	return s.io.writeBlock(blk, buf)
}
