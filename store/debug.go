package store

import "github.com/blockfs/blockfs/util"

// DumpBlock renders the raw bytes of block blk as a hex/ASCII dump, xxd
// style. Meant for diagnosing a failed Verify(), not for routine use.
func (s *Store) DumpBlock(blk uint64) (string, error) {
	if err := s.checkMagic("dump_block", ""); err != nil {
		return "", err
	}
	buf := s.io.newBlock()
	if err := s.io.readBlock(blk, buf); err != nil {
		return "", err
	}
	return util.DumpBlock(buf), nil
}
