package store

import "strings"

// validatePath enforces the grammar common to every operation: absolute,
// non-empty, and no spaces in any component. kind is the error the caller
// should report for a malformed path — spec.md documents that this
// differs by operation (ErrNoSuchFileOrDirectory for read/write/unlink,
// ErrNotADirectory for mkdir/rmdir).
func validatePath(op, path string, kind Kind) error {
	if path == "" || path[0] != '/' {
		return opErr(op, path, kind)
	}
	for _, tok := range strings.Split(path, "/") {
		if strings.Contains(tok, " ") {
			return opErr(op, path, kind)
		}
	}
	return nil
}

// loadHead reads the inode and nodeinfo of a directory or regular-file
// head inode at block blk.
func (s *Store) loadHead(blk uint64) (*inodeRecord, *nodeinfoRecord, error) {
	ino, err := s.readInodeAt(blk)
	if err != nil {
		return nil, nil, err
	}
	info, err := s.readNodeinfoAt(ino.meta)
	if err != nil {
		return nil, nil, err
	}
	return ino, info, nil
}

// scanDirFor performs the bounded, tombstone-skipping scan spec.md §4.E
// and the design notes in §9 require: bounded by both the live count
// (info.size) and the array length (len(dirIno.links)), never a naive
// "for i in 0..size" walk.
func (s *Store) scanDirFor(dirIno *inodeRecord, dirInfo *nodeinfoRecord, name string) (blk uint64, found bool, err error) {
	live := uint64(0)
	l := uint64(len(dirIno.links))
	for i := uint64(0); i < l && live < dirInfo.size; i++ {
		child := dirIno.links[i]
		if child == tombstone {
			continue
		}
		live++
		_, childInfo, lerr := s.loadHead(child)
		if lerr != nil {
			return 0, false, lerr
		}
		if childInfo.name == name {
			return child, true, nil
		}
	}
	return 0, false, nil
}

// findBlk walks path from the root, descending through directory inodes
// by matching nodeinfo.name against each token, and returns the block
// index of the final matched inode. Path "/" resolves to the root.
func (s *Store) findBlk(op, path string) (uint64, error) {
	if path == "/" {
		return s.sb.root, nil
	}
	cur := s.sb.root
	for _, tok := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if tok == "" {
			continue
		}
		ino, err := s.readInodeAt(cur)
		if err != nil {
			return 0, err
		}
		if ino.mode != modeDir {
			return 0, opErr(op, path, ErrNotADirectory)
		}
		info, err := s.readNodeinfoAt(ino.meta)
		if err != nil {
			return 0, err
		}
		child, found, err := s.scanDirFor(ino, info, tok)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, opErr(op, path, ErrNoSuchFileOrDirectory)
		}
		cur = child
	}
	return cur, nil
}

// splitPath separates an absolute path into its parent directory and
// basename. splitPath("/a/b/c") == ("/a/b", "c"); splitPath("/a") ==
// ("/", "a").
func splitPath(path string) (dir, base string) {
	i := strings.LastIndex(path, "/")
	dir = path[:i]
	if dir == "" {
		dir = "/"
	}
	base = path[i+1:]
	return dir, base
}
