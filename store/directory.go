package store

import (
	"errors"
	"strings"
)

// linkBlk places childBlk into the first free slot of the directory at
// parentBlk and bumps its live-entry count.
func (s *Store) linkBlk(op, parentBlk, childBlk uint64) error {
	ino, err := s.readInodeAt(parentBlk)
	if err != nil {
		return err
	}
	if ino.mode != modeDir {
		return opErr(op, "", ErrNotADirectory)
	}
	info, err := s.readNodeinfoAt(ino.meta)
	if err != nil {
		return err
	}
	l := uint64(len(ino.links))
	if info.size >= l {
		return opErr(op, "", ErrTooManyLinks)
	}
	slot := -1
	for i, v := range ino.links {
		if v == tombstone {
			slot = i
			break
		}
	}
	if slot < 0 {
		// info.size < l guaranteed a free slot exists; this would only
		// happen if size and the link array disagree.
		return opErr(op, "", ErrTooManyLinks)
	}
	ino.links[slot] = childBlk
	info.size++
	if err := s.writeInodeAt(parentBlk, ino); err != nil {
		return err
	}
	return s.writeNodeinfoAt(ino.meta, info)
}

// unlinkBlk removes childBlk from the directory at parentBlk. A child not
// present is tolerated as a no-op: callers already know the child exists
// via the resolver, per spec.md §4.F.
func (s *Store) unlinkBlk(parentBlk, childBlk uint64) error {
	ino, err := s.readInodeAt(parentBlk)
	if err != nil {
		return err
	}
	info, err := s.readNodeinfoAt(ino.meta)
	if err != nil {
		return err
	}
	live := uint64(0)
	l := uint64(len(ino.links))
	for i := uint64(0); i < l && live < info.size; i++ {
		if ino.links[i] == tombstone {
			continue
		}
		live++
		if ino.links[i] == childBlk {
			ino.links[i] = tombstone
			info.size--
			if err := s.writeInodeAt(parentBlk, ino); err != nil {
				return err
			}
			return s.writeNodeinfoAt(ino.meta, info)
		}
	}
	return nil
}

// ListDir returns a space-separated list of dname's live children, each
// suffixed with "/" if it is itself a directory.
func (s *Store) ListDir(dname string) (string, error) {
	if err := s.checkMagic("list_dir", dname); err != nil {
		return "", err
	}
	blk, err := s.findBlk("list_dir", dname)
	if err != nil {
		return "", err
	}
	ino, info, err := s.loadHead(blk)
	if err != nil {
		return "", err
	}
	if ino.mode != modeDir {
		return "", opErr("list_dir", dname, ErrNotADirectory)
	}

	var names []string
	live := uint64(0)
	l := uint64(len(ino.links))
	for i := uint64(0); i < l && live < info.size; i++ {
		child := ino.links[i]
		if child == tombstone {
			continue
		}
		live++
		childIno, childInfo, err := s.loadHead(child)
		if err != nil {
			return "", err
		}
		name := childInfo.name
		if childIno.mode == modeDir {
			name += "/"
		}
		names = append(names, name)
	}
	return strings.Join(names, " "), nil
}

// Mkdir creates an empty directory at dname. The parent must already
// exist and have room for one more child.
func (s *Store) Mkdir(dname string) error {
	if err := s.checkMagic("mkdir", dname); err != nil {
		return err
	}
	if err := validatePath("mkdir", dname, ErrNotADirectory); err != nil {
		return err
	}
	if s.sb.freeblks < 2 {
		return opErr("mkdir", dname, ErrBusy)
	}
	if _, err := s.findBlk("mkdir", dname); err == nil {
		return opErr("mkdir", dname, ErrExists)
	} else if !errors.Is(err, ErrNoSuchFileOrDirectory) {
		return err
	}

	parentPath, base := splitPath(dname)
	if uint64(len(base)) > maxName(s.io.blksz) {
		return opErr("mkdir", dname, ErrNameTooLong)
	}
	parentBlk, err := s.findBlk("mkdir", parentPath)
	if err != nil {
		return opErr("mkdir", dname, ErrNotADirectory)
	}

	headBlk, err := s.getBlock()
	if err != nil {
		return err
	}
	if headBlk == 0 {
		return opErr("mkdir", dname, ErrNoSpace)
	}
	if err := s.linkBlk("mkdir", parentBlk, headBlk); err != nil {
		_ = s.putBlock(headBlk)
		return err
	}

	infoBlk, err := s.getBlock()
	if err != nil || infoBlk == 0 {
		_ = s.unlinkBlk(parentBlk, headBlk)
		_ = s.putBlock(headBlk)
		if err != nil {
			return err
		}
		return opErr("mkdir", dname, ErrNoSpace)
	}

	ino := newEmptyInode(modeDir, parentBlk, infoBlk, 0, s.io.blksz)
	if err := s.writeInodeAt(headBlk, ino); err != nil {
		return err
	}
	info := &nodeinfoRecord{size: 0, name: base}
	if err := s.writeNodeinfoAt(infoBlk, info); err != nil {
		return err
	}

	s.log.WithField("path", dname).Debug("mkdir")
	return nil
}

// Rmdir removes the empty directory at dname.
func (s *Store) Rmdir(dname string) error {
	if err := s.checkMagic("rmdir", dname); err != nil {
		return err
	}
	if err := validatePath("rmdir", dname, ErrNotADirectory); err != nil {
		return err
	}
	blk, err := s.findBlk("rmdir", dname)
	if err != nil {
		return err
	}
	if blk == s.sb.root {
		// The root has no parent directory to unlink it from.
		return opErr("rmdir", dname, ErrNotADirectory)
	}
	ino, info, err := s.loadHead(blk)
	if err != nil {
		return err
	}
	if ino.mode != modeDir {
		return opErr("rmdir", dname, ErrNotADirectory)
	}
	if info.size != 0 {
		return opErr("rmdir", dname, ErrDirectoryNotEmpty)
	}

	if err := s.unlinkBlk(ino.parent, blk); err != nil {
		return err
	}
	if err := s.putBlock(ino.meta); err != nil {
		return err
	}
	if err := s.putBlock(blk); err != nil {
		return err
	}

	s.log.WithField("path", dname).Debug("rmdir")
	return nil
}
