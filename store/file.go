package store

import "errors"

// ceilDiv returns ⌈a/b⌉, with ⌈0/b⌉ == 0.
func ceilDiv(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// childCount returns the number of IMCHILD spill inodes needed to hold
// `used` data-block slots when each inode (head or child) holds L links:
// max(⌈used/L⌉ - 1, 0).
func childCount(used, l uint64) uint64 {
	q := ceilDiv(used, l)
	if q == 0 {
		return 0
	}
	return q - 1
}

// WriteFile replaces the entire contents of fname with buf, creating the
// file if it does not exist. This is full-overwrite semantics, not
// append: a second WriteFile call on the same path replaces, not extends.
func (s *Store) WriteFile(fname string, buf []byte) error {
	const op = "write_file"
	if err := s.checkMagic(op, fname); err != nil {
		return err
	}
	if err := validatePath(op, fname, ErrNoSuchFileOrDirectory); err != nil {
		return err
	}

	cnt := uint64(len(buf))
	l := maxLinks(s.io.blksz)

	blk, ferr := s.findBlk(op, fname)
	var headIno *inodeRecord
	var info *nodeinfoRecord
	var parentBlk uint64
	created := false

	switch {
	case ferr == nil:
		var err error
		headIno, info, err = s.loadHead(blk)
		if err != nil {
			return err
		}
		if headIno.mode != modeReg {
			return opErr(op, fname, ErrIsADirectory)
		}
	case errors.Is(ferr, ErrNoSuchFileOrDirectory):
		parentPath, base := splitPath(fname)
		var err error
		parentBlk, err = s.findBlk(op, parentPath)
		if err != nil {
			return opErr(op, fname, ErrNotADirectory)
		}
		if uint64(len(base)) > maxName(s.io.blksz) {
			return opErr(op, fname, ErrNameTooLong)
		}

		headBlk, err := s.getBlock()
		if err != nil {
			return err
		}
		if headBlk == 0 {
			return opErr(op, fname, ErrNoSpace)
		}
		if err := s.linkBlk(op, parentBlk, headBlk); err != nil {
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
			return opErr(op, fname, ErrNoSpace)
		}

		headIno = newEmptyInode(modeReg, parentBlk, infoBlk, 0, s.io.blksz)
		info = &nodeinfoRecord{size: 0, name: base}
		blk = headBlk
		created = true
	default:
		return ferr
	}

	used := ceilDiv(info.size, s.io.blksz)
	childUsed := childCount(used, l)
	need := ceilDiv(cnt, s.io.blksz)
	childNeed := childCount(need, l)

	var growth uint64
	if need > used {
		growth += need - used
	}
	if childNeed > childUsed {
		growth += childNeed - childUsed
	}
	if growth > s.sb.freeblks {
		if created {
			_ = s.unlinkBlk(parentBlk, blk)
			_ = s.putBlock(headIno.meta)
			_ = s.putBlock(blk)
		}
		return opErr(op, fname, ErrNoSpace)
	}

	info.size = cnt
	if err := s.writeNodeinfoAt(headIno.meta, info); err != nil {
		return err
	}

	current := headIno
	currentBlk := blk
	for j := uint64(0); j < need; j++ {
		i := j % l
		if i == 0 && j > 0 {
			if current.next != 0 {
				nextBlk := current.next
				ino, err := s.readInodeAt(nextBlk)
				if err != nil {
					return err
				}
				current, currentBlk = ino, nextBlk
			} else {
				newBlk, err := s.getBlock()
				if err != nil {
					return err
				}
				if newBlk == 0 {
					return opErr(op, fname, ErrNoSpace)
				}
				current.next = newBlk
				if err := s.writeInodeAt(currentBlk, current); err != nil {
					return err
				}
				current = newEmptyInode(modeChild, currentBlk, headIno.meta, 0, s.io.blksz)
				currentBlk = newBlk
			}
		}

		if current.links[i] == tombstone {
			dataBlk, err := s.getBlock()
			if err != nil {
				return err
			}
			if dataBlk == 0 {
				return opErr(op, fname, ErrNoSpace)
			}
			current.links[i] = dataBlk
		}

		writeLen := s.io.blksz
		if j == need-1 {
			writeLen = cnt - j*s.io.blksz
		}
		dbuf := s.io.newBlock()
		copy(dbuf, buf[j*s.io.blksz:j*s.io.blksz+writeLen])
		if err := s.io.writeBlock(current.links[i], dbuf, writeLen); err != nil {
			return err
		}
	}

	clearFrom := uint64(0)
	if need > 0 {
		clearFrom = (need-1)%l + 1
	}
	for i := clearFrom; i < l; i++ {
		if current.links[i] != tombstone {
			if err := s.putBlock(current.links[i]); err != nil {
				return err
			}
			current.links[i] = tombstone
		}
	}
	oldNext := current.next
	current.next = 0
	if err := s.writeInodeAt(currentBlk, current); err != nil {
		return err
	}

	for oldNext != 0 {
		child, err := s.readInodeAt(oldNext)
		if err != nil {
			return err
		}
		for _, dblk := range child.links {
			if dblk != tombstone {
				if err := s.putBlock(dblk); err != nil {
					return err
				}
			}
		}
		freed := oldNext
		oldNext = child.next
		if err := s.putBlock(freed); err != nil {
			return err
		}
	}

	s.log.WithField("path", fname).WithField("size", cnt).Debug("write_file")
	return nil
}

// ReadFile copies min(file size, len(buf)) bytes into buf and returns how
// many bytes were copied.
func (s *Store) ReadFile(fname string, buf []byte) (int, error) {
	const op = "read_file"
	if err := s.checkMagic(op, fname); err != nil {
		return 0, err
	}
	if err := validatePath(op, fname, ErrNoSuchFileOrDirectory); err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, nil
	}

	blk, err := s.findBlk(op, fname)
	if err != nil {
		return 0, err
	}
	ino, info, err := s.loadHead(blk)
	if err != nil {
		return 0, err
	}
	if ino.mode != modeReg {
		return 0, opErr(op, fname, ErrIsADirectory)
	}

	n := info.size
	if uint64(len(buf)) < n {
		n = uint64(len(buf))
	}

	l := maxLinks(s.io.blksz)
	need := ceilDiv(n, s.io.blksz)
	current := ino
	var read uint64
	for j := uint64(0); j < need; j++ {
		i := j % l
		if i == 0 && j > 0 {
			if current.next == 0 {
				return int(read), nil
			}
			current, err = s.readInodeAt(current.next)
			if err != nil {
				return int(read), err
			}
		}
		chunkLen := s.io.blksz
		if j == need-1 {
			chunkLen = n - j*s.io.blksz
		}
		dbuf := s.io.newBlock()
		if err := s.io.readBlock(current.links[i], dbuf, chunkLen); err != nil {
			return int(read), err
		}
		copy(buf[read:read+chunkLen], dbuf[:chunkLen])
		read += chunkLen
	}
	return int(read), nil
}

// Unlink removes the regular file at fname and reclaims its chain.
func (s *Store) Unlink(fname string) error {
	const op = "unlink"
	if err := s.checkMagic(op, fname); err != nil {
		return err
	}
	if err := validatePath(op, fname, ErrNoSuchFileOrDirectory); err != nil {
		return err
	}

	blk, err := s.findBlk(op, fname)
	if err != nil {
		return err
	}
	ino, _, err := s.loadHead(blk)
	if err != nil {
		return err
	}
	if ino.mode != modeReg {
		return opErr(op, fname, ErrIsADirectory)
	}

	if err := s.unlinkBlk(ino.parent, blk); err != nil {
		return err
	}
	if err := s.putBlock(ino.meta); err != nil {
		return err
	}

	cur, curBlk := ino, blk
	for {
		for _, dblk := range cur.links {
			if dblk != tombstone {
				if err := s.putBlock(dblk); err != nil {
					return err
				}
			}
		}
		next := cur.next
		if err := s.putBlock(curBlk); err != nil {
			return err
		}
		if next == 0 {
			break
		}
		curBlk = next
		cur, err = s.readInodeAt(next)
		if err != nil {
			return err
		}
	}

	s.log.WithField("path", fname).Debug("unlink")
	return nil
}
