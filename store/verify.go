package store

import (
	"fmt"

	"github.com/blockfs/blockfs/util/bitmap"
)

// Verify walks the free list and the tree reachable from root and checks
// the invariant every block belongs to exactly one of those two sets
// (spec.md §8.2). It never mutates the image; a non-nil error names the
// first inconsistency found.
func (s *Store) Verify() error {
	const op = "verify"
	if err := s.checkMagic(op, ""); err != nil {
		return err
	}

	seen := bitmap.NewBlockSet(s.sb.blks)
	mark := func(blk uint64) error {
		marked, err := seen.Marked(blk)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if marked {
			return fmt.Errorf("verify: block %d referenced from more than one place", blk)
		}
		return seen.Mark(blk)
	}

	if err := mark(superblockBlock); err != nil {
		return err
	}

	cur := s.sb.freelist
	count := uint64(0)
	for cur != 0 {
		if err := mark(cur); err != nil {
			return err
		}
		buf := s.io.newBlock()
		if err := s.io.readBlock(cur, buf, freepageHeaderSize); err != nil {
			return err
		}
		fp, err := decodeFreepage(buf)
		if err != nil {
			return err
		}
		cur = fp.next
		count++
	}
	if count != s.sb.freeblks {
		return fmt.Errorf("verify: free list has %d blocks, superblock says %d", count, s.sb.freeblks)
	}

	if err := s.walkTree(s.sb.root, mark); err != nil {
		return err
	}

	if missing := seen.Unmarked(); len(missing) > 0 {
		return fmt.Errorf("verify: block %d is in neither the free list nor the tree", missing[0])
	}
	return nil
}

// walkTree marks every block reachable from the head inode at blk: the
// head itself, its nodeinfo, and — for a regular file — every data block
// and IMCHILD inode in its chain, or — for a directory — every live
// child, recursively.
func (s *Store) walkTree(blk uint64, mark func(uint64) error) error {
	if err := mark(blk); err != nil {
		return err
	}
	ino, err := s.readInodeAt(blk)
	if err != nil {
		return err
	}
	if err := mark(ino.meta); err != nil {
		return err
	}
	info, err := s.readNodeinfoAt(ino.meta)
	if err != nil {
		return err
	}

	switch ino.mode {
	case modeDir:
		live := uint64(0)
		l := uint64(len(ino.links))
		for i := uint64(0); i < l && live < info.size; i++ {
			child := ino.links[i]
			if child == tombstone {
				continue
			}
			live++
			if err := s.walkTree(child, mark); err != nil {
				return err
			}
		}
	case modeReg:
		l := maxLinks(s.io.blksz)
		need := ceilDiv(info.size, s.io.blksz)
		current := ino
		for j := uint64(0); j < need; j++ {
			i := j % l
			if i == 0 && j > 0 {
				if err := mark(current.next); err != nil {
					return err
				}
				current, err = s.readInodeAt(current.next)
				if err != nil {
					return err
				}
			}
			if err := mark(current.links[i]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("verify: block %d has unexpected mode %s", blk, ino.mode)
	}
	return nil
}
