package store

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// SnapshotLZ4 streams the entire backing image, compressed with LZ4, to w.
// Useful for cheap, fast backups of a mounted image between sessions; it
// does not take its own lock beyond the one Format/Open already hold.
func (s *Store) SnapshotLZ4(w io.Writer) error {
	if err := s.checkMagic("snapshot_lz4", ""); err != nil {
		return err
	}
	if _, err := s.storage.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("snapshot_lz4: %w", err)
	}
	zw := lz4.NewWriter(w)
	if _, err := io.Copy(zw, s.storage); err != nil {
		return fmt.Errorf("snapshot_lz4: %w", err)
	}
	return zw.Close()
}

// SnapshotXZ streams the entire backing image, compressed with XZ, to w.
// Slower and tighter than SnapshotLZ4; meant for archival export rather
// than routine backup.
func (s *Store) SnapshotXZ(w io.Writer) error {
	if err := s.checkMagic("snapshot_xz", ""); err != nil {
		return err
	}
	if _, err := s.storage.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("snapshot_xz: %w", err)
	}
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("snapshot_xz: %w", err)
	}
	if _, err := io.Copy(zw, s.storage); err != nil {
		return fmt.Errorf("snapshot_xz: %w", err)
	}
	return zw.Close()
}
