package store

import (
	"errors"
	"strings"
	"testing"
)

func TestMkdirAndListDir(t *testing.T) {
	s := newTestStore(t, 64, 32)

	if err := s.Mkdir("/a"); err != nil {
		t.Fatalf("Mkdir(/a): %v", err)
	}
	if err := s.Mkdir("/b"); err != nil {
		t.Fatalf("Mkdir(/b): %v", err)
	}
	if err := s.Mkdir("/a/c"); err != nil {
		t.Fatalf("Mkdir(/a/c): %v", err)
	}

	got, err := s.ListDir("/")
	if err != nil {
		t.Fatalf("ListDir(/): %v", err)
	}
	if got != "a/ b/" {
		t.Errorf("ListDir(/) = %q, want %q", got, "a/ b/")
	}

	got, err = s.ListDir("/a")
	if err != nil {
		t.Fatalf("ListDir(/a): %v", err)
	}
	if got != "c/" {
		t.Errorf("ListDir(/a) = %q, want %q", got, "c/")
	}
}

func TestMkdirExistsFails(t *testing.T) {
	s := newTestStore(t, 64, 16)
	if err := s.Mkdir("/a"); err != nil {
		t.Fatalf("Mkdir(/a): %v", err)
	}
	if err := s.Mkdir("/a"); !errors.Is(err, ErrExists) {
		t.Errorf("second Mkdir(/a): err = %v, want ErrExists", err)
	}
}

func TestMkdirMissingParentFails(t *testing.T) {
	s := newTestStore(t, 64, 16)
	if err := s.Mkdir("/a/b"); !errors.Is(err, ErrNotADirectory) {
		t.Errorf("Mkdir(/a/b) with missing /a: err = %v, want ErrNotADirectory", err)
	}
}

func TestMkdirThroughFileFails(t *testing.T) {
	s := newTestStore(t, 64, 16)
	if err := s.WriteFile("/f", []byte("x")); err != nil {
		t.Fatalf("WriteFile(/f): %v", err)
	}
	if err := s.Mkdir("/f/a"); !errors.Is(err, ErrNotADirectory) {
		t.Errorf("Mkdir(/f/a) through a regular file: err = %v, want ErrNotADirectory", err)
	}
}

func TestRmdirEmptyDirectory(t *testing.T) {
	s := newTestStore(t, 64, 16)
	free0 := s.FreeBlocks()
	if err := s.Mkdir("/a"); err != nil {
		t.Fatalf("Mkdir(/a): %v", err)
	}
	if err := s.Rmdir("/a"); err != nil {
		t.Fatalf("Rmdir(/a): %v", err)
	}
	if s.FreeBlocks() != free0 {
		t.Errorf("FreeBlocks after mkdir+rmdir = %d, want %d (fully reclaimed)", s.FreeBlocks(), free0)
	}
	if _, err := s.ListDir("/a"); !errors.Is(err, ErrNoSuchFileOrDirectory) {
		t.Errorf("ListDir(/a) after Rmdir: err = %v, want ErrNoSuchFileOrDirectory", err)
	}
}

func TestRmdirNotEmptyFails(t *testing.T) {
	s := newTestStore(t, 64, 16)
	if err := s.Mkdir("/a"); err != nil {
		t.Fatalf("Mkdir(/a): %v", err)
	}
	if err := s.Mkdir("/a/b"); err != nil {
		t.Fatalf("Mkdir(/a/b): %v", err)
	}
	if err := s.Rmdir("/a"); !errors.Is(err, ErrDirectoryNotEmpty) {
		t.Errorf("Rmdir(/a) non-empty: err = %v, want ErrDirectoryNotEmpty", err)
	}
}

func TestRmdirRootFails(t *testing.T) {
	s := newTestStore(t, 64, 16)
	if err := s.Rmdir("/"); !errors.Is(err, ErrNotADirectory) {
		t.Errorf("Rmdir(/): err = %v, want ErrNotADirectory", err)
	}
}

func TestMkdirTooManyLinksFails(t *testing.T) {
	// blksz=64 gives maxLinks(64) == 4, so / can hold exactly 4 children.
	s := newTestStore(t, 64, 32)
	for _, d := range []string{"/a", "/b", "/c", "/d"} {
		if err := s.Mkdir(d); err != nil {
			t.Fatalf("Mkdir(%s): %v", d, err)
		}
	}
	if err := s.Mkdir("/e"); !errors.Is(err, ErrTooManyLinks) {
		t.Errorf("Mkdir(/e) as 5th child of a 4-link directory: err = %v, want ErrTooManyLinks", err)
	}
}

func TestMkdirNameTooLong(t *testing.T) {
	// blksz=64 gives maxName(64) == 55.
	s := newTestStore(t, 64, 16)
	ok := "/" + strings.Repeat("n", 55)
	if err := s.Mkdir(ok); err != nil {
		t.Errorf("Mkdir with a 55-byte name: err = %v, want nil", err)
	}
	tooLong := "/" + strings.Repeat("n", 56)
	if err := s.Mkdir(tooLong); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("Mkdir with a 56-byte name: err = %v, want ErrNameTooLong", err)
	}
}

func TestListDirSkipsTombstonesCorrectly(t *testing.T) {
	s := newTestStore(t, 64, 32)
	for _, d := range []string{"/a", "/b", "/c"} {
		if err := s.Mkdir(d); err != nil {
			t.Fatalf("Mkdir(%s): %v", d, err)
		}
	}
	if err := s.Rmdir("/b"); err != nil {
		t.Fatalf("Rmdir(/b): %v", err)
	}
	if err := s.Mkdir("/d"); err != nil {
		t.Fatalf("Mkdir(/d): %v", err)
	}

	got, err := s.ListDir("/")
	if err != nil {
		t.Fatalf("ListDir(/): %v", err)
	}
	if got != "a/ d/ c/" {
		t.Errorf("ListDir(/) after tombstone reuse = %q, want %q", got, "a/ d/ c/")
	}
}
