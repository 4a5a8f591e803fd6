package store

import (
	"strings"
	"testing"
)

func TestDumpBlockShowsRootName(t *testing.T) {
	s := newTestStore(t, 64, 16)
	out, err := s.DumpBlock(rootInfoBlock)
	if err != nil {
		t.Fatalf("DumpBlock: %v", err)
	}
	if !strings.Contains(out, "/") {
		t.Errorf("DumpBlock(rootInfoBlock) = %q, want it to contain the root name", out)
	}
}
