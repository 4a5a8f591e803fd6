package store

import (
	"errors"
	"testing"

	"github.com/blockfs/blockfs/testhelper"
)

func TestBlockIOPropagatesReadError(t *testing.T) {
	wantErr := errors.New("injected read failure")
	f := &testhelper.FileImpl{
		Reader: func(b []byte, offset int64) (int, error) {
			return 0, wantErr
		},
	}
	io := &blockIO{storage: f, blksz: 64}

	buf := make([]byte, 64)
	err := io.readBlock(3, buf)
	if err == nil || !errors.Is(err, wantErr) {
		t.Errorf("readBlock with a failing backend: err = %v, want wrapping %v", err, wantErr)
	}
}

func TestBlockIOPropagatesWriteError(t *testing.T) {
	wantErr := errors.New("injected write failure")
	f := &testhelper.FileImpl{
		Writer: func(b []byte, offset int64) (int, error) {
			return 0, wantErr
		},
	}
	io := &blockIO{storage: f, blksz: 64}

	buf := make([]byte, 64)
	err := io.writeBlock(3, buf)
	if err == nil || !errors.Is(err, wantErr) {
		t.Errorf("writeBlock with a failing backend: err = %v, want wrapping %v", err, wantErr)
	}
}

func TestBlockIORejectsUndersizedBuffer(t *testing.T) {
	f := &testhelper.FileImpl{
		Reader: func(b []byte, offset int64) (int, error) { return len(b), nil },
	}
	io := &blockIO{storage: f, blksz: 64}

	if err := io.readBlock(0, make([]byte, 32)); err == nil {
		t.Error("readBlock into a too-small buffer succeeded, want an error")
	}
}
