package memvfs

import (
	"syscall"
	"testing"

	"github.com/jacobsa/timeutil"

	"github.com/stivengjinaj/os161-project/vfs"
)

func TestVnodeWriteRespectsQuota(t *testing.T) {
	var clock timeutil.SimulatedClock
	fs := New(&clock, 4)

	v, err := fs.Open("/foo", syscall.O_CREAT|syscall.O_RDWR, 0644)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer fs.Close(v)

	if err := v.Write(vfs.NewUio([]byte("abcd"), 0, vfs.UioWrite)); err != nil {
		t.Fatalf("Write within quota: %v", err)
	}

	err = v.Write(vfs.NewUio([]byte("e"), 4, vfs.UioWrite))
	if err != syscall.ENOSPC {
		t.Errorf("Write past quota = %v, want ENOSPC", err)
	}
}

func TestVnodeRefcounting(t *testing.T) {
	var clock timeutil.SimulatedClock
	v := newVnode(&clock, 0)

	if v.refcount != 1 {
		t.Fatalf("newVnode refcount = %d, want 1", v.refcount)
	}

	v.IncRef()
	if v.refcount != 2 {
		t.Errorf("refcount after IncRef = %d, want 2", v.refcount)
	}

	v.DecRef()
	v.DecRef()
	if v.refcount != 0 {
		t.Errorf("refcount after two DecRef = %d, want 0", v.refcount)
	}
}

func TestVnodeReadPastEOF(t *testing.T) {
	var clock timeutil.SimulatedClock
	v := newVnode(&clock, 0)
	v.contents = []byte("hi")

	buf := make([]byte, 4)
	uio := vfs.NewUio(buf, 2, vfs.UioRead)
	if err := v.Read(uio); err == nil {
		t.Error("Read at EOF returned nil error, want io.EOF")
	}
	if got, want := uio.Transferred(), 0; got != want {
		t.Errorf("Transferred() = %d, want %d", got, want)
	}
}
