package openfile

import (
	"io"
	"testing"

	"github.com/stivengjinaj/os161-project/vfs"
)

// fakeVnode is a minimal vfs.Vnode backed by a byte slice, enough to drive
// File's offset bookkeeping without a real FileSystem.
type fakeVnode struct {
	contents  []byte
	seekable  bool
	refcount  int
	closed    bool
}

func newFakeVnode(contents string) *fakeVnode {
	return &fakeVnode{contents: []byte(contents), seekable: true, refcount: 1}
}

func (v *fakeVnode) Stat() (vfs.Stat, error) {
	return vfs.Stat{Size: int64(len(v.contents))}, nil
}

func (v *fakeVnode) Read(uio *vfs.Uio) error {
	if uio.Offset >= int64(len(v.contents)) {
		uio.Resid = len(uio.Buf)
		return io.EOF
	}
	n := copy(uio.Buf, v.contents[uio.Offset:])
	uio.Resid = len(uio.Buf) - n
	return nil
}

func (v *fakeVnode) Write(uio *vfs.Uio) error {
	end := uio.Offset + int64(len(uio.Buf))
	if end > int64(len(v.contents)) {
		grown := make([]byte, end)
		copy(grown, v.contents)
		v.contents = grown
	}
	n := copy(v.contents[uio.Offset:], uio.Buf)
	uio.Resid = len(uio.Buf) - n
	return nil
}

func (v *fakeVnode) IsSeekable() bool { return v.seekable }
func (v *fakeVnode) IncRef()          { v.refcount++ }
func (v *fakeVnode) DecRef()          { v.refcount--; v.closed = v.refcount == 0 }

// fakeFS lets Release exercise the real Close path without a memvfs.
type fakeFS struct {
	closed []vfs.Vnode
}

func (fs *fakeFS) Open(string, int, uint32) (vfs.Vnode, error) { panic("not used") }
func (fs *fakeFS) Close(v vfs.Vnode) error {
	fs.closed = append(fs.closed, v)
	return nil
}
func (fs *fakeFS) Chdir(string) (vfs.Vnode, error)       { panic("not used") }
func (fs *fakeFS) Getcwd(vfs.Vnode, *vfs.Uio) error { panic("not used") }

func TestFileReadAdvancesOffset(t *testing.T) {
	v := newFakeVnode("hello world")
	f := New(v, Mode{Access: Read}, 0)

	buf := make([]byte, 5)
	n, err := f.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got, want := string(buf[:n]), "hello"; got != want {
		t.Errorf("Read = %q, want %q", got, want)
	}
	if got, want := f.Offset(), int64(5); got != want {
		t.Errorf("Offset() = %d, want %d", got, want)
	}

	n, err = f.Read(buf)
	if err != nil {
		t.Fatalf("second Read: %v", err)
	}
	if got, want := string(buf[:n]), " worl"; got != want {
		t.Errorf("second Read = %q, want %q", got, want)
	}
}

func TestFileReadAtEOF(t *testing.T) {
	v := newFakeVnode("hi")
	f := New(v, Mode{Access: Read}, 2)

	buf := make([]byte, 4)
	n, err := f.Read(buf)
	if err != nil {
		t.Fatalf("Read at EOF returned error: %v", err)
	}
	if n != 0 {
		t.Errorf("Read at EOF returned n = %d, want 0", n)
	}
}

func TestFileWriteAdvancesOffset(t *testing.T) {
	v := newFakeVnode("")
	f := New(v, Mode{Access: Write}, 0)

	n, err := f.Write([]byte("taco"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := n, 4; got != want {
		t.Errorf("Write returned n = %d, want %d", got, want)
	}
	if got, want := f.Offset(), int64(4); got != want {
		t.Errorf("Offset() = %d, want %d", got, want)
	}
	if got, want := string(v.contents), "taco"; got != want {
		t.Errorf("vnode contents = %q, want %q", got, want)
	}
}

func TestFileWriteAppendResetsOffsetToEnd(t *testing.T) {
	v := newFakeVnode("existing")
	f := New(v, Mode{Access: Write, Append: true}, 0)

	n, err := f.Write([]byte("!"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 1 {
		t.Errorf("Write returned n = %d, want 1", n)
	}
	if got, want := string(v.contents), "existing!"; got != want {
		t.Errorf("vnode contents = %q, want %q", got, want)
	}
}

func TestFileSeek(t *testing.T) {
	v := newFakeVnode("0123456789")
	f := New(v, Mode{Access: Read}, 0)

	off, err := f.Seek(3, SeekSet)
	if err != nil || off != 3 {
		t.Fatalf("Seek(3, SeekSet) = (%d, %v), want (3, nil)", off, err)
	}

	off, err = f.Seek(2, SeekCur)
	if err != nil || off != 5 {
		t.Fatalf("Seek(2, SeekCur) = (%d, %v), want (5, nil)", off, err)
	}

	off, err = f.Seek(0, SeekEnd)
	if err != nil || off != 10 {
		t.Fatalf("Seek(0, SeekEnd) = (%d, %v), want (10, nil)", off, err)
	}

	_, err = f.Seek(-100, SeekSet)
	if err != ErrInvalidSeek {
		t.Errorf("Seek to a negative offset = %v, want ErrInvalidSeek", err)
	}
}

func TestFileSeekOnNonSeekable(t *testing.T) {
	v := newFakeVnode("x")
	v.seekable = false
	f := New(v, Mode{Access: Read}, 0)

	if _, err := f.Seek(0, SeekSet); err != ErrIllegalSeek {
		t.Errorf("Seek on non-seekable vnode = %v, want ErrIllegalSeek", err)
	}
}

func TestFileAcquireReleaseRefcount(t *testing.T) {
	v := newFakeVnode("x")
	f := New(v, Mode{Access: Read}, 0)
	fs := &fakeFS{}

	if got, want := f.Refcount(), 1; got != want {
		t.Fatalf("Refcount() = %d, want %d", got, want)
	}

	f.Acquire()
	if got, want := f.Refcount(), 2; got != want {
		t.Errorf("Refcount() after Acquire = %d, want %d", got, want)
	}

	if closed := f.Release(fs); closed {
		t.Error("Release reported closed with refcount still positive")
	}
	if len(fs.closed) != 0 {
		t.Error("Release closed the vnode too early")
	}

	if closed := f.Release(fs); !closed {
		t.Error("Release did not report closed at refcount 0")
	}
	if len(fs.closed) != 1 || fs.closed[0] != v {
		t.Errorf("Release did not close the underlying vnode exactly once")
	}
}
