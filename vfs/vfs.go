// Package vfs describes the virtual-file-system collaborator this kernel's
// process and file-descriptor subsystem depends on. The VFS
// itself — path lookup, vnode I/O, directory change, current-working-
// directory reporting — is out of scope for this module; vfs only pins
// down the interface the rest of the kernel calls through, plus a uio
// descriptor bundling a buffer with its I/O direction and offset.
package vfs

import (
	"io"
	"time"

	"golang.org/x/sys/unix"
)

// Direction of a Uio transfer.
type Direction int

const (
	UioRead Direction = iota
	UioWrite
)

// Uio bundles a buffer, its length, a byte offset and a direction for a
// single VFS read or write call, mirroring the kernel's uio struct.
type Uio struct {
	Buf       []byte
	Offset    int64
	Direction Direction

	// Resid is the number of bytes in Buf not yet transferred. VFS
	// implementations decrement it as they consume Buf; callers read bytes
	// transferred as len(Buf)-Resid.
	Resid int
}

// NewUio builds a Uio for a single transfer of buf at offset in the given
// direction, with Resid seeded to len(buf).
func NewUio(buf []byte, offset int64, dir Direction) *Uio {
	return &Uio{Buf: buf, Offset: offset, Direction: dir, Resid: len(buf)}
}

// Transferred reports how many bytes of Buf have actually moved.
func (u *Uio) Transferred() int { return len(u.Buf) - u.Resid }

// Stat is the subset of vnode metadata the kernel needs: principally the
// file size, to seed the offset of an O_APPEND open and to resolve
// SEEK_END. Mode carries the same S_IF* file-type bits as POSIX stat(2),
// exposed through golang.org/x/sys/unix rather than reinvented locally.
type Stat struct {
	Size    int64
	Mode    uint32
	ModTime time.Time
}

// RegularFileMode and DirectoryMode are the Mode values a VFS collaborator
// reports for a plain file and a directory, respectively.
const (
	RegularFileMode = uint32(unix.S_IFREG)
	DirectoryMode   = uint32(unix.S_IFDIR)
)

// Vnode is a live handle to a filesystem object, as returned by VFS Open.
// It is reference-counted by the VFS itself; this kernel only
// calls IncRef/DecRef/Close and never inspects a vnode's internals.
type Vnode interface {
	// Stat returns current metadata for the vnode.
	Stat() (Stat, error)

	// Read performs a single read through uio, advancing uio.Offset is the
	// caller's responsibility; Read only consumes uio.Resid bytes of
	// uio.Buf starting at uio.Offset.
	Read(uio *Uio) error

	// Write performs a single write through uio, symmetric to Read.
	Write(uio *Uio) error

	// IsSeekable reports whether lseek is meaningful for this vnode.
	IsSeekable() bool

	// IncRef bumps the vnode's own reference count (used when a cwd or an
	// open vnode is shared, e.g. across fork).
	IncRef()

	// DecRef drops the vnode's own reference count, closing it when the
	// count reaches zero.
	DecRef()
}

// FileSystem is the VFS collaborator this subsystem requires: path lookup,
// open/close, chdir and getcwd. All paths are plain kernel-side strings —
// copying them in from user space is the caller's job (see the usercopy
// package).
type FileSystem interface {
	// Open resolves path and returns a vnode usable for I/O. flags carries
	// the access-mode and creation flags (open(2)-style); perm is the mode
	// bits used if the call creates a file.
	Open(path string, flags int, perm uint32) (Vnode, error)

	// Close releases the kernel's reference to vnode, obtained from Open.
	Close(v Vnode) error

	// Chdir resolves path to a directory vnode and returns it, already
	// referenced on the caller's behalf; the kernel installs it as the
	// calling process's new cwd and drops its
	// reference to the old one.
	Chdir(path string) (Vnode, error)

	// Getcwd reconstructs the absolute path of cwd (a vnode previously
	// returned by Chdir or the initial process bootstrap) and fills uio
	// with its bytes.
	Getcwd(cwd Vnode, uio *Uio) error
}

// ReadAll is a test/demo convenience that reads up to n bytes of v,
// starting at offset off, with a single Read call, and returns only the
// bytes actually transferred (fewer than n at end of file). It does not
// belong to the VFS contract; production syscalls build their own Uio per
// call instead.
func ReadAll(v Vnode, off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	uio := NewUio(buf, off, UioRead)
	if err := v.Read(uio); err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:uio.Transferred()], nil
}

// Clock abstracts wall-clock reads for VFS metadata timestamps. Defined
// here rather than imported from timeutil so that vfs has no hard
// dependency on a concrete implementation. memvfs does not use this
// interface; it takes a timeutil.Clock directly and stamps only mtime.
type Clock interface {
	Now() time.Time
}
