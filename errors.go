// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package kernel

import "syscall"

// Kind identifies why a syscall failed. Values are real POSIX errno numbers
// so they remain meaningful for ABI compatibility and compose with
// errors.Is against the standard syscall package.
type Kind syscall.Errno

func (k Kind) Error() string { return syscall.Errno(k).Error() }

// Is reports whether target is the same Kind or the equivalent syscall.Errno,
// so callers can write errors.Is(err, syscall.EBADF) as well as
// errors.Is(err, kernel.BadFd).
func (k Kind) Is(target error) bool {
	if e, ok := target.(syscall.Errno); ok {
		return syscall.Errno(k) == e
	}
	return false
}

// The syscall error taxonomy, mapped onto conventional POSIX errno
// numbers. A zero Kind is never returned; callers test for success by
// checking the returned error for nil, not by comparing Kind values.
const (
	// BadFd: descriptor out of range, not installed, or mode forbids the
	// operation.
	BadFd Kind = Kind(syscall.EBADF)
	// BadAddr: user pointer null or rejected by a copy helper.
	BadAddr Kind = Kind(syscall.EFAULT)
	// Invalid: bad flag/whence/option, empty path, impossible offset.
	Invalid Kind = Kind(syscall.EINVAL)
	// NameTooLong: path or argv string exceeds its maximum.
	NameTooLong Kind = Kind(syscall.ENAMETOOLONG)
	// TooManyOpenFiles: the per-process file table is full.
	TooManyOpenFiles Kind = Kind(syscall.EMFILE)
	// NoSuchProc: PID out of range or not present in the process table.
	NoSuchProc Kind = Kind(syscall.ESRCH)
	// NotAChild: target process exists but the caller is not its parent.
	NotAChild Kind = Kind(syscall.ECHILD)
	// NoProcSlot: PID allocation failed. OS/161 calls this ENPROC; the host
	// syscall package has no portable equivalent, so EAGAIN is used, matching
	// the conventional fork() fallback for "try again, no process slots".
	NoProcSlot Kind = Kind(syscall.EAGAIN)
	// OutOfMemory: an allocation failed.
	OutOfMemory Kind = Kind(syscall.ENOMEM)
	// NoSpace: a VFS write hit a filesystem-full condition.
	NoSpace Kind = Kind(syscall.ENOSPC)
	// IOError: a hardware-level I/O failure.
	IOError Kind = Kind(syscall.EIO)
	// ArgsTooLarge: the execv argv footprint exceeds ARG_MAX.
	ArgsTooLarge Kind = Kind(syscall.E2BIG)
	// IllegalSeek: lseek on a non-seekable object.
	IllegalSeek Kind = Kind(syscall.ESPIPE)

	// The remaining kinds are not this subsystem's own validation errors
	// but are the real errno values a VFS collaborator reports for path
	// lookup failures; the propagation policy here is to pass collaborator
	// errors through verbatim rather than remapping them onto an unrelated
	// kind, which requires naming them here.
	NoSuchFile  Kind = Kind(syscall.ENOENT)
	FileExists  Kind = Kind(syscall.EEXIST)
	NotADir     Kind = Kind(syscall.ENOTDIR)
	IsADir      Kind = Kind(syscall.EISDIR)
)

// FromErrno converts a non-nil error backed by syscall.Errno (including
// another Kind) into a Kind, and returns (IOError, false) for anything
// else — the catch-all a collaborator's unrecognized failure maps onto,
// since this taxonomy has no "unknown" kind of its own. Callers only call
// this once they already know err != nil.
func FromErrno(err error) (Kind, bool) {
	if k, ok := err.(Kind); ok {
		return k, true
	}
	if e, ok := err.(syscall.Errno); ok {
		return Kind(e), true
	}
	return IOError, false
}
