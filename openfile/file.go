// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openfile

import (
	"errors"
	"io"

	"github.com/jacobsa/syncutil"

	"github.com/stivengjinaj/os161-project/vfs"
)

// Sentinel errors returned by Seek; the syscalls package maps these onto
// kernel.Kind values at the syscall boundary.
var (
	ErrIllegalSeek = errors.New("illegal seek")
	ErrInvalidSeek = errors.New("invalid argument")
)

// SeekWhence selects the reference point for Seek.
type SeekWhence int

const (
	SeekSet SeekWhence = iota
	SeekCur
	SeekEnd
)

// File is the Open-File object: a vnode paired with an access mode and a
// byte offset, shared by every file-table slot that points to it and
// serialized by its own lock.
//
// INVARIANT: refcount >= 1 for any File reachable from a file table.
// INVARIANT: offset >= 0
type File struct {
	mode Mode

	mu syncutil.InvariantMutex

	vnode    vfs.Vnode // GUARDED_BY(mu)
	offset   int64     // GUARDED_BY(mu)
	refcount int       // GUARDED_BY(mu)
}

// New constructs an Open-File over v in mode, with refcount 1 and the given
// initial offset (0, or the vnode's size for an APPEND open).
func New(v vfs.Vnode, mode Mode, offset int64) *File {
	f := &File{mode: mode, vnode: v, offset: offset, refcount: 1}
	f.mu = syncutil.NewInvariantMutex(f.checkInvariants)
	return f
}

func (f *File) checkInvariants() {
	if f.refcount < 0 {
		panic("openfile: negative refcount")
	}
	if f.offset < 0 {
		panic("openfile: negative offset")
	}
}

// Mode returns the access mode the file was opened with.
func (f *File) Mode() Mode { return f.mode }

// Acquire bumps the reference count. Called when a descriptor slot starts
// pointing at this File (fork inheritance, dup2 aliasing).
func (f *File) Acquire() {
	f.mu.Lock()
	f.refcount++
	f.mu.Unlock()
}

// Release drops the reference count and, if it reaches zero, closes the
// underlying vnode through fs and reports true so the caller can drop its
// last pointer to f. The vnode close happens while f.mu is held, keeping
// construction/teardown symmetric; f is never resurrected after this
// returns true.
func (f *File) Release(fs vfs.FileSystem) (closed bool) {
	f.mu.Lock()
	f.refcount--
	if f.refcount > 0 {
		f.mu.Unlock()
		return false
	}
	v := f.vnode
	f.vnode = nil
	fs.Close(v)
	f.mu.Unlock()

	return true
}

// Read performs a single VFS read at the current offset into buf, advancing
// the offset by the number of bytes actually read. On error the offset is
// left unchanged and the error is returned verbatim.
func (f *File) Read(buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	uio := vfs.NewUio(buf, f.offset, vfs.UioRead)
	err := f.vnode.Read(uio)
	n := uio.Transferred()
	if err != nil && err != io.EOF {
		return 0, err
	}
	f.offset += int64(n)
	return n, nil
}

// Write performs a single VFS write at the current offset from buf,
// advancing the offset by the number of bytes actually written. If the file
// was opened with APPEND, the offset is first reset to the vnode's current
// size so the write and the seek-to-end happen as a single step.
func (f *File) Write(buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mode.Append {
		st, err := f.vnode.Stat()
		if err != nil {
			return 0, err
		}
		f.offset = st.Size
	}

	uio := vfs.NewUio(buf, f.offset, vfs.UioWrite)
	err := f.vnode.Write(uio)
	n := uio.Transferred()
	if err != nil {
		return 0, err
	}
	f.offset += int64(n)
	return n, nil
}

// Seek recomputes the offset per whence and pos, rejecting non-seekable
// vnodes and any resulting negative offset.
func (f *File) Seek(pos int64, whence SeekWhence) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.vnode.IsSeekable() {
		return 0, ErrIllegalSeek
	}

	var base int64
	switch whence {
	case SeekSet:
		base = 0
	case SeekCur:
		base = f.offset
	case SeekEnd:
		st, err := f.vnode.Stat()
		if err != nil {
			return 0, err
		}
		base = st.Size
	default:
		return 0, ErrInvalidSeek
	}

	next := base + pos
	if next < 0 {
		return 0, ErrInvalidSeek
	}

	f.offset = next
	return next, nil
}

// Offset returns the current byte offset, for tests and diagnostics.
func (f *File) Offset() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset
}

// Refcount returns the current reference count, for tests and invariant
// checks: at quiescence it must equal the number of file-table slots
// across every process pointing at f.
func (f *File) Refcount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refcount
}
