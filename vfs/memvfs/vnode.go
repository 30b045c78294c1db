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

package memvfs

import (
	"io"
	"syscall"
	"time"

	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"

	"github.com/stivengjinaj/os161-project/vfs"
)

// vnode is the in-memory backing object for a single regular file: a
// reference-counted, mutex-guarded byte blob that the surrounding
// FileSystem hands out and tears down.
//
// INVARIANT: refcount >= 0
//
// A vnode stays in the owning FileSystem's table when its refcount drops
// to zero; a later Open of the same path finds it again and bumps the
// count.
type vnode struct {
	clock timeutil.Clock

	mu syncutil.InvariantMutex

	contents []byte    // GUARDED_BY(mu)
	mtime    time.Time // GUARDED_BY(mu)
	refcount int       // GUARDED_BY(mu)

	quota int // 0 means unbounded; otherwise max(len(contents))
}

func newVnode(clock timeutil.Clock, quota int) *vnode {
	v := &vnode{clock: clock, refcount: 1, quota: quota, mtime: clock.Now()}
	v.mu = syncutil.NewInvariantMutex(v.checkInvariants)
	return v
}

func (v *vnode) checkInvariants() {
	if v.refcount < 0 {
		panic("memvfs: negative refcount")
	}
}

func (v *vnode) Stat() (vfs.Stat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return vfs.Stat{
		Size:    int64(len(v.contents)),
		Mode:    vfs.RegularFileMode,
		ModTime: v.mtime,
	}, nil
}

func (v *vnode) Read(uio *vfs.Uio) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if uio.Offset >= int64(len(v.contents)) {
		uio.Resid = len(uio.Buf)
		return io.EOF
	}

	n := copy(uio.Buf, v.contents[uio.Offset:])
	uio.Resid = len(uio.Buf) - n
	return nil
}

func (v *vnode) Write(uio *vfs.Uio) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	end := uio.Offset + int64(len(uio.Buf))
	if v.quota > 0 && end > int64(v.quota) {
		uio.Resid = len(uio.Buf)
		return syscall.ENOSPC
	}

	if end > int64(len(v.contents)) {
		grown := make([]byte, end)
		copy(grown, v.contents)
		v.contents = grown
	}

	n := copy(v.contents[uio.Offset:], uio.Buf)
	uio.Resid = len(uio.Buf) - n
	v.mtime = v.clock.Now()
	return nil
}

func (v *vnode) IsSeekable() bool { return true }

func (v *vnode) IncRef() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refcount++
}

func (v *vnode) DecRef() {
	v.mu.Lock()
	v.refcount--
	v.mu.Unlock()
}
