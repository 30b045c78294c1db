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

// Package memvfs is an in-memory vfs.FileSystem, a sample implementation
// of the VFS collaborator a real kernel would back with a disk. It
// exists so the syscalls package can be exercised end-to-end without one.
package memvfs

import (
	"path"
	"sync"
	"syscall"

	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"

	"github.com/stivengjinaj/os161-project/vfs"
)

// Sentinel errors returned by FileSystem methods, expressed as the real
// syscall.Errno values they mean rather than opaque strings: the syscalls
// package's kernel.FromErrno recovers them unchanged at the syscall
// boundary, so VFS errors flow through verbatim, never remapped into an
// unrelated kind.
var (
	ErrNotExist    = syscall.ENOENT
	ErrExist       = syscall.EEXIST
	ErrIsDirectory = syscall.EISDIR
	ErrNotDir      = syscall.ENOTDIR
)

// FileSystem is a flat, in-memory namespace of regular files and
// directories rooted at "/". It is safe for concurrent use.
type FileSystem struct {
	clock timeutil.Clock
	quota int // per-file byte quota; 0 means unbounded

	mu syncutil.InvariantMutex

	files map[string]*vnode   // GUARDED_BY(mu)
	dirs  map[string]struct{} // GUARDED_BY(mu); always contains "/"
}

// New returns a FileSystem backed only by memory, stamping timestamps with
// clock and rejecting file writes that would grow a file past quota bytes
// (0 for no limit).
func New(clock timeutil.Clock, quota int) *FileSystem {
	fs := &FileSystem{
		clock: clock,
		quota: quota,
		files: make(map[string]*vnode),
		dirs:  map[string]struct{}{"/": {}},
	}
	fs.mu = syncutil.NewInvariantMutex(fs.checkInvariants)
	return fs
}

func (fs *FileSystem) checkInvariants() {
	if _, ok := fs.dirs["/"]; !ok {
		panic("memvfs: root directory missing")
	}
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// Open implements vfs.FileSystem.
func (fs *FileSystem) Open(name string, flags int, perm uint32) (vfs.Vnode, error) {
	p := clean(name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.dirs[p]; ok {
		return nil, ErrIsDirectory
	}

	parent := path.Dir(p)
	if _, ok := fs.dirs[parent]; !ok {
		return nil, ErrNotDir
	}

	v, exists := fs.files[p]
	switch {
	case exists && flags&syscall.O_EXCL != 0 && flags&syscall.O_CREAT != 0:
		return nil, ErrExist
	case exists:
		v.IncRef()
	case !exists && flags&syscall.O_CREAT != 0:
		v = newVnode(fs.clock, fs.quota)
		fs.files[p] = v
	default:
		return nil, ErrNotExist
	}

	if exists && flags&syscall.O_TRUNC != 0 {
		v.mu.Lock()
		v.contents = nil
		v.mu.Unlock()
	}

	return v, nil
}

// Close implements vfs.FileSystem.
func (fs *FileSystem) Close(v vfs.Vnode) error {
	v.DecRef()
	return nil
}

// Mkdir creates an empty directory at name; tests use it to seed the
// namespace with directories.
func (fs *FileSystem) Mkdir(name string) error {
	p := clean(name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent := path.Dir(p)
	if _, ok := fs.dirs[parent]; !ok {
		return ErrNotDir
	}
	fs.dirs[p] = struct{}{}
	return nil
}

// Chdir implements vfs.FileSystem.
func (fs *FileSystem) Chdir(name string) (vfs.Vnode, error) {
	p := clean(name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.dirs[p]; !ok {
		if _, ok := fs.files[p]; ok {
			return nil, ErrNotDir
		}
		return nil, ErrNotExist
	}

	return &dirVnode{fs: fs, path: p, refcount: 1}, nil
}

// Getcwd implements vfs.FileSystem.
func (fs *FileSystem) Getcwd(cwd vfs.Vnode, uio *vfs.Uio) error {
	d, ok := cwd.(*dirVnode)
	if !ok {
		return ErrNotDir
	}

	n := copy(uio.Buf, d.path)
	uio.Resid = len(uio.Buf) - n
	return nil
}

// dirVnode is the directory-flavored vfs.Vnode returned by Chdir: it carries
// no contents and supports no I/O, only identity (its path, for Getcwd) and
// reference counting.
type dirVnode struct {
	fs   *FileSystem
	path string

	mu       sync.Mutex
	refcount int
}

func (d *dirVnode) Stat() (vfs.Stat, error) {
	return vfs.Stat{Mode: vfs.DirectoryMode, ModTime: d.fs.clock.Now()}, nil
}

func (d *dirVnode) Read(*vfs.Uio) error  { return ErrIsDirectory }
func (d *dirVnode) Write(*vfs.Uio) error { return ErrIsDirectory }

func (d *dirVnode) IsSeekable() bool { return false }

func (d *dirVnode) IncRef() {
	d.mu.Lock()
	d.refcount++
	d.mu.Unlock()
}

func (d *dirVnode) DecRef() {
	d.mu.Lock()
	d.refcount--
	d.mu.Unlock()
}
