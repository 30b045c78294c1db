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

package syscalls

import (
	kernel "github.com/stivengjinaj/os161-project"
	"github.com/stivengjinaj/os161-project/openfile"
	"github.com/stivengjinaj/os161-project/proc"
	"github.com/stivengjinaj/os161-project/vfs"
)

func modeFromFlags(flags int) (openfile.Mode, error) {
	var m openfile.Mode

	switch kernel.OpenFlag(flags) & kernel.AccModeMask {
	case kernel.ORdOnly:
		m.Access = openfile.Read
	case kernel.OWrOnly:
		m.Access = openfile.Write
	case kernel.ORdWr:
		m.Access = openfile.ReadWrite
	default:
		return m, kernel.Invalid
	}

	if flags&int(kernel.OAppend) != 0 {
		if m.Access == openfile.Read {
			return m, kernel.Invalid
		}
		m.Append = true
	}

	return m, nil
}

// Open implements kernel.Syscalls.Open.
func (h *Handlers) Open(caller *proc.Process, pathPtr uintptr, flags int, perm uint32) (fd int, err error) {
	defer h.span("open")(&err)

	if pathPtr == 0 {
		return 0, kernel.BadAddr
	}

	space, err := userSpace(caller)
	if err != nil {
		return 0, err
	}

	path, err := space.CopyInString(pathPtr, h.K.Config().PathMax)
	if err != nil {
		return 0, mapFault(err)
	}
	if path == "" {
		return 0, kernel.Invalid
	}

	mode, err := modeFromFlags(flags)
	if err != nil {
		return 0, err
	}

	fs := h.K.Config().FS
	v, err := fs.Open(path, flags, perm)
	if err != nil {
		kind, _ := kernel.FromErrno(err)
		return 0, kind
	}

	offset := int64(0)
	if mode.Append {
		st, err := v.Stat()
		if err != nil {
			fs.Close(v)
			kind, _ := kernel.FromErrno(err)
			return 0, kind
		}
		offset = st.Size
	}

	fd = caller.Files.LowestFree()
	if fd == -1 {
		fs.Close(v)
		return 0, kernel.TooManyOpenFiles
	}

	caller.Files.Install(fd, openfile.New(v, mode, offset))
	return fd, nil
}

// Close implements kernel.Syscalls.Close.
func (h *Handlers) Close(caller *proc.Process, fd int) (err error) {
	defer h.span("close")(&err)

	f := caller.Files.Get(fd)
	if f == nil {
		return kernel.BadFd
	}
	caller.Files.Clear(fd)
	f.Release(h.K.Config().FS)
	return nil
}

// Read implements kernel.Syscalls.Read, including the
// STDIN console fallback for a descriptor that was never installed.
func (h *Handlers) Read(caller *proc.Process, fd int, bufPtr uintptr, length int) (n int, err error) {
	defer h.span("read")(&err)

	if length < 0 {
		return 0, kernel.Invalid
	}

	f := caller.Files.Get(fd)
	if f == nil {
		if fd == kernel.STDIN {
			return h.consoleRead(caller, bufPtr, length)
		}
		return 0, kernel.BadFd
	}
	if !f.Mode().Readable() {
		return 0, kernel.BadFd
	}

	buf := make([]byte, length)
	n, err = f.Read(buf)
	if err != nil {
		kind, _ := kernel.FromErrno(err)
		return 0, kind
	}

	space, err := userSpace(caller)
	if err != nil {
		return 0, err
	}
	if err := space.CopyOut(buf[:n], bufPtr); err != nil {
		return 0, mapFault(err)
	}
	return n, nil
}

// Write implements kernel.Syscalls.Write, including the
// STDOUT/STDERR console fallback for a descriptor that was never
// installed.
func (h *Handlers) Write(caller *proc.Process, fd int, bufPtr uintptr, length int) (n int, err error) {
	defer h.span("write")(&err)

	if length < 0 {
		return 0, kernel.Invalid
	}

	f := caller.Files.Get(fd)
	if f == nil {
		if fd == kernel.STDOUT || fd == kernel.STDERR {
			return h.consoleWrite(caller, bufPtr, length)
		}
		return 0, kernel.BadFd
	}
	if !f.Mode().Writable() {
		return 0, kernel.BadFd
	}

	space, err := userSpace(caller)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, length)
	if err := space.CopyIn(bufPtr, buf); err != nil {
		return 0, mapFault(err)
	}

	n, err = f.Write(buf)
	if err != nil {
		kind, _ := kernel.FromErrno(err)
		return 0, kind
	}
	return n, nil
}

// Lseek implements kernel.Syscalls.Lseek.
func (h *Handlers) Lseek(caller *proc.Process, fd int, pos int64, whence kernel.SeekWhence) (off int64, err error) {
	defer h.span("lseek")(&err)

	f := caller.Files.Get(fd)
	if f == nil {
		return 0, kernel.BadFd
	}

	off, err = f.Seek(pos, whence)
	if err != nil {
		switch err {
		case openfile.ErrIllegalSeek:
			return 0, kernel.IllegalSeek
		case openfile.ErrInvalidSeek:
			return 0, kernel.Invalid
		default:
			kind, _ := kernel.FromErrno(err)
			return 0, kind
		}
	}
	return off, nil
}

func validFd(caller *proc.Process, fd int) bool {
	return fd >= 0 && fd < caller.Files.Len()
}

// Dup2 implements kernel.Syscalls.Dup2.
func (h *Handlers) Dup2(caller *proc.Process, oldfd, newfd int) (fd int, err error) {
	defer h.span("dup2")(&err)

	if !validFd(caller, oldfd) || !validFd(caller, newfd) {
		return 0, kernel.BadFd
	}

	old := caller.Files.Get(oldfd)
	if old == nil {
		return 0, kernel.BadFd
	}
	if oldfd == newfd {
		return newfd, nil
	}

	if existing := caller.Files.Get(newfd); existing != nil {
		existing.Release(h.K.Config().FS)
	}

	old.Acquire()
	caller.Files.Install(newfd, old)
	return newfd, nil
}

// Chdir implements kernel.Syscalls.Chdir.
func (h *Handlers) Chdir(caller *proc.Process, pathPtr uintptr) (err error) {
	defer h.span("chdir")(&err)

	if pathPtr == 0 {
		return kernel.BadAddr
	}

	space, err := userSpace(caller)
	if err != nil {
		return err
	}
	path, err := space.CopyInString(pathPtr, h.K.Config().PathMax)
	if err != nil {
		return mapFault(err)
	}

	v, err := h.K.Config().FS.Chdir(path)
	if err != nil {
		kind, _ := kernel.FromErrno(err)
		return kind
	}

	old := caller.CWD()
	caller.SetCWD(v)
	if old != nil {
		old.DecRef()
	}
	return nil
}

// Getcwd implements kernel.Syscalls.Getcwd.
func (h *Handlers) Getcwd(caller *proc.Process, bufPtr uintptr, length int) (n int, err error) {
	defer h.span("__getcwd")(&err)

	if bufPtr == 0 {
		return 0, kernel.BadAddr
	}
	if length <= 0 {
		return 0, kernel.Invalid
	}

	cwd := caller.CWD()
	if cwd == nil {
		return 0, kernel.NoSuchFile
	}

	kbuf := make([]byte, length)
	uio := vfs.NewUio(kbuf, 0, vfs.UioRead)
	if err := h.K.Config().FS.Getcwd(cwd, uio); err != nil {
		kind, _ := kernel.FromErrno(err)
		return 0, kind
	}
	n = uio.Transferred()

	space, err := userSpace(caller)
	if err != nil {
		return 0, err
	}
	if err := space.CopyOut(kbuf[:n], bufPtr); err != nil {
		return 0, mapFault(err)
	}
	return n, nil
}

func (h *Handlers) consoleRead(caller *proc.Process, bufPtr uintptr, length int) (int, error) {
	c := h.K.Config().Console
	if c == nil {
		return 0, kernel.BadFd
	}

	buf := make([]byte, 0, length)
	for len(buf) < length {
		ch, err := c.Getch()
		if err != nil {
			break
		}
		buf = append(buf, ch)
	}

	space, err := userSpace(caller)
	if err != nil {
		return 0, err
	}
	if err := space.CopyOut(buf, bufPtr); err != nil {
		return 0, mapFault(err)
	}
	return len(buf), nil
}

func (h *Handlers) consoleWrite(caller *proc.Process, bufPtr uintptr, length int) (int, error) {
	c := h.K.Config().Console
	if c == nil {
		return 0, kernel.BadFd
	}

	space, err := userSpace(caller)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, length)
	if err := space.CopyIn(bufPtr, buf); err != nil {
		return 0, mapFault(err)
	}

	for _, ch := range buf {
		if err := c.Putch(ch); err != nil {
			kind, _ := kernel.FromErrno(err)
			return 0, kind
		}
	}
	return len(buf), nil
}
