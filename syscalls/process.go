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
	"encoding/binary"
	"io"

	kernel "github.com/stivengjinaj/os161-project"
	"github.com/stivengjinaj/os161-project/addrspace"
	"github.com/stivengjinaj/os161-project/marshal"
	"github.com/stivengjinaj/os161-project/openfile"
	"github.com/stivengjinaj/os161-project/proc"
	"github.com/stivengjinaj/os161-project/usercopy"
	"github.com/stivengjinaj/os161-project/vfs"
)

// Getpid implements kernel.Syscalls.Getpid: no error path.
func (h *Handlers) Getpid(caller *proc.Process) int {
	defer h.span("getpid")(nil)
	return caller.PID()
}

// Fork implements kernel.Syscalls.Fork. It builds
// the child process scaffold, deep-copies the address space, shares the
// cwd, and inherits every installed file-table slot, then prepares the
// child's entry trapframe (return value 0, program counter past the
// syscall). This module has no real thread scheduler to hand the
// prepared trapframe to, so the "new thread" of step 7 is this same
// call completing synchronously rather than a second goroutine racing
// the parent; EntryTrapframe on the returned child records what that
// thread would have loaded before returning to user mode.
func (h *Handlers) Fork(caller *proc.Process, tf proc.Trapframe) (childPID int, err error) {
	defer h.span("fork")(&err)

	child, err := h.K.NewChild(caller.Name())
	if err != nil {
		return 0, err
	}
	child.SetParentPID(caller.PID())

	as, err := h.K.Config().AS.Copy(caller.AddressSpace())
	if err != nil {
		h.K.DestroyProcess(child)
		return 0, kernel.OutOfMemory
	}
	child.SetAddressSpace(as)

	if cwd := caller.CWD(); cwd != nil {
		cwd.IncRef()
		child.SetCWD(cwd)
	}

	caller.Files.Each(func(fd int, f *openfile.File) {
		f.Acquire()
		child.Files.Install(fd, f)
	})

	childTF := tf.Copy()
	childTF.EnterChild()
	child.SetEntryTrapframe(childTF)

	return child.PID(), nil
}

// encodeExit packs a normal exit code into the same word shape a
// WIFEXITED/WEXITSTATUS-style waitpid status decodes.
func encodeExit(code int) int { return (code & 0xff) << 8 }

// Exit implements kernel.Syscalls._exit. It does not return to
// the caller's goroutine in any special way — the thread_exit() of step 6
// is represented simply by this call finishing, since this module has no
// scheduler to hand control back to.
func (h *Handlers) Exit(caller *proc.Process, code int) {
	defer h.span("_exit")(nil)

	if as := caller.AddressSpace(); as != nil {
		as.Deactivate()
		as.Destroy()
		caller.SetAddressSpace(nil)
	}

	if cwd := caller.CWD(); cwd != nil {
		cwd.DecRef()
		caller.SetCWD(nil)
	}

	fs := h.K.Config().FS
	var installed []int
	caller.Files.Each(func(fd int, f *openfile.File) { installed = append(installed, fd) })
	for _, fd := range installed {
		f := caller.Files.Get(fd)
		caller.Files.Clear(fd)
		f.Release(fs)
	}

	caller.Exit(encodeExit(code))
	caller.RemoveThread()
}

// Waitpid implements kernel.Syscalls.Waitpid.
func (h *Handlers) Waitpid(caller *proc.Process, pid int, statusPtr uintptr, options int) (reapedPID int, err error) {
	defer h.span("waitpid")(&err)

	if options != 0 {
		return 0, kernel.Invalid
	}

	procMax := h.K.Config().ProcMax
	if pid <= 0 || pid > procMax {
		return 0, kernel.NoSuchProc
	}

	child := h.K.Procs().Lookup(pid)
	if child == nil {
		return 0, kernel.NoSuchProc
	}
	if child.ParentPID() != caller.PID() {
		return 0, kernel.NotAChild
	}

	code := child.WaitForExit()

	if statusPtr != 0 {
		space, err := userSpace(caller)
		if err != nil {
			return 0, err
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(code))
		if err := space.CopyOut(buf[:], statusPtr); err != nil {
			return 0, mapFault(err)
		}
	}

	h.K.Procs().Remove(pid)
	return pid, nil
}

// vnodeReader adapts a vfs.Vnode's offset-based Read into an io.Reader so
// it can be passed straight to addrspace.AddressSpace.LoadELF.
type vnodeReader struct {
	v      vfs.Vnode
	offset int64
}

func newVnodeReader(v vfs.Vnode) *vnodeReader { return &vnodeReader{v: v} }

func (r *vnodeReader) Read(p []byte) (int, error) {
	uio := vfs.NewUio(p, r.offset, vfs.UioRead)
	err := r.v.Read(uio)
	n := uio.Transferred()
	r.offset += int64(n)

	if err != nil && err != io.EOF {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Execv implements kernel.Syscalls.Execv: copy-in
// of the program path and argv, a fresh address space installed and
// activated before ELF load (so load_elf operates on the intended space),
// argv marshalled onto the new stack, and the old address space destroyed
// only once every failure point has passed.
func (h *Handlers) Execv(caller *proc.Process, programPtr, argvPtr uintptr) (err error) {
	defer h.span("execv")(&err)

	if programPtr == 0 || argvPtr == 0 {
		return kernel.BadAddr
	}

	space, err := userSpace(caller)
	if err != nil {
		return err
	}

	cfg := h.K.Config()

	program, err := space.CopyInString(programPtr, cfg.PathMax)
	if err != nil {
		return mapFault(err)
	}

	argv, err := readArgv(space, argvPtr, cfg.ArgMax)
	if err != nil {
		return err
	}

	v, err := cfg.FS.Open(program, int(kernel.ORdOnly), 0)
	if err != nil {
		kind, _ := kernel.FromErrno(err)
		return kind
	}

	oldAS := caller.AddressSpace()
	newAS := cfg.AS.Create()
	caller.SetAddressSpace(newAS)
	newAS.Activate()

	rollback := func() {
		newAS.Destroy()
		caller.SetAddressSpace(oldAS)
		oldAS.Activate()
	}

	entry, err := newAS.LoadELF(newVnodeReader(v))
	cfg.FS.Close(v)
	if err != nil {
		rollback()
		kind, _ := kernel.FromErrno(err)
		return kind
	}

	stackTop, err := newAS.DefineStack()
	if err != nil {
		rollback()
		return kernel.OutOfMemory
	}

	um, ok := newAS.(addrspace.UserMemory)
	if !ok {
		rollback()
		return kernel.OutOfMemory
	}
	mem, base := um.UserSpace()
	newSpace := usercopy.NewSpace(mem, base)

	argvUser, sp, err := marshal.Argv(newSpace, base, stackTop, argv, cfg.ArgMax)
	if err != nil {
		rollback()
		if err == marshal.ErrArgsTooLarge {
			return kernel.ArgsTooLarge
		}
		return mapFault(err)
	}

	// Commit: the last possible failure point has passed, so the old
	// address space is destroyed now, not before.
	oldAS.Destroy()

	caller.SetExecState(&proc.ExecState{
		Entry:   entry,
		Argc:    len(argv),
		ArgvPtr: argvUser,
		SP:      sp,
	})
	return nil
}
