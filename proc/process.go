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

// Package proc implements the Process Table and Process Object: a
// global PID-indexed registry and the per-process state it manages
// (address space, cwd, file table, exit coordination).
package proc

import (
	"sync"

	"github.com/jacobsa/syncutil"

	"github.com/stivengjinaj/os161-project/addrspace"
	"github.com/stivengjinaj/os161-project/filetable"
	"github.com/stivengjinaj/os161-project/internal/spinlock"
	"github.com/stivengjinaj/os161-project/vfs"
)

// NoParent is the parent_pid value of the initial/kernel process.
const NoParent = -1

// Process is the Process Object: pid, parent pid, address space, cwd,
// file table, and exit-coordination state.
//
// INVARIANT: pid is immutable for the lifetime of the object.
// INVARIANT: a Process may be destroyed only once ThreadCount() == 0 and
// (Exited() or it never started a thread).
type Process struct {
	pid       int
	parentPid int
	name      string

	// state_lock_spin: guards only the pointer/counter fields below. Never
	// held across a blocking call (VFS, copyin/out, mutex/condvar wait).
	spin spinlock.T
	as   addrspace.AddressSpace // GUARDED_BY(spin); may be nil
	cwd  vfs.Vnode               // GUARDED_BY(spin); shared reference
	tc   int                     // GUARDED_BY(spin); thread_count

	Files *filetable.Table

	// state_lock + child_done: exit coordination, read/written only here.
	stateLock syncutil.InvariantMutex
	childDone *sync.Cond
	exited    bool
	exitCode  int

	// entryTrapframe and execState, GUARDED_BY(spin): the symbolic
	// "enter user mode" state fork's child-entry trampoline and execv's
	// commit step prepare. This module has
	// no real user-mode execution to hand control to, so these are
	// retained for tests and the demo harness to inspect instead.
	entryTrapframe *Trapframe
	execState      *ExecState
}

// ExecState is the entry-point state execv prepares for enter_new_process:
// the ELF entry point, argc, the user pointer to the argv array, and the
// initial stack pointer.
type ExecState struct {
	Entry   uintptr
	Argc    int
	ArgvPtr uintptr
	SP      uintptr
}

// New creates a Process with the given pid, parent and name. It starts with
// thread_count 1 (the caller is expected to be about to start the one
// thread this process will ever run) and an empty OPEN_MAX file table.
func New(pid, parentPid int, name string, openMax int) *Process {
	p := &Process{
		pid:       pid,
		parentPid: parentPid,
		name:      name,
		tc:        1,
		Files:     filetable.New(openMax),
	}
	p.stateLock = syncutil.NewInvariantMutex(p.checkStateInvariants)
	p.childDone = sync.NewCond(&p.stateLock)
	return p
}

func (p *Process) checkStateInvariants() {
	if p.exited && p.exitCode < 0 {
		panic("proc: negative encoded exit code")
	}
}

// PID returns the process's immutable identifier.
func (p *Process) PID() int { return p.pid }

// ParentPID returns the pid of the process's creator, or NoParent.
func (p *Process) ParentPID() int { return p.parentPid }

// SetParentPID records the creator's pid; used by fork once the child's pid
// has been allocated.
func (p *Process) SetParentPID(pid int) { p.parentPid = pid }

// Name returns the process's debug name.
func (p *Process) Name() string { return p.name }

// AddressSpace returns the process's address space, or nil for kernel-only
// processes.
func (p *Process) AddressSpace() addrspace.AddressSpace {
	p.spin.Acquire()
	defer p.spin.Release()
	return p.as
}

// SetAddressSpace installs as as the process's address space.
func (p *Process) SetAddressSpace(as addrspace.AddressSpace) {
	p.spin.Acquire()
	p.as = as
	p.spin.Release()
}

// CWD returns the process's current-working-directory vnode.
func (p *Process) CWD() vfs.Vnode {
	p.spin.Acquire()
	defer p.spin.Release()
	return p.cwd
}

// SetCWD installs v as the process's cwd. The caller is responsible for the
// reference-counting discipline (incref the new one, decref the old) since
// those calls may block on the VFS and must happen outside the spinlock.
func (p *Process) SetCWD(v vfs.Vnode) {
	p.spin.Acquire()
	p.cwd = v
	p.spin.Release()
}

// ThreadCount returns the process's live thread count.
func (p *Process) ThreadCount() int {
	p.spin.Acquire()
	defer p.spin.Release()
	return p.tc
}

// AddThread increments the thread count (fork's child-thread startup).
func (p *Process) AddThread() {
	p.spin.Acquire()
	p.tc++
	p.spin.Release()
}

// RemoveThread decrements the thread count (the last step of _exit).
func (p *Process) RemoveThread() {
	p.spin.Acquire()
	p.tc--
	p.spin.Release()
}

// Reapable reports whether the process may be destroyed: thread_count == 0
// and it has exited. A process that never started a thread is not reported
// reapable, since only Exit marks a process exited.
func (p *Process) Reapable() bool {
	p.spin.Acquire()
	tc := p.tc
	p.spin.Release()
	return tc == 0 && p.Exited()
}

// Exit records the process's exit code, wakes any waiter blocked in
// WaitForExit, and marks the process exited. Panics if called twice for the
// same process.
func (p *Process) Exit(encodedExitCode int) {
	p.stateLock.Lock()
	if p.exited {
		p.stateLock.Unlock()
		panic("proc: _exit called twice for the same process")
	}
	p.exitCode = encodedExitCode
	p.exited = true
	p.childDone.Signal()
	p.stateLock.Unlock()
}

// Exited reports whether the process has exited.
func (p *Process) Exited() bool {
	p.stateLock.Lock()
	defer p.stateLock.Unlock()
	return p.exited
}

// SetEntryTrapframe records the trapframe a forked child's entry
// trampoline prepared for it.
func (p *Process) SetEntryTrapframe(tf *Trapframe) {
	p.spin.Acquire()
	p.entryTrapframe = tf
	p.spin.Release()
}

// EntryTrapframe returns the trapframe recorded by SetEntryTrapframe, or
// nil if none has been set (the process was never forked, or is the
// initial process).
func (p *Process) EntryTrapframe() *Trapframe {
	p.spin.Acquire()
	defer p.spin.Release()
	return p.entryTrapframe
}

// SetExecState records the entry-point state execv prepared.
func (p *Process) SetExecState(s *ExecState) {
	p.spin.Acquire()
	p.execState = s
	p.spin.Release()
}

// ExecState returns the state recorded by SetExecState, or nil if the
// process has never called execv.
func (p *Process) ExecState() *ExecState {
	p.spin.Acquire()
	defer p.spin.Release()
	return p.execState
}

// WaitForExit blocks until the process has exited and returns its encoded
// exit code. Safe to call from at most the process's parent, per waitpid
// semantics; the condition variable itself tolerates any caller.
func (p *Process) WaitForExit() int {
	p.stateLock.Lock()
	for !p.exited {
		p.childDone.Wait()
	}
	code := p.exitCode
	p.stateLock.Unlock()
	return code
}
