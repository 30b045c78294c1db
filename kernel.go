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

package kernel

import (
	"github.com/stivengjinaj/os161-project/addrspace"
	"github.com/stivengjinaj/os161-project/openfile"
	"github.com/stivengjinaj/os161-project/proc"
	"github.com/stivengjinaj/os161-project/vfs"
)

// Console is the putch/getch collaborator. It backs the
// STDIN/STDOUT/STDERR fallback path in the read/write syscalls for a
// process whose console descriptors are, unusually, not installed — the
// canonical design installs them in CreateRunProgram, so in normal
// operation this path is unreachable.
type Console interface {
	Getch() (byte, error)
	Putch(byte) error
}

// Config bundles the collaborators and overridable ceilings a Kernel is
// built from: plain fields with sane zero-value defaults rather than a
// flag/env parser.
type Config struct {
	ProcMax int
	OpenMax int
	ArgMax  int
	PathMax int

	FS      vfs.FileSystem
	AS      addrspace.Manager
	Console Console
}

func (c *Config) setDefaults() {
	if c.ProcMax == 0 {
		c.ProcMax = ProcMax
	}
	if c.OpenMax == 0 {
		c.OpenMax = OpenMax
	}
	if c.ArgMax == 0 {
		c.ArgMax = ArgMax
	}
	if c.PathMax == 0 {
		c.PathMax = PathMax
	}
}

// consolePath is the namespace entry CreateRunProgram opens three times to
// populate a fresh process's STDIN/STDOUT/STDERR slots. Real OS/161 opens a
// device named "con:"; any vfs.FileSystem used with this Kernel is expected
// to serve that name as the console (memvfs treats it as an ordinary,
// auto-created file, which is enough to exercise the descriptor-install
// path without a real terminal).
const consolePath = "con:"

// Kernel owns the process table and the kernel process: process-wide
// singletons initialized once at boot and never tied to any individual
// user process's lifecycle. It is the Go
// analogue of proc_bootstrap plus the global proctable/kproc variables.
type Kernel struct {
	cfg   Config
	procs *proc.Table
	kproc *proc.Process
}

// New is proc_bootstrap: it builds the process table, installs the
// reserved kernel process at PID 0, and returns a Kernel ready to create
// the initial user process via CreateRunProgram.
func New(cfg Config) *Kernel {
	cfg.setDefaults()

	procs := proc.NewTable(cfg.ProcMax)
	kp := proc.New(proc.NoPID, proc.NoParent, "[kernel]", cfg.OpenMax)
	procs.Insert(kp)

	return &Kernel{cfg: cfg, procs: procs, kproc: kp}
}

// Procs returns the global process table.
func (k *Kernel) Procs() *proc.Table { return k.procs }

// Config returns the kernel's collaborators and ceilings.
func (k *Kernel) Config() Config { return k.cfg }

// KernelProcess returns the reserved PID-0 process, the parent of last
// resort and the owner of no user-mode thread.
func (k *Kernel) KernelProcess() *proc.Process { return k.kproc }

// newProcess allocates a PID, builds a bare Process with no address space
// and no file-table entries, and inserts it into the table. Every caller
// is responsible for attaching whatever address space it needs:
// CreateRunProgram creates a fresh one for the initial process, while
// fork's own address-space copy (syscalls.Fork) attaches the one it deep-
// copies from the parent, so a scaffold AS created here would only be
// thrown away unused on every fork.
func (k *Kernel) newProcess(name string) (*proc.Process, error) {
	pid := k.procs.AllocatePID()
	if pid == proc.NoPID {
		return nil, NoProcSlot
	}

	p := proc.New(pid, proc.NoParent, name, k.cfg.OpenMax)
	k.procs.Insert(p)
	return p, nil
}

// CreateRunProgram is proc_create_runprogram as used to build the very
// first user process: a fresh PID and address space, plus descriptors
// 0/1/2 bound to console Open-Files (mode READ, WRITE, WRITE). The
// returned process has no cwd yet; the demo harness sets one.
func (k *Kernel) CreateRunProgram(name string) (*proc.Process, error) {
	p, err := k.newProcess(name)
	if err != nil {
		return nil, err
	}
	p.SetAddressSpace(k.cfg.AS.Create())

	if err := k.installConsole(p); err != nil {
		k.DestroyProcess(p)
		return nil, err
	}

	return p, nil
}

// NewChild is the process-table-allocation half of fork's child creation:
// a fresh PID and no address space yet, with no file-table entries
// installed. The syscalls package's Fork performs the rest — parent-pid
// linkage, address-space copy, cwd sharing, and file-table inheritance.
func (k *Kernel) NewChild(name string) (*proc.Process, error) {
	return k.newProcess(name)
}

// DestroyProcess tears down a process that never started a thread or has
// already been reaped: its address space (if any) and its process-table
// slot. It does not touch the process's file table or cwd, since the
// failure paths that call it (fork rollback) run before either is
// populated.
func (k *Kernel) DestroyProcess(p *proc.Process) {
	if as := p.AddressSpace(); as != nil {
		as.Destroy()
	}
	k.procs.Remove(p.PID())
}

func (k *Kernel) installConsole(p *proc.Process) error {
	type slot struct {
		fd    int
		flags int
		mode  openfile.Mode
	}
	slots := []slot{
		{STDIN, int(ORdOnly) | int(OCreat), openfile.Mode{Access: openfile.Read}},
		{STDOUT, int(OWrOnly) | int(OCreat), openfile.Mode{Access: openfile.Write}},
		{STDERR, int(OWrOnly) | int(OCreat), openfile.Mode{Access: openfile.Write}},
	}

	for _, s := range slots {
		v, err := k.cfg.FS.Open(consolePath, s.flags, 0666)
		if err != nil {
			for fd := 0; fd < s.fd; fd++ {
				if f := p.Files.Get(fd); f != nil {
					f.Release(k.cfg.FS)
					p.Files.Clear(fd)
				}
			}
			kind, _ := FromErrno(err)
			return kind
		}
		p.Files.Install(s.fd, openfile.New(v, s.mode, 0))
	}
	return nil
}
