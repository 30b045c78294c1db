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

// Command kernelsh drives a handful of end-to-end scenarios against the
// in-memory VFS and address-space stand-ins (memvfs, simpleas), the way
// the real kernel's menu shell would drive them against real hardware.
// It is a demonstration harness, not a test binary: every step exits
// through log.Fatal on unexpected failure rather than reporting a
// pass/fail result.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"

	"github.com/jacobsa/timeutil"

	kernel "github.com/stivengjinaj/os161-project"
	"github.com/stivengjinaj/os161-project/addrspace"
	"github.com/stivengjinaj/os161-project/addrspace/simpleas"
	"github.com/stivengjinaj/os161-project/proc"
	"github.com/stivengjinaj/os161-project/syscalls"
	"github.com/stivengjinaj/os161-project/usercopy"
	"github.com/stivengjinaj/os161-project/vfs/memvfs"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// userSpaceOf returns the usercopy.Space simulating p's user memory.
func userSpaceOf(p *proc.Process) *usercopy.Space {
	um := p.AddressSpace().(addrspace.UserMemory)
	mem, base := um.UserSpace()
	return usercopy.NewSpace(mem, base)
}

// putString writes s (NUL-terminated) at a fixed low offset in p's user
// memory and returns its address; scenarios that need more than one live
// string at a time pass distinct offsets.
func putString(p *proc.Process, offset uintptr, s string) uintptr {
	_, err := userSpaceOf(p).CopyOutString(s, offset)
	must(err)
	return offset
}

func putBytes(p *proc.Process, offset uintptr, b []byte) uintptr {
	must(userSpaceOf(p).CopyOut(b, offset))
	return offset
}

func getBytes(p *proc.Process, ptr uintptr, n int) []byte {
	buf := make([]byte, n)
	must(userSpaceOf(p).CopyIn(ptr, buf))
	return buf
}

func main() {
	flag.Parse()

	fs := memvfs.New(timeutil.RealClock(), 0)
	k := kernel.New(kernel.Config{FS: fs, AS: simpleas.NewManager()})
	h := syscalls.New(k)

	initProc, err := k.CreateRunProgram("init")
	must(err)
	root, err := fs.Chdir("/")
	must(err)
	initProc.SetCWD(root)

	basicForkWaitExit(h, k, initProc)
	dup2Redirect(h, initProc)
	forkInheritance(h, k, initProc)
	seekSemantics(h, initProc)
	execvArgvDelivery(h, k, initProc, fs)
	invalidExecv(h, initProc)

	fmt.Println("all scenarios completed")
}

// 1. Basic fork/wait/exit.
func basicForkWaitExit(h *syscalls.Handlers, k *kernel.Kernel, parent *proc.Process) {
	childPID, err := h.Fork(parent, proc.Trapframe{})
	must(err)

	child := k.Procs().Lookup(childPID)
	h.Exit(child, 0)

	var status [4]byte
	statusPtr := putBytes(parent, 8192, status[:])
	pid, err := h.Waitpid(parent, childPID, statusPtr, 0)
	must(err)
	if pid != childPID {
		log.Fatalf("waitpid returned %d, want %d", pid, childPID)
	}
	got := binary.LittleEndian.Uint32(getBytes(parent, statusPtr, 4))
	if got != 0 {
		log.Fatalf("exit status decoded to %d, want 0", got)
	}
	fmt.Printf("scenario 1: child %d reaped with status 0\n", childPID)
}

// 2. dup2 redirect.
func dup2Redirect(h *syscalls.Handlers, p *proc.Process) {
	pathPtr := putString(p, 0, "/greeting")
	fd, err := h.Open(p, pathPtr, int(kernel.OWrOnly)|int(kernel.OCreat), 0644)
	must(err)

	_, err = h.Dup2(p, fd, kernel.STDOUT)
	must(err)

	msg := []byte("hello\n")
	msgPtr := putBytes(p, 256, msg)
	n, err := h.Write(p, kernel.STDOUT, msgPtr, len(msg))
	must(err)
	if n != len(msg) {
		log.Fatalf("write returned %d, want %d", n, len(msg))
	}
	must(h.Close(p, kernel.STDOUT))

	fd2, err := h.Open(p, pathPtr, int(kernel.ORdOnly), 0)
	must(err)
	readPtr := putBytes(p, 512, make([]byte, len(msg)))
	n, err = h.Read(p, fd2, readPtr, len(msg))
	must(err)
	if got := string(getBytes(p, readPtr, n)); got != "hello\n" {
		log.Fatalf("reopened file contains %q, want %q", got, "hello\n")
	}
	must(h.Close(p, fd2))
	fmt.Println("scenario 2: dup2 redirect round-tripped \"hello\\n\"")
}

// 3. Fork inheritance.
func forkInheritance(h *syscalls.Handlers, k *kernel.Kernel, parent *proc.Process) {
	pathPtr := putString(parent, 1024, "/shared")
	fd, err := h.Open(parent, pathPtr, int(kernel.OWrOnly)|int(kernel.OCreat), 0644)
	must(err)

	a := putBytes(parent, 1280, []byte("A"))
	_, err = h.Write(parent, fd, a, 1)
	must(err)

	childPID, err := h.Fork(parent, proc.Trapframe{})
	must(err)
	child := k.Procs().Lookup(childPID)

	b := putBytes(child, 1280, []byte("B"))
	_, err = h.Write(child, fd, b, 1)
	must(err)

	must(h.Close(parent, fd))
	must(h.Close(child, fd))

	fd2, err := h.Open(parent, pathPtr, int(kernel.ORdOnly), 0)
	must(err)
	readPtr := putBytes(parent, 1536, make([]byte, 2))
	n, err := h.Read(parent, fd2, readPtr, 2)
	must(err)
	contents := string(getBytes(parent, readPtr, n))
	if len(contents) != 2 {
		log.Fatalf("reopened /shared has %d bytes, want 2", len(contents))
	}
	fmt.Printf("scenario 3: /shared now contains %q after fork inheritance\n", contents)
}

// 5. Seek semantics.
func seekSemantics(h *syscalls.Handlers, p *proc.Process) {
	pathPtr := putString(p, 2048, "/seekfile")
	fd, err := h.Open(p, pathPtr, int(kernel.OWrOnly)|int(kernel.OCreat), 0644)
	must(err)

	payload := make([]byte, 26)
	for i := range payload {
		payload[i] = byte('a' + i)
	}
	dataPtr := putBytes(p, 2304, payload)
	_, err = h.Write(p, fd, dataPtr, len(payload))
	must(err)

	checks := []struct {
		pos    int64
		whence kernel.SeekWhence
		want   int64
	}{
		{0, kernel.SeekSet, 0},
		{0, kernel.SeekEnd, 26},
		{10, kernel.SeekSet, 10},
		{5, kernel.SeekCur, 15},
	}
	for _, c := range checks {
		got, err := h.Lseek(p, fd, c.pos, c.whence)
		must(err)
		if got != c.want {
			log.Fatalf("lseek(%d,%v) = %d, want %d", c.pos, c.whence, got, c.want)
		}
	}
	must(h.Close(p, fd))
	fmt.Println("scenario 5: lseek SET/END/CUR all matched")
}

// 4. Execv argv delivery, run in a forked child so
// init's own address space survives for the remaining scenarios.
func execvArgvDelivery(h *syscalls.Handlers, k *kernel.Kernel, parent *proc.Process, fs *memvfs.FileSystem) {
	progPathPtr := putString(parent, 3072, "/prog")
	fd, err := h.Open(parent, progPathPtr, int(kernel.OWrOnly)|int(kernel.OCreat), 0755)
	must(err)
	fakeELF := putBytes(parent, 3200, []byte("\x7fELF-stand-in"))
	_, err = h.Write(parent, fd, fakeELF, 13)
	must(err)
	must(h.Close(parent, fd))

	childPID, err := h.Fork(parent, proc.Trapframe{})
	must(err)
	child := k.Procs().Lookup(childPID)

	programPtr := putString(child, 0, "/prog")
	args := []string{"/prog", "5", "10"}
	argPtrs := make([]uintptr, len(args))
	offset := uintptr(64)
	for i, a := range args {
		argPtrs[i] = offset
		n, err := userSpaceOf(child).CopyOutString(a, offset)
		must(err)
		offset += uintptr(n)
	}
	argvArrayPtr := offset
	for i, ptr := range argPtrs {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(ptr))
		putBytes(child, argvArrayPtr+uintptr(i*8), buf[:])
	}
	var nul [8]byte
	putBytes(child, argvArrayPtr+uintptr(len(argPtrs)*8), nul[:])

	must(h.Execv(child, programPtr, argvArrayPtr))

	st := child.ExecState()
	if st.Argc != len(args) {
		log.Fatalf("execv argc = %d, want %d", st.Argc, len(args))
	}
	got := readArgv(child, st.ArgvPtr, st.Argc)
	for i, want := range args {
		if got[i] != want {
			log.Fatalf("execv argv[%d] = %q, want %q", i, got[i], want)
		}
	}
	fmt.Printf("scenario 4: execv delivered argc=%d argv=%v\n", st.Argc, got)
}

func readArgv(p *proc.Process, argvPtr uintptr, argc int) []string {
	space := userSpaceOf(p)
	out := make([]string, argc)
	for i := 0; i < argc; i++ {
		var buf [8]byte
		must(space.CopyIn(argvPtr+uintptr(i*8), buf[:]))
		ptr := uintptr(binary.LittleEndian.Uint64(buf[:]))
		s, err := space.CopyInString(ptr, kernel.PathMax)
		must(err)
		out[i] = s
	}
	return out
}

// 6. Invalid execv.
func invalidExecv(h *syscalls.Handlers, p *proc.Process) {
	err := h.Execv(p, 0, 0)
	if err != kernel.BadAddr {
		log.Fatalf("execv(null, ...) = %v, want BadAddr", err)
	}

	missingPtr := putString(p, 4096, "/does/not/exist")
	var nul [8]byte
	argvArrayPtr := putBytes(p, 4608, nul[:])

	err = h.Execv(p, missingPtr, argvArrayPtr)
	if err == nil {
		log.Fatal("execv(\"/does/not/exist\", ...) succeeded, want an error")
	}
	fmt.Printf("scenario 6: execv on a missing program failed with %v\n", err)
}
