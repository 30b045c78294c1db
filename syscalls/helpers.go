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

// Package syscalls implements the POSIX-flavored syscall handlers against
// a *kernel.Kernel and a calling *proc.Process:
// open/close/read/write/lseek/dup2/chdir/__getcwd and
// getpid/fork/execv/waitpid/_exit.
package syscalls

import (
	"encoding/binary"

	"github.com/jacobsa/reqtrace"
	"golang.org/x/net/context"

	kernel "github.com/stivengjinaj/os161-project"
	"github.com/stivengjinaj/os161-project/addrspace"
	"github.com/stivengjinaj/os161-project/marshal"
	"github.com/stivengjinaj/os161-project/proc"
	"github.com/stivengjinaj/os161-project/usercopy"
)

// Handlers implements kernel.Syscalls against a *kernel.Kernel.
type Handlers struct {
	K *kernel.Kernel
}

var _ kernel.Syscalls = (*Handlers)(nil)

// New returns syscall handlers wired against k.
func New(k *kernel.Kernel) *Handlers { return &Handlers{K: k} }

// userSpace resolves caller's address space into the flat arena usercopy
// simulates copyin/copyout against, standing in for the trap/dispatch
// glue's user-pointer copy helpers, which this module treats as an
// assumed primitive it does not implement for real.
func userSpace(caller *proc.Process) (*usercopy.Space, error) {
	as := caller.AddressSpace()
	if as == nil {
		return nil, kernel.BadAddr
	}
	um, ok := as.(addrspace.UserMemory)
	if !ok {
		return nil, kernel.BadAddr
	}
	mem, base := um.UserSpace()
	return usercopy.NewSpace(mem, base), nil
}

// span starts a reqtrace span named for the syscall being handled and logs
// its entry/exit through kernel.Logger, the way server.go's
// handleFuseRequest logs "Received: ...". It returns a closure to defer
// with the final error, so every handler reports its own outcome without
// threading a context.Context through kernel.Syscalls: reqtrace.Enabled()
// keeps the trace itself a no-op until one is actually being recorded, and
// kernel.Logger() discards its output unless -kernel.debug is set.
func (h *Handlers) span(name string) func(*error) {
	kernel.Logger().Println("entering:", name)
	_, report := reqtrace.StartSpan(context.Background(), name)
	return func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		kernel.Logger().Printf("leaving: %s, err: %v", name, err)
		if errp == nil {
			report(nil)
			return
		}
		report(*errp)
	}
}

// mapFault translates a usercopy sentinel into the matching kernel.Kind;
// any other error (there should be none, since usercopy only ever
// returns its own sentinels) passes through unchanged.
func mapFault(err error) error {
	switch err {
	case usercopy.ErrFault:
		return kernel.BadAddr
	case usercopy.ErrNoTerminator:
		return kernel.NameTooLong
	default:
		return err
	}
}

// readArgv reads the NULL-terminated array of user string pointers at
// argvPtr and copies in each string, enforcing an ARG_MAX / pointer_size
// count ceiling before any string byte is touched.
func readArgv(space *usercopy.Space, argvPtr uintptr, argMax int) ([]string, error) {
	maxCount := argMax / marshal.PointerSize

	var ptrs []uintptr
	for i := 0; ; i++ {
		if i >= maxCount {
			return nil, kernel.ArgsTooLarge
		}

		var buf [marshal.PointerSize]byte
		if err := space.CopyIn(argvPtr+uintptr(i*marshal.PointerSize), buf[:]); err != nil {
			return nil, mapFault(err)
		}

		p := uintptr(binary.LittleEndian.Uint64(buf[:]))
		if p == 0 {
			break
		}
		ptrs = append(ptrs, p)
	}

	argv := make([]string, len(ptrs))
	for i, p := range ptrs {
		s, err := space.CopyInString(p, argMax)
		if err != nil {
			return nil, mapFault(err)
		}
		argv[i] = s
	}
	return argv, nil
}
