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

// Package addrspace describes the address-space manager collaborator:
// create/copy/destroy/activate, stack definition, and ELF loading. Like
// vfs, the real manager is out of scope for this module; this package
// pins down the interface fork and execv call through. A minimal
// in-memory implementation (arena) used by tests and the demo harness
// lives in the simpleas subpackage.
package addrspace

import "io"

// AddressSpace is a process's exclusively-owned virtual-memory image.
type AddressSpace interface {
	// Activate makes this address space the one the current thread runs
	// against.
	Activate()

	// Deactivate undoes Activate.
	Deactivate()

	// DefineStack lays out a user stack in the address space and returns its
	// top (the initial stack pointer, before any argv push).
	DefineStack() (stackTop uintptr, err error)

	// LoadELF loads the executable read from r into the address space and
	// returns its entry point.
	LoadELF(r io.Reader) (entry uintptr, err error)

	// Destroy releases every resource owned by the address space. The
	// receiver must not be used afterward.
	Destroy()
}

// UserMemory is implemented by an AddressSpace that can expose its backing
// memory for the simulated copyin/copyout family in package usercopy. The
// real kernel's copy helpers run against live page tables, treated here
// as an assumed primitive; this interface is how a concrete,
// in-memory AddressSpace like simpleas.AS opts into the simulation without
// forcing that shape onto every implementation of AddressSpace.
type UserMemory interface {
	// UserSpace returns the byte slice standing in for this address space's
	// user memory and the address its first byte corresponds to.
	UserSpace() (mem []byte, base uintptr)
}

// Manager creates and copies AddressSpace instances. It is a separate
// interface from AddressSpace itself because Copy must be callable without
// already possessing an AddressSpace value to copy into (fork calls
// manager.Copy(parent.AddressSpace())), mirroring the free functions
// as_create/as_copy rather than methods on an existing AS.
type Manager interface {
	// Create returns a fresh, empty address space.
	Create() AddressSpace

	// Copy deep-copies src into a new, independent AddressSpace.
	Copy(src AddressSpace) (AddressSpace, error)
}
