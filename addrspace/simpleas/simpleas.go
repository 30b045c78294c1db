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

// Package simpleas is a minimal, in-process addrspace.AddressSpace
// sufficient to exercise fork and execv in tests and the demo harness: a
// byte slice standing in for the user stack and a byte slice standing in
// for the loaded program text. It does not model real paging or
// protection, matching the rest of this module's stance that the address-
// space manager is an external collaborator, not something this
// subsystem implements for real.
package simpleas

import (
	"io"

	"github.com/stivengjinaj/os161-project/addrspace"
)

// DefaultStackSize is used when constructing a fresh address space's user
// stack region.
const DefaultStackSize = 64 * 1024

// AS is an addrspace.AddressSpace: a stack arena and a copy of loaded
// program bytes.
type AS struct {
	active bool

	stack     []byte
	stackTop  uintptr
	text      []byte
	entry     uintptr
	destroyed bool
}

// New returns a fresh, empty address space with a stack of the default
// size but no loaded program.
func New() *AS {
	return &AS{stack: make([]byte, DefaultStackSize)}
}

func (a *AS) Activate()   { a.active = true }
func (a *AS) Deactivate() { a.active = false }

// DefineStack lays out the stack region, returning its top address. Since
// this implementation has no real address space, "address" is simply the
// length of the backing slice, a stand-in the marshal package treats
// opaquely.
func (a *AS) DefineStack() (uintptr, error) {
	a.stackTop = uintptr(len(a.stack))
	return a.stackTop, nil
}

// LoadELF copies r's bytes in as the "program text" and returns a
// synthetic, deterministic entry point.
func (a *AS) LoadELF(r io.Reader) (uintptr, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	a.text = b
	a.entry = 0x400000
	return a.entry, nil
}

// Destroy releases a's resources. a must not be used afterward.
func (a *AS) Destroy() {
	a.stack = nil
	a.text = nil
	a.destroyed = true
}

// Destroyed reports whether Destroy has been called, for tests.
func (a *AS) Destroyed() bool { return a.destroyed }

// StackBytes exposes the backing stack slice so the marshal package can
// write argv data into it (a stand-in for copyout onto the real user
// stack).
func (a *AS) StackBytes() []byte { return a.stack }

// UserSpace implements addrspace.UserMemory: the stack slice is this
// address space's entire simulated user memory, addressed from 0 (DefineStack
// returns len(a.stack) as the initial top, so offsets into a.stack and
// "user addresses" coincide).
func (a *AS) UserSpace() (mem []byte, base uintptr) { return a.stack, 0 }

// manager implements addrspace.Manager for *AS.
type manager struct{}

// NewManager returns the addrspace.Manager for this package's AS type.
func NewManager() addrspace.Manager { return manager{} }

func (manager) Create() addrspace.AddressSpace { return New() }

func (manager) Copy(src addrspace.AddressSpace) (addrspace.AddressSpace, error) {
	s := src.(*AS)
	dst := New()
	dst.stack = append([]byte(nil), s.stack...)
	dst.text = append([]byte(nil), s.text...)
	dst.entry = s.entry
	dst.stackTop = s.stackTop
	return dst, nil
}
