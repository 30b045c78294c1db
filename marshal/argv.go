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

// Package marshal implements the user-space marshalling of an execv argv
// vector: pushing it onto a freshly defined user stack, string data
// first (4-byte aligned, high to low) followed by the pointer array
// (platform-word aligned, then re-aligned to 8 for ABI entry).
package marshal

import (
	"encoding/binary"
	"errors"

	"github.com/stivengjinaj/os161-project/usercopy"
)

// PointerSize is the width of a user-space pointer on the target ABI.
const PointerSize = 8

// ErrArgsTooLarge is returned when the projected stack footprint (string
// bytes plus the pointer array) would exceed ARG_MAX. No copy-out happens
// before this check runs.
var ErrArgsTooLarge = errors.New("args too large")

func roundUp(n, multiple int) int {
	if n%multiple == 0 {
		return n
	}
	return n + (multiple - n%multiple)
}

func alignDown(addr uintptr, multiple uintptr) uintptr {
	return addr - addr%multiple
}

// Argv writes argv onto the user stack backed by space, between stackTop
// (the value addrspace.AddressSpace.DefineStack returned) and the region's
// base, enforcing argMax before any byte is written out. It returns the
// user address of the (NULL-terminated) pointer array — the argv a new
// process receives — and the stack pointer the new process should start
// with, which is the same address, 8-byte aligned.
func Argv(space *usercopy.Space, stackBase, stackTop uintptr, argv []string, argMax int) (argvPtr, sp uintptr, err error) {
	stringsSize := 0
	for _, s := range argv {
		stringsSize += roundUp(len(s)+1, 4)
	}
	pointerArraySize := (len(argv) + 1) * PointerSize
	if stringsSize+pointerArraySize > argMax {
		return 0, 0, ErrArgsTooLarge
	}

	cursor := stackTop
	ptrs := make([]uintptr, len(argv))

	for i := len(argv) - 1; i >= 0; i-- {
		s := argv[i]
		n := len(s) + 1
		cursor -= uintptr(roundUp(n, 4))
		if cursor < stackBase {
			return 0, 0, ErrArgsTooLarge
		}
		if _, err := space.CopyOutString(s, cursor); err != nil {
			return 0, 0, err
		}
		ptrs[i] = cursor
	}

	cursor -= uintptr(pointerArraySize)
	cursor = alignDown(cursor, uintptr(PointerSize))
	if cursor < stackBase {
		return 0, 0, ErrArgsTooLarge
	}

	arrayBase := cursor
	for i, p := range ptrs {
		var buf [PointerSize]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(p))
		if err := space.CopyOut(buf[:], arrayBase+uintptr(i*PointerSize)); err != nil {
			return 0, 0, err
		}
	}
	var nul [PointerSize]byte
	if err := space.CopyOut(nul[:], arrayBase+uintptr(len(ptrs)*PointerSize)); err != nil {
		return 0, 0, err
	}

	sp = alignDown(arrayBase, 8)
	return arrayBase, sp, nil
}
