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

// Package filetable implements the per-process file table: a fixed-length
// array mapping file descriptor to Open-File object, with a
// lowest-unused-descriptor allocation policy.
package filetable

import "github.com/stivengjinaj/os161-project/openfile"

// Table is a fixed-size OPEN_MAX array of Open-File pointers. It holds no
// lock of its own, and its methods read and write the slots without any
// synchronization; the syscall handlers call them without taking a lock.
type Table struct {
	slots []*openfile.File
}

// New returns an empty Table with size slots.
func New(size int) *Table {
	return &Table{slots: make([]*openfile.File, size)}
}

// Len returns the table's fixed capacity (OPEN_MAX).
func (t *Table) Len() int { return len(t.slots) }

// Get returns the Open-File installed at fd, or nil if fd is out of range or
// empty.
func (t *Table) Get(fd int) *openfile.File {
	if fd < 0 || fd >= len(t.slots) {
		return nil
	}
	return t.slots[fd]
}

// Install places f at fd unconditionally, overwriting whatever was there.
// Callers are responsible for releasing any File that was previously
// installed.
func (t *Table) Install(fd int, f *openfile.File) {
	t.slots[fd] = f
}

// Clear empties fd without touching the Open-File's refcount; callers
// release it first.
func (t *Table) Clear(fd int) {
	if fd >= 0 && fd < len(t.slots) {
		t.slots[fd] = nil
	}
}

// LowestFree scans from descriptor 0 upward and returns the first empty
// slot, or -1 if the table is full.
func (t *Table) LowestFree() int {
	for i, f := range t.slots {
		if f == nil {
			return i
		}
	}
	return -1
}

// Installed reports whether fd is a valid, non-empty descriptor.
func (t *Table) Installed(fd int) bool {
	return t.Get(fd) != nil
}

// Each calls visit for every installed (fd, file) pair in ascending fd
// order. It is used by fork (to inherit descriptors) and _exit (to sweep
// them on process teardown).
func (t *Table) Each(visit func(fd int, f *openfile.File)) {
	for i, f := range t.slots {
		if f != nil {
			visit(i, f)
		}
	}
}
