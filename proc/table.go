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

package proc

import "github.com/stivengjinaj/os161-project/internal/spinlock"

// NoPID is returned by AllocatePID when every slot is in use.
const NoPID = 0

// Table is the global Process Table: a fixed-size slotted array of
// length max+1 (slot 0 is reserved for the kernel process and never
// returned by AllocatePID), a spinlock, and a round-robin cursor.
//
// INVARIANT: if slots[i] != nil then slots[i].PID() == i
type Table struct {
	mu      spinlock.T
	slots   []*Process
	lastPID int
}

// NewTable returns an empty Table sized for PIDs in [0, max].
func NewTable(max int) *Table {
	return &Table{slots: make([]*Process, max+1)}
}

// AllocatePID finds an unused slot by scanning circularly from
// (lastPID+1) mod len(slots), wrapping 0 to 1 so the reserved kernel slot
// is never handed out. Returns NoPID if every slot is occupied.
func (t *Table) AllocatePID() int {
	t.mu.Acquire()
	defer t.mu.Release()

	max := len(t.slots) - 1 // PROC_MAX
	for i := 0; i < max; i++ {
		candidate := (t.lastPID+i)%max + 1
		if t.slots[candidate] == nil {
			t.lastPID = candidate
			return candidate
		}
	}

	return NoPID
}

// Insert installs proc at its own pid.
func (t *Table) Insert(p *Process) {
	t.mu.Acquire()
	t.slots[p.PID()] = p
	t.mu.Release()
}

// Remove clears the slot at pid. The caller must already hold the process's
// reaping invariant (Reapable()) before calling this; Remove itself does no
// such check since it runs under the table spinlock, which must never
// block.
func (t *Table) Remove(pid int) {
	t.mu.Acquire()
	if pid >= 0 && pid < len(t.slots) {
		t.slots[pid] = nil
	}
	t.mu.Release()
}

// Lookup returns the process registered at pid, or nil if pid is out of
// range or unregistered.
func (t *Table) Lookup(pid int) *Process {
	t.mu.Acquire()
	defer t.mu.Release()

	if pid < 0 || pid >= len(t.slots) {
		return nil
	}
	return t.slots[pid]
}

// Max returns the highest assignable pid (PROC_MAX).
func (t *Table) Max() int { return len(t.slots) - 1 }
