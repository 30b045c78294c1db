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

// Trapframe is a snapshot of user-mode CPU state saved on syscall entry,
// narrowed to the fields fork's child-entry trampoline needs to touch: the
// return-value register pair and the program counter.
type Trapframe struct {
	V0  uintptr // return value register
	A3  uintptr // error-indicator register: 0 on success
	Epc uintptr // program counter at the syscall instruction
}

// instructionWidth is the size in bytes of the (simulated) syscall
// instruction the trap entry stopped on; EnterChild advances Epc past it,
// matching the real kernel's mips_trapframe handling so a child returning
// to user mode resumes at the instruction following the syscall.
const instructionWidth = 4

// Copy returns an independent copy of tf, standing in for the kernel
// allocating its own trapframe and memcpy'ing the parent's into it.
func (tf Trapframe) Copy() *Trapframe {
	cp := tf
	return &cp
}

// EnterChild mutates tf in place into the state a freshly forked child
// thread must present to user mode: return value 0, no error, and the
// program counter advanced past the syscall instruction it will return
// from. It is called by the child's entry routine after
// activating the child's address space and before returning to user mode.
func (tf *Trapframe) EnterChild() {
	tf.V0 = 0
	tf.A3 = 0
	tf.Epc += instructionWidth
}
