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

import "github.com/stivengjinaj/os161-project/proc"

// Syscalls is the full POSIX-flavored surface this subsystem implements.
// It is named here, in the root package, so cmd/kernelsh and tests can
// depend on the interface rather than the concrete *syscalls.Handlers
// type one package down.
//
// Every method takes the calling process explicitly rather than reading
// a package-level "current process" global, since this module has no
// per-thread scheduler context to hang one off of. User-space addresses
// (paths, buffers, argv) are plain uintptr offsets into the caller's
// address space, resolved through usercopy the way copyin/copyout would
// resolve a real user pointer.
type Syscalls interface {
	Getpid(caller *proc.Process) int
	Fork(caller *proc.Process, tf proc.Trapframe) (childPID int, err error)
	Execv(caller *proc.Process, programPtr, argvPtr uintptr) error
	Waitpid(caller *proc.Process, pid int, statusPtr uintptr, options int) (reapedPID int, err error)
	Exit(caller *proc.Process, code int)

	Open(caller *proc.Process, pathPtr uintptr, flags int, perm uint32) (fd int, err error)
	Close(caller *proc.Process, fd int) error
	Read(caller *proc.Process, fd int, bufPtr uintptr, length int) (n int, err error)
	Write(caller *proc.Process, fd int, bufPtr uintptr, length int) (n int, err error)
	Lseek(caller *proc.Process, fd int, pos int64, whence SeekWhence) (newOffset int64, err error)
	Dup2(caller *proc.Process, oldfd, newfd int) (int, error)
	Chdir(caller *proc.Process, pathPtr uintptr) error
	Getcwd(caller *proc.Process, bufPtr uintptr, length int) (n int, err error)
}
