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

// Package kernel implements the process and file-descriptor subsystem of a
// small teaching operating system: the process table, per-process file
// tables, reference-counted open-file objects, and the POSIX-flavored
// syscalls (getpid, fork, execv, waitpid, _exit, open, close, read, write,
// lseek, dup2, chdir, __getcwd) built on top of them.
//
// The primary elements of interest are:
//
//   - Kernel, which owns the global process table and the kernel process
//     and is the entry point for bootstrapping the first user process.
//
//   - The syscalls package, which implements the actual syscall handlers
//     against a Kernel and a calling *proc.Process.
//
//   - The vfs and addrspace packages, which describe the external
//     collaborators this subsystem depends on (path lookup, vnode I/O,
//     address-space copy/destroy, ELF loading) without implementing them
//     itself.
package kernel
