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

import (
	"syscall"

	"github.com/stivengjinaj/os161-project/openfile"
)

// OpenFlag carries the access-mode and creation bits passed to open(2).
// Values line up with syscall.O_* so user mode can build them the way a
// real libc would and the kernel never has to re-encode them.
type OpenFlag int

const (
	ORdOnly OpenFlag = syscall.O_RDONLY
	OWrOnly OpenFlag = syscall.O_WRONLY
	ORdWr   OpenFlag = syscall.O_RDWR
	OAppend OpenFlag = syscall.O_APPEND
	OCreat  OpenFlag = syscall.O_CREAT
	OTrunc  OpenFlag = syscall.O_TRUNC
	OExcl   OpenFlag = syscall.O_EXCL

	// AccModeMask isolates the access-mode bits (ORdOnly/OWrOnly/ORdWr) of a
	// flags value.
	AccModeMask OpenFlag = syscall.O_ACCMODE
)

// SeekWhence selects the reference point for lseek; it is defined in the
// openfile package, next to the Seek implementation, and aliased here as
// a kernel-wide constant surface (SEEK_SET/CUR/END).
type SeekWhence = openfile.SeekWhence

const (
	SeekSet = openfile.SeekSet
	SeekCur = openfile.SeekCur
	SeekEnd = openfile.SeekEnd
)

// Numeric ceilings surfaced to user mode.
const (
	OpenMax = 64   // OPEN_MAX: per-process file table length
	PathMax = 1024 // PATH_MAX: longest path copy-in accepts
	ArgMax  = 64 * 1024
	ProcMax = 256 // PROC_MAX: highest assignable pid

	// STDIN, STDOUT, STDERR are the reserved low descriptors bound by
	// proc_create_runprogram to console Open-Files.
	STDIN  = 0
	STDOUT = 1
	STDERR = 2
)
