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

package memvfs_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/jacobsa/timeutil"
	. "github.com/jacobsa/ogletest"

	"github.com/stivengjinaj/os161-project/vfs"
	"github.com/stivengjinaj/os161-project/vfs/memvfs"
)

func TestMemVFS(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Boilerplate
////////////////////////////////////////////////////////////////////////

type MemVFSTest struct {
	clock timeutil.SimulatedClock
	fs    *memvfs.FileSystem
}

func init() { RegisterTestSuite(&MemVFSTest{}) }

func (t *MemVFSTest) SetUp(*TestInfo) {
	t.clock.SetTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	t.fs = memvfs.New(&t.clock, 0)
}

////////////////////////////////////////////////////////////////////////
// Test functions
////////////////////////////////////////////////////////////////////////

func (t *MemVFSTest) OpenCreatesAFile() {
	v, err := t.fs.Open("/foo", syscall.O_CREAT|syscall.O_RDWR, 0644)
	AssertEq(nil, err)
	defer t.fs.Close(v)

	st, err := v.Stat()
	AssertEq(nil, err)
	ExpectEq(0, st.Size)
	ExpectEq(vfs.RegularFileMode, st.Mode)
}

func (t *MemVFSTest) OpenWithoutCreateOnMissingFileFails() {
	_, err := t.fs.Open("/nope", syscall.O_RDONLY, 0)
	ExpectEq(memvfs.ErrNotExist, err)
}

func (t *MemVFSTest) OpenExclOnExistingFileFails() {
	v, err := t.fs.Open("/foo", syscall.O_CREAT|syscall.O_RDWR, 0644)
	AssertEq(nil, err)
	t.fs.Close(v)

	_, err = t.fs.Open("/foo", syscall.O_CREAT|syscall.O_EXCL, 0644)
	ExpectEq(memvfs.ErrExist, err)
}

func (t *MemVFSTest) OpenTruncEmptiesExistingContents() {
	v, err := t.fs.Open("/foo", syscall.O_CREAT|syscall.O_RDWR, 0644)
	AssertEq(nil, err)

	uio := vfs.NewUio([]byte("hello"), 0, vfs.UioWrite)
	AssertEq(nil, v.Write(uio))
	t.fs.Close(v)

	v, err = t.fs.Open("/foo", syscall.O_CREAT|syscall.O_TRUNC|syscall.O_RDWR, 0644)
	AssertEq(nil, err)
	defer t.fs.Close(v)

	st, err := v.Stat()
	AssertEq(nil, err)
	ExpectEq(0, st.Size)
}

func (t *MemVFSTest) OpenUnderMissingParentFails() {
	_, err := t.fs.Open("/nonexistent-dir/foo", syscall.O_CREAT|syscall.O_RDWR, 0644)
	ExpectEq(memvfs.ErrNotDir, err)
}

func (t *MemVFSTest) OpenOnADirectoryFails() {
	AssertEq(nil, t.fs.Mkdir("/dir"))

	_, err := t.fs.Open("/dir", syscall.O_RDONLY, 0)
	ExpectEq(memvfs.ErrIsDirectory, err)
}

func (t *MemVFSTest) WriteUpdatesModTime() {
	v, err := t.fs.Open("/foo", syscall.O_CREAT|syscall.O_RDWR, 0644)
	AssertEq(nil, err)
	defer t.fs.Close(v)

	before, err := v.Stat()
	AssertEq(nil, err)

	t.clock.AdvanceTime(time.Minute)

	AssertEq(nil, v.Write(vfs.NewUio([]byte("x"), 0, vfs.UioWrite)))
	after, err := v.Stat()
	AssertEq(nil, err)

	ExpectTrue(after.ModTime.After(before.ModTime))
}

func (t *MemVFSTest) ChdirAndGetcwd() {
	AssertEq(nil, t.fs.Mkdir("/home"))

	cwd, err := t.fs.Chdir("/home")
	AssertEq(nil, err)

	buf := make([]byte, 64)
	uio := vfs.NewUio(buf, 0, vfs.UioRead)
	AssertEq(nil, t.fs.Getcwd(cwd, uio))
	ExpectEq("/home", string(buf[:uio.Transferred()]))
}

func (t *MemVFSTest) ChdirOnMissingDirectoryFails() {
	_, err := t.fs.Chdir("/nope")
	ExpectEq(memvfs.ErrNotExist, err)
}

func (t *MemVFSTest) ChdirOnARegularFileFails() {
	v, err := t.fs.Open("/foo", syscall.O_CREAT|syscall.O_RDWR, 0644)
	AssertEq(nil, err)
	t.fs.Close(v)

	_, err = t.fs.Chdir("/foo")
	ExpectEq(memvfs.ErrNotDir, err)
}

func (t *MemVFSTest) DirectoryStatReportsDirectoryMode() {
	AssertEq(nil, t.fs.Mkdir("/dir"))
	cwd, err := t.fs.Chdir("/dir")
	AssertEq(nil, err)

	st, err := cwd.Stat()
	AssertEq(nil, err)
	ExpectEq(vfs.DirectoryMode, st.Mode)
}
