package syscalls

import (
	"encoding/binary"
	"testing"

	"github.com/jacobsa/timeutil"

	kernel "github.com/stivengjinaj/os161-project"
	"github.com/stivengjinaj/os161-project/addrspace"
	"github.com/stivengjinaj/os161-project/addrspace/simpleas"
	"github.com/stivengjinaj/os161-project/proc"
	"github.com/stivengjinaj/os161-project/usercopy"
	"github.com/stivengjinaj/os161-project/vfs/memvfs"
)

// newTestKernel returns a Handlers wired against an in-memory VFS and a
// simpleas address-space manager, plus the kernel it was built from.
func newTestKernel() (*Handlers, *kernel.Kernel) {
	fs := memvfs.New(timeutil.RealClock(), 0)
	k := kernel.New(kernel.Config{FS: fs, AS: simpleas.NewManager()})
	return New(k), k
}

func mustCreateProcess(t *testing.T, k *kernel.Kernel, name string) *proc.Process {
	t.Helper()
	p, err := k.CreateRunProgram(name)
	if err != nil {
		t.Fatalf("CreateRunProgram(%q): %v", name, err)
	}
	return p
}

func userSpaceOf(p *proc.Process) *usercopy.Space {
	um := p.AddressSpace().(addrspace.UserMemory)
	mem, base := um.UserSpace()
	return usercopy.NewSpace(mem, base)
}

func putString(t *testing.T, p *proc.Process, offset uintptr, s string) uintptr {
	t.Helper()
	if _, err := userSpaceOf(p).CopyOutString(s, offset); err != nil {
		t.Fatalf("CopyOutString(%q): %v", s, err)
	}
	return offset
}

func putBytes(t *testing.T, p *proc.Process, offset uintptr, b []byte) uintptr {
	t.Helper()
	if err := userSpaceOf(p).CopyOut(b, offset); err != nil {
		t.Fatalf("CopyOut: %v", err)
	}
	return offset
}

func getBytes(t *testing.T, p *proc.Process, ptr uintptr, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	if err := userSpaceOf(p).CopyIn(ptr, buf); err != nil {
		t.Fatalf("CopyIn: %v", err)
	}
	return buf
}

func le32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
