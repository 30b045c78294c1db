package kernel

import (
	"testing"

	"github.com/jacobsa/timeutil"

	"github.com/stivengjinaj/os161-project/addrspace/simpleas"
	"github.com/stivengjinaj/os161-project/vfs/memvfs"
)

func newTestKernel() *Kernel {
	fs := memvfs.New(timeutil.RealClock(), 0)
	return New(Config{FS: fs, AS: simpleas.NewManager()})
}

func TestNewInstallsKernelProcessAtPIDZero(t *testing.T) {
	k := newTestKernel()
	if got, want := k.KernelProcess().PID(), 0; got != want {
		t.Errorf("KernelProcess().PID() = %d, want %d", got, want)
	}
	if got := k.Procs().Lookup(0); got != k.KernelProcess() {
		t.Error("the process table does not contain the kernel process at pid 0")
	}
}

func TestConfigDefaults(t *testing.T) {
	k := newTestKernel()
	cfg := k.Config()

	if got, want := cfg.OpenMax, OpenMax; got != want {
		t.Errorf("OpenMax = %d, want %d", got, want)
	}
	if got, want := cfg.ProcMax, ProcMax; got != want {
		t.Errorf("ProcMax = %d, want %d", got, want)
	}
	if got, want := cfg.ArgMax, ArgMax; got != want {
		t.Errorf("ArgMax = %d, want %d", got, want)
	}
	if got, want := cfg.PathMax, PathMax; got != want {
		t.Errorf("PathMax = %d, want %d", got, want)
	}
}

func TestConfigOverridesAreRespected(t *testing.T) {
	fs := memvfs.New(timeutil.RealClock(), 0)
	k := New(Config{FS: fs, AS: simpleas.NewManager(), OpenMax: 4})

	if got, want := k.Config().OpenMax, 4; got != want {
		t.Errorf("OpenMax = %d, want %d", got, want)
	}
}

func TestCreateRunProgramInstallsConsoleDescriptors(t *testing.T) {
	k := newTestKernel()

	p, err := k.CreateRunProgram("init")
	if err != nil {
		t.Fatalf("CreateRunProgram: %v", err)
	}

	for _, fd := range []int{STDIN, STDOUT, STDERR} {
		if !p.Files.Installed(fd) {
			t.Errorf("descriptor %d is not installed after CreateRunProgram", fd)
		}
	}
}

func TestNewChildDoesNotInstallConsoleDescriptors(t *testing.T) {
	k := newTestKernel()

	p, err := k.NewChild("child")
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	for _, fd := range []int{STDIN, STDOUT, STDERR} {
		if p.Files.Installed(fd) {
			t.Errorf("NewChild installed descriptor %d; only CreateRunProgram should", fd)
		}
	}
}

func TestDestroyProcessFreesItsPID(t *testing.T) {
	k := newTestKernel()

	p, err := k.NewChild("child")
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	pid := p.PID()

	k.DestroyProcess(p)
	if got := k.Procs().Lookup(pid); got != nil {
		t.Errorf("Lookup(%d) after DestroyProcess = %v, want nil", pid, got)
	}
}
