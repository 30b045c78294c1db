package usercopy

import "testing"

func TestCopyInOut(t *testing.T) {
	mem := make([]byte, 16)
	space := NewSpace(mem, 0x1000)

	if err := space.CopyOut([]byte("taco"), 0x1004); err != nil {
		t.Fatalf("CopyOut: %v", err)
	}

	buf := make([]byte, 4)
	if err := space.CopyIn(0x1004, buf); err != nil {
		t.Fatalf("CopyIn: %v", err)
	}
	if got, want := string(buf), "taco"; got != want {
		t.Errorf("CopyIn = %q, want %q", got, want)
	}
}

func TestCopyOutOfBoundsIsFault(t *testing.T) {
	mem := make([]byte, 16)
	space := NewSpace(mem, 0x1000)

	cases := []struct {
		name string
		ptr  uintptr
		n    int
	}{
		{"below base", 0x0ff0, 4},
		{"past end", 0x100c, 8},
	}

	for _, c := range cases {
		buf := make([]byte, c.n)
		if err := space.CopyIn(c.ptr, buf); err != ErrFault {
			t.Errorf("CopyIn(%s) = %v, want ErrFault", c.name, err)
		}
		if err := space.CopyOut(buf, c.ptr); err != ErrFault {
			t.Errorf("CopyOut(%s) = %v, want ErrFault", c.name, err)
		}
	}
}

func TestCopyInString(t *testing.T) {
	mem := make([]byte, 16)
	copy(mem, "hi\x00garbage")
	space := NewSpace(mem, 0)

	s, err := space.CopyInString(0, 16)
	if err != nil {
		t.Fatalf("CopyInString: %v", err)
	}
	if got, want := s, "hi"; got != want {
		t.Errorf("CopyInString = %q, want %q", got, want)
	}
}

func TestCopyInStringNoTerminator(t *testing.T) {
	mem := make([]byte, 8)
	for i := range mem {
		mem[i] = 'x'
	}
	space := NewSpace(mem, 0)

	if _, err := space.CopyInString(0, 8); err != ErrNoTerminator {
		t.Errorf("CopyInString with no NUL = %v, want ErrNoTerminator", err)
	}
}

func TestCopyOutString(t *testing.T) {
	mem := make([]byte, 16)
	space := NewSpace(mem, 0)

	n, err := space.CopyOutString("taco", 2)
	if err != nil {
		t.Fatalf("CopyOutString: %v", err)
	}
	if got, want := n, 5; got != want {
		t.Errorf("CopyOutString returned n = %d, want %d", got, want)
	}
	if got, want := string(mem[2:6]), "taco"; got != want {
		t.Errorf("mem[2:6] = %q, want %q", got, want)
	}
	if mem[6] != 0 {
		t.Errorf("CopyOutString did not NUL-terminate")
	}
}
