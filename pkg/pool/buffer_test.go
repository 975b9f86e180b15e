package pool

import "testing"

func TestBufferPoolGetIsEmpty(t *testing.T) {
	bp := NewBufferPool(16)

	buf := bp.Get()
	buf.WriteString("probe")
	bp.Put(buf)

	again := bp.Get()
	if again.Len() != 0 {
		t.Fatalf("pooled buffer not reset, len = %d", again.Len())
	}
}

func TestBufferPoolDetach(t *testing.T) {
	bp := NewBufferPool(16)

	buf := bp.Get()
	buf.WriteString("encoded")
	out := bp.Detach(buf)

	if string(out) != "encoded" {
		t.Fatalf("Detach = %q", out)
	}

	// The detached slice must not alias the recycled buffer.
	next := bp.Get()
	next.WriteString("XXXXXXX")
	if string(out) != "encoded" {
		t.Fatalf("detached bytes changed to %q", out)
	}
}

func TestBufferPoolDefaultSize(t *testing.T) {
	bp := NewBufferPool(0)
	if bp.size <= 0 {
		t.Fatalf("size = %d, want positive default", bp.size)
	}
}
