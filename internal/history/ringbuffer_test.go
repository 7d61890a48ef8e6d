package history

import "testing"

func TestRingBufferSizeCapsAtCapacity(t *testing.T) {
	rb := NewRingBuffer[int](4)
	for i := 0; i < 10; i++ {
		rb.Push(i)
	}
	if rb.Size() != 4 {
		t.Fatalf("expected size 4, got %d", rb.Size())
	}
	newest, ok := rb.Get(0)
	if !ok || newest != 9 {
		t.Fatalf("expected newest 9, got %d ok=%v", newest, ok)
	}
}

func TestRingBufferGetAges(t *testing.T) {
	rb := NewRingBuffer[int](3)
	rb.Push(1)
	rb.Push(2)
	rb.Push(3)
	if v, _ := rb.Get(0); v != 3 {
		t.Fatalf("age0 = %d, want 3", v)
	}
	if v, _ := rb.Get(1); v != 2 {
		t.Fatalf("age1 = %d, want 2", v)
	}
	if v, _ := rb.Get(2); v != 1 {
		t.Fatalf("age2 = %d, want 1", v)
	}
	if _, ok := rb.Get(3); ok {
		t.Fatal("age3 should not exist")
	}
}

func TestRingBufferToArrayOrder(t *testing.T) {
	rb := NewRingBuffer[int](3)
	rb.Push(1)
	rb.Push(2)
	rb.Push(3)
	rb.Push(4)
	got := rb.ToArray()
	want := []int{2, 3, 4}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("ToArray()[%d] = %d, want %d", i, got[i], v)
		}
	}
}

func TestRingBufferClear(t *testing.T) {
	rb := NewRingBuffer[int](3)
	rb.Push(1)
	rb.Clear()
	if rb.Size() != 0 {
		t.Fatalf("expected 0 after clear, got %d", rb.Size())
	}
	if _, ok := rb.Peek(); ok {
		t.Fatal("expected no peek value after clear")
	}
}

func TestRingBufferEmptyPeek(t *testing.T) {
	rb := NewRingBuffer[int](3)
	if _, ok := rb.Peek(); ok {
		t.Fatal("expected no peek value on empty buffer")
	}
}
