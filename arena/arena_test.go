package arena

import "testing"

func TestHeapRecycle(t *testing.T) {
	h := New(4 * 1024)
	t1 := h.Reserve(64)
	_ = h.Reserve(64) // T2
	h.Release(t1)
	t3 := h.Reserve(64)

	if t3 != t1 {
		t.Errorf("expected recycled tile to be reused, got a different tile")
	}
	if h.Recycles != 1 {
		t.Errorf("expected 1 recycle, got %d", h.Recycles)
	}
	if h.Reservations != 2 {
		t.Errorf("expected 2 reservations, got %d", h.Reservations)
	}
}

func TestHeapReserveThenRecycleCounts(t *testing.T) {
	h := New(4 * 1024)
	total := 0
	for i := 0; i < 10; i++ {
		h.Reserve(32)
		total++
	}
	if h.Reservations+h.Recycles != total {
		t.Errorf("reservations+recycles should equal total reserve calls: %d != %d", h.Reservations+h.Recycles, total)
	}
}

func TestArrayFibGrowth(t *testing.T) {
	h := New(1 << 20)
	const c = 4
	a := NewArray[int](h, c, Fib)

	wantCaps := []int{c, 2 * c, 3 * c, 5 * c, 8 * c}
	gotCaps := []int{a.Cap()}

	n := 0
	for len(gotCaps) < len(wantCaps) {
		a.Append(n)
		n++
		if a.Cap() != gotCaps[len(gotCaps)-1] {
			gotCaps = append(gotCaps, a.Cap())
		}
	}

	for i := range wantCaps {
		if gotCaps[i] != wantCaps[i] {
			t.Errorf("capacity sequence mismatch at %d: want %d, got %d", i, wantCaps[i], gotCaps[i])
		}
	}

	for i, v := range a.Slice() {
		if v != i {
			t.Errorf("element %d: want %d, got %d", i, i, v)
		}
	}
}

func TestArrayFixedGrowthPanics(t *testing.T) {
	h := New(4 * 1024)
	a := NewArray[int](h, 2, Fixed)
	a.Append(1)
	a.Append(2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic appending past fixed capacity")
		}
	}()
	a.Append(3)
}

func TestHashmapInsertIfUniqueness(t *testing.T) {
	h := New(1 << 20)
	m := NewHashmap[string](h, 16)

	v1, inserted1 := m.InsertIf(42, "first")
	if !inserted1 {
		t.Fatal("expected first insert to report inserted")
	}
	v2, inserted2 := m.InsertIf(42, "second")
	if inserted2 {
		t.Error("expected second insert with same hash to be a no-op")
	}
	if v2 != v1 {
		t.Errorf("expected insertIf to return the existing value, got %q want %q", v2, v1)
	}
	if m.Inserts != 1 {
		t.Errorf("expected exactly 1 insert, got %d", m.Inserts)
	}
}
