package schedrand

import "testing"

func TestSource_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("same seed produced diverging sequences at step %d", i)
		}
	}
}

func TestNewAttempt_SeedsDiffer(t *testing.T) {
	s0 := NewAttempt(42, 0)
	s1 := NewAttempt(42, 1)
	if s0.Next() == s1.Next() {
		t.Error("different attempt indices should (almost certainly) diverge")
	}
}

func TestSource_Shuffle_Deterministic(t *testing.T) {
	shuffle := func(seed uint64) []int {
		data := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		s := New(seed)
		s.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })
		return data
	}
	a := shuffle(7)
	b := shuffle(7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffle with same seed diverged at index %d: %v vs %v", i, a, b)
		}
	}
}

func TestSource_Intn_PanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for n <= 0")
		}
	}()
	New(1).Intn(0)
}
