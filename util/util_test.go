package util

import "testing"

func TestTickCounter(t *testing.T) {
	table := []struct {
		target uint
		ticks  []uint
		edges  []int
	}{
		{4, []uint{1, 2, 1, 4}, []int{0, 0, 1, 1}},
		{4, []uint{9}, []int{2}},
		{16, []uint{15, 1, 16, 31}, []int{0, 1, 1, 1}},
	}

	for _, entry := range table {
		tc := NewTickCounter(entry.target)
		for i, tick := range entry.ticks {
			if got := tc.Tick(tick); got != entry.edges[i] {
				t.Fatalf("TickCounter(%d): step %d: got %d edges, expected %d", entry.target, i, got, entry.edges[i])
			}
		}
	}
}
