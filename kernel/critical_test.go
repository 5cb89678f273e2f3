package kernel

import (
	"sync"
	"testing"
)

func TestLockSerializesWriters(t *testing.T) {
	const workers, rounds = 4, 5000

	var n int
	inc := func() { n++ }
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				Lock(inc)
			}
		}()
	}
	wg.Wait()
	if n != workers*rounds {
		t.Fatalf("n = %d, want %d", n, workers*rounds)
	}
}

type pair struct{ a, b uint64 }

func TestSharedNeverTorn(t *testing.T) {
	var s Shared[pair]
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := uint64(1); i <= 20_000; i++ {
			s.Store(pair{a: i, b: ^i})
		}
	}()

	for {
		select {
		case <-done:
			if got := s.Load(); got.a != 20_000 {
				t.Fatalf("Load().a = %d after the last Store, want 20000", got.a)
			}
			return
		default:
		}
		if p := s.Load(); p.a != 0 && p.b != ^p.a {
			t.Fatalf("Load() = %+v, halves from different stores", p)
		}
	}
}
