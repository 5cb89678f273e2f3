package kernel

import (
	"runtime"
	"sync"
	"testing"
)

func TestReportSlotBackPressure(t *testing.T) {
	var s ReportSlot

	if !s.Offer([]byte{1, 2, 3}) {
		t.Fatalf("Offer() on empty slot = false")
	}
	if s.Offer([]byte{4}) {
		t.Fatalf("Offer() while pending = true, want false")
	}
	if !s.Pending() {
		t.Fatalf("Pending() = false")
	}

	var dst [MaxReportBytes]byte
	n, ok := s.Take(dst[:])
	if !ok || n != 3 || dst[0] != 1 || dst[2] != 3 {
		t.Fatalf("Take() = %d, %v, %v", n, ok, dst)
	}
	if _, ok := s.Take(dst[:]); ok {
		t.Fatalf("Take() on empty slot ok = true")
	}
	if !s.Offer([]byte{4}) {
		t.Fatalf("Offer() after Take = false")
	}
	if s.Seq() != 2 {
		t.Fatalf("Seq() = %d, want 2", s.Seq())
	}
}

func TestReportSlotNoTornReports(t *testing.T) {
	const total = 10_000

	var s ReportSlot
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var dst [MaxReportBytes]byte
		for got := 0; got < total; {
			n, ok := s.Take(dst[:])
			if !ok {
				runtime.Gosched()
				continue
			}
			for i := 1; i < n; i++ {
				if dst[i] != dst[0] {
					t.Errorf("torn report %v", dst[:n])
					break
				}
			}
			got++
		}
	}()

	var buf [MaxReportBytes]byte
	for i := 0; i < total; i++ {
		for j := range buf {
			buf[j] = byte(i)
		}
		for !s.Offer(buf[:]) {
			runtime.Gosched()
		}
	}
	wg.Wait()
}

func TestOnceClaim(t *testing.T) {
	var o Once
	if err := o.Claim(); err != nil {
		t.Fatalf("first Claim() = %v", err)
	}
	if err := o.Claim(); err != ErrAlreadyInitialized {
		t.Fatalf("second Claim() = %v, want ErrAlreadyInitialized", err)
	}
	if !o.Claimed() {
		t.Fatalf("Claimed() = false")
	}
}

func TestSharedLoadStore(t *testing.T) {
	type pair struct{ a, b uint32 }
	var s Shared[pair]

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint32(0); i < 10_000; i++ {
			s.Store(pair{i, i})
		}
	}()
	for i := 0; i < 10_000; i++ {
		if p := s.Load(); p.a != p.b {
			t.Fatalf("torn value %+v", p)
		}
	}
	wg.Wait()

	var ran bool
	Lock(func() { ran = true })
	if !ran {
		t.Fatalf("Lock() did not run f")
	}
}
