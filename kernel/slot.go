package kernel

import "sync/atomic"

// MaxReportBytes is the largest report a ReportSlot holds.
const MaxReportBytes = 8

// ReportSlot hands one report from the tick to the USB interrupt.
//
// The tick side Offers a report; the USB side Takes it once the endpoint is
// free. While a report is pending Offer returns false, which is the
// back-pressure the firmware sees as "not accepted yet". Only the owner of
// the current state touches the buffer, so no lock is needed.
type ReportSlot struct {
	full atomic.Bool
	seq  atomic.Uint32
	n    uint8
	buf  [MaxReportBytes]byte
}

// Offer stores data for sending. It returns false while the previous report
// has not been taken.
func (s *ReportSlot) Offer(data []byte) bool {
	if s.full.Load() {
		return false
	}
	s.n = uint8(copy(s.buf[:], data))
	s.seq.Add(1)
	s.full.Store(true)
	return true
}

// Take copies the pending report into dst and frees the slot.
func (s *ReportSlot) Take(dst []byte) (count int, ok bool) {
	if !s.full.Load() {
		return 0, false
	}
	count = copy(dst, s.buf[:s.n])
	s.full.Store(false)
	return count, true
}

// Pending reports whether a report is waiting to be taken.
func (s *ReportSlot) Pending() bool { return s.full.Load() }

// Seq returns the number of reports offered so far.
func (s *ReportSlot) Seq() uint32 { return s.seq.Load() }
