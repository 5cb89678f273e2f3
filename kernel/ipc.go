package kernel

import "sync/atomic"

// MaxMessageBytes is the maximum payload size for mailbox messages.
const MaxMessageBytes = 8

// Message is a fixed-size message envelope.
type Message struct {
	Kind uint8
	Len  uint8
	Data [MaxMessageBytes]byte
}

// MsgKeyboardLEDs carries the host's keyboard LED output report in Data[0]
// (bit 0 num lock, bit 1 caps lock, bit 2 scroll lock).
const MsgKeyboardLEDs uint8 = 1

// NewMessage copies payload into a message of the given kind, truncating
// to MaxMessageBytes.
func NewMessage(kind uint8, payload []byte) Message {
	msg := Message{Kind: kind}
	n := copy(msg.Data[:], payload)
	msg.Len = uint8(n)
	return msg
}

// Payload returns the used part of Data.
func (m *Message) Payload() []byte { return m.Data[:m.Len] }

const mailboxSlots = 8

// Mailbox is a fixed-size single-producer, single-consumer queue. The
// producer is typically an interrupt handler and the consumer the tick, so
// neither side ever waits on the other: TrySend drops when full.
type Mailbox struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [mailboxSlots]Message
}

// TrySend attempts to enqueue a message, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(msg Message) bool {
	head := mb.head.Load()
	tail := mb.tail.Load()
	if head-tail >= mailboxSlots {
		return false
	}

	// Publish only after the slot is filled.
	mb.slots[head%mailboxSlots] = msg
	mb.head.Store(head + 1)
	return true
}

// TryRecv attempts to dequeue one message, returning false if empty.
func (mb *Mailbox) TryRecv() (Message, bool) {
	tail := mb.tail.Load()
	head := mb.head.Load()
	if tail == head {
		return Message{}, false
	}

	msg := mb.slots[tail%mailboxSlots]
	mb.tail.Store(tail + 1)
	return msg, true
}

// Len returns the number of queued messages.
func (mb *Mailbox) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}
