package orderbook

// Level is the FIFO of orders resting at one price.
//
// Slots are absolute: base counts the orders already popped from the head,
// so a slot handed out by Push keeps addressing the same order until that
// order is popped. Cancelled orders stay in place with Qty == 0.
type Level struct {
	Price Price

	orders []Order
	base   Slot

	// live is the summed Qty of the orders in the FIFO.
	live uint64
}

func newLevel(price Price) *Level {
	return &Level{Price: price}
}

// push appends o at the tail and returns its slot. Counters are the
// caller's job.
func (l *Level) push(o Order) Slot {
	slot := l.base + Slot(len(l.orders))
	o.Slot = slot
	l.orders = append(l.orders, o)
	return slot
}

// popFront removes the head of the FIFO.
func (l *Level) popFront() Order {
	o := l.orders[0]
	l.orders[0] = Order{}
	l.orders = l.orders[1:]
	l.base++
	if len(l.orders) == 0 {
		// release the backing array once the queue drains
		l.orders = nil
	}
	return o
}

func (l *Level) front() *Order {
	return &l.orders[0]
}

// at resolves an absolute slot, or nil once the slot has been popped.
func (l *Level) at(slot Slot) *Order {
	if slot < l.base || slot-l.base >= Slot(len(l.orders)) {
		return nil
	}
	return &l.orders[slot-l.base]
}

// Live is the resting quantity at this price.
func (l *Level) Live() uint64 {
	return l.live
}

// Len counts physical slots, stragglers included.
func (l *Level) Len() int {
	return len(l.orders)
}

// Empty reports whether no live quantity remains, stragglers aside.
func (l *Level) Empty() bool {
	return l.live == 0
}

// FifoEmpty reports whether the FIFO holds no slots at all.
func (l *Level) FifoEmpty() bool {
	return len(l.orders) == 0
}

// Each visits the FIFO head to tail, stragglers included.
func (l *Level) Each(fn func(Order) bool) {
	for _, o := range l.orders {
		if !fn(o) {
			return
		}
	}
}
