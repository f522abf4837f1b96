package orderbook

import (
	"github.com/cockroachdb/errors"
	"github.com/tidwall/btree"
)

// Direction fixes the iteration order of a LevelMap.
type Direction uint8

const (
	// Ascending puts the lowest price first (asks).
	Ascending Direction = iota
	// Descending puts the highest price first (bids).
	Descending
)

// LevelMap is a price-ordered collection of levels for one side of a book.
// The first level in map order is always the most competitive price.
type LevelMap struct {
	dir    Direction
	levels *btree.BTreeG[*Level]

	// orderCount sums live quantity over every level.
	orderCount uint64
	// fifoSlots counts physical FIFO slots, stragglers included.
	fifoSlots uint64
}

func NewLevelMap(dir Direction) *LevelMap {
	less := func(a, b *Level) bool { return a.Price < b.Price }
	if dir == Descending {
		less = func(a, b *Level) bool { return a.Price > b.Price }
	}
	return &LevelMap{
		dir:    dir,
		levels: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true}),
	}
}

func (m *LevelMap) Direction() Direction {
	return m.dir
}

// Level returns the level at price, if one exists.
func (m *LevelMap) Level(price Price) (*Level, bool) {
	return m.levels.Get(&Level{Price: price})
}

func (m *LevelMap) getOrCreate(price Price) *Level {
	if lvl, ok := m.Level(price); ok {
		return lvl
	}
	lvl := newLevel(price)
	m.levels.Set(lvl)
	return lvl
}

func (m *LevelMap) mustLevel(price Price) *Level {
	lvl, ok := m.Level(price)
	if !ok {
		panic(errors.AssertionFailedf("no level at %s", price))
	}
	return lvl
}

// IncrementCounts adds qty to the level at price and to the map total.
func (m *LevelMap) IncrementCounts(price Price, qty Quantity) {
	m.getOrCreate(price).live += uint64(qty)
	m.orderCount += uint64(qty)
}

// DecrementCounts removes qty previously added with IncrementCounts.
func (m *LevelMap) DecrementCounts(price Price, qty Quantity) {
	lvl := m.mustLevel(price)
	if lvl.live < uint64(qty) || m.orderCount < uint64(qty) {
		panic(errors.AssertionFailedf(
			"decrement of %d at %s underflows level=%d total=%d",
			qty, price, lvl.live, m.orderCount))
	}
	lvl.live -= uint64(qty)
	m.orderCount -= uint64(qty)
}

// Push appends o to the tail of its price level and counts its quantity.
// The returned slot stays valid until the order is popped.
func (m *LevelMap) Push(price Price, o Order) Slot {
	lvl := m.getOrCreate(price)
	slot := lvl.push(o)
	m.fifoSlots++
	m.IncrementCounts(price, o.Qty)
	return slot
}

// PopFront removes the head order at price. The caller must already have
// decremented the counts by whatever quantity the order still carried.
func (m *LevelMap) PopFront(price Price) Order {
	lvl := m.mustLevel(price)
	if lvl.FifoEmpty() {
		panic(errors.AssertionFailedf("pop from empty fifo at %s", price))
	}
	m.fifoSlots--
	return lvl.popFront()
}

// First returns the head level in map order, which may hold only stragglers.
func (m *LevelMap) First() (*Level, bool) {
	return m.levels.Min()
}

// BestLevel returns the top of book: the first level with live quantity.
func (m *LevelMap) BestLevel() (*Level, bool) {
	var best *Level
	m.levels.Scan(func(lvl *Level) bool {
		if lvl.Empty() {
			return true
		}
		best = lvl
		return false
	})
	return best, best != nil
}

// Erase drops the level at price. Its FIFO must be physically empty.
func (m *LevelMap) Erase(price Price) {
	lvl, ok := m.Level(price)
	if !ok {
		return
	}
	if !lvl.FifoEmpty() {
		panic(errors.AssertionFailedf(
			"erase of level %s with %d slots still queued", price, lvl.Len()))
	}
	m.levels.Delete(lvl)
}

// KillAt zeroes the order in slot at price and returns the quantity it had.
// The order keeps its slot until a match pops it.
func (m *LevelMap) KillAt(price Price, slot Slot, id OrderID) Quantity {
	lvl := m.mustLevel(price)
	o := lvl.at(slot)
	if o == nil || o.ID != id {
		panic(errors.AssertionFailedf("slot %d at %s does not hold order %d", slot, price, id))
	}
	prior := o.Qty
	if prior > 0 {
		m.DecrementCounts(price, prior)
		o.Qty = 0
	}
	return prior
}

// Walk visits levels in map order until fn returns false.
func (m *LevelMap) Walk(fn func(*Level) bool) {
	m.levels.Scan(fn)
}

// WalkDescending visits levels from the highest price to the lowest.
func (m *LevelMap) WalkDescending(fn func(*Level) bool) {
	if m.dir == Descending {
		m.levels.Scan(fn)
		return
	}
	m.levels.Reverse(fn)
}

func (m *LevelMap) OrderCount() uint64 { return m.orderCount }
func (m *LevelMap) FifosSize() uint64  { return m.fifoSlots }
func (m *LevelMap) MapSize() int       { return m.levels.Len() }
func (m *LevelMap) Empty() bool        { return m.orderCount == 0 }
func (m *LevelMap) MapEmpty() bool     { return m.levels.Len() == 0 }
func (m *LevelMap) FifosEmpty() bool   { return m.fifoSlots == 0 }
