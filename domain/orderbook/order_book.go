package orderbook

import "github.com/cockroachdb/errors"

// OrderBook holds both sides of one symbol. It is single-writer.
type OrderBook struct {
	Bids *LevelMap
	Asks *LevelMap
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		Bids: NewLevelMap(Descending),
		Asks: NewLevelMap(Ascending),
	}
}

// sides returns the map an order of side s searches and the map it rests in.
func (b *OrderBook) sides(s Side) (search, rest *LevelMap) {
	if s == Buy {
		return b.Asks, b.Bids
	}
	return b.Bids, b.Asks
}

func (b *OrderBook) side(s Side) *LevelMap {
	if s == Buy {
		return b.Bids
	}
	return b.Asks
}

// acceptable reports whether a resting level at price can trade with o.
func acceptable(o *Order, price Price) bool {
	if o.Side == Buy {
		return price <= o.Price
	}
	return price >= o.Price
}

// Execute crosses o against the opposite side, appending fills to res. Any
// quantity left rests at the tail of o's price level on its own side; the
// slot it landed in is returned with true. When o trades out completely
// nothing rests and Execute returns NoSlot, false.
//
// o.Qty is left at the remaining quantity and o.Slot at the resting slot.
func (b *OrderBook) Execute(o *Order, res *Result) (Slot, bool) {
	if !o.Side.Valid() {
		panic(errors.AssertionFailedf("order %d has no side", o.ID))
	}
	search, rest := b.sides(o.Side)
	res.Type = Filled

	for o.Qty > 0 && !search.FifosEmpty() {
		lvl, ok := search.First()
		if !ok || !acceptable(o, lvl.Price) {
			// every later level is worse
			break
		}
		price := lvl.Price
		for o.Qty > 0 && !lvl.FifoEmpty() {
			candidate := lvl.front()
			if candidate.Qty > 0 {
				fill := min(o.Qty, candidate.Qty)
				candidate.Qty -= fill
				o.Qty -= fill
				search.DecrementCounts(price, fill)
				res.Fills = append(res.Fills, Fill{
					Inbound: Leg{
						ID: o.ID, Symbol: o.Symbol, Side: o.Side,
						Qty: fill, Price: price,
					},
					Outbound: Leg{
						ID: candidate.ID, Symbol: candidate.Symbol, Side: candidate.Side,
						Qty: fill, Price: price,
					},
					Exhausted: candidate.Qty == 0,
				})
			}
			if candidate.Qty == 0 {
				// filled just now, or a straggler left by a cancel
				search.PopFront(price)
			}
		}
		if lvl.FifoEmpty() {
			search.Erase(price)
		}
	}

	if o.Qty == 0 {
		o.Slot = NoSlot
		return NoSlot, false
	}
	o.Slot = rest.Push(o.Price, *o)
	return o.Slot, true
}

// ExecuteAll places orders in sequence, one result and slot per order.
func (b *OrderBook) ExecuteAll(orders []Order) ([]Result, []Slot) {
	results := make([]Result, len(orders))
	slots := make([]Slot, len(orders))
	for i := range orders {
		slots[i], _ = b.Execute(&orders[i], &results[i])
	}
	return results, slots
}

// Kill zeroes the resting order ref points at. The slot is reclaimed
// lazily, the next time a match walks through it.
func (b *OrderBook) Kill(ref Ref) Quantity {
	return b.side(ref.Side).KillAt(ref.Price, ref.Slot, ref.ID)
}

// BestBid returns the highest live bid level.
func (b *OrderBook) BestBid() (*Level, bool) { return b.Bids.BestLevel() }

// BestAsk returns the lowest live ask level.
func (b *OrderBook) BestAsk() (*Level, bool) { return b.Asks.BestLevel() }

func (b *OrderBook) BuyOrderCount() uint64  { return b.Bids.OrderCount() }
func (b *OrderBook) SellOrderCount() uint64 { return b.Asks.OrderCount() }
func (b *OrderBook) OrderCount() uint64     { return b.BuyOrderCount() + b.SellOrderCount() }
func (b *OrderBook) FifosSize() uint64      { return b.Bids.FifosSize() + b.Asks.FifosSize() }
func (b *OrderBook) MapsSize() int          { return b.Bids.MapSize() + b.Asks.MapSize() }
func (b *OrderBook) Empty() bool            { return b.Bids.Empty() && b.Asks.Empty() }
func (b *OrderBook) FifosEmpty() bool       { return b.Bids.FifosEmpty() && b.Asks.FifosEmpty() }
func (b *OrderBook) MapsEmpty() bool        { return b.Bids.MapEmpty() && b.Asks.MapEmpty() }

// Lines prints resting orders, sells then buys, each from the highest price
// down. Stragglers are skipped.
func (b *OrderBook) Lines() []string {
	var out []string
	emit := func(lvl *Level) bool {
		lvl.Each(func(o Order) bool {
			if o.Qty > 0 {
				out = append(out, "P "+o.String())
			}
			return true
		})
		return true
	}
	b.Asks.WalkDescending(emit)
	b.Bids.WalkDescending(emit)
	return out
}
