package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(t *testing.T, b *OrderBook, o Order) (Result, Slot, bool) {
	t.Helper()
	var res Result
	slot, rested := b.Execute(&o, &res)
	require.Equal(t, Filled, res.Type)
	return res, slot, rested
}

func TestPartialFill(t *testing.T) {
	book := NewOrderBook()
	_, _, rested := place(t, book, dummyOrder(0, testQty, Buy))
	require.True(t, rested)

	res, _, rested := place(t, book, dummyOrder(1, testQty/2, Sell))
	assert.False(t, rested)
	require.Len(t, res.Fills, 1)

	f := res.Fills[0]
	assert.Equal(t, Sell, f.Inbound.Side, "inbound leg first")
	assert.Equal(t, Buy, f.Outbound.Side)
	assert.Equal(t, testQty/2, f.Inbound.Qty)
	assert.Equal(t, testQty/2, f.Outbound.Qty)
	assert.Equal(t, testPrice, f.Inbound.Price)
	assert.False(t, f.Exhausted)

	assert.Equal(t, []string{
		"F 1 IBM 5 0000100.00000",
		"F 0 IBM 5 0000100.00000",
	}, res.Lines())

	assert.Equal(t, uint64(testQty/2), book.BuyOrderCount())
	best, ok := book.BestBid()
	require.True(t, ok)
	assert.Equal(t, OrderID(0), best.front().ID)
	assert.Equal(t, testQty/2, best.front().Qty)
}

func TestExecutionAtRestingPrice(t *testing.T) {
	book := NewOrderBook()
	place(t, book, NewOrder(1, testSymbol, Sell, 10, PriceFromInt(100)))

	res, _, rested := place(t, book, NewOrder(2, testSymbol, Buy, 10, PriceFromInt(105)))
	assert.False(t, rested)
	require.Len(t, res.Fills, 1)
	assert.Equal(t, PriceFromInt(100), res.Fills[0].Inbound.Price)
	assert.Equal(t, PriceFromInt(100), res.Fills[0].Outbound.Price)
	assert.True(t, res.Fills[0].Exhausted)
	assert.True(t, book.Empty())
	assert.True(t, book.MapsEmpty())
}

func TestNoCrossRests(t *testing.T) {
	book := NewOrderBook()
	place(t, book, NewOrder(1, testSymbol, Sell, 10, PriceFromInt(101)))
	res, slot, rested := place(t, book, NewOrder(2, testSymbol, Buy, 10, PriceFromInt(100)))

	assert.True(t, rested)
	assert.Equal(t, Slot(0), slot)
	assert.Empty(t, res.Fills)
	assert.Equal(t, uint64(10), book.BuyOrderCount())
	assert.Equal(t, uint64(10), book.SellOrderCount())
}

func TestPriceTimePriority(t *testing.T) {
	book := NewOrderBook()
	place(t, book, NewOrder(1, testSymbol, Buy, 5, PriceFromInt(100)))
	place(t, book, NewOrder(2, testSymbol, Buy, 5, PriceFromInt(100)))
	place(t, book, NewOrder(3, testSymbol, Buy, 5, PriceFromInt(101)))
	place(t, book, NewOrder(4, testSymbol, Buy, 5, PriceFromInt(99)))

	res, _, rested := place(t, book, NewOrder(5, testSymbol, Sell, 12, PriceFromInt(99)))
	assert.False(t, rested)

	var order []OrderID
	var qty []Quantity
	for _, f := range res.Fills {
		order = append(order, f.Outbound.ID)
		qty = append(qty, f.Outbound.Qty)
	}
	assert.Equal(t, []OrderID{3, 1, 2}, order, "best price first, then arrival order")
	assert.Equal(t, []Quantity{5, 5, 2}, qty)
	assert.Equal(t, uint64(12), res.FilledQty())
	assert.Equal(t, uint64(3+5), book.BuyOrderCount())
}

func TestSweepStopsAtLimit(t *testing.T) {
	book := NewOrderBook()
	for i := int64(1); i <= 5; i++ {
		place(t, book, NewOrder(OrderID(i), testSymbol, Sell, 10, PriceFromInt(100+i)))
	}
	res, _, rested := place(t, book, NewOrder(10, testSymbol, Buy, 100, PriceFromInt(103)))
	assert.True(t, rested)
	assert.Len(t, res.Fills, 3)
	assert.Equal(t, uint64(30), res.FilledQty())
	assert.Equal(t, uint64(70), book.BuyOrderCount())
	assert.Equal(t, uint64(20), book.SellOrderCount())
	assert.Equal(t, 3, book.MapsSize())

	ask, ok := book.BestAsk()
	require.True(t, ok)
	assert.Equal(t, PriceFromInt(104), ask.Price)
}

func TestQuantityConservation(t *testing.T) {
	book := NewOrderBook()
	orders := ascAscLadder(64, 0, 7)
	results, _ := book.ExecuteAll(orders)

	for i, res := range results {
		var in, out uint64
		for _, f := range res.Fills {
			require.Equal(t, f.Inbound.Qty, f.Outbound.Qty)
			in += uint64(f.Inbound.Qty)
			out += uint64(f.Outbound.Qty)
		}
		assert.Equal(t, in, out)
		assert.LessOrEqual(t, in, uint64(7))
		assert.Equal(t, in == 7, orders[i].Qty == 0, "order %d", i)
	}
}

func TestFullFillsAscDesc(t *testing.T) {
	const n = 0x10000
	book := NewOrderBook()
	book.ExecuteAll(ascDescLadder(n, 0, testQty))

	assert.True(t, book.Empty())
	assert.Equal(t, uint64(0), book.OrderCount())
	assert.Equal(t, uint64(0), book.FifosSize())
	assert.True(t, book.MapsEmpty())
}

func TestFullFillsAscAsc(t *testing.T) {
	const n = 0x10000
	buys, sells := n/2, n/2
	book := NewOrderBook()
	book.ExecuteAll(ascAscLadder(n, 0, testQty))

	assert.Equal(t, uint64(testQty)*uint64(sells/2), book.SellOrderCount())
	assert.Equal(t, uint64(testQty)*uint64(buys/2), book.BuyOrderCount())
	assert.Equal(t, uint64(sells/2), book.Asks.FifosSize())
	assert.Equal(t, uint64(buys/2), book.Bids.FifosSize())
}

func TestKillToEmpty(t *testing.T) {
	const n = 1024
	book := NewOrderBook()
	buys := dummyOrders(n, 0, testQty)
	book.ExecuteAll(buys)

	for _, o := range buys {
		assert.Equal(t, testQty, book.Kill(o.Ref()))
	}
	assert.True(t, book.Empty())
	assert.Equal(t, uint64(0), book.OrderCount())
	assert.Equal(t, uint64(n), book.FifosSize(), "killed orders wait in their fifo")

	cross := NewOrder(24, testSymbol, Sell, 10, PriceFromInt(99))
	res, _, rested := place(t, book, cross)
	assert.Empty(t, res.Fills, "stragglers never trade")
	assert.True(t, rested)
	assert.Equal(t, uint64(1), book.FifosSize(), "the walk popped every straggler")
	assert.True(t, book.Bids.MapEmpty())

	cross.Side = Buy
	res, _, rested = place(t, book, cross)
	assert.False(t, rested)
	require.Len(t, res.Fills, 1)

	assert.True(t, book.Empty())
	assert.Equal(t, uint64(0), book.OrderCount())
	assert.True(t, book.FifosEmpty())
	assert.Equal(t, uint64(0), book.FifosSize())
	assert.True(t, book.MapsEmpty())
	assert.Equal(t, 0, book.MapsSize())
}

// Killing the tail of a long FIFO still finds the right order.
func TestKillAfterManyPushes(t *testing.T) {
	const n = 0x10000
	book := NewOrderBook()
	orders := dummyOrders(n, 0, testQty)
	_, slots := book.ExecuteAll(orders)
	require.Equal(t, Slot(n-1), slots[n-1])

	book.Kill(orders[n-1].Ref())

	lvl, ok := book.Bids.Level(testPrice)
	require.True(t, ok)
	assert.Equal(t, Quantity(0), lvl.at(slots[n-1]).Qty)
	assert.Equal(t, testQty, lvl.at(slots[n-2]).Qty)
	assert.Equal(t, uint64(testQty)*(n-1), book.OrderCount())
}

func TestKillMidQueueKeepsOrder(t *testing.T) {
	book := NewOrderBook()
	orders := dummyOrders(3, 1, 5)
	book.ExecuteAll(orders)
	book.Kill(orders[1].Ref())

	res, _, _ := place(t, book, NewOrder(9, testSymbol, Sell, 10, testPrice))
	require.Len(t, res.Fills, 2)
	assert.Equal(t, OrderID(1), res.Fills[0].Outbound.ID)
	assert.Equal(t, OrderID(3), res.Fills[1].Outbound.ID)
	assert.True(t, book.MapsEmpty())
}

func TestBookLines(t *testing.T) {
	book := NewOrderBook()
	place(t, book, NewOrder(1, testSymbol, Buy, 10, PriceFromInt(99)))
	place(t, book, NewOrder(2, testSymbol, Buy, 10, PriceFromInt(100)))
	place(t, book, NewOrder(3, testSymbol, Sell, 10, PriceFromInt(102)))
	place(t, book, NewOrder(4, testSymbol, Sell, 10, PriceFromInt(101)))
	o := NewOrder(5, testSymbol, Buy, 10, PriceFromInt(100))
	var res Result
	book.Execute(&o, &res)
	book.Kill(o.Ref())

	assert.Equal(t, []string{
		"P 3 IBM 10 0000102.00000",
		"P 4 IBM 10 0000101.00000",
		"P 2 IBM 10 0000100.00000",
		"P 1 IBM 10 0000099.00000",
	}, book.Lines())
}
