package orderbook

const (
	testQty    Quantity = 10
	testSymbol          = "IBM"
)

var testPrice = PriceFromInt(100)

func dummyOrder(id OrderID, qty Quantity, side Side) Order {
	return NewOrder(id, testSymbol, side, qty, testPrice)
}

// dummyOrders returns n buys at the test price with consecutive ids.
func dummyOrders(n int, start OrderID, qty Quantity) []Order {
	out := make([]Order, n)
	for i := range out {
		out[i] = dummyOrder(start+OrderID(i), qty, Buy)
	}
	return out
}

// ascDescLadder is n/2 buys priced 1, 2, ... followed by n/2 sells priced
// from the top bid back down to 1. Every order ends up fully filled.
func ascDescLadder(n int, start OrderID, qty Quantity) []Order {
	out := make([]Order, 0, n)
	id := start
	for i := 1; i <= n/2; i++ {
		out = append(out, NewOrder(id, testSymbol, Buy, qty, PriceFromInt(int64(i))))
		id++
	}
	for i := n / 2; i >= 1; i-- {
		out = append(out, NewOrder(id, testSymbol, Sell, qty, PriceFromInt(int64(i))))
		id++
	}
	return out
}

// ascAscLadder prices the sells upward too, so only the lower half of the
// sells finds a bid at or above its limit.
func ascAscLadder(n int, start OrderID, qty Quantity) []Order {
	out := make([]Order, 0, n)
	id := start
	for i := 1; i <= n/2; i++ {
		out = append(out, NewOrder(id, testSymbol, Buy, qty, PriceFromInt(int64(i))))
		id++
	}
	for i := 1; i <= n/2; i++ {
		out = append(out, NewOrder(id, testSymbol, Sell, qty, PriceFromInt(int64(i))))
		id++
	}
	return out
}
