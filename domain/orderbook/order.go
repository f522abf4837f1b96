package orderbook

import (
	"fmt"
	"math"
)

type Side byte

const (
	Buy  Side = 'B'
	Sell Side = 'S'
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "B"
	case Sell:
		return "S"
	default:
		// echo the raw byte so a bad side is visible in error text
		return string([]byte{byte(s)})
	}
}

// Opposite returns the side an order of this side matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

type (
	OrderID  uint32
	Quantity uint32
	// Slot is the absolute position of an order inside its level's FIFO.
	Slot uint64
)

// MaxQuantity bounds a single order's quantity.
const MaxQuantity Quantity = math.MaxUint16

// NoSlot marks an order that never rested.
const NoSlot = Slot(math.MaxUint64)

// MaxSymbolLen bounds the length of a symbol.
const MaxSymbolLen = 8

// Order is one order's identity plus its remaining quantity.
// Qty only ever decreases; zero means filled or cancelled.
type Order struct {
	ID     OrderID
	Symbol string
	Side   Side
	Qty    Quantity
	Price  Price
	Slot   Slot
}

// NewOrder returns an order that has not been placed anywhere yet.
func NewOrder(id OrderID, symbol string, side Side, qty Quantity, price Price) Order {
	return Order{
		ID:     id,
		Symbol: symbol,
		Side:   side,
		Qty:    qty,
		Price:  price,
		Slot:   NoSlot,
	}
}

func (o Order) Exhausted() bool {
	return o.Qty == 0
}

// Ref strips the quantity: what remains never changes while the order rests.
func (o Order) Ref() Ref {
	return Ref{
		ID:     o.ID,
		Symbol: o.Symbol,
		Side:   o.Side,
		Price:  o.Price,
		Slot:   o.Slot,
	}
}

// String renders the order the way the book printer does.
func (o Order) String() string {
	return fmt.Sprintf("%d %s %d %s", o.ID, o.Symbol, o.Qty, o.Price)
}

// Ref locates a resting order. The order index stores these instead of
// pointers into a FIFO, so nothing dangles when a level is popped or erased.
type Ref struct {
	ID     OrderID
	Symbol string
	Side   Side
	Price  Price
	Slot   Slot
}
