package orderbook

import (
	"fmt"
	"strconv"
)

type ResultType uint8

const (
	Nop ResultType = iota
	Error
	Filled
	Cancelled
)

func (t ResultType) String() string {
	switch t {
	case Nop:
		return "nop"
	case Error:
		return "error"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Leg is one side of a trade. Price is always the resting level's price.
type Leg struct {
	ID     OrderID
	Symbol string
	Side   Side
	Qty    Quantity
	Price  Price
}

func (l Leg) String() string {
	return fmt.Sprintf("F %d %s %d %s", l.ID, l.Symbol, l.Qty, l.Price)
}

// Fill is one match increment between the incoming order and a resting one.
type Fill struct {
	Inbound  Leg
	Outbound Leg
	// Exhausted is set when the resting order has nothing left after this fill.
	Exhausted bool
}

// Result describes the outcome of a single action.
type Result struct {
	Type ResultType
	// Err is set for Error results.
	Err error
	// Fills is populated for Filled results and may be empty when the
	// order rested without trading.
	Fills []Fill
	// Cancelled identifies the cancelled order for Cancelled results.
	Cancelled Ref
}

func ErrorResult(err error) Result {
	return Result{Type: Error, Err: err}
}

// FilledQty reports the total quantity the incoming order traded.
func (r Result) FilledQty() uint64 {
	var n uint64
	for _, f := range r.Fills {
		n += uint64(f.Inbound.Qty)
	}
	return n
}

// Lines serializes the result into output protocol lines.
func (r Result) Lines() []string {
	switch r.Type {
	case Filled:
		out := make([]string, 0, 2*len(r.Fills))
		for _, f := range r.Fills {
			out = append(out, f.Inbound.String(), f.Outbound.String())
		}
		return out
	case Error:
		msg := ""
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return []string{"E " + msg}
	case Cancelled:
		return []string{"X " + strconv.FormatUint(uint64(r.Cancelled.ID), 10)}
	default:
		return nil
	}
}
