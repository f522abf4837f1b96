// Package lines reads the one-command-per-line text protocol:
//
//	O <oid> <symbol> <side> <qty> <price>   place an order
//	X <oid>                                 cancel an order
//	P                                       print every book
//
// Blank lines and lines starting with '#' are ignored.
package lines

import (
	"fmt"

	"cross/domain/orderbook"
)

// Kind tags the variant an Action holds.
type Kind uint8

const (
	Nop Kind = iota
	Place
	Cancel
	Print
)

func (k Kind) String() string {
	switch k {
	case Nop:
		return "nop"
	case Place:
		return "place"
	case Cancel:
		return "cancel"
	case Print:
		return "print"
	default:
		return "unknown"
	}
}

// Action is one parsed command. Order is set for Place, OID for Place and
// Cancel.
type Action struct {
	Kind  Kind
	OID   orderbook.OrderID
	Order orderbook.Order
}

func PlaceAction(o orderbook.Order) Action {
	return Action{Kind: Place, OID: o.ID, Order: o}
}

func CancelAction(id orderbook.OrderID) Action {
	return Action{Kind: Cancel, OID: id}
}

func PrintAction() Action {
	return Action{Kind: Print}
}

// String renders the action back into protocol form.
func (a Action) String() string {
	switch a.Kind {
	case Place:
		o := a.Order
		return fmt.Sprintf("O %d %s %s %d %s", o.ID, o.Symbol, o.Side, o.Qty, o.Price.Decimal().StringFixed(orderbook.PriceScale))
	case Cancel:
		return fmt.Sprintf("X %d", a.OID)
	case Print:
		return "P"
	default:
		return ""
	}
}
