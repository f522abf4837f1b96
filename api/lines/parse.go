package lines

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"cross/domain/orderbook"
)

var (
	ErrInvalidAction   = errors.New("invalid action")
	ErrInvalidOID      = errors.New("invalid order id")
	ErrInvalidSymbol   = errors.New("invalid symbol")
	ErrInvalidSide     = errors.New("invalid side")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidPrice    = errors.New("invalid price")
)

// Parse turns one input line into an Action. The error message is the text
// that goes out on the E line; errors.Is matches the Err* sentinels.
func Parse(line string) (Action, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Action{}, nil
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "O":
		return parsePlace(trimmed, fields[1:])
	case "X":
		return parseCancel(trimmed, fields[1:])
	case "P":
		if len(fields) != 1 {
			return Action{}, errors.Mark(
				errors.Newf("Invalid Print Action request size: %s", trimmed), ErrInvalidAction)
		}
		return PrintAction(), nil
	default:
		return Action{}, errors.Mark(errors.Newf("Invalid action: %s", trimmed), ErrInvalidAction)
	}
}

func parsePlace(line string, args []string) (Action, error) {
	if len(args) != 5 {
		return Action{}, errors.Mark(errors.Newf("Invalid order: %s", line), ErrInvalidAction)
	}
	oid, err := parseOID(args[0])
	if err != nil {
		return Action{}, err
	}

	symbol := args[1]
	if !validSymbol(symbol) {
		return Action{}, errors.Mark(
			errors.Newf("%d Invalid Symbol: %s", oid, symbol), ErrInvalidSymbol)
	}

	var side orderbook.Side
	switch args[2] {
	case "B":
		side = orderbook.Buy
	case "S":
		side = orderbook.Sell
	default:
		return Action{}, errors.Mark(
			errors.Newf("%d Invalid order side: %s", oid, args[2]), ErrInvalidSide)
	}

	qty, err := strconv.ParseUint(args[3], 10, 16)
	if err != nil || qty == 0 {
		return Action{}, errors.Mark(
			errors.Newf("%d Invalid quantity: %s", oid, args[3]), ErrInvalidQuantity)
	}

	price, err := orderbook.ParsePrice(args[4])
	if err != nil || !price.Valid() {
		return Action{}, errors.Mark(
			errors.Newf("%d Invalid limit price: %s", oid, args[4]), ErrInvalidPrice)
	}

	return PlaceAction(orderbook.NewOrder(oid, symbol, side, orderbook.Quantity(qty), price)), nil
}

func parseCancel(line string, args []string) (Action, error) {
	if len(args) != 1 {
		return Action{}, errors.Mark(errors.Newf("Invalid cancel: %s", line), ErrInvalidAction)
	}
	oid, err := parseOID(args[0])
	if err != nil {
		return Action{}, err
	}
	return CancelAction(oid), nil
}

func parseOID(s string) (orderbook.OrderID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Mark(errors.Newf("Invalid OID: %s", s), ErrInvalidOID)
	}
	return orderbook.OrderID(v), nil
}

func validSymbol(s string) bool {
	if s == "" || len(s) > orderbook.MaxSymbolLen {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
