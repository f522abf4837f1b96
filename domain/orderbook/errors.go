package orderbook

import "github.com/cockroachdb/errors"

var (
	ErrDuplicateOrderID = errors.New("duplicate order id")
	ErrUnknownOrderID   = errors.New("unknown order id")
	ErrInvalidPrice     = errors.New("invalid limit price")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidSide      = errors.New("invalid side")
)

// reject builds an error whose message is the protocol text and which still
// matches cause under errors.Is.
func reject(cause error, format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), cause)
}
