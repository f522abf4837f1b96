package service

import (
	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"cross/api/lines"
	"cross/domain/orderbook"
	entrywal "cross/infra/wal/entry"
)

// Journal payload fields. Cancel carries only fieldOID, Print carries
// nothing.
const (
	fieldOID    protowire.Number = 1
	fieldSymbol protowire.Number = 2
	fieldSide   protowire.Number = 3
	fieldQty    protowire.Number = 4
	fieldPrice  protowire.Number = 5
)

var errBadPayload = errors.New("journal: bad action payload")

func recordType(k lines.Kind) (entrywal.RecordType, bool) {
	switch k {
	case lines.Place:
		return entrywal.RecordPlace, true
	case lines.Cancel:
		return entrywal.RecordCancel, true
	case lines.Print:
		return entrywal.RecordPrint, true
	default:
		return 0, false
	}
}

func encodeAction(a lines.Action) []byte {
	var b []byte
	switch a.Kind {
	case lines.Place:
		o := a.Order
		b = protowire.AppendTag(b, fieldOID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(o.ID))
		b = protowire.AppendTag(b, fieldSymbol, protowire.BytesType)
		b = protowire.AppendString(b, o.Symbol)
		b = protowire.AppendTag(b, fieldSide, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(o.Side))
		b = protowire.AppendTag(b, fieldQty, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(o.Qty))
		b = protowire.AppendTag(b, fieldPrice, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(o.Price)))
	case lines.Cancel:
		b = protowire.AppendTag(b, fieldOID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(a.OID))
	}
	return b
}

func decodeAction(rec *entrywal.Record) (lines.Action, error) {
	switch rec.Type {
	case entrywal.RecordPrint:
		return lines.PrintAction(), nil
	case entrywal.RecordPlace, entrywal.RecordCancel:
	default:
		return lines.Action{}, errors.Wrapf(errBadPayload, "seq %d: record type %d", rec.Seq, rec.Type)
	}

	var (
		oid, side, qty uint64
		price          int64
		symbol         string
	)
	b := rec.Data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return lines.Action{}, errors.Wrapf(errBadPayload, "seq %d: %v", rec.Seq, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case typ == protowire.BytesType && num == fieldSymbol:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return lines.Action{}, errors.Wrapf(errBadPayload, "seq %d: %v", rec.Seq, protowire.ParseError(m))
			}
			symbol, n = v, m
		case typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return lines.Action{}, errors.Wrapf(errBadPayload, "seq %d: %v", rec.Seq, protowire.ParseError(m))
			}
			switch num {
			case fieldOID:
				oid = v
			case fieldSide:
				side = v
			case fieldQty:
				qty = v
			case fieldPrice:
				price = protowire.DecodeZigZag(v)
			}
			n = m
		default:
			// unknown field, skip it
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return lines.Action{}, errors.Wrapf(errBadPayload, "seq %d: %v", rec.Seq, protowire.ParseError(n))
			}
		}
		b = b[n:]
	}

	if rec.Type == entrywal.RecordCancel {
		return lines.CancelAction(orderbook.OrderID(oid)), nil
	}
	o := orderbook.NewOrder(
		orderbook.OrderID(oid),
		symbol,
		orderbook.Side(side),
		orderbook.Quantity(qty),
		orderbook.Price(price),
	)
	return lines.PlaceAction(o), nil
}
