package orderbook

import (
	"slices"
)

// BookMap owns one OrderBook per symbol and the index used to find resting
// orders by id.
//
// The index stores Refs, never quantities: the live quantity of a resting
// order is only ever read from its FIFO slot.
type BookMap struct {
	books map[string]*OrderBook
	index map[OrderID]Ref
}

func NewBookMap() *BookMap {
	return &BookMap{
		books: make(map[string]*OrderBook),
		index: make(map[OrderID]Ref),
	}
}

// validate checks what the parser may not have: duplicate ids and the
// price and quantity bounds.
func (m *BookMap) validate(o Order) error {
	if _, dup := m.index[o.ID]; dup {
		return reject(ErrDuplicateOrderID, "%d Duplicate order id", o.ID)
	}
	if !o.Side.Valid() {
		return reject(ErrInvalidSide, "%d Invalid order side: %s", o.ID, o.Side)
	}
	if o.Symbol == "" || len(o.Symbol) > MaxSymbolLen {
		return reject(ErrInvalidSymbol, "%d Invalid Symbol: %s", o.ID, o.Symbol)
	}
	if o.Price <= 0 || o.Price > MaxPrice {
		return reject(ErrInvalidPrice, "%d Invalid limit price: %s", o.ID, o.Price.Decimal())
	}
	if o.Qty == 0 || o.Qty > MaxQuantity {
		return reject(ErrInvalidQuantity, "%d Invalid quantity: %d", o.ID, o.Qty)
	}
	return nil
}

// HandleOrder places o in the book for its symbol. Rejected orders leave
// every book untouched.
func (m *BookMap) HandleOrder(o Order) Result {
	if err := m.validate(o); err != nil {
		return ErrorResult(err)
	}

	// hold the id while matching runs
	m.index[o.ID] = o.Ref()

	book, ok := m.books[o.Symbol]
	if !ok {
		book = NewOrderBook()
		m.books[o.Symbol] = book
	}

	var res Result
	_, rested := book.Execute(&o, &res)

	for _, f := range res.Fills {
		if f.Exhausted {
			delete(m.index, f.Outbound.ID)
		}
	}

	if rested {
		m.index[o.ID] = o.Ref()
		return res
	}
	delete(m.index, o.ID)
	if book.Empty() {
		delete(m.books, o.Symbol)
	}
	return res
}

// CancelOrder kills the resting order id and frees the id for reuse.
func (m *BookMap) CancelOrder(id OrderID) Result {
	ref, ok := m.index[id]
	if !ok {
		return ErrorResult(reject(ErrUnknownOrderID, "Invalid OID: %d", id))
	}
	book := m.books[ref.Symbol]
	book.Kill(ref)
	delete(m.index, id)
	if book.Empty() {
		delete(m.books, ref.Symbol)
	}
	return Result{Type: Cancelled, Cancelled: ref}
}

// Serialize prints every book. Symbols are visited in sorted order.
func (m *BookMap) Serialize() []string {
	var out []string
	for _, sym := range m.Symbols() {
		out = append(out, m.books[sym].Lines()...)
	}
	return out
}

// Symbols lists the symbols that currently have a book, sorted.
func (m *BookMap) Symbols() []string {
	var syms []string
	for sym := range m.books {
		syms = append(syms, sym)
	}
	slices.Sort(syms)
	return syms
}

// Book returns the book for symbol, if it exists.
func (m *BookMap) Book(symbol string) (*OrderBook, bool) {
	b, ok := m.books[symbol]
	return b, ok
}

// Lookup returns the index entry for a resting order.
func (m *BookMap) Lookup(id OrderID) (Ref, bool) {
	ref, ok := m.index[id]
	return ref, ok
}

func (m *BookMap) Len() int      { return len(m.books) }
func (m *BookMap) IndexLen() int { return len(m.index) }

func (m *BookMap) OrderCount() (n uint64) {
	for _, b := range m.books {
		n += b.OrderCount()
	}
	return n
}
