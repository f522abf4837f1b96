// Package orderbook implements per-symbol limit order books with
// price-time priority.
//
// Each side of a book is a LevelMap: price levels kept in a B-tree, most
// competitive price first, each level a FIFO of resting orders. Matching
// walks the opposite side best level first and consumes FIFO heads in
// arrival order. Cancellation zeroes an order in place; the dead entry is
// popped the next time a match reaches it.
//
// BookMap routes orders to books by symbol and keeps the id index used for
// duplicate detection and cancels. Nothing here is safe for concurrent use.
package orderbook
