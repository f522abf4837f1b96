package service

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"cross/api/lines"
	"cross/domain/orderbook"
	"cross/infra/logging"
	"cross/infra/metrics"
	"cross/infra/sequence"
	entrywal "cross/infra/wal/entry"
	exitwal "cross/infra/wal/exit"
)

/*
Cross owns all engine state. Every action runs to completion before the
next one is accepted: it is not safe for concurrent use.

Per accepted action:
- sequence it
- journal it (if a journal is wired)
- dispatch to the BookMap
- store the output lines (if a report store is wired)
*/
type Cross struct {
	books *orderbook.BookMap
	seq   *sequence.Sequencer

	journal *entrywal.WAL
	reports *exitwal.Store
	metrics *metrics.Metrics

	log  *zap.Logger
	errs *logging.ErrorSink
}

type Option func(*Cross)

// WithJournal appends accepted actions to w. Sequencing resumes after the
// last sequence already in the journal.
func WithJournal(w *entrywal.WAL) Option {
	return func(c *Cross) { c.journal = w }
}

func WithReports(s *exitwal.Store) Option {
	return func(c *Cross) { c.reports = s }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cross) { c.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cross) { c.log = l }
}

func New(opts ...Option) *Cross {
	c := &Cross{
		books: orderbook.NewBookMap(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	var after uint64
	if c.journal != nil {
		after = c.journal.LastSeq()
	}
	c.seq = sequence.New(after)
	c.errs = logging.NewErrorSink(c.log)
	return c
}

// Books exposes the engine state for inspection.
func (c *Cross) Books() *orderbook.BookMap {
	return c.books
}

// LastSeq is the sequence of the most recently accepted action.
func (c *Cross) LastSeq() uint64 {
	return c.seq.Last()
}

//
// ──────────────────────────────────────────────────────────
// Commands
// ──────────────────────────────────────────────────────────
//

// Action parses and executes one input line and returns its output lines.
// Malformed lines produce a single E line and change nothing.
func (c *Cross) Action(line string) []string {
	a, err := lines.Parse(line)
	if err != nil {
		c.reject(line, err)
		return []string{"E " + err.Error()}
	}
	if a.Kind == lines.Nop {
		return nil
	}
	return c.Execute(a)
}

// Execute runs an already parsed action.
func (c *Cross) Execute(a lines.Action) []string {
	seq := c.seq.Next()
	c.appendJournal(seq, a)
	out := c.apply(a)
	c.storeReport(seq, out)
	return out
}

// ExecuteAll runs every line of the batch in order and concatenates the
// output.
func (c *Cross) ExecuteAll(batch []string) []string {
	var out []string
	for _, line := range batch {
		out = append(out, c.Action(line)...)
	}
	return out
}

// Run feeds every line of r through Action and writes the output lines to w.
func (c *Cross) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	out := bufio.NewWriter(w)

	n := 0
	for scanner.Scan() {
		n++
		for _, l := range c.Action(scanner.Text()) {
			if _, err := out.WriteString(l + "\n"); err != nil {
				return errors.Wrap(err, "write output")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "read input after line %d", n)
	}
	if err := out.Flush(); err != nil {
		return errors.Wrap(err, "flush output")
	}

	c.log.Info("input drained",
		zap.Int("lines", n),
		zap.Uint64("last_seq", c.seq.Last()),
		zap.Int("books", c.books.Len()),
	)
	return nil
}

// apply dispatches a to the books. Journal and report store are the
// caller's business.
func (c *Cross) apply(a lines.Action) []string {
	var res orderbook.Result
	var out []string
	switch a.Kind {
	case lines.Place:
		res = c.books.HandleOrder(a.Order)
		out = res.Lines()
	case lines.Cancel:
		res = c.books.CancelOrder(a.OID)
		out = res.Lines()
	case lines.Print:
		out = c.books.Serialize()
	default:
		panic(errors.AssertionFailedf("action kind %s cannot be applied", a.Kind))
	}

	if res.Type == orderbook.Error {
		c.reject(a.String(), res.Err)
	}
	c.observe(a.Kind, res)
	return out
}

//
// ──────────────────────────────────────────────────────────
// Side effects
// ──────────────────────────────────────────────────────────
//

func (c *Cross) appendJournal(seq uint64, a lines.Action) {
	if c.journal == nil {
		return
	}
	typ, ok := recordType(a.Kind)
	if !ok {
		return
	}
	if err := c.journal.Append(entrywal.NewRecord(typ, seq, encodeAction(a))); err != nil {
		c.log.Warn("journal append failed", zap.Uint64("seq", seq), zap.Error(err))
	}
}

func (c *Cross) storeReport(seq uint64, out []string) {
	if c.reports == nil {
		return
	}
	if err := c.reports.Put(seq, out); err != nil {
		c.log.Warn("report store failed", zap.Uint64("seq", seq), zap.Error(err))
	}
}

func (c *Cross) reject(line string, err error) {
	c.errs.Report("rejected action: "+line, err)
	if c.metrics != nil {
		c.metrics.Rejects.WithLabelValues(rejectReason(err)).Inc()
	}
}

func (c *Cross) observe(k lines.Kind, res orderbook.Result) {
	if c.metrics == nil {
		return
	}
	c.metrics.Actions.WithLabelValues(k.String()).Inc()
	c.metrics.Fills.Add(float64(len(res.Fills)))
	c.metrics.Books.Set(float64(c.books.Len()))
	c.metrics.Resting.Set(float64(c.books.OrderCount()))
}

// rejectReason maps an error onto the rejects_total label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, orderbook.ErrDuplicateOrderID):
		return "duplicate_oid"
	case errors.Is(err, orderbook.ErrUnknownOrderID):
		return "unknown_oid"
	case errors.Is(err, lines.ErrInvalidOID):
		return "invalid_oid"
	case errors.Is(err, lines.ErrInvalidSymbol), errors.Is(err, orderbook.ErrInvalidSymbol):
		return "invalid_symbol"
	case errors.Is(err, lines.ErrInvalidSide), errors.Is(err, orderbook.ErrInvalidSide):
		return "invalid_side"
	case errors.Is(err, lines.ErrInvalidQuantity), errors.Is(err, orderbook.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, lines.ErrInvalidPrice), errors.Is(err, orderbook.ErrInvalidPrice):
		return "invalid_price"
	default:
		return "invalid_action"
	}
}
