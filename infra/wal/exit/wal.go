package exit

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

// -------------------- Record --------------------

// Report is the output one journaled action produced.
type Report struct {
	Seq   uint64
	Time  int64
	Lines []string
}

var errShortReport = errors.New("exit: truncated report")

// binary encoding: [time:8][count:4] then per line [len:4][bytes]
func encodeReport(r Report) []byte {
	size := 8 + 4
	for _, l := range r.Lines {
		size += 4 + len(l)
	}
	buf := make([]byte, 12, size)
	binary.BigEndian.PutUint64(buf[0:8], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[8:12], uint32(len(r.Lines)))
	for _, l := range r.Lines {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(l)))
		buf = append(buf, l...)
	}
	return buf
}

func decodeReport(seq uint64, b []byte) (Report, error) {
	if len(b) < 12 {
		return Report{}, errShortReport
	}
	r := Report{
		Seq:  seq,
		Time: int64(binary.BigEndian.Uint64(b[0:8])),
	}
	n := binary.BigEndian.Uint32(b[8:12])
	b = b[12:]
	r.Lines = make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		if len(b) < 4 {
			return Report{}, errShortReport
		}
		l := binary.BigEndian.Uint32(b[:4])
		b = b[4:]
		if uint32(len(b)) < l {
			return Report{}, errShortReport
		}
		r.Lines = append(r.Lines, string(b[:l]))
		b = b[l:]
	}
	return r, nil
}

// -------------------- Store --------------------

// Store keeps the output of every journaled action keyed by its sequence,
// so a run can be audited after the fact.
type Store struct {
	db   *pebble.DB
	sync bool
}

type Options struct {
	// Sync makes every Put durable before it returns.
	Sync bool
}

func Open(dir string, opts Options) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open report store %s", dir)
	}
	return &Store{db: db, sync: opts.Sync}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) writeOpts() *pebble.WriteOptions {
	if s.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// -------------------- API --------------------

// Put records the lines produced by action seq. A later Put for the same
// seq replaces the earlier one.
func (s *Store) Put(seq uint64, lines []string) error {
	rec := Report{Seq: seq, Time: time.Now().UnixNano(), Lines: lines}
	if err := s.db.Set(keyFor(seq), encodeReport(rec), s.writeOpts()); err != nil {
		return errors.Wrapf(err, "put report %d", seq)
	}
	return nil
}

// Get returns the report for seq. Missing reports yield pebble.ErrNotFound.
func (s *Store) Get(seq uint64) (Report, error) {
	val, closer, err := s.db.Get(keyFor(seq))
	if err != nil {
		return Report{}, err
	}
	defer closer.Close()

	return decodeReport(seq, val)
}

func (s *Store) Delete(seq uint64) error {
	return s.db.Delete(keyFor(seq), s.writeOpts())
}

// -------------------- Scan --------------------

// Scan visits every report in sequence order.
func (s *Store) Scan(fn func(Report) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			return err
		}
		rec, err := decodeReport(seq, iter.Value())
		if err != nil {
			return errors.Wrapf(err, "report %d", seq)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return iter.Error()
}

// -------------------- Helpers --------------------

const keyPrefix = "report/"

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf(keyPrefix+"%020d", seq))
}

func parseKey(b []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(bytes.TrimPrefix(b, []byte(keyPrefix))), "%d", &seq)
	return seq, err
}
