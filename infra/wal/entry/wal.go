package entry

import (
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
)

type Config struct {
	Dir         string
	SegmentSize int64
	// SyncEachAppend fsyncs after every record.
	SyncEachAppend bool
}

const defaultSegmentSize = 4 << 20

// WAL is the append-only action journal. Every Open starts a new segment
// after the highest one on disk, so earlier segments are never rewritten.
type WAL struct {
	dir     string
	segSize int64
	sync    bool

	current *segment
	lastSeq uint64
}

func Open(cfg Config) (*WAL, error) {
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = defaultSegmentSize
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "journal dir %s", cfg.Dir)
	}

	files, err := segments(cfg.Dir)
	if err != nil {
		return nil, err
	}
	next := 0
	var lastSeq uint64
	for _, path := range files {
		if idx, ok := segmentIndex(path); ok && idx >= next {
			next = idx + 1
		}
		maxSeq, err := maxSeqInSegment(path)
		if err != nil {
			return nil, err
		}
		if maxSeq > lastSeq {
			lastSeq = maxSeq
		}
	}

	seg, err := openSegment(cfg.Dir, next)
	if err != nil {
		return nil, err
	}

	return &WAL{
		dir:     cfg.Dir,
		segSize: cfg.SegmentSize,
		sync:    cfg.SyncEachAppend,
		current: seg,
		lastSeq: lastSeq,
	}, nil
}

// LastSeq is the highest sequence written to the journal so far,
// including segments left by earlier runs.
func (w *WAL) LastSeq() uint64 {
	return w.lastSeq
}

func (w *WAL) Append(r *Record) error {
	if r.Seq <= w.lastSeq {
		return errors.Newf("journal: seq %d not after %d", r.Seq, w.lastSeq)
	}
	if len(r.Data) > maxPayload {
		return errors.Newf("journal: payload of %d bytes", len(r.Data))
	}
	payloadLen := uint32(len(r.Data))

	buf := make([]byte, headerSize+payloadLen+crcSize)
	buf[0] = byte(r.Type)
	binary.BigEndian.PutUint64(buf[1:9], r.Seq)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[17:21], payloadLen)
	copy(buf[headerSize:], r.Data)

	crc := checksum(buf[:headerSize+payloadLen])
	binary.BigEndian.PutUint32(buf[headerSize+payloadLen:], crc)

	if err := w.current.append(buf); err != nil {
		return errors.Wrap(err, "journal append")
	}
	w.lastSeq = r.Seq
	if w.sync {
		if err := w.current.sync(); err != nil {
			return errors.Wrap(err, "journal sync")
		}
	}

	if w.current.offset >= w.segSize {
		return w.rotate()
	}
	return nil
}

func (w *WAL) rotate() error {
	if err := w.current.sync(); err != nil {
		return errors.Wrap(err, "journal sync")
	}
	_ = w.current.close()

	seg, err := openSegment(w.dir, w.current.index+1)
	if err != nil {
		return err
	}
	w.current = seg
	return nil
}

func (w *WAL) Sync() error {
	return w.current.sync()
}

func (w *WAL) Close() error {
	if err := w.current.sync(); err != nil {
		_ = w.current.close()
		return errors.Wrap(err, "journal sync")
	}
	return w.current.close()
}
