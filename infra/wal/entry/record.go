package entry

import "time"

// RecordType says which action a journal record holds.
type RecordType uint8

const (
	RecordPlace RecordType = iota + 1
	RecordCancel
	RecordPrint
)

func (t RecordType) String() string {
	switch t {
	case RecordPlace:
		return "place"
	case RecordCancel:
		return "cancel"
	case RecordPrint:
		return "print"
	default:
		return "unknown"
	}
}

// Record is one accepted action. Data is opaque to the journal.
type Record struct {
	Type RecordType
	Seq  uint64
	Time int64
	Data []byte
}

func NewRecord(t RecordType, seq uint64, data []byte) *Record {
	return &Record{
		Type: t,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Data: data,
	}
}

// Frame:
// [type:1][seq:8][time:8][len:4][payload][crc:4]
// The crc covers header and payload.
const (
	headerSize = 1 + 8 + 8 + 4
	crcSize    = 4

	// maxPayload guards against reading a garbage length as an allocation.
	maxPayload = 1 << 20
)
