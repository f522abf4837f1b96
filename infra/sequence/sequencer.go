package sequence

// Sequencer numbers actions in the order they are accepted. Sequence 0 is
// never issued, so it can mean "nothing yet".
//
// The engine is single-writer; Sequencer is not safe for concurrent use.
type Sequencer struct {
	last uint64
}

// New creates a sequencer whose next value is after+1.
func New(after uint64) *Sequencer {
	return &Sequencer{last: after}
}

// Next issues the next sequence number.
func (s *Sequencer) Next() uint64 {
	s.last++
	return s.last
}

// Last returns the most recently issued number.
func (s *Sequencer) Last() uint64 {
	return s.last
}

// ResumeAfter moves the sequencer past v. It never moves backwards.
func (s *Sequencer) ResumeAfter(v uint64) {
	if v > s.last {
		s.last = v
	}
}
