package service

import (
	"go.uber.org/zap"

	entrywal "cross/infra/wal/entry"
)

/*
ReplayJournal re-executes the journal in dir against c and passes the
output of every record to emit.

IMPORTANT:
- c should be fresh: replay re-places every order
- replayed actions are NOT journaled again
- stored reports are left as the original run wrote them
- sequencing resumes after the last replayed record
*/
func ReplayJournal(dir string, c *Cross, emit func(seq uint64, out []string)) (uint64, error) {
	lastSeq, err := entrywal.Replay(dir, func(rec *entrywal.Record) error {
		a, err := decodeAction(rec)
		if err != nil {
			return err
		}
		c.seq.ResumeAfter(rec.Seq)
		out := c.apply(a)
		if emit != nil {
			emit(rec.Seq, out)
		}
		return nil
	})
	c.seq.ResumeAfter(lastSeq)
	if err != nil {
		return lastSeq, err
	}

	c.log.Info("journal replay completed", zap.String("dir", dir), zap.Uint64("last_seq", lastSeq))
	return lastSeq, nil
}
