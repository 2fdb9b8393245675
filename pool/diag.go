// File: pool/diag.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded diagnostics ring recording the pool's most recent operations, for
// Stats-style introspection. The pool is single-owner by contract
// (see doc.go), so a plain FIFO queue with no locking is the right weight
// here.

package pool

import "github.com/eapache/queue"

// opRecord describes one completed pool operation.
type opRecord struct {
	Op   string
	OK   bool
	Head int
	Tail int
}

// opLog is a bounded FIFO of recent opRecords.
type opLog struct {
	q   *queue.Queue
	cap int
}

func newOpLog(capacity int) *opLog {
	return &opLog{q: queue.New(), cap: capacity}
}

func (l *opLog) push(r opRecord) {
	if l == nil {
		return
	}
	l.q.Add(r)
	for l.q.Length() > l.cap {
		l.q.Remove()
	}
}

// records returns a snapshot of the retained operations, oldest first.
func (l *opLog) records() []opRecord {
	if l == nil {
		return nil
	}
	out := make([]opRecord, l.q.Length())
	for i := range out {
		out[i] = l.q.Get(i).(opRecord)
	}
	return out
}
