package stats

// Record is the internal, mutable representation of a single
// instrumented channel's statistics. Only the collator goroutine ever
// mutates a Record; every other reader works from a Snapshot copy.
type Record struct {
	ID            string
	Label         string
	Kind          Kind
	State         State
	SentCount     uint64
	ReceivedCount uint64
	TypeName      string
	TypeSize      uint64
}

// Queued returns sent-received, saturating at zero (I1 guarantees this
// never actually saturates in practice, but the collator's update order
// briefly allows a read between two individually-applied counter
// increments, so the defensive subtraction stays even though it is
// never expected to bite).
func (r *Record) Queued() uint64 {
	if r.ReceivedCount > r.SentCount {
		return 0
	}
	return r.SentCount - r.ReceivedCount
}

// TotalBytes returns sent * typeSize.
func (r *Record) TotalBytes() uint64 {
	return r.SentCount * r.TypeSize
}

// QueuedBytes returns queued * typeSize.
func (r *Record) QueuedBytes() uint64 {
	return r.Queued() * r.TypeSize
}

func (r *Record) updateState() {
	if r.State.IsTerminal() {
		return
	}
	if r.SentCount > r.ReceivedCount {
		r.State = Full
	} else {
		r.State = Active
	}
}

// clone returns a value copy suitable for inclusion in a Snapshot.
func (r *Record) clone() Record {
	return *r
}
