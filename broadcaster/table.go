package broadcaster

// SuppressionTable records, for every peer id in 0..N-1, the sequence value the
// receive path stored the last time it accepted a message from that peer.
type SuppressionTable struct {
	entries []entry
}

type entry struct {
	sequence int64
	set      bool
}

func NewSuppressionTable(n int) SuppressionTable {
	return SuppressionTable{entries: make([]entry, n)}
}

func (t SuppressionTable) Len() int {
	return len(t.entries)
}

// InRange reports whether id belongs to the configured id space.
func (t SuppressionTable) InRange(id int64) bool {
	return id >= 0 && id < int64(len(t.entries))
}

// Lookup returns the stored sequence for id and whether one was ever stored.
func (t SuppressionTable) Lookup(id int64) (int64, bool) {
	if !t.InRange(id) {
		return 0, false
	}
	e := t.entries[id]
	return e.sequence, e.set
}

// Suppresses reports whether a message from id carrying sequence must be
// discarded: a sequence is new only if nothing is stored yet or it is strictly
// smaller than the stored value.
func (t SuppressionTable) Suppresses(id, sequence int64) bool {
	last, ok := t.Lookup(id)
	return ok && sequence >= last
}

func (t SuppressionTable) store(id, sequence int64) {
	t.entries[id] = entry{sequence: sequence, set: true}
}

func (t SuppressionTable) increment(id int64) int64 {
	t.entries[id].sequence++
	return t.entries[id].sequence
}

func (t SuppressionTable) clone() SuppressionTable {
	c := SuppressionTable{entries: make([]entry, len(t.entries))}
	copy(c.entries, t.entries)
	return c
}
