package broadcaster

import "testing"

func TestSuppressionTableStartsUnset(t *testing.T) {
	table := NewSuppressionTable(4)
	if table.Len() != 4 {
		t.Fatalf("expected 4 entries, actual %d", table.Len())
	}
	for id := int64(0); id < 4; id++ {
		if _, set := table.Lookup(id); set {
			t.Fatalf("entry %d should be unset", id)
		}
		if table.Suppresses(id, 0) {
			t.Fatalf("an unset entry must not suppress, id %d", id)
		}
	}
}

func TestSuppressionTableBounds(t *testing.T) {
	table := NewSuppressionTable(2)
	for _, id := range []int64{-1, 2} {
		if table.InRange(id) {
			t.Fatalf("id %d should be out of range", id)
		}
		if _, set := table.Lookup(id); set {
			t.Fatalf("lookup of id %d should report unset", id)
		}
	}
}

func TestSuppressionTableClone(t *testing.T) {
	table := NewSuppressionTable(2)
	table.store(1, 3)
	c := table.clone()
	table.increment(1)
	if last, _ := c.Lookup(1); last != 3 {
		t.Fatalf("clone changed along with the table it was taken from: %d", last)
	}
	if last, _ := table.Lookup(1); last != 4 {
		t.Fatalf("expected 4 after increment, actual %d", last)
	}
}
