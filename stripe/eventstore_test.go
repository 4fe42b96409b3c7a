package stripe

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestMemoryEventStore(t *testing.T) {
	c := qt.New(t)

	store := NewMemoryEventStore(time.Hour)
	c.Assert(store.EventExists("evt_1"), qt.IsFalse)

	c.Assert(store.MarkProcessed("evt_1"), qt.IsNil)
	c.Assert(store.EventExists("evt_1"), qt.IsTrue)
	c.Assert(store.EventExists("evt_2"), qt.IsFalse)
	c.Assert(store.Size(), qt.Equals, 1)

	c.Assert(store.MarkProcessed("evt_2"), qt.IsNil)
	c.Assert(store.Size(), qt.Equals, 2)
}
