package analyzer

import (
	"container/list"
	"time"
)

type record struct {
	origin     int
	observedAt time.Time
}

// Window keeps the origins observed during the trailing length of time. The
// newest record is at the front of the list, the oldest at the back.
type Window struct {
	length  time.Duration
	records *list.List
}

func NewWindow(length time.Duration) *Window {
	return &Window{length: length, records: list.New()}
}

// Observe records origin at time now, then evicts what fell out of the window.
func (w *Window) Observe(origin int, now time.Time) {
	w.records.PushFront(record{origin: origin, observedAt: now})
	w.Evict(now)
}

// Evict drops records older than the window length. A record exactly as old as
// the window is kept.
func (w *Window) Evict(now time.Time) {
	for e := w.records.Back(); e != nil; e = w.records.Back() {
		if now.Sub(e.Value.(record).observedAt) <= w.length {
			return
		}
		w.records.Remove(e)
	}
}

// Counts evicts stale records and returns, for every id in 0..n-1, how many
// records of that id are in the window.
func (w *Window) Counts(n int, now time.Time) []int {
	w.Evict(now)
	counts := make([]int, n)
	for e := w.records.Front(); e != nil; e = e.Next() {
		origin := e.Value.(record).origin
		if origin >= 0 && origin < n {
			counts[origin]++
		}
	}
	return counts
}

func (w *Window) Len() int {
	return w.records.Len()
}

// Reset discards every record.
func (w *Window) Reset() {
	w.records.Init()
}
