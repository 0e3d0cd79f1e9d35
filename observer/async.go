package observer

import (
	"sync"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/solver"
)

// Async hands snapshots to another observer on its own goroutine. Render
// never blocks: when the observer is still busy the pending snapshot is
// replaced by the newer one.
type Async struct {
	next solver.Observer
	slot chan maze.Snapshot
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewAsync starts the goroutine feeding next. Close stops it.
func NewAsync(next solver.Observer) *Async {
	a := &Async{
		next: next,
		slot: make(chan maze.Snapshot, 1),
		done: make(chan struct{}),
	}
	a.wg.Add(1)
	go a.loop()
	return a
}

// Render queues s, dropping an older snapshot not yet rendered.
func (a *Async) Render(s maze.Snapshot) {
	for {
		select {
		case a.slot <- s:
			return
		default:
		}
		select {
		case <-a.slot:
		default:
		}
	}
}

// Close stops the goroutine and waits for the frame in flight.
// Snapshots still queued are dropped.
func (a *Async) Close() {
	a.once.Do(func() {
		close(a.done)
	})
	a.wg.Wait()
}

func (a *Async) loop() {
	defer a.wg.Done()
	for {
		select {
		case <-a.done:
			return
		case s := <-a.slot:
			a.next.Render(s)
		}
	}
}

// Multi renders a snapshot on each of its observers in order.
type Multi []solver.Observer

// Render implements solver.Observer.
func (m Multi) Render(s maze.Snapshot) {
	for _, o := range m {
		if o != nil {
			o.Render(s)
		}
	}
}
