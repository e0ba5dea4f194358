package crawler

import (
	"sync"

	"webscout/internal/model"
)

// frontier is the shared queue of pending crawl tasks.
//
// It blocks consumers while work may still arrive and unblocks everyone
// once the crawl has drained: a task counts as in flight from Push until
// the worker that popped it calls Done, so "queue empty" alone never
// terminates the crawl while a worker might still push children.
//
// Design decision: A condition variable over a slice, rather than a
// channel, because the queue is unbounded and needs a second wake
// condition (drained) that channels don't express cleanly.
type frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	// queue holds tasks not yet claimed by a worker.
	queue []model.CrawlTask

	// inFlight counts tasks pushed but not yet Done.
	inFlight int

	// closed stops the frontier: Pop returns false and Push drops tasks.
	closed bool
}

// newFrontier creates an empty frontier.
func newFrontier() *frontier {
	f := &frontier{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Push enqueues a task. Tasks pushed after Close are dropped.
func (f *frontier) Push(task model.CrawlTask) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.queue = append(f.queue, task)
	f.inFlight++
	f.cond.Signal()
}

// Pop blocks until a task is available, the crawl drains, or the
// frontier is closed. The second return is false when no more tasks
// will ever arrive and the worker should exit.
func (f *frontier) Pop() (model.CrawlTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) == 0 && f.inFlight > 0 && !f.closed {
		f.cond.Wait()
	}

	if len(f.queue) == 0 || f.closed {
		return model.CrawlTask{}, false
	}

	task := f.queue[0]
	f.queue = f.queue[1:]
	return task, true
}

// Done marks one previously popped task as fully processed, including
// any pushes of its children. When the last in-flight task finishes,
// all blocked workers are released.
func (f *frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inFlight--
	if f.inFlight == 0 {
		f.cond.Broadcast()
	}
}

// Close aborts the crawl: queued tasks are discarded and all blocked
// workers are released. Used for context cancellation.
func (f *frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.queue = nil
	f.cond.Broadcast()
}
