// Package commandqueue is the web→radio command channel: an external
// collaborator (a web UI, a CLI) enqueues tagged commands; the radio loop
// drains at most one per cycle.
package commandqueue

import "github.com/maxrt101/life-monitor/pkg/network"

// Queue wraps a buffered channel of network.Command, giving external
// callers an Enqueue method instead of exposing the channel directly.
type Queue struct {
	ch chan network.Command
}

// New creates a Queue with the given buffer size. A size of 0 makes
// Enqueue block until the radio loop drains; callers pick what fits
// their deployment.
func New(size int) *Queue {
	return &Queue{ch: make(chan network.Command, size)}
}

// Enqueue submits a command for the radio loop to pick up on its next
// cycle. It blocks while the buffer is full. The caller never touches the
// radio side's registration context or persistence handle — the queue is
// the only channel between the two sides.
func (q *Queue) Enqueue(cmd network.Command) {
	q.ch <- cmd
}

// TryDrain removes at most one queued command, non-blocking. It returns
// false if the queue was empty, matching the "drains at most one queued
// command... (non-blocking)" rule every radio-loop iteration follows.
func (q *Queue) TryDrain() (network.Command, bool) {
	select {
	case cmd := <-q.ch:
		return cmd, true
	default:
		return network.Command{}, false
	}
}
