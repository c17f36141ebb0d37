package engine

import (
	"context"
	"sync"
	"time"

	"github.com/ironsheep/image-engine/internal/encode"
)

// State is the lifecycle position of a Task.
type State int

const (
	Queued State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Timing is the wall-clock time spent in each phase, in milliseconds. A
// phase that did nothing reports 0.
type Timing struct {
	ConvertMs float64 `json:"convertMs"`
	TaskMs    float64 `json:"taskMs"`
	EncodeMs  float64 `json:"encodeMs"`
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// Result is the output of a completed task.
type Result struct {
	Image  *encode.Output `json:"image"`
	Timing Timing         `json:"timing"`
}

// Task is one operation submitted to the engine.
type Task struct {
	ID uint64
	Op string

	mu        sync.Mutex
	state     State
	result    *Result
	err       error
	callbacks []func(*Result, error)
	done      chan struct{}
}

func newTask(id uint64, op string) *Task {
	return &Task{ID: id, Op: op, done: make(chan struct{})}
}

// State returns the current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed when the task completes or fails.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done. Abandoning a task
// through ctx does not stop it.
func (t *Task) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

// OnComplete registers cb to be called once with the outcome. If the task
// already finished, cb runs immediately on the calling goroutine.
func (t *Task) OnComplete(cb func(*Result, error)) {
	t.mu.Lock()
	if t.state == Completed || t.state == Failed {
		res, err := t.result, t.err
		t.mu.Unlock()
		cb(res, err)
		return
	}
	t.callbacks = append(t.callbacks, cb)
	t.mu.Unlock()
}

func (t *Task) start() {
	t.mu.Lock()
	t.state = Running
	t.mu.Unlock()
}

// finish records the outcome. A failed task never carries a result.
func (t *Task) finish(res *Result, err error) {
	t.mu.Lock()
	if err != nil {
		t.state, t.result, t.err = Failed, nil, err
	} else {
		t.state, t.result = Completed, res
	}
	cbs := t.callbacks
	t.callbacks = nil
	res, err = t.result, t.err
	t.mu.Unlock()

	close(t.done)
	for _, cb := range cbs {
		cb(res, err)
	}
}
