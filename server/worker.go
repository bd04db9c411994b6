package server

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/daniel-ostrowski/magic-number-executer/pkg/bytecode"
	"github.com/daniel-ostrowski/magic-number-executer/vm"
)

// runStepLimit bounds programs run from the editor.
const runStepLimit = 100000

// ErrWorkerStopped is returned by Do once Stop has been called.
var ErrWorkerStopped = errors.New("worker stopped")

// runRequest represents a unit of work to be executed on the worker goroutine.
type runRequest struct {
	fn   func() any
	done chan runResponse
}

type runResponse struct {
	value any
	err   error
}

// Worker runs jobs one at a time on a dedicated goroutine.
type Worker struct {
	requests chan runRequest
	quit     chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a Worker and starts the processing goroutine.
func NewWorker() *Worker {
	w := &Worker{
		requests: make(chan runRequest, 16),
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	for {
		select {
		case req := <-w.requests:
			req.done <- w.execute(req.fn)
		case <-w.quit:
			return
		}
	}
}

// execute runs fn, recovering from panics.
func (w *Worker) execute(fn func() any) (resp runResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp.err = fmt.Errorf("%v", r)
		}
	}()
	resp.value = fn()
	return resp
}

// Do submits fn and blocks until it completes. Returns the result and any
// error (including panics).
func (w *Worker) Do(fn func() any) (any, error) {
	req := runRequest{
		fn:   fn,
		done: make(chan runResponse, 1),
	}
	select {
	case w.requests <- req:
	case <-w.quit:
		return nil, ErrWorkerStopped
	}
	select {
	case resp := <-req.done:
		return resp.value, resp.err
	case <-w.quit:
		return nil, ErrWorkerStopped
	}
}

// Stop shuts down the worker goroutine. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}

// RunResult is the reply to the magicnum.run command.
type RunResult struct {
	Output string   `json:"output"`
	Stack  []string `json:"stack"`
	Steps  int      `json:"steps"`
	Error  string   `json:"error,omitempty"`
}

// runProgram executes p in a fresh session with scripted input.
func runProgram(p *bytecode.Program, lines []string) RunResult {
	var out bytes.Buffer
	m := vm.New(p, vm.Options{
		Input:    vm.NewScriptedInput(lines...),
		Output:   &out,
		MaxSteps: runStepLimit,
	})
	err := m.Run()

	result := RunResult{Output: out.String(), Steps: m.Steps(), Stack: []string{}}
	for _, v := range m.Stack() {
		result.Stack = append(result.Stack, vm.FormatFloat(v))
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
