package script

import (
	"fmt"
	"time"
)

// evalResult passes evaluation output from the worker goroutine.
type evalResult struct {
	program *Program
	errors  []EvalError
	err     error
}

// wait waits for a result from ch, but returns a timeout error if the
// evaluation exceeds the engine timeout. Results of evaluations that were
// superseded by a newer Evaluate call are discarded.
//
// On timeout the goroutine may still be running; its result lands in the
// buffered channel and is dropped.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*Program, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.program, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", e.timeout)
	}
}
