package compose

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

// Report collects the per-label outcome of a bulk lifecycle operation.
//
// It is safe for concurrent use so parallel fan-out can record into it.
type Report struct {
	action Action

	mu       sync.Mutex
	outcomes map[string]error
	order    []string
}

// NewReport creates an empty report for action.
func NewReport(action Action) *Report {
	return &Report{
		action:   action,
		outcomes: map[string]error{},
	}
}

// Action returns the reported lifecycle action.
func (r *Report) Action() Action {
	return r.action
}

// Record stores the outcome for label. A nil err marks success.
func (r *Report) Record(label string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.outcomes[label]; !seen {
		r.order = append(r.order, label)
	}

	if err != nil {
		var actionErr *ActionError
		if !errors.As(err, &actionErr) {
			err = &ActionError{Label: label, Action: r.action, Err: err}
		}
	}

	r.outcomes[label] = err
}

// Labels returns every reported label in the order the outcomes were recorded.
func (r *Report) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.order)
}

// Len returns the number of reported labels.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.order)
}

// Outcome returns the recorded outcome for label.
//
// Returns:
//   - error: Nil on success, an *ActionError on failure.
//   - bool: False if label was not part of the operation.
func (r *Report) Outcome(label string) (err error, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err, ok = r.outcomes[label]

	return err, ok
}

// Succeeded returns the labels whose action completed, sorted.
func (r *Report) Succeeded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	succeeded := []string{}

	for label, err := range r.outcomes {
		if err == nil {
			succeeded = append(succeeded, label)
		}
	}

	slices.Sort(succeeded)

	return succeeded
}

// Failed returns the faults keyed by label.
func (r *Report) Failed() map[string]error {
	r.mu.Lock()
	defer r.mu.Unlock()

	failed := map[string]error{}

	for label, err := range r.outcomes {
		if err != nil {
			failed[label] = err
		}
	}

	return failed
}

// Err joins every recorded fault in label order, or returns nil when all succeeded.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}

	errs := make([]error, 0, len(failed))
	for _, label := range slices.Sorted(maps.Keys(failed)) {
		errs = append(errs, failed[label])
	}

	return errors.Join(errs...)
}
