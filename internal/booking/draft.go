package booking

import "sync"

// DraftState is the lifecycle of an in-progress booking quote.
type DraftState string

const (
	DraftIdle    DraftState = "idle"
	DraftLoading DraftState = "loading"
	DraftLoaded  DraftState = "loaded"
	DraftFailed  DraftState = "failed"
)

// Draft holds a session's in-progress booking selection and its derived
// quote. Rapid re-selection races are guarded by a monotonically increasing
// generation counter: only the result carrying the latest generation may
// update the draft, so stale responses are discarded (last write wins).
type Draft struct {
	mu        sync.Mutex
	gen       uint64
	state     DraftState
	selection Selection
	quote     *Quote
	err       error
}

// NewDraft returns an idle draft.
func NewDraft() *Draft {
	return &Draft{state: DraftIdle}
}

// Begin records a new selection and moves the draft to loading. The returned
// generation must be presented to Complete or Fail.
func (d *Draft) Begin(sel Selection) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.state = DraftLoading
	d.selection = sel
	d.quote = nil
	d.err = nil
	return d.gen
}

// Complete stores the quote if gen is still current. Returns false when a
// newer selection has superseded it.
func (d *Draft) Complete(gen uint64, q Quote) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return false
	}
	d.state = DraftLoaded
	d.quote = &q
	d.err = nil
	return true
}

// Fail records a failure if gen is still current.
func (d *Draft) Fail(gen uint64, err error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return false
	}
	d.state = DraftFailed
	d.quote = nil
	d.err = err
	return true
}

// Reset returns the draft to idle, invalidating any outstanding generation.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.state = DraftIdle
	d.quote = nil
	d.err = nil
}

// Snapshot returns the current state. The quote is a copy; callers cannot
// mutate the draft through it.
func (d *Draft) Snapshot() (DraftState, *Quote, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quote == nil {
		return d.state, nil, d.err
	}
	q := *d.quote
	return d.state, &q, d.err
}

// Selection returns the most recently begun selection.
func (d *Draft) Selection() Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection
}
