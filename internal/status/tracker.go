package status

import (
	"sync"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

// Tracker keeps per-ingestion step states in memory for fast status polls.
// Durable step history lives in the ingestion repository; the tracker only
// answers "where is it right now" without a database round trip.
type Tracker struct {
	mu         sync.RWMutex
	ingestions map[string]map[domain.Step]domain.StepState
}

func NewTracker() *Tracker {
	return &Tracker{ingestions: make(map[string]map[domain.Step]domain.StepState)}
}

func (t *Tracker) SetStep(ingestionID string, step domain.Step, state domain.StepState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	steps, ok := t.ingestions[ingestionID]
	if !ok {
		steps = newStepMap()
		t.ingestions[ingestionID] = steps
	}
	steps[step] = state
}

// Snapshot returns a copy of every pipeline step's state. Unknown ingestions
// report all steps pending.
func (t *Tracker) Snapshot(ingestionID string) map[domain.Step]domain.StepState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := newStepMap()
	if steps, ok := t.ingestions[ingestionID]; ok {
		for step, state := range steps {
			out[step] = state
		}
	}
	return out
}

// Forget drops an ingestion's in-memory state once processing has settled.
func (t *Tracker) Forget(ingestionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ingestions, ingestionID)
}

// ForgetAfter schedules Forget so polling clients still see the terminal
// snapshot for a while. A non-positive delay drops the state immediately.
func (t *Tracker) ForgetAfter(ingestionID string, after time.Duration) {
	if after <= 0 {
		t.Forget(ingestionID)
		return
	}
	time.AfterFunc(after, func() {
		t.Forget(ingestionID)
	})
}

func newStepMap() map[domain.Step]domain.StepState {
	steps := make(map[domain.Step]domain.StepState, len(domain.PipelineSteps()))
	for _, step := range domain.PipelineSteps() {
		steps[step] = domain.StepPending
	}
	return steps
}
