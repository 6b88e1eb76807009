package status

import (
	"sync"
	"testing"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

func TestSnapshotUnknownIngestionAllPending(t *testing.T) {
	tr := NewTracker()
	snap := tr.Snapshot("missing")
	if len(snap) != len(domain.PipelineSteps()) {
		t.Fatalf("snapshot has %d steps, want %d", len(snap), len(domain.PipelineSteps()))
	}
	for step, state := range snap {
		if state != domain.StepPending {
			t.Errorf("step %q = %q, want pending", step, state)
		}
	}
}

func TestSetStepTransitions(t *testing.T) {
	tr := NewTracker()
	tr.SetStep("ing-1", domain.StepUpload, domain.StepCompleted)
	tr.SetStep("ing-1", domain.StepOCR, domain.StepProcessing)

	snap := tr.Snapshot("ing-1")
	if snap[domain.StepUpload] != domain.StepCompleted {
		t.Errorf("upload = %q, want completed", snap[domain.StepUpload])
	}
	if snap[domain.StepOCR] != domain.StepProcessing {
		t.Errorf("ocr = %q, want processing", snap[domain.StepOCR])
	}
	if snap[domain.StepFormGrouping] != domain.StepPending {
		t.Errorf("form_grouping = %q, want pending", snap[domain.StepFormGrouping])
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.SetStep("ing-1", domain.StepUpload, domain.StepCompleted)

	snap := tr.Snapshot("ing-1")
	snap[domain.StepUpload] = domain.StepError

	if got := tr.Snapshot("ing-1")[domain.StepUpload]; got != domain.StepCompleted {
		t.Fatalf("tracker state mutated through snapshot: %q", got)
	}
}

func TestForget(t *testing.T) {
	tr := NewTracker()
	tr.SetStep("ing-1", domain.StepOCR, domain.StepError)
	tr.Forget("ing-1")
	if got := tr.Snapshot("ing-1")[domain.StepOCR]; got != domain.StepPending {
		t.Fatalf("ocr after Forget = %q, want pending", got)
	}
}

func TestForgetAfterDropsStateLater(t *testing.T) {
	tr := NewTracker()
	tr.SetStep("ing-1", domain.StepFormGrouping, domain.StepCompleted)

	tr.ForgetAfter("ing-1", 10*time.Millisecond)
	if got := tr.Snapshot("ing-1")[domain.StepFormGrouping]; got != domain.StepCompleted {
		t.Fatalf("state dropped before the delay elapsed: %q", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tr.Snapshot("ing-1")[domain.StepFormGrouping] == domain.StepPending {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("state still present after the forget delay")
}

func TestForgetAfterZeroDelayIsImmediate(t *testing.T) {
	tr := NewTracker()
	tr.SetStep("ing-1", domain.StepOCR, domain.StepError)
	tr.ForgetAfter("ing-1", 0)
	if got := tr.Snapshot("ing-1")[domain.StepOCR]; got != domain.StepPending {
		t.Fatalf("ocr after immediate forget = %q, want pending", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for _, step := range domain.PipelineSteps() {
				tr.SetStep("ing-1", step, domain.StepProcessing)
			}
		}()
		go func() {
			defer wg.Done()
			_ = tr.Snapshot("ing-1")
		}()
	}
	wg.Wait()
}
