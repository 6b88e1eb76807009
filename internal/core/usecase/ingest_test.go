package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

type repoFake struct {
	created   *domain.Ingestion
	statuses  []domain.IngestionStatus
	errorMsgs []string
	steps     []domain.StepRecord
	createErr error
	getErr    error
	updateErr error
}

func (f *repoFake) Create(_ context.Context, ing *domain.Ingestion) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *ing
	f.created = &copied
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Ingestion, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.created != nil && f.created.ID == id {
		copied := *f.created
		return &copied, nil
	}
	return &domain.Ingestion{ID: id, Filename: "pack.pdf", MimeType: "application/pdf", StoragePath: id + "_pack.pdf"}, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.IngestionStatus, errMessage string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statuses = append(f.statuses, status)
	f.errorMsgs = append(f.errorMsgs, errMessage)
	return nil
}

func (f *repoFake) AppendStep(_ context.Context, _ string, record domain.StepRecord) error {
	f.steps = append(f.steps, record)
	return nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	content   string
	saveErr   error
	openErr   error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type queueFake struct {
	ingestionID string
	err         error
}

func (f *queueFake) PublishIngestionReceived(_ context.Context, ingestionID string) error {
	if f.err != nil {
		return f.err
	}
	f.ingestionID = ingestionID
	return nil
}

func (f *queueFake) SubscribeIngestionReceived(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

type trackerFake struct {
	states  map[domain.Step]domain.StepState
	forgets []string
}

func newTrackerFake() *trackerFake {
	return &trackerFake{states: map[domain.Step]domain.StepState{}}
}

func (f *trackerFake) SetStep(_ string, step domain.Step, state domain.StepState) {
	f.states[step] = state
}

func (f *trackerFake) Snapshot(string) map[domain.Step]domain.StepState {
	return f.states
}

func (f *trackerFake) ForgetAfter(ingestionID string, _ time.Duration) {
	f.forgets = append(f.forgets, ingestionID)
}

func TestUploadSuccess(t *testing.T) {
	repo := &repoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	tracker := newTrackerFake()
	uc := NewIngestUseCase(repo, storage, queue, tracker)

	ing, err := uc.Upload(context.Background(), "doc pack 1.pdf", "application/pdf", 5, bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if ing.ID == "" {
		t.Fatalf("expected ingestion id")
	}
	if ing.Status != domain.StatusProcessing {
		t.Fatalf("status = %s, want processing", ing.Status)
	}
	if len(ing.Steps) != 1 || ing.Steps[0].Step != domain.StepUpload || ing.Steps[0].State != domain.StepCompleted {
		t.Fatalf("steps = %+v, want completed upload step", ing.Steps)
	}
	if repo.created == nil {
		t.Fatalf("expected repo.Create call")
	}
	if queue.ingestionID != ing.ID {
		t.Fatalf("queued id = %s, want %s", queue.ingestionID, ing.ID)
	}
	if !strings.Contains(storage.savedKey, "_doc_pack_1.pdf") {
		t.Fatalf("storage key = %s, want sanitized suffix", storage.savedKey)
	}
	if storage.savedBody != "hello" {
		t.Fatalf("saved body = %s", storage.savedBody)
	}
	if tracker.states[domain.StepUpload] != domain.StepCompleted {
		t.Fatalf("tracker upload state = %s", tracker.states[domain.StepUpload])
	}
}

func TestUploadQueueError(t *testing.T) {
	uc := NewIngestUseCase(&repoFake{}, &storageFake{}, &queueFake{err: errors.New("queue down")}, newTrackerFake())

	_, err := uc.Upload(context.Background(), "pack.pdf", "application/pdf", 1, bytes.NewBufferString("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish ingestion event") {
		t.Fatalf("err = %v, want publish error", err)
	}
}

func TestUploadStorageError(t *testing.T) {
	uc := NewIngestUseCase(&repoFake{}, &storageFake{saveErr: errors.New("disk full")}, &queueFake{}, newTrackerFake())

	_, err := uc.Upload(context.Background(), "pack.pdf", "application/pdf", 1, bytes.NewBufferString("x"))
	if err == nil || !strings.Contains(err.Error(), "save to object storage") {
		t.Fatalf("err = %v, want storage error", err)
	}
}
