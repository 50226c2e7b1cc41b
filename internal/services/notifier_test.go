package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/realtime"
)

type captureEmitter struct {
	messages []realtime.SSEMessage
}

func (c *captureEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	c.messages = append(c.messages, msg)
}

func TestJobNotifierLifecycle(t *testing.T) {
	emitter := &captureEmitter{}
	notifier := NewJobNotifier(emitter)
	examinerID := uuid.New()
	job := &types.JobRun{ID: uuid.New(), JobType: types.JobTypeReportGenerate}

	notifier.JobCreated(examinerID, job)
	notifier.JobProgress(examinerID, job, "render", 40, "rendering chart")
	notifier.JobFailed(examinerID, job, "upload", "bucket unavailable")
	notifier.JobDone(examinerID, job)

	if len(emitter.messages) != 4 {
		t.Fatalf("expected 4 emitted messages, got %d", len(emitter.messages))
	}
	wantEvents := []realtime.SSEEvent{
		realtime.SSEEventJobCreated,
		realtime.SSEEventJobProgress,
		realtime.SSEEventJobFailed,
		realtime.SSEEventJobDone,
	}
	for i, msg := range emitter.messages {
		if msg.Channel != examinerID.String() {
			t.Errorf("message %d channel = %q, want examiner id", i, msg.Channel)
		}
		if msg.Event != wantEvents[i] {
			t.Errorf("message %d event = %q, want %q", i, msg.Event, wantEvents[i])
		}
	}

	progress, ok := emitter.messages[1].Data.(map[string]any)
	if !ok {
		t.Fatalf("progress data type = %T", emitter.messages[1].Data)
	}
	if progress["stage"] != "render" {
		t.Errorf("progress stage = %v", progress["stage"])
	}
	if progress["progress"] != 40 {
		t.Errorf("progress value = %v", progress["progress"])
	}
	failed, ok := emitter.messages[2].Data.(map[string]any)
	if !ok {
		t.Fatalf("failure data type = %T", emitter.messages[2].Data)
	}
	if failed["error"] != "bucket unavailable" {
		t.Errorf("failure error = %v", failed["error"])
	}
}

func TestJobNotifierGuards(t *testing.T) {
	emitter := &captureEmitter{}
	notifier := NewJobNotifier(emitter)

	notifier.JobCreated(uuid.Nil, &types.JobRun{ID: uuid.New()})
	if len(emitter.messages) != 0 {
		t.Fatal("nil examiner id should not emit")
	}

	notifier.JobDone(uuid.New(), nil)
	if len(emitter.messages) != 1 {
		t.Fatalf("nil job should still emit, got %d messages", len(emitter.messages))
	}
	data, ok := emitter.messages[0].Data.(map[string]any)
	if !ok {
		t.Fatalf("data type = %T", emitter.messages[0].Data)
	}
	if data["job_id"] != uuid.Nil {
		t.Errorf("nil job id = %v, want uuid.Nil", data["job_id"])
	}
	if data["job_type"] != "" {
		t.Errorf("nil job type = %v, want empty", data["job_type"])
	}

	var nilNotifier JobNotifier = (*jobNotifier)(nil)
	nilNotifier.JobCreated(uuid.New(), nil)
}
