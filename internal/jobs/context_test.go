package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/ctxutil"
)

type recordedEvent struct {
	kind  string
	stage string
	msg   string
}

type recordingNotifier struct {
	events []recordedEvent
}

func (n *recordingNotifier) JobCreated(examinerID uuid.UUID, job *types.JobRun) {
	n.events = append(n.events, recordedEvent{kind: "created"})
}

func (n *recordingNotifier) JobProgress(examinerID uuid.UUID, job *types.JobRun, stage string, progress int, message string) {
	n.events = append(n.events, recordedEvent{kind: "progress", stage: stage, msg: message})
}

func (n *recordingNotifier) JobFailed(examinerID uuid.UUID, job *types.JobRun, stage string, errorMessage string) {
	n.events = append(n.events, recordedEvent{kind: "failed", stage: stage, msg: errorMessage})
}

func (n *recordingNotifier) JobDone(examinerID uuid.UUID, job *types.JobRun) {
	n.events = append(n.events, recordedEvent{kind: "done"})
}

func newTestJob(payload string) *types.JobRun {
	return &types.JobRun{
		ID:              uuid.New(),
		OwnerExaminerID: uuid.New(),
		JobType:         types.JobTypeReportGenerate,
		Status:          types.JobStatusRunning,
		Stage:           "queued",
		Payload:         datatypes.JSON([]byte(payload)),
	}
}

func TestContextPayloadDecoding(t *testing.T) {
	assessmentID := uuid.New()
	job := newTestJob(`{"assessment_id":"` + assessmentID.String() + `","note":"x"}`)

	jc := NewContext(context.Background(), nil, job, nil, nil)

	got, ok := jc.PayloadUUID("assessment_id")
	if !ok || got != assessmentID {
		t.Fatalf("PayloadUUID() = (%s, %v), want (%s, true)", got, ok, assessmentID)
	}
	if _, ok := jc.PayloadUUID("missing"); ok {
		t.Error("missing key should report false")
	}
	if _, ok := jc.PayloadUUID("note"); ok {
		t.Error("non-uuid value should report false")
	}
}

func TestContextToleratesMalformedPayload(t *testing.T) {
	job := newTestJob(`{not json`)
	jc := NewContext(context.Background(), nil, job, nil, nil)
	if jc.Payload() == nil {
		t.Fatal("Payload() must never return nil")
	}
	if len(jc.Payload()) != 0 {
		t.Fatalf("malformed payload should decode empty, got %v", jc.Payload())
	}
}

func TestContextRestoresTraceData(t *testing.T) {
	job := newTestJob(`{"trace_id":"trace-1","request_id":"req-1"}`)
	jc := NewContext(context.Background(), nil, job, nil, nil)

	td := ctxutil.GetTraceData(jc.Ctx)
	if td == nil {
		t.Fatal("trace data should be restored from the payload")
	}
	if td.TraceID != "trace-1" || td.RequestID != "req-1" {
		t.Fatalf("trace data = %+v", td)
	}
}

func TestContextLifecycleTransitions(t *testing.T) {
	notifier := &recordingNotifier{}
	job := newTestJob(`{}`)
	jc := NewContext(context.Background(), nil, job, nil, notifier)

	jc.Progress("render", 40, "Rendering")
	if job.Stage != "render" || job.Progress != 40 || job.Message != "Rendering" {
		t.Fatalf("after Progress: stage=%s progress=%d message=%q", job.Stage, job.Progress, job.Message)
	}
	if job.HeartbeatAt == nil || time.Since(*job.HeartbeatAt) > time.Minute {
		t.Error("Progress should refresh the heartbeat")
	}

	jc.Succeed("done", map[string]any{"ok": true})
	if job.Status != types.JobStatusSucceeded {
		t.Fatalf("after Succeed: status=%s", job.Status)
	}
	if job.Progress != 100 || job.Stage != "done" {
		t.Errorf("after Succeed: progress=%d stage=%s", job.Progress, job.Stage)
	}
	if len(job.Result) == 0 {
		t.Error("Succeed should persist the result document")
	}

	wantKinds := []string{"progress", "done"}
	if len(notifier.events) != len(wantKinds) {
		t.Fatalf("events = %+v", notifier.events)
	}
	for i, kind := range wantKinds {
		if notifier.events[i].kind != kind {
			t.Errorf("event %d = %q, want %q", i, notifier.events[i].kind, kind)
		}
	}
}

func TestContextFail(t *testing.T) {
	notifier := &recordingNotifier{}
	job := newTestJob(`{}`)
	jc := NewContext(context.Background(), nil, job, nil, notifier)

	jc.Fail("upload", errFromRecover("boom"))

	if job.Status != types.JobStatusFailed {
		t.Fatalf("status = %s, want failed", job.Status)
	}
	if job.Stage != "upload" {
		t.Errorf("stage = %s", job.Stage)
	}
	if job.Error == "" || job.LastErrorAt == nil {
		t.Error("Fail should record the error and its timestamp")
	}
	if job.LockedAt != nil {
		t.Error("Fail should clear the lock")
	}
	if len(notifier.events) != 1 || notifier.events[0].kind != "failed" {
		t.Fatalf("events = %+v", notifier.events)
	}
	if notifier.events[0].msg != "panic: boom" {
		t.Errorf("failure message = %q", notifier.events[0].msg)
	}
}

func TestSweepProgress(t *testing.T) {
	if got := sweepProgress(0, 100); got != 5 {
		t.Errorf("sweepProgress(0, 100) = %d, want floor", got)
	}
	if got := sweepProgress(50, 0); got != 5 {
		t.Errorf("unknown total should hold the floor, got %d", got)
	}
	if got := sweepProgress(50, 100); got != 50 {
		t.Errorf("sweepProgress(50, 100) = %d, want 50", got)
	}
	if got := sweepProgress(1000, 100); got != 95 {
		t.Errorf("overshoot should clamp at ceiling, got %d", got)
	}
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 6},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), 6},
		{time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		if got := ageAt(birth, tt.at); got != tt.want {
			t.Errorf("ageAt(%s) = %d, want %d", tt.at.Format("2006-01-02"), got, tt.want)
		}
	}
	if got := ageAt(time.Time{}, time.Now()); got != 0 {
		t.Errorf("zero birth date should report 0, got %d", got)
	}
}
