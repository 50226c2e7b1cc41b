package jobs

import "testing"

type stubHandler struct {
	jobType string
	ran     int
}

func (h *stubHandler) Type() string { return h.jobType }

func (h *stubHandler) Run(jc *Context) error {
	h.ran++
	return nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	h := &stubHandler{jobType: "report_generate"}

	if err := r.Register(h); err != nil {
		t.Fatalf("Register() = %v", err)
	}
	got, ok := r.Get("report_generate")
	if !ok {
		t.Fatal("Get() should find the registered handler")
	}
	if got != h {
		t.Fatal("Get() returned a different handler")
	}
	if _, ok := r.Get("unknown_type"); ok {
		t.Fatal("Get() should miss for unregistered type")
	}
}

func TestRegistryRejectsDuplicatesAndInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Error("nil handler should be rejected")
	}
	if err := r.Register(&stubHandler{jobType: ""}); err == nil {
		t.Error("empty job type should be rejected")
	}
	if err := r.Register(&stubHandler{jobType: "consistency_sweep"}); err != nil {
		t.Fatalf("first Register() = %v", err)
	}
	if err := r.Register(&stubHandler{jobType: "consistency_sweep"}); err == nil {
		t.Error("duplicate job type should be rejected")
	}
}
