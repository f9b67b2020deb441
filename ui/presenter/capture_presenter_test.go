package presenter

import (
	"testing"
)

type mockService struct{ started, stopped int }

func (s *mockService) Start()        { s.started++ }
func (s *mockService) Stop()         { s.stopped++ }
func (s *mockService) Running() bool { return s.started > s.stopped }

type mockSession struct{ begun, ended int }

func (m *mockSession) Begin() { m.begun++ }
func (m *mockSession) End()   { m.ended++ }

type mockView struct {
	reset, editableCalls int
	lastEditable         bool
}

func (v *mockView) PreviewReset()         { v.reset++ }
func (v *mockView) ConfigEditable(b bool) { v.editableCalls++; v.lastEditable = b }

func TestCapturePresenter_EnableDisable_Idempotent(t *testing.T) {
	svc := &mockService{}
	sess := &mockSession{}
	view := &mockView{}
	p := NewCapturePresenter(svc, sess, view)

	p.Enable()
	if !svc.Running() || sess.begun != 1 || view.lastEditable || view.editableCalls != 1 {
		t.Fatalf("enable failed: started=%d begun=%d editableCalls=%d lastEditable=%v", svc.started, sess.begun, view.editableCalls, view.lastEditable)
	}
	p.Enable()
	if svc.started != 1 || sess.begun != 1 {
		t.Fatalf("enable not idempotent: started=%d begun=%d", svc.started, sess.begun)
	}

	p.Disable()
	if svc.Running() || svc.stopped != 1 || sess.ended != 1 || view.reset != 1 || !view.lastEditable || view.editableCalls != 2 {
		t.Fatalf("disable failed: stopped=%d ended=%d reset=%d editableCalls=%d lastEditable=%v", svc.stopped, sess.ended, view.reset, view.editableCalls, view.lastEditable)
	}
	p.Disable()
	if svc.stopped != 1 || sess.ended != 1 || view.reset != 1 {
		t.Fatalf("disable not idempotent: stopped=%d ended=%d reset=%d", svc.stopped, sess.ended, view.reset)
	}
}

func TestCapturePresenter_Toggle(t *testing.T) {
	svc := &mockService{}
	sess := &mockSession{}
	view := &mockView{}
	p := NewCapturePresenter(svc, sess, view)
	p.Toggle()
	if !svc.Running() || sess.begun != 1 {
		t.Fatalf("toggle enable failed")
	}
	p.Toggle()
	if svc.Running() || sess.ended != 1 || view.reset != 1 {
		t.Fatalf("toggle disable failed")
	}
}

func TestCapturePresenter_NilSafe(t *testing.T) {
	var p *CapturePresenter
	p.Enable()
	p.Disable()
	p.Toggle()
	NewCapturePresenter(nil, nil, nil).Toggle()
}
