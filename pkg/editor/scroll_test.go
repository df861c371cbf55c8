package editor

import "testing"

func TestScrollResolvesOnceMeasured(t *testing.T) {
	p := NewScrollPlan(4)
	p.Request(SetAnchor(1, 2))

	if _, ok := p.Resolve(); ok {
		t.Fatalf("unmeasured anchor must not resolve")
	}
	if !p.Pending() {
		t.Fatalf("target should stay pending for the retry tick")
	}

	p.Report(SetAnchor(1, 2), Rect{Y: 30, Height: 3})
	offset, ok := p.Resolve()
	if !ok || offset != 26 {
		t.Fatalf("expected offset 26, got %d ok=%v", offset, ok)
	}
	if p.Pending() {
		t.Fatalf("resolution should consume the pending target")
	}
}

func TestScrollClampsNearTop(t *testing.T) {
	p := NewScrollPlan(4)
	p.Report(TitleAnchor(), Rect{Y: 1, Height: 1})
	p.Request(TitleAnchor())

	offset, ok := p.Resolve()
	if !ok || offset != 0 {
		t.Fatalf("expected clamp to 0, got %d ok=%v", offset, ok)
	}
}

func TestScrollNewRequestReplacesPending(t *testing.T) {
	p := NewScrollPlan(4)
	p.Report(MovementAnchor(0), Rect{Y: 10, Height: 1})
	p.Request(SetAnchor(5, 5)) // never measured
	p.Request(MovementAnchor(0))

	offset, ok := p.Resolve()
	if !ok || offset != 6 {
		t.Fatalf("expected the replacement target to resolve, got %d ok=%v", offset, ok)
	}
}

func TestScrollCancelDropsPending(t *testing.T) {
	p := NewScrollPlan(4)
	p.Report(TitleAnchor(), Rect{Y: 8, Height: 1})
	p.Request(TitleAnchor())
	p.Cancel()

	if _, ok := p.Resolve(); ok {
		t.Fatalf("cancelled target must not resolve")
	}
}

func TestScrollForgetRequiresRemeasure(t *testing.T) {
	p := NewScrollPlan(4)
	p.Report(MovementAnchor(1), Rect{Y: 20, Height: 1})
	p.Forget()
	p.Request(MovementAnchor(1))

	if _, ok := p.Resolve(); ok {
		t.Fatalf("forgotten geometry must not resolve")
	}
	p.Report(MovementAnchor(1), Rect{Y: 22, Height: 1})
	if offset, ok := p.Resolve(); !ok || offset != 18 {
		t.Fatalf("expected fresh measurement to win, got %d ok=%v", offset, ok)
	}
}
