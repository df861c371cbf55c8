package editor

import (
	"fmt"
	"time"
)

// DefaultScrollMargin is how far above the focused bubble the viewport
// should land, in logical rows.
const DefaultScrollMargin = 4

// RetryInterval is how often a pending scroll target re-checks for its
// layout measurement. Newly created bubbles report their layout one render
// late, so the first resolution attempt commonly misses.
const RetryInterval = 200 * time.Millisecond

// Anchor is the stable logical identity of a scrollable bubble.
type Anchor string

// TitleAnchor addresses the title bubble.
func TitleAnchor() Anchor { return "title" }

// MovementAnchor addresses a movement's name bubble.
func MovementAnchor(index int) Anchor {
	return Anchor(fmt.Sprintf("movement:%d", index))
}

// SetAnchor addresses one set bubble within a movement.
func SetAnchor(movementIndex, setIndex int) Anchor {
	return Anchor(fmt.Sprintf("set:%d:%d", movementIndex, setIndex))
}

// AddSetAnchor addresses the empty append line under a movement.
func AddSetAnchor(movementIndex int) Anchor {
	return Anchor(fmt.Sprintf("addSet:%d", movementIndex))
}

// Rect is a measured bubble position reported by the presentation layer.
type Rect struct {
	Y      int
	Height int
}

// ScrollPlan maps editing targets to viewport offsets. The presentation
// layer reports bubble layouts as they render; the plan tracks a single
// pending target and resolves it to a scroll offset once its layout is
// known. A target that has not been measured yet stays pending so the
// caller can retry on a timer; re-targeting replaces the pending entry, so
// at most one retry loop is ever in flight.
type ScrollPlan struct {
	margin     int
	anchors    map[Anchor]Rect
	pending    Anchor
	hasPending bool
}

// NewScrollPlan creates an empty plan with the given top margin.
func NewScrollPlan(margin int) *ScrollPlan {
	if margin < 0 {
		margin = 0
	}
	return &ScrollPlan{
		margin:  margin,
		anchors: make(map[Anchor]Rect),
	}
}

// Report records (or refreshes) the measured layout for an anchor.
func (p *ScrollPlan) Report(a Anchor, r Rect) {
	p.anchors[a] = r
}

// Forget drops measurements, used when the transcript fully re-renders and
// stale geometry would misplace the viewport.
func (p *ScrollPlan) Forget() {
	p.anchors = make(map[Anchor]Rect)
}

// Request makes the anchor the pending scroll target, replacing any
// previous pending target and its retry loop.
func (p *ScrollPlan) Request(a Anchor) {
	p.pending = a
	p.hasPending = true
}

// Cancel invalidates the pending target; an in-flight retry becomes a
// no-op.
func (p *ScrollPlan) Cancel() {
	p.pending = ""
	p.hasPending = false
}

// Pending reports whether a scroll target is awaiting resolution.
func (p *ScrollPlan) Pending() bool { return p.hasPending }

// Resolve turns the pending target into a scroll offset once its layout is
// known: the anchor's top minus the margin, clamped to zero. While the
// layout is missing it returns false and the target stays pending for the
// caller's next retry tick.
func (p *ScrollPlan) Resolve() (int, bool) {
	if !p.hasPending {
		return 0, false
	}
	rect, ok := p.anchors[p.pending]
	if !ok {
		return 0, false
	}
	p.Cancel()
	offset := rect.Y - p.margin
	if offset < 0 {
		offset = 0
	}
	return offset, true
}
