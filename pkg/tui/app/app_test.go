package app

import (
	"context"
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"

	"tableflip.dev/liftlog/pkg/editor"
	"tableflip.dev/liftlog/pkg/lift"
	"tableflip.dev/liftlog/pkg/store"
	"tableflip.dev/liftlog/pkg/tui/events"
)

type memoryStore struct {
	lifts map[string]lift.Lift
}

func newMemoryStore(lifts ...lift.Lift) *memoryStore {
	m := &memoryStore{lifts: make(map[string]lift.Lift)}
	for _, l := range lifts {
		m.lifts[l.ID] = lift.NormalizeForSave(l)
	}
	return m
}

func (m *memoryStore) All(context.Context) map[string]lift.Lift {
	out := make(map[string]lift.Lift, len(m.lifts))
	for id, l := range m.lifts {
		out[id] = l
	}
	return out
}

func (m *memoryStore) Get(_ context.Context, id string) (lift.Lift, bool) {
	if l, ok := m.lifts[id]; ok {
		return l, true
	}
	for _, l := range m.lifts {
		if l.Date == id {
			return l, true
		}
	}
	return lift.Lift{}, false
}

func (m *memoryStore) Save(l lift.Lift) (lift.Lift, error) {
	l = lift.NormalizeForSave(l)
	m.lifts[l.ID] = l
	return l, nil
}

func (m *memoryStore) Delete(id string) error {
	delete(m.lifts, id)
	return nil
}

func (m *memoryStore) MovementNames(context.Context) []string { return nil }

func (m *memoryStore) Watch(context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func pushDay() lift.Lift {
	return lift.Lift{
		ID:    "1709312400000",
		Date:  "2024-03-01",
		Title: "Push Day",
		Movements: []lift.Movement{
			{Name: "Bench Press", Sets: []lift.Set{{Weight: "135", Reps: "5"}, {Weight: "140", Reps: "5"}}},
		},
	}
}

func TestViewRendersTranscript(t *testing.T) {
	m := New(context.Background(), newMemoryStore(pushDay()), "1709312400000")
	m.width = 80
	m.height = 24

	view := stripANSI(m.View())
	if !strings.Contains(view, "Push Day") {
		t.Fatalf("expected title in view; view=%q", view)
	}
	if !strings.Contains(view, "Bench Press") {
		t.Fatalf("expected movement in view; view=%q", view)
	}
	if !strings.Contains(view, "135 x 5") {
		t.Fatalf("expected set line in view; view=%q", view)
	}
	if !strings.Contains(view, "+ set") {
		t.Fatalf("expected add-set line in view; view=%q", view)
	}
	if !strings.Contains(view, "j/k move") {
		t.Fatalf("expected idle help line; view=%q", view)
	}
}

func TestRowsReportGeometry(t *testing.T) {
	m := New(context.Background(), newMemoryStore(pushDay()), "1709312400000")

	m.session.SetPress(0, 1)
	m.rebuildRows()
	offset, ok := m.session.Scroll().Resolve()
	if !ok {
		t.Fatalf("anchors should be measured after rebuildRows")
	}
	if offset != 0 {
		// Set row sits near the top; margin clamps the offset.
		t.Fatalf("expected clamped offset 0, got %d", offset)
	}
}

func TestSelectionSkipsBlankRows(t *testing.T) {
	m := New(context.Background(), newMemoryStore(pushDay()), "1709312400000")
	m.height = 24

	m.selection = 0
	m.moveSelection(1)
	if m.rows[m.selection].kind != rowMovement {
		t.Fatalf("expected movement row after title, got %v", m.rows[m.selection].kind)
	}
}

func TestPressSelectionEntersEditing(t *testing.T) {
	m := New(context.Background(), newMemoryStore(pushDay()), "1709312400000")

	// Selection starts on the title row.
	m.pressSelection()
	if m.session.State().Target != editor.TargetTitle {
		t.Fatalf("expected title editing, got %+v", m.session.State())
	}
	m.afterTransition()
	if got := m.first.Value(); got != "Push Day" {
		t.Fatalf("expected title prefill, got %q", got)
	}
}

func TestSingleEscLeavesEditing(t *testing.T) {
	m := New(context.Background(), newMemoryStore(pushDay()), "1709312400000")
	m.height = 24

	// Enter edit mode the way the idle enter key does.
	m.moveSelection(1)
	m.pressSelection()
	m.afterTransition()
	if !m.editing() {
		t.Fatalf("expected editing after press, got %+v", m.session.State())
	}

	m.dismissEditing()
	if m.editing() {
		t.Fatalf("one esc must leave editing, got %+v", m.session.State())
	}
}

func TestSingleEscAfterSubmitChainLeavesEditing(t *testing.T) {
	m := New(context.Background(), newMemoryStore(), "")
	m.height = 24

	m.first.SetValue("Push Day")
	m.submit()
	m.first.SetValue("Bench Press")
	m.submit()
	m.first.SetValue("135")
	m.second.SetValue("5")
	m.submit()

	m.dismissEditing()
	if m.editing() {
		t.Fatalf("one esc after submitting must leave editing, got %+v", m.session.State())
	}
}

func TestDismissAnnouncesBlur(t *testing.T) {
	m := New(context.Background(), newMemoryStore(pushDay()), "1709312400000")
	m.height = 24

	m.moveSelection(1)
	m.pressSelection()
	m.afterTransition()

	cmd := m.dismissEditing()
	if cmd == nil {
		t.Fatalf("leaving edit mode should announce the blur")
	}
	msg, ok := cmd().(events.BlurMsg)
	if !ok || msg.Component != componentID {
		t.Fatalf("expected blur for %q, got %#v", componentID, msg)
	}

	m.first.Focus()
	m.Update(msg)
	if m.first.Focused() {
		t.Fatalf("blur message should release the input")
	}
}

func TestDescribeMsg(t *testing.T) {
	if got := describeMsg(events.FocusMsg{Component: componentID}); !strings.Contains(got, "lift-editor") {
		t.Fatalf("focus description should name the component, got %q", got)
	}
	got := describeMsg(events.StoreChangedMsg{Event: store.Event{Type: store.EventLiftChanged, ID: "7"}})
	if !strings.Contains(got, `id:"7"`) {
		t.Fatalf("store change description should carry the id, got %q", got)
	}
}

func TestDebugFooterShowsLastEvent(t *testing.T) {
	m := New(context.Background(), newMemoryStore(pushDay()), "1709312400000")
	m.width = 80
	m.height = 24
	m.debug = true

	m.Update(events.FocusMsg{Component: componentID})
	if !strings.Contains(stripANSI(m.View()), "lift-editor") {
		t.Fatalf("debug footer should show the last event")
	}
}

func TestDeleteSelectionRemovesMovement(t *testing.T) {
	m := New(context.Background(), newMemoryStore(pushDay()), "1709312400000")

	m.moveSelection(1) // movement row
	m.deleteSelection()
	if len(m.session.Lift().Movements) != 0 {
		t.Fatalf("movement should be removed")
	}
}

func TestEditingViewShowsInputsAndChips(t *testing.T) {
	prior := lift.Lift{
		ID:    "1709225200000",
		Date:  "2024-02-28",
		Title: "Push Day",
		Movements: []lift.Movement{
			{Name: "Bench Press", Sets: []lift.Set{{Weight: "135", Reps: "5"}}},
		},
	}
	m := New(context.Background(), newMemoryStore(prior, pushDay()), "1709312400000")
	m.width = 80
	m.height = 24

	m.session.SetPress(0, 0)
	m.afterTransition()

	view := stripANSI(m.View())
	if !strings.Contains(view, "enter confirm") {
		t.Fatalf("expected editing help; view=%q", view)
	}
	if !strings.Contains(view, "135") {
		t.Fatalf("expected weight prefill visible; view=%q", view)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
