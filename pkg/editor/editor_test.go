package editor

import (
	"context"
	"testing"

	"tableflip.dev/liftlog/pkg/lift"
	"tableflip.dev/liftlog/pkg/store"
	"tableflip.dev/liftlog/pkg/suggest"
)

// memoryStore is the minimal Persistence used by session tests.
type memoryStore struct {
	lifts   map[string]lift.Lift
	saves   int
	deletes int
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
	m.saves++
	return l, nil
}

func (m *memoryStore) Delete(id string) error {
	delete(m.lifts, id)
	m.deletes++
	return nil
}

func (m *memoryStore) MovementNames(context.Context) []string { return nil }

func (m *memoryStore) Watch(context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func populated() lift.Lift {
	return lift.Lift{
		ID:    "1709312400000",
		Date:  "2024-03-01",
		Title: "Push Day",
		Movements: []lift.Movement{
			{Name: "Bench Press", Sets: []lift.Set{{Weight: "135", Reps: "5"}, {Weight: "140", Reps: "5"}}},
			{Name: "Dip", Sets: []lift.Set{{Weight: "45", Reps: "8"}}},
		},
	}
}

func TestInitialStateFreshLift(t *testing.T) {
	s := NewSession(context.Background(), newMemoryStore(), "")
	if got := s.State(); got.Target != TargetTitle || got.Mode != ModeSingle {
		t.Fatalf("fresh lift should open on the title, got %+v", got)
	}
	if s.TakeFocusRequest() != FocusFirst {
		t.Fatalf("expected auto-focus on the title field")
	}
}

func TestInitialStateTitledWithoutMovements(t *testing.T) {
	m := newMemoryStore(lift.Lift{ID: "1", Date: "2024-03-01", Title: "Push Day"})
	s := NewSession(context.Background(), m, "1")
	got := s.State()
	if got.Target != TargetMovementName || !got.AddingNew || got.MovementIndex != NoIndex {
		t.Fatalf("expected first-movement prompt, got %+v", got)
	}
}

func TestInitialStateResumesTrailingEmptyMovement(t *testing.T) {
	l := populated()
	l.Movements = append(l.Movements, lift.Movement{Name: "Overhead Press", Sets: []lift.Set{}})
	m := newMemoryStore()
	s := NewSession(context.Background(), m, "")
	// Seed the session's lift directly: stored copies are normalized, so a
	// trailing zero-set movement only exists for in-memory resumes.
	s.lift = l
	s.state = s.initialState()
	got := s.state
	if got.Target != TargetSet || got.Mode != ModeDouble || got.MovementIndex != 2 || got.SetIndex != 0 {
		t.Fatalf("expected to resume set entry on the last movement, got %+v", got)
	}
}

func TestInitialStatePopulatedLiftIdles(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")
	if got := s.State(); got.Target != TargetNone {
		t.Fatalf("populated lift should idle, got %+v", got)
	}
}

func TestFullEntryFlow(t *testing.T) {
	m := newMemoryStore()
	s := NewSession(context.Background(), m, "")

	s.Submit("Push Day", "")
	got := s.State()
	if got.Target != TargetMovementName || !got.AddingNew || got.MovementIndex != NoIndex {
		t.Fatalf("after title submit, expected add-movement state, got %+v", got)
	}
	if s.Lift().Title != "Push Day" {
		t.Fatalf("title not applied")
	}

	s.Submit("Bench Press", "")
	got = s.State()
	if got.Mode != ModeDouble || got.Target != TargetSet || got.MovementIndex != 0 || got.SetIndex != 0 || got.AddingNew {
		t.Fatalf("after movement submit, expected {double,set,0,0,false}, got %+v", got)
	}

	s.Submit("100", "5")
	got = s.State()
	if got.Target != TargetSet || got.SetIndex != 1 {
		t.Fatalf("after set submit, expected append slot 1, got %+v", got)
	}
	if len(s.Lift().Movements[0].Sets) != 1 {
		t.Fatalf("set not appended")
	}
}

func TestSubmitReplacesExistingSetAndAdvances(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.SetPress(0, 0)
	s.Submit("137.5", "5")

	l := s.Lift()
	if l.Movements[0].Sets[0].Weight != "137.5" {
		t.Fatalf("set not replaced: %+v", l.Movements[0].Sets)
	}
	if len(l.Movements[0].Sets) != 2 {
		t.Fatalf("replace must not append, got %d sets", len(l.Movements[0].Sets))
	}
	if got := s.State(); got.SetIndex != 2 {
		t.Fatalf("expected index advanced to append slot, got %+v", got)
	}
}

func TestSubmitRejectsInvalidNumbers(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.EmptyLinePress(0)
	before := s.State()
	savesBefore := m.saves

	s.Submit("-5", "5")
	if s.Warning() == "" {
		t.Fatalf("expected validation warning")
	}
	if s.State() != before {
		t.Fatalf("invalid submit must not transition")
	}
	if m.saves != savesBefore {
		t.Fatalf("invalid submit must not persist")
	}

	s.Submit("135", "")
	if s.Warning() == "" {
		t.Fatalf("missing reps should warn")
	}
}

func TestWarningTokenIgnoresStaleClear(t *testing.T) {
	s := NewSession(context.Background(), newMemoryStore(), "")
	s.Submit("", "") // empty title warns
	stale := s.WarningToken()

	s.Submit("", "") // second warning supersedes
	s.ClearWarning(stale)
	if s.Warning() == "" {
		t.Fatalf("stale token must not clear a newer warning")
	}
	s.ClearWarning(s.WarningToken())
	if s.Warning() != "" {
		t.Fatalf("current token should clear")
	}
}

func TestRenameExistingMovementIdles(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.MovementPress(1)
	if first, _ := s.InitialValues(); first != "Dip" {
		t.Fatalf("expected prefill Dip, got %q", first)
	}
	s.Submit("Weighted Dip", "")

	if s.Lift().Movements[1].Name != "Weighted Dip" {
		t.Fatalf("rename not applied")
	}
	if got := s.State(); got.Target != TargetNone {
		t.Fatalf("rename should idle the session, got %+v", got)
	}
}

func TestDeleteEditedMovementClearsState(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.MovementPress(1)
	s.DeleteMovement(1)

	if got := s.State(); got.Target != TargetNone || got.MovementIndex != NoIndex {
		t.Fatalf("deleting the edited movement must clear editing state, got %+v", got)
	}
	if len(s.Lift().Movements) != 1 {
		t.Fatalf("movement not removed")
	}
}

func TestDeleteEarlierMovementShiftsIndex(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.SetPress(1, 0)
	s.DeleteMovement(0)

	if got := s.State(); got.MovementIndex != 0 {
		t.Fatalf("expected index shifted down, got %+v", got)
	}
}

func TestKeyboardDismissInsideTransitionEventIsConsumed(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	// A dismissal arriving before the transition settles is the blur the
	// transition itself generated, not the user leaving.
	s.MovementPress(0)
	if clear := s.KeyboardDismiss(); clear {
		t.Fatalf("dismiss inside the transition event must not clear")
	}
	if got := s.State(); got.Target != TargetMovementName {
		t.Fatalf("state should survive the transition blur, got %+v", got)
	}

	if s.KeyboardDismiss(); s.State().Target != TargetNone {
		t.Fatalf("expected idle after genuine dismiss")
	}
}

func TestKeyboardDismissAfterSettleIdlesImmediately(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.MovementPress(0)
	s.Settle()
	s.KeyboardDismiss()
	if got := s.State(); got != idleState() {
		t.Fatalf("one dismiss after a settled press must idle, got %+v", got)
	}
}

func TestKeyboardDismissAfterEntryChainIdlesImmediately(t *testing.T) {
	m := newMemoryStore()
	s := NewSession(context.Background(), m, "")

	s.Submit("Push Day", "")
	s.Settle()
	s.Submit("Bench Press", "")
	s.Settle()
	s.Submit("100", "5")
	s.Settle()

	s.KeyboardDismiss()
	if got := s.State(); got.Target != TargetNone {
		t.Fatalf("one dismiss after settled submits must idle, got %+v", got)
	}
}

func TestKeyboardDismissPreservesExistingFieldText(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.SetPress(0, 1)
	s.Settle()
	if clear := s.KeyboardDismiss(); clear {
		t.Fatalf("editing an existing set keeps its text on dismiss")
	}

	s.EmptyLinePress(0)
	s.Settle()
	if clear := s.KeyboardDismiss(); !clear {
		t.Fatalf("appending transient content clears on dismiss")
	}
}

func TestInputFocusedAutoTargetsNewMovement(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.InputFocused()
	got := s.State()
	if got.Target != TargetMovementName || !got.AddingNew {
		t.Fatalf("focusing the footer should begin adding a movement, got %+v", got)
	}
}

func TestContextDerivation(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	s.TitlePress()
	if s.Context() != suggest.ContextTitle {
		t.Fatalf("expected title context")
	}

	s.MovementPress(0)
	if s.Context() != suggest.ContextMovement {
		t.Fatalf("expected movement context")
	}

	s.SetPress(0, 0)
	if s.Context() != suggest.ContextWeight {
		t.Fatalf("expected weight context")
	}
}

func TestSuggestionsReflectOptimisticCache(t *testing.T) {
	prior := lift.Lift{
		ID:    "1709225200000",
		Date:  "2024-02-28",
		Title: "Push Day",
		Movements: []lift.Movement{
			{Name: "Bench Press", Sets: []lift.Set{{Weight: "135", Reps: "5"}, {Weight: "140", Reps: "5"}}},
		},
	}
	m := newMemoryStore(prior)
	s := NewSession(context.Background(), m, "")

	s.Submit("Push Day", "")
	s.Submit("Bench Press", "")

	chips := s.Suggestions()
	if len(chips) != 1 || chips[0] != "140" {
		t.Fatalf("expected weight suggestion 140 from prior history, got %v", chips)
	}
}

func TestDeleteRemovesLiftFromStoreAndCache(t *testing.T) {
	m := newMemoryStore(populated())
	s := NewSession(context.Background(), m, "1709312400000")

	if err := s.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(m.lifts) != 0 {
		t.Fatalf("store still holds the lift")
	}
	if len(s.AllLifts()) != 0 {
		t.Fatalf("cache still holds the lift")
	}
}

func TestEveryMutationPersists(t *testing.T) {
	m := newMemoryStore()
	s := NewSession(context.Background(), m, "")

	s.Submit("Push Day", "")      // title
	s.Submit("Bench Press", "")   // movement append
	s.Submit("100", "5")          // set append
	s.SetPress(0, 0)
	s.Submit("105", "5")          // set replace
	s.MovementPress(0)
	s.Submit("Paused Bench", "")  // rename
	s.DeleteSet(0, 0)             // set delete
	s.MovementPress(0)
	s.DeleteMovement(0)           // movement delete

	if m.saves != 7 {
		t.Fatalf("expected 7 persisted writes, got %d", m.saves)
	}
}
