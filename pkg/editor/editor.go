// Package editor owns the lift editing session: which field is live, how
// user actions move focus between fields, and how validated submissions are
// applied and persisted. The presentation layer forwards discrete events
// (submit, press, long-press delete, dismiss) and renders the resulting
// state; it never mutates the lift itself.
package editor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tableflip.dev/liftlog/pkg/lift"
	"tableflip.dev/liftlog/pkg/store"
	"tableflip.dev/liftlog/pkg/suggest"
)

// Mode determines whether the entry surface collects one text value (title
// or movement name) or two (weight and reps).
type Mode int

const (
	ModeSingle Mode = iota
	ModeDouble
)

// Target tracks which logical field currently has focus.
type Target int

const (
	TargetNone Target = iota
	TargetTitle
	TargetMovementName
	TargetSet
)

// NoIndex marks an index slot as unset. A MovementIndex of NoIndex together
// with AddingNew means "new movement not yet appended to the lift".
const NoIndex = -1

// State is the editing-target tuple exposed to the presentation layer.
type State struct {
	Mode          Mode
	Target        Target
	MovementIndex int
	SetIndex      int
	AddingNew     bool
}

func idleState() State {
	return State{Mode: ModeSingle, Target: TargetNone, MovementIndex: NoIndex, SetIndex: NoIndex}
}

func titleState() State {
	return State{Mode: ModeSingle, Target: TargetTitle, MovementIndex: NoIndex, SetIndex: NoIndex}
}

func addMovementState() State {
	return State{Mode: ModeSingle, Target: TargetMovementName, MovementIndex: NoIndex, SetIndex: NoIndex, AddingNew: true}
}

// FocusField is an edge-triggered request for keyboard focus on the entry
// surface.
type FocusField int

const (
	FocusNone FocusField = iota
	FocusFirst
	FocusSecond
)

// Session drives one lift through field-by-field editing. All transitions
// run synchronously inside the event that triggered them; persistence is
// fire-and-forget and the in-memory cache is updated in the same step, so
// suggestions always reflect the in-progress edit.
type Session struct {
	persistence store.Persistence

	lift lift.Lift
	all  map[string]lift.Lift

	state State
	query string

	warning string
	warnSeq int

	focusReq         FocusField
	justTransitioned bool

	scroll *ScrollPlan
}

// NewSession opens an editing session. An empty id starts a fresh lift;
// otherwise the lift is loaded from the store (a missing id degrades to an
// empty, editable session rather than an error).
func NewSession(ctx context.Context, p store.Persistence, id string) *Session {
	s := &Session{
		persistence: p,
		all:         map[string]lift.Lift{},
		state:       idleState(),
		scroll:      NewScrollPlan(DefaultScrollMargin),
	}
	if p != nil {
		s.all = p.All(ctx)
	}

	if id == "" {
		s.lift = lift.New("")
	} else if loaded, ok := s.lookup(ctx, id); ok {
		s.lift = loaded
	} else {
		s.lift = lift.New("")
	}

	s.state = s.initialState()
	switch s.state.Target {
	case TargetSet:
		s.requestFocus(FocusFirst)
	case TargetTitle, TargetMovementName:
		s.requestFocus(FocusFirst)
	}
	s.retarget(s.state)
	return s
}

func (s *Session) lookup(ctx context.Context, id string) (lift.Lift, bool) {
	if s.persistence != nil {
		return s.persistence.Get(ctx, id)
	}
	l, ok := s.all[id]
	return l, ok
}

// initialState implements the mount rules: fresh or title-less lifts start
// at the title; a titled lift without movements prompts for its first
// movement; a trailing zero-set movement resumes set entry; a fully
// populated lift waits for a press.
func (s *Session) initialState() State {
	if strings.TrimSpace(s.lift.Title) == "" {
		return titleState()
	}
	if len(s.lift.Movements) == 0 {
		return addMovementState()
	}
	last := len(s.lift.Movements) - 1
	if len(s.lift.Movements[last].Sets) == 0 {
		return State{Mode: ModeDouble, Target: TargetSet, MovementIndex: last, SetIndex: 0}
	}
	return idleState()
}

// State returns the current editing-target tuple.
func (s *Session) State() State { return s.state }

// Lift returns the in-memory document, including transient zero-set
// movements that NormalizeForSave would prune.
func (s *Session) Lift() lift.Lift { return s.lift }

// AllLifts exposes the optimistic cache snapshot backing suggestions.
func (s *Session) AllLifts() map[string]lift.Lift { return s.all }

// Submit applies the entry surface's current value(s) to the live target.
// Validation failures set a transient warning and leave state untouched.
func (s *Session) Submit(first, second string) {
	if s.state.Mode == ModeDouble && s.state.Target == TargetSet {
		s.submitSet(first, second)
		return
	}
	s.submitSingle(first)
}

func (s *Session) submitSingle(value string) {
	value = strings.TrimSpace(value)

	if s.state.Target == TargetTitle || strings.TrimSpace(s.lift.Title) == "" {
		if value == "" {
			s.warn("A title is required")
			return
		}
		s.apply(lift.SetTitle(s.lift, value))
		s.transition(addMovementState())
		s.requestFocus(FocusFirst)
		return
	}

	if s.state.Target != TargetMovementName {
		return
	}

	if value == "" {
		s.warn("A movement name is required")
		return
	}

	if !s.state.AddingNew && s.state.MovementIndex >= 0 {
		s.apply(lift.RenameMovement(s.lift, s.state.MovementIndex, value))
		s.transition(idleState())
		return
	}

	// Adding a new movement: append and drop straight into set entry.
	s.apply(lift.AppendMovement(s.lift, value))
	newIndex := len(s.lift.Movements) - 1
	s.transition(State{Mode: ModeDouble, Target: TargetSet, MovementIndex: newIndex, SetIndex: 0})
	s.requestFocus(FocusFirst)
}

func (s *Session) submitSet(weight, reps string) {
	weight = strings.TrimSpace(weight)
	reps = strings.TrimSpace(reps)
	if !lift.ValidNumber(weight) || !lift.ValidNumber(reps) {
		s.warn("Weight and reps must be positive numbers")
		return
	}

	mi := s.state.MovementIndex
	if mi < 0 || mi >= len(s.lift.Movements) {
		return
	}
	s.apply(lift.UpsertSet(s.lift, mi, s.state.SetIndex, weight, reps))

	// Whether the submit replaced or appended, the session lands on the
	// append slot, ready for the next set.
	next := State{Mode: ModeDouble, Target: TargetSet, MovementIndex: mi, SetIndex: len(s.lift.Movements[mi].Sets)}
	s.transition(next)
	s.requestFocus(FocusFirst)
}

// TitlePress retargets editing at the title bubble.
func (s *Session) TitlePress() {
	s.transition(titleState())
	s.requestFocus(FocusFirst)
}

// MovementPress retargets editing at an existing movement's name.
func (s *Session) MovementPress(index int) {
	if index < 0 || index >= len(s.lift.Movements) {
		return
	}
	s.transition(State{Mode: ModeSingle, Target: TargetMovementName, MovementIndex: index, SetIndex: NoIndex})
	s.requestFocus(FocusFirst)
}

// SetPress retargets editing at an existing set.
func (s *Session) SetPress(movementIndex, setIndex int) {
	if movementIndex < 0 || movementIndex >= len(s.lift.Movements) {
		return
	}
	if setIndex < 0 || setIndex >= len(s.lift.Movements[movementIndex].Sets) {
		return
	}
	s.transition(State{Mode: ModeDouble, Target: TargetSet, MovementIndex: movementIndex, SetIndex: setIndex})
	s.requestFocus(FocusFirst)
}

// EmptyLinePress begins appending a set under the given movement.
func (s *Session) EmptyLinePress(movementIndex int) {
	if movementIndex < 0 || movementIndex >= len(s.lift.Movements) {
		return
	}
	sets := len(s.lift.Movements[movementIndex].Sets)
	s.transition(State{Mode: ModeDouble, Target: TargetSet, MovementIndex: movementIndex, SetIndex: sets})
	s.requestFocus(FocusFirst)
}

// DeleteMovement removes a movement after the presentation layer confirmed
// the long-press. Editing state pointing at the removed movement clears;
// indices past it shift down.
func (s *Session) DeleteMovement(index int) {
	if index < 0 || index >= len(s.lift.Movements) {
		return
	}
	s.apply(lift.RemoveMovement(s.lift, index))

	switch {
	case s.state.MovementIndex == index:
		s.transition(idleState())
	case s.state.MovementIndex > index:
		s.state.MovementIndex--
		s.retarget(s.state)
	}
}

// DeleteSet removes one set after a confirmed long-press.
func (s *Session) DeleteSet(movementIndex, setIndex int) {
	if movementIndex < 0 || movementIndex >= len(s.lift.Movements) {
		return
	}
	if setIndex < 0 || setIndex >= len(s.lift.Movements[movementIndex].Sets) {
		return
	}
	s.apply(lift.RemoveSet(s.lift, movementIndex, setIndex))

	if s.state.Target == TargetSet && s.state.MovementIndex == movementIndex && s.state.SetIndex >= setIndex {
		remaining := len(s.lift.Movements[movementIndex].Sets)
		if s.state.SetIndex > remaining {
			s.state.SetIndex = remaining
		} else if s.state.SetIndex > setIndex {
			s.state.SetIndex--
		}
		s.retarget(s.state)
	}
}

// KeyboardDismiss handles the keyboard going away outside an explicit
// submit. A dismissal delivered inside the same event as a deliberate
// edit-to-edit transition (before Settle) is consumed; any other dismissal
// idles the session. The returned flag tells the presentation layer whether
// to clear in-progress text: transient new content clears, existing
// populated fields keep their text.
func (s *Session) KeyboardDismiss() (clearText bool) {
	if s.justTransitioned {
		s.justTransitioned = false
		return false
	}
	clearText = s.editingTransient()
	s.transition(idleState())
	s.justTransitioned = false
	return clearText
}

// Settle marks the pending transition as delivered. The presentation layer
// calls this once the event that drove a transition has finished, so only a
// dismissal generated by the transition itself is consumed; every later
// dismissal is an explicit one.
func (s *Session) Settle() {
	s.justTransitioned = false
}

// SwipeDismiss handles the swipe-down gesture on the entry surface: always
// clear the in-progress text without submitting and idle the session.
func (s *Session) SwipeDismiss() {
	s.transition(idleState())
	s.justTransitioned = false
	s.query = ""
}

// InputFocused reacts to the entry surface gaining focus while no target is
// live: with a title already present this begins adding a movement, so
// focusing the footer always surfaces an editable target.
func (s *Session) InputFocused() {
	if s.state.Target != TargetNone || s.state.AddingNew {
		return
	}
	if strings.TrimSpace(s.lift.Title) == "" {
		return
	}
	s.transition(addMovementState())
}

// FirstValueChanged tracks the first input field for live suggestion
// recomputation.
func (s *Session) FirstValueChanged(text string) {
	s.query = text
}

func (s *Session) editingTransient() bool {
	switch s.state.Target {
	case TargetMovementName:
		return s.state.AddingNew
	case TargetSet:
		mi := s.state.MovementIndex
		if mi < 0 || mi >= len(s.lift.Movements) {
			return true
		}
		return s.state.SetIndex >= len(s.lift.Movements[mi].Sets)
	case TargetTitle:
		return strings.TrimSpace(s.lift.Title) == ""
	}
	return false
}

// InitialValues returns the text the entry surface should prefill for the
// current target: the existing title, movement name, or weight/reps pair.
// Empty strings for append-style targets.
func (s *Session) InitialValues() (first, second string) {
	switch s.state.Target {
	case TargetTitle:
		return s.lift.Title, ""
	case TargetMovementName:
		if !s.state.AddingNew && s.state.MovementIndex >= 0 && s.state.MovementIndex < len(s.lift.Movements) {
			return s.lift.Movements[s.state.MovementIndex].Name, ""
		}
	case TargetSet:
		mi := s.state.MovementIndex
		if mi >= 0 && mi < len(s.lift.Movements) && s.state.SetIndex >= 0 && s.state.SetIndex < len(s.lift.Movements[mi].Sets) {
			set := s.lift.Movements[mi].Sets[s.state.SetIndex]
			return set.Weight, set.Reps
		}
	}
	return "", ""
}

// Context classifies the active field for the suggestion engine.
func (s *Session) Context() suggest.Context {
	switch {
	case s.state.Mode == ModeDouble && s.state.Target == TargetSet:
		return suggest.ContextWeight
	case s.state.Target == TargetTitle,
		s.state.Mode == ModeSingle && strings.TrimSpace(s.lift.Title) == "":
		return suggest.ContextTitle
	case s.state.Mode == ModeSingle && s.state.Target != TargetSet:
		return suggest.ContextMovement
	}
	return suggest.ContextNone
}

// Suggestions recomputes the chip list for the active field, arranged for
// center-weighted display.
func (s *Session) Suggestions() []string {
	movement := ""
	if mi := s.state.MovementIndex; mi >= 0 && mi < len(s.lift.Movements) {
		movement = s.lift.Movements[mi].Name
	}
	return suggest.For(s.Context(), s.query, movement, s.lift, s.all)
}

// Refresh re-hydrates the suggestion cache from the store after an external
// change. The in-progress lift and editing state are kept; a concurrent
// writer to the same lift loses to the open session.
func (s *Session) Refresh(ctx context.Context) {
	if s.persistence == nil {
		return
	}
	s.all = s.persistence.All(ctx)
	s.all[s.lift.ID] = lift.NormalizeForSave(s.lift)
}

// Warning returns the current transient validation message, if any.
func (s *Session) Warning() string { return s.warning }

// WarningToken identifies the current warning so a delayed clear can be
// ignored when a newer warning replaced it.
func (s *Session) WarningToken() int { return s.warnSeq }

// ClearWarning clears the warning the token belongs to; stale tokens are
// no-ops.
func (s *Session) ClearWarning(token int) {
	if token == s.warnSeq {
		s.warning = ""
	}
}

// TakeFocusRequest returns and consumes the pending edge-triggered focus
// request.
func (s *Session) TakeFocusRequest() FocusField {
	req := s.focusReq
	s.focusReq = FocusNone
	return req
}

// Scroll exposes the focus/scroll coordinator for layout reports and
// pending-retry ticks.
func (s *Session) Scroll() *ScrollPlan { return s.scroll }

// Delete removes the whole lift from the store; the presentation layer
// navigates away afterwards.
func (s *Session) Delete() error {
	delete(s.all, s.lift.ID)
	if s.persistence == nil {
		return nil
	}
	return s.persistence.Delete(s.lift.ID)
}

func (s *Session) warn(msg string) {
	s.warning = msg
	s.warnSeq++
}

// apply installs the mutated document, persists it, and updates the cache
// in the same logical step. Persistence failures are logged and otherwise
// ignored; the in-memory state stays authoritative for the session.
func (s *Session) apply(next lift.Lift) {
	s.lift = next
	normalized := lift.NormalizeForSave(next)
	s.all[normalized.ID] = normalized
	if s.persistence == nil {
		return
	}
	if _, err := s.persistence.Save(next); err != nil {
		fmt.Fprintf(os.Stderr, "editor: save lift %s: %v\n", next.ID, err)
	}
}

func (s *Session) transition(next State) {
	s.state = next
	s.query = ""
	s.justTransitioned = true
	s.retarget(next)
}

func (s *Session) retarget(next State) {
	if anchor, ok := s.anchorFor(next); ok {
		s.scroll.Request(anchor)
	} else {
		s.scroll.Cancel()
	}
}

func (s *Session) anchorFor(st State) (Anchor, bool) {
	switch st.Target {
	case TargetTitle:
		return TitleAnchor(), true
	case TargetMovementName:
		if st.AddingNew || st.MovementIndex < 0 {
			return "", false
		}
		return MovementAnchor(st.MovementIndex), true
	case TargetSet:
		mi := st.MovementIndex
		if mi < 0 || mi >= len(s.lift.Movements) {
			return "", false
		}
		if st.SetIndex >= len(s.lift.Movements[mi].Sets) {
			return AddSetAnchor(mi), true
		}
		return SetAnchor(mi, st.SetIndex), true
	}
	return "", false
}

func (s *Session) requestFocus(f FocusField) {
	s.focusReq = f
}
