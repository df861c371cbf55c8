// Package events defines the typed Bubble Tea messages shared across the
// liftlog TUI so components can communicate without direct references.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/liftlog/pkg/store"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe renders the event in a human-friendly format for logs.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// StoreChangedMsg carries a persistence watch event into the program.
type StoreChangedMsg struct {
	Event store.Event
}

// Describe implements the logging helper.
func (m StoreChangedMsg) Describe() string {
	if m.Event.Type == store.EventLiftChanged {
		return fmt.Sprintf(`change:"lift" id:%q`, m.Event.ID)
	}
	return `change:"store"`
}

// WarningExpiredMsg fires when a transient validation warning's display
// window elapses. Token guards against clearing a newer warning.
type WarningExpiredMsg struct {
	Token int
}

// ScrollRetryMsg asks the program to retry resolving the pending scroll
// target after its layout report window.
type ScrollRetryMsg struct{}
