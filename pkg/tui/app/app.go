// Package app hosts the Bubble Tea program for the liftlog editor.
package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/liftlog/pkg/editor"
	"tableflip.dev/liftlog/pkg/lift"
	"tableflip.dev/liftlog/pkg/store"
	"tableflip.dev/liftlog/pkg/suggest"
	"tableflip.dev/liftlog/pkg/tui/events"
	"tableflip.dev/liftlog/pkg/tui/theme"
)

const (
	componentID = events.ComponentID("lift-editor")

	// How long a validation warning stays on screen.
	warningTTL = 2500 * time.Millisecond

	// Window for the dd delete chord.
	ddWindow = 500 * time.Millisecond
)

type rowKind int

const (
	rowTitle rowKind = iota
	rowMovement
	rowSet
	rowAddSet
	rowBlank
)

// row is one transcript line the user can select and act on.
type row struct {
	kind     rowKind
	movement int
	set      int
	text     string
	anchor   editor.Anchor
}

type focusField int

const (
	focusFirst focusField = iota
	focusSecond
)

// Model drives the full-screen lift editor.
type Model struct {
	ctx     context.Context
	session *editor.Session
	theme   theme.Theme

	width  int
	height int

	first  textinput.Model
	second textinput.Model
	focus  focusField

	rows      []row
	selection int
	offset    int

	awaitingDD bool
	lastDTime  time.Time

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	persistence store.Persistence
	quitting    bool

	// Dump the last message description into the footer when LIFTLOG_DEBUG
	// is set.
	debug     bool
	lastEvent string
}

// New builds the editor model for one lift. An empty id edits a fresh lift.
func New(ctx context.Context, p store.Persistence, id string) *Model {
	first := textinput.New()
	first.Prompt = "> "
	second := textinput.New()
	second.Prompt = "x "

	m := &Model{
		ctx:         ctx,
		session:     editor.NewSession(ctx, p, id),
		theme:       theme.Default(),
		first:       first,
		second:      second,
		persistence: p,
		debug:       os.Getenv("LIFTLOG_DEBUG") != "",
	}
	m.rebuildRows()
	m.syncInputs()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		events.FocusCmd(componentID),
		startWatchCmd(m.ctx, m.persistence),
	}
	if cmd := m.consumeFocusRequest(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.scrollRetryCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchStoppedMsg struct{}

func startWatchCmd(parent context.Context, p store.Persistence) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := p.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return events.StoreChangedMsg{Event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.debug {
		if d := describeMsg(msg); d != "" {
			m.lastEvent = d
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputWidth := msg.Width - 8
		if inputWidth < 12 {
			inputWidth = 12
		}
		m.first.SetWidth(inputWidth)
		m.second.SetWidth(inputWidth)
		// Geometry is stale after a resize; remeasure everything.
		m.session.Scroll().Forget()
		m.rebuildRows()
		return m, nil

	case watchStartedMsg:
		if msg.err != nil || msg.ch == nil {
			return m, nil
		}
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		return m, m.waitForWatch()

	case events.StoreChangedMsg:
		m.session.Refresh(m.ctx)
		return m, m.waitForWatch()

	case watchStoppedMsg:
		m.stopWatch()
		return m, nil

	case events.FocusMsg:
		if msg.Component == componentID {
			return m, m.fieldFocusCmd()
		}
		return m, nil

	case events.BlurMsg:
		if msg.Component == componentID {
			m.first.Blur()
			m.second.Blur()
		}
		return m, nil

	case events.WarningExpiredMsg:
		m.session.ClearWarning(msg.Token)
		return m, nil

	case events.ScrollRetryMsg:
		if offset, ok := m.session.Scroll().Resolve(); ok {
			m.offset = offset
			return m, nil
		}
		return m, m.scrollRetryCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateFocusedInput(msg)
}

func (m *Model) editing() bool {
	return m.session.State().Target != editor.TargetNone
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing() {
		return m.handleEditingKey(msg)
	}
	return m.handleIdleKey(msg)
}

func (m *Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.stopWatch()
		return m, tea.Quit

	case "esc":
		return m, m.dismissEditing()

	case "ctrl+d":
		// The close-without-saving gesture: drop in-progress text.
		m.session.SwipeDismiss()
		m.first.SetValue("")
		m.second.SetValue("")
		m.afterTransition()
		return m, events.BlurCmd(componentID)

	case "tab", "shift+tab":
		if m.session.State().Mode == editor.ModeDouble {
			m.toggleField()
		}
		return m, m.fieldFocusCmd()

	case "enter":
		if m.session.State().Mode == editor.ModeDouble && m.focus == focusFirst {
			m.focus = focusSecond
			return m, m.fieldFocusCmd()
		}
		m.submit()
		return m, m.postSubmitCmd()

	case "alt+1", "alt+2", "alt+3":
		m.applyChip(int(msg.String()[4] - '1'))
		return m, nil
	}

	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleIdleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.awaitingDD && key != "d" {
		m.awaitingDD = false
	}

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.stopWatch()
		return m, tea.Quit

	case "j", "down":
		m.moveSelection(1)
		return m, nil

	case "k", "up":
		m.moveSelection(-1)
		return m, nil

	case "enter":
		m.pressSelection()
		m.afterTransition()
		return m, m.fieldFocusCmd()

	case "a":
		m.session.InputFocused()
		m.afterTransition()
		return m, m.fieldFocusCmd()

	case "t":
		m.session.TitlePress()
		m.afterTransition()
		return m, m.fieldFocusCmd()

	case "d":
		if m.awaitingDD && time.Since(m.lastDTime) <= ddWindow {
			m.awaitingDD = false
			m.deleteSelection()
			return m, nil
		}
		m.awaitingDD = true
		m.lastDTime = time.Now()
		return m, nil
	}

	return m, nil
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusSecond {
		m.second, cmd = m.second.Update(msg)
		return cmd
	}
	m.first, cmd = m.first.Update(msg)
	m.session.FirstValueChanged(m.first.Value())
	return cmd
}

// dismissEditing handles esc: leave the editing target, dropping text only
// when the session says it was transient. Leaving edit mode announces the
// blur so the entry surface lets go of the keyboard.
func (m *Model) dismissEditing() tea.Cmd {
	if m.session.KeyboardDismiss() {
		m.first.SetValue("")
		m.second.SetValue("")
	}
	m.afterTransition()
	if !m.editing() {
		return events.BlurCmd(componentID)
	}
	return nil
}

func (m *Model) submit() {
	m.session.Submit(m.first.Value(), m.second.Value())
	m.afterTransition()
}

// postSubmitCmd schedules the warning expiry when the submit was rejected.
func (m *Model) postSubmitCmd() tea.Cmd {
	cmds := []tea.Cmd{m.fieldFocusCmd()}
	if m.session.Warning() != "" {
		token := m.session.WarningToken()
		cmds = append(cmds, tea.Tick(warningTTL, func(time.Time) tea.Msg {
			return events.WarningExpiredMsg{Token: token}
		}))
	}
	if cmd := m.scrollRetryCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// afterTransition re-syncs the inputs and selection with the session state.
// Settling last means the next esc is always an explicit dismissal.
func (m *Model) afterTransition() {
	m.rebuildRows()
	m.syncInputs()
	m.selectEditedRow()
	if offset, ok := m.session.Scroll().Resolve(); ok {
		m.offset = offset
	}
	m.session.Settle()
}

func (m *Model) consumeFocusRequest() tea.Cmd {
	switch m.session.TakeFocusRequest() {
	case editor.FocusFirst:
		m.focus = focusFirst
		m.second.Blur()
		return m.first.Focus()
	case editor.FocusSecond:
		m.focus = focusSecond
		m.first.Blur()
		return m.second.Focus()
	}
	return nil
}

func (m *Model) fieldFocusCmd() tea.Cmd {
	if cmd := m.consumeFocusRequest(); cmd != nil {
		return cmd
	}
	if !m.editing() {
		m.first.Blur()
		m.second.Blur()
		return nil
	}
	if m.focus == focusSecond {
		m.first.Blur()
		return m.second.Focus()
	}
	m.second.Blur()
	return m.first.Focus()
}

func (m *Model) toggleField() {
	if m.focus == focusFirst {
		m.focus = focusSecond
	} else {
		m.focus = focusFirst
	}
}

// syncInputs prefills the entry fields for the current target.
func (m *Model) syncInputs() {
	first, second := m.session.InitialValues()
	m.first.SetValue(first)
	m.second.SetValue(second)
	m.first.CursorEnd()
	m.second.CursorEnd()
	m.focus = focusFirst
	m.session.FirstValueChanged(first)
}

func (m *Model) applyChip(index int) {
	chips := m.session.Suggestions()
	if index < 0 || index >= len(chips) {
		return
	}
	if m.session.Context() == suggest.ContextWeight {
		m.first.SetValue(chips[index])
		m.first.CursorEnd()
		return
	}
	m.first.SetValue(chips[index])
	m.first.CursorEnd()
	m.session.FirstValueChanged(chips[index])
}

// rebuildRows projects the lift document into selectable transcript rows
// and reports their geometry to the scroll coordinator.
func (m *Model) rebuildRows() {
	l := m.session.Lift()
	rows := make([]row, 0, 8)

	title := l.Title
	if strings.TrimSpace(title) == "" {
		title = "untitled"
	}
	rows = append(rows, row{kind: rowTitle, movement: editor.NoIndex, set: editor.NoIndex,
		text: title, anchor: editor.TitleAnchor()})
	rows = append(rows, row{kind: rowBlank, movement: editor.NoIndex, set: editor.NoIndex})

	for mi, mov := range l.Movements {
		rows = append(rows, row{kind: rowMovement, movement: mi, set: editor.NoIndex,
			text: mov.Name, anchor: editor.MovementAnchor(mi)})
		for si, set := range mov.Sets {
			rows = append(rows, row{kind: rowSet, movement: mi, set: si,
				text: fmt.Sprintf("%s x %s", set.Weight, set.Reps), anchor: editor.SetAnchor(mi, si)})
		}
		rows = append(rows, row{kind: rowAddSet, movement: mi, set: len(mov.Sets),
			text: "+ set", anchor: editor.AddSetAnchor(mi)})
		rows = append(rows, row{kind: rowBlank, movement: editor.NoIndex, set: editor.NoIndex})
	}

	m.rows = rows
	if m.selection >= len(rows) {
		m.selection = len(rows) - 1
	}
	if m.selection < 0 {
		m.selection = 0
	}

	plan := m.session.Scroll()
	plan.Forget()
	for i, r := range rows {
		if r.anchor != "" {
			plan.Report(r.anchor, editor.Rect{Y: i, Height: 1})
		}
	}
}

func (m *Model) moveSelection(delta int) {
	next := m.selection
	for {
		next += delta
		if next < 0 || next >= len(m.rows) {
			return
		}
		if m.rows[next].kind != rowBlank {
			m.selection = next
			m.ensureVisible(next)
			return
		}
	}
}

func (m *Model) pressSelection() {
	if m.selection < 0 || m.selection >= len(m.rows) {
		return
	}
	switch r := m.rows[m.selection]; r.kind {
	case rowTitle:
		m.session.TitlePress()
	case rowMovement:
		m.session.MovementPress(r.movement)
	case rowSet:
		m.session.SetPress(r.movement, r.set)
	case rowAddSet:
		m.session.EmptyLinePress(r.movement)
	}
}

func (m *Model) deleteSelection() {
	if m.selection < 0 || m.selection >= len(m.rows) {
		return
	}
	switch r := m.rows[m.selection]; r.kind {
	case rowMovement:
		m.session.DeleteMovement(r.movement)
	case rowSet:
		m.session.DeleteSet(r.movement, r.set)
	default:
		return
	}
	m.rebuildRows()
}

// selectEditedRow moves the idle-mode selection to the row being edited so
// leaving edit mode does not jump the cursor.
func (m *Model) selectEditedRow() {
	st := m.session.State()
	for i, r := range m.rows {
		switch {
		case st.Target == editor.TargetTitle && r.kind == rowTitle:
			m.selection = i
			return
		case st.Target == editor.TargetMovementName && r.kind == rowMovement && r.movement == st.MovementIndex:
			m.selection = i
			return
		case st.Target == editor.TargetSet && r.movement == st.MovementIndex &&
			(r.kind == rowSet || r.kind == rowAddSet) && r.set == st.SetIndex:
			m.selection = i
			return
		}
	}
}

func (m *Model) ensureVisible(line int) {
	visible := m.transcriptHeight()
	if visible <= 0 {
		return
	}
	if line < m.offset {
		m.offset = line
	}
	if line >= m.offset+visible {
		m.offset = line - visible + 1
	}
}

func (m *Model) scrollRetryCmd() tea.Cmd {
	if !m.session.Scroll().Pending() {
		return nil
	}
	return tea.Tick(editor.RetryInterval, func(time.Time) tea.Msg {
		return events.ScrollRetryMsg{}
	})
}

func describeMsg(msg tea.Msg) string {
	if d, ok := msg.(interface{ Describe() string }); ok {
		return d.Describe()
	}
	switch v := msg.(type) {
	case tea.KeyMsg:
		return fmt.Sprintf("key=%q", v.String())
	case tea.WindowSizeMsg:
		return fmt.Sprintf("size=%dx%d", v.Width, v.Height)
	default:
		return ""
	}
}

func (m *Model) transcriptHeight() int {
	// Footer: chips, inputs, warning/help.
	reserved := 5
	if m.session.State().Mode == editor.ModeDouble {
		reserved++
	}
	if m.debug {
		reserved++
	}
	h := m.height - reserved
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(m.renderTranscript(width))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(width))
	return b.String()
}

func (m *Model) renderTranscript(width int) string {
	st := m.session.State()
	low, high := m.weightBounds()

	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		lines = append(lines, m.renderRow(i, r, st, low, high, width))
	}

	visible := m.transcriptHeight()
	start := m.offset
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func (m *Model) renderRow(i int, r row, st editor.State, low, high float64, width int) string {
	editingHere := false
	switch r.kind {
	case rowTitle:
		editingHere = st.Target == editor.TargetTitle
	case rowMovement:
		editingHere = st.Target == editor.TargetMovementName && st.MovementIndex == r.movement && !st.AddingNew
	case rowSet, rowAddSet:
		editingHere = st.Target == editor.TargetSet && st.MovementIndex == r.movement && st.SetIndex == r.set
	}

	var text string
	switch r.kind {
	case rowTitle:
		text = m.theme.Title.Render(r.text) + "  " + m.theme.Date.Render(m.session.Lift().Date)
	case rowMovement:
		text = m.theme.Movement.Render(r.text)
	case rowSet:
		set := m.session.Lift().Movements[r.movement].Sets[r.set]
		text = "  " + m.weightStyled(set, low, high)
	case rowAddSet:
		text = "  " + m.theme.AddLine.Render(r.text)
	case rowBlank:
		return ""
	}

	switch {
	case editingHere:
		return m.theme.Editing.Render("» ") + text
	case !m.editing() && i == m.selection:
		return m.theme.Selected.Render("> ") + text
	default:
		return "  " + text
	}
}

func (m *Model) weightStyled(set lift.Set, low, high float64) string {
	text := fmt.Sprintf("%s x %s", set.Weight, set.Reps)
	w, err := strconv.ParseFloat(set.Weight, 64)
	if err != nil || high <= low {
		return m.theme.Set.Render(text)
	}
	return theme.WeightStyle((w - low) / (high - low)).Render(text)
}

// weightBounds finds the numeric range of weights in the lift for the
// transcript's color scale.
func (m *Model) weightBounds() (float64, float64) {
	var weights []float64
	for _, mov := range m.session.Lift().Movements {
		for _, s := range mov.Sets {
			if w, err := strconv.ParseFloat(s.Weight, 64); err == nil {
				weights = append(weights, w)
			}
		}
	}
	if len(weights) == 0 {
		return 0, 0
	}
	sort.Float64s(weights)
	return weights[0], weights[len(weights)-1]
}

func (m *Model) renderFooter(width int) string {
	var lines []string

	if chips := m.renderChips(); chips != "" {
		lines = append(lines, chips)
	} else {
		lines = append(lines, "")
	}

	if m.editing() {
		lines = append(lines, m.first.View())
		if m.session.State().Mode == editor.ModeDouble {
			lines = append(lines, m.second.View())
		}
	}

	if warning := m.session.Warning(); warning != "" {
		lines = append(lines, m.theme.Warning.Render(wordwrap.String(warning, width)))
	} else {
		lines = append(lines, m.theme.Help.Render(wordwrap.String(m.helpLine(), width)))
	}

	if m.debug {
		lines = append(lines, m.theme.Status.Render(m.lastEvent))
	}

	return m.theme.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderChips() string {
	chips := m.session.Suggestions()
	if len(chips) == 0 {
		return ""
	}
	parts := make([]string, 0, len(chips))
	for i, c := range chips {
		label := m.theme.ChipNumber.Render(fmt.Sprintf(" %d ", i+1))
		parts = append(parts, label+m.theme.Chip.Render(c))
	}
	return strings.Join(parts, " ")
}

func (m *Model) helpLine() string {
	if m.editing() {
		base := "enter confirm · esc done · alt+1..3 pick suggestion"
		if m.session.State().Mode == editor.ModeDouble {
			return "tab reps · " + base
		}
		return base
	}
	return "j/k move · enter edit · a add movement · t title · dd delete · q quit"
}

// Run launches the editor program for the given lift.
func Run(ctx context.Context, p store.Persistence, id string) error {
	prog := tea.NewProgram(New(ctx, p, id), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
