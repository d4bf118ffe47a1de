package studio

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"social-studio/internal/adapter/tui/components"
	"social-studio/internal/adapter/tui/theme"
	"social-studio/internal/adapter/tui/uxerror"
	"social-studio/internal/domain"
	"social-studio/internal/usecase"
)

// ModelDeps are dependencies injected into the root model.
type ModelDeps struct {
	Studio   *usecase.Studio
	Logger   *slog.Logger
	Defaults domain.GenerateRequest
	Backend  string // backend host shown in the status bar
	Version  string
}

// leftView selects what the main pane shows.
type leftView int

const (
	viewTranscript leftView = iota
	viewContent
)

// cardRef ties a rendered card back to the resolved item it displays, so
// browse-mode actions can derive the item's review key.
type cardRef struct {
	variant string
	item    domain.ContentItem
}

// Model is the root Bubble Tea model for the studio TUI.
type Model struct {
	deps ModelDeps

	// Sub-models
	phaseBar   components.PhaseBar
	transcript components.TranscriptView
	cards      components.ContentCards
	activity   components.ActivityPane
	composer   components.Composer
	statusBar  components.StatusBarModel
	split      components.SplitPaneModel
	modal      components.ModalModel
	history    components.HistoryList
	spinner    spinner.Model

	// State
	width    int
	height   int
	quitting bool
	waiting  bool // a generation stream is open
	browse   bool // composer blurred, vim-style review keys active
	view     leftView

	// Request scaffold mutated by slash commands; each submission copies it.
	scaffold domain.GenerateRequest

	// gen is the session generation the UI currently follows. awaitGen is
	// set between submitting and learning the new generation; in that
	// window only events with a strictly newer generation are accepted, so
	// buffered leftovers of a superseded stream cannot touch the fresh
	// transcript entry.
	gen      uint64
	awaitGen bool

	resolved   *domain.ResolvedOutput // raw resolved output, pre-override
	cardRefs   []cardRef              // parallel to the rendered cards
	lastTopic  string                 // message text of the last submission
	safetyNote string                 // banner line for an unsafe verdict

	editKey   usecase.ItemKey // item being edited via the composer
	refineKey usecase.ItemKey // item collecting refine feedback

	safetyAuto      bool // current safety check was triggered by an edit save
	healthRequested bool // current health probe was requested via /health
}

// NewModel creates the root studio model.
func NewModel(deps ModelDeps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	sb := components.NewStatusBar()
	sb.Backend = deps.Backend
	sb.Hints = defaultHints()

	transcript := components.NewTranscriptView()
	transcript.SetMaxEntries(1000)
	transcript.Add(components.TranscriptEntry{
		Role:    components.RoleSystem,
		Content: welcomeText(deps.Version),
	})

	composer := components.NewComposer()
	composer.Autocomplete = components.NewAutocomplete(commandDefs())

	return Model{
		deps:       deps,
		phaseBar:   components.NewPhaseBar(phaseDisplayNames()),
		transcript: transcript,
		cards:      components.NewContentCards(),
		activity:   components.NewActivityPane(),
		composer:   composer,
		statusBar:  sb,
		split:      components.NewSplitPane(0.62),
		modal:      components.NewModal(),
		history:    components.NewHistoryList(),
		spinner:    s,
		scaffold:   deps.Defaults,
	}
}

// Init starts the spinner and probes the backend once.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		healthCmd(m.deps.Studio),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if m.modal.Visible {
			m.modal.SetSize(m.width, m.height)
		}
		if m.history.Visible {
			m.history.SetSize(m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.ComposerSubmitMsg:
		return m.handleComposerSubmit(msg)

	case components.ComposerCancelMsg:
		return m.handleComposerCancel(msg)

	case StreamEventMsg:
		return m.handleStreamEvent(msg.Event)

	case SubmitResultMsg:
		return m.handleSubmitResult(msg)

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.addFriendlyError(msg.Err)
			return m, nil
		}
		items := make([]components.HistoryItem, len(msg.Items))
		for i, it := range msg.Items {
			items[i] = components.HistoryItem{ID: it.ID, Title: it.Title, UpdatedAt: it.UpdatedAt}
		}
		m.history.SetSize(m.width, m.height)
		m.history.Open(items)
		return m, nil

	case ConversationResumedMsg:
		return m.handleResumed(msg)

	case ConversationDeletedMsg:
		if msg.Err != nil {
			m.addFriendlyError(msg.Err)
			return m, nil
		}
		m.history.RemoveByID(msg.ID)
		m.addSystem(theme.SymbolSuccess + " Conversation deleted.")
		return m, nil

	case ScoresMsg:
		m.statusBar.Extra = ""
		if msg.Err != nil {
			m.addFriendlyError(msg.Err)
			return m, nil
		}
		m.modal.SetSize(m.width, m.height)
		m.modal.Open("Evaluation", renderScores(m.modalWidth(), msg.Scores))
		return m, nil

	case SafetyMsg:
		return m.handleSafetyResult(msg)

	case HealthMsg:
		return m.handleHealthResult(msg)

	case DraftsLoadedMsg:
		if msg.Err != nil {
			m.addFriendlyError(msg.Err)
			return m, nil
		}
		m.modal.SetSize(m.width, m.height)
		m.modal.Open("Drafts", renderDrafts(msg.Drafts))
		return m, nil

	case ApprovedSavedMsg:
		if msg.Err != nil {
			m.addFriendlyError(msg.Err)
			return m, nil
		}
		if msg.Count == 0 {
			m.addSystem("No approved posts to save. Press Esc, then a to approve a card.")
		} else {
			m.addSystem(fmt.Sprintf("%s Saved %d draft(s).", theme.SymbolSuccess, msg.Count))
		}
		return m, nil

	case DraftDeletedMsg:
		if msg.Err != nil {
			m.addFriendlyError(msg.Err)
			return m, nil
		}
		m.addSystem(theme.SymbolSuccess + " Draft removed.")
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.addFriendlyError(msg.Err)
			return m, nil
		}
		m.addSystem(theme.SymbolSuccess + " Exported to " + msg.Path)
		return m, nil

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Forward remaining messages to the composer (mouse events excluded).
	if !m.browse {
		if _, isMouse := msg.(tea.MouseMsg); !isMouse {
			var cmd tea.Cmd
			m.composer, cmd = m.composer.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	if m.view == viewContent {
		m.cards, cmd = m.cards.Update(msg)
	} else {
		m.transcript, cmd = m.transcript.Update(msg)
	}
	cmds = append(cmds, cmd)

	if m.split.Visible && m.split.Focused == components.PaneRight {
		m.activity, cmd = m.activity.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter out mouse escape sequences that leaked through as key events.
	if isMouseEscapeLeak(msg.String()) {
		return m, nil
	}

	// Full-screen overlays swallow all keys while open.
	if m.modal.Visible {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}
	if m.history.Visible {
		return m.handleHistoryKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.waiting {
			m.stopGeneration()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlT:
		m.split.Toggle()
		m.layout()
		return m, nil

	case tea.KeyCtrlO:
		m.toggleView()
		return m, nil

	case tea.KeyCtrlR:
		return m.handleSlashCommand("/retry", nil)

	case tea.KeyCtrlN:
		return m.handleSlashCommand("/new", nil)

	case tea.KeyTab:
		if !m.browse && m.composer.Autocomplete.Visible {
			break // autocomplete navigation owns Tab
		}
		if m.split.Visible {
			m.split.SwitchFocus()
			if m.split.Focused == components.PaneRight {
				m.statusBar.Hints = activityHints()
			} else {
				m.statusBar.Hints = m.currentHints()
			}
		}
		return m, nil

	case tea.KeyEsc:
		// The composer consumes Esc to dismiss its popup or leave
		// edit/refine mode.
		if !m.browse && (m.composer.Autocomplete.Visible || m.composer.Mode() != components.ComposerTopic) {
			break
		}
		if m.waiting {
			m.stopGeneration()
			return m, nil
		}
		if !m.browse {
			m.enterBrowse()
		}
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		return m.forwardScroll(msg)
	}

	// Browse mode: j/k move or scroll, review actions on the selected card.
	if m.browse {
		return m.handleBrowseKey(msg)
	}

	// Everything else goes to the composer.
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// handleBrowseKey handles vim-style keys while the composer is blurred.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i":
		m.exitBrowse()
		return m, nil
	case "j", "down":
		if m.view == viewContent {
			m.cards.MoveDown()
		} else {
			m.transcript.Viewport.LineDown(3)
		}
		return m, nil
	case "k", "up":
		if m.view == viewContent {
			m.cards.MoveUp()
		} else {
			m.transcript.Viewport.LineUp(3)
		}
		return m, nil
	case "g":
		if m.view == viewContent {
			m.cards.Viewport.GotoTop()
		} else {
			m.transcript.Viewport.GotoTop()
		}
		return m, nil
	case "G":
		if m.view == viewContent {
			m.cards.Viewport.GotoBottom()
		} else {
			m.transcript.Viewport.GotoBottom()
		}
		return m, nil
	case "o":
		m.toggleView()
		return m, nil
	case "a":
		m.approveSelected()
		return m, nil
	case "e":
		return m.editSelected()
	case "r":
		return m.refineSelected()
	case "s":
		return m, saveApprovedCmd(m.deps.Studio)
	case "enter":
		m.openSelectedDetail()
		return m, nil
	}
	return m, nil
}

// handleHistoryKey handles keys while the history overlay is open.
func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.history.MoveDown()
		return m, nil
	case "k", "up":
		m.history.MoveUp()
		return m, nil
	case "enter":
		if item, ok := m.history.SelectedItem(); ok {
			m.history.Close()
			m.statusBar.Extra = theme.SymbolSpinner + " Resuming" + theme.SymbolEllipsis
			return m, resumeCmd(m.deps.Studio, item.ID)
		}
		return m, nil
	case "d":
		if item, ok := m.history.SelectedItem(); ok {
			return m, deleteConversationCmd(m.deps.Studio, item.ID)
		}
		return m, nil
	case "esc", "q":
		m.history.Close()
		return m, nil
	}
	return m, nil
}

// handleComposerSubmit routes a submitted value according to its mode.
func (m Model) handleComposerSubmit(msg components.ComposerSubmitMsg) (tea.Model, tea.Cmd) {
	switch msg.Mode {
	case components.ComposerEdit:
		board := m.deps.Studio.Board()
		board.SaveEdit(m.editKey, msg.Value)
		m.rebuildCards()
		m.enterBrowse()
		// Moderate the edited body right away; a silent pass, a visible flag.
		m.safetyAuto = true
		return m, safetyCmd(m.deps.Studio, msg.Value)

	case components.ComposerRefine:
		m.deps.Studio.Board().EndRefine(m.refineKey)
		message := usecase.RefineMessage(m.refineKey.Platform, msg.Value)
		m.beginGeneration(message)
		return m, refineCmd(m.deps.Studio, m.refineKey.Platform, msg.Value)
	}

	// Topic mode: slash command or a new generation.
	if cmd, args, ok := components.ParseSlashCommand(msg.Value); ok {
		return m.handleSlashCommand(cmd, args)
	}

	req := m.scaffold
	req.Platforms = append([]string(nil), m.scaffold.Platforms...)
	req.Message = msg.Value
	m.beginGeneration(msg.Value)
	return m, submitCmd(m.deps.Studio, req)
}

// handleComposerCancel restores review state when edit/refine is abandoned.
func (m Model) handleComposerCancel(msg components.ComposerCancelMsg) (tea.Model, tea.Cmd) {
	board := m.deps.Studio.Board()
	switch msg.Mode {
	case components.ComposerEdit:
		board.CancelEdit(m.editKey)
	case components.ComposerRefine:
		board.EndRefine(m.refineKey)
	}
	m.rebuildCards()
	m.enterBrowse()
	return m, nil
}

// handleSubmitResult settles a submission attempt.
func (m Model) handleSubmitResult(msg SubmitResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.transcript.Settle()
		m.addFriendlyError(msg.Err)
		if !m.deps.Studio.Running() {
			m.waiting = false
			m.awaitGen = false
			m.statusBar.Extra = ""
			m.statusBar.Hints = m.currentHints()
		}
		return m, nil
	}
	if msg.Gen > m.gen {
		m.gen = msg.Gen
		m.awaitGen = false
	}
	return m, nil
}

// handleStreamEvent applies one studio event to the UI.
func (m Model) handleStreamEvent(ev usecase.Event) (tea.Model, tea.Cmd) {
	if m.awaitGen {
		if ev.Gen <= m.gen {
			return m, nil // leftover of a superseded stream
		}
		m.gen = ev.Gen
		m.awaitGen = false
	} else if ev.Gen < m.gen {
		return m, nil
	}

	snap := ev.Snapshot
	switch ev.Kind {
	case usecase.EventSnapshot:
		m.applySnapshot(snap, true)

	case usecase.EventCompleted:
		m.applySnapshot(snap, false)
		m.finishStream()
		if len(m.cardRefs) > 0 {
			m.view = viewContent
			m.statusBar.Hints = m.currentHints()
		}

	case usecase.EventErrored:
		m.applySnapshot(snap, false)
		m.finishStream()
		if snap.ErrorMessage != "" {
			m.transcript.Add(components.TranscriptEntry{
				Role:    components.RoleError,
				Content: snap.ErrorMessage,
			})
		}

	case usecase.EventAborted:
		m.applySnapshot(snap, false)
		m.finishStream()
	}
	return m, nil
}

// View renders the entire studio UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return "  Initializing..."
	}
	if m.modal.Visible {
		return m.modal.View()
	}
	if m.history.Visible {
		return m.history.View()
	}

	var left string
	if m.view == viewContent {
		left = m.cards.View()
	} else {
		left = m.transcript.View()
	}

	var mainContent string
	if m.split.Visible {
		mainContent = m.split.Render(left, m.activity.View())
	} else {
		mainContent = left
	}

	parts := []string{m.phaseBar.View(), mainContent}
	if m.safetyNote != "" {
		parts = append(parts, theme.TextWarning.Render(" "+m.safetyNote))
	}
	parts = append(parts, components.Divider(m.width))
	if m.waiting {
		parts = append(parts, " "+m.spinner.View()+" "+theme.TextInfo.Render("Generating"+theme.SymbolEllipsis))
	}
	parts = append(parts, m.composer.View(), m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout recalculates sizes for all sub-models.
func (m *Model) layout() {
	phaseH := 1
	composerH := 3
	statusH := 1
	dividerH := 1
	bannerH := 0
	if m.safetyNote != "" {
		bannerH = 1
	}
	spinnerH := 0
	if m.waiting {
		spinnerH = 1
	}
	contentH := m.height - phaseH - composerH - statusH - dividerH - bannerH - spinnerH
	if contentH < 5 {
		contentH = 5
	}

	m.phaseBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.composer.SetWidth(m.width)
	m.split.SetSize(m.width, contentH)

	leftW := m.split.LeftWidth()
	m.transcript.SetSize(leftW, contentH)
	m.cards.SetSize(leftW, contentH)
	if m.split.Visible {
		m.activity.SetSize(m.split.RightWidth(), contentH)
	}
}

// forwardScroll routes a paging key to whichever pane has scroll focus.
func (m Model) forwardScroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.split.Visible && m.split.Focused == components.PaneRight {
		m.activity, cmd = m.activity.Update(msg)
		return m, cmd
	}
	if m.view == viewContent {
		m.cards, cmd = m.cards.Update(msg)
		return m, cmd
	}
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

// toggleView flips the main pane between transcript and content cards.
func (m *Model) toggleView() {
	if m.view == viewTranscript {
		if len(m.cardRefs) == 0 {
			return // nothing resolved yet
		}
		m.view = viewContent
	} else {
		m.view = viewTranscript
	}
	m.statusBar.Hints = m.currentHints()
}

// enterBrowse blurs the composer and activates the review keymap.
func (m *Model) enterBrowse() {
	m.browse = true
	m.composer.SetEnabled(false)
	m.statusBar.Hints = browseHints()
}

// exitBrowse returns focus to the composer.
func (m *Model) exitBrowse() {
	m.browse = false
	m.composer.SetEnabled(true)
	m.statusBar.Hints = m.currentHints()
}

// currentHints picks the hint row for the present mode.
func (m Model) currentHints() []components.KeyHint {
	if m.browse {
		return browseHints()
	}
	if m.waiting {
		return streamingHints()
	}
	if m.view == viewContent {
		return reviewHints()
	}
	return defaultHints()
}

// isSGRMouseSequence detects SGR mouse escape sequences that may leak
// through as key input (e.g. "<65;38;21M"). These are emitted when
// mouse cell motion tracking is enabled and some terminals pass them
// as key events instead of tea.MouseMsg.
func isSGRMouseSequence(s string) bool {
	if len(s) < 5 || s[0] != '<' {
		return false
	}
	last := s[len(s)-1]
	if last != 'M' && last != 'm' {
		return false
	}
	for _, r := range s[1 : len(s)-1] {
		if r != ';' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// isMouseEscapeLeak detects mouse escape sequences that leaked through
// as key input instead of tea.MouseMsg. Covers SGR, X11 basic, and
// URXVT formats that appear during rapid trackpad scrolling.
func isMouseEscapeLeak(s string) bool {
	// SGR format: <digits;digits;digitsM/m
	if isSGRMouseSequence(s) {
		return true
	}
	// X11 basic mouse format: [M or [m followed by coordinate bytes.
	if len(s) >= 2 && s[0] == '[' && (s[1] == 'M' || s[1] == 'm') {
		return true
	}
	// URXVT format: [digits;digits;digitsM
	if len(s) >= 5 && s[0] == '[' && s[len(s)-1] == 'M' {
		allValid := true
		for _, r := range s[1 : len(s)-1] {
			if r != ';' && (r < '0' || r > '9') {
				allValid = false
				break
			}
		}
		if allValid {
			return true
		}
	}
	return false
}

func defaultHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Enter", Desc: "Generate"},
		{Key: "Esc", Desc: "Browse"},
		{Key: "Ctrl+T", Desc: "Activity"},
		{Key: "/help", Desc: "Commands"},
		{Key: "Ctrl+C", Desc: "Quit"},
	}
}

func streamingHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Esc", Desc: "Stop"},
		{Key: "Ctrl+T", Desc: "Activity"},
		{Key: "Enter", Desc: "New topic"},
	}
}

func reviewHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Esc", Desc: "Review"},
		{Key: "Ctrl+O", Desc: "Transcript"},
		{Key: "/save", Desc: "Drafts"},
		{Key: "/export", Desc: "Export"},
	}
}

func browseHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "j/k", Desc: "Move"},
		{Key: "a", Desc: "Approve"},
		{Key: "e", Desc: "Edit"},
		{Key: "r", Desc: "Refine"},
		{Key: "s", Desc: "Save"},
		{Key: "i", Desc: "Input"},
	}
}

func activityHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Tab", Desc: "Switch"},
		{Key: "j/k", Desc: "Scroll"},
		{Key: "Ctrl+T", Desc: "Close"},
	}
}

func welcomeText(version string) string {
	header := "Social Studio"
	if version != "" {
		header += " v" + version
	}
	return header + "\nDescribe a topic to generate platform posts. Type /help for commands and keys."
}

func commandDefs() []components.CommandDef {
	return []components.CommandDef{
		{Name: "/help", Usage: "", Description: "Show commands and keys"},
		{Name: "/new", Usage: "", Description: "Start a new conversation"},
		{Name: "/stop", Usage: "", Description: "Stop the active generation"},
		{Name: "/retry", Usage: "", Description: "Resubmit the last request"},
		{Name: "/refine", Usage: "<platform> <feedback>", Description: "Ask for a targeted revision"},
		{Name: "/history", Usage: "", Description: "Browse stored conversations"},
		{Name: "/resume", Usage: "<id>", Description: "Resume a stored conversation"},
		{Name: "/delete", Usage: "<id>", Description: "Delete a stored conversation"},
		{Name: "/score", Usage: "", Description: "Evaluate the current output"},
		{Name: "/safety", Usage: "[text]", Description: "Safety-check text or the current output"},
		{Name: "/health", Usage: "", Description: "Check backend status"},
		{Name: "/drafts", Usage: "[rm <id>]", Description: "List or remove saved drafts"},
		{Name: "/save", Usage: "", Description: "Save approved posts as drafts"},
		{Name: "/export", Usage: "[markdown|json]", Description: "Export the current output"},
		{Name: "/platforms", Usage: "<p1,p2>", Description: "Set target platforms"},
		{Name: "/type", Usage: "<content_type>", Description: "Set the campaign type"},
		{Name: "/lang", Usage: "<en|ja>", Description: "Set the output language"},
		{Name: "/bilingual", Usage: "<off|parallel|combined>", Description: "Set bilingual rendering"},
		{Name: "/effort", Usage: "<low|medium|high>", Description: "Set reasoning effort"},
		{Name: "/summary", Usage: "<off|auto|concise|detailed>", Description: "Set reasoning summary detail"},
		{Name: "/ab", Usage: "<on|off>", Description: "Toggle A/B comparison mode"},
		{Name: "/settings", Usage: "", Description: "Show current request defaults"},
		{Name: "/quit", Usage: "", Description: "Exit"},
	}
}

// phaseDisplayNames capitalizes the pipeline phase names for the phase bar.
func phaseDisplayNames() []string {
	names := make([]string, len(domain.PhaseNames))
	for i, n := range domain.PhaseNames {
		names[i] = capitalize(n)
	}
	return names
}

var platformDisplay = map[string]string{
	domain.PlatformLinkedIn:  "LinkedIn",
	domain.PlatformX:         "X",
	domain.PlatformInstagram: "Instagram",
}

// displayPlatform maps a platform identifier to its display name.
func displayPlatform(p string) string {
	if d, ok := platformDisplay[strings.ToLower(p)]; ok {
		return d
	}
	return capitalize(p)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// shortID abbreviates a thread or conversation id for the status bar.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// addSystem appends a system notice to the transcript.
func (m *Model) addSystem(content string) {
	m.transcript.Add(components.TranscriptEntry{
		Role:    components.RoleSystem,
		Content: content,
	})
}

// addFriendlyError appends a humanized error to the transcript.
func (m *Model) addFriendlyError(err error) {
	friendly := uxerror.Humanize(err)
	m.transcript.Add(components.TranscriptEntry{
		Role:    components.RoleError,
		Content: friendly.Render(),
	})
	m.deps.Logger.Error("operation failed", "error", err)
}

// modalWidth returns the content width used inside full-screen modals.
func (m Model) modalWidth() int {
	return theme.Clamp(m.width-8, 40, theme.MaxContentWidth)
}
