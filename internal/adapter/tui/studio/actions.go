package studio

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"social-studio/internal/adapter/tui/components"
	"social-studio/internal/adapter/tui/theme"
	"social-studio/internal/domain"
	"social-studio/internal/usecase"
)

// beginGeneration resets the per-session UI state and opens the streaming
// transcript entry. The submission command itself is fired by the caller.
func (m *Model) beginGeneration(message string) {
	m.transcript.Settle()
	m.transcript.Add(components.TranscriptEntry{
		Role:    components.RoleUser,
		Content: message,
	})
	m.transcript.Add(components.TranscriptEntry{
		Role:      components.RoleAgent,
		Streaming: true,
	})

	m.activity.Clear()
	m.phaseBar.Reset()
	m.cards.Clear()
	m.cardRefs = nil
	m.resolved = nil
	m.safetyNote = ""
	m.view = viewTranscript
	m.browse = false
	m.composer.SetEnabled(true)

	m.waiting = true
	m.awaitGen = true
	m.lastTopic = message
	m.statusBar.Hints = streamingHints()
	m.layout()
}

// stopGeneration aborts the active stream. Content already shown stays.
func (m *Model) stopGeneration() {
	m.deps.Studio.Stop()
	m.waiting = false
	m.awaitGen = false
	m.transcript.Settle()
	m.statusBar.Extra = ""
	m.statusBar.Hints = m.currentHints()
	m.addSystem("Generation stopped.")
	m.layout()
}

// finishStream settles the streaming UI state after a terminal event.
func (m *Model) finishStream() {
	m.waiting = false
	m.transcript.Settle()
	m.statusBar.Extra = ""
	m.statusBar.Hints = m.currentHints()
	m.layout()
}

// applySnapshot projects one session snapshot onto the sub-models.
func (m *Model) applySnapshot(snap usecase.Snapshot, active bool) {
	if snap.Content != "" {
		content := snap.Content
		if snap.ContentTruncated {
			content = "(earlier output trimmed)\n\n" + content
		}
		m.transcript.UpdateLast(content, active)
	}

	m.phaseBar.SetStates(phaseStates(snap.Phases))

	events := make([]components.ActivityEvent, len(snap.ToolEvents))
	for i, ev := range snap.ToolEvents {
		events[i] = components.ActivityEvent{Tool: ev.Tool, Status: ev.Status, Message: ev.Message}
	}
	m.activity.SetEvents(events, snap.DroppedToolEvents)
	m.activity.SetReasoning(snap.Reasoning, snap.ReasoningTruncated)

	m.resolved = snap.Resolved
	m.rebuildCards()

	hadNote := m.safetyNote != ""
	if snap.Safety != nil && !snap.Safety.Safe {
		m.safetyNote = safetyBanner(snap.Safety)
	}
	if (m.safetyNote != "") != hadNote {
		m.layout()
	}

	if snap.ThreadID != "" {
		m.statusBar.Thread = shortID(snap.ThreadID)
	}
}

// rebuildCards re-derives the content card list from the resolved output
// with review overrides and statuses applied.
func (m *Model) rebuildCards() {
	if m.resolved == nil {
		m.cards.Clear()
		m.cardRefs = nil
		return
	}

	board := m.deps.Studio.Board()
	out := board.ApplyOverrides(m.resolved)

	var cards []components.ContentCard
	var refs []cardRef

	appendItems := func(variant string, items []domain.ContentItem) {
		for _, item := range items {
			ref := cardRef{variant: variant, item: item}
			key := usecase.KeyForItem(variant, item)

			status := components.CardUnreviewed
			switch board.Status(key) {
			case usecase.StatusApproved:
				status = components.CardApproved
			case usecase.StatusEditing:
				status = components.CardEditing
			case usecase.StatusRefineRequested:
				status = components.CardRefine
			}

			title := cardLabel(ref)
			if _, edited := board.Override(key); edited {
				title += " (edited)"
			}

			cards = append(cards, components.ContentCard{
				Title:        title,
				Body:         item.Body,
				Hashtags:     item.Hashtags,
				CallToAction: item.CallToAction,
				PostingTime:  item.PostingTime,
				HasImage:     item.ImageBase64 != "",
				Status:       status,
			})
			refs = append(refs, ref)
		}
	}

	var headline string
	switch out.Kind {
	case domain.OutputSingle:
		if out.Single != nil {
			appendItems("", out.Single.Contents)
			if out.Single.Review.HasReview() {
				headline = fmt.Sprintf("Self-review %.1f/10", out.Single.Review.OverallScore)
			}
		}
	case domain.OutputComparison:
		if out.Comparison != nil {
			a, b := out.Comparison.VariantA, out.Comparison.VariantB
			headline = "A: " + a.Strategy + "   B: " + b.Strategy
			appendItems("a", a.Contents)
			appendItems("b", b.Contents)
		}
	}

	m.cardRefs = refs
	m.cards.SetHeadline(headline)
	m.cards.SetCards(cards)
}

// cardLabel builds the display title of a card: variant side, platform,
// language.
func cardLabel(ref cardRef) string {
	label := displayPlatform(ref.item.Platform)
	if ref.item.Language != "" {
		label += " (" + ref.item.Language + ")"
	}
	if ref.variant != "" {
		label = strings.ToUpper(ref.variant) + " " + theme.SymbolBullet + " " + label
	}
	return label
}

// selectedRef returns the item backing the selected card.
func (m Model) selectedRef() (cardRef, bool) {
	idx := m.cards.SelectedIndex()
	if idx < 0 || idx >= len(m.cardRefs) {
		return cardRef{}, false
	}
	return m.cardRefs[idx], true
}

// requireCard resolves the selection for a review action, switching to the
// content view when the transcript is showing.
func (m *Model) requireCard() (cardRef, bool) {
	if len(m.cardRefs) == 0 {
		m.addSystem("No content to review yet.")
		return cardRef{}, false
	}
	if m.view != viewContent {
		m.view = viewContent
	}
	return m.selectedRef()
}

// approveSelected toggles the selected card between approved and unreviewed.
func (m *Model) approveSelected() {
	ref, ok := m.requireCard()
	if !ok {
		return
	}
	key := usecase.KeyForItem(ref.variant, ref.item)
	m.deps.Studio.Board().ToggleApproved(key)
	m.rebuildCards()
}

// editSelected opens the composer in edit mode with the card body preloaded.
func (m Model) editSelected() (tea.Model, tea.Cmd) {
	ref, ok := m.requireCard()
	if !ok {
		return m, nil
	}
	key := usecase.KeyForItem(ref.variant, ref.item)
	if !m.deps.Studio.Board().BeginEdit(key) {
		return m, nil
	}
	m.editKey = key
	m.browse = false
	m.composer.SetEnabled(true)
	m.composer.EnterEdit(cardLabel(ref), ref.item.Body)
	m.rebuildCards()
	return m, nil
}

// refineSelected opens the composer in refine mode for the selected card.
func (m Model) refineSelected() (tea.Model, tea.Cmd) {
	ref, ok := m.requireCard()
	if !ok {
		return m, nil
	}
	key := usecase.KeyForItem(ref.variant, ref.item)
	if !m.deps.Studio.Board().BeginRefine(key) {
		return m, nil
	}
	m.refineKey = key
	m.browse = false
	m.composer.SetEnabled(true)
	m.composer.EnterRefine(displayPlatform(ref.item.Platform))
	m.rebuildCards()
	return m, nil
}

// openSelectedDetail shows the full card content in a modal.
func (m *Model) openSelectedDetail() {
	ref, ok := m.requireCard()
	if !ok {
		return
	}
	key := usecase.KeyForItem(ref.variant, ref.item)
	status := m.deps.Studio.Board().Status(key)

	var sb strings.Builder
	sb.WriteString(ref.item.Body + "\n")
	if len(ref.item.Hashtags) > 0 {
		sb.WriteString("\n" + theme.TextInfo.Render(strings.Join(ref.item.Hashtags, " ")) + "\n")
	}
	if ref.item.CallToAction != "" {
		sb.WriteString("\nCall to action: " + ref.item.CallToAction + "\n")
	}
	if ref.item.PostingTime != "" {
		sb.WriteString("Suggested posting time: " + ref.item.PostingTime + "\n")
	}
	if ref.item.ImagePrompt != "" {
		sb.WriteString("Image prompt: " + ref.item.ImagePrompt + "\n")
	}
	if ref.item.ImageBase64 != "" {
		sb.WriteString(fmt.Sprintf("Generated image attached (%d KiB base64).\n", len(ref.item.ImageBase64)/1024))
	}
	sb.WriteString("\nReview status: " + status.String())

	m.modal.SetSize(m.width, m.height)
	m.modal.Open(cardLabel(ref), sb.String())
}

// handleResumed rebuilds the UI from a resumed conversation.
func (m Model) handleResumed(msg ConversationResumedMsg) (tea.Model, tea.Cmd) {
	m.statusBar.Extra = ""
	if msg.Err != nil {
		m.addFriendlyError(msg.Err)
		return m, nil
	}
	conv := msg.Conv

	m.transcript.Clear()
	for _, cm := range conv.Messages {
		role := components.RoleAgent
		if cm.Role == domain.RoleUser {
			role = components.RoleUser
		}
		m.transcript.Add(components.TranscriptEntry{
			Role:      role,
			Content:   cm.Content,
			Timestamp: conv.UpdatedAt,
		})
	}

	m.activity.Clear()
	m.phaseBar.Reset()
	m.cards.Clear()
	m.cardRefs = nil
	m.resolved = nil
	m.safetyNote = ""
	m.view = viewTranscript
	m.waiting = false
	m.awaitGen = false
	m.statusBar.Thread = shortID(conv.ID)

	// If the stored conversation ends with a structured payload, bring the
	// cards back so the review workflow can continue where it left off.
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].Role != domain.RoleAssistant {
			continue
		}
		if resolved := usecase.Resolve(conv.Messages[i].Content); resolved != nil {
			m.resolved = resolved
			m.rebuildCards()
			m.view = viewContent
		}
		break
	}

	title := conv.Title
	if title == "" {
		title = conv.ID
	}
	m.addSystem(theme.SymbolSuccess + " Resumed \"" + title + "\". The next topic continues this conversation.")
	m.statusBar.Hints = m.currentHints()
	m.layout()
	return m, nil
}

// handleSafetyResult shows a moderation verdict. Automatic checks after an
// edit stay silent unless the text was flagged.
func (m Model) handleSafetyResult(msg SafetyMsg) (tea.Model, tea.Cmd) {
	auto := m.safetyAuto
	m.safetyAuto = false

	if msg.Err != nil {
		if auto {
			m.deps.Logger.Warn("post-edit safety check failed", "error", msg.Err)
			return m, nil
		}
		m.addFriendlyError(msg.Err)
		return m, nil
	}

	if auto {
		if !msg.Verdict.Safe {
			note := theme.SymbolWarning + " The edited post was flagged"
			if len(msg.Verdict.BlockedCategories) > 0 {
				note += ": " + strings.Join(msg.Verdict.BlockedCategories, ", ")
			}
			m.addSystem(note + ". Review it before saving.")
		}
		return m, nil
	}

	m.modal.SetSize(m.width, m.height)
	m.modal.Open("Safety check", renderSafety(msg.Verdict))
	return m, nil
}

// handleHealthResult reports backend status. The silent startup probe only
// surfaces problems; /health always prints.
func (m Model) handleHealthResult(msg HealthMsg) (tea.Model, tea.Cmd) {
	requested := m.healthRequested
	m.healthRequested = false

	if msg.Err != nil {
		m.addFriendlyError(msg.Err)
		return m, nil
	}

	h := msg.Health
	if requested {
		m.addSystem(renderHealth(h))
	} else if !healthOK(h.Status) {
		m.addSystem(theme.SymbolWarning + " Backend reports status " + h.Status + ".")
	}
	return m, nil
}

// handleSlashCommand executes a slash command from the composer.
func (m Model) handleSlashCommand(cmd string, args []string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "/help":
		m.modal.SetSize(m.width, m.height)
		m.modal.Open("Help", helpText)
		return m, nil

	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	case "/new":
		m.deps.Studio.NewConversation()
		m.transcript.Clear()
		m.activity.Clear()
		m.cards.Clear()
		m.cardRefs = nil
		m.resolved = nil
		m.phaseBar.Reset()
		m.safetyNote = ""
		m.view = viewTranscript
		m.waiting = false
		m.awaitGen = false
		m.lastTopic = ""
		m.statusBar.Thread = ""
		m.statusBar.Extra = ""
		m.statusBar.Hints = defaultHints()
		m.addSystem(theme.SymbolSuccess + " Started a new conversation.")
		m.layout()
		return m, nil

	case "/stop":
		if m.waiting {
			m.stopGeneration()
		} else {
			m.addSystem("No active generation to stop.")
		}
		return m, nil

	case "/retry":
		if m.lastTopic == "" {
			m.addSystem("Nothing to retry yet.")
			return m, nil
		}
		m.beginGeneration(m.lastTopic)
		return m, retryCmd(m.deps.Studio)

	case "/refine":
		if len(args) < 2 {
			m.addSystem("Usage: /refine <platform> <feedback>")
			return m, nil
		}
		platform := strings.ToLower(args[0])
		if !validPlatform(platform) {
			m.addSystem("Unknown platform " + args[0] + ". Use linkedin, x or instagram.")
			return m, nil
		}
		feedback := strings.Join(args[1:], " ")
		m.beginGeneration(usecase.RefineMessage(platform, feedback))
		return m, refineCmd(m.deps.Studio, platform, feedback)

	case "/history":
		return m, historyCmd(m.deps.Studio)

	case "/resume":
		if len(args) < 1 {
			m.addSystem("Usage: /resume <id> (list ids with /history)")
			return m, nil
		}
		m.statusBar.Extra = theme.SymbolSpinner + " Resuming" + theme.SymbolEllipsis
		return m, resumeCmd(m.deps.Studio, args[0])

	case "/delete":
		if len(args) < 1 {
			m.addSystem("Usage: /delete <id> (list ids with /history)")
			return m, nil
		}
		return m, deleteConversationCmd(m.deps.Studio, args[0])

	case "/score":
		m.statusBar.Extra = theme.SymbolSpinner + " Scoring the current output" + theme.SymbolEllipsis
		return m, evaluateCmd(m.deps.Studio)

	case "/safety":
		text := strings.Join(args, " ")
		if text == "" {
			if snap, ok := m.deps.Studio.Current(); ok {
				text = snap.Content
			}
		}
		if strings.TrimSpace(text) == "" {
			m.addSystem("Nothing to check yet. Usage: /safety [text]")
			return m, nil
		}
		m.safetyAuto = false
		return m, safetyCmd(m.deps.Studio, text)

	case "/health":
		m.healthRequested = true
		return m, healthCmd(m.deps.Studio)

	case "/drafts":
		if len(args) >= 2 && (args[0] == "rm" || args[0] == "delete") {
			return m, deleteDraftCmd(m.deps.Studio, args[1])
		}
		return m, draftsCmd(m.deps.Studio)

	case "/save":
		return m, saveApprovedCmd(m.deps.Studio)

	case "/export":
		format := usecase.FormatMarkdown
		if len(args) > 0 {
			switch strings.ToLower(args[0]) {
			case "md", "markdown":
				format = usecase.FormatMarkdown
			case "json":
				format = usecase.FormatJSON
			default:
				m.addSystem("Unknown format " + args[0] + ". Use markdown or json.")
				return m, nil
			}
		}
		return m, exportCmd(m.deps.Studio, format)

	case "/platforms":
		platforms := splitList(args)
		if len(platforms) == 0 {
			m.addSystem("Usage: /platforms <p1,p2,...> (linkedin, x, instagram)")
			return m, nil
		}
		for _, p := range platforms {
			if !validPlatform(p) {
				m.addSystem("Unknown platform " + p + ". Use linkedin, x or instagram.")
				return m, nil
			}
		}
		m.scaffold.Platforms = platforms
		m.addSystem("Platforms set to " + strings.Join(platforms, ", ") + ".")
		return m, nil

	case "/type":
		if len(args) < 1 {
			m.addSystem("Usage: /type <content_type> (e.g. product_launch, thought_leadership)")
			return m, nil
		}
		m.scaffold.ContentType = strings.ToLower(strings.Join(args, "_"))
		m.addSystem("Content type set to " + m.scaffold.ContentType + ".")
		return m, nil

	case "/lang":
		if len(args) < 1 || (args[0] != domain.LanguageEnglish && args[0] != domain.LanguageJapanese) {
			m.addSystem("Usage: /lang <en|ja>")
			return m, nil
		}
		m.scaffold.Language = args[0]
		m.addSystem("Language set to " + args[0] + ".")
		return m, nil

	case "/bilingual":
		if len(args) < 1 {
			m.addSystem("Usage: /bilingual <off|parallel|combined>")
			return m, nil
		}
		switch strings.ToLower(args[0]) {
		case "off":
			m.scaffold.Bilingual = false
			m.scaffold.BilingualStyle = ""
			m.addSystem("Bilingual mode off.")
		case "on", domain.BilingualParallel:
			m.scaffold.Bilingual = true
			m.scaffold.BilingualStyle = domain.BilingualParallel
			m.addSystem("Bilingual mode on: one post per platform and language.")
		case domain.BilingualCombined:
			m.scaffold.Bilingual = true
			m.scaffold.BilingualStyle = domain.BilingualCombined
			m.addSystem("Bilingual mode on: both languages combined in each post.")
		default:
			m.addSystem("Usage: /bilingual <off|parallel|combined>")
		}
		return m, nil

	case "/effort":
		if len(args) < 1 {
			m.addSystem("Usage: /effort <low|medium|high>")
			return m, nil
		}
		switch args[0] {
		case domain.EffortLow, domain.EffortMedium, domain.EffortHigh:
			m.scaffold.ReasoningEffort = args[0]
			m.addSystem("Reasoning effort set to " + args[0] + ".")
		default:
			m.addSystem("Usage: /effort <low|medium|high>")
		}
		return m, nil

	case "/summary":
		if len(args) < 1 {
			m.addSystem("Usage: /summary <off|auto|concise|detailed>")
			return m, nil
		}
		switch args[0] {
		case domain.SummaryOff, domain.SummaryAuto, domain.SummaryConcise, domain.SummaryDetailed:
			m.scaffold.ReasoningSummary = args[0]
			m.addSystem("Reasoning summary set to " + args[0] + ".")
		default:
			m.addSystem("Usage: /summary <off|auto|concise|detailed>")
		}
		return m, nil

	case "/ab":
		if len(args) < 1 {
			m.addSystem("Usage: /ab <on|off>")
			return m, nil
		}
		switch strings.ToLower(args[0]) {
		case "on":
			m.scaffold.ABMode = true
			m.addSystem("A/B comparison on: each request produces two strategy variants.")
		case "off":
			m.scaffold.ABMode = false
			m.addSystem("A/B comparison off.")
		default:
			m.addSystem("Usage: /ab <on|off>")
		}
		return m, nil

	case "/settings":
		m.addSystem(settingsSummary(m.scaffold))
		return m, nil

	default:
		m.addSystem("Unknown command " + cmd + ". Type /help for the list.")
		return m, nil
	}
}

// phaseStates maps the derived phase set onto phase bar step states.
func phaseStates(set domain.PhaseSet) []components.PhaseStepState {
	states := make([]components.PhaseStepState, len(set))
	for i, s := range set {
		switch s {
		case domain.PhaseActive:
			states[i] = components.PhaseStepActive
		case domain.PhaseCompleted:
			states[i] = components.PhaseStepCompleted
		default:
			states[i] = components.PhaseStepPending
		}
	}
	return states
}

func safetyBanner(v *domain.SafetyVerdict) string {
	note := theme.SymbolWarning + " Safety: content was flagged"
	if len(v.BlockedCategories) > 0 {
		note += " (" + strings.Join(v.BlockedCategories, ", ") + ")"
	}
	return note
}

func validPlatform(p string) bool {
	switch p {
	case domain.PlatformLinkedIn, domain.PlatformX, domain.PlatformInstagram:
		return true
	}
	return false
}

// splitList flattens comma- and space-separated arguments into one
// lowercased list.
func splitList(args []string) []string {
	var out []string
	for _, a := range args {
		for _, p := range strings.Split(a, ",") {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func healthOK(status string) bool {
	return strings.EqualFold(status, "healthy") || strings.EqualFold(status, "ok")
}

// renderScores formats evaluation results for the modal.
func renderScores(width int, s *domain.EvaluationScores) string {
	if s.Error != "" {
		return components.RenderScorecard(width, nil, s.Error)
	}
	entries := []components.ScoreEntry{
		{Label: "Relevance", Value: s.Relevance, Reason: s.RelevanceReason},
		{Label: "Coherence", Value: s.Coherence, Reason: s.CoherenceReason},
		{Label: "Fluency", Value: s.Fluency, Reason: s.FluencyReason},
		{Label: "Groundedness", Value: s.Groundedness, Reason: s.GroundednessReason},
	}
	return components.RenderScorecard(width, entries, "")
}

// renderSafety formats a moderation verdict for the modal.
func renderSafety(v *domain.SafetyVerdict) string {
	var sb strings.Builder
	if v.Safe {
		sb.WriteString(theme.TextSuccess.Render(theme.SymbolSuccess + " Content passed the safety check."))
	} else {
		sb.WriteString(theme.TextWarning.Render(theme.SymbolWarning + " Content was flagged."))
	}
	if len(v.BlockedCategories) > 0 {
		sb.WriteString("\n\nBlocked categories: " + strings.Join(v.BlockedCategories, ", "))
	}
	if v.Summary != "" {
		sb.WriteString("\n\n" + v.Summary)
	}
	if len(v.Categories) > 0 {
		keys := make([]string, 0, len(v.Categories))
		for k := range v.Categories {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("\n\nSeverity by category:")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("\n  %s %s: %d", theme.SymbolBullet, k, v.Categories[k]))
		}
	}
	return sb.String()
}

// renderHealth formats the backend probe result as a single notice line.
func renderHealth(h *domain.HealthStatus) string {
	symbol := theme.TextSuccess.Render(theme.SymbolSuccess)
	if !healthOK(h.Status) {
		symbol = theme.TextWarning.Render(theme.SymbolWarning)
	}
	line := symbol + " Backend " + h.Status
	var details []string
	if h.Service != "" {
		details = append(details, h.Service)
	}
	if h.Version != "" {
		details = append(details, "v"+h.Version)
	}
	if h.ContentSafety != "" {
		details = append(details, "safety "+h.ContentSafety)
	}
	if len(details) > 0 {
		line += " " + theme.Dim.Render("("+strings.Join(details, ", ")+")")
	}
	return line
}

// renderDrafts formats the saved drafts list for the modal.
func renderDrafts(drafts []domain.Draft) string {
	if len(drafts) == 0 {
		return theme.TextMuted.Render("No drafts saved yet. Approve cards in browse mode and run /save.")
	}

	var sb strings.Builder
	for i, d := range drafts {
		if i > 0 {
			sb.WriteString("\n")
		}
		head := displayPlatform(d.Platform)
		if d.Language != "" {
			head += " (" + d.Language + ")"
		}
		if d.Variant != "" {
			head = strings.ToUpper(d.Variant) + " " + theme.SymbolBullet + " " + head
		}
		sb.WriteString(theme.Bold.Render(head) + "  " + theme.Timestamp.Render(components.RelativeTime(d.ApprovedAt)) + "\n")
		sb.WriteString(runeTruncate(d.Body, 220) + "\n")
		if len(d.Hashtags) > 0 {
			sb.WriteString(theme.TextInfo.Render(strings.Join(d.Hashtags, " ")) + "\n")
		}
		sb.WriteString(theme.Dim.Render("id: "+d.ID) + "\n")
	}
	sb.WriteString("\n" + theme.Dim.Render("Remove one with /drafts rm <id>"))
	return sb.String()
}

func runeTruncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + theme.SymbolEllipsis
}

// settingsSummary prints the request scaffold applied to submissions.
func settingsSummary(req domain.GenerateRequest) string {
	platforms := strings.Join(req.Platforms, ", ")
	if platforms == "" {
		platforms = strings.Join(domain.DefaultPlatforms, ", ")
	}
	bilingual := "off"
	if req.Bilingual {
		bilingual = req.BilingualStyle
		if bilingual == "" {
			bilingual = domain.BilingualParallel
		}
	}
	ab := "off"
	if req.ABMode {
		ab = "on"
	}
	return "Request defaults:\n" +
		"  platforms: " + platforms + "\n" +
		"  content type: " + fallback(req.ContentType, domain.DefaultContentType) + "\n" +
		"  language: " + fallback(req.Language, domain.LanguageEnglish) + "\n" +
		"  reasoning effort: " + fallback(req.ReasoningEffort, domain.EffortMedium) + "\n" +
		"  reasoning summary: " + fallback(req.ReasoningSummary, domain.SummaryAuto) + "\n" +
		"  bilingual: " + bilingual + "\n" +
		"  a/b mode: " + ab
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

const helpText = `Commands:
  /new                      Start a new conversation
  /stop                     Stop the active generation
  /retry                    Resubmit the last request
  /refine <platform> <fb>   Ask for a targeted revision
  /history                  Browse stored conversations
  /resume <id>              Resume a stored conversation
  /delete <id>              Delete a stored conversation
  /score                    Evaluate the current output
  /safety [text]            Safety-check text (default: current output)
  /health                   Check backend status
  /drafts [rm <id>]         List or remove saved drafts
  /save                     Save approved posts as drafts
  /export [markdown|json]   Export the current output
  /platforms <p1,p2>        Set target platforms
  /type <content_type>      Set the campaign type
  /lang <en|ja>             Set the output language
  /bilingual <off|parallel|combined>
  /effort <low|medium|high>
  /summary <off|auto|concise|detailed>
  /ab <on|off>              A/B comparison mode
  /settings                 Show current request defaults
  /quit                     Exit

Keys:
  Enter       Send topic or feedback
  Alt+Enter   Insert newline
  Esc         Stop the stream, or enter browse mode
  Ctrl+O      Toggle transcript / content view
  Ctrl+T      Toggle the activity pane
  Tab         Switch pane focus
  Ctrl+R      Retry the last request
  Ctrl+N      New conversation
  PgUp/PgDn   Scroll
  Ctrl+C      Stop / quit

Browse mode (enter with Esc, leave with i):
  j/k         Move between cards, or scroll the transcript
  a           Approve / unapprove the selected card
  e           Edit the selected card body
  r           Request a revision of the selected card
  s           Save approved cards as drafts
  Enter       Open the selected card's details
  o           Toggle transcript / content view
  g/G         Jump to top / bottom`
