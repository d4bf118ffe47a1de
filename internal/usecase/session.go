package usecase

import (
	"sync"
	"unicode/utf8"

	"social-studio/internal/domain"
)

// Default buffer bounds for one streaming session. The producer does not
// bound its output, so the client caps its own memory: content and
// reasoning keep the newest bytes (the payload and the current thinking
// both live at the end), the tool log keeps the newest events.
const (
	defaultMaxContentBytes   = 2 << 20   // 2 MiB
	defaultMaxReasoningBytes = 512 << 10 // 512 KiB
	defaultMaxToolEvents     = 256
)

// SessionLimits bounds the in-memory buffers of one streaming session.
// Zero values take the package defaults.
type SessionLimits struct {
	MaxContentBytes   int
	MaxReasoningBytes int
	MaxToolEvents     int
	PhaseTailWindow   int
}

func (l SessionLimits) withDefaults() SessionLimits {
	if l.MaxContentBytes <= 0 {
		l.MaxContentBytes = defaultMaxContentBytes
	}
	if l.MaxReasoningBytes <= 0 {
		l.MaxReasoningBytes = defaultMaxReasoningBytes
	}
	if l.MaxToolEvents <= 0 {
		l.MaxToolEvents = defaultMaxToolEvents
	}
	if l.PhaseTailWindow <= 0 {
		l.PhaseTailWindow = defaultPhaseTailWindow
	}
	return l
}

// SessionState owns the cumulative buffers of one generation session.
// Updates are applied in arrival order; snapshots are taken at flush
// cadence. A fresh SessionState is created per submission, so a
// superseded session's goroutine only ever mutates its own orphaned
// state and can never leak into the successor.
type SessionState struct {
	mu     sync.Mutex
	limits SessionLimits

	content            string
	reasoning          string
	contentTruncated   bool
	reasoningTruncated bool

	toolEvents   []domain.ToolEvent
	droppedTools int
	totalTools   int

	images   map[string]string
	threadID string
	safety   *domain.SafetyVerdict

	// phaseWater and sawEvidence keep phase display monotonic: reasoning
	// snapshots replace the transcript, so keyword evidence can vanish
	// from the live buffers after front truncation or a shorter snapshot.
	phaseWater  int
	sawEvidence bool

	errMsg  string
	done    bool
	aborted bool
}

// NewSessionState creates an empty session state with the given limits.
func NewSessionState(limits SessionLimits) *SessionState {
	return &SessionState{
		limits: limits.withDefaults(),
		images: make(map[string]string),
	}
}

// Apply merges one parsed update into the session buffers. Merge rules
// per field: cumulative text adopts the producer transcript wholesale
// while raw deltas append; reasoning snapshots replace; tool events
// accumulate; images merge by platform, last value per key wins; thread
// id, safety and error are last-write-wins.
func (s *SessionState) Apply(update domain.StreamUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An aborted session is frozen; late updates from the superseded
	// stream must not mutate it.
	if s.aborted {
		return
	}

	if update.Text != "" {
		if update.TextCumulative {
			s.content = update.Text
		} else {
			s.content += update.Text
		}
		if len(s.content) > s.limits.MaxContentBytes {
			s.content = keepNewestBytes(s.content, s.limits.MaxContentBytes)
			s.contentTruncated = true
		}
	}

	if update.Reasoning != nil {
		s.reasoning = *update.Reasoning
		s.reasoningTruncated = false
		if len(s.reasoning) > s.limits.MaxReasoningBytes {
			s.reasoning = keepNewestBytes(s.reasoning, s.limits.MaxReasoningBytes)
			s.reasoningTruncated = true
		}
	}

	if len(update.ToolEvents) > 0 {
		s.totalTools += len(update.ToolEvents)
		s.toolEvents = append(s.toolEvents, update.ToolEvents...)
		if overflow := len(s.toolEvents) - s.limits.MaxToolEvents; overflow > 0 {
			s.toolEvents = append(s.toolEvents[:0:0], s.toolEvents[overflow:]...)
			s.droppedTools += overflow
		}
	}

	if update.Image != nil && update.Image.Platform != "" {
		s.images[update.Image.Platform] = update.Image.Base64
	}

	if update.ThreadID != "" {
		s.threadID = update.ThreadID
	}
	if update.Safety != nil {
		verdict := *update.Safety
		s.safety = &verdict
	}
	if update.ErrorMessage != "" {
		s.errMsg = update.ErrorMessage
	}
	if update.Done {
		s.done = true
	}
}

// MarkAborted records a user-initiated abort. Not an error: content
// already applied stays visible.
func (s *SessionState) MarkAborted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborted = true
}

// MarkInterrupted records a stream that ended without a terminal frame.
func (s *SessionState) MarkInterrupted(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done && !s.aborted && s.errMsg == "" {
		s.errMsg = message
	}
}

// ThreadID returns the conversation thread id assigned by the backend.
func (s *SessionState) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// Snapshot derives the externally visible state: copies of the buffers
// plus the phase set and, when the text contains a valid payload, the
// resolved structured output with generated images merged in. Phase
// progress is clamped to its high-water mark, so consecutive snapshots
// never show a completed phase regressing.
func (s *SessionState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := !s.done && !s.aborted && s.errMsg == ""

	snap := Snapshot{
		ThreadID:           s.threadID,
		Content:            s.content,
		Reasoning:          s.reasoning,
		ContentTruncated:   s.contentTruncated,
		ReasoningTruncated: s.reasoningTruncated,
		DroppedToolEvents:  s.droppedTools,
		ErrorMessage:       s.errMsg,
		Done:               s.done,
		Aborted:            s.aborted,
		Active:             active,
	}

	snap.ToolEvents = make([]domain.ToolEvent, len(s.toolEvents))
	copy(snap.ToolEvents, s.toolEvents)

	snap.Images = make(map[string]string, len(s.images))
	for platform, payload := range s.images {
		snap.Images[platform] = payload
	}

	if s.safety != nil {
		verdict := *s.safety
		snap.Safety = &verdict
	}

	if s.reasoning != "" || s.totalTools > 0 {
		s.sawEvidence = true
	}
	if idx := activePhaseIndex(s.reasoning, s.totalTools, s.limits.PhaseTailWindow); idx > s.phaseWater {
		s.phaseWater = idx
	}
	snap.Phases = phasesForIndex(s.phaseWater, s.sawEvidence, s.content != "", active)

	if resolved := Resolve(s.content); resolved != nil {
		snap.Resolved = MergeImages(resolved, snap.Images)
	}

	return snap
}

// Snapshot is one externally visible view of a session, produced at
// flush cadence. All slices and maps are copies; consumers may retain it.
type Snapshot struct {
	ThreadID           string
	Content            string
	Reasoning          string
	ContentTruncated   bool
	ReasoningTruncated bool
	ToolEvents         []domain.ToolEvent
	DroppedToolEvents  int
	Images             map[string]string
	Safety             *domain.SafetyVerdict
	Phases             domain.PhaseSet
	Resolved           *domain.ResolvedOutput
	ErrorMessage       string
	Done               bool
	Aborted            bool
	Active             bool
}

// keepNewestBytes trims s from the front to at most max bytes, aligned to
// a rune boundary so a multi-byte character is never torn.
func keepNewestBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	idx := len(s) - max
	for idx < len(s) && !utf8.RuneStart(s[idx]) {
		idx++
	}
	return s[idx:]
}
