package usecase

import (
	"context"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"social-studio/internal/domain"
	"social-studio/internal/infra/tracer"
)

const (
	// defaultFlushInterval bounds how often buffered updates become
	// visible during bursty token streams.
	defaultFlushInterval = 120 * time.Millisecond

	// eventBuffer sizes the published event channel. The TUI bridge
	// drains continuously; the buffer only absorbs short stalls.
	eventBuffer = 64

	// terminalEmitTimeout bounds how long a terminal event waits for a
	// slow consumer before being dropped with a warning.
	terminalEmitTimeout = time.Second

	// streamEndedEarlyMessage is shown when the stream closes without a
	// terminal frame. Same register as a producer-reported error.
	streamEndedEarlyMessage = "The agent stopped before finishing the response. Please try again."
)

// AgentClient is the backend surface the studio consumes.
type AgentClient interface {
	GenerateStream(ctx context.Context, req domain.GenerateRequest) (<-chan domain.StreamUpdate, error)
	ListConversations(ctx context.Context) ([]domain.ConversationSummary, error)
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.EvaluationScores, error)
	CheckSafety(ctx context.Context, req domain.SafetyRequest) (*domain.SafetyVerdict, error)
	Health(ctx context.Context) (*domain.HealthStatus, error)
}

// DraftStore persists approved content items locally.
type DraftStore interface {
	Save(ctx context.Context, draft domain.Draft) error
	List(ctx context.Context) ([]domain.Draft, error)
	Delete(ctx context.Context, id string) error
}

// EventKind classifies published studio events.
type EventKind int

const (
	// EventSnapshot is a coalesced mid-stream state flush.
	EventSnapshot EventKind = iota
	// EventCompleted ends a session after the producer's done frame.
	EventCompleted
	// EventErrored ends a session after a producer or transport error.
	EventErrored
	// EventAborted ends a session after a user abort.
	EventAborted
)

func (k EventKind) String() string {
	switch k {
	case EventSnapshot:
		return "snapshot"
	case EventCompleted:
		return "completed"
	case EventErrored:
		return "errored"
	case EventAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Event is one published state change. Gen identifies the submission it
// belongs to; consumers drop events whose generation is not their current
// one, mirroring the stale-drop check the studio itself applies on emit.
type Event struct {
	Kind     EventKind
	Gen      uint64
	Snapshot Snapshot
}

// StudioDeps holds injected dependencies for the studio.
type StudioDeps struct {
	Agent         AgentClient
	Drafts        DraftStore // optional, nil = approvals are not persisted
	Exporter      *Exporter
	Logger        *slog.Logger
	FlushInterval time.Duration
	Limits        SessionLimits
}

// Studio owns the generation lifecycle: one active session at a time, from
// submit until it settles as completed, errored or aborted.
// Review state and one-shot backend calls hang off the same facade so the
// UI deals with a single object.
type Studio struct {
	deps   StudioDeps
	events chan Event
	board  *ReviewBoard

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	session  *SessionState
	lastReq  *domain.GenerateRequest
	threadID string
}

// NewStudio creates a studio with the given dependencies.
func NewStudio(deps StudioDeps) *Studio {
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = defaultFlushInterval
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Studio{
		deps:   deps,
		events: make(chan Event, eventBuffer),
		board:  NewReviewBoard(),
	}
}

// Events returns the published event stream. The channel is never closed;
// it goes quiet when no session is active.
func (s *Studio) Events() <-chan Event { return s.events }

// Board returns the review state for the current output. It is reset on
// every submission.
func (s *Studio) Board() *ReviewBoard { return s.board }

// Submit starts a new generation session. A session still streaming is
// aborted first; its remaining updates are discarded by generation checks
// on both ends. The returned generation number tags every event the new
// session emits. An empty ThreadID continues the studio's current thread.
func (s *Studio) Submit(req domain.GenerateRequest) (uint64, error) {
	const op = "Studio.Submit"

	req.Normalize()
	if err := req.Validate(); err != nil {
		return 0, domain.WrapOp(op, err)
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.session != nil {
		s.session.MarkAborted()
	}
	s.gen++
	gen := s.gen
	if req.ThreadID == "" {
		req.ThreadID = s.threadID
	}
	stored := req
	stored.Platforms = slices.Clone(req.Platforms)
	s.lastReq = &stored
	sess := NewSessionState(s.deps.Limits)
	s.session = sess
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	s.board.Reset()

	ctx, span := tracer.StartSpan(runCtx, "studio.submit",
		trace.WithAttributes(
			tracer.IntAttr("platforms", len(req.Platforms)),
			tracer.BoolAttr("ab_mode", req.ABMode),
			tracer.BoolAttr("continuation", req.ThreadID != ""),
		),
	)
	defer span.End()

	updates, err := s.deps.Agent.GenerateStream(ctx, req)
	if err != nil {
		tracer.RecordError(span, err)
		s.mu.Lock()
		if s.gen == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
		return 0, domain.WrapOp(op, err)
	}
	tracer.SetOK(span)

	s.deps.Logger.Info("generation started",
		"gen", gen,
		"platforms", req.Platforms,
		"ab_mode", req.ABMode,
		"thread_id", req.ThreadID,
	)

	go s.consume(gen, sess, updates, cancel)
	return gen, nil
}

// Stop aborts the active session. Synchronous: once it returns the session
// is frozen and no further snapshots for it are delivered. Aborting is not
// an error; content already applied stays visible.
func (s *Studio) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	sess := s.session
	gen := s.gen
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil || sess == nil {
		return
	}

	sess.MarkAborted()
	cancel()

	snap := sess.Snapshot()
	if !snap.Done && snap.ErrorMessage == "" {
		s.emit(Event{Kind: EventAborted, Gen: gen, Snapshot: snap})
	}
	s.deps.Logger.Info("generation aborted", "gen", gen)
}

// Retry resubmits the last request unchanged.
func (s *Studio) Retry() (uint64, error) {
	s.mu.Lock()
	last := s.lastReq
	s.mu.Unlock()
	if last == nil {
		return 0, domain.NewDomainError("Studio.Retry", domain.ErrNoLastRequest, "")
	}
	return s.Submit(*last)
}

// Refine resubmits the last request with an instruction addressed to one
// platform's post, continuing the same thread so the agent sees its own
// previous output.
func (s *Studio) Refine(platform, feedback string) (uint64, error) {
	const op = "Studio.Refine"

	s.mu.Lock()
	last := s.lastReq
	s.mu.Unlock()
	if last == nil {
		return 0, domain.NewDomainError(op, domain.ErrNoLastRequest, "")
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return 0, domain.NewDomainError(op, domain.ErrInvalidInput, "empty feedback")
	}

	req := *last
	req.Platforms = slices.Clone(last.Platforms)
	req.Message = RefineMessage(platform, feedback)
	return s.Submit(req)
}

// RefineMessage synthesizes the instruction a refine request sends.
func RefineMessage(platform, feedback string) string {
	if platform == "" {
		return "Please refine the content based on this feedback: " + feedback
	}
	return "Please refine the " + platformTitle(platform) +
		" post based on this feedback: " + feedback +
		". Keep the other platforms unchanged."
}

// NewConversation aborts any active session and clears the thread so the
// next submission starts a fresh conversation.
func (s *Studio) NewConversation() {
	s.Stop()

	s.mu.Lock()
	s.gen++
	s.threadID = ""
	s.lastReq = nil
	s.session = nil
	s.mu.Unlock()

	s.board.Reset()
}

// Current returns the latest snapshot of the active or most recently
// settled session, if any.
func (s *Studio) Current() (Snapshot, bool) {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess == nil {
		return Snapshot{}, false
	}
	return sess.Snapshot(), true
}

// Running reports whether a session is currently streaming.
func (s *Studio) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// ThreadID returns the conversation thread the next submission continues.
func (s *Studio) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// consume applies stream updates to the session and publishes coalesced
// snapshots. The limiter passes sparse updates through immediately; the
// ticker flushes whatever a burst left pending. Terminal state is
// published as soon as the channel closes.
func (s *Studio) consume(gen uint64, sess *SessionState, updates <-chan domain.StreamUpdate, cancel context.CancelFunc) {
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(s.deps.FlushInterval), 1)
	ticker := time.NewTicker(s.deps.FlushInterval)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case upd, ok := <-updates:
			if !ok {
				s.finish(gen, sess)
				return
			}
			sess.Apply(upd)
			if upd.ThreadID != "" {
				s.adoptThread(gen, upd.ThreadID)
			}
			dirty = true
			if limiter.Allow() && s.emitSnapshot(gen, sess) {
				dirty = false
			}
		case <-ticker.C:
			if dirty && s.emitSnapshot(gen, sess) {
				dirty = false
			}
		}
	}
}

// finish settles a session whose update channel has closed and publishes
// its terminal event. Aborted sessions were already settled by Stop or by
// the submission that superseded them.
func (s *Studio) finish(gen uint64, sess *SessionState) {
	snap := sess.Snapshot()

	var kind EventKind
	switch {
	case snap.Aborted:
		return
	case snap.Done:
		kind = EventCompleted
	case snap.ErrorMessage != "":
		kind = EventErrored
	default:
		// Stream closed without a terminal frame.
		sess.MarkInterrupted(streamEndedEarlyMessage)
		snap = sess.Snapshot()
		kind = EventErrored
	}

	s.emit(Event{Kind: kind, Gen: gen, Snapshot: snap})
	s.deps.Logger.Debug("generation settled",
		"gen", gen,
		"kind", kind.String(),
		"thread_id", snap.ThreadID,
		"tool_events", len(snap.ToolEvents),
		"resolved", snap.Resolved != nil,
	)

	s.mu.Lock()
	if s.gen == gen {
		s.cancel = nil
	}
	s.mu.Unlock()
}

// adoptThread records the backend-assigned thread id as soon as it appears
// so follow-up submissions continue the conversation even if the session
// is later aborted.
func (s *Studio) adoptThread(gen uint64, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.threadID = id
	}
}

func (s *Studio) emitSnapshot(gen uint64, sess *SessionState) bool {
	snap := sess.Snapshot()
	if snap.Aborted {
		// Stop already published this session's terminal event and the
		// session is frozen; a late flush would follow it.
		return true
	}
	return s.emit(Event{Kind: EventSnapshot, Gen: gen, Snapshot: snap})
}

// emit publishes one event, dropping it when its generation is stale. A
// full buffer drops snapshots silently (a newer one follows); terminal
// events wait briefly for the consumer before giving up.
func (s *Studio) emit(ev Event) bool {
	s.mu.Lock()
	current := s.gen == ev.Gen
	s.mu.Unlock()
	if !current {
		return false
	}

	select {
	case s.events <- ev:
		return true
	default:
	}
	if ev.Kind == EventSnapshot {
		return false
	}

	t := time.NewTimer(terminalEmitTimeout)
	defer t.Stop()
	select {
	case s.events <- ev:
		return true
	case <-t.C:
		s.deps.Logger.Warn("terminal event dropped, consumer not draining",
			"kind", ev.Kind.String(), "gen", ev.Gen)
		return false
	}
}

// Conversations lists stored conversation summaries.
func (s *Studio) Conversations(ctx context.Context) ([]domain.ConversationSummary, error) {
	ctx, span := tracer.StartSpan(ctx, "studio.conversations")
	defer span.End()

	out, err := s.deps.Agent.ListConversations(ctx)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	tracer.SetOK(span)
	return out, nil
}

// Conversation fetches one stored conversation with full history.
func (s *Studio) Conversation(ctx context.Context, id string) (*domain.Conversation, error) {
	ctx, span := tracer.StartSpan(ctx, "studio.conversation")
	defer span.End()

	conv, err := s.deps.Agent.GetConversation(ctx, id)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	tracer.SetOK(span)
	return conv, nil
}

// DeleteConversation removes a stored conversation. Deleting the thread
// the studio is on clears it, so the next submission starts fresh.
func (s *Studio) DeleteConversation(ctx context.Context, id string) error {
	ctx, span := tracer.StartSpan(ctx, "studio.delete_conversation")
	defer span.End()

	if err := s.deps.Agent.DeleteConversation(ctx, id); err != nil {
		tracer.RecordError(span, err)
		return err
	}
	tracer.SetOK(span)

	s.mu.Lock()
	if s.threadID == id {
		s.threadID = ""
	}
	s.mu.Unlock()
	return nil
}

// Resume fetches a stored conversation and makes it the studio's current
// thread. Any active session is aborted; the next submission continues
// the resumed conversation.
func (s *Studio) Resume(ctx context.Context, id string) (*domain.Conversation, error) {
	conv, err := s.Conversation(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Stop()
	s.mu.Lock()
	s.gen++
	s.threadID = conv.ID
	s.lastReq = nil
	s.session = nil
	s.mu.Unlock()
	s.board.Reset()

	s.deps.Logger.Info("conversation resumed", "thread_id", conv.ID, "messages", len(conv.Messages))
	return conv, nil
}

// Evaluate scores an arbitrary query/response pair.
func (s *Studio) Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.EvaluationScores, error) {
	ctx, span := tracer.StartSpan(ctx, "studio.evaluate")
	defer span.End()

	scores, err := s.deps.Agent.Evaluate(ctx, req)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	tracer.SetOK(span)
	return scores, nil
}

// EvaluateCurrent scores the current session's output against the request
// that produced it.
func (s *Studio) EvaluateCurrent(ctx context.Context) (*domain.EvaluationScores, error) {
	const op = "Studio.EvaluateCurrent"

	s.mu.Lock()
	last := s.lastReq
	sess := s.session
	s.mu.Unlock()
	if last == nil || sess == nil {
		return nil, domain.NewDomainError(op, domain.ErrNoOutput, "nothing to evaluate")
	}
	snap := sess.Snapshot()
	if snap.Content == "" {
		return nil, domain.NewDomainError(op, domain.ErrNoOutput, "empty response")
	}

	return s.Evaluate(ctx, domain.EvaluationRequest{
		Query:    last.Message,
		Response: snap.Content,
	})
}

// CheckSafety moderates a piece of text, typically an edited body before
// approval.
func (s *Studio) CheckSafety(ctx context.Context, text string) (*domain.SafetyVerdict, error) {
	ctx, span := tracer.StartSpan(ctx, "studio.check_safety")
	defer span.End()

	verdict, err := s.deps.Agent.CheckSafety(ctx, domain.SafetyRequest{Text: text})
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	tracer.SetOK(span)
	return verdict, nil
}

// Health probes the backend.
func (s *Studio) Health(ctx context.Context) (*domain.HealthStatus, error) {
	return s.deps.Agent.Health(ctx)
}

// SaveApproved persists every approved item of the current output, with
// edits applied, to the drafts store. Returns the number saved.
func (s *Studio) SaveApproved(ctx context.Context) (int, error) {
	const op = "Studio.SaveApproved"

	if s.deps.Drafts == nil {
		return 0, domain.NewDomainError(op, domain.ErrDraftStore, "no draft store configured")
	}

	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess == nil {
		return 0, domain.NewDomainError(op, domain.ErrNoOutput, "")
	}
	snap := sess.Snapshot()
	if snap.Resolved == nil {
		return 0, domain.NewDomainError(op, domain.ErrNoOutput, "")
	}

	items := s.board.ApprovedItems(snap.Resolved)
	if len(items) == 0 {
		return 0, nil
	}

	ctx, span := tracer.StartSpan(ctx, "studio.save_approved",
		trace.WithAttributes(tracer.IntAttr("items", len(items))),
	)
	defer span.End()

	now := time.Now().UTC()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	saved := 0
	for _, it := range items {
		draft := domain.Draft{
			ID:           ulid.MustNew(ulid.Timestamp(now), entropy).String(),
			ThreadID:     snap.ThreadID,
			Variant:      it.Variant,
			Platform:     it.Item.Platform,
			Language:     it.Item.Language,
			Body:         it.Item.Body,
			Hashtags:     slices.Clone(it.Item.Hashtags),
			CallToAction: it.Item.CallToAction,
			PostingTime:  it.Item.PostingTime,
			ApprovedAt:   now,
		}
		if err := s.deps.Drafts.Save(ctx, draft); err != nil {
			tracer.RecordError(span, err)
			return saved, domain.WrapOp(op, err)
		}
		saved++
	}

	tracer.SetOK(span)
	s.deps.Logger.Info("approved items saved", "count", saved, "thread_id", snap.ThreadID)
	return saved, nil
}

// Drafts lists previously saved drafts.
func (s *Studio) Drafts(ctx context.Context) ([]domain.Draft, error) {
	const op = "Studio.Drafts"
	if s.deps.Drafts == nil {
		return nil, domain.NewDomainError(op, domain.ErrDraftStore, "no draft store configured")
	}
	return s.deps.Drafts.List(ctx)
}

// DeleteDraft removes one saved draft.
func (s *Studio) DeleteDraft(ctx context.Context, id string) error {
	const op = "Studio.DeleteDraft"
	if s.deps.Drafts == nil {
		return domain.NewDomainError(op, domain.ErrDraftStore, "no draft store configured")
	}
	return s.deps.Drafts.Delete(ctx, id)
}

// Export renders the current output, with edits applied, to a file in the
// configured export directory and returns its path.
func (s *Studio) Export(format ExportFormat) (string, error) {
	const op = "Studio.Export"

	if s.deps.Exporter == nil {
		return "", domain.NewDomainError(op, domain.ErrExportFailed, "no exporter configured")
	}

	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess == nil {
		return "", domain.NewDomainError(op, domain.ErrNoOutput, "")
	}
	snap := sess.Snapshot()
	if snap.Resolved == nil {
		return "", domain.NewDomainError(op, domain.ErrNoOutput, "")
	}

	out := s.board.ApplyOverrides(snap.Resolved)
	path, err := s.deps.Exporter.Write(out, format)
	if err != nil {
		return "", domain.WrapOp(op, err)
	}
	s.deps.Logger.Info("output exported", "path", path, "format", string(format))
	return path, nil
}
