package usecase

import (
	"strings"
	"sync"

	"social-studio/internal/domain"
)

// ReviewStatus is the presentation state of one content item.
type ReviewStatus int

const (
	StatusUnreviewed ReviewStatus = iota
	StatusApproved
	StatusEditing
	StatusRefineRequested
)

func (s ReviewStatus) String() string {
	switch s {
	case StatusApproved:
		return "approved"
	case StatusEditing:
		return "editing"
	case StatusRefineRequested:
		return "refine-requested"
	default:
		return "unreviewed"
	}
}

// ItemKey identifies one content item across re-renders. Variant is ""
// for single output, "a" or "b" in comparison mode; Language is set only
// in bilingual mode where each platform appears once per language.
type ItemKey struct {
	Variant  string
	Platform string
	Language string
}

// KeyForItem builds the key for an item within a variant.
func KeyForItem(variant string, item domain.ContentItem) ItemKey {
	return ItemKey{
		Variant:  strings.ToLower(variant),
		Platform: strings.ToLower(item.Platform),
		Language: strings.ToLower(item.Language),
	}
}

type itemState struct {
	status      ReviewStatus
	prior       ReviewStatus // state to restore when editing/refine ends
	override    string
	hasOverride bool
}

// ReviewBoard tracks per-item review state on top of resolved output.
// The resolved output itself is derived from the stream and replaced on
// every flush; the board keys its state by item identity so approvals
// and edits survive re-resolution.
type ReviewBoard struct {
	mu    sync.Mutex
	items map[ItemKey]*itemState
}

// NewReviewBoard creates an empty board.
func NewReviewBoard() *ReviewBoard {
	return &ReviewBoard{items: make(map[ItemKey]*itemState)}
}

// Reset drops all item state. Called on every new submission.
func (b *ReviewBoard) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make(map[ItemKey]*itemState)
}

// Status returns the current state of an item.
func (b *ReviewBoard) Status(key ItemKey) ReviewStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	if st, ok := b.items[key]; ok {
		return st.status
	}
	return StatusUnreviewed
}

func (b *ReviewBoard) state(key ItemKey) *itemState {
	if st, ok := b.items[key]; ok {
		return st
	}
	st := &itemState{}
	b.items[key] = st
	return st
}

// ToggleApproved flips an item between unreviewed and approved. The
// toggle is idempotent in the round-trip sense: invoking it twice lands
// back where it started. Items mid-edit or mid-refine are left alone.
func (b *ReviewBoard) ToggleApproved(key ItemKey) ReviewStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state(key)
	switch st.status {
	case StatusUnreviewed:
		st.status = StatusApproved
	case StatusApproved:
		st.status = StatusUnreviewed
	}
	return st.status
}

// BeginEdit puts an item into editing. Allowed from unreviewed and
// approved; the prior state is restored on save or cancel.
func (b *ReviewBoard) BeginEdit(key ItemKey) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state(key)
	if st.status != StatusUnreviewed && st.status != StatusApproved {
		return false
	}
	st.prior = st.status
	st.status = StatusEditing
	return true
}

// SaveEdit ends editing, keeping body as the item's override.
func (b *ReviewBoard) SaveEdit(key ItemKey, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state(key)
	if st.status != StatusEditing {
		return
	}
	st.override = body
	st.hasOverride = true
	st.status = st.prior
}

// CancelEdit ends editing, discarding the in-progress body.
func (b *ReviewBoard) CancelEdit(key ItemKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state(key)
	if st.status != StatusEditing {
		return
	}
	st.status = st.prior
}

// BeginRefine marks an item as collecting refine feedback. Allowed from
// any non-editing state.
func (b *ReviewBoard) BeginRefine(key ItemKey) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state(key)
	if st.status == StatusEditing {
		return false
	}
	if st.status != StatusRefineRequested {
		st.prior = st.status
	}
	st.status = StatusRefineRequested
	return true
}

// EndRefine leaves the refine-requested state, both on submit (the
// feedback travels upward as a new request) and on cancel.
func (b *ReviewBoard) EndRefine(key ItemKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state(key)
	if st.status != StatusRefineRequested {
		return
	}
	st.status = st.prior
}

// Override returns the edited body for an item, if one was saved.
func (b *ReviewBoard) Override(key ItemKey) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if st, ok := b.items[key]; ok && st.hasOverride {
		return st.override, true
	}
	return "", false
}

// ApplyOverrides returns a copy of out with saved edits substituted into
// the matching items' bodies. out is never mutated.
func (b *ReviewBoard) ApplyOverrides(out *domain.ResolvedOutput) *domain.ResolvedOutput {
	if out == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	applied := &domain.ResolvedOutput{Kind: out.Kind}
	switch out.Kind {
	case domain.OutputSingle:
		if out.Single != nil {
			single := *out.Single
			single.Contents = b.overrideItems("", out.Single.Contents)
			applied.Single = &single
		}
	case domain.OutputComparison:
		if out.Comparison != nil {
			comparison := *out.Comparison
			comparison.VariantA.Contents = b.overrideItems("a", out.Comparison.VariantA.Contents)
			comparison.VariantB.Contents = b.overrideItems("b", out.Comparison.VariantB.Contents)
			applied.Comparison = &comparison
		}
	}
	return applied
}

func (b *ReviewBoard) overrideItems(variant string, items []domain.ContentItem) []domain.ContentItem {
	if items == nil {
		return nil
	}
	out := make([]domain.ContentItem, len(items))
	copy(out, items)
	for i := range out {
		if st, ok := b.items[KeyForItem(variant, out[i])]; ok && st.hasOverride {
			out[i].Body = st.override
		}
	}
	return out
}

// ApprovedItems returns all approved items of out, overrides applied, in
// document order. Variant labels are attached so drafts record which
// side of a comparison was approved.
func (b *ReviewBoard) ApprovedItems(out *domain.ResolvedOutput) []ApprovedItem {
	if out == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var approved []ApprovedItem
	collect := func(variant string, items []domain.ContentItem) {
		for _, item := range items {
			key := KeyForItem(variant, item)
			st, ok := b.items[key]
			if !ok || st.status != StatusApproved {
				continue
			}
			if st.hasOverride {
				item.Body = st.override
			}
			approved = append(approved, ApprovedItem{Variant: variant, Item: item})
		}
	}

	switch out.Kind {
	case domain.OutputSingle:
		if out.Single != nil {
			collect("", out.Single.Contents)
		}
	case domain.OutputComparison:
		if out.Comparison != nil {
			collect("a", out.Comparison.VariantA.Contents)
			collect("b", out.Comparison.VariantB.Contents)
		}
	}
	return approved
}

// ApprovedItem is one approved content item plus its comparison side.
type ApprovedItem struct {
	Variant string
	Item    domain.ContentItem
}
