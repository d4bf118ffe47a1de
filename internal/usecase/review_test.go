package usecase

import (
	"testing"

	"social-studio/internal/domain"
)

func TestReviewToggleApproved(t *testing.T) {
	b := NewReviewBoard()
	key := ItemKey{Platform: "linkedin"}

	if got := b.ToggleApproved(key); got != StatusApproved {
		t.Errorf("first toggle = %v, want approved", got)
	}
	if got := b.ToggleApproved(key); got != StatusUnreviewed {
		t.Errorf("second toggle = %v, want unreviewed", got)
	}
}

func TestReviewToggleIgnoredWhileEditing(t *testing.T) {
	b := NewReviewBoard()
	key := ItemKey{Platform: "x"}

	if !b.BeginEdit(key) {
		t.Fatal("BeginEdit should succeed from unreviewed")
	}
	if got := b.ToggleApproved(key); got != StatusEditing {
		t.Errorf("toggle during edit = %v, want editing unchanged", got)
	}
}

func TestReviewEditSaveRestoresPriorState(t *testing.T) {
	b := NewReviewBoard()
	key := ItemKey{Platform: "x"}

	b.ToggleApproved(key)
	if !b.BeginEdit(key) {
		t.Fatal("BeginEdit should succeed from approved")
	}
	b.SaveEdit(key, "rewritten body")

	if got := b.Status(key); got != StatusApproved {
		t.Errorf("status after save = %v, want approved restored", got)
	}
	body, ok := b.Override(key)
	if !ok || body != "rewritten body" {
		t.Errorf("Override = %q, %v; want saved body", body, ok)
	}
}

func TestReviewEditCancelDiscards(t *testing.T) {
	b := NewReviewBoard()
	key := ItemKey{Platform: "instagram"}

	b.BeginEdit(key)
	b.CancelEdit(key)

	if got := b.Status(key); got != StatusUnreviewed {
		t.Errorf("status after cancel = %v, want unreviewed", got)
	}
	if _, ok := b.Override(key); ok {
		t.Error("cancel must not record an override")
	}
}

func TestReviewBeginEditRejectedWhileBusy(t *testing.T) {
	b := NewReviewBoard()
	key := ItemKey{Platform: "x"}

	b.BeginEdit(key)
	if b.BeginEdit(key) {
		t.Error("BeginEdit should fail while already editing")
	}

	b.CancelEdit(key)
	b.BeginRefine(key)
	if b.BeginEdit(key) {
		t.Error("BeginEdit should fail while refine is in progress")
	}
}

func TestReviewRefineRoundTrip(t *testing.T) {
	b := NewReviewBoard()
	key := ItemKey{Platform: "linkedin"}

	b.ToggleApproved(key)
	if !b.BeginRefine(key) {
		t.Fatal("BeginRefine should succeed from approved")
	}
	if got := b.Status(key); got != StatusRefineRequested {
		t.Errorf("status = %v, want refine-requested", got)
	}

	b.EndRefine(key)
	if got := b.Status(key); got != StatusApproved {
		t.Errorf("status after refine = %v, want approved restored", got)
	}
}

func TestReviewRefineRejectedWhileEditing(t *testing.T) {
	b := NewReviewBoard()
	key := ItemKey{Platform: "x"}

	b.BeginEdit(key)
	if b.BeginRefine(key) {
		t.Error("BeginRefine should fail while editing")
	}
}

func TestReviewApplyOverrides(t *testing.T) {
	out := Resolve(singlePayload)
	if out == nil {
		t.Fatal("payload should resolve")
	}

	b := NewReviewBoard()
	key := KeyForItem("", out.Single.Contents[0])
	b.BeginEdit(key)
	b.SaveEdit(key, "edited")

	applied := b.ApplyOverrides(out)
	if applied.Single.Contents[0].Body != "edited" {
		t.Errorf("applied body = %q, want edited", applied.Single.Contents[0].Body)
	}
	if out.Single.Contents[0].Body != "hi" {
		t.Errorf("input mutated: body = %q", out.Single.Contents[0].Body)
	}
}

func TestReviewApprovedItemsComparison(t *testing.T) {
	out := Resolve(comparisonPayload)
	if out == nil {
		t.Fatal("payload should resolve")
	}

	b := NewReviewBoard()
	keyA := KeyForItem("a", out.Comparison.VariantA.Contents[0])
	keyB := KeyForItem("b", out.Comparison.VariantB.Contents[0])

	b.ToggleApproved(keyB)
	b.ToggleApproved(keyA)
	b.BeginEdit(keyA)
	b.SaveEdit(keyA, "A body, tightened")

	items := b.ApprovedItems(out)
	if len(items) != 2 {
		t.Fatalf("approved = %d items, want 2", len(items))
	}
	// Document order: variant A before variant B, regardless of
	// approval order.
	if items[0].Variant != "a" || items[1].Variant != "b" {
		t.Errorf("variants = %q, %q; want a, b", items[0].Variant, items[1].Variant)
	}
	if items[0].Item.Body != "A body, tightened" {
		t.Errorf("approved body = %q, want override applied", items[0].Item.Body)
	}
	if items[1].Item.Body != "B body" {
		t.Errorf("approved body = %q, want original", items[1].Item.Body)
	}
}

func TestReviewApprovedItemsNoneApproved(t *testing.T) {
	out := Resolve(singlePayload)
	b := NewReviewBoard()
	if items := b.ApprovedItems(out); len(items) != 0 {
		t.Errorf("expected no approved items, got %d", len(items))
	}
}

func TestReviewResetClears(t *testing.T) {
	b := NewReviewBoard()
	key := ItemKey{Platform: "x"}
	b.ToggleApproved(key)
	b.BeginEdit(key)
	b.SaveEdit(key, "edit")

	b.Reset()

	if got := b.Status(key); got != StatusUnreviewed {
		t.Errorf("status after reset = %v, want unreviewed", got)
	}
	if _, ok := b.Override(key); ok {
		t.Error("reset must drop overrides")
	}
}

func TestKeyForItemNormalizesCase(t *testing.T) {
	item := domain.ContentItem{Platform: "LinkedIn", Language: "EN"}
	key := KeyForItem("A", item)

	want := ItemKey{Variant: "a", Platform: "linkedin", Language: "en"}
	if key != want {
		t.Errorf("KeyForItem = %+v, want %+v", key, want)
	}
}
