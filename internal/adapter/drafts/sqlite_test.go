package drafts

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"social-studio/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteDraftStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "drafts.db")
	store, err := NewSQLiteDraftStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteDraftStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteDraftStore_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	approved := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	draft := domain.Draft{
		ID:           "01J0000000000000000000TEST",
		ThreadID:     "t-1",
		Platform:     domain.PlatformLinkedIn,
		Body:         "Launch day. Here is what shipped.",
		Hashtags:     []string{"#launch", "#golang"},
		CallToAction: "Read the changelog",
		PostingTime:  "Tuesday 9am",
		ApprovedAt:   approved,
	}
	if err := store.Save(ctx, draft); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Body != draft.Body {
		t.Errorf("Body = %q, want %q", got.Body, draft.Body)
	}
	if got.Platform != domain.PlatformLinkedIn {
		t.Errorf("Platform = %q", got.Platform)
	}
	if len(got.Hashtags) != 2 || got.Hashtags[0] != "#launch" {
		t.Errorf("Hashtags = %v", got.Hashtags)
	}
	if !got.ApprovedAt.Equal(approved) {
		t.Errorf("ApprovedAt = %v, want %v", got.ApprovedAt, approved)
	}

	if err := store.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = store.Get(ctx, draft.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
}

func TestSQLiteDraftStore_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get nonexistent: got %v, want ErrNotFound", err)
	}

	err = store.Delete(ctx, "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete nonexistent: got %v, want ErrNotFound", err)
	}
}

func TestSQLiteDraftStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := domain.Draft{
		ID:         "draft-older",
		Platform:   domain.PlatformX,
		Body:       "first",
		ApprovedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}
	newer := domain.Draft{
		ID:         "draft-newer",
		Platform:   domain.PlatformX,
		Body:       "second",
		ApprovedAt: time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, older); err != nil {
		t.Fatalf("Save older: %v", err)
	}
	if err := store.Save(ctx, newer); err != nil {
		t.Fatalf("Save newer: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List count = %d, want 2", len(all))
	}
	if all[0].ID != "draft-newer" || all[1].ID != "draft-older" {
		t.Errorf("order = [%s, %s], want newest first", all[0].ID, all[1].ID)
	}
}

func TestSQLiteDraftStore_EmptyList(t *testing.T) {
	store := newTestStore(t)

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("List count = %d, want 0", len(all))
	}
}

func TestSQLiteDraftStore_StampsApprovedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	draft := domain.Draft{
		ID:       "draft-unstamped",
		Platform: domain.PlatformInstagram,
		Body:     "caption",
	}
	if err := store.Save(ctx, draft); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ApprovedAt.IsZero() {
		t.Error("ApprovedAt should be stamped on save")
	}
}

func TestSQLiteDraftStore_BilingualVariantRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	draft := domain.Draft{
		ID:         "draft-variant",
		ThreadID:   "t-2",
		Variant:    "b",
		Platform:   domain.PlatformLinkedIn,
		Language:   domain.LanguageJapanese,
		Body:       "ローンチのお知らせ",
		Hashtags:   []string{"#発表"},
		ApprovedAt: time.Date(2026, 8, 21, 8, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, draft); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Variant != "b" {
		t.Errorf("Variant = %q, want %q", got.Variant, "b")
	}
	if got.Language != domain.LanguageJapanese {
		t.Errorf("Language = %q", got.Language)
	}
	if got.Body != draft.Body {
		t.Errorf("Body = %q", got.Body)
	}
}
