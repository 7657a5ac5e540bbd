package feed

import (
	"testing"
	"time"
)

func TestUpsertRatingInsertThenUpdate(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	rs := UpsertRating(nil, "item1", "alice", 4, t0)
	if len(rs) != 1 {
		t.Fatalf("expected 1 rating, got %d", len(rs))
	}
	if rs[0].Value != 4 || rs[0].CreatedAt != t0 || rs[0].EditedAt != nil {
		t.Errorf("unexpected first rating: %+v", rs[0])
	}
	if rs[0].ID == "" {
		t.Error("expected a fresh id on insert")
	}

	rs = UpsertRating(rs, "item1", "alice", 4, t1)
	if len(rs) != 1 {
		t.Fatalf("repeat upsert duplicated the rating: %d rows", len(rs))
	}
	if rs[0].Value != 4 {
		t.Errorf("value = %d, want 4", rs[0].Value)
	}
	if rs[0].CreatedAt != t0 {
		t.Errorf("CreatedAt changed on update: %v", rs[0].CreatedAt)
	}
	if rs[0].EditedAt == nil || !rs[0].EditedAt.Equal(t1) {
		t.Errorf("EditedAt not stamped on update: %v", rs[0].EditedAt)
	}
}

func TestUpsertRatingClamps(t *testing.T) {
	now := time.Now()
	rs := UpsertRating(nil, "i", "u", 9, now)
	if rs[0].Value != 5 {
		t.Errorf("value = %d, want clamp to 5", rs[0].Value)
	}
	rs = UpsertRating(rs, "i", "u", -3, now)
	if rs[0].Value != 1 {
		t.Errorf("value = %d, want clamp to 1", rs[0].Value)
	}
}

func TestUpsertRatingKeyedByUser(t *testing.T) {
	now := time.Now()
	rs := UpsertRating(nil, "i", "alice", 5, now)
	rs = UpsertRating(rs, "i", "bob", 3, now)
	rs = UpsertRating(rs, "i", "alice", 2, now)
	if len(rs) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(rs))
	}
	if r, ok := FindRating(rs, "alice"); !ok || r.Value != 2 {
		t.Errorf("alice rating = %+v, ok=%v", r, ok)
	}
	if r, ok := FindRating(rs, "bob"); !ok || r.Value != 3 {
		t.Errorf("bob rating = %+v, ok=%v", r, ok)
	}
}
