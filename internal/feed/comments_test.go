package feed

import (
	"testing"
	"time"

	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

func comment(id, author string, score int) models.Comment {
	return models.Comment{ID: id, AuthorID: author, Score: score}
}

func commentIDs(cs []models.Comment) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func TestRankCommentsOwnerPin(t *testing.T) {
	cs := []models.Comment{
		comment("popular", "bob", 40),
		comment("owner-reply", "owner", -5),
		comment("mid", "carol", 3),
	}
	got := RankComments(cs, CommentRankOptions{ViewerID: "viewer", OwnerID: "owner"})
	ids := commentIDs(got)
	want := []string{"owner-reply", "popular", "mid"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestRankCommentsOwnerViewingOwnItem(t *testing.T) {
	cs := []models.Comment{
		comment("popular", "bob", 40),
		comment("owner-reply", "owner", -5),
	}
	// The owner sees plain score order, no self pin.
	got := RankComments(cs, CommentRankOptions{ViewerID: "owner", OwnerID: "owner"})
	if got[0].ID != "popular" {
		t.Errorf("order = %v, want popular first", commentIDs(got))
	}
}

func TestRankCommentsStableTies(t *testing.T) {
	cs := []models.Comment{
		comment("first", "a", 2),
		comment("second", "b", 2),
		comment("third", "c", 2),
	}
	got := RankComments(cs, CommentRankOptions{ViewerID: "v", OwnerID: "o"})
	ids := commentIDs(got)
	for i, want := range []string{"first", "second", "third"} {
		if ids[i] != want {
			t.Fatalf("equal-score comments reordered: %v", ids)
		}
	}
}

func TestRankCommentsHideViewer(t *testing.T) {
	cs := []models.Comment{
		comment("mine", "viewer", 10),
		comment("other", "bob", 1),
	}
	got := RankComments(cs, CommentRankOptions{ViewerID: "viewer", OwnerID: "owner", HideViewer: true})
	if len(got) != 1 || got[0].ID != "other" {
		t.Errorf("viewer comment not hidden: %v", commentIDs(got))
	}
}

func TestUpsertCommentReplacesOwn(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cs := []models.Comment{{ID: "c1", AuthorID: "alice", Text: "first take", CreatedAt: t0, Votes: []models.Vote{{UserID: "bob", Value: 1}}, Score: 1}}

	cs = UpsertComment(cs, models.Comment{ID: "c2", AuthorID: "alice", Text: "revised", Rating: 4, CreatedAt: t0.Add(time.Hour)})
	if len(cs) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(cs))
	}
	c := cs[0]
	if c.ID != "c1" || c.Text != "revised" || c.Rating != 4 {
		t.Errorf("unexpected comment after upsert: %+v", c)
	}
	if c.CreatedAt != t0 || c.EditedAt == nil {
		t.Errorf("timestamps wrong after upsert: created=%v edited=%v", c.CreatedAt, c.EditedAt)
	}
	if c.Score != 1 || len(c.Votes) != 1 {
		t.Errorf("votes lost on upsert: %+v", c)
	}
}
