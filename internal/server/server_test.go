package server

import (
	"context"
	"errors"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yazicigil/RateStuff-sub000/internal/client"
	"github.com/yazicigil/RateStuff-sub000/internal/feed"
	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer()
	s.RegisterUser("alice-token", models.User{ID: "alice", Name: "Ada Lovelace"})
	s.RegisterUser("bob-token", models.User{ID: "bob", Name: "Bob Brand", Verified: true})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestEndToEndRatingFlow(t *testing.T) {
	_, ts := newTestServer(t)
	ctx := context.Background()

	alice := client.NewClient(ts.URL, "alice-token")
	bob := client.NewClient(ts.URL, "bob-token")

	item, err := alice.CreateItem(ctx, models.Item{Name: "Fig Jam", Description: "breakfast", Tags: []string{"#Sweet", "jam"}})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "sweet" {
		t.Errorf("tags not normalized: %v", item.Tags)
	}

	if _, err := alice.UpsertRating(ctx, item.ID, 5); err != nil {
		t.Fatalf("alice rating failed: %v", err)
	}
	if _, err := bob.UpsertRating(ctx, item.ID, 4); err != nil {
		t.Fatalf("bob rating failed: %v", err)
	}

	items, err := alice.ListItems(ctx, "", feed.OrderTrending, nil)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	// Ratings [5 4]: average 4.5, n 2, wilson lower bound per formula.
	if avg := feed.Average(items[0].Ratings); avg != 4.5 {
		t.Errorf("average = %v, want 4.5", avg)
	}
	if score := feed.WilsonScore(4.5, 2); math.Abs(score-1.393219) > 1e-4 {
		t.Errorf("wilson = %v, want 1.393219", score)
	}
}

func TestRatingUpsertIsPerUser(t *testing.T) {
	_, ts := newTestServer(t)
	ctx := context.Background()
	alice := client.NewClient(ts.URL, "alice-token")

	item, _ := alice.CreateItem(ctx, models.Item{Name: "Filter Coffee"})
	alice.UpsertRating(ctx, item.ID, 2)
	r, err := alice.UpsertRating(ctx, item.ID, 4)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if r.Value != 4 || r.EditedAt == nil {
		t.Errorf("rating not updated in place: %+v", r)
	}

	items, _ := alice.ListItems(ctx, "", feed.OrderNew, nil)
	if n := len(items[0].Ratings); n != 1 {
		t.Errorf("ratings = %d, want 1 row per user", n)
	}
}

func TestDuplicateNameConflicts(t *testing.T) {
	_, ts := newTestServer(t)
	ctx := context.Background()
	alice := client.NewClient(ts.URL, "alice-token")

	if _, err := alice.CreateItem(ctx, models.Item{Name: "Fig Jam"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := alice.CreateItem(ctx, models.Item{Name: "fig jam"})
	var ce *client.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConflictError for duplicate name, got %v", err)
	}
}

func TestUnauthenticatedWrites(t *testing.T) {
	_, ts := newTestServer(t)
	anon := client.NewClient(ts.URL, "")

	_, err := anon.CreateItem(context.Background(), models.Item{Name: "X"})
	if !errors.Is(err, client.ErrAuthRequired) {
		t.Fatalf("want ErrAuthRequired, got %v", err)
	}
}

func TestCommentVoteAndOrdering(t *testing.T) {
	s, ts := newTestServer(t)
	s.RegisterUser("carol-token", models.User{ID: "carol", Name: "Carol Jones"})
	ctx := context.Background()
	alice := client.NewClient(ts.URL, "alice-token") // item owner
	bob := client.NewClient(ts.URL, "bob-token")
	carol := client.NewClient(ts.URL, "carol-token")

	item, _ := alice.CreateItem(ctx, models.Item{Name: "Fig Jam"})
	ownerComment, _ := alice.UpsertComment(ctx, item.ID, "thanks all", 0, nil)
	bobComment, _ := bob.UpsertComment(ctx, item.ID, "superb", 5, nil)
	carol.UpsertComment(ctx, item.ID, "meh", 2, nil)

	// Bob's comment collects votes; the owner's stays at zero.
	if err := carol.SetVote(ctx, bobComment.ID, 1); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := alice.SetVote(ctx, bobComment.ID, 1); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	items, _ := carol.ListItems(ctx, "", feed.OrderNew, nil)
	ranked := feed.RankComments(items[0].Comments, feed.CommentRankOptions{ViewerID: "carol", OwnerID: "alice"})
	if ranked[0].ID != ownerComment.ID {
		t.Errorf("owner comment not pinned first, got %s", ranked[0].ID)
	}
	if ranked[1].ID != bobComment.ID {
		t.Errorf("highest-scored community comment not second")
	}
}

func TestSavedSetIsIdempotent(t *testing.T) {
	_, ts := newTestServer(t)
	ctx := context.Background()
	alice := client.NewClient(ts.URL, "alice-token")

	item, _ := alice.CreateItem(ctx, models.Item{Name: "Fig Jam"})
	for i := 0; i < 3; i++ {
		if err := alice.ToggleSaved(ctx, item.ID, true); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := alice.ToggleSaved(ctx, item.ID, false); err != nil {
		t.Fatalf("unsave failed: %v", err)
	}
	// Unsaving an unsaved item is still ok.
	if err := alice.ToggleSaved(ctx, item.ID, false); err != nil {
		t.Fatalf("second unsave failed: %v", err)
	}
}

func TestSuggestionsDeduplicated(t *testing.T) {
	s, ts := newTestServer(t)
	now := time.Now()
	s.SeedItem(models.Item{ID: "1", Name: "Fig Jam", CreatedAt: now})
	s.SeedItem(models.Item{ID: "2", Name: "fig jam", CreatedAt: now}) // differs only by case
	s.SeedItem(models.Item{ID: "3", Name: "Filter Coffee", CreatedAt: now})
	s.SeedItem(models.Item{ID: "4", Name: "Tea", CreatedAt: now})

	anon := client.NewClient(ts.URL, "")
	got, err := anon.SearchSuggestions(context.Background(), "fi", 10)
	if err != nil {
		t.Fatalf("SearchSuggestions failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("suggestions = %v, want deduplicated fig jam + filter coffee", got)
	}
}

func TestReportCountsDistinctReporters(t *testing.T) {
	s, ts := newTestServer(t)
	ctx := context.Background()
	alice := client.NewClient(ts.URL, "alice-token")
	bob := client.NewClient(ts.URL, "bob-token")

	item, _ := alice.CreateItem(ctx, models.Item{Name: "Fig Jam"})
	alice.ReportItem(ctx, item.ID, "spam")
	alice.ReportItem(ctx, item.ID, "spam again")
	bob.ReportItem(ctx, item.ID, "fake")

	s.mu.Lock()
	defer s.mu.Unlock()
	if got := s.items[s.itemIndex(item.ID)].ReportCount(); got != 2 {
		t.Errorf("report count = %d, want 2 distinct reporters", got)
	}
}

func TestStoreAgainstRealBackend(t *testing.T) {
	// The optimistic store talking to the reference backend: a confirmed
	// write survives, list state matches the server afterwards.
	_, ts := newTestServer(t)
	ctx := context.Background()
	alice := client.NewClient(ts.URL, "alice-token")

	item, err := alice.CreateItem(ctx, models.Item{Name: "Fig Jam"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := alice.UpsertRating(ctx, item.ID, 5); err != nil {
		t.Fatalf("rating failed: %v", err)
	}
	items, err := alice.ListItems(ctx, "fig", feed.OrderTop, nil)
	if err != nil || len(items) != 1 {
		t.Fatalf("list = %v items, err %v", len(items), err)
	}
	if r, ok := feed.FindRating(items[0].Ratings, "alice"); !ok || r.Value != 5 {
		t.Errorf("server-side rating = %+v ok=%v", r, ok)
	}
}
