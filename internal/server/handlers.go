package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yazicigil/RateStuff-sub000/internal/feed"
	"github.com/yazicigil/RateStuff-sub000/internal/models"
	"github.com/yazicigil/RateStuff-sub000/internal/utils"
)

// Router wires the JSON API. Response bodies always carry the {ok, error}
// envelope the client reconciles against.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.LoadUser())

	r.GET("/api/items", s.ListItems)
	r.GET("/api/items/:id", s.GetItem)
	r.GET("/api/suggestions", s.Suggestions)

	authorized := r.Group("/api")
	authorized.Use(AuthRequired())
	{
		authorized.POST("/items", s.CreateItem)
		authorized.PUT("/items/:id/rating", s.UpsertRating)
		authorized.POST("/items/:id/saved", s.Save)
		authorized.DELETE("/items/:id/saved", s.Unsave)
		authorized.GET("/saved", s.ListSaved)
		authorized.POST("/items/:id/report", s.Report)
		authorized.POST("/items/:id/comments", s.UpsertComment)
		authorized.POST("/comments/:id/vote", s.Vote)
		authorized.PUT("/comments/:id", s.EditComment)
		authorized.DELETE("/comments/:id", s.DeleteComment)
	}
	return r
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// ListItems returns the feed, filtered and pre-sorted. Clients are free to
// re-sort locally with the same engine.
func (s *Server) ListItems(c *gin.Context) {
	order := feed.ParseOrder(c.Query("order"))
	query := c.Query("q")
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = models.NormalizeTags(strings.Split(raw, ","))
	}

	cacheKey := fmt.Sprintf("items:%s:%s:%s", order, query, strings.Join(tags, ","))
	if cached := s.cache.Get(cacheKey); cached != nil {
		if items, ok := cached.([]models.Item); ok {
			c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
			return
		}
	}

	s.mu.Lock()
	items := make([]models.Item, len(s.items))
	for i := range s.items {
		items[i] = s.items[i].Clone()
	}
	s.mu.Unlock()

	items = feed.FilterItems(items, tags, query)
	feed.SortItems(items, order)
	s.cache.Set(cacheKey, items, 30*time.Second)
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

// commentView decorates a comment for display: masked author name,
// rendered body, and the requesting user's vote.
type commentView struct {
	models.Comment
	AuthorName string `json:"author_name"`
	HTML       string `json:"html"`
	MyVote     int    `json:"my_vote"`
}

// GetItem returns one item with display decorations.
func (s *Server) GetItem(c *gin.Context) {
	viewerID := ""
	if u := currentUser(c); u != nil {
		viewerID = u.ID
	}

	s.mu.Lock()
	i := s.itemIndex(c.Param("id"))
	if i < 0 {
		s.mu.Unlock()
		fail(c, http.StatusNotFound, "item not found")
		return
	}
	item := s.items[i].Clone()
	_, saved := s.saved[viewerID][item.ID]
	type author struct {
		name     string
		verified bool
	}
	authors := make(map[string]author)
	for _, cm := range item.Comments {
		name, verified := s.displayName(cm.AuthorID, viewerID)
		authors[cm.AuthorID] = author{name: name, verified: verified}
	}
	s.mu.Unlock()

	ranked := feed.RankComments(item.Comments, feed.CommentRankOptions{
		ViewerID: viewerID,
		OwnerID:  item.CreatedBy,
	})
	views := make([]commentView, len(ranked))
	for idx := range ranked {
		a := authors[ranked[idx].AuthorID]
		views[idx] = commentView{
			Comment:    ranked[idx],
			AuthorName: utils.DisplayName(ranked[idx].AuthorID, a.name, a.verified, viewerID),
			HTML:       utils.RenderMarkdown(ranked[idx].Text),
			MyVote:     feed.MyVote(&ranked[idx], viewerID),
		}
	}

	avg := feed.Average(item.Ratings)
	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"item":             item,
		"description_html": utils.RenderMarkdown(item.Description),
		"comments":         views,
		"average":          avg,
		"count":            feed.Count(item.Ratings),
		"score":            feed.WilsonScore(avg, feed.Count(item.Ratings)),
		"saved":            saved,
	})
}

type createItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ProductURL  string   `json:"product_url"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
}

// CreateItem rejects duplicate names with 409 so clients can surface the
// specific conflict message.
func (s *Server) CreateItem(c *gin.Context) {
	user := currentUser(c)
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed request")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if strings.EqualFold(s.items[i].Name, name) {
			fail(c, http.StatusConflict, fmt.Sprintf("an item named %q already exists", name))
			return
		}
	}
	item := models.Item{
		ID:          s.nextID(),
		Name:        name,
		Description: req.Description,
		ProductURL:  req.ProductURL,
		ImageURL:    req.ImageURL,
		Tags:        models.NormalizeTags(req.Tags),
		CreatedBy:   user.ID,
		CreatedAt:   s.nowFn(),
	}
	s.items = append(s.items, item)
	s.cache.Purge()
	c.JSON(http.StatusOK, gin.H{"ok": true, "item": item})
}

// UpsertRating sets the caller's rating, one row per user.
func (s *Server) UpsertRating(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Value int `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed request")
		return
	}
	if req.Value < 1 || req.Value > 5 {
		fail(c, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "item not found")
		return
	}
	s.items[i].Ratings = feed.UpsertRating(s.items[i].Ratings, s.items[i].ID, user.ID, req.Value, s.nowFn())
	s.cache.Purge()
	rating, _ := feed.FindRating(s.items[i].Ratings, user.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "rating": rating})
}

// Vote sets the caller's vote on a comment: -1, 0 or 1.
func (s *Server) Vote(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Value int `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed request")
		return
	}
	if req.Value < -1 || req.Value > 1 {
		fail(c, http.StatusBadRequest, "vote must be -1, 0 or 1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, j := s.commentIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "comment not found")
		return
	}
	feed.SetVote(&s.items[i].Comments[j], user.ID, req.Value)
	s.cache.Purge()
	c.JSON(http.StatusOK, gin.H{"ok": true, "score": s.items[i].Comments[j].Score})
}

// Save adds the saved mark; repeats are no-ops.
func (s *Server) Save(c *gin.Context) {
	s.setSaved(c, true)
}

// Unsave removes the saved mark; removing an absent mark is a no-op.
func (s *Server) Unsave(c *gin.Context) {
	s.setSaved(c, false)
}

func (s *Server) setSaved(c *gin.Context, saved bool) {
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.itemIndex(c.Param("id")) < 0 {
		fail(c, http.StatusNotFound, "item not found")
		return
	}
	if s.saved[user.ID] == nil {
		s.saved[user.ID] = make(map[string]models.SavedMark)
	}
	if saved {
		// Repeat saves keep the original mark.
		if _, ok := s.saved[user.ID][c.Param("id")]; !ok {
			s.saved[user.ID][c.Param("id")] = models.SavedMark{
				UserID:    user.ID,
				ItemID:    c.Param("id"),
				CreatedAt: s.nowFn(),
			}
		}
	} else {
		delete(s.saved[user.ID], c.Param("id"))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListSaved returns the caller's saved items.
func (s *Server) ListSaved(c *gin.Context) {
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Item
	for i := range s.items {
		if _, ok := s.saved[user.ID][s.items[i].ID]; ok {
			items = append(items, s.items[i].Clone())
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

// Report records the caller as a reporter, set semantics.
func (s *Server) Report(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Reason) == "" {
		fail(c, http.StatusBadRequest, "reason is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "item not found")
		return
	}
	s.items[i].AddReporter(user.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "reports": s.items[i].ReportCount()})
}

type commentRequest struct {
	Text   string   `json:"text"`
	Rating int      `json:"rating"`
	Images []string `json:"images"`
}

func validateComment(req commentRequest) string {
	if strings.TrimSpace(req.Text) == "" {
		return "text is required"
	}
	if len([]rune(req.Text)) > models.MaxCommentLen {
		return fmt.Sprintf("text exceeds %d characters", models.MaxCommentLen)
	}
	if req.Rating < 0 || req.Rating > 5 {
		return "rating must be between 0 and 5"
	}
	if len(req.Images) > models.MaxCommentImages {
		return fmt.Sprintf("at most %d images", models.MaxCommentImages)
	}
	return ""
}

// UpsertComment creates or replaces the caller's comment on the item.
func (s *Server) UpsertComment(c *gin.Context) {
	user := currentUser(c)
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed request")
		return
	}
	if msg := validateComment(req); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "item not found")
		return
	}
	next := models.Comment{
		ID:        s.nextID(),
		ItemID:    s.items[i].ID,
		Text:      utils.SanitizeText(req.Text),
		Rating:    req.Rating,
		AuthorID:  user.ID,
		Images:    req.Images,
		CreatedAt: s.nowFn(),
	}
	s.items[i].Comments = feed.UpsertComment(s.items[i].Comments, next)
	s.cache.Purge()
	for j := range s.items[i].Comments {
		if s.items[i].Comments[j].AuthorID == user.ID {
			c.JSON(http.StatusOK, gin.H{"ok": true, "comment": s.items[i].Comments[j]})
			return
		}
	}
}

// EditComment rewrites the caller's own comment.
func (s *Server) EditComment(c *gin.Context) {
	user := currentUser(c)
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed request")
		return
	}
	if msg := validateComment(req); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, j := s.commentIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "comment not found")
		return
	}
	if s.items[i].Comments[j].AuthorID != user.ID {
		fail(c, http.StatusForbidden, "not your comment")
		return
	}
	now := s.nowFn()
	s.items[i].Comments[j].Text = utils.SanitizeText(req.Text)
	s.items[i].Comments[j].Rating = req.Rating
	s.items[i].Comments[j].EditedAt = &now
	s.cache.Purge()
	c.JSON(http.StatusOK, gin.H{"ok": true, "comment": s.items[i].Comments[j]})
}

// DeleteComment removes the caller's own comment.
func (s *Server) DeleteComment(c *gin.Context) {
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	i, j := s.commentIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "comment not found")
		return
	}
	if s.items[i].Comments[j].AuthorID != user.ID && user.Role != "admin" {
		fail(c, http.StatusForbidden, "not your comment")
		return
	}
	s.items[i].Comments = append(s.items[i].Comments[:j], s.items[i].Comments[j+1:]...)
	s.cache.Purge()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Suggestions returns deduplicated item-name completions for a prefix.
// Responses are cached briefly; the cache key includes the viewer-agnostic
// query only.
func (s *Server) Suggestions(c *gin.Context) {
	prefix := strings.ToLower(strings.TrimSpace(c.Query("q")))
	limit := utils.StringToIntDefault(c.Query("limit"), 10)

	if prefix == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true, "suggestions": []string{}})
		return
	}

	cacheKey := fmt.Sprintf("suggest:%s:%d", prefix, limit)
	if cached := s.cache.Get(cacheKey); cached != nil {
		if suggestions, ok := cached.([]string); ok {
			c.JSON(http.StatusOK, gin.H{"ok": true, "suggestions": suggestions})
			return
		}
	}

	s.mu.Lock()
	seen := make(map[string]bool)
	suggestions := make([]string, 0, limit)
	for i := range s.items {
		name := s.items[i].Name
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, prefix) || seen[lower] {
			continue
		}
		seen[lower] = true
		suggestions = append(suggestions, name)
		if len(suggestions) == limit {
			break
		}
	}
	s.mu.Unlock()

	s.cache.Set(cacheKey, suggestions, 30*time.Second)
	c.JSON(http.StatusOK, gin.H{"ok": true, "suggestions": suggestions})
}
