package feed

import (
	"sort"

	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

// CommentRankOptions controls the display ordering of an item's comments.
type CommentRankOptions struct {
	ViewerID   string
	OwnerID    string // the item creator; their comments pin first
	HideViewer bool   // some surfaces render the viewer's comment in its own slot
}

// RankComments returns the comments in display order: the item owner's
// comments first (unless the viewer is the owner), then everything else by
// score descending. Equal scores keep their input order; no timestamp
// tie-break is applied.
func RankComments(comments []models.Comment, opts CommentRankOptions) []models.Comment {
	out := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if opts.HideViewer && c.AuthorID == opts.ViewerID {
			continue
		}
		out = append(out, c)
	}

	pinOwner := opts.ViewerID != opts.OwnerID
	sort.SliceStable(out, func(i, j int) bool {
		if pinOwner {
			iOwner := out[i].AuthorID == opts.OwnerID
			jOwner := out[j].AuthorID == opts.OwnerID
			if iOwner != jOwner {
				return iOwner
			}
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// UpsertComment replaces the user's existing comment or appends a new one,
// mirroring the single-comment-per-user surfaces. An update keeps CreatedAt
// and the accumulated votes.
func UpsertComment(comments []models.Comment, next models.Comment) []models.Comment {
	for i := range comments {
		if comments[i].AuthorID == next.AuthorID {
			edited := next.CreatedAt
			comments[i].Text = next.Text
			comments[i].Rating = next.Rating
			comments[i].Images = next.Images
			comments[i].EditedAt = &edited
			return comments
		}
	}
	return append(comments, next)
}
