package feed

import (
	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

// SetVote records the user's vote on a comment and recomputes its score.
// Repeating the current value is a no-op, the opposite sign moves the score
// by 2, and zero withdraws the user's vote entirely. Values outside
// {-1, 0, 1} are ignored.
func SetVote(c *models.Comment, userID string, value int) {
	if value < -1 || value > 1 {
		return
	}

	idx := -1
	for i := range c.Votes {
		if c.Votes[i].UserID == userID {
			idx = i
			break
		}
	}

	switch {
	case value == 0:
		if idx >= 0 {
			c.Votes = append(c.Votes[:idx], c.Votes[idx+1:]...)
		}
	case idx >= 0:
		c.Votes[idx].Value = value
	default:
		c.Votes = append(c.Votes, models.Vote{UserID: userID, Value: value})
	}

	c.Score = TallyScore(c.Votes)
}

// TallyScore sums vote values.
func TallyScore(votes []models.Vote) int {
	sum := 0
	for _, v := range votes {
		sum += v.Value
	}
	return sum
}

// MyVote returns the user's current vote on the comment, 0 when absent.
func MyVote(c *models.Comment, userID string) int {
	for _, v := range c.Votes {
		if v.UserID == userID {
			return v.Value
		}
	}
	return 0
}
