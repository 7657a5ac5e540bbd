package feed

import (
	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

// Average returns the mean rating value, 0.0 for an empty set.
func Average(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings))
}

// Count returns the number of ratings.
func Count(ratings []models.Rating) int {
	return len(ratings)
}
