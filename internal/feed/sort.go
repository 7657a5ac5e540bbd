package feed

import (
	"sort"

	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

// Order selects the comparator used to rank the item feed.
type Order string

const (
	OrderTrending Order = "trending" // wilson score desc
	OrderTop      Order = "top"      // average desc, count breaks ties
	OrderMost     Order = "most"     // rating count desc
	OrderNew      Order = "new"      // created_at desc
)

// ParseOrder maps a query-string value to an Order, defaulting to trending.
func ParseOrder(s string) Order {
	switch Order(s) {
	case OrderTop, OrderMost, OrderNew:
		return Order(s)
	default:
		return OrderTrending
	}
}

type ranked struct {
	item  models.Item
	avg   float64
	score float64
	n     int
}

// SortItems orders items in place under the given mode. The sort is stable:
// equal keys keep their input order, so a re-fetched list renders the same
// page to page.
func SortItems(items []models.Item, order Order) {
	rs := make([]ranked, len(items))
	for i, it := range items {
		avg := Average(it.Ratings)
		rs[i] = ranked{
			item:  it,
			avg:   avg,
			score: WilsonScore(avg, len(it.Ratings)),
			n:     len(it.Ratings),
		}
	}

	sort.SliceStable(rs, func(i, j int) bool {
		switch order {
		case OrderNew:
			return rs[i].item.CreatedAt.After(rs[j].item.CreatedAt)
		case OrderMost:
			return rs[i].n > rs[j].n
		case OrderTop:
			if rs[i].avg != rs[j].avg {
				return rs[i].avg > rs[j].avg
			}
			return rs[i].n > rs[j].n
		default: // trending
			return rs[i].score > rs[j].score
		}
	})

	for i := range rs {
		items[i] = rs[i].item
	}
}
