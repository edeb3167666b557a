package service

import (
	"database/sql"
	"math"
	"sort"

	"github.com/caffit/caffit/internal/catalog"
)

// Recommendation score weights. A product's score never exceeds scoreCap.
const (
	scoreRecent           = 20
	scoreFavorite         = 15
	scoreFavoriteCategory = 10
	scoreVariety          = 8
	scoreLowSugar         = 7
	scoreCap              = 100

	// varietyCaffeineDeltaMg is the caffeine gap from the most recent
	// product that counts as a change of pace.
	varietyCaffeineDeltaMg = 30
	// lowSugarThresholdG marks a product as a low-sugar choice.
	lowSugarThresholdG = 15
	// reasonScoreFloor is the minimum score for a specific reason; below
	// it the generic reason is used.
	reasonScoreFloor = 40
)

const (
	ReasonFavorite = "one of your favorites"
	ReasonRecent   = "picked often recently"
	ReasonLowSugar = "healthy choice, low in sugar"
	ReasonGeneric  = "matches your taste"
)

type Recommendation struct {
	ID      catalog.ProductID `json:"id"`
	Product catalog.Product   `json:"product"`
	Score   int               `json:"score"`
	Reason  string            `json:"reason"`
}

// Recommendations ranks the whole catalog against the stored favorites and
// recents and returns the top limit entries. Output is deterministic for a
// fixed store state: descending score, catalog order on ties.
func Recommendations(db *sql.DB, cat *catalog.Repository, limit int) ([]Recommendation, error) {
	favorites, err := ListFavorites(db)
	if err != nil {
		return nil, err
	}
	recents, err := RecentProducts(db)
	if err != nil {
		return nil, err
	}

	favoriteSet := make(map[catalog.ProductID]bool, len(favorites))
	favoriteCategories := make(map[string]bool, len(favorites))
	for _, id := range favorites {
		favoriteSet[id] = true
		if p, ok := cat.Get(id); ok {
			favoriteCategories[p.Category] = true
		}
	}
	recentSet := make(map[catalog.ProductID]bool, len(recents))
	for _, id := range recents {
		recentSet[id] = true
	}
	var mostRecentCaffeine float64
	hasRecent := false
	if len(recents) > 0 {
		if p, ok := cat.Get(recents[0]); ok {
			mostRecentCaffeine = p.CaffeineMg
			hasRecent = true
		}
	}

	out := make([]Recommendation, 0, cat.Len())
	for _, e := range cat.All() {
		score := 0
		if recentSet[e.ID] {
			score += scoreRecent
		}
		if favoriteSet[e.ID] {
			score += scoreFavorite
		}
		if favoriteCategories[e.Product.Category] {
			score += scoreFavoriteCategory
		}
		if hasRecent && math.Abs(e.Product.CaffeineMg-mostRecentCaffeine) > varietyCaffeineDeltaMg {
			score += scoreVariety
		}
		if e.Product.SugarKnown() && *e.Product.SugarG < lowSugarThresholdG {
			score += scoreLowSugar
		}
		if score > scoreCap {
			score = scoreCap
		}

		out = append(out, Recommendation{
			ID:      e.ID,
			Product: e.Product,
			Score:   score,
			Reason:  recommendationReason(e, score, favoriteSet, recentSet),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recommendationReason picks the displayed reason in fixed priority:
// favorite, then recent, then low sugar, only when the score clears the
// floor; everything else gets the generic reason.
func recommendationReason(e catalog.Entry, score int, favorites, recents map[catalog.ProductID]bool) string {
	if score >= reasonScoreFloor {
		if favorites[e.ID] {
			return ReasonFavorite
		}
		if recents[e.ID] {
			return ReasonRecent
		}
		if e.Product.SugarKnown() && *e.Product.SugarG < lowSugarThresholdG {
			return ReasonLowSugar
		}
	}
	return ReasonGeneric
}

// LowSugarPicks ranks products by sugar content for the health report.
// Unknown sugar scores a neutral 50 so those products sit mid-list.
func LowSugarPicks(cat *catalog.Repository, limit int) []Recommendation {
	out := make([]Recommendation, 0, cat.Len())
	for _, e := range cat.All() {
		score := 50.0
		if e.Product.SugarKnown() {
			score = 100 - *e.Product.SugarG
		}
		reason := ReasonGeneric
		if e.Product.SugarKnown() && *e.Product.SugarG < lowSugarThresholdG {
			reason = ReasonLowSugar
		}
		out = append(out, Recommendation{ID: e.ID, Product: e.Product, Score: int(score), Reason: reason})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
