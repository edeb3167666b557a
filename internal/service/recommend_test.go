package service_test

import (
	"testing"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/service"
)

func recommendationFor(t *testing.T, recs []service.Recommendation, id catalog.ProductID) service.Recommendation {
	t.Helper()
	for _, r := range recs {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("product %d missing from recommendations", id)
	return service.Recommendation{}
}

func TestRecommendationsColdStart(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := testCatalog(t)

	recs, err := service.Recommendations(conn, cat, 5)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("len(recs) = %d, want 5", len(recs))
	}
	// With no favorites and no recents the only possible signal is low
	// sugar, which never clears the reason floor on its own.
	for _, r := range recs {
		if r.Reason != service.ReasonGeneric {
			t.Errorf("reason for %s = %q, want generic", r.Product.Name, r.Reason)
		}
	}
}

func TestRecommendationsFavoriteAndRecentRankFirst(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := testCatalog(t)

	const id = catalog.ProductID(3)
	if err := service.AddFavorite(conn, cat, id); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	if err := service.TouchRecent(conn, cat, id); err != nil {
		t.Fatalf("TouchRecent() error = %v", err)
	}

	recs, err := service.Recommendations(conn, cat, 0)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if recs[0].ID != id {
		t.Errorf("recs[0].ID = %d, want %d", recs[0].ID, id)
	}
	r := recommendationFor(t, recs, id)
	// Recent + favorite + favorite-category bonuses alone reach 45; no
	// other product can match that without store signals of its own.
	if r.Score < 45 {
		t.Errorf("score = %d, want >= 45", r.Score)
	}
	if r.Reason != service.ReasonFavorite {
		t.Errorf("reason = %q, want favorite to win the priority order", r.Reason)
	}
}

func TestRecommendationsRecentAloneStaysGeneric(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := testCatalog(t)

	const id = catalog.ProductID(4)
	if err := service.TouchRecent(conn, cat, id); err != nil {
		t.Fatalf("TouchRecent() error = %v", err)
	}

	recs, err := service.Recommendations(conn, cat, 0)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	r := recommendationFor(t, recs, id)
	if r.Score < 20 {
		t.Errorf("score = %d, want at least the recent bonus", r.Score)
	}
	if r.Reason != service.ReasonGeneric {
		t.Errorf("reason = %q, want generic below the score floor", r.Reason)
	}
}

func TestRecommendationReasonFloor(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	sweet := 20.0
	low := 5.0
	cat := catalog.New(catalog.Limits{}, []catalog.Product{
		{Name: "Latte", Category: "coffee", CaffeineMg: 100, SugarG: &low},
		{Name: "Espresso", Category: "coffee", CaffeineMg: 100, SugarG: &sweet},
		{Name: "Decaf", Category: "coffee", CaffeineMg: 10, SugarG: &sweet},
	})

	// Latte: favorite 15 + favorite-category 10 + variety 8 + low sugar 7
	// lands exactly on the reason floor of 40. Espresso: recent 20 +
	// favorite-category 10 + variety 8 stops one step below at 38.
	if err := service.AddFavorite(conn, cat, 0); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	if err := service.TouchRecent(conn, cat, 1); err != nil {
		t.Fatalf("TouchRecent() error = %v", err)
	}
	if err := service.TouchRecent(conn, cat, 2); err != nil {
		t.Fatalf("TouchRecent() error = %v", err)
	}

	recs, err := service.Recommendations(conn, cat, 0)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}

	latte := recommendationFor(t, recs, 0)
	if latte.Score != 40 {
		t.Errorf("Latte score = %d, want exactly 40", latte.Score)
	}
	if latte.Reason != service.ReasonFavorite {
		t.Errorf("Latte reason = %q, want the specific reason at the floor", latte.Reason)
	}

	espresso := recommendationFor(t, recs, 1)
	if espresso.Score != 38 {
		t.Errorf("Espresso score = %d, want exactly 38", espresso.Score)
	}
	if espresso.Reason != service.ReasonGeneric {
		t.Errorf("Espresso reason = %q, want generic below the floor", espresso.Reason)
	}
}

func TestRecommendationsDeterministic(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := testCatalog(t)

	if err := service.AddFavorite(conn, cat, 1); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}

	first, err := service.Recommendations(conn, cat, 10)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	second, err := service.Recommendations(conn, cat, 10)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Score != second[i].Score {
			t.Fatalf("run order diverged at %d: %v vs %v", i, first[i], second[i])
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i].Score > first[i-1].Score {
			t.Fatalf("scores not descending at %d: %d after %d", i, first[i].Score, first[i-1].Score)
		}
	}
}

func TestLowSugarPicks(t *testing.T) {
	t.Parallel()
	cat := testCatalog(t)

	picks := service.LowSugarPicks(cat, 3)
	if len(picks) != 3 {
		t.Fatalf("len(picks) = %d, want 3", len(picks))
	}
	top := picks[0].Product
	if !top.SugarKnown() {
		t.Fatalf("top pick %s has unknown sugar", top.Name)
	}
	if *top.SugarG >= 15 {
		t.Errorf("top pick %s has %vg sugar, want a low-sugar product", top.Name, *top.SugarG)
	}
	if picks[0].Reason != service.ReasonLowSugar {
		t.Errorf("top pick reason = %q", picks[0].Reason)
	}
}
