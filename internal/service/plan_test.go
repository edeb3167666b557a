package service_test

import (
	"fmt"
	"testing"

	"github.com/caffit/caffit/internal/model"
	"github.com/caffit/caffit/internal/service"
)

func sugar(g float64) *float64 { return &g }

func testPlanInput(result string) service.SavePlanInput {
	return service.SavePlanInput{
		Profile: model.Profile{
			Name: "default", Category: "coffee", AgeGroup: "adult",
			WeightKg: 60, WakeTime: "07:00", SleepTime: "23:00",
			CaffeineLimitMg: 342, SugarLimitG: 50, AwakeHours: 16,
		},
		Products: []model.PlanProduct{
			{Name: "Americano", Category: "coffee", CaffeineMg: 125, SugarG: sugar(0)},
			{Name: "Cola", Category: "soda", CaffeineMg: 23, SugarG: sugar(27)},
		},
		Result:    result,
		StartTime: "09:00",
	}
}

func TestSavePlanAssignsDistinctIDs(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		id, err := service.SavePlan(conn, testPlanInput(fmt.Sprintf("plan %d", i)))
		if err != nil {
			t.Fatalf("SavePlan() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("SavePlan() reused id %d", id)
		}
		seen[id] = true
	}
}

func TestSavePlanValidation(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	in := testPlanInput("ok")
	in.Products = nil
	if _, err := service.SavePlan(conn, in); err == nil {
		t.Error("SavePlan() without products should fail")
	}

	in = testPlanInput("  ")
	if _, err := service.SavePlan(conn, in); err == nil {
		t.Error("SavePlan() with blank result should fail")
	}
}

func TestPlanHistoryCapped(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	var firstID int64
	for i := 0; i < 51; i++ {
		id, err := service.SavePlan(conn, testPlanInput(fmt.Sprintf("plan %d", i)))
		if err != nil {
			t.Fatalf("SavePlan(%d) error = %v", i, err)
		}
		if i == 0 {
			firstID = id
		}
	}

	plans, err := service.PlanHistory(conn)
	if err != nil {
		t.Fatalf("PlanHistory() error = %v", err)
	}
	if len(plans) != 50 {
		t.Fatalf("len(history) = %d, want 50", len(plans))
	}
	if plans[0].ResultText != "plan 50" {
		t.Errorf("history[0].ResultText = %q, want newest first", plans[0].ResultText)
	}

	evicted, err := service.PlanByID(conn, firstID)
	if err != nil {
		t.Fatalf("PlanByID() error = %v", err)
	}
	if evicted != nil {
		t.Error("oldest plan should be evicted after exceeding the cap")
	}
}

func TestPlanByIDRoundTrip(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	id, err := service.SavePlan(conn, testPlanInput("drink slowly"))
	if err != nil {
		t.Fatalf("SavePlan() error = %v", err)
	}

	p, err := service.PlanByID(conn, id)
	if err != nil {
		t.Fatalf("PlanByID() error = %v", err)
	}
	if p == nil {
		t.Fatal("PlanByID() = nil for a saved plan")
	}
	if p.Profile.Name != "default" {
		t.Errorf("Profile.Name = %q", p.Profile.Name)
	}
	if len(p.Products) != 2 || p.Products[0].Name != "Americano" {
		t.Errorf("Products = %+v", p.Products)
	}
	if p.TotalCaffeineMg != 148 {
		t.Errorf("TotalCaffeineMg = %v, want 148", p.TotalCaffeineMg)
	}
	if p.TotalSugarG != 27 {
		t.Errorf("TotalSugarG = %v, want 27", p.TotalSugarG)
	}
}

func TestPlanByIDMissing(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	p, err := service.PlanByID(conn, 42)
	if err != nil {
		t.Fatalf("PlanByID() error = %v", err)
	}
	if p != nil {
		t.Errorf("PlanByID() = %+v, want nil", p)
	}
}

func TestDeletePlan(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	id, err := service.SavePlan(conn, testPlanInput("one"))
	if err != nil {
		t.Fatalf("SavePlan() error = %v", err)
	}
	if err := service.DeletePlan(conn, id); err != nil {
		t.Fatalf("DeletePlan() error = %v", err)
	}
	// Deleting an absent plan is a no-op.
	if err := service.DeletePlan(conn, id); err != nil {
		t.Fatalf("DeletePlan() second call error = %v", err)
	}
}

func TestPlanTotalsSkipsUnknownSugar(t *testing.T) {
	t.Parallel()

	caffeine, sugarTotal := service.PlanTotals([]model.PlanProduct{
		{Name: "Americano", CaffeineMg: 125, SugarG: sugar(0)},
		{Name: "Green Tea", CaffeineMg: 30},
		{Name: "Cola", CaffeineMg: 23, SugarG: sugar(27)},
	})
	if caffeine != 178 {
		t.Errorf("caffeine total = %v, want 178", caffeine)
	}
	if sugarTotal != 27 {
		t.Errorf("sugar total = %v, want 27 (unknown sugar excluded)", sugarTotal)
	}
}
