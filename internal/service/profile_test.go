package service_test

import (
	"strings"
	"testing"

	"github.com/caffit/caffit/internal/service"
)

func TestSaveProfileComputesLimits(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	limits := testCatalog(t).Limits()

	p, err := service.SaveProfile(conn, limits, service.SaveProfileInput{
		Name:      "morning",
		Category:  "coffee",
		AgeGroup:  "adult",
		WeightKg:  60,
		WakeTime:  "07:00",
		SleepTime: "23:00",
	})
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	// 60kg * 5.7 mg/kg = 342, below the 400 daily cap.
	if p.CaffeineLimitMg != 342 {
		t.Errorf("CaffeineLimitMg = %v, want 342", p.CaffeineLimitMg)
	}
	if p.SugarLimitG != 50 {
		t.Errorf("SugarLimitG = %v, want 50", p.SugarLimitG)
	}
	if p.AwakeHours != 16 {
		t.Errorf("AwakeHours = %v, want 16", p.AwakeHours)
	}
}

func TestSaveProfileCapsCaffeineAtDailyMax(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	limits := testCatalog(t).Limits()

	p, err := service.SaveProfile(conn, limits, service.SaveProfileInput{
		Name:      "heavy",
		Category:  "coffee",
		AgeGroup:  "adult",
		WeightKg:  120,
		WakeTime:  "08:00",
		SleepTime: "23:00",
	})
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	// 120kg * 5.7 = 684 > 400, clamped to the daily cap.
	if p.CaffeineLimitMg != 400 {
		t.Errorf("CaffeineLimitMg = %v, want 400", p.CaffeineLimitMg)
	}
}

func TestSaveProfileValidation(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	limits := testCatalog(t).Limits()

	cases := []struct {
		name string
		in   service.SaveProfileInput
		want string
	}{
		{
			name: "weight too low",
			in:   service.SaveProfileInput{Category: "coffee", AgeGroup: "adult", WeightKg: 20, WakeTime: "07:00", SleepTime: "23:00"},
			want: "weight",
		},
		{
			name: "weight too high",
			in:   service.SaveProfileInput{Category: "coffee", AgeGroup: "adult", WeightKg: 250, WakeTime: "07:00", SleepTime: "23:00"},
			want: "weight",
		},
		{
			name: "unknown age group",
			in:   service.SaveProfileInput{Category: "coffee", AgeGroup: "elder", WeightKg: 60, WakeTime: "07:00", SleepTime: "23:00"},
			want: "age group",
		},
		{
			name: "missing category",
			in:   service.SaveProfileInput{AgeGroup: "adult", WeightKg: 60, WakeTime: "07:00", SleepTime: "23:00"},
			want: "category",
		},
		{
			name: "bad wake time",
			in:   service.SaveProfileInput{Category: "coffee", AgeGroup: "adult", WeightKg: 60, WakeTime: "7am", SleepTime: "23:00"},
			want: "time",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.SaveProfile(conn, limits, tc.in)
			if err == nil {
				t.Fatal("SaveProfile() should fail")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, want substring %q", err, tc.want)
			}
		})
	}
}

func TestSaveProfileUpsertsAndActivates(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	limits := testCatalog(t).Limits()

	in := service.SaveProfileInput{
		Name: "work", Category: "tea", AgeGroup: "adult",
		WeightKg: 55, WakeTime: "06:30", SleepTime: "22:30",
	}
	if _, err := service.SaveProfile(conn, limits, in); err != nil {
		t.Fatalf("first SaveProfile() error = %v", err)
	}

	in.WeightKg = 65
	p, err := service.SaveProfile(conn, limits, in)
	if err != nil {
		t.Fatalf("second SaveProfile() error = %v", err)
	}
	if p.WeightKg != 65 {
		t.Errorf("WeightKg = %v, want 65 after upsert", p.WeightKg)
	}

	names, err := service.ListProfileNames(conn)
	if err != nil {
		t.Fatalf("ListProfileNames() error = %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("profiles = %v, want exactly one after upsert", names)
	}

	active, err := service.ActiveProfile(conn)
	if err != nil {
		t.Fatalf("ActiveProfile() error = %v", err)
	}
	if active == nil || active.Name != "work" {
		t.Errorf("active profile = %+v, want work", active)
	}
}

func TestLoadProfileMissingReturnsNil(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	p, err := service.LoadProfile(conn, "nobody")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p != nil {
		t.Errorf("LoadProfile() = %+v, want nil for missing profile", p)
	}
}

func TestDeleteProfileProtectsDefault(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	limits := testCatalog(t).Limits()

	if _, err := service.SaveProfile(conn, limits, service.SaveProfileInput{
		Category: "coffee", AgeGroup: "adult", WeightKg: 60,
		WakeTime: "07:00", SleepTime: "23:00",
	}); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	err := service.DeleteProfile(conn, "default")
	if err == nil {
		t.Fatal("DeleteProfile(default) should fail")
	}
	if !strings.Contains(err.Error(), "cannot be deleted") {
		t.Errorf("error = %q", err)
	}
}

func TestDeleteProfileFallsBackToDefault(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	limits := testCatalog(t).Limits()

	for _, name := range []string{"default", "travel"} {
		if _, err := service.SaveProfile(conn, limits, service.SaveProfileInput{
			Name: name, Category: "coffee", AgeGroup: "adult", WeightKg: 60,
			WakeTime: "07:00", SleepTime: "23:00",
		}); err != nil {
			t.Fatalf("SaveProfile(%s) error = %v", name, err)
		}
	}

	// travel is active after the last save; deleting it resets to default.
	if err := service.DeleteProfile(conn, "travel"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	active, err := service.ActiveProfile(conn)
	if err != nil {
		t.Fatalf("ActiveProfile() error = %v", err)
	}
	if active == nil || active.Name != "default" {
		t.Errorf("active profile = %+v, want default", active)
	}
}

func TestDeleteProfileMissing(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	if err := service.DeleteProfile(conn, "ghost"); err == nil {
		t.Fatal("DeleteProfile() should fail for a missing profile")
	}
}

func TestSetActiveProfileRequiresExisting(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	if err := service.SetActiveProfile(conn, "ghost"); err == nil {
		t.Fatal("SetActiveProfile() should fail for a missing profile")
	}
}
