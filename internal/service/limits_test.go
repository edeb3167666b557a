package service_test

import (
	"testing"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/service"
)

func testLimits() catalog.Limits {
	return catalog.Limits{
		Caffeine: map[string]catalog.CaffeineRule{
			"teen":  {MgPerKg: 2.5, MaxDailyMg: 125},
			"adult": {MgPerKg: 5.7, MaxDailyMg: 400},
		},
		Sugar: map[string]float64{
			"teen":  40,
			"adult": 50,
		},
	}
}

func TestCaffeineLimitMg(t *testing.T) {
	t.Parallel()
	limits := testLimits()

	cases := []struct {
		name     string
		ageGroup string
		weight   float64
		want     float64
	}{
		{name: "adult below cap", ageGroup: "adult", weight: 60, want: 342},
		{name: "adult at cap", ageGroup: "adult", weight: 200, want: 400},
		{name: "teen below cap", ageGroup: "teen", weight: 40, want: 100},
		{name: "teen at cap", ageGroup: "teen", weight: 60, want: 125},
		{name: "unknown group", ageGroup: "elder", weight: 60, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.CaffeineLimitMg(limits, tc.ageGroup, tc.weight)
			if got != tc.want {
				t.Errorf("CaffeineLimitMg(%s, %v) = %v, want %v", tc.ageGroup, tc.weight, got, tc.want)
			}
		})
	}
}

func TestSugarLimitG(t *testing.T) {
	t.Parallel()
	limits := testLimits()

	if got := service.SugarLimitG(limits, "teen"); got != 40 {
		t.Errorf("SugarLimitG(teen) = %v, want 40", got)
	}
	if got := service.SugarLimitG(limits, "elder"); got != 50 {
		t.Errorf("SugarLimitG(elder) = %v, want fallback 50", got)
	}
}

func TestAwakeHours(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		wake  string
		sleep string
		want  float64
	}{
		{name: "same day", wake: "07:00", sleep: "23:00", want: 16},
		{name: "overnight", wake: "23:00", sleep: "07:00", want: 8},
		{name: "half hour", wake: "06:30", sleep: "22:00", want: 15.5},
		{name: "equal times wrap full day", wake: "08:00", sleep: "08:00", want: 24},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.AwakeHours(tc.wake, tc.sleep)
			if err != nil {
				t.Fatalf("AwakeHours() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("AwakeHours(%s, %s) = %v, want %v", tc.wake, tc.sleep, got, tc.want)
			}
		})
	}
}

func TestAwakeHoursRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"7am", "25:00", "07:61", ""} {
		if _, err := service.AwakeHours(value, "23:00"); err == nil {
			t.Errorf("AwakeHours(%q, ..) should fail", value)
		}
	}
}
