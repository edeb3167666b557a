package model

import "time"

type Profile struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	AgeGroup        string  `json:"age_group"`
	WeightKg        float64 `json:"weight_kg"`
	WakeTime        string  `json:"wake_time"`
	SleepTime       string  `json:"sleep_time"`
	CaffeineLimitMg float64 `json:"caffeine_limit_mg"`
	SugarLimitG     float64 `json:"sugar_limit_g"`
	AwakeHours      float64 `json:"awake_hours"`
	SavedAt         time.Time
}

// PlanProduct is the value snapshot of a catalog product captured
// inside a saved plan. SugarG is nil when the catalog has no data.
type PlanProduct struct {
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	CaffeineMg float64  `json:"caffeine_mg"`
	SugarG     *float64 `json:"sugar_g,omitempty"`
}

type PlanRecord struct {
	ID              int64
	Profile         Profile
	Products        []PlanProduct
	ResultText      string
	StartTime       string
	TotalCaffeineMg float64
	TotalSugarG     float64
	SavedAt         time.Time
}

type DailyReport struct {
	Date            string  `json:"date"`
	TotalCaffeineMg float64 `json:"total_caffeine_mg"`
	TotalSugarG     float64 `json:"total_sugar_g"`
	ProductCount    int     `json:"product_count"`
}
