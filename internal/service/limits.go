package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caffit/caffit/internal/catalog"
)

// fallbackSugarLimitG applies when the age group has no configured limit.
const fallbackSugarLimitG = 50

// CaffeineLimitMg returns the daily caffeine ceiling for an age group and
// body weight: a per-kilogram rate capped by the group's absolute maximum.
// Unknown age groups yield 0; callers treat that as a validation failure.
func CaffeineLimitMg(limits catalog.Limits, ageGroup string, weightKg float64) float64 {
	rule, ok := limits.Caffeine[ageGroup]
	if !ok {
		return 0
	}
	limit := weightKg * rule.MgPerKg
	if limit > rule.MaxDailyMg {
		limit = rule.MaxDailyMg
	}
	return limit
}

// SugarLimitG returns the flat daily sugar ceiling for an age group.
func SugarLimitG(limits catalog.Limits, ageGroup string) float64 {
	if limit, ok := limits.Sugar[ageGroup]; ok {
		return limit
	}
	return fallbackSugarLimitG
}

// AwakeHours computes the waking window between wake and sleep times,
// wrapping past midnight when the sleep time is earlier in the day.
func AwakeHours(wakeTime, sleepTime string) (float64, error) {
	wake, err := parseClock(wakeTime)
	if err != nil {
		return 0, fmt.Errorf("invalid wake time %q (expected HH:MM)", wakeTime)
	}
	sleep, err := parseClock(sleepTime)
	if err != nil {
		return 0, fmt.Errorf("invalid sleep time %q (expected HH:MM)", sleepTime)
	}
	if sleep > wake {
		return float64(sleep-wake) / 60, nil
	}
	return float64(1440-wake+sleep) / 60, nil
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", value)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed hour in %q", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed minute in %q", value)
	}
	return h*60 + m, nil
}
