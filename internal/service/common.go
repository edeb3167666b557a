package service

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func normalizeDate(date string, now time.Time) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return now.Format(dateLayout), nil
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return parsed.Format(dateLayout), nil
}

func normalizeProfileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultProfileName
	}
	return name
}
