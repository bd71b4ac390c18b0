package service

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func normalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return date, nil
}

func validateHour(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour must be in [0,23], got %d", hour)
	}
	return nil
}

func validateNonNegativeInt(name string, value int) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func beginningOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func inclusiveDayCount(from, to time.Time) int {
	count := 0
	for d := beginningOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		count++
	}
	return count
}
