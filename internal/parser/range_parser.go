package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ParseDateRange parses an export range into [from, to] dates (YYYY-MM-DD).
// Supported formats:
// - "today", "yesterday"
// - "week" (Monday through today), "month" (1st through today)
// - "YYYY-MM-DD" (single day)
// - "YYYY-MM-DD..YYYY-MM-DD"
func ParseDateRange(input string, now time.Time) (string, string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := now.Format("2006-01-02")

	switch input {
	case "", "today":
		return today, today, nil
	case "yesterday":
		y := now.AddDate(0, 0, -1).Format("2006-01-02")
		return y, y, nil
	case "week":
		return weekStart(now).Format("2006-01-02"), today, nil
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.Format("2006-01-02"), today, nil
	}

	if from, to, err := parseExplicitRange(input); err == nil {
		return from, to, nil
	}

	if day, err := parseDay(input); err == nil {
		return day, day, nil
	}

	return "", "", fmt.Errorf("invalid range %q. Use: today, yesterday, week, month, YYYY-MM-DD or YYYY-MM-DD..YYYY-MM-DD", input)
}

// weekStart returns the Monday of the week containing t
func weekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return t.AddDate(0, 0, -offset)
}

// parseDay validates a single YYYY-MM-DD date
func parseDay(input string) (string, error) {
	dateRegex := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	if !dateRegex.MatchString(input) {
		return "", fmt.Errorf("invalid date format")
	}

	parsed, err := time.Parse("2006-01-02", input)
	if err != nil {
		return "", fmt.Errorf("invalid date: %w", err)
	}

	return parsed.Format("2006-01-02"), nil
}

// parseExplicitRange parses "YYYY-MM-DD..YYYY-MM-DD"
func parseExplicitRange(input string) (string, string, error) {
	parts := strings.SplitN(input, "..", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("not a range")
	}

	from, err := parseDay(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", "", err
	}
	to, err := parseDay(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", err
	}

	if to < from {
		return "", "", fmt.Errorf("range %s..%s is reversed", from, to)
	}

	return from, to, nil
}
