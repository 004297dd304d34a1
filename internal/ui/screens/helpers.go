package screens

import (
	"fmt"
	"time"
)

// FormatTokens renders a token count the way the dashboard displays usage:
// thousands collapse to one decimal with a "k" suffix, smaller counts print
// as-is.
func FormatTokens(tokens int64) string {
	if tokens <= 0 {
		return "0"
	}
	if tokens >= 1000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%d", tokens)
}

// PageSlice returns the bounds of page (1-based) over total items, so list
// views slice exactly [(page-1)*size, page*size) of the filtered result.
func PageSlice(total, page, size int) (start, end int) {
	if page < 1 {
		page = 1
	}
	start = (page - 1) * size
	if start > total {
		start = total
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end
}

func pageCount(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ValidateDeadline checks a deadline form value before a create request is
// issued: it must be present, ISO-8601, and not in the past. Edits use
// CheckDeadlineFormat alone, since an overdue task legitimately carries a
// past deadline.
func ValidateDeadline(value string, now time.Time) error {
	if err := CheckDeadlineFormat(value); err != nil {
		return err
	}
	t, _ := parseDeadline(value)
	if t.Before(now) {
		return fmt.Errorf("deadline cannot be in the past")
	}
	return nil
}

// CheckDeadlineFormat verifies a deadline form value is present and parseable.
func CheckDeadlineFormat(value string) error {
	if value == "" {
		return fmt.Errorf("deadline is required")
	}
	if _, err := parseDeadline(value); err != nil {
		return fmt.Errorf("deadline must be an ISO-8601 timestamp")
	}
	return nil
}

// parseDeadline accepts full RFC 3339 stamps or the date-only and
// date-plus-minutes forms a user would type.
func parseDeadline(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %s", value)
}

// formatStamp shortens a backend RFC 3339 timestamp for list rows; unparseable
// values render verbatim.
func formatStamp(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format("Jan 02 15:04")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
