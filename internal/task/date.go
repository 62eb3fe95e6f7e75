package task

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted due date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// ParseDate parses s strictly as YYYY-MM-DD. Out-of-range months or days
// ("2024-13-01", "2023-02-29") are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse %q: %w", s, ErrInvalidDateFormat)
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// DaysFrom returns the signed number of days from today to d. Both dates sit
// at UTC midnight, so the difference in Unix seconds is whole days.
func (d Date) DaysFrom(today Date) int {
	return int((d.Unix() - today.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// MarshalJSON implements the json.Marshaler interface for Date.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface for Date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
