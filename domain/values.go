package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision. The wire and
// storage form is "HH:MM"; anything carrying seconds is rejected.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" strictly.
func ParseClockTime(value string) (ClockTime, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return ClockTime{}, fmt.Errorf("time must be in HH:MM form: %q", value)
	}
	return ClockTime{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time must be a string: %s", data)
	}
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Date is a calendar date without a time component, serialized "YYYY-MM-DD".
type Date time.Time

// ParseDate parses "YYYY-MM-DD".
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("date must be in YYYY-MM-DD form: %q", value)
	}
	return Date(parsed), nil
}

func (d Date) String() string {
	return time.Time(d).Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("date must be a string: %s", data)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Time exposes the underlying time.Time for storage drivers.
func (d Date) Time() time.Time {
	return time.Time(d)
}

// FlexBool is a boolean that additionally accepts the strconv.ParseBool
// token set as a JSON string ("1", "t", "TRUE", "false", ...). Ambiguous
// tokens fail instead of defaulting.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch text {
	case "true":
		*b = true
		return nil
	case "false":
		*b = false
		return nil
	}
	raw, err := strconv.Unquote(text)
	if err != nil {
		return fmt.Errorf("boolean must be true/false or a recognised token: %s", data)
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("unrecognised boolean token: %q", raw)
	}
	*b = FlexBool(parsed)
	return nil
}

func (b FlexBool) Bool() bool {
	return bool(b)
}
