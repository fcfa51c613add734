package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Wire layouts. Timestamps carry microseconds only when the stored value has them.
const (
	DateLayout           = "2006-01-02"
	TimestampLayout      = "2006-01-02T15:04:05"
	TimestampMicroLayout = "2006-01-02T15:04:05.000000"
)

// parseLayouts are tried in order when reading dates and timestamps back from
// text, whether from JSON or from a driver that hands over raw column bytes.
var parseLayouts = []string{
	time.RFC3339Nano,
	TimestampLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	DateLayout,
}

// Date is a calendar date serialized as ISO-8601 (YYYY-MM-DD).
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as ISO-8601, or returns "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := unmarshalISO(b)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if t.IsZero() {
		*d = Date{}
		return nil
	}
	*d = NewDate(t)
	return nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	t, err := scanISO(src)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if t.IsZero() {
		*d = Date{}
		return nil
	}
	*d = NewDate(t)
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

// Timestamp is a date and time serialized as ISO-8601 without a zone suffix.
// The wall clock is emitted exactly as the store returned it.
type Timestamp struct {
	time.Time
}

// String formats the timestamp as ISO-8601, or returns "" for the zero value.
func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	if ts.Nanosecond()/int(time.Microsecond) != 0 {
		return ts.Format(TimestampMicroLayout)
	}
	return ts.Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	t, err := unmarshalISO(b)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	ts.Time = t
	return nil
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src any) error {
	t, err := scanISO(src)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	ts.Time = t
	return nil
}

// Value implements driver.Valuer.
func (ts Timestamp) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return ts.Time, nil
}

func unmarshalISO(b []byte) (time.Time, error) {
	if bytes.Equal(b, []byte("null")) {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	return parseISO(s)
}

func scanISO(src any) (time.Time, error) {
	switch v := src.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		return parseISO(v)
	case []byte:
		return parseISO(string(v))
	default:
		return time.Time{}, fmt.Errorf("unsupported source type %T", src)
	}
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as ISO-8601", s)
}
