package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var dateLocation atomic.Pointer[time.Location]

func init() {
	dateLocation.Store(time.UTC)
}

// SetDateLocation sets the business location used to read the calendar day
// out of zoned timestamps. "2024-03-31T22:00:00Z" is 1 April in Prague.
func SetDateLocation(loc *time.Location) {
	if loc != nil {
		dateLocation.Store(loc)
	}
}

// Date is a calendar date decoded leniently from the backend. Plain dates and
// zoneless timestamps keep their calendar day; zoned timestamps are read in
// the business location. The zero value means the field was absent, null or
// empty.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			if layout == time.RFC3339 {
				parsed = parsed.In(dateLocation.Load())
			}
			return NewDate(parsed), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", raw)
}

func (d Date) Valid() bool {
	return !d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Decimal accepts JSON numbers as well as numeric strings, which the backend
// emits for money columns.
type Decimal float64

func (v Decimal) Float() float64 {
	return float64(v)
}

func (v *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = 0
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
		if raw == "" {
			*v = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		*v = Decimal(parsed)
		return nil
	}
	var parsed float64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*v = Decimal(parsed)
	return nil
}
