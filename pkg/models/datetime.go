package models

import (
	"fmt"
	"strconv"
	"time"
)

// Layouts accepted for timestamps. The API serialises naive UTC datetimes
// without a zone designator, so RFC 3339 alone is not enough.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp embeds time.Time
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (d Timestamp) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.UTC().Format(time.RFC3339Nano))), nil
}

func (d *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Timestamp{}
		return nil
	}

	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*d = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Date renders the calendar date the way list views show it.
func (d Timestamp) Date() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}
