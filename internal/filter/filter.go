// Package filter turns the operator's calendar date and clock-time inputs into the
// inclusive UTC range sent with history queries.
package filter

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is matched by every date construction failure.
var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError reports the input that could not be turned into an instant.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid date: %s", e.Reason)
	}
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// isoMillis is the wire format of both bounds: UTC, millisecond precision, Z suffix.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

const localLayout = "2006-01-02T15:04:05"

// Range is a committed (From, To) pair of ISO-8601 UTC instants. The zero Range
// means no filter.
type Range struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// IsZero reports whether no filter is applied. A range with one missing bound is
// treated as no filter.
func (r Range) IsZero() bool {
	return r.From == "" || r.To == ""
}

// BuildFrom interprets date+fromTime as a wall-clock time in loc and returns the
// matching UTC instant. HH:MM inputs get ":00" seconds appended.
func BuildFrom(date, fromTime string, loc *time.Location) (string, error) {
	if date == "" || fromTime == "" {
		return "", &InvalidDateError{Input: date + "T" + fromTime, Reason: "date or time missing"}
	}
	if loc == nil {
		loc = time.Local
	}
	if len(fromTime) == 5 {
		fromTime += ":00"
	}
	input := date + "T" + fromTime
	t, err := time.ParseInLocation(localLayout, input, loc)
	if err != nil {
		return "", &InvalidDateError{Input: input, Reason: err.Error()}
	}
	return t.UTC().Format(isoMillis), nil
}

// BuildTo pushes the upper bound to the last millisecond of the selected minute or
// second, or of the whole day when toTime is neither HH:MM nor HH:MM:SS.
//
// Unlike BuildFrom, the wall-clock value is suffixed with Z as-is and is not
// converted from the viewer's zone.
func BuildTo(date, toTime string) string {
	switch len(toTime) {
	case 5:
		return date + "T" + toTime + ":59.999Z"
	case 8:
		return date + "T" + toTime + ".999Z"
	default:
		return date + "T23:59:59.999Z"
	}
}

// Build returns the full range for the given inputs.
func Build(date, fromTime, toTime string, loc *time.Location) (Range, error) {
	from, err := BuildFrom(date, fromTime, loc)
	if err != nil {
		return Range{}, err
	}
	return Range{From: from, To: BuildTo(date, toTime)}, nil
}
