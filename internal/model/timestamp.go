package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp decodes the several instant encodings payment backends emit: RFC 3339
// strings, zone-less ISO local date-times, epoch milliseconds, and
// [y,m,d,h,min,s,nanos] arrays.
//
// Zone-less strings and arrays carry a wall-clock time only. They are kept as that
// wall clock (stored in UTC) with Zoneless set, and In reads them in the
// requested zone. A value that cannot be decoded leaves the time zero and keeps
// the original text in Raw, so one bad record never fails the page around it.
type Timestamp struct {
	time.Time

	Zoneless bool
	Raw      string
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

const zonelessOut = "2006-01-02T15:04:05.999999999"

// In returns the instant in loc. A zone-less value keeps its wall clock and is
// interpreted as local time of loc.
func (t Timestamp) In(loc *time.Location) time.Time {
	if !t.Zoneless {
		return t.Time.In(loc)
	}
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), loc)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case t.IsZero() && t.Raw != "":
		return json.Marshal(t.Raw)
	case t.IsZero():
		return []byte("null"), nil
	case t.Zoneless:
		return json.Marshal(t.Time.Format(zonelessOut))
	default:
		return json.Marshal(t.UTC().Format(time.RFC3339Nano))
	}
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*t = Timestamp{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			t.Raw = string(b)
			return nil
		}
		parsed, zoneless, err := parseTimestamp(s)
		if err != nil {
			t.Raw = s
			return nil
		}
		t.Time, t.Zoneless = parsed, zoneless
	case '[':
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil || len(parts) < 3 {
			t.Raw = string(b)
			return nil
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t.Time = time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
		t.Zoneless = true
	default:
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			t.Raw = string(b)
			return nil
		}
		t.Time = time.UnixMilli(ms).UTC()
	}
	return nil
}

// ParseTimestamp parses a timestamp string, accepting RFC 3339 and zone-less forms.
// Zone-less forms come back as their wall clock in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	parsed, _, err := parseTimestamp(s)
	return parsed, err
}

func parseTimestamp(s string) (time.Time, bool, error) {
	if s == "" {
		return time.Time{}, false, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return parsed, false, nil
	}
	for _, layout := range zonelessLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", s)
}
