package utils

import (
	"time"

	v1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type _time = v1.Time

// Timestamp is a record time as delivered by the admin API.
// Sub-second precision and zone offsets are accepted.
type Timestamp struct {
	_time `json:",inline"`
}

func NewTimestampFor(t time.Time) Timestamp {
	return Timestamp{
		_time: v1.NewTime(t.UTC().Round(time.Second)),
	}
}

// ParseTimestamp parses an RFC 3339 time with optional fraction.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestampFor(t), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Null and empty strings are kept as zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = Timestamp{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: time.RFC3339Nano, Value: s}
	}
	tt, err := ParseTimestamp(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = tt
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Date formats the day part the way the dashboard lists recent records.
func (t Timestamp) Date() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func (t *Timestamp) Time() time.Time {
	return t._time.Time
}
