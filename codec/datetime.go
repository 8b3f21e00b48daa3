// Package codec converts date and time values to and from their text forms:
// full RFC 3339 datetimes, date-only and time-only values. Time-only values
// are anchored on the sentinel date 1900-01-01 (UTC).
package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies a time.Time by which of its parts are meaningful.
type Kind int

const (
	KindDateTime Kind = iota
	KindDate
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	default:
		return "datetime"
	}
}

// KindOf names the kind a type name stands for ("date", "time", anything
// else is a datetime).
func KindOf(typeName string) Kind {
	switch typeName {
	case "date":
		return KindDate
	case "time":
		return KindTime
	default:
		return KindDateTime
	}
}

// SentinelDate is the calendar date carried by time-only values.
var SentinelDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// ErrInvalid is wrapped by every parse failure.
var ErrInvalid = errors.New("invalid date/time")

var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999",
	}
	dateLayouts = []string{"2006-01-02", "2006-01", "2006"}
	timeLayouts = []string{
		"15:04:05.999999999Z07:00",
		"15:04:05.999999999",
		"15:04",
	}
)

// Parse reads s as the given kind. Values without a zone are UTC.
func Parse(kind Kind, s string) (time.Time, error) {
	switch kind {
	case KindDate:
		return parseWith(dateLayouts, s, kind)
	case KindTime:
		t, err := parseWith(timeLayouts, s, kind)
		if err != nil {
			return time.Time{}, err
		}
		return OnSentinel(t), nil
	default:
		return parseWith(dateTimeLayouts, s, kind)
	}
}

// ParseAny accepts a datetime, a date or a time, trying them in that order.
func ParseAny(s string) (time.Time, Kind, error) {
	for _, k := range []Kind{KindDateTime, KindDate, KindTime} {
		if t, err := Parse(k, s); err == nil {
			return t, k, nil
		}
	}
	return time.Time{}, KindDateTime, fmt.Errorf("%w: %q", ErrInvalid, s)
}

func parseWith(layouts []string, s string, kind Kind) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %s: %q", ErrInvalid, kind, s)
}

// OnSentinel keeps t's UTC time of day and moves it to the sentinel date.
func OnSentinel(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(1900, time.January, 1, u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

// Infer classifies t in UTC: a zero time of day is a date, the sentinel date
// is a time, anything else is a datetime.
func Infer(t time.Time) Kind {
	u := t.UTC()
	h, m, s := u.Clock()
	if h == 0 && m == 0 && s == 0 && u.Nanosecond() == 0 {
		return KindDate
	}
	if y, mo, d := u.Date(); y == 1900 && mo == time.January && d == 1 {
		return KindTime
	}
	return KindDateTime
}

// Format renders t in UTC as the given kind, with trailing zero fractions
// trimmed.
func Format(kind Kind, t time.Time) string {
	u := t.UTC()
	switch kind {
	case KindDate:
		return u.Format("2006-01-02")
	case KindTime:
		return u.Format("15:04:05.999999999")
	default:
		return u.Format(time.RFC3339Nano)
	}
}

// Notation renders t with its notation prefix: d'…', t'…' or dt'…'.
func Notation(kind Kind, t time.Time) string {
	prefix := "dt"
	switch kind {
	case KindDate:
		prefix = "d"
	case KindTime:
		prefix = "t"
	}
	return prefix + "'" + Format(kind, t) + "'"
}
