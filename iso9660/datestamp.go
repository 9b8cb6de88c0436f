// Package iso9660 provides the ISO 9660 directory record date stamp used by the
// disc image builder and the host metadata adapters.
package iso9660

import (
	"errors"
	"fmt"
	"time"
)

// DateStampSize is the encoded length of a directory record date stamp (ECMA-119 9.1.5)
const DateStampSize = 7

const (
	minGMTOffset = -48
	maxGMTOffset = 52

	offsetUnit = 15 * time.Minute
)

// ErrUnspecifiedDate is returned for the all-zero stamp, which ECMA-119 reserves for "not specified"
var ErrUnspecifiedDate = errors.New("iso9660: date stamp not specified")

// RangeError reports a date stamp field outside its valid range
type RangeError struct {
	Field string
	Value int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("iso9660: date stamp %s out of range: %d", e.Field, e.Value)
}

// DateStamp is the 7-byte recording date and time of a directory record.
// Year counts from 1900 and GMTOffset is in 15 minute intervals from GMT.
type DateStamp struct {
	Year      uint8
	Month     uint8
	Day       uint8
	Hour      uint8
	Minute    uint8
	Second    uint8
	GMTOffset int8
}

// IsZero reports whether every field is zero
func (d DateStamp) IsZero() bool {
	return d == DateStamp{}
}

// Validate checks every field against ECMA-119 and the calendar
func (d DateStamp) Validate() error {
	if d.IsZero() {
		return ErrUnspecifiedDate
	}

	switch {
	case d.Month < 1 || d.Month > 12:
		return &RangeError{Field: "month", Value: int(d.Month)}
	case d.Day < 1 || int(d.Day) > daysIn(time.Month(d.Month), 1900+int(d.Year)):
		return &RangeError{Field: "day", Value: int(d.Day)}
	case d.Hour > 23:
		return &RangeError{Field: "hour", Value: int(d.Hour)}
	case d.Minute > 59:
		return &RangeError{Field: "minute", Value: int(d.Minute)}
	case d.Second > 59:
		return &RangeError{Field: "second", Value: int(d.Second)}
	case d.GMTOffset < minGMTOffset || d.GMTOffset > maxGMTOffset:
		return &RangeError{Field: "gmt offset", Value: int(d.GMTOffset)}
	}

	return nil
}

// Location returns the fixed zone described by GMTOffset
func (d DateStamp) Location() *time.Location {
	offset := int(d.GMTOffset) * int(offsetUnit/time.Second)
	if offset == 0 {
		return time.UTC
	}
	return time.FixedZone(zoneName(offset), offset)
}

// Time returns the instant the stamp denotes, in UTC.
// The result is only meaningful for a stamp that passes Validate.
func (d DateStamp) Time() time.Time {
	return d.localTime().UTC()
}

func (d DateStamp) localTime() time.Time {
	return time.Date(1900+int(d.Year), time.Month(d.Month), int(d.Day),
		int(d.Hour), int(d.Minute), int(d.Second), 0, d.Location())
}

// String renders the stamp as RFC 3339 in its own zone
func (d DateStamp) String() string {
	if err := d.Validate(); err != nil {
		return fmt.Sprintf("invalid(%d-%d-%d %d:%d:%d %+d)",
			d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second, d.GMTOffset)
	}
	return d.localTime().Format(time.RFC3339)
}

// FromTime builds a stamp from t, keeping t's wall clock and zone.
// Zone offsets are truncated toward zero to a multiple of 15 minutes and
// sub-second precision is dropped.
func FromTime(t time.Time) (DateStamp, error) {
	_, offset := t.Zone()
	units := offset / int(offsetUnit/time.Second)
	if units < minGMTOffset || units > maxGMTOffset {
		return DateStamp{}, &RangeError{Field: "gmt offset", Value: units}
	}

	zone := DateStamp{GMTOffset: int8(units)}.Location()
	local := t.In(zone)

	year := local.Year() - 1900
	if year < 0 || year > 255 {
		return DateStamp{}, &RangeError{Field: "year", Value: local.Year()}
	}

	return DateStamp{
		Year:      uint8(year),
		Month:     uint8(local.Month()),
		Day:       uint8(local.Day()),
		Hour:      uint8(local.Hour()),
		Minute:    uint8(local.Minute()),
		Second:    uint8(local.Second()),
		GMTOffset: int8(units),
	}, nil
}

// ParseDateStamp parses an RFC 3339 timestamp into a stamp
func ParseDateStamp(s string) (DateStamp, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DateStamp{}, fmt.Errorf("iso9660: parse date stamp %q: %w", s, err)
	}
	return FromTime(t)
}

// MarshalBinary encodes the stamp in its 7-byte directory record form
func (d DateStamp) MarshalBinary() ([]byte, error) {
	return []byte{d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second, byte(d.GMTOffset)}, nil
}

// UnmarshalBinary decodes the 7-byte directory record form
func (d *DateStamp) UnmarshalBinary(data []byte) error {
	if len(data) < DateStampSize {
		return fmt.Errorf("iso9660: date stamp needs %d bytes, got %d", DateStampSize, len(data))
	}

	*d = DateStamp{
		Year:      data[0],
		Month:     data[1],
		Day:       data[2],
		Hour:      data[3],
		Minute:    data[4],
		Second:    data[5],
		GMTOffset: int8(data[6]),
	}
	return nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func zoneName(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%c%02d%02d", sign, offset/3600, (offset%3600)/60)
}
