// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tiingo

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/stockparfait/errors"
)

// Precision of the timestamps after Normalize.
const Precision = time.Millisecond

// Normalize brings t to UTC with millisecond precision. Different endpoints
// and even different calls to the same endpoint may report the same instant
// in different timezones or with different sub-second digits, and all the
// timestamp comparisons in this package are made on normalized values.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(Precision)
}

// ParseTime parses timestamps as reported by Tiingo and as accepted on the
// command line: RFC 3339 with or without fractional seconds, or a plain date.
// Values without a timezone are assumed to be in UTC. The result is
// normalized.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.Reason("empty time string")
	}
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999Z0700",
		"2006-01-02 15:04:05.999Z07:00",
		"2006-01-02T15:04:05.999",
		"2006-01-02 15:04:05.999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if tm, err := time.Parse(f, s); err == nil {
			return Normalize(tm), nil
		}
	}
	return time.Time{}, errors.Reason("unsupported time format: '%s'", s)
}

// FormatDate formats t as a startDate/endDate query parameter value: a plain
// date when t is a UTC midnight, RFC 3339 otherwise.
func FormatDate(t time.Time) string {
	t = Normalize(t)
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339Nano)
}

// Time is a wrapper around time.Time with JSON methods. The value is always
// normalized.
type Time time.Time

var _ json.Marshaler = &Time{}
var _ json.Unmarshaler = &Time{}

// NewTime creates a normalized Time in UTC.
func NewTime(year, month, day, hour, minute, second int) Time {
	return Time(time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC))
}

// Std converts to the standard time.Time.
func (t Time) Std() time.Time { return time.Time(t) }

// String representation of Time in RFC 3339 format.
func (t Time) String() string {
	return time.Time(t).Format(time.RFC3339Nano)
}

// MarshalJSON implements json.Marshaler.
func (t *Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. JSON null leaves the value
// unchanged.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Annotate(err, "Time JSON must be a string")
	}
	tm, err := ParseTime(s)
	if err != nil {
		return errors.Annotate(err, "failed to parse time string: '%s'", s)
	}
	*t = Time(tm)
	return nil
}

// Range of dates or datetimes for a query. A zero Start means the earliest
// available data, a zero End means now.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange parses the bounds with ParseTime. Empty strings leave the
// corresponding bound unset.
func NewRange(start, end string) (Range, error) {
	var r Range
	var err error
	if start != "" {
		if r.Start, err = ParseTime(start); err != nil {
			return Range{}, errors.Annotate(err, "invalid start date")
		}
	}
	if end != "" {
		if r.End, err = ParseTime(end); err != nil {
			return Range{}, errors.Annotate(err, "invalid end date")
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return Range{}, errors.Reason("end date %s is before start date %s",
			FormatDate(r.End), FormatDate(r.Start))
	}
	return r, nil
}

// IsZero is true when neither bound is set.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Values returns the startDate and endDate query parameters for the bounds
// which are set.
func (r Range) Values() url.Values {
	v := make(url.Values)
	if !r.Start.IsZero() {
		v.Set("startDate", FormatDate(r.Start))
	}
	if !r.End.IsZero() {
		v.Set("endDate", FormatDate(r.End))
	}
	return v
}

// String representation of the range, for logging.
func (r Range) String() string {
	s, e := "earliest", "now"
	if !r.Start.IsZero() {
		s = FormatDate(r.Start)
	}
	if !r.End.IsZero() {
		e = FormatDate(r.End)
	}
	return "[" + s + ", " + e + "]"
}
