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

// Package stats computes simple statistics over fetched price series.
package stats

import (
	"math"
	"time"

	"github.com/stockparfait/errors"
)

// Timeseries stores numeric values along with timestamps. The timestamps are
// always sorted in ascending order.
type Timeseries struct {
	dates []time.Time
	data  []float64
}

// NewTimeseries creates a new Timeseries. The dates are expected to be sorted
// in ascending order (not checked). It panics if dates and data have different
// lengths.  Note, that the argument slices are used as is, not copied.  Use
// Copy() if arguments need to be modified after the call.
func NewTimeseries(dates []time.Time, data []float64) *Timeseries {
	if len(dates) != len(data) {
		panic(errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(dates), len(data)))
	}
	return &Timeseries{dates: dates, data: data}
}

// FromPoints extracts a Timeseries of values from points sorted by their
// timestamps, such as a tiingo.Series.
func FromPoints[P interface{ Timestamp() time.Time }](points []P, value func(P) float64) *Timeseries {
	dates := make([]time.Time, len(points))
	data := make([]float64, len(points))
	for i, p := range points {
		dates[i] = p.Timestamp()
		data[i] = value(p)
	}
	return NewTimeseries(dates, data)
}

// Dates of the Timeseries.
func (t *Timeseries) Dates() []time.Time { return t.dates }

// Data of the Timeseries.
func (t *Timeseries) Data() []float64 { return t.data }

// Len is the number of points.
func (t *Timeseries) Len() int { return len(t.data) }

// Copy makes a deep copy of the Timeseries.
func (t *Timeseries) Copy() *Timeseries {
	dates := make([]time.Time, len(t.dates))
	data := make([]float64, len(t.data))
	copy(dates, t.dates)
	copy(data, t.data)
	return NewTimeseries(dates, data)
}

// Check that Timeseries is consistent: the lengths of dates and data are the
// same and the dates are ordered in ascending order.
func (t *Timeseries) Check() error {
	if len(t.dates) != len(t.data) {
		return errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(t.dates), len(t.data))
	}
	for i := 1; i < len(t.dates); i++ {
		if !t.dates[i-1].Before(t.dates[i]) {
			return errors.Reason("dates[%d] = %s >= dates[%d] = %s",
				i-1, t.dates[i-1].Format(time.RFC3339), i, t.dates[i].Format(time.RFC3339))
		}
	}
	return nil
}

// Range extracts the sub-series from the inclusive time interval. A zero start
// or end leaves the corresponding side unbounded. It may return an empty
// Timeseries, but never nil.
func (t *Timeseries) Range(start, end time.Time) *Timeseries {
	s, e := 0, len(t.dates)
	for s < e && !start.IsZero() && t.dates[s].Before(start) {
		s++
	}
	for e > s && !end.IsZero() && t.dates[e-1].After(end) {
		e--
	}
	if s == 0 && e == len(t.dates) {
		return t
	}
	return NewTimeseries(t.dates[s:e], t.data[s:e])
}

// LogProfits computes a new Timeseries of log-profits {log(x[t+n]) -
// log(x[t])}. The associated log-profit date is t+n.
func (t *Timeseries) LogProfits(n int) *Timeseries {
	if n < 1 {
		panic(errors.Reason("n=%d must be >= 1", n))
	}
	if n >= len(t.data) {
		return NewTimeseries(nil, nil)
	}
	logs := make([]float64, len(t.data))
	for i, d := range t.data {
		logs[i] = math.Log(d)
	}
	deltas := make([]float64, 0, len(logs)-n)
	for i := n; i < len(logs); i++ {
		deltas = append(deltas, logs[i]-logs[i-n])
	}
	return NewTimeseries(t.dates[n:], deltas)
}
