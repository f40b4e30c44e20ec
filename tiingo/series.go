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
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/marketdata/table"
	"golang.org/x/exp/slices"
)

// Point is a single price sample keyed by its timestamp, the value of the
// "date" field in the API response.
type Point interface {
	table.Row
	Timestamp() time.Time
}

// Series of points ordered strictly ascending by timestamp.
type Series[P Point] []P

// NewSeries sorts the points by timestamp and keeps only the first of the
// points with the same timestamp. The sort is stable, so "first" refers to the
// order of the argument, which is not modified. Applying NewSeries to a Series
// returns an identical Series.
func NewSeries[P Point](points []P) Series[P] {
	sorted := make([]P, len(points))
	copy(sorted, points)
	slices.SortStableFunc(sorted, func(a, b P) bool {
		return a.Timestamp().Before(b.Timestamp())
	})
	return iterator.Reduce[P, Series[P]](iterator.FromSlice(sorted), Series[P]{},
		func(p P, s Series[P]) Series[P] {
			if n := len(s); n > 0 && s[n-1].Timestamp().Equal(p.Timestamp()) {
				return s
			}
			return append(s, p)
		})
}

// Check that the timestamps are strictly ascending.
func (s Series[P]) Check() error {
	for i := 1; i < len(s); i++ {
		if !s[i-1].Timestamp().Before(s[i].Timestamp()) {
			return errors.Reason("date[%d] = %s >= date[%d] = %s",
				i-1, FormatDate(s[i-1].Timestamp()), i, FormatDate(s[i].Timestamp()))
		}
	}
	return nil
}

// First timestamp of the Series, or zero time when empty.
func (s Series[P]) First() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Timestamp()
}

// Last timestamp of the Series, or zero time when empty.
func (s Series[P]) Last() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Timestamp()
}

// Table with the given header and one row per point.
func (s Series[P]) Table(header ...string) *table.Table {
	t := table.NewTable(header...)
	for _, p := range s {
		t.AddRow(p)
	}
	return t
}
