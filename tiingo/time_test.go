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
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTime(t *testing.T) {
	t.Parallel()

	Convey("ParseTime works", t, func() {
		Convey("plain date", func() {
			tm, err := ParseTime("2021-01-01")
			So(err, ShouldBeNil)
			So(tm, ShouldResemble, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
		})

		Convey("datetime with timezone", func() {
			tm, err := ParseTime("2021-01-01T00:00:00-05:00")
			So(err, ShouldBeNil)
			So(tm, ShouldResemble, time.Date(2021, 1, 1, 5, 0, 0, 0, time.UTC))
		})

		Convey("fractional seconds are truncated to milliseconds", func() {
			tm, err := ParseTime("2021-01-01T10:11:12.123456789Z")
			So(err, ShouldBeNil)
			So(tm, ShouldResemble, time.Date(2021, 1, 1, 10, 11, 12, 123000000, time.UTC))
		})

		Convey("datetime without timezone is UTC", func() {
			tm, err := ParseTime("2021-01-01T10:11:12")
			So(err, ShouldBeNil)
			So(tm, ShouldResemble, time.Date(2021, 1, 1, 10, 11, 12, 0, time.UTC))

			tm, err = ParseTime("2021-01-01 10:11:12.5")
			So(err, ShouldBeNil)
			So(tm, ShouldResemble, time.Date(2021, 1, 1, 10, 11, 12, 500000000, time.UTC))
		})

		Convey("bad strings", func() {
			_, err := ParseTime("")
			So(err, ShouldNotBeNil)
			_, err = ParseTime("01/02/2021")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Normalize works", t, func() {
		est := time.FixedZone("EST", -5*60*60)
		So(Normalize(time.Date(2021, 1, 1, 9, 30, 0, 1500000, est)), ShouldResemble,
			time.Date(2021, 1, 1, 14, 30, 0, 1000000, time.UTC))
		So(Normalize(time.Time{}).IsZero(), ShouldBeTrue)
	})

	Convey("FormatDate works", t, func() {
		So(FormatDate(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)), ShouldEqual, "2021-01-01")
		So(FormatDate(time.Date(2021, 1, 1, 10, 11, 12, 500000000, time.UTC)),
			ShouldEqual, "2021-01-01T10:11:12.5Z")
		// Midnight in New York is not a date.
		est := time.FixedZone("EST", -5*60*60)
		So(FormatDate(time.Date(2021, 1, 1, 0, 0, 0, 0, est)), ShouldEqual, "2021-01-01T05:00:00Z")
	})

	Convey("Time JSON methods work", t, func() {
		type data struct {
			T Time `json:"t"`
		}

		Convey("unmarshal", func() {
			var d data
			So(json.Unmarshal([]byte(`{"t": "2019-01-02T14:30:00.000Z"}`), &d), ShouldBeNil)
			So(d.T.Std(), ShouldResemble, time.Date(2019, 1, 2, 14, 30, 0, 0, time.UTC))
		})

		Convey("null is ignored", func() {
			d := data{T: NewTime(2021, 1, 1, 0, 0, 0)}
			So(json.Unmarshal([]byte(`{"t": null}`), &d), ShouldBeNil)
			So(d.T, ShouldResemble, NewTime(2021, 1, 1, 0, 0, 0))
		})

		Convey("errors", func() {
			var d data
			So(json.Unmarshal([]byte(`{"t": 42}`), &d), ShouldNotBeNil)
			So(json.Unmarshal([]byte(`{"t": "yesterday"}`), &d), ShouldNotBeNil)
		})

		Convey("marshal", func() {
			tm := NewTime(2021, 1, 2, 10, 0, 0)
			js, err := json.Marshal(&tm)
			So(err, ShouldBeNil)
			So(string(js), ShouldEqual, `"2021-01-02T10:00:00Z"`)
		})
	})

	Convey("Range works", t, func() {
		Convey("both bounds", func() {
			r, err := NewRange("2021-01-01", "2021-01-02T10:00:00Z")
			So(err, ShouldBeNil)
			So(r.IsZero(), ShouldBeFalse)
			So(r.Values(), ShouldResemble, url.Values{
				"startDate": {"2021-01-01"},
				"endDate":   {"2021-01-02T10:00:00Z"},
			})
			So(r.String(), ShouldEqual, "[2021-01-01, 2021-01-02T10:00:00Z]")
		})

		Convey("open bounds", func() {
			r, err := NewRange("", "")
			So(err, ShouldBeNil)
			So(r.IsZero(), ShouldBeTrue)
			So(len(r.Values()), ShouldEqual, 0)
			So(r.String(), ShouldEqual, "[earliest, now]")

			r, err = NewRange("", "2021-01-01")
			So(err, ShouldBeNil)
			So(r.Values(), ShouldResemble, url.Values{"endDate": {"2021-01-01"}})
		})

		Convey("errors", func() {
			_, err := NewRange("2021-02-01", "2021-01-01")
			So(err, ShouldNotBeNil)
			_, err = NewRange("bad", "")
			So(err, ShouldNotBeNil)
			_, err = NewRange("", "bad")
			So(err, ShouldNotBeNil)
		})
	})
}
