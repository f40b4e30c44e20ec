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
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("API calls work correctly", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()

		testKey := "testkey"
		ctx := fetch.UseClient(context.Background(), server.Client())
		defer func(u string) { URL = u }(URL)
		URL = server.URL() + "/api/"
		ctx = UseClient(ctx, testKey)

		Convey("Get sends the token and drops empty parameters", func() {
			server.ResponseBody = []string{`{"ticker": "AAPL", "value": 42.5}`}
			var res struct {
				Ticker string  `json:"ticker"`
				Value  float64 `json:"value"`
			}
			q := url.Values{"resampleFreq": {"5min"}, "startDate": {""}}
			So(Get(ctx, "/iex/aapl", q, &res), ShouldBeNil)
			So(res.Ticker, ShouldEqual, "AAPL")
			So(res.Value, ShouldEqual, 42.5)
			So(server.RequestPath, ShouldEqual, "/api/iex/aapl")
			So(server.RequestQuery, ShouldResemble, url.Values{
				"resampleFreq": {"5min"},
				"token":        {testKey},
			})
			So(q, ShouldResemble, url.Values{"resampleFreq": {"5min"}, "startDate": {""}})
		})

		Convey("Get reports malformed JSON", func() {
			server.ResponseBody = []string{`[{"ticker": `}
			var res []map[string]string
			err := Get(ctx, "/iex/aapl", nil, &res)
			So(err, ShouldNotBeNil)
			_, ok := AsRequestError(err)
			So(ok, ShouldBeFalse)
		})

		Convey("Get requires a client", func() {
			var res interface{}
			So(Get(context.Background(), "/iex/aapl", nil, &res), ShouldNotBeNil)
			So(GetClient(context.Background()), ShouldBeNil)
		})
	})

	Convey("HTTP errors are RequestError", t, func() {
		var statuses []int // status codes to respond with, 200 when exhausted
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			status := http.StatusOK
			if len(statuses) > 0 {
				status, statuses = statuses[0], statuses[1:]
			}
			switch status {
			case http.StatusOK:
				w.Write([]byte(`{"ticker": "spy"}`))
			case http.StatusNotFound:
				http.Error(w, `{"detail": "Not found."}`, status)
			default:
				http.Error(w, "upstream unavailable", status)
			}
		}))
		defer srv.Close()

		ctx := fetch.UseClient(context.Background(), srv.Client())
		c := newClient(srv.URL+"/", "k")
		c.retry = fetch.NewParams().Retries(2).MinWait(time.Millisecond).MaxWait(time.Millisecond)
		var res map[string]string

		Convey("4xx carries the status and the body, not retried", func() {
			statuses = []int{http.StatusNotFound}
			err := c.Get(ctx, "/tiingo/daily/nosuchticker", nil, &res)
			So(err, ShouldNotBeNil)
			re, ok := err.(*RequestError)
			So(ok, ShouldBeTrue)
			So(re.URL, ShouldEqual, srv.URL+"/tiingo/daily/nosuchticker")
			So(re.StatusCode, ShouldEqual, http.StatusNotFound)
			So(re.Body, ShouldEqual, "{\"detail\": \"Not found.\"}\n")
			So(re.Err, ShouldBeNil)
			So(calls, ShouldEqual, 1)
		})

		Convey("5xx is retried", func() {
			statuses = []int{http.StatusServiceUnavailable}
			So(c.Get(ctx, "/tiingo/daily/spy", nil, &res), ShouldBeNil)
			So(res, ShouldResemble, map[string]string{"ticker": "spy"})
			So(calls, ShouldEqual, 2)
		})

		Convey("5xx after all the retries keeps the last body", func() {
			statuses = []int{500, 502, 503}
			err := c.Get(ctx, "/tiingo/daily/spy", nil, &res)
			re, ok := AsRequestError(err)
			So(ok, ShouldBeTrue)
			So(re.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
			So(re.Body, ShouldEqual, "upstream unavailable\n")
			So(calls, ShouldEqual, 3)
		})
	})

	Convey("Transport errors are RequestError without status", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ctx := fetch.UseClient(context.Background(), srv.Client())
		c := newClient(srv.URL, "k")
		srv.Close()

		var res interface{}
		err := c.Get(ctx, "/iex/spy", nil, &res)
		re, ok := AsRequestError(err)
		So(ok, ShouldBeTrue)
		So(re.StatusCode, ShouldEqual, 0)
		So(re.Err, ShouldNotBeNil)
	})

	Convey("Client from the environment", t, func() {
		Convey("missing key", func() {
			t.Setenv("TIINGO_TEST_KEY", "")
			_, err := KeyFromEnv("TIINGO_TEST_KEY")
			So(err, ShouldResemble, &ConfigError{Var: "TIINGO_TEST_KEY"})
			_, err = UseClientFromEnv(context.Background(), "TIINGO_TEST_KEY")
			So(err, ShouldNotBeNil)
		})

		Convey("key is set", func() {
			t.Setenv("TIINGO_TEST_KEY", "secret")
			ctx, err := UseClientFromEnv(context.Background(), "TIINGO_TEST_KEY")
			So(err, ShouldBeNil)
			c := GetClient(ctx)
			So(c, ShouldNotBeNil)
			So(c.apiKey, ShouldEqual, "secret")
			So(c.query(nil), ShouldResemble, url.Values{"token": {"secret"}})
		})
	})

	Convey("redact hides the token", t, func() {
		q := url.Values{"token": {"secret"}, "tickers": {"btcusd"}}
		So(redact(q), ShouldEqual, "tickers=btcusd")
	})
}
