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

package crypto

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/marketdata/tiingo"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCrypto(t *testing.T) {
	Convey("Crypto API works", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()

		ctx := fetch.UseClient(context.Background(), server.Client())
		defer func(u string) { tiingo.URL = u }(tiingo.URL)
		tiingo.URL = server.URL()
		ctx = tiingo.UseClient(ctx, "testkey")

		Convey("GetMeta", func() {
			server.ResponseBody = []string{`[{
  "ticker": "btcusd",
  "baseCurrency": "btc",
  "quoteCurrency": "usd",
  "name": "Bitcoin(BTC/USD)",
  "description": "Bitcoin(BTC/USD)"
}]`}
			m, err := GetMeta(ctx, "btcusd")
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/tiingo/crypto/")
			So(server.RequestQuery, ShouldResemble, url.Values{
				"token":   {"testkey"},
				"tickers": {"btcusd"},
			})
			So(m, ShouldResemble, []Meta{{
				Ticker:        "btcusd",
				BaseCurrency:  "btc",
				QuoteCurrency: "usd",
				Name:          "Bitcoin(BTC/USD)",
				Description:   "Bitcoin(BTC/USD)",
			}})
			So(len(MetaHeader), ShouldEqual, len(m[0].CSV()))
		})

		Convey("GetTop", func() {
			server.ResponseBody = []string{`[{
  "ticker": "btcusd",
  "baseCurrency": "btc",
  "quoteCurrency": "usd",
  "topOfBookData": [{
    "askSize": 0.5,
    "bidSize": 1.25,
    "lastSaleTimestamp": "2021-06-01T12:00:01.123456+00:00",
    "lastPrice": 36500.5,
    "askPrice": 36501,
    "quoteTimestamp": "2021-06-01T12:00:01.5+00:00",
    "bidExchange": "GDAX",
    "lastSizeNotional": 365.005,
    "lastExchange": "BINANCE",
    "askExchange": "KRAKEN",
    "bidPrice": 36499.9,
    "lastSize": 0.01
  }]
}]`}
			top, err := GetTop(ctx, "btcusd")
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/tiingo/crypto/top/")
			So(server.RequestQuery.Get("tickers"), ShouldEqual, "btcusd")
			So(len(top), ShouldEqual, 1)
			So(len(top[0].TopOfBookData), ShouldEqual, 1)
			So(top[0].TopOfBookData[0].LastSaleTimestamp.Std(), ShouldResemble,
				tiingo.NewTime(2021, 6, 1, 12, 0, 1).Std().Add(123*time.Millisecond))
			So(top[0].CSV(), ShouldResemble, []string{
				"btcusd", "2021-06-01T12:00:01.5Z", "36500.5", "0.01", "BINANCE",
				"36499.9", "1.25", "36501", "0.5"})
			So(len(TopHeader), ShouldEqual, len(top[0].CSV()))
			So(len(Top{Ticker: "x"}.CSV()), ShouldEqual, len(TopHeader))
		})

		Convey("GetPrices walks forward", func() {
			server.ResponseBody = []string{
				`[{"ticker": "btcusd", "priceData": [
  {"date": "2021-06-01T00:00:00+00:00", "close": 36000, "tradesDone": 10},
  {"date": "2021-06-01T12:00:00+00:00", "close": 36500, "tradesDone": 20}
]}]`,
				`[{"ticker": "btcusd", "priceData": [
  {"date": "2021-06-01T12:00:00+00:00", "close": 36600, "tradesDone": 30},
  {"date": "2021-06-02T00:00:00+00:00", "close": 37000, "tradesDone": 40}
]}]`,
			}
			r, err := tiingo.NewRange("2021-06-01", "2021-06-02")
			So(err, ShouldBeNil)
			prices, err := GetPrices(ctx, "btcusd", r, "12hour")
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/tiingo/crypto/prices/")
			// The last request is for the second window.
			So(server.RequestQuery, ShouldResemble, url.Values{
				"token":        {"testkey"},
				"tickers":      {"btcusd"},
				"startDate":    {"2021-06-01T12:00:00Z"},
				"endDate":      {"2021-06-02"},
				"resampleFreq": {"12hour"},
			})
			So(len(prices), ShouldEqual, 3)
			So(prices.Check(), ShouldBeNil)
			So(tiingo.FormatDate(prices.First()), ShouldEqual, "2021-06-01")
			So(tiingo.FormatDate(prices.Last()), ShouldEqual, "2021-06-02")
			// The overlapping bar is kept from the earlier window.
			So(prices[1].Close, ShouldEqual, 36500.0)
		})

		Convey("GetPrices with no data", func() {
			server.ResponseBody = []string{`[]`}
			r, err := tiingo.NewRange("2021-06-01", "2021-06-02")
			So(err, ShouldBeNil)
			prices, err := GetPrices(ctx, "nosuchcoin", r, "")
			So(err, ShouldBeNil)
			So(len(prices), ShouldEqual, 0)
			So(server.RequestQuery.Get("resampleFreq"), ShouldEqual, DefaultFreq)
		})

		Convey("GetPrices with empty range fetches the latest bars", func() {
			server.ResponseBody = []string{`[{"ticker": "btcusd", "priceData": [
  {"date": "2021-06-01T12:00:00+00:00", "close": 36500}
]}]`}
			prices, err := GetPrices(ctx, "btcusd", tiingo.Range{}, "")
			So(err, ShouldBeNil)
			So(server.RequestQuery, ShouldResemble, url.Values{
				"token":        {"testkey"},
				"tickers":      {"btcusd"},
				"resampleFreq": {"5min"},
			})
			So(len(prices), ShouldEqual, 1)
		})

		Convey("ticker is required", func() {
			_, err := GetMeta(ctx, "")
			So(err, ShouldNotBeNil)
			_, err = GetTop(ctx, "")
			So(err, ShouldNotBeNil)
			_, err = GetPrices(ctx, "", tiingo.Range{}, "")
			So(err, ShouldNotBeNil)
		})
	})
}
