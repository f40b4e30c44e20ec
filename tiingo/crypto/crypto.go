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

// Package crypto is the client for the Tiingo cryptocurrency endpoints.
//
// Documentation: https://api.tiingo.com/documentation/crypto
package crypto

import (
	"context"
	"net/url"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/marketdata/table"
	"github.com/stockparfait/marketdata/tiingo"
)

// DefaultFreq is the resample frequency used when none is given. Accepted
// values are of the form "Xmin", "Xhour" or "Xday".
const DefaultFreq = "5min"

const basePath = "/tiingo/crypto/"

// Meta is the metadata of a crypto ticker, which is a currency pair such as
// "btcusd".
type Meta struct {
	Ticker        string `json:"ticker"`
	BaseCurrency  string `json:"baseCurrency"`
	QuoteCurrency string `json:"quoteCurrency"`
	Name          string `json:"name"`
	Description   string `json:"description"`
}

var _ table.Row = Meta{}

// MetaHeader is the table header matching Meta.CSV.
var MetaHeader = []string{
	"ticker", "baseCurrency", "quoteCurrency", "name", "description"}

// CSV implements table.Row.
func (m Meta) CSV() []string {
	return []string{m.Ticker, m.BaseCurrency, m.QuoteCurrency, m.Name, m.Description}
}

// Book is the top of book and the last trade as reported by the exchanges.
type Book struct {
	QuoteTimestamp    tiingo.Time `json:"quoteTimestamp"`
	LastSaleTimestamp tiingo.Time `json:"lastSaleTimestamp"`
	LastPrice         float64     `json:"lastPrice"`
	LastSize          float64     `json:"lastSize"`
	LastSizeNotional  float64     `json:"lastSizeNotional"`
	LastExchange      string      `json:"lastExchange"`
	BidPrice          float64     `json:"bidPrice"`
	BidSize           float64     `json:"bidSize"`
	BidExchange       string      `json:"bidExchange"`
	AskPrice          float64     `json:"askPrice"`
	AskSize           float64     `json:"askSize"`
	AskExchange       string      `json:"askExchange"`
}

// Top of book for a crypto ticker.
type Top struct {
	Ticker        string `json:"ticker"`
	BaseCurrency  string `json:"baseCurrency"`
	QuoteCurrency string `json:"quoteCurrency"`
	TopOfBookData []Book `json:"topOfBookData"`
}

var _ table.Row = Top{}

// TopHeader is the table header matching Top.CSV.
var TopHeader = []string{
	"ticker", "quoteTimestamp", "lastPrice", "lastSize", "lastExchange",
	"bidPrice", "bidSize", "askPrice", "askSize",
}

// CSV implements table.Row. Only the first book entry is rendered; the book
// cells are empty when there is none.
func (t Top) CSV() []string {
	if len(t.TopOfBookData) == 0 {
		return []string{t.Ticker, "", "", "", "", "", "", "", ""}
	}
	b := t.TopOfBookData[0]
	return []string{
		t.Ticker,
		tiingo.FormatDate(b.QuoteTimestamp.Std()),
		table.Float(b.LastPrice),
		table.Float(b.LastSize),
		b.LastExchange,
		table.Float(b.BidPrice),
		table.Float(b.BidSize),
		table.Float(b.AskPrice),
		table.Float(b.AskSize),
	}
}

// Price is a price bar aggregated across exchanges.
type Price struct {
	Date           tiingo.Time `json:"date"`
	Open           float64     `json:"open"`
	High           float64     `json:"high"`
	Low            float64     `json:"low"`
	Close          float64     `json:"close"`
	Volume         float64     `json:"volume"`
	VolumeNotional float64     `json:"volumeNotional"`
	TradesDone     float64     `json:"tradesDone"`
}

var _ tiingo.Point = Price{}

// PriceHeader is the table header matching Price.CSV.
var PriceHeader = []string{
	"date", "open", "high", "low", "close", "volume", "volumeNotional", "tradesDone"}

// Timestamp implements tiingo.Point.
func (p Price) Timestamp() time.Time { return p.Date.Std() }

// CSV implements table.Row.
func (p Price) CSV() []string {
	return []string{
		tiingo.FormatDate(p.Date.Std()),
		table.Float(p.Open),
		table.Float(p.High),
		table.Float(p.Low),
		table.Float(p.Close),
		table.Float(p.Volume),
		table.Float(p.VolumeNotional),
		table.Float(p.TradesDone),
	}
}

// prices is a single element of the prices response.
type prices struct {
	Ticker    string  `json:"ticker"`
	PriceData []Price `json:"priceData"`
}

func tickers(ticker string) (url.Values, error) {
	if ticker == "" {
		return nil, errors.Reason("ticker is required")
	}
	return url.Values{"tickers": {ticker}}, nil
}

// GetMeta fetches the metadata for the ticker. The server responds with a
// list, normally of a single element.
func GetMeta(ctx context.Context, ticker string) ([]Meta, error) {
	q, err := tickers(ticker)
	if err != nil {
		return nil, err
	}
	var res []Meta
	if err := tiingo.Get(ctx, basePath, q, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetTop fetches the current top of book for the ticker.
func GetTop(ctx context.Context, ticker string) ([]Top, error) {
	q, err := tickers(ticker)
	if err != nil {
		return nil, err
	}
	var res []Top
	if err := tiingo.Get(ctx, basePath+"top/", q, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetPrices fetches the prices for the ticker in the range r, resampled at freq
// (DefaultFreq when empty).
//
// The server returns a limited number of the earliest bars for each request,
// so the range is walked forward from its start until the end (or now) is
// reached or the server has no later data. An empty range requests the latest
// bars only.
func GetPrices(ctx context.Context, ticker string, r tiingo.Range, freq string) (tiingo.Series[Price], error) {
	base, err := tickers(ticker)
	if err != nil {
		return nil, err
	}
	if freq == "" {
		freq = DefaultFreq
	}
	fetch := func(ctx context.Context, w tiingo.Range) ([]Price, error) {
		q := w.Values()
		q.Set("resampleFreq", freq)
		for k, v := range base {
			q[k] = v
		}
		var res []prices
		if err := tiingo.Get(ctx, basePath+"prices/", q, &res); err != nil {
			return nil, err
		}
		if len(res) == 0 {
			return nil, nil
		}
		return res[0].PriceData, nil
	}
	if r.IsZero() {
		batch, err := fetch(ctx, r)
		if err != nil {
			return nil, err
		}
		return tiingo.NewSeries(batch), nil
	}
	return tiingo.FetchWindowed(ctx, tiingo.Forward, r, fetch)
}
