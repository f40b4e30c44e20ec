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

// Package iex is the client for the Tiingo IEX endpoints: the current top of
// book and the intraday price history.
//
// Documentation: https://api.tiingo.com/documentation/iex
package iex

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/marketdata/table"
	"github.com/stockparfait/marketdata/tiingo"
)

// DefaultFreq is the resample frequency used when none is given. Accepted
// values are of the form "Xmin" or "Xhour".
const DefaultFreq = "5min"

// Top is the top of book and the last sale for a ticker. Fields the exchange
// did not report are zero.
type Top struct {
	Ticker            string      `json:"ticker"`
	Timestamp         tiingo.Time `json:"timestamp"`
	QuoteTimestamp    tiingo.Time `json:"quoteTimestamp"`
	LastSaleTimestamp tiingo.Time `json:"lastSaleTimestamp"`
	Last              float64     `json:"last"`
	LastSize          float64     `json:"lastSize"`
	TngoLast          float64     `json:"tngoLast"`
	PrevClose         float64     `json:"prevClose"`
	Open              float64     `json:"open"`
	High              float64     `json:"high"`
	Low               float64     `json:"low"`
	Mid               float64     `json:"mid"`
	Volume            float64     `json:"volume"`
	BidSize           float64     `json:"bidSize"`
	BidPrice          float64     `json:"bidPrice"`
	AskSize           float64     `json:"askSize"`
	AskPrice          float64     `json:"askPrice"`
}

var _ table.Row = Top{}

// TopHeader is the table header matching Top.CSV.
var TopHeader = []string{
	"ticker", "timestamp", "last", "lastSize", "tngoLast", "prevClose",
	"open", "high", "low", "mid", "volume",
	"bidSize", "bidPrice", "askSize", "askPrice",
}

// CSV implements table.Row.
func (t Top) CSV() []string {
	return []string{
		t.Ticker,
		tiingo.FormatDate(t.Timestamp.Std()),
		table.Float(t.Last),
		table.Float(t.LastSize),
		table.Float(t.TngoLast),
		table.Float(t.PrevClose),
		table.Float(t.Open),
		table.Float(t.High),
		table.Float(t.Low),
		table.Float(t.Mid),
		table.Float(t.Volume),
		table.Float(t.BidSize),
		table.Float(t.BidPrice),
		table.Float(t.AskSize),
		table.Float(t.AskPrice),
	}
}

// Price is an intraday price bar.
type Price struct {
	Date   tiingo.Time `json:"date"`
	Open   float64     `json:"open"`
	High   float64     `json:"high"`
	Low    float64     `json:"low"`
	Close  float64     `json:"close"`
	Volume float64     `json:"volume"`
}

var _ tiingo.Point = Price{}

// PriceHeader is the table header matching Price.CSV.
var PriceHeader = []string{"date", "open", "high", "low", "close", "volume"}

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
	}
}

func tickerPath(ticker string) (string, error) {
	if ticker == "" {
		return "", errors.Reason("ticker is required")
	}
	return fmt.Sprintf("/iex/%s", url.PathEscape(ticker)), nil
}

// GetTop fetches the current top of book for the ticker. The server responds
// with a list, normally of a single element.
func GetTop(ctx context.Context, ticker string) ([]Top, error) {
	path, err := tickerPath(ticker)
	if err != nil {
		return nil, err
	}
	var res []Top
	if err := tiingo.Get(ctx, path, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetPrices fetches the intraday prices for the ticker in the range r,
// resampled at freq (DefaultFreq when empty).
//
// The server returns a limited number of the latest bars for each request, so
// the range is walked backward from its end until the start is reached or the
// server has no earlier data. An empty range requests the latest bars only.
func GetPrices(ctx context.Context, ticker string, r tiingo.Range, freq string) (tiingo.Series[Price], error) {
	path, err := tickerPath(ticker)
	if err != nil {
		return nil, err
	}
	path += "/prices"
	if freq == "" {
		freq = DefaultFreq
	}
	fetch := func(ctx context.Context, w tiingo.Range) ([]Price, error) {
		q := w.Values()
		q.Set("resampleFreq", freq)
		var batch []Price
		if err := tiingo.Get(ctx, path, q, &batch); err != nil {
			return nil, err
		}
		return batch, nil
	}
	if r.IsZero() {
		batch, err := fetch(ctx, r)
		if err != nil {
			return nil, err
		}
		return tiingo.NewSeries(batch), nil
	}
	return tiingo.FetchWindowed(ctx, tiingo.Backward, r, fetch)
}
