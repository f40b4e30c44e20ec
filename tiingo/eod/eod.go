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

// Package eod is the client for the Tiingo end-of-day endpoints.
//
// Documentation: https://api.tiingo.com/documentation/end-of-day
package eod

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/marketdata/table"
	"github.com/stockparfait/marketdata/tiingo"
)

// Resample frequencies accepted by GetPrices.
const (
	Daily    = "daily"
	Weekly   = "weekly"
	Monthly  = "monthly"
	Annually = "annually"
)

// Meta is the ticker metadata.
type Meta struct {
	Ticker       string      `json:"ticker"`
	Name         string      `json:"name"`
	ExchangeCode string      `json:"exchangeCode"`
	Description  string      `json:"description"`
	StartDate    tiingo.Time `json:"startDate"`
	EndDate      tiingo.Time `json:"endDate"`
}

var _ table.Row = Meta{}

// MetaHeader is the table header matching Meta.CSV.
var MetaHeader = []string{
	"ticker", "name", "exchangeCode", "startDate", "endDate", "description"}

// CSV implements table.Row.
func (m Meta) CSV() []string {
	return []string{
		m.Ticker,
		m.Name,
		m.ExchangeCode,
		tiingo.FormatDate(m.StartDate.Std()),
		tiingo.FormatDate(m.EndDate.Std()),
		m.Description,
	}
}

// Price is a daily (or resampled) price point. Adjusted values account for
// splits and dividends.
type Price struct {
	Date        tiingo.Time `json:"date"`
	Open        float64     `json:"open"`
	High        float64     `json:"high"`
	Low         float64     `json:"low"`
	Close       float64     `json:"close"`
	Volume      float64     `json:"volume"`
	AdjOpen     float64     `json:"adjOpen"`
	AdjHigh     float64     `json:"adjHigh"`
	AdjLow      float64     `json:"adjLow"`
	AdjClose    float64     `json:"adjClose"`
	AdjVolume   float64     `json:"adjVolume"`
	DivCash     float64     `json:"divCash"`
	SplitFactor float64     `json:"splitFactor"`
}

var _ tiingo.Point = Price{}

// PriceHeader is the table header matching Price.CSV.
var PriceHeader = []string{
	"date", "open", "high", "low", "close", "volume",
	"adjOpen", "adjHigh", "adjLow", "adjClose", "adjVolume",
	"divCash", "splitFactor",
}

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
		table.Float(p.AdjOpen),
		table.Float(p.AdjHigh),
		table.Float(p.AdjLow),
		table.Float(p.AdjClose),
		table.Float(p.AdjVolume),
		table.Float(p.DivCash),
		table.Float(p.SplitFactor),
	}
}

func tickerPath(ticker string) (string, error) {
	if ticker == "" {
		return "", errors.Reason("ticker is required")
	}
	return fmt.Sprintf("/tiingo/daily/%s", url.PathEscape(ticker)), nil
}

// GetMeta fetches the metadata for the ticker.
func GetMeta(ctx context.Context, ticker string) (*Meta, error) {
	path, err := tickerPath(ticker)
	if err != nil {
		return nil, err
	}
	var m Meta
	if err := tiingo.Get(ctx, path, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetPrices fetches the prices for the ticker in a single request. With an
// empty range, the server returns only the latest price. An empty freq lets the
// server use its default, which is daily.
func GetPrices(ctx context.Context, ticker string, r tiingo.Range, freq string) (tiingo.Series[Price], error) {
	path, err := tickerPath(ticker)
	if err != nil {
		return nil, err
	}
	q := r.Values()
	q.Set("resampleFreq", freq)
	var prices []Price
	if err := tiingo.Get(ctx, path+"/prices", q, &prices); err != nil {
		return nil, err
	}
	return tiingo.NewSeries(prices), nil
}
