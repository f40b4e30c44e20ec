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

package stats

import (
	"math"
	"time"

	"github.com/stockparfait/marketdata/table"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary of a price Timeseries and of its log-profits.
type Summary struct {
	Start  time.Time
	End    time.Time
	Points int     // number of prices
	First  float64 // the first price
	Last   float64 // the last price
	// Log-profit statistics, all zero when there are fewer than two prices.
	Returns int     // number of log-profits
	Total   float64 // log(Last) - log(First)
	Mean    float64
	Sigma   float64 // sample standard deviation
	MAD     float64 // mean absolute deviation from the mean
	Median  float64
	Min     float64
	Max     float64
}

// NewSummary computes the Summary of the price Timeseries.
func NewSummary(prices *Timeseries) Summary {
	var s Summary
	s.Points = prices.Len()
	if s.Points == 0 {
		return s
	}
	s.Start = prices.Dates()[0]
	s.End = prices.Dates()[s.Points-1]
	s.First = prices.Data()[0]
	s.Last = prices.Data()[s.Points-1]

	lp := prices.LogProfits(1).Data()
	s.Returns = len(lp)
	if s.Returns == 0 {
		return s
	}
	s.Total = math.Log(s.Last) - math.Log(s.First)
	s.Mean, s.Sigma = stat.MeanStdDev(lp, nil)
	if s.Returns < 2 {
		s.Sigma = 0
	}
	devs := make([]float64, len(lp))
	for i, x := range lp {
		devs[i] = math.Abs(x - s.Mean)
	}
	s.MAD = stat.Mean(devs, nil)
	sorted := make([]float64, len(lp))
	copy(sorted, lp)
	slices.Sort(sorted)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.Min = floats.Min(lp)
	s.Max = floats.Max(lp)
	return s
}

// Table renders the Summary as "stat" and "value" columns.
func (s Summary) Table() *table.Table {
	date := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	}
	t := table.NewTable("stat", "value")
	t.AddRow(
		table.Cells{"start", date(s.Start)},
		table.Cells{"end", date(s.End)},
		table.Cells{"points", table.Float(float64(s.Points))},
		table.Cells{"first", table.Float(s.First)},
		table.Cells{"last", table.Float(s.Last)},
		table.Cells{"returns", table.Float(float64(s.Returns))},
		table.Cells{"total log-profit", table.Float(s.Total)},
		table.Cells{"mean", table.Float(s.Mean)},
		table.Cells{"sigma", table.Float(s.Sigma)},
		table.Cells{"MAD", table.Float(s.MAD)},
		table.Cells{"median", table.Float(s.Median)},
		table.Cells{"min", table.Float(s.Min)},
		table.Cells{"max", table.Float(s.Max)},
	)
	return t
}
