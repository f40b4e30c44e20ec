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

// Command tiingo fetches metadata, top of book or price history from the
// Tiingo API and prints it as a table.
//
// The API key is read from the environment variable TIINGO_KEY, or the one
// named by key_env in the optional config file <-config>/config.toml.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/marketdata/stats"
	"github.com/stockparfait/marketdata/table"
	"github.com/stockparfait/marketdata/tiingo"
	"github.com/stockparfait/marketdata/tiingo/crypto"
	"github.com/stockparfait/marketdata/tiingo/eod"
	"github.com/stockparfait/marketdata/tiingo/iex"

	toml "github.com/pelletier/go-toml/v2"
)

// Flags are the command line flags of the app.
type Flags struct {
	ConfigDir string // default: ~/.stockparfait/tiingo
	LogLevel  logging.Level
	Domain    string // eod, iex or crypto
	Ticker    string // required
	Start     string // date or RFC 3339 time; default: earliest
	End       string // date or RFC 3339 time; default: now
	Freq      string // resample frequency; default from config
	// At most one of Meta and Top; default: prices.
	Meta   bool
	Top    bool
	Format string // text, csv or json
	Rows   int    // max. number of rows to print; 0 = all
	Stats  bool   // print the summary of the prices
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("tiingo", flag.ExitOnError)
	fs.StringVar(&flags.ConfigDir, "config",
		filepath.Join(os.Getenv("HOME"), ".stockparfait", "tiingo"),
		"directory with the optional config.toml")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.StringVar(&flags.Domain, "domain", "eod", "API domain: eod, iex or crypto")
	fs.StringVar(&flags.Ticker, "ticker", "", "ticker to query (required)")
	fs.StringVar(&flags.Start, "start", "", "start date, inclusive")
	fs.StringVar(&flags.End, "end", "", "end date, inclusive")
	fs.StringVar(&flags.Freq, "freq", "", "resample frequency, e.g. daily, 5min, 1hour")
	fs.BoolVar(&flags.Meta, "meta", false, "print ticker metadata (eod, crypto)")
	fs.BoolVar(&flags.Top, "top", false, "print top of book (iex, crypto)")
	fs.StringVar(&flags.Format, "format", "text", "output format: text, csv or json")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of rows to print; default: all")
	fs.BoolVar(&flags.Stats, "stats", false, "also print the summary of the close prices")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if flags.Ticker == "" {
		return nil, errors.Reason("missing required -ticker argument")
	}
	switch flags.Domain {
	case "eod", "iex", "crypto":
	default:
		return nil, errors.Reason("unsupported -domain '%s'", flags.Domain)
	}
	switch flags.Format {
	case "text", "csv", "json":
	default:
		return nil, errors.Reason("unsupported -format '%s'", flags.Format)
	}
	if flags.Meta && flags.Top {
		return nil, errors.Reason("-meta and -top are mutually exclusive")
	}
	if flags.Meta && flags.Domain == "iex" {
		return nil, errors.Reason("-meta is not supported for iex")
	}
	if flags.Top && flags.Domain == "eod" {
		return nil, errors.Reason("-top is not supported for eod")
	}
	if flags.Stats && (flags.Meta || flags.Top) {
		return nil, errors.Reason("-stats requires prices")
	}
	return &flags, nil
}

// Config is the content of the optional TOML config file.
type Config struct {
	KeyEnv     string `toml:"key_env"`     // env. variable with the API key
	BaseURL    string `toml:"base_url"`    // default: https://api.tiingo.com
	EODFreq    string `toml:"eod_freq"`    // default: daily
	IEXFreq    string `toml:"iex_freq"`    // default: iex.DefaultFreq
	CryptoFreq string `toml:"crypto_freq"` // default: crypto.DefaultFreq
}

// parseConfig reads config.toml from dir. A missing file yields the default
// config.
func parseConfig(dir string) (*Config, error) {
	c := Config{KeyEnv: tiingo.KeyEnv}
	filePath := filepath.Join(dir, "config.toml")
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &c, nil
		}
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if c.KeyEnv == "" {
		c.KeyEnv = tiingo.KeyEnv
	}
	return &c, nil
}

// freq is the resample frequency for the domain.
func (c *Config) freq(domain string) string {
	switch domain {
	case "eod":
		return c.EODFreq
	case "iex":
		return c.IEXFreq
	case "crypto":
		return c.CryptoFreq
	}
	return ""
}

func rowsTable[R table.Row](header []string, rows []R) *table.Table {
	t := table.NewTable(header...)
	for _, r := range rows {
		t.AddRow(r)
	}
	return t
}

// pricesTable converts the prices to a table and extracts the Timeseries of
// values for the summary.
func pricesTable[P tiingo.Point](prices tiingo.Series[P], header []string, value func(P) float64) (*table.Table, *stats.Timeseries) {
	return prices.Table(header...), stats.FromPoints([]P(prices), value)
}

// fetchTable fetches the data requested by flags. The Timeseries is nil
// unless prices are requested.
func fetchTable(ctx context.Context, flags *Flags, freq string) (*table.Table, *stats.Timeseries, error) {
	r, err := tiingo.NewRange(flags.Start, flags.End)
	if err != nil {
		return nil, nil, errors.Annotate(err, "invalid date range")
	}
	switch flags.Domain {
	case "eod":
		if flags.Meta {
			m, err := eod.GetMeta(ctx, flags.Ticker)
			if err != nil {
				return nil, nil, err
			}
			return rowsTable(eod.MetaHeader, []eod.Meta{*m}), nil, nil
		}
		prices, err := eod.GetPrices(ctx, flags.Ticker, r, freq)
		if err != nil {
			return nil, nil, err
		}
		t, ts := pricesTable(prices, eod.PriceHeader,
			func(p eod.Price) float64 { return p.AdjClose })
		return t, ts, nil
	case "iex":
		if flags.Top {
			top, err := iex.GetTop(ctx, flags.Ticker)
			if err != nil {
				return nil, nil, err
			}
			return rowsTable(iex.TopHeader, top), nil, nil
		}
		prices, err := iex.GetPrices(ctx, flags.Ticker, r, freq)
		if err != nil {
			return nil, nil, err
		}
		t, ts := pricesTable(prices, iex.PriceHeader,
			func(p iex.Price) float64 { return p.Close })
		return t, ts, nil
	case "crypto":
		if flags.Meta {
			m, err := crypto.GetMeta(ctx, flags.Ticker)
			if err != nil {
				return nil, nil, err
			}
			return rowsTable(crypto.MetaHeader, m), nil, nil
		}
		if flags.Top {
			top, err := crypto.GetTop(ctx, flags.Ticker)
			if err != nil {
				return nil, nil, err
			}
			return rowsTable(crypto.TopHeader, top), nil, nil
		}
		prices, err := crypto.GetPrices(ctx, flags.Ticker, r, freq)
		if err != nil {
			return nil, nil, err
		}
		t, ts := pricesTable(prices, crypto.PriceHeader,
			func(p crypto.Price) float64 { return p.Close })
		return t, ts, nil
	}
	return nil, nil, errors.Reason("unsupported domain '%s'", flags.Domain)
}

func writeTable(w io.Writer, t *table.Table, format string, p table.Params) error {
	switch format {
	case "csv":
		return t.WriteCSV(w, p)
	case "json":
		return t.WriteJSON(w, p)
	}
	return t.WriteText(w, p)
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.ConfigDir)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	if config.BaseURL != "" {
		tiingo.URL = config.BaseURL
	}
	ctx, err = tiingo.UseClientFromEnv(ctx, config.KeyEnv)
	if err != nil {
		return err
	}
	freq := flags.Freq
	if freq == "" {
		freq = config.freq(flags.Domain)
	}
	tbl, ts, err := fetchTable(ctx, flags, freq)
	if err != nil {
		if re, ok := tiingo.AsRequestError(err); ok && re.StatusCode != 0 {
			logging.Debugf(ctx, "response body: %s", re.Body)
		}
		return errors.Annotate(err, "failed to fetch %s data for %s",
			flags.Domain, flags.Ticker)
	}
	logging.Infof(ctx, "fetched %d rows for %s", tbl.Len(), flags.Ticker)
	if err := writeTable(w, tbl, flags.Format, table.Params{Rows: flags.Rows}); err != nil {
		return errors.Annotate(err, "failed to print %s", flags.Format)
	}
	if !flags.Stats || ts == nil {
		return nil
	}
	if flags.Format == "text" {
		if _, err := fmt.Fprintln(w); err != nil {
			return errors.Annotate(err, "failed to print separator")
		}
	}
	s := stats.NewSummary(ts)
	if err := writeTable(w, s.Table(), flags.Format, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to print summary")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
