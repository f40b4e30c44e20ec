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
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// Direction in which FetchWindowed walks the requested range.
type Direction int

const (
	// Backward moves the end of the window toward the start of the range. The
	// earliest timestamp of each batch becomes the end of the next window.
	Backward Direction = iota
	// Forward moves the start of the window toward the end of the range. The
	// latest timestamp of each batch becomes the start of the next window.
	Forward
)

func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	}
	return "unknown"
}

// BatchFunc fetches a single batch of points within the window w, in the
// ascending order of timestamps. Zero bounds of w are omitted from the
// request, letting the server pick its defaults.
type BatchFunc[P Point] func(ctx context.Context, w Range) ([]P, error)

// now is the current time; overridden in tests.
var now = time.Now

// walk is the state of a single FetchWindowed call.
type walk struct {
	dir      Direction
	r        Range     // the requested range, normalized
	end      time.Time // r.End, or now if not set
	cursor   time.Time // the moving bound of the window
	anchored bool      // cursor was set from the data or a requested bound
}

// covered is true when no more windows need to be requested.
func (w *walk) covered() bool {
	switch w.dir {
	case Backward:
		// A window narrower than a day would be degenerate.
		return !w.r.Start.IsZero() && !w.cursor.After(w.r.Start.AddDate(0, 0, 1))
	default:
		// The first window is always requested, even for an empty range.
		return w.anchored && !w.cursor.Before(w.end)
	}
}

// window to request next.
func (w *walk) window() Range {
	if w.dir == Backward {
		return Range{Start: w.r.Start, End: w.cursor}
	}
	return Range{Start: w.cursor, End: w.r.End}
}

// boundary is the timestamp of the batch which becomes the next cursor.
func boundary[P Point](dir Direction, batch []P) time.Time {
	if dir == Backward {
		return Normalize(batch[0].Timestamp())
	}
	return Normalize(batch[len(batch)-1].Timestamp())
}

// progressed is true when b moved the cursor in the walk's direction.
func (w *walk) progressed(b time.Time) bool {
	if !w.anchored {
		return true
	}
	if w.dir == Backward {
		return b.Before(w.cursor)
	}
	return b.After(w.cursor)
}

// FetchWindowed fetches the points in the range r using as many windows as
// necessary, and stitches them into a Series.
//
// Backward starts with the window [r.Start, r.End or now]. Forward starts with
// [r.Start, r.End], and the first non-empty batch is always kept. The walk
// stops when:
//
// - the range is covered: the cursor is within a day of r.Start (Backward), or
// reached r.End or now (Forward). A Forward walk always requests the first
// window;
//
// - a batch is empty;
//
// - a batch does not move the cursor (a fixed point), meaning the server has
// no more data in that direction. Such a batch is dropped.
//
// Overlapping points of consecutive batches are deduplicated by timestamp,
// keeping the first one in the order of the range. Errors from fetch are
// returned as is, and the partial results are discarded.
func FetchWindowed[P Point](ctx context.Context, dir Direction, r Range, fetch BatchFunc[P]) (Series[P], error) {
	w := walk{
		dir: dir,
		r:   Range{Start: Normalize(r.Start), End: Normalize(r.End)},
	}
	w.end = w.r.End
	if w.end.IsZero() {
		w.end = Normalize(now())
	}
	switch dir {
	case Backward:
		w.cursor = w.end
		w.anchored = true
	case Forward:
		w.cursor = w.r.Start
	default:
		return nil, errors.Reason("unsupported direction: %d", dir)
	}

	var batches [][]P
	for i := 1; !w.covered(); i++ {
		win := w.window()
		batch, err := fetch(ctx, win)
		if err != nil {
			return nil, err
		}
		logging.Debugf(ctx, "Tiingo: fetched %s window %d %s with %d points",
			dir, i, win, len(batch))
		if len(batch) == 0 {
			break
		}
		b := boundary(dir, batch)
		if !w.progressed(b) {
			logging.Infof(ctx, "Tiingo: no data beyond %s, stopping after %d windows",
				FormatDate(w.cursor), i)
			break
		}
		batches = append(batches, batch)
		w.cursor = b
		w.anchored = true
	}

	var points []P
	if dir == Backward {
		for i := len(batches) - 1; i >= 0; i-- {
			points = append(points, batches[i]...)
		}
	} else {
		for _, b := range batches {
			points = append(points, b...)
		}
	}
	return NewSeries(points), nil
}
