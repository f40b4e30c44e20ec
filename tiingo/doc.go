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

// Package tiingo implements the common parts of the Tiingo REST API client.
//
// Official documentation is at https://api.tiingo.com/documentation/general/overview .
//
// The client is injected into the context with UseClient() or
// UseClientFromEnv(), and all the API calls in this package and its
// subpackages extract it with GetClient(). Every request is authenticated by
// the "token" query parameter.
//
// Historical intraday and crypto prices are returned by the server in bounded
// windows: a single request for a long date range silently returns only a part
// of it. FetchWindowed implements the transparent paging over such windows,
// walking the requested range backward (IEX) or forward (crypto) until either
// the range is covered or the server stops returning new data. The partial
// results are stitched into a Series, which is sorted by timestamp and has no
// duplicate timestamps.
//
// APIs for the specific endpoints are implemented in the subpackages eod, iex
// and crypto.
package tiingo
