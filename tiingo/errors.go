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
	"fmt"

	"github.com/stockparfait/errors"
)

// RequestError is returned when a request did not produce a successful HTTP
// response.
type RequestError struct {
	URL        string // without the query, so the token is never exposed
	StatusCode int    // 0 when no response was received
	Body       string // raw response body, for diagnostics
	Err        error  // underlying transport error, if any
}

var _ error = &RequestError{}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %s", e.URL, e.Err.Error())
	}
	return fmt.Sprintf("request to %s failed with HTTP status %d: %s",
		e.URL, e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }

// AsRequestError finds a RequestError in the error chain.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// ConfigError reports a missing API key.
type ConfigError struct {
	Var string // the environment variable expected to hold the key
}

var _ error = &ConfigError{}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("must set environment variable '%s' to the Tiingo API key", e.Var)
}
