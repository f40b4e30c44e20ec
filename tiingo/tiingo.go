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
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://api.tiingo.com"

// KeyEnv is the default environment variable holding the API key.
const KeyEnv = "TIINGO_KEY"

// Client for querying Tiingo endpoints. It is immutable and safe for
// concurrent use.
type Client struct {
	baseURL string        // the base URL of the server
	apiKey  string        // your very own secret token
	retry   *fetch.Params // retry policy for 5xx responses
}

// newClient creates a new client with the default retry policy.
func newClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		retry:   fetch.NewParams(),
	}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client based on the API key and injects it into the
// context.
func UseClient(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, apiKey))
}

// KeyFromEnv reads the API key from the environment variable. It returns
// ConfigError when the variable is not set or is empty.
func KeyFromEnv(name string) (string, error) {
	key := os.Getenv(name)
	if key == "" {
		return "", &ConfigError{Var: name}
	}
	return key, nil
}

// UseClientFromEnv is UseClient with the key read by KeyFromEnv.
func UseClientFromEnv(ctx context.Context, name string) (context.Context, error) {
	key, err := KeyFromEnv(name)
	if err != nil {
		return ctx, err
	}
	return UseClient(ctx, key), nil
}

// query copies the non-empty values and adds the token.
func (c *Client) query(values url.Values) url.Values {
	q := make(url.Values)
	for k, vs := range values {
		for _, v := range vs {
			if v != "" {
				q.Add(k, v)
			}
		}
	}
	q.Set("token", c.apiKey)
	return q
}

// Get sends an authenticated GET request to the path relative to the base URL
// and decodes the JSON response into result. Query parameters with empty
// values are dropped. Responses with 5xx status codes are retried according to
// the client's retry policy.
//
// Any failure to obtain a successful HTTP response is returned as
// *RequestError without annotation. It carries the status code and the body of
// the last response, or the transport error when there was no response.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	uri := c.baseURL + path
	logging.Debugf(ctx, "Tiingo: GET %s %s", path, redact(query))
	var body []byte
	var reqErr *RequestError
	err := fetch.Retry(ctx, c.retry, func(attempt int) error {
		if attempt > 0 {
			logging.Warningf(ctx, "Tiingo: retry %d for %s: %s", attempt, path, reqErr)
		}
		body, reqErr = c.do(ctx, uri, query)
		if reqErr == nil {
			return nil
		}
		if reqErr.StatusCode >= 500 {
			return fetch.NewRetriableError(reqErr)
		}
		return reqErr
	})
	if reqErr != nil {
		return reqErr
	}
	if err != nil {
		return errors.Annotate(err, "request to %s failed", uri)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return errors.Annotate(err, "failed to parse JSON response from %s", uri)
	}
	return nil
}

// do sends a single GET request and reads the body of a 2xx response. The HTTP
// client is taken from the context the same way fetch.Get does.
func (c *Client) do(ctx context.Context, uri string, query url.Values) ([]byte, *RequestError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &RequestError{URL: uri, Err: err}
	}
	req.URL.RawQuery = c.query(query).Encode()
	client := http.DefaultClient
	if hc := fetch.GetClient(ctx); hc != nil {
		client = hc
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &RequestError{URL: uri, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{URL: uri, StatusCode: resp.StatusCode, Err: err}
	}
	if !fetch.ResponseOK(resp) {
		return nil, &RequestError{URL: uri, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// Get is Client.Get using the client from the context.
func Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	c := GetClient(ctx)
	if c == nil {
		return errors.Reason("no Tiingo client in context")
	}
	return c.Get(ctx, path, query, result)
}

// redact formats query values for logging, without the token.
func redact(query url.Values) string {
	q := make(url.Values)
	for k, v := range query {
		if k != "token" {
			q[k] = v
		}
	}
	return q.Encode()
}
