// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

var (
	_ Transport = (*httpTransport)(nil)

	ErrResponseTooLarge = errors.New("response exceeds max size")
)

// Transport posts a JSON request body to a URI and returns the status code
// and body of the response.
type Transport interface {
	PostJSON(ctx context.Context, uri string, body []byte) (int, []byte, error)
}

type httpTransport struct {
	client          *http.Client
	headers         http.Header
	maxResponseSize int64
	limiter         *rate.Limiter
}

// NewHTTPTransport returns a Transport issuing requests with [client]. A nil
// client uses http.DefaultClient.
func NewHTTPTransport(client *http.Client, options ...Option) Transport {
	if client == nil {
		client = http.DefaultClient
	}
	ops := NewOptions(options)
	return &httpTransport{
		client:          client,
		headers:         ops.Headers(),
		maxResponseSize: ops.MaxResponseSize(),
		limiter:         ops.Limiter(),
	}
}

func (t *httpTransport) PostJSON(ctx context.Context, uri string, body []byte) (int, []byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limited request to %s: %w", Redacted(uri), err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("problem while creating JSON RPC POST request to %s: %w", Redacted(uri), err)
	}

	req.Header = t.headers.Clone()
	req.Header.Set("Content-Type", "application/json")

	//nolint:bodyclose // body is closed via CleanlyCloseBody
	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("problem while making JSON RPC POST request to %s: %w", Redacted(uri), err)
	}
	defer CleanlyCloseBody(resp.Body)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, t.maxResponseSize+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(respBody)) > t.maxResponseSize {
		return resp.StatusCode, nil, fmt.Errorf("%w: %d bytes", ErrResponseTooLarge, t.maxResponseSize)
	}
	return resp.StatusCode, respBody, nil
}

// CleanlyCloseBody avoids sending unnecessary RST_STREAM and PING frames by
// ensuring the whole body is read before being closed.
// See https://blog.cloudflare.com/go-and-enhance-your-calm/#reading-bodies-in-go-can-be-unintuitive
func CleanlyCloseBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
