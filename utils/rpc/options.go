// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/diem/client-sdk-go/utils/units"
)

const defaultMaxResponseSize = 16 * units.MiB

type Options struct {
	headers         http.Header
	maxResponseSize int64
	limiter         *rate.Limiter
}

func NewOptions(ops []Option) *Options {
	o := &Options{
		headers:         http.Header{},
		maxResponseSize: defaultMaxResponseSize,
	}
	o.applyOptions(ops)
	return o
}

func (o *Options) applyOptions(ops []Option) {
	for _, op := range ops {
		op(o)
	}
}

func (o *Options) Headers() http.Header {
	return o.headers
}

func (o *Options) MaxResponseSize() int64 {
	return o.maxResponseSize
}

func (o *Options) Limiter() *rate.Limiter {
	return o.limiter
}

type Option func(*Options)

// WithHeader adds a header to every request.
func WithHeader(key, val string) Option {
	return func(o *Options) {
		o.headers.Add(key, val)
	}
}

// WithMaxResponseSize bounds the number of response body bytes read.
func WithMaxResponseSize(size int64) Option {
	return func(o *Options) {
		o.maxResponseSize = size
	}
}

// WithRateLimit allows at most [perSecond] requests per second. Requests
// over the limit wait for their turn.
func WithRateLimit(perSecond float64) Option {
	return func(o *Options) {
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}
