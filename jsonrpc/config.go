// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/diem/client-sdk-go/utils/constants"
	"github.com/diem/client-sdk-go/utils/logging"
	"github.com/diem/client-sdk-go/utils/retry"
	"github.com/diem/client-sdk-go/utils/rpc"
	"github.com/diem/client-sdk-go/utils/timer/mockable"
)

const (
	DefaultPollInterval = 200 * time.Millisecond
	DefaultWaitTimeout  = time.Minute
	DefaultNamespace    = "diem_client"
)

var (
	errMissingURL           = errors.New("missing endpoint url")
	errInvalidURL           = errors.New("invalid endpoint url")
	errMissingChainID       = errors.New("missing chain id")
	errInvalidMaxAttempts   = errors.New("retry max attempts must be positive")
	errInvalidPollInterval  = errors.New("wait poll interval must be positive")
	errInvalidWaitTimeout   = errors.New("wait timeout must be positive")
	errNegativeRetryBackoff = errors.New("retry base delay must not be negative")
	errNegativeRateLimit    = errors.New("max requests per second must not be negative")
)

// Config of a Client.
type Config struct {
	// URL of the full node JSON-RPC endpoint.
	URL     string            `json:"url"`
	ChainID constants.ChainID `json:"chainID"`

	RetryMaxAttempts int           `json:"retryMaxAttempts"`
	RetryBaseDelay   time.Duration `json:"retryBaseDelay"`

	WaitPollInterval time.Duration `json:"waitPollInterval"`
	WaitTimeout      time.Duration `json:"waitTimeout"`

	// HTTPClient the default transport is built on. Ignored if Transport is
	// set.
	HTTPClient *http.Client  `json:"-"`
	Transport  rpc.Transport `json:"-"`

	// MaxRequestsPerSecond limits the default transport. 0 is unlimited.
	MaxRequestsPerSecond float64 `json:"maxRequestsPerSecond"`

	Log logging.Logger `json:"-"`

	// Registerer, if set, has the client metrics registered under
	// Namespace.
	Registerer prometheus.Registerer `json:"-"`
	Namespace  string                `json:"namespace"`

	Clock *mockable.Clock `json:"-"`
}

// DefaultConfig returns a config for [url] on [chainID].
func DefaultConfig(url string, chainID constants.ChainID) Config {
	return Config{
		URL:              url,
		ChainID:          chainID,
		RetryMaxAttempts: retry.DefaultMaxAttempts,
		RetryBaseDelay:   retry.DefaultBaseDelay,
		WaitPollInterval: DefaultPollInterval,
		WaitTimeout:      DefaultWaitTimeout,
		Namespace:        DefaultNamespace,
	}
}

// Verify returns a KindConfiguration error if the config can't be used.
func (c *Config) Verify() error {
	switch {
	case c.URL == "":
		return configurationError(errMissingURL)
	case c.ChainID == 0:
		return configurationError(errMissingChainID)
	case c.RetryMaxAttempts < 1:
		return configurationError(fmt.Errorf("%w: %d", errInvalidMaxAttempts, c.RetryMaxAttempts))
	case c.RetryBaseDelay < 0:
		return configurationError(fmt.Errorf("%w: %s", errNegativeRetryBackoff, c.RetryBaseDelay))
	case c.WaitPollInterval <= 0:
		return configurationError(fmt.Errorf("%w: %s", errInvalidPollInterval, c.WaitPollInterval))
	case c.WaitTimeout <= 0:
		return configurationError(fmt.Errorf("%w: %s", errInvalidWaitTimeout, c.WaitTimeout))
	case c.MaxRequestsPerSecond < 0:
		return configurationError(fmt.Errorf("%w: %f", errNegativeRateLimit, c.MaxRequestsPerSecond))
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return configurationError(fmt.Errorf("%w: %s", errInvalidURL, err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return configurationError(fmt.Errorf("%w: %q", errInvalidURL, rpc.Redacted(c.URL)))
	}
	return nil
}
