// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/diem/client-sdk-go/jsonrpc"
	"github.com/diem/client-sdk-go/trace"
	"github.com/diem/client-sdk-go/utils/constants"
	"github.com/diem/client-sdk-go/utils/retry"
)

const (
	// EnvPrefix is prepended to the upper cased, underscored key of every
	// flag to name its environment variable.
	EnvPrefix = "diem"

	flagSetName = "diem-client"

	defaultRPCURL      = "http://localhost:8080/v1"
	defaultHTTPTimeout = 30 * time.Second
)

// BuildFlagSet returns the complete set of flags of a client
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(flagSetName, pflag.ContinueOnError)

	// Config
	fs.String(ConfigFileKey, "", fmt.Sprintf("Specifies a config file. Keys are the flag names; ignored if empty. Env: %s", envName(ConfigFileKey)))

	// Endpoint
	fs.String(RPCURLKey, defaultRPCURL, "Full node JSON-RPC endpoint")
	networkNames := maps.Keys(constants.NetworkNameToChainID)
	slices.Sort(networkNames)
	fs.String(ChainIDKey, constants.TestnetName, fmt.Sprintf("Chain the endpoint serves. One of {%s} or a chain id", strings.Join(networkNames, ", ")))
	fs.Duration(HTTPTimeoutKey, defaultHTTPTimeout, "Timeout of a single HTTP request")
	fs.Float64(MaxRequestsPerSecondKey, 0, "Maximum number of requests sent per second. 0 is unlimited")

	// Retries
	fs.Int(RetryMaxAttemptsKey, retry.DefaultMaxAttempts, "Attempts of a read that keeps receiving stale responses")
	fs.Duration(RetryBaseDelayKey, retry.DefaultBaseDelay, "Delay before the first retry of a stale read. The n-th retry waits n times as long")

	// Transaction waits
	fs.Duration(WaitPollIntervalKey, jsonrpc.DefaultPollInterval, "Time between polls for a submitted transaction")
	fs.Duration(WaitTimeoutKey, jsonrpc.DefaultWaitTimeout, "Time to wait for a submitted transaction when no timeout is given")

	// Logging
	fs.String(LogDirKey, "", "Logging directory. Files are only written if set")
	fs.String(LogLevelKey, "info", "The log level. Should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogDisplayLevelKey, "", "The log display level. If left blank, will inherit the value of log-level. Otherwise, should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogFormatKey, "auto", "The structure of log format. Defaults to 'auto' which formats terminal-like logs, when the output is a terminal. Otherwise, should be one of {auto, plain, colors, json}")
	fs.Uint(LogRotaterMaxSizeKey, 8, "The maximum file size in megabytes of the log file before it gets rotated.")
	fs.Uint(LogRotaterMaxFilesKey, 7, "The maximum number of old log files to retain. 0 means retain all old log files.")
	fs.Uint(LogRotaterMaxAgeKey, 0, "The maximum number of days to retain old log files based on the timestamp encoded in their filename. 0 means retain all old log files.")
	fs.Bool(LogRotaterCompressEnabledKey, false, "Enables the compression of rotated log files through gzip.")
	fs.Bool(LogDisableDisplayPluginLogs, false, "Disables displaying pre-formatted writes to the logger")

	// Metrics
	fs.String(MetricsNamespaceKey, jsonrpc.DefaultNamespace, "Namespace of the client metrics")

	// Tracing
	fs.Bool(TracingEnabledKey, false, "If true, enable opentelemetry tracing")
	fs.String(TracingExporterTypeKey, trace.GRPC.String(), fmt.Sprintf("Type of exporter to use for tracing. Options are [%s, %s]", trace.GRPC, trace.HTTP))
	fs.String(TracingEndpointKey, "localhost:4317", "The endpoint to send trace data to")
	fs.Bool(TracingInsecureKey, true, "If true, don't use TLS when sending trace data")
	fs.Float64(TracingSampleRateKey, 0.1, "The fraction of traces to sample. If >= 1, always sample. If <= 0, never sample")
	fs.StringToString(TracingHeadersKey, map[string]string{}, "The headers to provide the trace indexer")

	return fs
}

// BuildViper parses [args] into [fs] and returns a viper reading, in order of
// precedence, the parsed flags, the environment, the config file and the
// flag defaults.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if configFile := v.GetString(ConfigFileKey); configFile != "" {
		v.SetConfigFile(os.ExpandEnv(configFile))
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func envName(key string) string {
	return strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(key, "-", "_"))
}
