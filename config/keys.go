// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	ConfigFileKey                = "config-file"
	RPCURLKey                    = "rpc-url"
	ChainIDKey                   = "chain-id"
	HTTPTimeoutKey               = "http-timeout"
	MaxRequestsPerSecondKey      = "max-requests-per-second"
	RetryMaxAttemptsKey          = "retry-max-attempts"
	RetryBaseDelayKey            = "retry-base-delay"
	WaitPollIntervalKey          = "wait-poll-interval"
	WaitTimeoutKey               = "wait-timeout"
	LogLevelKey                  = "log-level"
	LogDisplayLevelKey           = "log-display-level"
	LogFormatKey                 = "log-format"
	LogDirKey                    = "log-dir"
	LogRotaterMaxSizeKey         = "log-rotater-max-size"
	LogRotaterMaxFilesKey        = "log-rotater-max-files"
	LogRotaterMaxAgeKey          = "log-rotater-max-age"
	LogRotaterCompressEnabledKey = "log-rotater-compress-enabled"
	LogDisableDisplayPluginLogs  = "log-disable-display-plugin-logs"
	MetricsNamespaceKey          = "metrics-namespace"
	TracingEnabledKey            = "tracing-enabled"
	TracingExporterTypeKey       = "tracing-exporter-type"
	TracingEndpointKey           = "tracing-endpoint"
	TracingInsecureKey           = "tracing-insecure"
	TracingSampleRateKey         = "tracing-sample-rate"
	TracingHeadersKey            = "tracing-headers"
)
