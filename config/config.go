// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config builds client and logging configs from flags, the
// environment and config files.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/diem/client-sdk-go/jsonrpc"
	"github.com/diem/client-sdk-go/trace"
	"github.com/diem/client-sdk-go/utils/constants"
	"github.com/diem/client-sdk-go/utils/logging"
)

const (
	loggerName = "client"
	tracerName = "jsonrpc"
)

var errTracingEndpointEmpty = errors.New(TracingEndpointKey + " cannot be empty")

// Config of a client process
type Config struct {
	Client  jsonrpc.Config `json:"client"`
	Logging logging.Config `json:"logging"`
	Tracing trace.Config   `json:"tracing"`
}

// GetConfig reads every config from [v].
func GetConfig(v *viper.Viper) (Config, error) {
	clientConfig, err := GetClientConfig(v)
	if err != nil {
		return Config{}, err
	}
	loggingConfig, err := GetLoggingConfig(v)
	if err != nil {
		return Config{}, err
	}
	traceConfig, err := GetTraceConfig(v)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Client:  clientConfig,
		Logging: loggingConfig,
		Tracing: traceConfig,
	}, nil
}

// GetClientConfig returns the verified client config in [v].
func GetClientConfig(v *viper.Viper) (jsonrpc.Config, error) {
	chainID, err := constants.ParseChainID(v.GetString(ChainIDKey))
	if err != nil {
		return jsonrpc.Config{}, &jsonrpc.Error{
			Kind: jsonrpc.KindConfiguration,
			Err:  fmt.Errorf("couldn't parse %s: %w", ChainIDKey, err),
		}
	}

	config := jsonrpc.DefaultConfig(v.GetString(RPCURLKey), chainID)
	config.HTTPClient = &http.Client{
		Timeout: v.GetDuration(HTTPTimeoutKey),
	}
	config.MaxRequestsPerSecond = v.GetFloat64(MaxRequestsPerSecondKey)
	config.RetryMaxAttempts = v.GetInt(RetryMaxAttemptsKey)
	config.RetryBaseDelay = v.GetDuration(RetryBaseDelayKey)
	config.WaitPollInterval = v.GetDuration(WaitPollIntervalKey)
	config.WaitTimeout = v.GetDuration(WaitTimeoutKey)
	config.Namespace = v.GetString(MetricsNamespaceKey)
	return config, config.Verify()
}

// GetLoggingConfig returns the logging config in [v].
func GetLoggingConfig(v *viper.Viper) (logging.Config, error) {
	config := logging.DefaultConfig()

	var err error
	config.LogLevel, err = logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return config, err
	}

	config.DisplayLevel = config.LogLevel
	if displayLevel := v.GetString(LogDisplayLevelKey); displayLevel != "" {
		config.DisplayLevel, err = logging.ToLevel(displayLevel)
		if err != nil {
			return config, err
		}
	}

	config.LogFormat, err = logging.ToFormat(v.GetString(LogFormatKey), os.Stdout.Fd())
	if err != nil {
		return config, err
	}

	config.Directory = os.ExpandEnv(v.GetString(LogDirKey))
	config.MaxSize = int(v.GetUint(LogRotaterMaxSizeKey))
	config.MaxFiles = int(v.GetUint(LogRotaterMaxFilesKey))
	config.MaxAge = int(v.GetUint(LogRotaterMaxAgeKey))
	config.Compress = v.GetBool(LogRotaterCompressEnabledKey)
	config.DisableWriterDisplaying = v.GetBool(LogDisableDisplayPluginLogs)
	return config, nil
}

// GetTraceConfig returns the tracing config in [v].
func GetTraceConfig(v *viper.Viper) (trace.Config, error) {
	enabled := v.GetBool(TracingEnabledKey)
	if !enabled {
		return trace.Config{Enabled: false}, nil
	}

	exporterType, err := trace.ExporterTypeFromString(v.GetString(TracingExporterTypeKey))
	if err != nil {
		return trace.Config{}, err
	}
	endpoint := v.GetString(TracingEndpointKey)
	if endpoint == "" {
		return trace.Config{}, errTracingEndpointEmpty
	}
	return trace.Config{
		ExporterConfig: trace.ExporterConfig{
			Type:     exporterType,
			Endpoint: endpoint,
			Insecure: v.GetBool(TracingInsecureKey),
			Headers:  v.GetStringMapString(TracingHeadersKey),
		},
		Enabled:         true,
		TraceSampleRate: v.GetFloat64(TracingSampleRateKey),
		AppName:         constants.AppName,
	}, nil
}

// NewClient returns a client built from [config] logging through a logger
// built from [config.Logging]. If [tracer] is non-nil every call is traced
// by it. The caller should Stop the logger once the client is no longer
// used.
func NewClient(config Config, registerer prometheus.Registerer, tracer trace.Tracer) (jsonrpc.Client, logging.Logger, error) {
	log, err := logging.NewFromConfig(loggerName, config.Logging)
	if err != nil {
		return nil, nil, err
	}

	config.Client.Log = log
	config.Client.Registerer = registerer
	client, err := jsonrpc.NewClient(config.Client)
	if err != nil {
		log.Stop()
		return nil, nil, err
	}
	if tracer != nil {
		client = jsonrpc.Trace(client, tracerName, tracer)
	}
	return client, log, nil
}
