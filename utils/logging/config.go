// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

// Config defines the configuration of a logger
type Config struct {
	// Directory log files are written to. Empty disables file output.
	Directory string `json:"directory"`

	LogLevel     Level  `json:"logLevel"`
	DisplayLevel Level  `json:"displayLevel"`
	LogFormat    Format `json:"logFormat"`

	// MaxSize in megabytes of a log file before it is rotated.
	MaxSize int `json:"maxSize"`
	// MaxFiles is the number of rotated files kept.
	MaxFiles int `json:"maxFiles"`
	// MaxAge in days that rotated files are kept.
	MaxAge   int  `json:"maxAge"`
	Compress bool `json:"compress"`

	DisableWriterDisplaying bool `json:"disableWriterDisplaying"`
}

// DefaultConfig displays Info and above to stdout and writes nothing to disk.
func DefaultConfig() Config {
	return Config{
		LogLevel:     Info,
		DisplayLevel: Info,
		LogFormat:    Plain,
		MaxSize:      8,
		MaxFiles:     7,
		MaxAge:       7,
	}
}
