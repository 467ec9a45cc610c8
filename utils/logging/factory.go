// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewFromConfig returns a logger named [name] that displays to stdout and,
// when [config.Directory] is set, writes rotated files to
// [config.Directory]/[name].log.
func NewFromConfig(name string, config Config) (Logger, error) {
	return newFromConfig(name, config, stdout{os.Stdout})
}

func newFromConfig(name string, config Config, display io.WriteCloser) (Logger, error) {
	displayCore := NewWrappedCore(config.DisplayLevel, display, config.LogFormat.ConsoleEncoder())
	displayCore.WriterDisabled = config.DisableWriterDisplaying
	cores := []WrappedCore{displayCore}

	if config.Directory != "" {
		if err := os.MkdirAll(config.Directory, 0o750); err != nil {
			return nil, err
		}
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(config.Directory, name+".log"),
			MaxSize:    config.MaxSize,
			MaxAge:     config.MaxAge,
			MaxBackups: config.MaxFiles,
			Compress:   config.Compress,
		}
		cores = append(cores, NewWrappedCore(config.LogLevel, rw, config.LogFormat.FileEncoder()))
	}
	return NewLogger(config.LogFormat.WrapPrefix(name), cores...), nil
}

// stdout is never closed when the logger is stopped.
type stdout struct {
	io.Writer
}

func (stdout) Close() error { return nil }
